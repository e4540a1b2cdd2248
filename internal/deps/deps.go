package deps

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

// Requirement is an external dependency. Command is an executable found via
// PATH or an explicit path; File is a data file such as a model checkpoint.
// When both are set, File is checked.
type Requirement struct {
	Name        string
	Command     string
	File        string
	Description string
	Optional    bool
}

// Location returns the file or command the requirement points at.
func (r Requirement) Location() string {
	if r.File != "" {
		return r.File
	}
	return r.Command
}

// Status is a requirement plus the outcome of checking it. Detail explains a
// failure and is empty when Available.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Check probes each requirement in order.
func Check(requirements []Requirement) []Status {
	out := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.File = strings.TrimSpace(req.File)
		req.Description = strings.TrimSpace(req.Description)

		var err error
		switch {
		case req.File != "":
			err = regularFile(req.File)
		case req.Command != "":
			if _, lookErr := exec.LookPath(req.Command); lookErr != nil {
				err = fmt.Errorf("binary %q not found", req.Command)
			}
		default:
			err = errors.New("not configured")
		}
		out[i] = Status{Requirement: req, Available: err == nil}
		if err != nil {
			out[i].Detail = err.Error()
		}
	}
	return out
}

// FirstMissing returns the first non-optional status that is unavailable.
func FirstMissing(statuses []Status) (Status, bool) {
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			return s, true
		}
	}
	return Status{}, false
}

func regularFile(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("file %q does not exist", path)
	case err != nil:
		return fmt.Errorf("stat %q: %w", path, err)
	case info.IsDir():
		return fmt.Errorf("%q is a directory", path)
	}
	return nil
}
