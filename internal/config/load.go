package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig []byte

// projectConfigName is looked up in the working directory when no user
// config exists.
const projectConfigName = "subburn.toml"

// DefaultConfigPath returns the expanded per-user config location.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// Load reads the config at path, or searches the default locations when path
// is empty. A missing file yields the defaults. It returns the config, the
// path that was (or would be) read and whether that file exists.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			var decodeErr *toml.DecodeError
			if errors.As(err, &decodeErr) {
				row, col := decodeErr.Position()
				return nil, "", false, fmt.Errorf("parse config %s:%d:%d: %w", resolved, row, col, err)
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// locate resolves an explicit path, or picks the first existing file among
// the user config and ./subburn.toml. With nothing found it reports the user
// config path as missing.
func locate(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		found, err := isFile(expanded)
		return expanded, found, err
	}

	user, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	project, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{user, project} {
		if found, _ := isFile(candidate); found {
			return candidate, true, nil
		}
	}
	return user, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("config %s is a directory", path)
	}
	return true, nil
}

// ExpandPath resolves a leading ~ to the home directory and returns the
// cleaned absolute path. Empty stays empty.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}


// CreateSample writes the annotated sample config to path, creating parent
// directories.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, sampleConfig, 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
