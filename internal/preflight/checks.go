package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"subburn/internal/config"
	"subburn/internal/services/llm"
)

const llmCheckTimeout = 30 * time.Second

// Access modes for directory checks.
const (
	ReadOnly  = unix.R_OK | unix.X_OK
	ReadWrite = unix.R_OK | unix.W_OK | unix.X_OK
)

// CheckLLM sends one JSON completion to the translation endpoint. The check
// is bounded by the configured request timeout, or 30s when unset.
func CheckLLM(ctx context.Context, name string, cfg config.Translation) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}
	timeout := llmCheckTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		Referer:        cfg.Referer,
		Title:          cfg.Title,
		TimeoutSeconds: cfg.TimeoutSeconds,
	})
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable (model %s)", cfg.BaseURL, cfg.Model)}
}

// CheckDirectoryAccess verifies that path is a directory the current user can
// use with the given access mode (ReadOnly or ReadWrite).
func CheckDirectoryAccess(name, path string, mode uint32) Result {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Result{Name: name, Detail: path + " does not exist"}
	case err != nil:
		return Result{Name: name, Detail: fmt.Sprintf("stat %s: %v", path, err)}
	case !info.IsDir():
		return Result{Name: name, Detail: path + " is not a directory"}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s: insufficient permissions: %v", path, err)}
	}
	label := "read ok"
	if mode&unix.W_OK != 0 {
		label = "read/write ok"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

func summarizeLLMError(err error) string {
	var netErr net.Error
	var status *llm.HTTPStatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out waiting for the translation API"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "translation API unreachable (timeout)"
	case errors.As(err, &status) && (status.StatusCode == 401 || status.StatusCode == 403):
		return fmt.Sprintf("API key rejected (HTTP %d)", status.StatusCode)
	default:
		return err.Error()
	}
}
