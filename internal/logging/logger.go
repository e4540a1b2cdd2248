package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"subburn/internal/config"
)

// LogFileName is the file written under the configured log directory.
const LogFileName = "subburn.log"

// Options describes logger construction parameters. OutputPaths accepts file
// paths plus the names "stdout" and "stderr"; empty means stderr.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	Development bool
}

// New builds a console ("pretty") or JSON logger. Source locations are
// attached in development mode and at debug level.
func New(opts Options) (*slog.Logger, error) {
	lvl := new(slog.LevelVar)
	lvl.Set(parseLevel(opts.Level))
	withSource := opts.Development || lvl.Level() <= slog.LevelDebug

	var build func(io.Writer, *slog.LevelVar, bool) slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		build = newPrettyHandler
	case "json":
		build = newJSONHandler
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	w, err := openWriters(opts.OutputPaths)
	if err != nil {
		return nil, err
	}
	return slog.New(build(w, lvl, withSource)), nil
}

// NewFromConfig logs to stderr and, when a log directory is configured, to
// LogFileName inside it.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info"})
	}
	outputs := []string{"stderr"}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		outputs = append(outputs, filepath.Join(dir, LogFileName))
	}
	return New(Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, OutputPaths: outputs})
}

func parseLevel(level string) slog.Level {
	var lvl slog.Level
	switch s := strings.ToLower(strings.TrimSpace(level)); s {
	case "warning":
		return slog.LevelWarn
	case "":
		return slog.LevelInfo
	default:
		if err := lvl.UnmarshalText([]byte(s)); err != nil {
			return slog.LevelInfo
		}
		return lvl
	}
}

func openWriters(paths []string) (io.Writer, error) {
	var writers []io.Writer
	var opened []string
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" || slices.Contains(opened, path) {
			continue
		}
		opened = append(opened, path)
		w, err := openSink(path)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}

func openSink(path string) (io.Writer, error) {
	switch path {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}
