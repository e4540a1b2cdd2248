package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// prettyHandler writes one line per record:
//
//	2026-01-02T15:04:05Z INFO [pipeline] run 1f2e3d4c (transcription) – message key=value
type prettyHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	addSource bool
	scope     scope
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, w: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	fs := h.scope.flatten(record)
	component := fs.take(FieldComponent)
	subject := runSubject(fs.take(FieldRunID), fs.take(FieldStage))

	var b strings.Builder
	b.WriteString(ts.UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(levelLabel(record.Level))
	if component != "" {
		fmt.Fprintf(&b, " [%s]", component)
	}
	if subject != "" {
		b.WriteByte(' ')
		b.WriteString(subject)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(" – ")
	b.WriteString(msg)
	if src := record.Source(); h.addSource && src != nil {
		fmt.Fprintf(&b, " [%s:%d]", filepath.Base(src.File), src.Line)
	}
	fs.writeTo(&b, nil)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.scope = h.scope.withAttrs(attrs)
	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.scope = h.scope.withGroup(name)
	return &next
}

// runSubject renders "run <id> (<stage>)", keeping only the first block of a
// UUID run ID.
func runSubject(runID, stage string) string {
	runID, _, _ = strings.Cut(strings.TrimSpace(runID), "-")
	stage = strings.TrimSpace(stage)
	switch {
	case runID == "":
		return stage
	case stage == "":
		return "run " + runID
	}
	return fmt.Sprintf("run %s (%s)", runID, stage)
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}
