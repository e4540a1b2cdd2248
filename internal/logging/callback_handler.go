package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// callbackHandler forwards each record as a single human-readable line to a
// caller-supplied function. Bookkeeping attributes (component, run, stage,
// event classification) are omitted; error and detail attributes are kept.
type callbackHandler struct {
	mu    *sync.Mutex
	fn    func(string)
	level slog.Level
	scope scope
}

// NewCallbackHandler returns a handler that calls fn for every record at or
// above level. A nil fn yields a NoopHandler. Calls to fn are serialized.
func NewCallbackHandler(fn func(string), level slog.Level) slog.Handler {
	if fn == nil {
		return NoopHandler{}
	}
	return &callbackHandler{mu: &sync.Mutex{}, fn: fn, level: level}
}

func (h *callbackHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *callbackHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(record.Message))
	h.scope.flatten(record).writeTo(&b, callbackHiddenKey)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.fn(b.String())
	return nil
}

func (h *callbackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.scope = h.scope.withAttrs(attrs)
	return &clone
}

func (h *callbackHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.scope = h.scope.withGroup(name)
	return &clone
}

func callbackHiddenKey(key string) bool {
	switch key {
	case FieldComponent, FieldRunID, FieldStage, FieldEventType, FieldErrorHint, FieldImpact:
		return true
	}
	return false
}
