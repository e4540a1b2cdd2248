package overlay

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"subburn/internal/logging"
	"subburn/internal/render"
	"subburn/internal/services"
	"subburn/internal/textutil"
	"subburn/internal/transcript"
)

// DropReason explains why a segment produced no clip.
type DropReason string

const (
	DropEmptyText         DropReason = "empty_text"
	DropInvalidTiming     DropReason = "invalid_timing"
	DropTranslationFailed DropReason = "translation_failed"
	DropRenderFailed      DropReason = "render_failed"
)

// Drop records a skipped segment.
type Drop struct {
	Reason DropReason
	Err    error
}

// Result is the outcome of building one segment: exactly one of Clip or Drop
// is set.
type Result struct {
	Index int
	Clip  *Clip
	Drop  *Drop
}

// Rasterizer draws a render spec to dest.
type Rasterizer interface {
	Render(ctx context.Context, spec render.Spec, dest string) (render.Overlay, error)
}

// Translator converts subtitle text into the configured target language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(ctx context.Context, text string) (string, error)

func (f TranslatorFunc) Translate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Builder turns transcript segments into positioned overlay clips.
type Builder struct {
	style      Style
	videoWidth int
	renderer   Rasterizer
	dir        string
	translator Translator
	target     string
	logger     *slog.Logger
}

// Option customizes a Builder.
type Option func(*Builder)

// WithTranslator translates every segment to target before rendering.
func WithTranslator(t Translator, target string) Option {
	return func(b *Builder) {
		b.translator = t
		b.target = target
	}
}

// WithLogger sets the builder's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder returns a builder that writes images into dir.
func NewBuilder(style Style, videoWidth int, renderer Rasterizer, dir string, opts ...Option) *Builder {
	b := &Builder{
		style:      style,
		videoWidth: videoWidth,
		renderer:   renderer,
		dir:        dir,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build processes one segment. It never returns an error: every failure
// becomes a Drop, including a panic inside a collaborator.
func (b *Builder) Build(ctx context.Context, index int, seg transcript.Segment) (result Result) {
	result.Index = index
	defer func() {
		if r := recover(); r != nil {
			result.Clip = nil
			result.Drop = &Drop{Reason: DropRenderFailed, Err: &services.RenderError{Text: seg.Text, Err: fmt.Errorf("panic: %v", r)}}
		}
	}()

	text := strings.TrimSpace(seg.Text)
	if text == "" {
		result.Drop = &Drop{Reason: DropEmptyText}
		return result
	}
	if !seg.ValidTiming() {
		result.Drop = &Drop{Reason: DropInvalidTiming, Err: fmt.Errorf("segment window %s to %s is empty", seg.Start, seg.End)}
		return result
	}

	if b.translator != nil {
		translated, err := b.translator.Translate(ctx, text)
		if err != nil {
			result.Drop = &Drop{Reason: DropTranslationFailed, Err: &services.TranslationError{Text: text, Target: b.target, Err: err}}
			return result
		}
		text = translated
	}

	// A wrap that yields no lines still renders a blank image.
	wrapped := textutil.WrapLines(textutil.FixSpacing(text), b.style.WrapWidth, b.style.MaxLines)

	spec := render.Spec{
		Text:         wrapped,
		Width:        b.videoWidth,
		Height:       b.style.BoxHeight,
		FontSize:     b.style.FontSize,
		Font:         b.style.Font,
		TextColor:    b.style.TextColor,
		OutlineColor: b.style.OutlineColor,
		Offset:       b.style.OutlineOffset,
	}
	dest := filepath.Join(b.dir, fmt.Sprintf("overlay_%05d.png", index))
	rendered, err := b.renderer.Render(ctx, spec, dest)
	if err != nil {
		result.Drop = &Drop{Reason: DropRenderFailed, Err: err}
		return result
	}

	b.logger.Debug("subtitle rendered",
		logging.Int("index", index),
		logging.Duration("start", seg.Start),
		logging.Duration("end", seg.End),
		logging.String("path", rendered.Path),
	)
	result.Clip = &Clip{
		Index:    index,
		Path:     rendered.Path,
		Text:     wrapped,
		Width:    rendered.Width,
		Height:   rendered.Height,
		Position: BottomCenter,
		Start:    seg.Start,
		End:      seg.End,
	}
	return result
}
