package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap tags err with one of the sentinel markers above and prefixes it with
// the stage and operation. A nil marker means ErrTransient.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether err must terminate a run. Per-segment failures
// (translation, rendering) are recovered by dropping the segment.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	var translationErr *TranslationError
	var renderErr *RenderError
	return !errors.As(err, &translationErr) && !errors.As(err, &renderErr)
}

// buildDetail joins the non-blank parts as "stage: op: message".
func buildDetail(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "service failure"
	}
	return strings.Join(kept, ": ")
}

// DependencyMissingError reports an external binary or model file that is
// absent. It is raised before any stateful work begins.
type DependencyMissingError struct {
	Name string
	Path string
}

func (e *DependencyMissingError) Error() string {
	return fmt.Sprintf("%s not found at %s", e.Name, e.Path)
}

func (e *DependencyMissingError) Is(target error) bool { return target == ErrNotFound }

// AudioExtractionError reports that the encoder could not produce the
// temporary audio track.
type AudioExtractionError struct {
	Source string
	Err    error
}

func (e *AudioExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("audio extraction failed for %s", e.Source)
	}
	return fmt.Sprintf("audio extraction failed for %s: %v", e.Source, e.Err)
}

func (e *AudioExtractionError) Unwrap() error { return e.Err }

func (e *AudioExtractionError) Is(target error) bool { return target == ErrExternalTool }

// EmptyTranscriptionError reports that recognition returned no segments.
type EmptyTranscriptionError struct {
	Audio string
}

func (e *EmptyTranscriptionError) Error() string {
	return fmt.Sprintf("no segments found in transcription of %s", e.Audio)
}

func (e *EmptyTranscriptionError) Is(target error) bool { return target == ErrValidation }

// TranslationError reports a failed call to the translation service for one
// segment.
type TranslationError struct {
	Text   string
	Target string
	Err    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translate to %s: %v", e.Target, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

// RenderError reports that a subtitle image could not be produced for one
// segment (missing font, renderer failure, no output file).
type RenderError struct {
	Text string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render subtitle: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// NoOverlaysProducedError reports that every segment was dropped.
type NoOverlaysProducedError struct {
	Segments int
	Dropped  int
}

func (e *NoOverlaysProducedError) Error() string {
	return fmt.Sprintf("no subtitles were generated (%d segments, %d dropped)", e.Segments, e.Dropped)
}

func (e *NoOverlaysProducedError) Is(target error) bool { return target == ErrValidation }
