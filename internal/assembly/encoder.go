package assembly

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"subburn/internal/overlay"
	"subburn/internal/services"
)

const (
	DefaultVideoCodec = "libx264"
	DefaultPreset     = "veryfast"
)

// Job describes one composite encode.
type Job struct {
	Source string
	Clips  []overlay.Clip
	// Script is the filter graph file written by WriteFilterScript.
	Script string
	Output string
	// FrameRate is passed to -r unchanged, e.g. "30000/1001".
	FrameRate string
}

// Encoder runs the final ffmpeg encode.
type Encoder struct {
	binary string
	codec  string
	preset string
	run    services.CommandRunner
}

// NewEncoder returns an encoder for the given ffmpeg binary and codec settings.
func NewEncoder(binary, codec, preset string) *Encoder {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	if strings.TrimSpace(codec) == "" {
		codec = DefaultVideoCodec
	}
	if strings.TrimSpace(preset) == "" {
		preset = DefaultPreset
	}
	return &Encoder{binary: binary, codec: codec, preset: preset, run: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Encoder) WithCommandRunner(runner services.CommandRunner) *Encoder {
	if runner != nil {
		e.run = runner
	}
	return e
}

// Args returns the ffmpeg arguments for job. The source audio, when present,
// is copied without re-encoding.
func (e *Encoder) Args(job Job) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", job.Source}
	for _, clip := range job.Clips {
		args = append(args, "-i", clip.Path)
	}
	args = append(args,
		"-filter_complex_script", job.Script,
		"-map", "["+OutputLabel+"]",
		"-map", "0:a?",
		"-c:a", "copy",
	)
	if job.FrameRate != "" {
		args = append(args, "-r", job.FrameRate)
	}
	return append(args,
		"-c:v", e.codec,
		"-preset", e.preset,
		"-pix_fmt", "yuv420p",
		job.Output,
	)
}

// Encode runs ffmpeg for job and verifies the output file exists.
func (e *Encoder) Encode(ctx context.Context, job Job) error {
	if job.Source == "" || job.Output == "" || job.Script == "" {
		return services.Wrap(services.ErrValidation, "encode", "ffmpeg", "source, script and output are required", nil)
	}
	if err := e.run(ctx, e.binary, e.Args(job)...); err != nil {
		return services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", "composite encode failed", err)
	}
	info, err := os.Stat(job.Output)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", "output missing", err)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrExternalTool, "encode", "ffmpeg", fmt.Sprintf("output %s is empty", job.Output), errors.New("zero-byte output"))
	}
	return nil
}
