package render

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"subburn/internal/services"
)

// Overlay is a rendered subtitle image on disk.
type Overlay struct {
	Path   string
	Width  int
	Height int
	Layers []Layer
}

// Renderer rasterizes specs into transparent PNG files with ImageMagick.
type Renderer struct {
	binary string
	run    services.CommandRunner
}

// NewRenderer returns a renderer that invokes binary (default "magick").
func NewRenderer(binary string) *Renderer {
	if strings.TrimSpace(binary) == "" {
		binary = "magick"
	}
	return &Renderer{binary: binary, run: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Renderer) WithCommandRunner(runner services.CommandRunner) *Renderer {
	if runner != nil {
		r.run = runner
	}
	return r
}

// Render draws spec into dest. Any failure is returned as *services.RenderError.
func (r *Renderer) Render(ctx context.Context, spec Spec, dest string) (Overlay, error) {
	if err := spec.Validate(); err != nil {
		return Overlay{}, &services.RenderError{Text: spec.Text, Err: err}
	}
	layers := Layers(spec)
	if err := r.run(ctx, r.binary, Args(spec, layers, dest)...); err != nil {
		return Overlay{}, &services.RenderError{Text: spec.Text, Err: err}
	}
	info, err := os.Stat(dest)
	if err != nil {
		return Overlay{}, &services.RenderError{Text: spec.Text, Err: fmt.Errorf("renderer produced no image: %w", err)}
	}
	if info.Size() == 0 {
		return Overlay{}, &services.RenderError{Text: spec.Text, Err: fmt.Errorf("renderer produced an empty image at %s", dest)}
	}
	return Overlay{Path: dest, Width: spec.Width, Height: spec.Height, Layers: layers}, nil
}

// Args builds a single ImageMagick invocation: a transparent canvas followed by
// one caption per layer, composited in order. Blank text yields the bare
// canvas.
func Args(spec Spec, layers []Layer, dest string) []string {
	size := fmt.Sprintf("%dx%d", spec.Width, spec.Height)
	args := []string{
		"-size", size,
		"-background", "none",
		"-gravity", "center",
		"-font", spec.Font,
		"-pointsize", strconv.FormatFloat(spec.FontSize, 'f', -1, 64),
		"xc:none",
	}
	if strings.TrimSpace(spec.Text) != "" {
		caption := "caption:" + escapeCaption(spec.Text)
		for _, layer := range layers {
			args = append(args,
				"(", "-size", size, "-fill", layer.Color, caption, ")",
				"-geometry", fmt.Sprintf("%+d%+d", layer.DX, layer.DY),
				"-composite",
			)
		}
	}
	return append(args, "PNG32:"+dest)
}

// escapeCaption disables ImageMagick's file indirection and percent escapes.
func escapeCaption(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, "%", "%%")
	if strings.HasPrefix(text, "@") {
		text = `\` + text
	}
	return text
}
