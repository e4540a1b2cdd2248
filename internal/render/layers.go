package render

import (
	"errors"
	"strings"
)

// Spec describes one subtitle image.
type Spec struct {
	Text         string
	Width        int
	Height       int
	FontSize     float64
	Font         string
	TextColor    string
	OutlineColor string
	// Offset is the outline displacement in pixels.
	Offset int
}

// Layer is one copy of the text drawn at (DX, DY) relative to the centered
// position. Fill marks the foreground layer.
type Layer struct {
	Color string
	DX    int
	DY    int
	Fill  bool
}

// outlineDirections lists the eight neighbours in drawing order.
var outlineDirections = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Layers returns the drawing order for spec. When the text and outline colors
// match (ignoring case) only the fill layer is drawn; otherwise the eight
// outline copies come first and the fill layer is last so it stays on top.
func Layers(spec Spec) []Layer {
	fill := Layer{Color: spec.TextColor, Fill: true}
	if strings.EqualFold(strings.TrimSpace(spec.TextColor), strings.TrimSpace(spec.OutlineColor)) {
		return []Layer{fill}
	}
	layers := make([]Layer, 0, len(outlineDirections)+1)
	for _, dir := range outlineDirections {
		layers = append(layers, Layer{
			Color: spec.OutlineColor,
			DX:    dir[0] * spec.Offset,
			DY:    dir[1] * spec.Offset,
		})
	}
	return append(layers, fill)
}

// Validate rejects specs the rasterizer cannot draw.
func (s Spec) Validate() error {
	var errs []error
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, errors.New("canvas dimensions must be positive"))
	}
	if s.FontSize <= 0 {
		errs = append(errs, errors.New("font size must be positive"))
	}
	if strings.TrimSpace(s.Font) == "" {
		errs = append(errs, errors.New("font is required"))
	}
	if strings.TrimSpace(s.TextColor) == "" || strings.TrimSpace(s.OutlineColor) == "" {
		errs = append(errs, errors.New("text and outline colors are required"))
	}
	if s.Offset < 0 {
		errs = append(errs, errors.New("outline offset must not be negative"))
	}
	return errors.Join(errs...)
}
