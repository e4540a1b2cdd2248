package overlay

import (
	"time"

	"subburn/internal/config"
)

// Position anchors an overlay on the video frame.
type Position struct {
	Horizontal string
	Vertical   string
}

// BottomCenter is the only placement subtitles use.
var BottomCenter = Position{Horizontal: "center", Vertical: "bottom"}

// Clip is a rendered subtitle image and the half-open window [Start, End)
// during which it is shown.
type Clip struct {
	Index    int
	Path     string
	Text     string
	Width    int
	Height   int
	Position Position
	Start    time.Duration
	End      time.Duration
}

// Duration returns how long the clip is visible.
func (c Clip) Duration() time.Duration {
	return c.End - c.Start
}

// ActiveAt reports whether the clip is visible at t.
func (c Clip) ActiveAt(t time.Duration) bool {
	return t >= c.Start && t < c.End
}

// Style holds the rendering and layout settings shared by every segment.
type Style struct {
	Font          string
	FontSize      float64
	TextColor     string
	OutlineColor  string
	BoxHeight     int
	OutlineOffset int
	WrapWidth     int
	MaxLines      int
}

// StyleFromConfig copies the style section of cfg.
func StyleFromConfig(cfg config.Style) Style {
	return Style{
		Font:          cfg.Font,
		FontSize:      cfg.FontSize,
		TextColor:     cfg.TextColor,
		OutlineColor:  cfg.OutlineColor,
		BoxHeight:     cfg.BoxHeight,
		OutlineOffset: cfg.OutlineOffset,
		WrapWidth:     cfg.WrapWidth,
		MaxLines:      cfg.MaxLines,
	}
}
