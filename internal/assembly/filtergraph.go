package assembly

import (
	"fmt"
	"os"
	"strings"
	"time"

	"subburn/internal/overlay"
)

// OutputLabel names the composited video stream in the filter graph.
const OutputLabel = "vout"

// FilterGraph chains one overlay filter per clip onto the source video. Clip
// i is expected at input firstInput+i. Each overlay is centered horizontally,
// sits on the bottom edge and is enabled for t in [start, end). Overlays with
// disjoint windows never interact, so clip order does not change the output.
func FilterGraph(clips []overlay.Clip, firstInput int) string {
	if len(clips) == 0 {
		return "[0:v]null[" + OutputLabel + "]"
	}
	var b strings.Builder
	prev := "0:v"
	for i, clip := range clips {
		next := fmt.Sprintf("v%d", i+1)
		if i == len(clips)-1 {
			next = OutputLabel
		}
		if i > 0 {
			b.WriteString(";\n")
		}
		fmt.Fprintf(&b, "[%s][%d:v]overlay=x=%s:y=%s:enable='gte(t,%s)*lt(t,%s)'[%s]",
			prev, firstInput+i, horizontalExpr(clip.Position), verticalExpr(clip.Position),
			seconds(clip.Start), seconds(clip.End), next)
		prev = next
	}
	return b.String()
}

// WriteFilterScript writes the graph for clips to path.
func WriteFilterScript(path string, clips []overlay.Clip) error {
	if err := os.WriteFile(path, []byte(FilterGraph(clips, 1)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write filter script: %w", err)
	}
	return nil
}

func horizontalExpr(pos overlay.Position) string {
	switch pos.Horizontal {
	case "left":
		return "0"
	case "right":
		return "W-w"
	default:
		return "(W-w)/2"
	}
}

func verticalExpr(pos overlay.Position) string {
	switch pos.Vertical {
	case "top":
		return "0"
	case "center":
		return "(H-h)/2"
	default:
		return "H-h"
	}
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
