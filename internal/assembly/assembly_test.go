package assembly

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"subburn/internal/overlay"
	"subburn/internal/services"
)

func clip(index int, path string, start, end time.Duration) overlay.Clip {
	return overlay.Clip{Index: index, Path: path, Position: overlay.BottomCenter, Start: start, End: end}
}

func TestFilterGraph(t *testing.T) {
	clips := []overlay.Clip{
		clip(0, "a.png", 0, 3*time.Second),
		clip(1, "b.png", 5*time.Second, 8*time.Second),
	}
	graph := FilterGraph(clips, 1)
	want := "[0:v][1:v]overlay=x=(W-w)/2:y=H-h:enable='gte(t,0.000)*lt(t,3.000)'[v1];\n" +
		"[v1][2:v]overlay=x=(W-w)/2:y=H-h:enable='gte(t,5.000)*lt(t,8.000)'[vout]"
	if graph != want {
		t.Fatalf("unexpected graph:\n%s\nwant:\n%s", graph, want)
	}
}

func TestFilterGraphSingleAndEmpty(t *testing.T) {
	single := FilterGraph([]overlay.Clip{clip(0, "a.png", 1500*time.Millisecond, 2*time.Second)}, 1)
	if !strings.HasSuffix(single, "[vout]") || !strings.Contains(single, "gte(t,1.500)*lt(t,2.000)") {
		t.Fatalf("unexpected single graph %q", single)
	}
	if got := FilterGraph(nil, 1); got != "[0:v]null[vout]" {
		t.Fatalf("unexpected empty graph %q", got)
	}
}

func TestEncoderArgs(t *testing.T) {
	e := NewEncoder("", "", "")
	args := e.Args(Job{
		Source:    "in.mp4",
		Clips:     []overlay.Clip{clip(0, "a.png", 0, time.Second), clip(1, "b.png", time.Second, 2*time.Second)},
		Script:    "graph.txt",
		Output:    "out.mkv",
		FrameRate: "30000/1001",
	})
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-i in.mp4 -i a.png -i b.png",
		"-filter_complex_script graph.txt",
		"-map [vout] -map 0:a? -c:a copy",
		"-r 30000/1001",
		"-c:v libx264 -preset veryfast",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in %q", want, joined)
		}
	}
	if args[len(args)-1] != "out.mkv" {
		t.Fatalf("expected output last, got %v", args)
	}
}

func TestEncodeRunsAndChecksOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.mp4")
	script := filepath.Join(dir, "graph.txt")
	clips := []overlay.Clip{clip(0, "a.png", 0, time.Second)}
	if err := WriteFilterScript(script, clips); err != nil {
		t.Fatalf("WriteFilterScript: %v", err)
	}
	data, err := os.ReadFile(script)
	if err != nil || !strings.Contains(string(data), "[vout]") {
		t.Fatalf("unexpected script %q (%v)", data, err)
	}

	e := NewEncoder("ffmpeg-test", "libx264", "veryfast").WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != "ffmpeg-test" {
			t.Errorf("unexpected binary %q", name)
		}
		return os.WriteFile(args[len(args)-1], []byte("video"), 0o644)
	})
	if err := e.Encode(context.Background(), Job{Source: "in.mp4", Clips: clips, Script: script, Output: out, FrameRate: "25/1"}); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
}

func TestEncodeFailures(t *testing.T) {
	dir := t.TempDir()
	job := Job{Source: "in.mp4", Script: "graph.txt", Output: filepath.Join(dir, "out.mp4")}

	failing := NewEncoder("ffmpeg", "", "").WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("Unknown encoder")
	})
	if err := failing.Encode(context.Background(), job); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}

	silent := NewEncoder("ffmpeg", "", "").WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	if err := silent.Encode(context.Background(), job); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected missing output error, got %v", err)
	}

	if err := silent.Encode(context.Background(), Job{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
