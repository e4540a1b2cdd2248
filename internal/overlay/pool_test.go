package overlay

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"subburn/internal/render"
	"subburn/internal/services"
	"subburn/internal/transcript"
)

type countingRenderer struct {
	active atomic.Int32
	peak   atomic.Int32
	calls  atomic.Int32
	delay  time.Duration
	failOn func(text string) bool
}

func (c *countingRenderer) Render(_ context.Context, spec render.Spec, dest string) (render.Overlay, error) {
	c.calls.Add(1)
	n := c.active.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(c.delay)
	c.active.Add(-1)
	if c.failOn != nil && c.failOn(spec.Text) {
		return render.Overlay{}, &services.RenderError{Text: spec.Text, Err: errors.New("boom")}
	}
	return render.Overlay{Path: dest, Width: spec.Width, Height: spec.Height}, nil
}

func manySegments(n int) []transcript.Segment {
	segments := make([]transcript.Segment, n)
	for i := range segments {
		segments[i] = seg(i*2, i*2+1, "line")
	}
	return segments
}

func TestWorkerCount(t *testing.T) {
	cases := []struct{ segments, max, want int }{
		{0, 8, 0},
		{3, 8, 3},
		{20, 8, 8},
		{20, 4, 4},
		{20, 0, 8},
		{20, 32, 8},
	}
	for _, tc := range cases {
		if got := WorkerCount(tc.segments, tc.max); got != tc.want {
			t.Errorf("WorkerCount(%d, %d) = %d, want %d", tc.segments, tc.max, got, tc.want)
		}
	}
}

func TestBuildAllBoundsConcurrency(t *testing.T) {
	r := &countingRenderer{delay: 5 * time.Millisecond}
	b := NewBuilder(testStyle(), 1280, r, t.TempDir())

	clips, report, err := BuildAll(context.Background(), b, manySegments(40), 8)
	if err != nil {
		t.Fatalf("BuildAll returned error: %v", err)
	}
	if len(clips) != 40 || report.Built != 40 || report.Total != 40 {
		t.Fatalf("expected 40 clips, got %d (%+v)", len(clips), report)
	}
	if report.Workers != 8 {
		t.Fatalf("expected 8 workers, got %d", report.Workers)
	}
	if peak := r.peak.Load(); peak > 8 || peak < 1 {
		t.Fatalf("peak concurrency %d outside [1, 8]", peak)
	}
	seen := make(map[int]bool)
	for _, c := range clips {
		if seen[c.Index] {
			t.Fatalf("duplicate clip for segment %d", c.Index)
		}
		seen[c.Index] = true
	}
}

func TestBuildAllFewSegmentsUsesFewWorkers(t *testing.T) {
	r := &countingRenderer{delay: 5 * time.Millisecond}
	b := NewBuilder(testStyle(), 1280, r, t.TempDir())

	_, report, err := BuildAll(context.Background(), b, manySegments(3), 8)
	if err != nil {
		t.Fatalf("BuildAll returned error: %v", err)
	}
	if report.Workers != 3 || r.peak.Load() > 3 {
		t.Fatalf("expected at most 3 workers, report=%+v peak=%d", report, r.peak.Load())
	}
}

func TestBuildAllDropsAndKeepsTheRest(t *testing.T) {
	r := &countingRenderer{}
	b := NewBuilder(testStyle(), 1280, r, t.TempDir())
	segments := []transcript.Segment{
		seg(0, 3, "Hello there."),
		seg(3, 4, ""),
		seg(5, 8, "How are you?"),
		seg(9, 9, "instant"),
	}

	clips, report, err := BuildAll(context.Background(), b, segments, 8)
	if err != nil {
		t.Fatalf("BuildAll returned error: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(clips))
	}
	if report.Dropped[DropEmptyText] != 1 || report.Dropped[DropInvalidTiming] != 1 || report.DroppedCount() != 2 {
		t.Fatalf("unexpected drop counts %+v", report.Dropped)
	}
}

func TestBuildAllNoOverlays(t *testing.T) {
	cases := map[string][]transcript.Segment{
		"no segments": nil,
		"all empty":   {seg(0, 1, ""), seg(1, 2, "  ")},
	}
	for name, segments := range cases {
		b := NewBuilder(testStyle(), 1280, &countingRenderer{}, t.TempDir())
		clips, _, err := BuildAll(context.Background(), b, segments, 8)
		var noOverlays *services.NoOverlaysProducedError
		if !errors.As(err, &noOverlays) {
			t.Errorf("%s: expected NoOverlaysProducedError, got %v", name, err)
		}
		if len(clips) != 0 {
			t.Errorf("%s: expected no clips", name)
		}
	}
}

func TestBuildAllAllRenderFailures(t *testing.T) {
	r := &countingRenderer{failOn: func(string) bool { return true }}
	b := NewBuilder(testStyle(), 1280, r, t.TempDir())
	_, report, err := BuildAll(context.Background(), b, manySegments(5), 8)
	var noOverlays *services.NoOverlaysProducedError
	if !errors.As(err, &noOverlays) || noOverlays.Dropped != 5 {
		t.Fatalf("expected NoOverlaysProducedError with 5 drops, got %v", err)
	}
	if report.Dropped[DropRenderFailed] != 5 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestBuildAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := NewBuilder(testStyle(), 1280, &countingRenderer{}, t.TempDir())
	_, _, err := BuildAll(ctx, b, manySegments(10), 8)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
