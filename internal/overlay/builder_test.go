package overlay

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"subburn/internal/render"
	"subburn/internal/services"
	"subburn/internal/transcript"
)

type fakeRenderer struct {
	mu    sync.Mutex
	specs []render.Spec
	err   error
	panic bool
}

func (f *fakeRenderer) Render(_ context.Context, spec render.Spec, dest string) (render.Overlay, error) {
	if f.panic {
		panic("renderer exploded")
	}
	f.mu.Lock()
	f.specs = append(f.specs, spec)
	f.mu.Unlock()
	if f.err != nil {
		return render.Overlay{}, &services.RenderError{Text: spec.Text, Err: f.err}
	}
	return render.Overlay{Path: dest, Width: spec.Width, Height: spec.Height, Layers: render.Layers(spec)}, nil
}

func testStyle() Style {
	return Style{
		Font:          "Arial",
		FontSize:      18,
		TextColor:     "white",
		OutlineColor:  "black",
		BoxHeight:     40,
		OutlineOffset: 1,
		WrapWidth:     60,
		MaxLines:      2,
	}
}

func seg(start, end int, text string) transcript.Segment {
	return transcript.Segment{Start: time.Duration(start) * time.Second, End: time.Duration(end) * time.Second, Text: text}
}

func TestBuildProducesPositionedClip(t *testing.T) {
	r := &fakeRenderer{}
	b := NewBuilder(testStyle(), 1280, r, t.TempDir())

	res := b.Build(context.Background(), 3, seg(5, 8, "Hello.World"))
	if res.Drop != nil || res.Clip == nil {
		t.Fatalf("expected clip, got drop %+v", res.Drop)
	}
	clip := res.Clip
	if clip.Index != 3 || clip.Start != 5*time.Second || clip.End != 8*time.Second {
		t.Fatalf("unexpected clip timing %+v", clip)
	}
	if clip.Position != BottomCenter || clip.Width != 1280 || clip.Height != 40 {
		t.Fatalf("unexpected clip geometry %+v", clip)
	}
	if clip.Text != "Hello. World" {
		t.Fatalf("expected normalized text, got %q", clip.Text)
	}
	if !strings.HasSuffix(clip.Path, "overlay_00003.png") {
		t.Fatalf("unexpected path %q", clip.Path)
	}
	if clip.Duration() != 3*time.Second || !clip.ActiveAt(5*time.Second) || clip.ActiveAt(8*time.Second) {
		t.Fatal("expected half-open [start, end) window")
	}
	spec := r.specs[0]
	if spec.FontSize != 18 || spec.Font != "Arial" || spec.Offset != 1 {
		t.Fatalf("unexpected spec %+v", spec)
	}
}

func TestBuildWrapsAndTruncates(t *testing.T) {
	r := &fakeRenderer{}
	style := testStyle()
	style.WrapWidth = 10
	b := NewBuilder(style, 640, r, t.TempDir())

	res := b.Build(context.Background(), 0, seg(0, 2, "one two three four five six seven"))
	if res.Clip == nil {
		t.Fatalf("expected clip, got %+v", res.Drop)
	}
	if res.Clip.Text != "one two\nthree four" {
		t.Fatalf("expected first two wrapped lines, got %q", res.Clip.Text)
	}
}

func TestBuildDrops(t *testing.T) {
	failingTranslator := TranslatorFunc(func(context.Context, string) (string, error) {
		return "", errors.New("quota exceeded")
	})

	cases := []struct {
		name     string
		segment  transcript.Segment
		renderer *fakeRenderer
		opts     []Option
		reason   DropReason
		target   any
	}{
		{"empty text", seg(0, 1, "   "), &fakeRenderer{}, nil, DropEmptyText, nil},
		{"zero length", seg(4, 4, "hi"), &fakeRenderer{}, nil, DropInvalidTiming, nil},
		{"reversed", seg(5, 2, "hi"), &fakeRenderer{}, nil, DropInvalidTiming, nil},
		{"translation", seg(0, 1, "hi"), &fakeRenderer{}, []Option{WithTranslator(failingTranslator, "pt")}, DropTranslationFailed, new(*services.TranslationError)},
		{"render", seg(0, 1, "hi"), &fakeRenderer{err: errors.New("font missing")}, nil, DropRenderFailed, new(*services.RenderError)},
		{"panic", seg(0, 1, "hi"), &fakeRenderer{panic: true}, nil, DropRenderFailed, new(*services.RenderError)},
	}
	for _, tc := range cases {
		b := NewBuilder(testStyle(), 1280, tc.renderer, t.TempDir(), tc.opts...)
		res := b.Build(context.Background(), 1, tc.segment)
		if res.Clip != nil || res.Drop == nil {
			t.Errorf("%s: expected drop, got %+v", tc.name, res)
			continue
		}
		if res.Drop.Reason != tc.reason {
			t.Errorf("%s: reason %q, want %q", tc.name, res.Drop.Reason, tc.reason)
		}
		if tc.target != nil && !errors.As(res.Drop.Err, tc.target) {
			t.Errorf("%s: unexpected error type %T", tc.name, res.Drop.Err)
		}
	}
}

func TestBuildEmptyTextSkipsTranslation(t *testing.T) {
	called := false
	tr := TranslatorFunc(func(context.Context, string) (string, error) {
		called = true
		return "x", nil
	})
	b := NewBuilder(testStyle(), 1280, &fakeRenderer{}, t.TempDir(), WithTranslator(tr, "pt"))
	b.Build(context.Background(), 0, seg(0, 1, ""))
	if called {
		t.Fatal("translator must not be called for empty text")
	}
}

func TestBuildTranslatesBeforeNormalizing(t *testing.T) {
	var seen string
	tr := TranslatorFunc(func(_ context.Context, text string) (string, error) {
		seen = text
		return "Olá.Tudo bem?Sim", nil
	})
	r := &fakeRenderer{}
	b := NewBuilder(testStyle(), 1280, r, t.TempDir(), WithTranslator(tr, "pt"))

	res := b.Build(context.Background(), 0, seg(0, 3, "  Hello.How are you?Yes  "))
	if res.Clip == nil {
		t.Fatalf("expected clip, got %+v", res.Drop)
	}
	if seen != "Hello.How are you?Yes" {
		t.Fatalf("translator received %q", seen)
	}
	if res.Clip.Text != "Olá. Tudo bem? Sim" {
		t.Fatalf("expected normalized translation, got %q", res.Clip.Text)
	}
}

func TestBuildBlankTranslationStillRenders(t *testing.T) {
	tr := TranslatorFunc(func(context.Context, string) (string, error) { return "   ", nil })
	r := &fakeRenderer{}
	b := NewBuilder(testStyle(), 1280, r, t.TempDir(), WithTranslator(tr, "pt"))

	res := b.Build(context.Background(), 0, seg(0, 3, "hello"))
	if res.Clip == nil {
		t.Fatalf("expected blank overlay clip, got %+v", res.Drop)
	}
	if res.Clip.Text != "" || len(r.specs) != 1 || r.specs[0].Text != "" {
		t.Fatalf("expected blank render, got clip %q specs %+v", res.Clip.Text, r.specs)
	}
}
