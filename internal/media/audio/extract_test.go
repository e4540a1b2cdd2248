package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"subburn/internal/services"
)

func writeWAV(t *testing.T, path string, sampleRate, channels, bitDepth, frames int) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, sampleRate, bitDepth, channels, pcmFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, frames*channels),
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}

func TestExtractArgs(t *testing.T) {
	args := ExtractArgs("in.mp4", "out.wav")
	joined := strings.Join(args, " ")
	for _, want := range []string{"-i in.mp4", "-vn", "-acodec pcm_s16le", "-ar 16000", "-ac 1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in %q", want, joined)
		}
	}
	if args[len(args)-1] != "out.wav" || !slices.Contains(args, "-y") {
		t.Fatalf("expected overwrite of destination, got %v", args)
	}
}

func TestExtractValidatesOutput(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "temp_audio.wav")
	runner := func(_ context.Context, name string, args ...string) error {
		if name != "ffmpeg" {
			t.Errorf("unexpected binary %q", name)
		}
		writeWAV(t, args[len(args)-1], SampleRate, Channels, BitDepth, SampleRate)
		return nil
	}

	info, err := Extract(context.Background(), runner, "ffmpeg", "in.mp4", dest)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if info.SampleRate != SampleRate || info.Channels != 1 || info.BitDepth != 16 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestExtractFailures(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name   string
		runner services.CommandRunner
	}{
		{"tool fails", func(context.Context, string, ...string) error {
			return errors.New("Output file does not contain any stream")
		}},
		{"no output", func(context.Context, string, ...string) error { return nil }},
		{"wrong rate", func(_ context.Context, _ string, args ...string) error {
			writeWAV(t, args[len(args)-1], 44100, 2, 16, 100)
			return nil
		}},
		{"not wav", func(_ context.Context, _ string, args ...string) error {
			return os.WriteFile(args[len(args)-1], []byte("garbage data here"), 0o644)
		}},
	}
	for _, tc := range cases {
		dest := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".wav")
		_, err := Extract(context.Background(), tc.runner, "ffmpeg", "in.mp4", dest)
		var extractionErr *services.AudioExtractionError
		if !errors.As(err, &extractionErr) {
			t.Errorf("%s: expected AudioExtractionError, got %v", tc.name, err)
			continue
		}
		if extractionErr.Source != "in.mp4" {
			t.Errorf("%s: unexpected source %q", tc.name, extractionErr.Source)
		}
	}
}
