package audio

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"

	"subburn/internal/services"
)

const (
	SampleRate = 16000
	Channels   = 1
	BitDepth   = 16
	// pcmFormat is the WAVE_FORMAT_PCM tag.
	pcmFormat = 1
)

// Info describes a decoded WAV header.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// ExtractArgs returns the ffmpeg arguments that write source's audio to dest
// as mono 16 kHz PCM16, overwriting any existing file.
func ExtractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(SampleRate),
		"-ac", fmt.Sprint(Channels),
		dest,
	}
}

// Extract writes the audio track of source to dest and validates the result.
func Extract(ctx context.Context, run services.CommandRunner, ffmpeg, source, dest string) (Info, error) {
	if run == nil {
		run = services.RunCommand
	}
	if err := run(ctx, ffmpeg, ExtractArgs(source, dest)...); err != nil {
		return Info{}, &services.AudioExtractionError{Source: source, Err: err}
	}
	info, err := Validate(dest)
	if err != nil {
		return Info{}, &services.AudioExtractionError{Source: source, Err: err}
	}
	return info, nil
}

// Validate decodes the WAV header at path and checks it is mono 16 kHz PCM16.
func Validate(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open extracted audio: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		if err := decoder.Err(); err != nil {
			return Info{}, fmt.Errorf("decode wav header: %w", err)
		}
		return Info{}, fmt.Errorf("%s is not a valid wav file", path)
	}

	info := Info{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   int(decoder.BitDepth),
	}
	if duration, err := decoder.Duration(); err == nil {
		info.Duration = duration
	}

	if decoder.WavAudioFormat != pcmFormat {
		return info, fmt.Errorf("wav format tag %d, want PCM", decoder.WavAudioFormat)
	}
	if info.SampleRate != SampleRate || info.Channels != Channels || info.BitDepth != BitDepth {
		return info, fmt.Errorf("wav is %d Hz/%d ch/%d-bit, want %d Hz/%d ch/%d-bit",
			info.SampleRate, info.Channels, info.BitDepth, SampleRate, Channels, BitDepth)
	}
	return info, nil
}
