package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Stream kinds as reported in codec_type.
const (
	KindVideo = "video"
	KindAudio = "audio"
)

// Result is the decoded -show_format -show_streams document.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
	Disposition  struct {
		AttachedPic int `json:"attached_pic"`
	} `json:"disposition"`
}

type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect runs ffprobe on path. An empty binary means "ffprobe" on PATH.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = "ffprobe"
	}
	args := []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path}
	out, err := exec.CommandContext(ctx, binary, args...).Output() //nolint:gosec
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe inspect %s: %w: %s", path, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect %s: %w", path, err)
	}
	return Parse(out)
}

func Parse(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return r, nil
}

// StreamsOf returns the streams of the given kind in container order.
func (r Result) StreamsOf(kind string) []Stream {
	var out []Stream
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, kind) {
			out = append(out, s)
		}
	}
	return out
}

// PrimaryVideo returns the first video stream that is not attached cover art.
func (r Result) PrimaryVideo() (Stream, bool) {
	for _, s := range r.StreamsOf(KindVideo) {
		if s.Disposition.AttachedPic == 0 {
			return s, true
		}
	}
	return Stream{}, false
}

func (r Result) HasAudio() bool { return r.AudioStreamCount() > 0 }

func (r Result) AudioStreamCount() int { return len(r.StreamsOf(KindAudio)) }

// FrameRate returns the rate as ffmpeg's -r accepts it ("30000/1001") and as
// a float. r_frame_rate wins over avg_frame_rate when both are usable.
func (s Stream) FrameRate() (string, float64, bool) {
	for _, raw := range []string{s.RFrameRate, s.AvgFrameRate} {
		raw = strings.TrimSpace(raw)
		if fps, ok := rational(raw); ok {
			return raw, fps, true
		}
	}
	return "", 0, false
}

// DurationSeconds is the container duration, or 0 when missing or invalid.
func (r Result) DurationSeconds() float64 {
	d, err := strconv.ParseFloat(strings.TrimSpace(r.Format.Duration), 64)
	if err != nil || !(d >= 0) {
		return 0
	}
	return d
}

func rational(s string) (float64, bool) {
	numText, denText, hasDen := strings.Cut(s, "/")
	num, err := strconv.ParseFloat(numText, 64)
	if err != nil || !(num > 0) {
		return 0, false
	}
	den := 1.0
	if hasDen {
		if den, err = strconv.ParseFloat(denText, 64); err != nil || !(den > 0) {
			return 0, false
		}
	}
	return num / den, true
}
