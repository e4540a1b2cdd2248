package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains the directory layout of an installation.
type Paths struct {
	InstallDir string `toml:"install_dir"`
	WorkDir    string `toml:"work_dir"`
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
	ModelsDir  string `toml:"models_dir"`
}

// Tools names the external executables. Relative names are resolved through
// PATH, absolute paths are used as-is.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	Magick  string `toml:"magick"`
	Whisper string `toml:"whisper"`
}

// Style controls how subtitle overlays are rendered.
type Style struct {
	TextColor     string  `toml:"text_color"`
	OutlineColor  string  `toml:"outline_color"`
	Font          string  `toml:"font"`
	FontSize      float64 `toml:"font_size"`
	BoxHeight     int     `toml:"box_height"`
	OutlineOffset int     `toml:"outline_offset"`
	WrapWidth     int     `toml:"wrap_width"`
	MaxLines      int     `toml:"max_lines"`
}

// Recognition contains speech-recognition settings.
type Recognition struct {
	Model          string `toml:"model"`
	SourceLanguage string `toml:"source_language"`
	UseGPU         bool   `toml:"use_gpu"`
}

// Translation contains settings for the per-segment translation service.
// An empty target language, or one equal to the source language, disables
// translation.
type Translation struct {
	TargetLanguage string `toml:"target_language"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Encode contains settings for the final video encode.
type Encode struct {
	OutputFormat   string `toml:"output_format"`
	OutputBasename string `toml:"output_basename"`
	VideoCodec     string `toml:"video_codec"`
	Preset         string `toml:"preset"`
}

// Pipeline contains concurrency and timeout knobs for a run.
type Pipeline struct {
	MaxWorkers int `toml:"max_workers"`
	// ToolTimeoutSeconds bounds each external process. Zero disables the bound.
	ToolTimeoutSeconds int `toml:"tool_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// History contains configuration for the run ledger.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for subburn.
//
// Configuration sections by subsystem:
//   - Paths: installation, work, output, log and model directories
//   - Tools: ffmpeg, ffprobe, ImageMagick and whisper executables
//   - Style: subtitle colors, font and layout
//   - Recognition: whisper model, source language, GPU preference
//   - Translation: target language and chat-completion endpoint
//   - Encode: output container, codec and preset
//   - Pipeline: worker pool size and external tool timeout
//   - Logging: log format and level
//   - History: run ledger database
type Config struct {
	Paths       Paths       `toml:"paths"`
	Tools       Tools       `toml:"tools"`
	Style       Style       `toml:"style"`
	Recognition Recognition `toml:"recognition"`
	Translation Translation `toml:"translation"`
	Encode      Encode      `toml:"encode"`
	Pipeline    Pipeline    `toml:"pipeline"`
	Logging     Logging     `toml:"logging"`
	History     History     `toml:"history"`
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TempAudioPath returns the fixed location of the extracted audio track.
func (c *Config) TempAudioPath() string {
	return filepath.Join(c.Paths.WorkDir, tempAudioName)
}

// LockPath returns the path of the lock file guarding the work directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.WorkDir, lockFileName)
}

// OutputPath returns the output video path for the given container format.
// An empty format falls back to encode.output_format.
func (c *Config) OutputPath(format string) string {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if format == "" {
		format = c.Encode.OutputFormat
	}
	return filepath.Join(c.Paths.OutputDir, c.Encode.OutputBasename+"."+format)
}

// ModelPath returns the on-disk checkpoint for the named recognition model.
// An empty name falls back to recognition.model.
func (c *Config) ModelPath(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		model = c.Recognition.Model
	}
	return filepath.Join(c.Paths.ModelsDir, model+modelExtension)
}

// TranslationEnabled reports whether segments must be translated before rendering.
func (c *Config) TranslationEnabled() bool {
	target := strings.TrimSpace(c.Translation.TargetLanguage)
	if target == "" {
		return false
	}
	return !strings.EqualFold(target, c.Recognition.SourceLanguage)
}
