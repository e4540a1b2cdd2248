package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subburn/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeStyle()
	c.normalizeRecognition()
	c.normalizeTranslation()
	c.normalizeEncode()
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InstallDir) == "" {
		c.Paths.InstallDir = defaultInstallDir
	}
	if c.Paths.InstallDir, err = ExpandPath(c.Paths.InstallDir); err != nil {
		return fmt.Errorf("paths.install_dir: %w", err)
	}
	if c.Paths.WorkDir, err = c.installRelative(c.Paths.WorkDir, defaultWorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.OutputDir, err = c.installRelative(c.Paths.OutputDir, defaultOutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = c.installRelative(c.Paths.LogDir, defaultLogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.ModelsDir, err = c.installRelative(c.Paths.ModelsDir, defaultModelsDir); err != nil {
		return fmt.Errorf("paths.models_dir: %w", err)
	}
	if c.History.Path, err = c.installRelative(c.History.Path, defaultHistoryPath); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

// installRelative anchors relative paths at the installation directory so a
// bundled layout (ffmpeg, models, work files) stays self-contained.
func (c *Config) installRelative(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if !strings.HasPrefix(value, "~") && !filepath.IsAbs(value) {
		value = filepath.Join(c.Paths.InstallDir, value)
	}
	return ExpandPath(value)
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = c.toolPath(c.Tools.FFmpeg, defaultFFmpeg)
	c.Tools.FFprobe = c.toolPath(c.Tools.FFprobe, defaultFFprobe)
	c.Tools.Magick = c.toolPath(c.Tools.Magick, defaultMagick)
	c.Tools.Whisper = c.toolPath(c.Tools.Whisper, defaultWhisper)
}

// toolPath keeps bare command names for PATH lookup and anchors anything that
// looks like a relative path (contains a separator) at the install directory.
func (c *Config) toolPath(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if strings.HasPrefix(value, "~") {
		if expanded, err := ExpandPath(value); err == nil {
			return expanded
		}
		return value
	}
	if filepath.IsAbs(value) || !strings.ContainsAny(value, `/\`) {
		return value
	}
	return filepath.Join(c.Paths.InstallDir, value)
}

func (c *Config) normalizeStyle() {
	c.Style.TextColor = strings.TrimSpace(c.Style.TextColor)
	if c.Style.TextColor == "" {
		c.Style.TextColor = defaultTextColor
	}
	c.Style.OutlineColor = strings.TrimSpace(c.Style.OutlineColor)
	if c.Style.OutlineColor == "" {
		c.Style.OutlineColor = defaultOutlineColor
	}
	c.Style.Font = strings.TrimSpace(c.Style.Font)
	if c.Style.Font == "" {
		c.Style.Font = defaultFont
	}
	if c.Style.FontSize == 0 {
		c.Style.FontSize = defaultFontSize
	}
	if c.Style.BoxHeight == 0 {
		c.Style.BoxHeight = defaultBoxHeight
	}
	if c.Style.WrapWidth == 0 {
		c.Style.WrapWidth = defaultWrapWidth
	}
	if c.Style.MaxLines == 0 {
		c.Style.MaxLines = defaultMaxLines
	}
}

func (c *Config) normalizeRecognition() {
	c.Recognition.Model = strings.ToLower(strings.TrimSpace(c.Recognition.Model))
	if c.Recognition.Model == "" {
		c.Recognition.Model = defaultModel
	}
	c.Recognition.SourceLanguage = language.ToISO2(c.Recognition.SourceLanguage)
	if c.Recognition.SourceLanguage == "" {
		c.Recognition.SourceLanguage = defaultSourceLanguage
	}
}

func (c *Config) normalizeTranslation() {
	if raw := strings.TrimSpace(c.Translation.TargetLanguage); raw != "" {
		if iso := language.ToISO2(raw); iso != "" {
			c.Translation.TargetLanguage = iso
		} else {
			c.Translation.TargetLanguage = raw
		}
	}
	c.Translation.APIKey = strings.TrimSpace(c.Translation.APIKey)
	if c.Translation.APIKey == "" {
		if value, ok := os.LookupEnv("SUBBURN_LLM_API_KEY"); ok {
			c.Translation.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.Translation.APIKey = strings.TrimSpace(value)
		}
	}
	c.Translation.BaseURL = strings.TrimSpace(c.Translation.BaseURL)
	if c.Translation.BaseURL == "" {
		c.Translation.BaseURL = defaultTranslationBaseURL
	}
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
	if c.Translation.Model == "" {
		c.Translation.Model = defaultTranslationModel
	}
	c.Translation.Referer = strings.TrimSpace(c.Translation.Referer)
	c.Translation.Title = strings.TrimSpace(c.Translation.Title)
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeout
	}
}

func (c *Config) normalizeEncode() {
	c.Encode.OutputFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Encode.OutputFormat), "."))
	if c.Encode.OutputFormat == "" {
		c.Encode.OutputFormat = defaultOutputFormat
	}
	c.Encode.OutputBasename = strings.TrimSpace(c.Encode.OutputBasename)
	if c.Encode.OutputBasename == "" {
		c.Encode.OutputBasename = defaultOutputBasename
	}
	c.Encode.VideoCodec = strings.TrimSpace(c.Encode.VideoCodec)
	if c.Encode.VideoCodec == "" {
		c.Encode.VideoCodec = defaultVideoCodec
	}
	c.Encode.Preset = strings.TrimSpace(c.Encode.Preset)
	if c.Encode.Preset == "" {
		c.Encode.Preset = defaultPreset
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.MaxWorkers <= 0 {
		c.Pipeline.MaxWorkers = defaultMaxWorkers
	}
	if c.Pipeline.MaxWorkers > maxWorkersCeiling {
		c.Pipeline.MaxWorkers = maxWorkersCeiling
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
