package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStyle(); err != nil {
		return err
	}
	if err := c.validateRecognition(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateEncode(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStyle() error {
	if c.Style.FontSize <= 0 {
		return errors.New("style.font_size must be positive")
	}
	if c.Style.BoxHeight <= 0 {
		return errors.New("style.box_height must be positive")
	}
	if c.Style.OutlineOffset < 0 {
		return errors.New("style.outline_offset must be >= 0")
	}
	if c.Style.WrapWidth <= 0 {
		return errors.New("style.wrap_width must be positive")
	}
	if c.Style.MaxLines <= 0 {
		return errors.New("style.max_lines must be positive")
	}
	return nil
}

func (c *Config) validateRecognition() error {
	if strings.ContainsAny(c.Recognition.Model, `/\`) {
		return fmt.Errorf("recognition.model %q must be a model name, not a path", c.Recognition.Model)
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if !c.TranslationEnabled() {
		return nil
	}
	if c.Translation.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("translation.api_key is required when translation.target_language is set. Set SUBBURN_LLM_API_KEY or edit %s (create with 'subburn config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateEncode() error {
	if !slices.Contains(OutputFormats, c.Encode.OutputFormat) {
		return fmt.Errorf("encode.output_format %q must be one of %s", c.Encode.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if strings.ContainsAny(c.Encode.OutputBasename, `/\`) {
		return errors.New("encode.output_basename must not contain path separators")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.ToolTimeoutSeconds < 0 {
		return errors.New("pipeline.tool_timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
}
