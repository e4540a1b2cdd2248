package pipeline

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"subburn/internal/config"
	"subburn/internal/language"
	"subburn/internal/overlay"
	"subburn/internal/services"
)

// Request is one invocation of the pipeline. Empty fields fall back to the
// configuration.
type Request struct {
	VideoPath      string
	OutputFormat   string
	TargetLanguage string
	Model          string
	TextColor      string
	OutlineColor   string
	UseGPU         bool
	// Log receives one human-readable line per progress message.
	Log func(string)
}

// plan is a Request merged with the configuration and validated.
type plan struct {
	video  string
	format string
	output string
	model  string
	source string
	target string
	useGPU bool
	style  overlay.Style
}

func (r *Runner) resolve(req Request) (plan, error) {
	cfg := r.cfg
	video := strings.TrimSpace(req.VideoPath)
	if video == "" {
		return plan{}, services.Wrap(services.ErrValidation, string(StateInit), "resolve request", "video path required", nil)
	}
	video, err := config.ExpandPath(video)
	if err != nil {
		return plan{}, services.Wrap(services.ErrValidation, string(StateInit), "resolve request", "invalid video path", err)
	}
	info, err := os.Stat(video)
	if err != nil {
		return plan{}, services.Wrap(services.ErrNotFound, string(StateInit), "resolve request", "video not found", err)
	}
	if info.IsDir() {
		return plan{}, services.Wrap(services.ErrValidation, string(StateInit), "resolve request", fmt.Sprintf("%s is a directory", video), nil)
	}

	format := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(req.OutputFormat), "."))
	if format == "" {
		format = cfg.Encode.OutputFormat
	}
	if !slices.Contains(config.OutputFormats, format) {
		return plan{}, services.Wrap(services.ErrValidation, string(StateInit), "resolve request",
			fmt.Sprintf("output format %q must be one of %s", format, strings.Join(config.OutputFormats, ", ")), nil)
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = cfg.Recognition.Model
	}
	if strings.ContainsAny(model, `/\`) {
		return plan{}, services.Wrap(services.ErrValidation, string(StateInit), "resolve request",
			fmt.Sprintf("model %q must be a model name, not a path", model), nil)
	}

	source := language.ToISO2(cfg.Recognition.SourceLanguage)
	if source == "" {
		source = strings.TrimSpace(cfg.Recognition.SourceLanguage)
	}

	target := strings.TrimSpace(req.TargetLanguage)
	if target == "" {
		target = strings.TrimSpace(cfg.Translation.TargetLanguage)
	}
	if target != "" {
		iso := language.ToISO2(target)
		if iso == "" {
			return plan{}, services.Wrap(services.ErrValidation, string(StateInit), "resolve request",
				fmt.Sprintf("unsupported target language %q", target), nil)
		}
		target = iso
		if language.Same(target, source) {
			target = ""
		}
	}
	if target != "" && r.translator == nil && strings.TrimSpace(cfg.Translation.APIKey) == "" {
		return plan{}, services.Wrap(services.ErrConfiguration, string(StateInit), "resolve request",
			"translation requires translation.api_key (or SUBBURN_LLM_API_KEY)", nil)
	}

	style := overlay.StyleFromConfig(cfg.Style)
	if c := strings.TrimSpace(req.TextColor); c != "" {
		style.TextColor = c
	}
	if c := strings.TrimSpace(req.OutlineColor); c != "" {
		style.OutlineColor = c
	}

	return plan{
		video:  video,
		format: format,
		output: cfg.OutputPath(format),
		model:  model,
		source: source,
		target: target,
		useGPU: req.UseGPU || cfg.Recognition.UseGPU,
		style:  style,
	}, nil
}
