package preflight

import (
	"context"

	"subburn/internal/config"
	"subburn/internal/deps"
	"subburn/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Requirements lists the external dependencies a run needs. The encoder,
// the text renderer and the recognition model come first because the run
// cannot start without them.
func Requirements(cfg *config.Config, model string) []deps.Requirement {
	if model == "" {
		model = cfg.Recognition.Model
	}
	return []deps.Requirement{
		{Name: "FFmpeg", Command: cfg.Tools.FFmpeg, Description: "Required for audio extraction and encoding"},
		{Name: "ImageMagick", Command: cfg.Tools.Magick, Description: "Required for subtitle rendering"},
		{Name: "Whisper model", File: cfg.ModelPath(model), Description: "Speech recognition checkpoint"},
		{Name: "FFprobe", Command: cfg.Tools.FFprobe, Description: "Required for video inspection"},
		{Name: "Whisper", Command: cfg.Tools.Whisper, Description: "Required for transcription"},
	}
}

// CheckDependencies verifies every required dependency and returns a
// *services.DependencyMissingError naming the first one that is absent.
// It performs no side effects.
func CheckDependencies(cfg *config.Config, model string) error {
	if cfg == nil {
		return services.Wrap(services.ErrConfiguration, "preflight", "check dependencies", "config unavailable", nil)
	}
	if missing, ok := deps.FirstMissing(deps.Check(Requirements(cfg, model))); ok {
		return &services.DependencyMissingError{Name: missing.Name, Path: missing.Location()}
	}
	return nil
}

// RunAll executes every diagnostic check for the given config. Used by the
// CLI check command; runs do not depend on the directory or API checks.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir, ReadWrite),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir, ReadWrite),
		CheckDirectoryAccess("Models directory", cfg.Paths.ModelsDir, ReadOnly),
	}
	for _, status := range deps.Check(Requirements(cfg, "")) {
		detail := status.Location()
		if !status.Available {
			detail = status.Detail
		}
		results = append(results, Result{Name: status.Name, Passed: status.Available, Detail: detail})
	}
	if cfg.TranslationEnabled() {
		results = append(results, CheckLLM(ctx, "Translation LLM", cfg.Translation))
	}
	return results
}
