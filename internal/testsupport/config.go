package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"subburn/internal/config"
)

// ConfigOption adjusts a test config after its directories exist.
type ConfigOption func(testing.TB, *config.Config)

// stubbedTools maps each external tool name to its config field.
var stubbedTools = map[string]func(*config.Tools) *string{
	"ffmpeg":  func(t *config.Tools) *string { return &t.FFmpeg },
	"ffprobe": func(t *config.Tools) *string { return &t.FFprobe },
	"magick":  func(t *config.Tools) *string { return &t.Magick },
	"whisper": func(t *config.Tools) *string { return &t.Whisper },
}

// NewConfig returns defaults rooted in a fresh temp directory. Work, output,
// log and model directories exist; history and translation are off.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	root := t.TempDir()
	cfg.Paths = config.Paths{
		InstallDir: root,
		WorkDir:    filepath.Join(root, "work"),
		OutputDir:  filepath.Join(root, "output"),
		LogDir:     filepath.Join(root, "logs"),
		ModelsDir:  filepath.Join(root, "models"),
	}
	cfg.History = config.History{Path: filepath.Join(root, "history.db")}
	cfg.Translation.TargetLanguage = ""
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Paths.ModelsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	for _, opt := range opts {
		opt(t, &cfg)
	}
	return &cfg
}

// WithStubbedBinaries points tools at `exit 0` scripts under <root>/bin.
// With no names every known tool is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(t testing.TB, cfg *config.Config) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "magick", "whisper"}
		}
		for _, name := range names {
			field, ok := stubbedTools[name]
			if !ok {
				t.Fatalf("no tool setting for %q", name)
			}
			*field(&cfg.Tools) = WriteScript(t, filepath.Join(BaseDir(cfg), "bin", name), "exit 0")
		}
	}
}

// WithModelFile writes a placeholder checkpoint for model.
func WithModelFile(model string) ConfigOption {
	return func(t testing.TB, cfg *config.Config) {
		WriteFile(t, cfg.ModelPath(model), 16)
	}
}

// WithTranslation targets language with a fake API key.
func WithTranslation(target string) ConfigOption {
	return func(_ testing.TB, cfg *config.Config) {
		cfg.Translation.TargetLanguage = target
		cfg.Translation.APIKey = "test-key"
	}
}

func WithHistory() ConfigOption {
	return func(_ testing.TB, cfg *config.Config) {
		cfg.History.Enabled = true
	}
}

// BaseDir is the temp root behind a config built by NewConfig.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.InstallDir
}
