package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"subburn/internal/config"
	"subburn/internal/history"
	"subburn/internal/testsupport"
)

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "subburn dev")
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, _, err := config.Load(target); err != nil {
		t.Fatalf("sample config must load: %v", err)
	}

	if _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if _, err := runCLI(t, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestConfigShowMasksAPIKey(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTranslation("pt"))
	out, err := runCLI(t, writeTestConfig(t, cfg), "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[translation]")
	requireContains(t, out, "********")
	if strings.Contains(out, "test-key") {
		t.Fatalf("api key leaked: %s", out)
	}
}

func TestCheckCommand(t *testing.T) {
	t.Run("missing model", func(t *testing.T) {
		cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
		out, err := runCLI(t, writeTestConfig(t, cfg), "check")
		if err == nil {
			t.Fatal("expected failure for missing model")
		}
		requireContains(t, out, "Whisper model")
		requireContains(t, out, "FAIL")
	})
	t.Run("all present", func(t *testing.T) {
		cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithModelFile("small"))
		out, err := runCLI(t, writeTestConfig(t, cfg), "check")
		if err != nil {
			t.Fatalf("check: %v\n%s", err, out)
		}
		requireContains(t, out, "All checks passed")
	})
}

func TestHistoryCommand(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	configPath := writeTestConfig(t, cfg)

	out, err := runCLI(t, configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	started := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	err = store.Record(context.Background(), history.Run{
		ID:         "0f1e2d3c-aaaa-bbbb-cccc-000000000000",
		VideoPath:  "/videos/lecture.mp4",
		Status:     history.StatusSucceeded,
		State:      "done",
		Segments:   12,
		Overlays:   11,
		Dropped:    1,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
	})
	store.Close()
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	out, err = runCLI(t, configPath, "history", "--limit", "5")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "0f1e2d3c")
	requireContains(t, out, "lecture.mp4")
	requireContains(t, out, "1m30s")
}

func TestRunCommand(t *testing.T) {
	t.Run("rejects format", func(t *testing.T) {
		cfg := testsupport.NewConfig(t)
		_, err := runCLI(t, writeTestConfig(t, cfg), "run", "video.mp4", "--format", "webm")
		if err == nil || !strings.Contains(err.Error(), "--format") {
			t.Fatalf("expected format error, got %v", err)
		}
	})
	t.Run("reports preflight failure", func(t *testing.T) {
		cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
		video := filepath.Join(testsupport.BaseDir(cfg), "input.mp4")
		testsupport.WriteFile(t, video, 64)

		out, err := runCLI(t, writeTestConfig(t, cfg), "run", video)
		if err == nil {
			t.Fatal("expected failure without a model")
		}
		requireContains(t, err.Error(), "preflight_checks")
		requireContains(t, out, "Whisper model")
	})
}
