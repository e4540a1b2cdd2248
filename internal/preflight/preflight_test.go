package preflight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"subburn/internal/config"
	"subburn/internal/services"
	"subburn/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir(), ReadWrite)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), ReadOnly)
	if result.Passed || result.Detail == "" {
		t.Fatalf("expected failure with detail for missing dir, got %+v", result)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f, ReadOnly); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDependenciesPasses(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithModelFile("small"))
	if err := CheckDependencies(cfg, "small"); err != nil {
		t.Fatalf("expected dependencies to pass, got %v", err)
	}
}

func TestCheckDependenciesReportsMissingModelPath(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	err := CheckDependencies(cfg, "medium")
	var missing *services.DependencyMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected DependencyMissingError, got %v", err)
	}
	if missing.Path != cfg.ModelPath("medium") {
		t.Fatalf("expected model path %q, got %q", cfg.ModelPath("medium"), missing.Path)
	}
}

func TestCheckDependenciesReportsEncoderFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("magick", "ffprobe", "whisper"))
	cfg.Tools.FFmpeg = filepath.Join(t.TempDir(), "no-ffmpeg")

	err := CheckDependencies(cfg, "small")
	var missing *services.DependencyMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected DependencyMissingError, got %v", err)
	}
	if missing.Name != "FFmpeg" || missing.Path != cfg.Tools.FFmpeg {
		t.Fatalf("unexpected missing dependency %+v", missing)
	}
}

func TestRunAllIncludesDirectoriesAndTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithModelFile("small"))

	results := RunAll(context.Background(), cfg)
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("%s failed: %s", r.Name, r.Detail)
		}
	}
}

func TestCheckLLM(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	ok := CheckLLM(context.Background(), "LLM", config.Translation{APIKey: "good-key", BaseURL: srv.URL, Model: "m"})
	if !ok.Passed {
		t.Fatalf("expected pass, got %s", ok.Detail)
	}
	bad := CheckLLM(context.Background(), "LLM", config.Translation{APIKey: "bad-key", BaseURL: srv.URL, Model: "m"})
	if bad.Passed {
		t.Fatal("expected failure for bad key")
	}
	missing := CheckLLM(context.Background(), "LLM", config.Translation{})
	if missing.Passed || missing.Detail != "API key missing" {
		t.Fatalf("expected missing key failure, got %+v", missing)
	}
}
