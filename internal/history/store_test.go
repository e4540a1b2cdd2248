package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	runs := []Run{
		{ID: "a", VideoPath: "/v/one.mp4", OutputPath: "/out/one.mp4", Status: StatusSucceeded, State: "done",
			Model: "small", Segments: 4, Overlays: 3, Dropped: 1, StartedAt: base, FinishedAt: base.Add(time.Minute)},
		{ID: "b", VideoPath: "/v/two.mp4", Status: StatusFailed, State: "transcription", TargetLanguage: "pt",
			Error: "no segments found", StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour + time.Second)},
	}
	for _, run := range runs {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record(%s): %v", run.ID, err)
		}
	}

	listed, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "b" || listed[1].ID != "a" {
		t.Fatalf("expected newest first, got %+v", listed)
	}
	got := listed[1]
	if got.OutputPath != "/out/one.mp4" || got.Overlays != 3 || got.Dropped != 1 || got.Duration() != time.Minute {
		t.Fatalf("unexpected round trip %+v", got)
	}
	if listed[0].Error != "no segments found" || listed[0].OutputPath != "" || listed[0].TargetLanguage != "pt" {
		t.Fatalf("unexpected failed run %+v", listed[0])
	}

	limited, err := store.List(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected one run with limit, got %d (%v)", len(limited), err)
	}
}

func TestRecordReplacesByID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	run := Run{ID: "same", VideoPath: "v.mp4", Status: StatusFailed, State: "encode", StartedAt: now, FinishedAt: now}
	if err := store.Record(ctx, run); err != nil {
		t.Fatal(err)
	}
	run.Status = StatusSucceeded
	run.State = "done"
	if err := store.Record(ctx, run); err != nil {
		t.Fatal(err)
	}
	listed, err := store.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].Status != StatusSucceeded {
		t.Fatalf("expected single replaced run, got %+v", listed)
	}
	if err := store.Record(ctx, Run{}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestReopenChecksSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}
