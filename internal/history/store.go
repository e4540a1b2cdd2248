package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version. Bump it whenever
// schema.sql changes incompatibly.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by another schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Status values recorded for a run.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one ledger entry. Times are stored with millisecond precision.
type Run struct {
	ID             string
	VideoPath      string
	OutputPath     string
	Status         string
	State          string
	TargetLanguage string
	Model          string
	Segments       int
	Overlays       int
	Dropped        int
	Error          string
	StartedAt      time.Time
	FinishedAt     time.Time
}

func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists runs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the ledger at path and checks its schema version.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const runColumns = `id, video_path, output_path, status, state, target_language, model,
	segments, overlays, dropped, error_message, started_at, finished_at`

// Record upserts run by ID.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("record run: id required")
	}
	const stmt = `INSERT INTO runs (` + runColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		video_path = excluded.video_path,
		output_path = excluded.output_path,
		status = excluded.status,
		state = excluded.state,
		target_language = excluded.target_language,
		model = excluded.model,
		segments = excluded.segments,
		overlays = excluded.overlays,
		dropped = excluded.dropped,
		error_message = excluded.error_message,
		started_at = excluded.started_at,
		finished_at = excluded.finished_at`
	_, err := s.db.ExecContext(ctx, stmt,
		run.ID, run.VideoPath, optional(run.OutputPath), run.Status, run.State,
		optional(run.TargetLanguage), optional(run.Model),
		run.Segments, run.Overlays, run.Dropped, optional(run.Error),
		run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// List returns runs newest first. limit <= 0 returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                         Run
			output, target, model, msg sql.NullString
			started, finished         int64
		)
		if err := rows.Scan(&r.ID, &r.VideoPath, &output, &r.Status, &r.State, &target, &model,
			&r.Segments, &r.Overlays, &r.Dropped, &msg, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.OutputPath, r.TargetLanguage, r.Model, r.Error = output.String, target.String, model.String, msg.String
		r.StartedAt, r.FinishedAt = time.UnixMilli(started), time.UnixMilli(finished)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// migrate creates the schema in a fresh database and refuses databases
// stamped with a different version.
func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch version {
	case schemaVersion:
		return nil
	case 0:
	default:
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset history)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func optional(value string) any {
	if value == "" {
		return nil
	}
	return value
}
