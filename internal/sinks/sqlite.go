package sinks

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"drive-inventory/pkg/models"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id         TEXT PRIMARY KEY,
		root_id        TEXT NOT NULL DEFAULT '',
		root_label     TEXT NOT NULL DEFAULT '',
		started_at     DATETIME NOT NULL,
		finished_at    DATETIME,
		record_count   INTEGER NOT NULL DEFAULT 0,
		skipped_count  INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS files (
		run_id     TEXT NOT NULL REFERENCES runs(run_id),
		seq        INTEGER NOT NULL,
		name       TEXT NOT NULL,
		file_id    TEXT NOT NULL,
		url        TEXT NOT NULL DEFAULT '',
		path       TEXT NOT NULL DEFAULT '',
		mime_type  TEXT NOT NULL DEFAULT '',
		size_kb    REAL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_files_file_id ON files(file_id);
	CREATE INDEX IF NOT EXISTS idx_files_path    ON files(path);
`

// SQLiteSink records each run and its rows in a SQLite database. Runs
// accumulate; a run's rows become visible only when it is finalized.
type SQLiteSink struct {
	path  string
	runID string

	lock    *flock.Flock
	db      *sql.DB
	tx      *sql.Tx
	insert  *sql.Stmt
	seq     int
	skipped int
	closed  bool
}

// NewSQLiteSink opens or creates the database at path and begins the run.
func NewSQLiteSink(path string, opts Options) (*SQLiteSink, error) {
	if opts.RunID == "" {
		return nil, fmt.Errorf("sqlite report requires a run id")
	}

	lock, err := lockOutput(path)
	if err != nil {
		return nil, err
	}

	s := &SQLiteSink{path: path, runID: opts.RunID, lock: lock}

	if err := s.open(opts); err != nil {
		s.closeDB()
		_ = unlockOutput(lock)

		return nil, err
	}

	return s, nil
}

func (s *SQLiteSink) open(opts Options) error {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("failed to open report database: %w", err)
	}

	s.db = db

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create report schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin run: %w", err)
	}

	s.tx = tx

	if _, err := tx.Exec(
		"INSERT INTO runs (run_id, root_id, root_label, started_at) VALUES (?, ?, ?, ?)",
		s.runID, opts.RootID, opts.RootLabel, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to record run %s: %w", s.runID, err)
	}

	insert, err := tx.Prepare(`
		INSERT INTO files (run_id, seq, name, file_id, url, path, mime_type, size_kb)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}

	s.insert = insert

	return nil
}

func (s *SQLiteSink) Name() string {
	return "sqlite"
}

// RecordSkipped stores the skipped subtree count on the run row.
func (s *SQLiteSink) RecordSkipped(n int) {
	s.skipped = n
}

func (s *SQLiteSink) Append(ctx context.Context, rec models.FileRecord) error {
	if s.closed {
		return errSinkClosed
	}

	var size sql.NullFloat64
	if rec.SizeKB != nil {
		size = sql.NullFloat64{Float64: *rec.SizeKB, Valid: true}
	}

	s.seq++

	if _, err := s.insert.ExecContext(ctx, s.runID, s.seq, rec.Name, rec.ID, rec.ViewURL, rec.Path, rec.MimeType, size); err != nil {
		return sinkWriteError(s.Name(), fmt.Errorf("failed to insert %s: %w", rec.ID, err))
	}

	return nil
}

func (s *SQLiteSink) Finalize(ctx context.Context) error {
	if s.closed {
		return errSinkClosed
	}

	s.closed = true
	defer s.release()

	if _, err := s.tx.ExecContext(ctx,
		"UPDATE runs SET finished_at = ?, record_count = ?, skipped_count = ? WHERE run_id = ?",
		time.Now().UTC(), s.seq, s.skipped, s.runID,
	); err != nil {
		_ = s.tx.Rollback()

		return sinkWriteError(s.Name(), err)
	}

	if err := s.tx.Commit(); err != nil {
		return sinkWriteError(s.Name(), err)
	}

	slog.Debug("Committed report run", "path", s.path, "run_id", s.runID, "rows", s.seq)

	return nil
}

// Abort rolls the run back, leaving earlier runs untouched.
func (s *SQLiteSink) Abort() error {
	if s.closed {
		return nil
	}

	s.closed = true

	if err := s.tx.Rollback(); err != nil {
		slog.Warn("Failed to roll back report run", "run_id", s.runID, "error", err)
	}

	return s.release()
}

func (s *SQLiteSink) release() error {
	s.closeDB()

	return unlockOutput(s.lock)
}

func (s *SQLiteSink) closeDB() {
	if s.insert != nil {
		_ = s.insert.Close()
	}

	if s.tx != nil {
		_ = s.tx.Rollback()
	}

	if s.db != nil {
		_ = s.db.Close()
	}
}
