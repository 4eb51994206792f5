// Package sinks writes file records as tabular reports: CSV, XLSX workbooks
// and SQLite databases.
package sinks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"drive-inventory/pkg/interfaces"
	"drive-inventory/pkg/models"

	"github.com/gofrs/flock"
)

// Supported output formats.
const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

// DefaultSheetName is the worksheet used by XLSX reports.
const DefaultSheetName = "FileList"

var errSinkClosed = errors.New("sink already finalized or aborted")

// Options configures a sink.
type Options struct {
	IncludeSize bool
	SheetName   string

	// Run metadata, recorded by sinks that keep history.
	RunID     string
	RootID    string
	RootLabel string
}

// SkipRecorder is implemented by sinks that store the number of skipped
// subtrees alongside the rows.
type SkipRecorder interface {
	RecordSkipped(n int)
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatXLSX, FormatCSV, FormatSQLite}
}

// FormatFromPath infers the output format from the file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("cannot infer report format from %q; use one of %s", path, strings.Join(Formats(), ", "))
	}
}

// New creates the sink for format writing to path. An empty format is
// inferred from the path.
func New(format, path string, opts Options) (interfaces.Sink, error) {
	if format == "" {
		inferred, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}

		format = inferred
	}

	switch strings.ToLower(format) {
	case FormatCSV:
		return NewCSVSink(path, opts)
	case FormatXLSX:
		return NewXLSXSink(path, opts)
	case FormatSQLite:
		return NewSQLiteSink(path, opts)
	default:
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
}

// Columns returns the report header.
func Columns(includeSize bool) []string {
	cols := []string{"File Name", "File ID", "URL", "Folder Path", "MIME Type"}
	if includeSize {
		cols = append(cols, "Size (KB)")
	}

	return cols
}

// Row renders rec in column order. Unknown sizes are empty.
func Row(rec models.FileRecord, includeSize bool) []string {
	row := []string{rec.Name, rec.ID, rec.ViewURL, rec.Path, rec.MimeType}
	if includeSize {
		row = append(row, formatSize(rec.SizeKB))
	}

	return row
}

func formatSize(kb *float64) string {
	if kb == nil {
		return ""
	}

	return strconv.FormatFloat(*kb, 'f', 2, 64)
}

// lockOutput takes the exclusive <path>.lock for the life of a sink.
func lockOutput(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	lock := flock.New(path + ".lock")

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	if !locked {
		return nil, fmt.Errorf("output %s is in use by another scan", path)
	}

	return lock, nil
}

func unlockOutput(lock *flock.Flock) error {
	if err := lock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", lock.Path(), err)
	}

	return nil
}

// pendingFile is a temp file next to the target that replaces it on commit,
// so readers never see a partial report.
type pendingFile struct {
	*os.File
	target string
}

func createPending(target string) (*pendingFile, error) {
	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	return &pendingFile{File: f, target: target}, nil
}

func (p *pendingFile) commit() error {
	if err := p.Sync(); err != nil {
		p.discard()

		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := p.Close(); err != nil {
		_ = os.Remove(p.Name())

		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(p.Name(), 0o644); err != nil {
		_ = os.Remove(p.Name())

		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(p.Name(), p.target); err != nil {
		_ = os.Remove(p.Name())

		return fmt.Errorf("failed to rename temp file to %s: %w", p.target, err)
	}

	return nil
}

func (p *pendingFile) discard() {
	_ = p.Close()
	_ = os.Remove(p.Name())
}

func sinkWriteError(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrSinkWrite, name, err)
}
