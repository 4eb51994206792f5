package sinks

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"

	"drive-inventory/pkg/models"

	"github.com/gofrs/flock"
)

// CSVSink streams rows to a CSV file.
type CSVSink struct {
	path        string
	includeSize bool

	lock   *flock.Flock
	file   *pendingFile
	writer *csv.Writer
	rows   int
	closed bool
}

// NewCSVSink locks path and writes the header to a pending file.
func NewCSVSink(path string, opts Options) (*CSVSink, error) {
	lock, err := lockOutput(path)
	if err != nil {
		return nil, err
	}

	file, err := createPending(path)
	if err != nil {
		_ = unlockOutput(lock)

		return nil, err
	}

	s := &CSVSink{
		path:        path,
		includeSize: opts.IncludeSize,
		lock:        lock,
		file:        file,
		writer:      csv.NewWriter(file),
	}

	if err := s.writer.Write(Columns(opts.IncludeSize)); err != nil {
		_ = s.Abort()

		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	return s, nil
}

func (s *CSVSink) Name() string {
	return "csv"
}

func (s *CSVSink) Append(_ context.Context, rec models.FileRecord) error {
	if s.closed {
		return errSinkClosed
	}

	if err := s.writer.Write(Row(rec, s.includeSize)); err != nil {
		return sinkWriteError(s.Name(), err)
	}

	s.rows++

	return nil
}

func (s *CSVSink) Finalize(_ context.Context) error {
	if s.closed {
		return errSinkClosed
	}

	s.closed = true
	defer s.release()

	s.writer.Flush()

	if err := s.writer.Error(); err != nil {
		s.file.discard()

		return sinkWriteError(s.Name(), err)
	}

	if err := s.file.commit(); err != nil {
		return sinkWriteError(s.Name(), err)
	}

	slog.Debug("Wrote CSV report", "path", s.path, "rows", s.rows)

	return nil
}

// Abort drops the pending file; an existing report at the path is kept.
func (s *CSVSink) Abort() error {
	if s.closed {
		return nil
	}

	s.closed = true
	s.file.discard()

	return s.release()
}

func (s *CSVSink) release() error {
	return unlockOutput(s.lock)
}
