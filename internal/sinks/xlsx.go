package sinks

import (
	"context"
	"fmt"
	"log/slog"

	"drive-inventory/pkg/models"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"
)

// XLSXSink streams rows into a single-sheet workbook.
type XLSXSink struct {
	path        string
	sheet       string
	includeSize bool

	lock   *flock.Flock
	book   *excelize.File
	stream *excelize.StreamWriter
	row    int
	closed bool
}

// NewXLSXSink locks path and starts a workbook with a bold header row.
func NewXLSXSink(path string, opts Options) (*XLSXSink, error) {
	sheet := opts.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}

	lock, err := lockOutput(path)
	if err != nil {
		return nil, err
	}

	s := &XLSXSink{
		path:        path,
		sheet:       sheet,
		includeSize: opts.IncludeSize,
		lock:        lock,
		book:        excelize.NewFile(),
	}

	if err := s.start(); err != nil {
		_ = s.Abort()

		return nil, fmt.Errorf("failed to start workbook: %w", err)
	}

	return s, nil
}

func (s *XLSXSink) start() error {
	if err := s.book.SetSheetName(s.book.GetSheetName(0), s.sheet); err != nil {
		return err
	}

	stream, err := s.book.NewStreamWriter(s.sheet)
	if err != nil {
		return err
	}

	s.stream = stream

	bold, err := s.book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	cols := Columns(s.includeSize)

	header := make([]any, len(cols))
	for i, col := range cols {
		header[i] = excelize.Cell{StyleID: bold, Value: col}
	}

	s.row = 1

	return s.stream.SetRow("A1", header)
}

func (s *XLSXSink) Name() string {
	return "xlsx"
}

func (s *XLSXSink) Append(_ context.Context, rec models.FileRecord) error {
	if s.closed {
		return errSinkClosed
	}

	s.row++

	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return sinkWriteError(s.Name(), err)
	}

	values := []any{rec.Name, rec.ID, rec.ViewURL, rec.Path, rec.MimeType}
	if s.includeSize {
		if rec.SizeKB != nil {
			values = append(values, *rec.SizeKB)
		} else {
			values = append(values, nil)
		}
	}

	if err := s.stream.SetRow(cell, values); err != nil {
		return sinkWriteError(s.Name(), err)
	}

	return nil
}

func (s *XLSXSink) Finalize(_ context.Context) error {
	if s.closed {
		return errSinkClosed
	}

	s.closed = true
	defer s.release()

	if err := s.stream.Flush(); err != nil {
		return sinkWriteError(s.Name(), err)
	}

	file, err := createPending(s.path)
	if err != nil {
		return sinkWriteError(s.Name(), err)
	}

	if _, err := s.book.WriteTo(file); err != nil {
		file.discard()

		return sinkWriteError(s.Name(), err)
	}

	if err := file.commit(); err != nil {
		return sinkWriteError(s.Name(), err)
	}

	slog.Debug("Wrote XLSX report", "path", s.path, "sheet", s.sheet, "rows", s.row-1)

	return nil
}

func (s *XLSXSink) Abort() error {
	if s.closed {
		return nil
	}

	s.closed = true

	return s.release()
}

func (s *XLSXSink) release() error {
	if err := s.book.Close(); err != nil {
		slog.Warn("Failed to close workbook", "error", err)
	}

	return unlockOutput(s.lock)
}
