package models

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth marks credential failures. Never retried; aborts a walk.
	ErrAuth = errors.New("authentication failed")
	// ErrAuthTimeout is returned when no authorization code arrives in time.
	ErrAuthTimeout = errors.New("timed out waiting for authorization code")
	// ErrTransient marks listing failures worth retrying (rate limits, timeouts, 5xx).
	ErrTransient = errors.New("transient listing failure")
	// ErrSubtreeSkipped marks a folder that was omitted from the output.
	ErrSubtreeSkipped = errors.New("subtree skipped")
	// ErrSinkWrite marks a failure to persist the report.
	ErrSinkWrite = errors.New("report write failed")
)

// SkippedSubtree records a folder, and everything below it, that could not be listed.
type SkippedSubtree struct {
	FolderID string
	Path     string
	Err      error
}

func (s SkippedSubtree) Error() string {
	return fmt.Sprintf("%s: %q (%s): %v", ErrSubtreeSkipped, s.Path, s.FolderID, s.Err)
}

func (s SkippedSubtree) Unwrap() []error {
	return []error{ErrSubtreeSkipped, s.Err}
}
