// Package walker enumerates a remote folder tree depth-first and streams the
// files that match a predicate as FileRecords.
//
// Each folder's listing is paginated to exhaustion before any of its
// children are visited. Paths are carried in immutable FolderRef values, one
// per recursion frame. A folder whose listing keeps failing is skipped and
// reported in the Summary; only credential failures, context cancellation
// and emit failures end the walk early.
package walker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"drive-inventory/internal/filter"
	"drive-inventory/pkg/interfaces"
	"drive-inventory/pkg/models"
)

// DefaultSeparator joins path segments in emitted records.
const DefaultSeparator = "/"

// EmitFunc receives each matching record. A non-nil error aborts the walk.
type EmitFunc func(models.FileRecord) error

// Summary describes a finished (possibly partial) walk.
type Summary struct {
	Records int
	Folders int
	Pages   int
	Skipped []models.SkippedSubtree
}

// Incomplete reports whether any subtree was left out of the output.
func (s *Summary) Incomplete() bool {
	return len(s.Skipped) > 0
}

// Walker traverses a folder tree through a Lister.
type Walker struct {
	lister    interfaces.Lister
	predicate filter.Predicate
	separator string
	retry     RetryPolicy
	logger    *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithPredicate sets the file predicate. The default matches images.
func WithPredicate(p filter.Predicate) Option {
	return func(w *Walker) {
		if p != nil {
			w.predicate = p
		}
	}
}

// WithSeparator sets the path separator.
func WithSeparator(sep string) Option {
	return func(w *Walker) {
		if sep != "" {
			w.separator = sep
		}
	}
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(w *Walker) { w.retry = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Walker) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Walker reading through lister.
func New(lister interfaces.Lister, opts ...Option) *Walker {
	w := &Walker{
		lister:    lister,
		predicate: filter.IsImage,
		separator: DefaultSeparator,
		retry:     DefaultRetryPolicy(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// walkState is the per-walk bookkeeping shared by all frames. It holds no
// path data.
type walkState struct {
	emit    EmitFunc
	summary *Summary
	emitted map[string]struct{}
}

// Walk visits root and everything below it, calling emit for each matching
// file in traversal order. The returned Summary is non-nil even when an
// error is returned, and reflects the work done up to that point.
func (w *Walker) Walk(ctx context.Context, root models.FolderRef, emit EmitFunc) (*Summary, error) {
	st := &walkState{
		emit:    emit,
		summary: &Summary{},
		emitted: make(map[string]struct{}),
	}

	err := w.walkFolder(ctx, root, st)

	return st.summary, err
}

func (w *Walker) walkFolder(ctx context.Context, folder models.FolderRef, st *walkState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := folder.Path(w.separator)
	w.logger.Debug("Listing folder", "folder_id", folder.ID, "path", path)

	entries, err := w.listAll(ctx, folder.ID, st.summary)
	if err != nil {
		if isFatal(ctx, err) {
			return err
		}

		skipped := models.SkippedSubtree{FolderID: folder.ID, Path: path, Err: err}
		st.summary.Skipped = append(st.summary.Skipped, skipped)
		w.logger.Warn("Skipping subtree", "folder_id", folder.ID, "path", path, "error", err)

		return nil
	}

	st.summary.Folders++

	for _, entry := range entries {
		if entry.IsFolder() {
			if err := w.walkFolder(ctx, folder.Child(entry.ID, entry.Name), st); err != nil {
				return err
			}

			continue
		}

		if !w.predicate(entry) {
			continue
		}

		rec := models.NewFileRecord(entry, folder, w.separator)

		key := rec.Path + "\x00" + rec.ID
		if _, dup := st.emitted[key]; dup {
			continue
		}

		st.emitted[key] = struct{}{}

		if err := st.emit(rec); err != nil {
			return fmt.Errorf("failed to emit record for %s (%s): %w", rec.Name, rec.ID, err)
		}

		st.summary.Records++
	}

	return nil
}

// isFatal reports whether a listing error must end the whole walk rather
// than just the current subtree.
func isFatal(ctx context.Context, err error) bool {
	if errors.Is(err, models.ErrAuth) {
		return true
	}

	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}
