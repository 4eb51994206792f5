package walker

import (
	"context"
	"errors"
	"iter"

	"drive-inventory/pkg/models"
)

var errStopped = errors.New("iteration stopped")

// Records returns the walk as a lazy sequence. Ranging over it runs a fresh
// walk; breaking out of the loop stops the traversal. A fatal error is
// delivered as the final pair with a zero record.
func (w *Walker) Records(ctx context.Context, root models.FolderRef) iter.Seq2[models.FileRecord, error] {
	return func(yield func(models.FileRecord, error) bool) {
		_, err := w.Walk(ctx, root, func(rec models.FileRecord) error {
			if !yield(rec, nil) {
				return errStopped
			}

			return nil
		})
		if err != nil && !errors.Is(err, errStopped) {
			yield(models.FileRecord{}, err)
		}
	}
}
