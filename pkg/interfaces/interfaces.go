package interfaces

import (
	"context"

	"drive-inventory/pkg/models"
)

// Lister is the remote listing capability the walker consumes. Both calls are
// fallible remote operations; implementations report credential failures with
// models.ErrAuth and retryable failures with models.ErrTransient.
type Lister interface {
	// ListChildren returns one page of folderID's children. An empty
	// pageToken requests the first page.
	ListChildren(ctx context.Context, folderID, pageToken string) (*models.Page, error)
	GetMetadata(ctx context.Context, id string) (*models.Metadata, error)
}

// Sink receives file records in traversal order and persists them as a
// tabular artifact. Append may be called many times; exactly one of Finalize
// or Abort is called once traversal is over.
type Sink interface {
	Name() string
	Append(ctx context.Context, rec models.FileRecord) error
	// Finalize persists everything appended so far.
	Finalize(ctx context.Context) error
	// Abort discards everything appended so far and releases resources.
	Abort() error
}
