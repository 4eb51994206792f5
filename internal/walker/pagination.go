package walker

import (
	"context"
	"fmt"

	"drive-inventory/pkg/models"
)

// listAll drives ListChildren until the cursor is exhausted and returns the
// folder's entries in arrival order. Each page request is retried on its own,
// so a transient failure on page k does not refetch pages 1..k-1. Entries
// repeated across pages are kept once.
func (w *Walker) listAll(ctx context.Context, folderID string, summary *Summary) ([]models.Entry, error) {
	var (
		entries   []models.Entry
		pageToken string
		seen      = make(map[string]struct{})
	)

	for {
		var page *models.Page

		err := w.retry.Do(ctx, w.logger, "list "+folderID, func() error {
			var err error

			page, err = w.lister.ListChildren(ctx, folderID, pageToken)

			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
		}

		summary.Pages++

		if page == nil {
			page = &models.Page{}
		}

		for _, e := range page.Entries {
			if _, dup := seen[e.ID]; dup {
				continue
			}

			seen[e.ID] = struct{}{}
			entries = append(entries, e)
		}

		if page.NextPageToken == "" {
			return entries, nil
		}

		if page.NextPageToken == pageToken {
			return nil, fmt.Errorf("listing of folder %s returned the same page token twice", folderID)
		}

		pageToken = page.NextPageToken
	}
}
