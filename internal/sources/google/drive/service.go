package drive

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"drive-inventory/pkg/interfaces"
	"drive-inventory/pkg/models"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Service lists Google Drive folders page by page.
type Service struct {
	client *drive.Service
	opts   ListOptions
}

// NewService creates a Drive-backed lister. httpClient carries the
// credentials; it may be nil when clientOpts supply authentication.
func NewService(ctx context.Context, httpClient *http.Client, opts ListOptions, clientOpts ...option.ClientOption) (*Service, error) {
	if httpClient != nil {
		clientOpts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, clientOpts...)
	}

	driveService, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Drive client: %w", err)
	}

	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}

	if opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}

	return &Service{client: driveService, opts: opts}, nil
}

// ListChildren returns one page of the non-trashed children of folderID.
func (s *Service) ListChildren(ctx context.Context, folderID, pageToken string) (*models.Page, error) {
	req := s.client.Files.List().
		Context(ctx).
		Q(buildQuery(folderID, s.opts.ExtraQuery)).
		Fields(listFields).
		PageSize(int64(s.opts.PageSize))

	if s.opts.OrderBy != "" {
		req = req.OrderBy(s.opts.OrderBy)
	}

	if s.opts.SharedDrives {
		req = req.IncludeItemsFromAllDrives(true).SupportsAllDrives(true)
	}

	if pageToken != "" {
		req = req.PageToken(pageToken)
	}

	result, err := req.Do()
	if err != nil {
		return nil, classifyError(fmt.Errorf("failed to list children of %s: %w", folderID, err))
	}

	page := &models.Page{
		Entries:       make([]models.Entry, 0, len(result.Files)),
		NextPageToken: result.NextPageToken,
	}

	for _, f := range result.Files {
		page.Entries = append(page.Entries, convertEntry(f))
	}

	slog.Debug("Listed Drive page", "folder_id", folderID, "entries", len(page.Entries), "has_more", page.NextPageToken != "")

	return page, nil
}

// GetMetadata retrieves the name and MIME type of a file or folder.
func (s *Service) GetMetadata(ctx context.Context, id string) (*models.Metadata, error) {
	file, err := s.client.Files.Get(id).
		Context(ctx).
		SupportsAllDrives(true).
		Fields(metadataFields).
		Do()
	if err != nil {
		return nil, classifyError(fmt.Errorf("unable to retrieve metadata for %s: %w", id, err))
	}

	return &models.Metadata{ID: file.Id, Name: file.Name, MimeType: file.MimeType}, nil
}

// buildQuery constructs the q parameter selecting the non-trashed children
// of folderID.
func buildQuery(folderID, extra string) string {
	query := fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(folderID))

	if extra != "" {
		query += " and " + extra
	}

	return query
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)

	return strings.ReplaceAll(s, "'", `\'`)
}

// convertEntry converts a Drive API File to an Entry.
func convertEntry(f *drive.File) models.Entry {
	entry := models.Entry{
		ID:       f.Id,
		Name:     f.Name,
		Kind:     models.KindForMimeType(f.MimeType),
		MimeType: f.MimeType,
		ViewURL:  f.WebViewLink,
	}

	// Workspace files carry no byte size.
	if entry.Kind == models.KindFile && !strings.HasPrefix(f.MimeType, mimeTypePrefixGoogleApps) {
		entry.Size = f.Size
		entry.HasSize = true
	}

	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			entry.ModifiedTime = t
		}
	}

	return entry
}

// Ensure Service implements Lister.
var _ interfaces.Lister = (*Service)(nil)
