package drive

// ListOptions controls how folder children are listed from Google Drive.
type ListOptions struct {
	// PageSize is the number of results per page (default 1000, max 1000).
	PageSize int
	// SharedDrives includes items from shared drives.
	SharedDrives bool
	// OrderBy is passed to the Drive API; empty keeps the API default.
	OrderBy string
	// ExtraQuery is appended with AND to the generated query.
	ExtraQuery string
}

// Google Drive MIME types.
const (
	MimeTypeGoogleDoc          = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet        = "application/vnd.google-apps.spreadsheet"
	MimeTypeGooglePresentation = "application/vnd.google-apps.presentation"
	MimeTypeShortcut           = "application/vnd.google-apps.shortcut"

	mimeTypePrefixGoogleApps = "application/vnd.google-apps."
)

const (
	defaultPageSize = 1000
	maxPageSize     = 1000

	listFields     = "nextPageToken, files(id,name,mimeType,size,webViewLink,modifiedTime)"
	metadataFields = "id,name,mimeType"
)
