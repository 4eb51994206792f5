package models

import (
	"math"
	"strings"
	"time"
)

// MimeTypeFolder is the MIME type Google Drive uses for folders.
const MimeTypeFolder = "application/vnd.google-apps.folder"

// EntryKind distinguishes folders from leaf files in a listing.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindFolder
)

func (k EntryKind) String() string {
	if k == KindFolder {
		return "folder"
	}

	return "file"
}

// Entry is one item returned by a folder listing.
type Entry struct {
	ID           string
	Name         string
	Kind         EntryKind
	MimeType     string
	Size         int64
	HasSize      bool // false for files the store reports no size for (e.g. Google Docs)
	ViewURL      string
	ModifiedTime time.Time
}

// IsFolder reports whether the entry is a folder.
func (e Entry) IsFolder() bool {
	return e.Kind == KindFolder
}

// KindForMimeType classifies a store MIME type.
func KindForMimeType(mimeType string) EntryKind {
	if mimeType == MimeTypeFolder {
		return KindFolder
	}

	return KindFile
}

// Page is a single response from a paginated folder listing.
// An empty NextPageToken means there are no further pages.
type Page struct {
	Entries       []Entry
	NextPageToken string
}

// Metadata is the minimal description of a file or folder returned by a
// metadata lookup.
type Metadata struct {
	ID       string
	Name     string
	MimeType string
}

// FolderRef identifies a folder together with its logical path from the
// walk root. A FolderRef is never mutated; Child always returns a new value
// backed by its own slice.
type FolderRef struct {
	ID   string
	path []string
}

// NewFolderRef creates the root reference. label becomes the first path
// segment; an empty label yields an empty path.
func NewFolderRef(id, label string) FolderRef {
	ref := FolderRef{ID: id}
	if label != "" {
		ref.path = []string{label}
	}

	return ref
}

// Child returns the reference for a subfolder named name.
func (f FolderRef) Child(id, name string) FolderRef {
	path := make([]string, len(f.path), len(f.path)+1)
	copy(path, f.path)

	return FolderRef{ID: id, path: append(path, name)}
}

// Segments returns a copy of the logical path segments.
func (f FolderRef) Segments() []string {
	out := make([]string, len(f.path))
	copy(out, f.path)

	return out
}

// Depth is the number of path segments.
func (f FolderRef) Depth() int {
	return len(f.path)
}

// Path joins the logical path with sep.
func (f FolderRef) Path(sep string) string {
	return strings.Join(f.path, sep)
}

// FileRecord is one output row describing a matching file.
type FileRecord struct {
	Name     string
	ID       string
	Path     string // containing folder's logical path, without the file's own name
	MimeType string
	SizeKB   *float64
	ViewURL  string
}

// NewFileRecord builds the record for entry located in parent.
func NewFileRecord(entry Entry, parent FolderRef, sep string) FileRecord {
	rec := FileRecord{
		Name:     entry.Name,
		ID:       entry.ID,
		Path:     parent.Path(sep),
		MimeType: entry.MimeType,
		ViewURL:  entry.ViewURL,
	}

	if entry.HasSize {
		kb := BytesToKB(entry.Size)
		rec.SizeKB = &kb
	}

	return rec
}

// BytesToKB converts a byte count to kilobytes rounded to two decimals.
func BytesToKB(size int64) float64 {
	return math.Round(float64(size)/1024*100) / 100
}
