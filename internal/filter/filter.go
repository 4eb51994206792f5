// Package filter decides which files end up in a report.
package filter

import (
	"fmt"
	"strings"
	"time"

	"drive-inventory/pkg/models"
)

// Predicate reports whether a file entry belongs in the report. Predicates
// must be total: every entry yields true or false, never a panic.
type Predicate func(models.Entry) bool

// Preset names accepted in configuration and on the command line.
const (
	PresetImage    = "image"
	PresetDocument = "document"
	PresetAny      = "any"
)

// ImageMimeTypes is the allow-list used by IsImage.
var ImageMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/bmp",
	"image/svg+xml",
	"image/webp",
	"image/tiff",
	"image/heif",
	"image/heic",
}

// DocumentMimeTypes is the allow-list used by IsDocument.
var DocumentMimeTypes = []string{
	"application/pdf",
	"text/plain",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"application/vnd.google-apps.document",
	"application/vnd.google-apps.spreadsheet",
	"application/vnd.google-apps.presentation",
}

// MimeTypeIn matches entries whose MIME type is in types. An empty MIME
// type never matches.
func MimeTypeIn(types ...string) Predicate {
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	return func(e models.Entry) bool {
		if e.MimeType == "" {
			return false
		}

		_, ok := allowed[strings.ToLower(e.MimeType)]

		return ok
	}
}

var (
	// IsImage matches common raster and vector image formats.
	IsImage = MimeTypeIn(ImageMimeTypes...)
	// IsDocument matches office documents, PDFs and Google Workspace files.
	IsDocument = MimeTypeIn(DocumentMimeTypes...)
)

// AnyFile matches every file.
func AnyFile(models.Entry) bool { return true }

// ModifiedAfter matches entries modified strictly after t. Entries without a
// modification time never match.
func ModifiedAfter(t time.Time) Predicate {
	return func(e models.Entry) bool {
		return !e.ModifiedTime.IsZero() && e.ModifiedTime.After(t)
	}
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(e models.Entry) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}

		return true
	}
}

// Or matches when any predicate matches.
func Or(preds ...Predicate) Predicate {
	return func(e models.Entry) bool {
		for _, p := range preds {
			if p(e) {
				return true
			}
		}

		return false
	}
}

// ForPreset returns the predicate registered under name.
func ForPreset(name string) (Predicate, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PresetImage:
		return IsImage, nil
	case PresetDocument:
		return IsDocument, nil
	case PresetAny:
		return AnyFile, nil
	default:
		return nil, fmt.Errorf("unknown file type preset %q (supported: image, document, any)", name)
	}
}

// FromConfig combines presets and explicit MIME types with OR, then applies
// the modified-after cutoff when since is non-zero. With no presets and no
// MIME types the result is IsImage.
func FromConfig(presets, mimeTypes []string, since time.Time) (Predicate, error) {
	var alternatives []Predicate

	for _, name := range presets {
		p, err := ForPreset(name)
		if err != nil {
			return nil, err
		}

		alternatives = append(alternatives, p)
	}

	if len(mimeTypes) > 0 {
		alternatives = append(alternatives, MimeTypeIn(mimeTypes...))
	}

	var pred Predicate

	switch len(alternatives) {
	case 0:
		pred = IsImage
	case 1:
		pred = alternatives[0]
	default:
		pred = Or(alternatives...)
	}

	if !since.IsZero() {
		pred = And(pred, ModifiedAfter(since))
	}

	return pred, nil
}

// Presets lists the accepted preset names.
func Presets() []string {
	return []string{PresetImage, PresetDocument, PresetAny}
}
