package drive

import (
	"fmt"
	"strings"
)

// ExtractFileID extracts a file or folder ID from a Drive or Docs URL, or
// returns the input unchanged when it already looks like a bare ID.
// Supports:
// - drive.google.com/drive/folders/{ID}.
// - drive.google.com/drive/u/0/folders/{ID}.
// - drive.google.com/file/d/{ID}.
// - docs.google.com/document/d/{ID} (and spreadsheets, presentation).
// - drive.google.com/open?id={ID}.
func ExtractFileID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty file ID")
	}

	if !strings.ContainsAny(input, "/?=") {
		return input, nil
	}

	for _, marker := range []string{"folders", "d"} {
		if id := segmentAfter(input, marker); id != "" {
			return id, nil
		}
	}

	if id := extractFileIDFromOpenURL(input); id != "" {
		return id, nil
	}

	return "", fmt.Errorf("unable to extract file ID from URL: %s", input)
}

// segmentAfter returns the path segment following marker, ignoring any
// query string or fragment.
func segmentAfter(url, marker string) string {
	if i := strings.IndexAny(url, "?#"); i != -1 {
		url = url[:i]
	}

	parts := strings.Split(url, "/")
	for i, part := range parts {
		if part == marker && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1]
		}
	}

	return ""
}

// extractFileIDFromOpenURL extracts file ID from drive.google.com/open?id= URLs.
func extractFileIDFromOpenURL(url string) string {
	if !strings.Contains(url, "id=") {
		return ""
	}

	_, id, _ := strings.Cut(url, "id=")
	if idx := strings.IndexAny(id, "&#"); idx != -1 {
		id = id[:idx]
	}

	return id
}
