package walker

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"drive-inventory/pkg/models"
)

// fakeLister serves an in-memory tree in pages of pageSize entries.
type fakeLister struct {
	mu       sync.Mutex
	children map[string][]models.Entry
	names    map[string]string
	pageSize int

	// failures returns a fixed error for a folder on every call.
	failures map[string]error
	// transient makes the first n calls for a folder fail with ErrTransient.
	transient map[string]int

	calls []listCall
}

type listCall struct {
	folderID  string
	pageToken string
}

func newFakeLister(pageSize int) *fakeLister {
	return &fakeLister{
		children:  make(map[string][]models.Entry),
		names:     make(map[string]string),
		pageSize:  pageSize,
		failures:  make(map[string]error),
		transient: make(map[string]int),
	}
}

func (f *fakeLister) addFolder(parentID, id, name string) {
	f.names[id] = name
	if parentID == "" {
		return
	}

	f.children[parentID] = append(f.children[parentID], models.Entry{
		ID:       id,
		Name:     name,
		Kind:     models.KindFolder,
		MimeType: models.MimeTypeFolder,
	})
}

func (f *fakeLister) addFile(parentID, id, name, mimeType string) {
	f.children[parentID] = append(f.children[parentID], models.Entry{
		ID:       id,
		Name:     name,
		Kind:     models.KindFile,
		MimeType: mimeType,
		Size:     2048,
		HasSize:  true,
		ViewURL:  "https://drive.google.com/file/d/" + id + "/view",
	})
}

func (f *fakeLister) ListChildren(_ context.Context, folderID, pageToken string) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, listCall{folderID: folderID, pageToken: pageToken})

	if err, ok := f.failures[folderID]; ok {
		return nil, err
	}

	if n := f.transient[folderID]; n > 0 {
		f.transient[folderID] = n - 1

		return nil, fmt.Errorf("503 backend error: %w", models.ErrTransient)
	}

	start := 0
	if pageToken != "" {
		var err error

		start, err = strconv.Atoi(pageToken)
		if err != nil {
			return nil, fmt.Errorf("bad page token %q", pageToken)
		}
	}

	all := f.children[folderID]
	end := min(start+f.pageSize, len(all))

	page := &models.Page{Entries: append([]models.Entry(nil), all[start:end]...)}
	if end < len(all) {
		page.NextPageToken = strconv.Itoa(end)
	}

	return page, nil
}

func (f *fakeLister) GetMetadata(_ context.Context, id string) (*models.Metadata, error) {
	name, ok := f.names[id]
	if !ok {
		return nil, fmt.Errorf("file %s not found", id)
	}

	return &models.Metadata{ID: id, Name: name, MimeType: models.MimeTypeFolder}, nil
}

func (f *fakeLister) callsFor(folderID string) []listCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []listCall

	for _, c := range f.calls {
		if c.folderID == folderID {
			out = append(out, c)
		}
	}

	return out
}
