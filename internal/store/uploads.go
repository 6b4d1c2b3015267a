package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/knowlab/knowlab-cli/internal/domain"
)

// UploadList is a typed view over the uploads key: the files accepted by
// the backend and staged for the next summarize call. Files are removed
// only by explicit user removal or after a successful summarize.
type UploadList struct {
	mu    sync.Mutex
	store Store
}

// NewUploadList creates an upload list over s.
func NewUploadList(s Store) *UploadList {
	return &UploadList{store: s}
}

// All returns the staged files in upload order.
func (u *UploadList) All() ([]domain.UploadedFile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.load()
}

// Add appends a file to the staged list.
func (u *UploadList) Add(f domain.UploadedFile) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	files, err := u.load()
	if err != nil {
		return err
	}
	return u.save(append(files, f))
}

// Remove deletes the file with the given local id. Unknown ids are a
// no-op.
func (u *UploadList) Remove(id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	files, err := u.load()
	if err != nil {
		return err
	}
	kept := files[:0]
	for _, f := range files {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	return u.save(kept)
}

// Clear drops the staged list.
func (u *UploadList) Clear() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.store.Remove(KeyUploads)
}

func (u *UploadList) load() ([]domain.UploadedFile, error) {
	raw, ok, err := u.store.Get(KeyUploads)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var files []domain.UploadedFile
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		return nil, fmt.Errorf("failed to decode upload list: %w", err)
	}
	return files, nil
}

func (u *UploadList) save(files []domain.UploadedFile) error {
	data, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("failed to encode upload list: %w", err)
	}
	return u.store.Set(KeyUploads, string(data))
}
