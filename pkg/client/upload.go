package client

import (
	"fmt"
	"sync"
	"time"
)

// UploadedFile is one entry in a field's upload list. While an upload is in
// flight the entry is a placeholder with a temporary ID and Uploading set;
// Resolve swaps it for the server's record in place.
type UploadedFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size"`
	Uploading bool   `json:"uploading,omitempty"`
}

// UploadSet is the authoritative upload state for one form, keyed by file
// field name. Views are always recomputed from it, never patched.
type UploadSet struct {
	mu    sync.Mutex
	seq   int
	files map[string][]UploadedFile
}

// NewUploadSet returns an empty set.
func NewUploadSet() *UploadSet {
	return &UploadSet{files: map[string][]UploadedFile{}}
}

// Restore replaces the set's contents, used when rehydrating from a draft.
func (s *UploadSet) Restore(files map[string][]UploadedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = map[string][]UploadedFile{}
	for field, list := range files {
		s.files[field] = append([]UploadedFile(nil), list...)
	}
}

// AddPlaceholder appends an in-flight entry for a field and returns its
// temporary ID.
func (s *UploadSet) AddPlaceholder(field, name string, size int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	tempID := fmt.Sprintf("uploading-%d-%d", time.Now().UnixMilli(), s.seq)
	s.files[field] = append(s.files[field], UploadedFile{
		ID:        tempID,
		Name:      name,
		SizeBytes: size,
		Uploading: true,
	})
	return tempID
}

// Resolve replaces the placeholder tempID with the server's file record,
// preserving list position. It reports whether the placeholder was found.
func (s *UploadSet) Resolve(field, tempID string, file UploadedFile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.files[field]
	for i, entry := range list {
		if entry.ID == tempID {
			file.Uploading = false
			list[i] = file
			return true
		}
	}
	return false
}

// Remove deletes the entry with the given ID from a field's list.
func (s *UploadSet) Remove(field, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.files[field]
	for i, entry := range list {
		if entry.ID == id {
			s.files[field] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Files returns a copy of one field's upload list in insertion order.
func (s *UploadSet) Files(field string) []UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]UploadedFile(nil), s.files[field]...)
}

// All returns a copy of the whole set, omitting fields with no entries.
func (s *UploadSet) All() map[string][]UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]UploadedFile, len(s.files))
	for field, list := range s.files {
		if len(list) == 0 {
			continue
		}
		out[field] = append([]UploadedFile(nil), list...)
	}
	return out
}

// Empty reports whether no field has uploads.
func (s *UploadSet) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, list := range s.files {
		if len(list) > 0 {
			return false
		}
	}
	return true
}
