package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Draft is the persisted in-progress state of one form. It round-trips the
// same flat JSON document the browser runtime keeps in local storage: field
// values keyed by name, checkbox groups as string arrays, and upload state
// under the reserved key.
type Draft struct {
	Values  map[string]string
	Choices map[string][]string
	Uploads map[string][]UploadedFile
}

// NewDraft returns an empty draft with all maps allocated.
func NewDraft() Draft {
	return Draft{
		Values:  map[string]string{},
		Choices: map[string][]string{},
		Uploads: map[string][]UploadedFile{},
	}
}

// Empty reports whether the draft carries no state worth persisting.
func (d Draft) Empty() bool {
	return len(d.Values) == 0 && len(d.Choices) == 0 && len(d.Uploads) == 0
}

// MarshalJSON flattens the draft into the browser runtime's document shape.
func (d Draft) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(d.Values)+len(d.Choices)+1)
	for name, value := range d.Values {
		doc[name] = value
	}
	for name, choices := range d.Choices {
		doc[name] = choices
	}
	if len(d.Uploads) > 0 {
		doc[ReservedUploadsKey] = d.Uploads
	}
	return json.Marshal(doc)
}

// UnmarshalJSON splits a flat draft document back into typed state. Unknown
// underscore-prefixed keys are dropped, matching the browser restore path.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("client: decode draft: %w", err)
	}

	*d = NewDraft()
	for key, raw := range doc {
		if key == ReservedUploadsKey {
			if err := json.Unmarshal(raw, &d.Uploads); err != nil {
				return fmt.Errorf("client: decode draft uploads: %w", err)
			}
			continue
		}
		if strings.HasPrefix(key, "_") {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err == nil {
			d.Values[key] = value
			continue
		}
		var choices []string
		if err := json.Unmarshal(raw, &choices); err == nil {
			d.Choices[key] = choices
			continue
		}
		// Anything else in the document is not field state; skip it.
	}
	return nil
}

// DraftStore persists drafts keyed by intake token.
type DraftStore interface {
	Load(token string) (Draft, bool, error)
	Save(token string, draft Draft) error
	Clear(token string) error
}

// FileDraftStore keeps one JSON document per token under a directory. It is
// the disk analogue of the browser's local storage entry.
type FileDraftStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileDraftStore creates the directory if needed.
func NewFileDraftStore(dir string) (*FileDraftStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("client: draft store requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("client: create draft dir: %w", err)
	}
	return &FileDraftStore{dir: dir}, nil
}

func (s *FileDraftStore) path(token string) string {
	// Tokens come from an alphanumeric alphabet; base-name them anyway so a
	// hostile token cannot escape the directory.
	return filepath.Join(s.dir, "intake_"+filepath.Base(token)+".json")
}

// Load reads the draft for token. The second return is false when no draft
// exists.
func (s *FileDraftStore) Load(token string) (Draft, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(token))
	if os.IsNotExist(err) {
		return NewDraft(), false, nil
	}
	if err != nil {
		return NewDraft(), false, fmt.Errorf("client: read draft: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		// A corrupt draft is treated as absent rather than blocking the form.
		return NewDraft(), false, nil
	}
	return draft, true, nil
}

// Save writes the draft atomically via a temp file rename.
func (s *FileDraftStore) Save(token string, draft Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("client: encode draft: %w", err)
	}

	target := s.path(token)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("client: write draft: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("client: commit draft: %w", err)
	}
	return nil
}

// Clear removes the stored draft. Clearing an absent draft is not an error.
func (s *FileDraftStore) Clear(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(token)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("client: clear draft: %w", err)
	}
	return nil
}
