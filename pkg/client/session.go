package client

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-intake/pkg/schema"
)

// State is the session lifecycle phase.
type State int

const (
	// StateIdle is a session that has not loaded its form yet.
	StateIdle State = iota
	// StateEditing accepts value changes and uploads.
	StateEditing
	// StateSubmitting has a submit in flight.
	StateSubmitting
	// StateSubmitted is terminal; the draft has been cleared.
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AttachResult reports the outcome of one file in a batch.
type AttachResult struct {
	Name string
	File UploadedFile
	Err  error
}

// Session drives one intake form fill end to end. Sessions are not safe for
// concurrent use; the upload set underneath is.
type Session struct {
	api    *API
	drafts DraftStore
	token  string

	state      State
	definition schema.FormDefinition
	draft      Draft
	uploads    *UploadSet
}

// NewSession builds an idle session for one intake token.
func NewSession(api *API, drafts DraftStore, token string) *Session {
	return &Session{
		api:     api,
		drafts:  drafts,
		token:   token,
		draft:   NewDraft(),
		uploads: NewUploadSet(),
	}
}

// State returns the current lifecycle phase.
func (s *Session) State() State { return s.state }

// Definition returns the loaded form definition.
func (s *Session) Definition() schema.FormDefinition { return s.definition }

// Uploads exposes the session's upload state.
func (s *Session) Uploads() *UploadSet { return s.uploads }

// Start fetches the definition, restores any saved draft, and moves the
// session to editing.
func (s *Session) Start(ctx context.Context) error {
	if s.state != StateIdle {
		return ErrBadState
	}

	definition, err := s.api.Definition(ctx, s.token)
	if err != nil {
		return err
	}
	s.definition = definition

	draft, found, err := s.drafts.Load(s.token)
	if err != nil {
		return err
	}
	if found {
		s.draft = draft
		s.uploads.Restore(draft.Uploads)
	}

	s.state = StateEditing
	return nil
}

// Value returns the current scalar value for a field, preferring draft state
// over the definition default.
func (s *Session) Value(name string) string {
	if value, ok := s.draft.Values[name]; ok {
		return value
	}
	if field, ok := s.definition.FieldByName(name); ok {
		return field.Value
	}
	return ""
}

// Choices returns the selected options of a checkbox group.
func (s *Session) Choices(name string) []string {
	return append([]string(nil), s.draft.Choices[name]...)
}

// SetValue records a scalar field value and saves the draft. The field must
// exist and accept a single value.
func (s *Session) SetValue(name, value string) error {
	if s.state != StateEditing {
		return ErrBadState
	}
	field, ok := s.definition.FieldByName(name)
	if !ok {
		return fmt.Errorf("client: unknown field %q", name)
	}
	switch field.Type {
	case schema.FieldTypeText, schema.FieldTypeTextarea, schema.FieldTypeSelect:
	default:
		return fmt.Errorf("client: field %q does not take a single value", name)
	}

	s.draft.Values[name] = value
	s.saveDraft()
	return nil
}

// SetChoices records the checked options of a checkbox group and saves the
// draft.
func (s *Session) SetChoices(name string, choices []string) error {
	if s.state != StateEditing {
		return ErrBadState
	}
	field, ok := s.definition.FieldByName(name)
	if !ok {
		return fmt.Errorf("client: unknown field %q", name)
	}
	if field.Type != schema.FieldTypeCheckbox {
		return fmt.Errorf("client: field %q is not a checkbox group", name)
	}

	s.draft.Choices[name] = append([]string(nil), choices...)
	s.saveDraft()
	return nil
}

// AttachFile uploads one file to a file field. Files over MaxFileBytes are
// rejected before any request. On upload failure the placeholder is removed
// and the error returned; earlier uploads are untouched.
func (s *Session) AttachFile(ctx context.Context, field, name string, size int64, content io.Reader) (UploadedFile, error) {
	if s.state != StateEditing {
		return UploadedFile{}, ErrBadState
	}
	def, ok := s.definition.FieldByName(field)
	if !ok || def.Type != schema.FieldTypeFile {
		return UploadedFile{}, fmt.Errorf("client: field %q is not a file field", field)
	}
	if size > MaxFileBytes {
		return UploadedFile{}, fmt.Errorf("client: %s: %w", name, ErrFileTooLarge)
	}

	tempID := s.uploads.AddPlaceholder(field, name, size)
	result, err := s.api.Upload(ctx, s.token, def.Category, name, content)
	if err != nil {
		s.uploads.Remove(field, tempID)
		s.saveDraft()
		return UploadedFile{}, fmt.Errorf("client: upload %s: %w", name, err)
	}

	file := UploadedFile{ID: result.ID, Name: result.Filename, SizeBytes: result.SizeBytes}
	s.uploads.Resolve(field, tempID, file)
	s.saveDraft()
	return file, nil
}

// NamedFile pairs a filename with its content for batch attachment.
type NamedFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

// AttachFiles uploads a batch sequentially in the order given. A failed file
// is reported in its result and skipped; the batch continues.
func (s *Session) AttachFiles(ctx context.Context, field string, files []NamedFile) []AttachResult {
	results := make([]AttachResult, 0, len(files))
	for _, f := range files {
		uploaded, err := s.AttachFile(ctx, field, f.Name, f.Size, f.Content)
		results = append(results, AttachResult{Name: f.Name, File: uploaded, Err: err})
	}
	return results
}

// RemoveFile drops a previously uploaded file from the form state. The blob
// itself stays server-side until the agent prunes it.
func (s *Session) RemoveFile(field, id string) bool {
	if s.state != StateEditing {
		return false
	}
	removed := s.uploads.Remove(field, id)
	if removed {
		s.saveDraft()
	}
	return removed
}

// Submit builds the payload fresh from session state and sends the final
// response. The draft is cleared only after the server accepts; on failure
// the session returns to editing with the draft intact.
func (s *Session) Submit(ctx context.Context) error {
	if s.state != StateEditing {
		return ErrBadState
	}
	s.state = StateSubmitting

	payload := make(map[string]any, len(s.draft.Values)+len(s.draft.Choices)+1)
	for name, value := range s.draft.Values {
		payload[name] = value
	}
	for name, choices := range s.draft.Choices {
		payload[name] = choices
	}
	if uploads := s.uploads.All(); len(uploads) > 0 {
		payload[ReservedUploadsKey] = uploads
	}

	if err := s.api.PutResponse(ctx, s.token, payload, false); err != nil {
		s.state = StateEditing
		return err
	}

	// The submission went through; a stale draft is cosmetic.
	_ = s.drafts.Clear(s.token)
	s.state = StateSubmitted
	return nil
}

// saveDraft persists current state best effort, mirroring the browser
// runtime's silent handling of full or unavailable storage.
func (s *Session) saveDraft() {
	s.draft.Uploads = s.uploads.All()
	_ = s.drafts.Save(s.token, s.draft)
}
