package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-intake/pkg/schema"
)

// API is the HTTP client for the intake endpoints the form runtime calls.
type API struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
}

// APIOption configures an API client.
type APIOption func(*API)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) APIOption {
	return func(a *API) {
		if httpClient != nil {
			a.httpClient = httpClient
		}
	}
}

// WithAPIKey attaches a bearer key to every request. Client-facing endpoints
// do not need one; agent tooling reusing this client does.
func WithAPIKey(key string) APIOption {
	return func(a *API) {
		a.apiKey = key
	}
}

// NewAPI builds a client for the service at baseURL.
func NewAPI(baseURL string, options ...APIOption) *API {
	api := &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range options {
		opt(api)
	}
	return api
}

// UploadResult is the server's record of a stored file.
type UploadResult struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Category  string `json:"category"`
	SizeBytes int64  `json:"size_bytes"`
}

// FileInfo is one entry in an intake's file listing.
type FileInfo struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
}

// Definition fetches the intake's form definition.
func (a *API) Definition(ctx context.Context, token string) (schema.FormDefinition, error) {
	body, err := a.do(ctx, http.MethodGet, "/api/intake/"+token+"/definition", "", nil)
	if err != nil {
		return schema.FormDefinition{}, err
	}
	def, err := schema.Parse(body)
	if err != nil {
		return schema.FormDefinition{}, fmt.Errorf("client: parse definition: %w", err)
	}
	return def, nil
}

// PutResponse stores the submission payload. partial marks an autosave;
// a final submit sends partial=false.
func (a *API) PutResponse(ctx context.Context, token string, data map[string]any, partial bool) error {
	payload, err := json.Marshal(map[string]any{
		"submitted_data": data,
		"partial":        partial,
	})
	if err != nil {
		return fmt.Errorf("client: encode response payload: %w", err)
	}
	_, err = a.do(ctx, http.MethodPut, "/api/intake/"+token, "application/json", bytes.NewReader(payload))
	return err
}

// Upload sends one file as multipart form data and returns the stored record.
func (a *API) Upload(ctx context.Context, token, category, filename string, content io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("client: build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadResult{}, fmt.Errorf("client: read upload content: %w", err)
	}
	if err := writer.WriteField("category", category); err != nil {
		return UploadResult{}, fmt.Errorf("client: build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("client: build upload form: %w", err)
	}

	body, err := a.do(ctx, http.MethodPost, "/api/intake/"+token+"/upload", writer.FormDataContentType(), &buf)
	if err != nil {
		return UploadResult{}, err
	}

	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return UploadResult{}, fmt.Errorf("client: decode upload result: %w", err)
	}
	return result, nil
}

// Files lists the intake's uploaded files.
func (a *API) Files(ctx context.Context, token string) ([]FileInfo, error) {
	body, err := a.do(ctx, http.MethodGet, "/api/intake/"+token+"/files", "", nil)
	if err != nil {
		return nil, err
	}
	var files []FileInfo
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, fmt.Errorf("client: decode file list: %w", err)
	}
	return files, nil
}

func (a *API) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return payload, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusGone:
		return nil, ErrExpired
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return nil, ErrFileTooLarge
	default:
		return nil, fmt.Errorf("client: %s %s: unexpected status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(payload)))
	}
}
