// Package blob stores intake payloads and uploads as opaque objects. Keys
// follow a fixed layout so agent tooling can locate a form's artifacts
// without a database lookup:
//
//	forms/<token>/definition.json
//	forms/<token>/response.json
//	intake/<token>/<category>/<timestamp>-<name>
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// ErrNotFound reports a missing object.
var ErrNotFound = errors.New("blob: not found")

// Store is the object storage contract.
type Store interface {
	Put(ctx context.Context, key string, content io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// DefinitionKey is the object key for a form's definition.
func DefinitionKey(token string) string {
	return "forms/" + token + "/definition.json"
}

// ResponseKey is the object key for a form's submitted response.
func ResponseKey(token string) string {
	return "forms/" + token + "/response.json"
}

// UploadKey builds the object key for one uploaded file. The timestamp
// prefix keeps repeated uploads of the same filename distinct.
func UploadKey(token, category, filename string, at time.Time) string {
	return fmt.Sprintf("intake/%s/%s/%d-%s", token, category, at.UnixMilli(), SafeFilename(filename))
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SafeFilename strips path separators and shell-hostile characters from a
// client-supplied filename.
func SafeFilename(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
