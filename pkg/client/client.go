// Package client is the Go counterpart of the browser form runtime. It drives
// the same lifecycle a client goes through in the rendered page: restore a
// draft, edit values, upload files in order, submit once, and only then drop
// the draft. Programmatic fills and tests use it against the same API the
// embedded page scripts call.
package client

import "errors"

// MaxFileBytes is the per-file upload ceiling. Files over the limit are
// rejected locally before any request is made.
const MaxFileBytes int64 = 10 << 20

// ReservedUploadsKey is the draft and payload key carrying upload state. Form
// fields can never use it as a name.
const ReservedUploadsKey = "_uploaded_files"

var (
	// ErrNotFound reports an unknown intake token.
	ErrNotFound = errors.New("client: intake not found")

	// ErrExpired reports an intake past its expiry.
	ErrExpired = errors.New("client: intake expired")

	// ErrFileTooLarge reports a file over MaxFileBytes.
	ErrFileTooLarge = errors.New("client: file exceeds 10 MB limit")

	// ErrBadState reports an operation invalid for the session's state.
	ErrBadState = errors.New("client: operation not valid in current state")
)
