// Package token generates the URL-safe identifiers that key intake records.
package token

import (
	"crypto/rand"
	"fmt"
)

// alphabet drops visually ambiguous characters (0/O, 1/l/I/i, o) so tokens
// survive being read over the phone.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

// DefaultLength is the token length used for new intake records.
const DefaultLength = 24

// New returns a cryptographically random token of DefaultLength.
func New() (string, error) {
	return NewWithLength(DefaultLength)
}

// NewWithLength returns a cryptographically random token of the given length.
func NewWithLength(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token: invalid length %d", length)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
