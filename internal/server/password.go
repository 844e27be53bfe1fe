package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashPassword derives the stored bcrypt hash for a form access password.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("server: hash password: %w", err)
	}
	return string(hash), nil
}

// checkPassword compares a submitted password against the stored hash.
func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// gateVerifier derives the cookie value proving a visitor passed the gate.
// It is bound to both the token and the stored hash, so rotating the
// password invalidates existing cookies.
func gateVerifier(token, passwordHash string) string {
	sum := sha256.Sum256([]byte(token + ":" + passwordHash))
	return hex.EncodeToString(sum[:])
}

// verifierMatches compares cookie values in constant time.
func verifierMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
