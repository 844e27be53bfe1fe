package token_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-intake/pkg/token"
)

func TestNewLengthAndAlphabet(t *testing.T) {
	tok, err := token.New()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if len(tok) != token.DefaultLength {
		t.Fatalf("token length = %d, want %d", len(tok), token.DefaultLength)
	}
	const ambiguous = "0O1lIio"
	if strings.ContainsAny(tok, ambiguous) {
		t.Fatalf("token %q contains ambiguous characters", tok)
	}
}

func TestNewWithLengthRejectsNonPositive(t *testing.T) {
	for _, length := range []int{0, -5} {
		if _, err := token.NewWithLength(length); err == nil {
			t.Fatalf("expected error for length %d", length)
		}
	}
}

func TestNewTokensDiffer(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		tok, err := token.New()
		if err != nil {
			t.Fatalf("new token: %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}
