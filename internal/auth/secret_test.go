package auth

import (
	"errors"
	"strings"
	"testing"
)

// newTestVerifier hashes secret at bcrypt's minimum cost and returns a
// verifier for it.
func newTestVerifier(t *testing.T, secret string) *SecretVerifier {
	t.Helper()
	hash, err := newSecretVerifierWithCost("", 4).Hash(secret)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	return newSecretVerifierWithCost(hash, 4)
}

func TestHash_LooksBcrypt(t *testing.T) {
	hash, err := newSecretVerifierWithCost("", 4).Hash("let-me-preview")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	// bcrypt hashes start with $2a$ or $2b$ followed by the cost.
	if !strings.HasPrefix(hash, "$2a$04$") && !strings.HasPrefix(hash, "$2b$04$") {
		t.Errorf("Hash() = %q, want a cost-4 bcrypt hash", hash)
	}
}

func TestHash_Salted(t *testing.T) {
	v := newSecretVerifierWithCost("", 4)
	h1, _ := v.Hash("same")
	h2, _ := v.Hash("same")
	if h1 == h2 {
		t.Error("two hashes of the same secret are identical; salt missing")
	}
}

func TestVerify(t *testing.T) {
	v := newTestVerifier(t, "let-me-preview")

	tests := []struct {
		name    string
		secret  string
		wantErr error
	}{
		{"correct", "let-me-preview", nil},
		{"wrong", "let-me-in", ErrWrongSecret},
		{"empty", "", ErrWrongSecret},
		{"case differs", "Let-Me-Preview", ErrWrongSecret},
		{"too long", strings.Repeat("a", 73), ErrSecretTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.secret)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_NoHashConfigured(t *testing.T) {
	err := NewSecretVerifier("").Verify("anything")
	if err == nil {
		t.Fatal("Verify() with no hash should fail")
	}
}

func TestHash_TooLong(t *testing.T) {
	_, err := NewSecretVerifier("").Hash(strings.Repeat("a", 73))
	if !errors.Is(err, ErrSecretTooLong) {
		t.Errorf("Hash() error = %v, want ErrSecretTooLong", err)
	}
}
