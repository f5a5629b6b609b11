package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only reads the first 72 bytes of its input; longer secrets are
// rejected instead of silently truncated.
const maxSecretBytes = 72

const defaultCost = 12

var (
	ErrSecretTooLong = errors.New("auth: secret must be 72 bytes or fewer")
	ErrWrongSecret   = errors.New("auth: wrong secret")
)

// SecretVerifier checks the preview secret against a bcrypt hash. Only the
// hash is ever configured; the plaintext secret lives with the editors.
//
// bcrypt.CompareHashAndPassword runs in constant time with respect to the
// candidate, so timing does not reveal how much of a guess was right.
type SecretVerifier struct {
	hash string
	cost int
}

// NewSecretVerifier returns a verifier for hash. hash may be empty when the
// verifier is only used to Hash new secrets.
func NewSecretVerifier(hash string) *SecretVerifier {
	return &SecretVerifier{hash: hash, cost: defaultCost}
}

// newSecretVerifierWithCost lets tests use bcrypt's minimum cost (4) so each
// hash takes microseconds instead of ~250ms.
func newSecretVerifierWithCost(hash string, cost int) *SecretVerifier {
	return &SecretVerifier{hash: hash, cost: cost}
}

// Hash returns a bcrypt hash of secret, for the preview.secret_hash setting.
func (v *SecretVerifier) Hash(secret string) (string, error) {
	if len(secret) > maxSecretBytes {
		return "", ErrSecretTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), v.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing secret: %w", err)
	}
	return string(hashed), nil
}

// Verify returns nil when secret matches the configured hash.
func (v *SecretVerifier) Verify(secret string) error {
	if len(secret) > maxSecretBytes {
		return ErrSecretTooLong
	}

	err := bcrypt.CompareHashAndPassword([]byte(v.hash), []byte(secret))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrWrongSecret
		}
		return fmt.Errorf("auth: comparing secret hash: %w", err)
	}
	return nil
}
