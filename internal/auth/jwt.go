// Package auth implements preview mode: a visitor who knows the preview
// secret gets a signed cookie, and requests carrying that cookie read draft
// content from the preview API instead of published content.
//
// FLOW:
//  1. An editor opens /api/preview?secret=...&redirect=/projects
//  2. The handler checks the secret against a bcrypt hash (SecretVerifier)
//  3. It issues a short-lived JWT (TokenService) in an HttpOnly cookie
//  4. OptionalPreview validates that cookie on every request and marks the
//     request context as preview
//
// WHY JWT?
// The cookie is stateless: the server keeps no session table, and the HMAC
// signature stops anyone from minting a preview cookie without the key.
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header:    {"alg":"HS256","typ":"JWT"}
//	- Payload:   {"iss":"portfolio","sub":"preview","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, signingKey)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer         = "portfolio"
	previewSubject = "preview"

	// DefaultPreviewTTL is how long a preview cookie stays valid.
	DefaultPreviewTTL = time.Hour

	minSigningKeyLength = 16
)

var (
	ErrShortSigningKey = errors.New("auth: signing key must be at least 16 characters")
	ErrTokenExpired    = errors.New("auth: token expired")
	ErrInvalidToken    = errors.New("auth: invalid token")
)

// TokenService issues and validates preview tokens.
type TokenService struct {
	key []byte
	ttl time.Duration
}

// NewTokenService creates a TokenService. A non-positive ttl uses
// DefaultPreviewTTL.
//
// Generate a key with: openssl rand -hex 32
func NewTokenService(signingKey string, ttl time.Duration) (*TokenService, error) {
	if len(signingKey) < minSigningKeyLength {
		return nil, ErrShortSigningKey
	}
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}
	return &TokenService{key: []byte(signingKey), ttl: ttl}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue returns a signed preview token and its expiry.
func (s *TokenService) Issue() (string, time.Time, error) {
	return s.issueWithDuration(s.ttl)
}

func (s *TokenService) issueWithDuration(d time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(d)

	c := jwt.RegisteredClaims{
		Subject:   previewSubject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, expires, nil
}

// Validate checks a preview token's signature, issuer, subject and expiry.
//
// WithValidMethods pins the algorithm: without it an attacker could send a
// token with "alg":"none" or switch to an algorithm the key was never meant
// for.
func (s *TokenService) Validate(tokenStr string) error {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(previewSubject),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
