package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// Table-driven: each case checks that errors.Is() sees the right sentinel
// through an AppError, and only that one.
func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("home page", "12oQYUyzJOGG8He6aPUMJN"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("page", "page must be at least 1"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("invalid preview secret"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "Upstream wraps ErrUpstream",
			err:       Upstream("contentful", errors.New("boom")),
			target:    ErrUpstream,
			wantMatch: true,
		},
		{
			name:      "Upstream also matches its cause",
			err:       Upstream("contentful", context.DeadlineExceeded),
			target:    context.DeadlineExceeded,
			wantMatch: true,
		},
		{
			name:      "wrapped again with %w still matches",
			err:       fmt.Errorf("loading home: %w", Upstream("sqlite", errors.New("locked"))),
			target:    ErrUpstream,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("projects page", "x"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Upstream does NOT match ErrNotFound",
			err:       Upstream("contentful", errors.New("boom")),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("home page", "abc123"),
			wantMessage: "home page not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("page", "page must be at least 1"),
			wantMessage: "page must be at least 1",
		},
		{
			name:        "Upstream message names the source and cause",
			err:         Upstream("contentful", errors.New("status 503")),
			wantMessage: "contentful request failed: status 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestErrorsAs(t *testing.T) {
	// Handlers use errors.As to pull the human-readable Message back out.
	wrapped := fmt.Errorf("service: %w", ValidationFailed("page", "bad page"))

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As did not find *AppError")
	}
	if appErr.Field != "page" {
		t.Errorf("Field = %q, want %q", appErr.Field, "page")
	}
}

func TestUnwrapWithoutCause(t *testing.T) {
	errs := NotFound("home page", "x").Unwrap()
	if len(errs) != 1 || errs[0] != ErrNotFound {
		t.Errorf("Unwrap() = %v, want [%v]", errs, ErrNotFound)
	}
}
