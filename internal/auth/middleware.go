package auth

import (
	"context"
	"net/http"
)

// PreviewCookie is the name of the cookie that carries the preview token.
const PreviewCookie = "preview"

// contextKey is unexported so no other package can collide with or forge
// the preview flag in a request context.
type contextKey string

const previewKey contextKey = "preview"

// OptionalPreview marks requests that carry a valid preview cookie. A missing,
// invalid or expired cookie is not an error: the request simply reads
// published content. tokens may be nil when preview mode is not configured.
func OptionalPreview(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokens != nil {
				if cookie, err := r.Cookie(PreviewCookie); err == nil && tokens.Validate(cookie.Value) == nil {
					r = r.WithContext(WithPreview(r.Context()))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithPreview returns a copy of ctx marked as a preview request.
func WithPreview(ctx context.Context) context.Context {
	return context.WithValue(ctx, previewKey, true)
}

// PreviewFromContext reports whether the request is in preview mode.
func PreviewFromContext(ctx context.Context) bool {
	preview, _ := ctx.Value(previewKey).(bool)
	return preview
}
