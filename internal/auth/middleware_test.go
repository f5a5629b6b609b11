package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// previewRecorder is a handler that records whether it saw preview mode.
func previewRecorder(seen *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = PreviewFromContext(r.Context())
	})
}

func TestOptionalPreview(t *testing.T) {
	ts := newTestTokenService(t)
	valid, _, _ := ts.Issue()
	expired, _, _ := ts.issueWithDuration(-time.Minute)

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   bool
	}{
		{"valid cookie", &http.Cookie{Name: PreviewCookie, Value: valid}, true},
		{"no cookie", nil, false},
		{"expired cookie", &http.Cookie{Name: PreviewCookie, Value: expired}, false},
		{"garbage cookie", &http.Cookie{Name: PreviewCookie, Value: "nope"}, false},
		{"token under another name", &http.Cookie{Name: "token", Value: valid}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen bool
			h := OptionalPreview(ts)(previewRecorder(&seen))

			req := httptest.NewRequest(http.MethodGet, "/api/home", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if seen != tt.want {
				t.Errorf("preview = %v, want %v", seen, tt.want)
			}
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200 (preview is optional)", rec.Code)
			}
		})
	}
}

func TestOptionalPreview_NilTokenService(t *testing.T) {
	var seen bool
	h := OptionalPreview(nil)(previewRecorder(&seen))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: PreviewCookie, Value: "anything"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen {
		t.Error("preview enabled without a token service")
	}
}

func TestPreviewFromContext(t *testing.T) {
	if PreviewFromContext(context.Background()) {
		t.Error("empty context reports preview")
	}
	if !PreviewFromContext(WithPreview(context.Background())) {
		t.Error("WithPreview context does not report preview")
	}
}
