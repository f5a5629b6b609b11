package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/cobbinma/portfolio/internal/apperror"
	"github.com/cobbinma/portfolio/internal/auth"
)

// PreviewHandler turns preview mode on and off for a browser.
//
// HANDLER RESPONSIBILITIES:
//   - HandleEnter → check the shared secret, set the preview cookie, redirect
//   - HandleExit  → clear the preview cookie
//
// Reading drafts is not done here: auth.OptionalPreview validates the cookie
// on every request and the content handlers pick the preview source.
type PreviewHandler struct {
	tokens  *auth.TokenService
	secrets *auth.SecretVerifier
	logger  *slog.Logger
}

// NewPreviewHandler creates a PreviewHandler.
func NewPreviewHandler(tokens *auth.TokenService, secrets *auth.SecretVerifier, logger *slog.Logger) *PreviewHandler {
	return &PreviewHandler{tokens: tokens, secrets: secrets, logger: logger}
}

// HandleEnter enables preview mode.
//
// HTTP: GET /api/preview?secret=xxx&redirect=/projects
//
// A CMS "open preview" button links here, which is why this is a GET.
//
// OPEN REDIRECTS:
// redirect is only followed when it is a path on this site. Anything else
// ("https://evil.example", "//evil.example") falls back to "/", so the
// endpoint can't be used to bounce visitors to another site.
func (h *PreviewHandler) HandleEnter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if err := h.secrets.Verify(q.Get("secret")); err != nil {
		if errors.Is(err, auth.ErrWrongSecret) || errors.Is(err, auth.ErrSecretTooLong) {
			h.logger.Warn("preview: rejected secret", slog.String("remote", r.RemoteAddr))
			writeError(w, apperror.Unauthorized("invalid preview secret"))
			return
		}
		h.logger.Error("preview: verifying secret", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	token, expires, err := h.tokens.Issue()
	if err != nil {
		h.logger.Error("preview: issuing token", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	// HttpOnly: page scripts can't read the token.
	// SameSite=Lax: sent on top-level navigation, not on cross-site POSTs.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.PreviewCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("preview mode enabled", slog.Time("expires", expires))

	http.Redirect(w, r, localRedirect(q.Get("redirect")), http.StatusTemporaryRedirect)
}

// HandleExit disables preview mode.
//
// HTTP: POST /api/preview/exit
//
// The token stays valid until it expires, but without the cookie the browser
// never sends it again.
func (h *PreviewHandler) HandleExit(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.PreviewCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // tells the browser to delete the cookie immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "preview disabled"})
}

// localRedirect returns target if it is a path on this site, otherwise "/".
func localRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") {
		return "/"
	}
	// "//host" and "/\host" are treated as network paths by browsers.
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return "/"
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return target
}
