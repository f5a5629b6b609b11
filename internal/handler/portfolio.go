package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cobbinma/portfolio/internal/apperror"
	"github.com/cobbinma/portfolio/internal/auth"
	"github.com/cobbinma/portfolio/internal/catalog"
	"github.com/cobbinma/portfolio/internal/model"
	"github.com/cobbinma/portfolio/internal/service"
)

// PortfolioService is the subset of *service.PortfolioService the handlers
// call. Declaring it here lets tests pass a fake without a content source.
type PortfolioService interface {
	HomePage(ctx context.Context, preview bool) (*model.HomePage, error)
	ProjectsPage(ctx context.Context, preview bool) (*model.ProjectsPage, error)
	Projects(ctx context.Context, q service.ProjectsQuery) (*catalog.Page, error)
}

// PortfolioHandler serves the read-only content API.
//
// Every handler reads the preview flag that auth.OptionalPreview put in the
// request context, so the same URL returns drafts for an editor with a
// preview cookie and published content for everyone else.
type PortfolioHandler struct {
	svc    PortfolioService
	logger *slog.Logger
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(svc PortfolioService, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{svc: svc, logger: logger}
}

// HandleHome returns the home page.
//
// HTTP: GET /api/home
func (h *PortfolioHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.svc.HomePage(r.Context(), auth.PreviewFromContext(r.Context()))
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, home)
}

// HandleProjectsPage returns the full, unfiltered projects page.
//
// HTTP: GET /api/projects-page
func (h *PortfolioHandler) HandleProjectsPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ProjectsPage(r.Context(), auth.PreviewFromContext(r.Context()))
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleProjects returns one page of projects filtered by technology.
//
// HTTP: GET /api/projects?tech=Go&tech=Docker&page=2
//
// QUERY PARAMETERS:
//   - tech: repeatable; a project must carry every listed technology
//   - page: 1-indexed, defaults to 1
//
// The API is stateless: the client owns the selection and the page number,
// and sends both on every request.
func (h *PortfolioHandler) HandleProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperror.ValidationFailed("page", "page must be an integer"))
			return
		}
		page = n
	}

	result, err := h.svc.Projects(r.Context(), service.ProjectsQuery{
		Technologies: q["tech"],
		Page:         page,
		Preview:      auth.PreviewFromContext(r.Context()),
	})
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleHealth reports that the process is up. It does not contact the
// content source.
//
// HTTP: GET /api/health
func (h *PortfolioHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logFailure logs server-side failures. Client errors (bad page, unknown
// entry) are already visible in the request log's status code.
func (h *PortfolioHandler) logFailure(r *http.Request, err error) {
	if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrNotFound) {
		return
	}
	h.logger.Error("request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
}
