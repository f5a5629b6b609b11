// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler / CLI          → parses requests, writes responses
//	Service                → picks the source, normalizes, filters, paginates
//	content.Fetcher        → Contentful, the sqlite store or markdown files
//
// PortfolioService takes content.Fetcher interfaces, not a concrete client,
// so tests pass a hand-written fake and main.go decides which source is real.
// Both the HTTP handlers and the CLI commands call the same service.
package service

import (
	"context"
	"log/slog"

	"github.com/cobbinma/portfolio/internal/apperror"
	"github.com/cobbinma/portfolio/internal/catalog"
	"github.com/cobbinma/portfolio/internal/content"
	"github.com/cobbinma/portfolio/internal/model"
	"github.com/cobbinma/portfolio/internal/normalizer"
	"github.com/cobbinma/portfolio/internal/raw"
)

// PortfolioConfig holds the entry ids of the two pages and the link depth
// used to fetch them.
type PortfolioConfig struct {
	HomeID     string
	ProjectsID string
	// Include is passed through to content.Options; zero means the default.
	Include int
}

// ProjectsQuery selects a page of the filtered project list.
type ProjectsQuery struct {
	// Technologies are matched by exact title. Order and duplicates do not
	// change which projects match, but the page's Selected list echoes them
	// back exactly as given.
	Technologies []string
	// Page is 1-indexed.
	Page    int
	Preview bool
}

// PortfolioService loads and shapes portfolio content.
//
// Content is fetched on every call. Nothing is cached, so an edit in the CMS
// shows up on the next request.
type PortfolioService struct {
	delivery content.Fetcher
	preview  content.Fetcher
	cfg      PortfolioConfig
	logger   *slog.Logger
}

// NewPortfolioService creates a PortfolioService. preview may be nil, in which
// case preview requests are served from delivery.
func NewPortfolioService(delivery, preview content.Fetcher, cfg PortfolioConfig, logger *slog.Logger) *PortfolioService {
	return &PortfolioService{
		delivery: delivery,
		preview:  preview,
		cfg:      cfg,
		logger:   logger,
	}
}

// HomePage returns the normalized home page.
func (s *PortfolioService) HomePage(ctx context.Context, preview bool) (*model.HomePage, error) {
	entry, err := s.fetch(ctx, s.cfg.HomeID, preview)
	if err != nil {
		return nil, err
	}

	home := normalizer.HomePage(entry)
	if home == nil {
		return nil, apperror.NotFound("home page", s.cfg.HomeID)
	}
	return home, nil
}

// ProjectsPage returns the normalized, unfiltered projects page.
func (s *PortfolioService) ProjectsPage(ctx context.Context, preview bool) (*model.ProjectsPage, error) {
	entry, err := s.fetch(ctx, s.cfg.ProjectsID, preview)
	if err != nil {
		return nil, err
	}

	page := normalizer.ProjectsPage(entry)
	if page == nil {
		return nil, apperror.NotFound("projects page", s.cfg.ProjectsID)
	}
	return page, nil
}

// Projects returns one page of the projects that carry every requested
// technology.
//
// VALIDATE BEFORE I/O:
// A bad page number is the caller's mistake, so it is rejected before the
// content source is contacted.
func (s *PortfolioService) Projects(ctx context.Context, q ProjectsQuery) (*catalog.Page, error) {
	if q.Page < 1 {
		return nil, apperror.ValidationFailed("page", "page must be at least 1")
	}

	all, err := s.ProjectsPage(ctx, q.Preview)
	if err != nil {
		return nil, err
	}

	selected := make([]model.Technology, 0, len(q.Technologies))
	for _, t := range q.Technologies {
		selected = append(selected, model.Technology{Title: &t})
	}

	view := catalog.View(*all, selected, q.Page)

	s.logger.Debug("projects page computed",
		"selected", len(selected),
		"page", view.Page,
		"page_count", view.PageCount,
		"matching", view.Total,
	)

	return &view, nil
}

// fetch retrieves an entry from the delivery or preview source.
//
// A transport or decode failure is wrapped as apperror.Upstream. The
// normalizer never sees a failed fetch, and nothing is retried here.
func (s *PortfolioService) fetch(ctx context.Context, id string, preview bool) (raw.Value, error) {
	fetcher := s.delivery
	source := "content"
	if preview {
		if s.preview != nil {
			fetcher = s.preview
			source = "preview content"
		} else {
			s.logger.Debug("no preview source configured, using delivery", "id", id)
		}
	}

	entry, err := fetcher.FetchEntry(ctx, id, content.Options{Include: s.cfg.Include})
	if err != nil {
		s.logger.Error("fetching entry", "id", id, "preview", preview, "error", err)
		return raw.Absent(), apperror.Upstream(source, err)
	}
	return entry, nil
}
