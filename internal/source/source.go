// Package source opens the content fetchers named by the configuration.
// It is shared by the HTTP server and the CLI read commands so both read
// the same content the same way.
package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cobbinma/portfolio/internal/config"
	"github.com/cobbinma/portfolio/internal/content"
	"github.com/cobbinma/portfolio/internal/content/contentful"
	"github.com/cobbinma/portfolio/internal/content/markdown"
	"github.com/cobbinma/portfolio/internal/repository/sqlite"
)

// Set is the pair of fetchers the service reads from.
type Set struct {
	Delivery content.Fetcher
	// Preview serves draft content. It is nil when the source has no
	// separate draft view (sqlite, markdown, or Contentful without a
	// preview token).
	Preview content.Fetcher

	closeFn func() error
}

// Close releases whatever the fetchers hold open. It is safe to call on a
// Set without resources.
func (s *Set) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// Open builds the fetchers for cfg.Source. cfg should already have passed
// Validate.
func Open(cfg *config.Config, logger *slog.Logger) (*Set, error) {
	logger = logger.With(slog.String("source", cfg.Source))

	switch cfg.Source {
	case config.SourceContentful:
		return openContentful(cfg, logger)
	case config.SourceSQLite:
		db, err := OpenStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		logger.Info("reading content from sqlite", slog.String("path", cfg.DBPath))
		return &Set{
			Delivery: content.NewStoreFetcher(db, logger),
			closeFn:  db.Close,
		}, nil
	case config.SourceMarkdown:
		logger.Info("reading content from markdown", slog.String("dir", cfg.ContentDir))
		return &Set{
			Delivery: markdown.New(markdown.Config{
				Dir:        cfg.ContentDir,
				HomeID:     cfg.Pages.Home,
				ProjectsID: cfg.Pages.Projects,
			}, logger),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownSource, cfg.Source)
	}
}

// OpenStore opens the sqlite entry store, creating its directory first.
func OpenStore(path string) (*sqlite.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("source: creating database directory: %w", err)
		}
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("source: opening database: %w", err)
	}
	return db, nil
}

func openContentful(cfg *config.Config, logger *slog.Logger) (*Set, error) {
	cc := cfg.Contentful

	delivery, err := contentful.New(contentful.Config{
		SpaceID:     cc.SpaceID,
		AccessToken: cc.AccessToken,
		Environment: cc.Environment,
		BaseURL:     cc.BaseURL,
		Timeout:     cc.Timeout,
	}, logger.With(slog.String("api", "delivery")))
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	set := &Set{Delivery: delivery}

	if cc.PreviewToken == "" {
		logger.Info("contentful preview token not set, drafts are not available")
		return set, nil
	}

	preview, err := contentful.New(contentful.Config{
		SpaceID:     cc.SpaceID,
		AccessToken: cc.PreviewToken,
		Environment: cc.Environment,
		BaseURL:     cc.PreviewURL,
		Timeout:     cc.Timeout,
	}, logger.With(slog.String("api", "preview")))
	if err != nil {
		return nil, fmt.Errorf("source: preview: %w", err)
	}
	set.Preview = preview
	return set, nil
}
