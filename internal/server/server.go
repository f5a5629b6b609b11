// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer: it connects handlers, middleware, and routes.
// It decides:
//   - Which URL patterns map to which handler functions
//   - What middleware runs on which routes
//   - How the server starts and stops gracefully
//
// The content sources themselves are opened by internal/source and handed in
// through Deps, so the server never knows whether pages come from Contentful,
// sqlite or markdown files. The server does own them once handed in: Close
// runs after the last in-flight request has drained.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cobbinma/portfolio/internal/auth"
	"github.com/cobbinma/portfolio/internal/handler"
	"github.com/cobbinma/portfolio/internal/middleware"
)

// ShutdownTimeout is how long in-flight requests get to finish after a
// shutdown signal.
const ShutdownTimeout = 30 * time.Second

// Config holds server configuration.
type Config struct {
	Port int
}

// Deps are the collaborators the routes need.
type Deps struct {
	Portfolio handler.PortfolioService

	// Tokens and Secrets enable preview mode. The preview routes are only
	// registered when both are set; the OptionalPreview middleware runs
	// whenever Tokens is set.
	Tokens  *auth.TokenService
	Secrets *auth.SecretVerifier

	// Close releases the content sources. It may be nil.
	Close func() error
}

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router *chi.Mux
	config Config
	deps   Deps
	logger *slog.Logger
}

// New creates a Server and registers its routes.
func New(cfg Config, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		deps:   deps,
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// Handler returns the router, for tests and for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /api/home            → home page (JSON)
// GET    /api/projects-page   → unfiltered projects page (JSON)
// GET    /api/projects        → filtered, paginated projects (JSON)
// GET    /api/health          → liveness probe
// GET    /api/preview         → enter preview mode       [preview only]
// POST   /api/preview/exit    → leave preview mode       [preview only]
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RequestID: assigns a unique ID to each request (for tracing)
// 2. RealIP: extracts the real client IP from proxy headers
// 3. Recoverer: catches panics and returns 500 instead of crashing
// 4. Logger: logs each request with timing info and the request ID
// 5. OptionalPreview: marks the context when a valid preview cookie is sent
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(auth.OptionalPreview(s.deps.Tokens))

	portfolioHandler := handler.NewPortfolioHandler(s.deps.Portfolio, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", portfolioHandler.HandleHealth)
		r.Get("/home", portfolioHandler.HandleHome)
		r.Get("/projects-page", portfolioHandler.HandleProjectsPage)
		r.Get("/projects", portfolioHandler.HandleProjects)

		if s.deps.Tokens == nil || s.deps.Secrets == nil {
			s.logger.Info("preview mode disabled: signing key or secret hash not configured")
			return
		}
		previewHandler := handler.NewPreviewHandler(s.deps.Tokens, s.deps.Secrets, s.logger)
		r.Get("/preview", previewHandler.HandleEnter)
		r.Post("/preview/exit", previewHandler.HandleExit)
	})
}

// Start runs the HTTP server until ctx is cancelled or the process receives
// SIGINT or SIGTERM, then shuts down gracefully:
//  1. Stop accepting new connections
//  2. Wait up to ShutdownTimeout for in-flight requests to finish
//  3. Close the content sources (flushes the sqlite WAL, releases the file lock)
func (s *Server) Start(ctx context.Context) error {
	defer s.close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second, // longer than the Contentful client timeout
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

func (s *Server) close() {
	if s.deps.Close == nil {
		return
	}
	if err := s.deps.Close(); err != nil {
		s.logger.Error("closing content sources", slog.String("error", err.Error()))
	}
}
