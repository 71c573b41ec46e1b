// Package api serves the saved-objects client over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/savedobjects/internal/logging"
	"github.com/mesh-intelligence/savedobjects/pkg/client"
)

// Config holds API server configuration.
type Config struct {
	Listen string
}

// Server represents the HTTP API server.
type Server struct {
	config    Config
	client    *client.RawClient
	logger    zerolog.Logger
	server    *http.Server
	startedAt time.Time
}

// New creates a new API server instance.
func New(config Config, c *client.RawClient, logger zerolog.Logger) *Server {
	return &Server{
		config:    config,
		client:    c,
		logger:    logging.WithComponent(logger, "api"),
		startedAt: time.Now(),
	}
}

// Handler returns the routed handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      s.setupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().Str("listen", s.config.Listen).Msg("API server starting")

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("API server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api/saved_objects", func(r chi.Router) {
		r.Get("/_find", s.handleFind)
		r.Post("/_bulk_create", s.handleBulkCreate)
		r.Post("/_bulk_get", s.handleBulkGet)
		r.Put("/_bulk_update", s.handleBulkUpdate)
		r.Post("/_check_conflicts", s.handleCheckConflicts)
		r.Delete("/_workspace/{workspace}", s.handleDeleteByWorkspace)
		r.Delete("/_namespace/{namespace}", s.handleDeleteByNamespace)

		r.Post("/{type}", s.handleCreate)
		r.Post("/{type}/{id}", s.handleCreate)
		r.Get("/{type}/{id}", s.handleGet)
		r.Put("/{type}/{id}", s.handleUpdate)
		r.Delete("/{type}/{id}", s.handleDelete)
		r.Post("/{type}/{id}/_add_to_namespaces", s.handleAddToNamespaces)
		r.Post("/{type}/{id}/_delete_from_namespaces", s.handleDeleteFromNamespaces)
		r.Post("/{type}/{id}/_add_to_workspaces", s.handleAddToWorkspaces)
		r.Post("/{type}/{id}/_delete_from_workspaces", s.handleDeleteFromWorkspaces)
	})

	return r
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}
