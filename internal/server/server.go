// Package server exposes the HTTP API: indexing control, search and
// statistics.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/webgrep/sitesearch/internal/model"
)

// IndexController drives crawl runs.
type IndexController interface {
	StartIndexing(ctx context.Context) model.Ack
	StopIndexing(ctx context.Context) model.Ack
	IndexSinglePage(ctx context.Context, rawURL string) model.Ack
}

// Searcher answers search queries.
type Searcher interface {
	Search(ctx context.Context, query, siteURL string, offset, limit int) model.SearchResult
}

// StatisticsProvider builds the statistics report.
type StatisticsProvider interface {
	Collect(ctx context.Context) (*model.Statistics, error)
}

// Server is the HTTP API server.
type Server struct {
	addr    string
	crawler IndexController
	search  Searcher
	stats   StatisticsProvider
	logger  *slog.Logger
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates the API server listening on addr.
func New(addr string, crawler IndexController, search Searcher, stats StatisticsProvider, opts ...Option) *Server {
	s := &Server{
		addr:    addr,
		crawler: crawler,
		search:  search,
		stats:   stats,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/startIndexing", s.handleStartIndexing)
		r.Get("/stopIndexing", s.handleStopIndexing)
		r.Post("/indexPage", s.handleIndexPage)
		r.Get("/search", s.handleSearch)
		r.Get("/statistics", s.handleStatistics)
	})
	s.router = r

	return s
}

// Handler returns the routing handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs the HTTP server until ctx is canceled, then shuts it down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("api server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// logRequests logs one line per handled request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// writeJSON writes v as a JSON response body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
