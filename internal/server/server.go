// Package server exposes placement over HTTP.
//
// Routes:
//
//	GET  /healthz         liveness plus build information
//	GET  /v1/modifiers    built-in modifiers and their prerequisites
//	POST /v1/place        place a scene, replaying its events
//	POST /v1/pipeline     modifier chain of a scene as SVG (or DOT with ?format=dot)
//	POST /v1/snapshot     PNG snapshot of a placed scene (?scale=2)
//
// Scenes are JSON by default; application/toml and application/yaml bodies
// are accepted too. Scenes that reference files (html_file, scripts) are
// rejected.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/popper/pkg/cache"
	"github.com/matzehuels/popper/pkg/observability"
)

// DefaultMaxBody bounds request bodies.
const DefaultMaxBody = 1 << 20

// DefaultCacheSize is the number of rendered SVGs kept by the default cache.
const DefaultCacheSize = 256

// Server holds the router and its dependencies.
type Server struct {
	router  chi.Router
	logger  *log.Logger
	maxBody int64
	timeout time.Duration
	svgs    cache.Cache
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger (default: discard).
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMaxBody overrides DefaultMaxBody.
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// WithCache replaces the in-memory SVG cache.
func WithCache(c cache.Cache) Option {
	return func(s *Server) { s.svgs = c }
}

// WithTimeout bounds each request (default 10s).
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a server with all routes mounted.
func New(opts ...Option) *Server {
	s := &Server{maxBody: DefaultMaxBody, timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.svgs == nil {
		s.svgs = cache.NewMemoryCache(DefaultCacheSize)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/modifiers", s.handleModifiers)
		r.Post("/place", s.handlePlace)
		r.Post("/pipeline", s.handlePipeline)
		r.Post("/snapshot", s.handleSnapshot)
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// observe reports every request to the HTTP hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
