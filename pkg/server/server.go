// Package server exposes inferred hierarchies over HTTP.
//
// Routes:
//
//	GET /healthz                          liveness plus run counters
//	GET /api/sources                      configured source names
//	GET /api/sources/{name}/tree          display forest
//	GET /api/sources/{name}/hierarchy     edges and multi-inheritance
//	GET /api/sources/{name}/diagram       Graphviz diagram (?format=svg|dot|png)
//
// Any source route accepts ?refresh=true to bypass cached data. Errors are
// JSON objects {"code": ..., "error": ...}; an unavailable source maps to
// 503, an unknown one to 404 and a structurally broken hierarchy to 422.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/taxotree/pkg/observability"
	"github.com/matzehuels/taxotree/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Server serves one catalog of sources.
type Server struct {
	catalog  Catalog
	runner   *pipeline.Runner
	counters *observability.Counters
	logger   *log.Logger
	router   chi.Router
}

// New builds the router. counters may be nil, in which case /healthz
// reports no counters.
func New(catalog Catalog, runner *pipeline.Runner, counters *observability.Counters, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		catalog:  catalog,
		runner:   runner,
		counters: counters,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/sources", func(r chi.Router) {
		r.Get("/", s.handleSources)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/tree", s.handleTree)
			r.Get("/hierarchy", s.handleHierarchy)
			r.Get("/diagram", s.handleDiagram)
		})
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
