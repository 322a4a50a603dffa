// Package server implements the quiver HTTP API.
//
// Routes:
//
//	POST /v1/render   render a vector field, JSON in, JSON (or raw artifact) out
//	POST /v1/legend   compute the legend reference vector for a map
//	GET  /healthz     liveness
//	GET  /readyz      readiness (cache backend reachable)
//	GET  /metrics     Prometheus metrics
//	GET  /version     build information
package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/quiver/pkg/config"
	"github.com/matzehuels/quiver/pkg/pipeline"
)

// ReadinessChecker reports whether the server can take traffic.
type ReadinessChecker func(ctx context.Context) error

// Server exposes the render API plus health, readiness and metrics routes.
type Server struct {
	httpServer *http.Server
	runner     *pipeline.Runner
	defaults   pipeline.Options
	logger     *log.Logger
	ready      ReadinessChecker
	metrics    http.Handler
	maxBody    int64
}

// Option configures a Server.
type Option func(*Server)

// WithReadiness sets the readiness check. The default is always ready.
func WithReadiness(fn ReadinessChecker) Option {
	return func(s *Server) { s.ready = fn }
}

// WithMetricsHandler replaces the default Prometheus handler.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithDefaults sets the render options requests start from.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// New creates the server. It does not start listening.
func New(cfg config.ServerConfig, runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		logger:  logger,
		ready:   func(context.Context) error { return nil },
		metrics: promhttp.Handler(),
		maxBody: cfg.MaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxBody <= 0 {
		s.maxBody = 64 << 20
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", s.metrics)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/legend", s.handleLegend)
	})
	return r
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
