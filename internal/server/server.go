// Package server exposes the simulator as a stateless JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/cpusim/cpusim/internal/observability"
	"github.com/cpusim/cpusim/sim/workload"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Config holds server limits.
type Config struct {
	Addr string
	// MaxProcesses bounds the number of processes accepted or generated per request.
	MaxProcesses int
	// MaxBodyBytes bounds request body size.
	MaxBodyBytes int64
	// Concurrency caps concurrent policy runs in /compare; <= 0 means no limit.
	Concurrency int
	// MaxSimulatedTime bounds the latest arrival plus the total burst time of a request.
	MaxSimulatedTime int64
	// MaxSegments bounds the estimated number of timeline segments a single run may record.
	MaxSegments int64
}

// DefaultConfig returns the limits used by `cpusim serve` when no flags are given.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		MaxProcesses: 10000,
		MaxBodyBytes: 4 << 20,
		Concurrency:  0,

		MaxSimulatedTime: 10_000_000,
		MaxSegments:      1_000_000,
	}
}

// Server is the simulator REST API server.
type Server struct {
	router    chi.Router
	config    Config
	metrics   *observability.SimCollector // optional; nil disables metrics
	startTime time.Time
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithMetrics records simulation and request metrics and mounts GET /metrics.
func WithMetrics(c *observability.SimCollector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// New creates a new Server with all routes registered.
func New(cfg Config, opts ...Option) *Server {
	if cfg.MaxProcesses <= 0 || cfg.MaxProcesses > workload.MaxGeneratedProcesses {
		cfg.MaxProcesses = workload.MaxGeneratedProcesses
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}
	if cfg.MaxSimulatedTime <= 0 {
		cfg.MaxSimulatedTime = DefaultConfig().MaxSimulatedTime
	}
	if cfg.MaxSegments <= 0 {
		cfg.MaxSegments = DefaultConfig().MaxSegments
	}
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/policies", s.handlePolicies)
		r.Post("/simulate", s.handleSimulate)
		r.Post("/compare", s.handleCompare)
		r.Post("/generate", s.handleGenerate)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("listening on %s", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logrus.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
