package devserver

import (
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/sfap/pkg/logger"
	"github.com/dmitrymomot/sfap/pkg/resource"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and check failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCheck adds a named readiness check.
func WithCheck(name string, fn CheckFunc) Option {
	return func(s *Server) {
		if fn != nil {
			s.checks[name] = fn
		}
	}
}

// WithCheckTimeout bounds all readiness checks. Default: 5s.
func WithCheckTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.checkTimeout = d
		}
	}
}

// WithMetrics exposes g at GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// Server serves view and module source from a transport over HTTP, in the
// layout the HTTP transport fetches from:
//
//	GET /view/{path}    view source, Content-Type application/json
//	GET /module/{path}  module source, Content-Type application/js
//	GET /health/live    liveness probe
//	GET /health/ready   readiness probe running the configured checks
//	GET /metrics        Prometheus metrics, when WithMetrics is given
type Server struct {
	transport    resource.Transport
	router       chi.Router
	log          *slog.Logger
	gatherer     prometheus.Gatherer
	checks       map[string]CheckFunc
	checkTimeout time.Duration
}

// New creates a Server reading from t.
func New(t resource.Transport, opts ...Option) (*Server, error) {
	if t == nil {
		return nil, ErrNilTransport
	}

	s := &Server{
		transport:    t,
		log:          logger.NewNope(),
		checks:       make(map[string]CheckFunc),
		checkTimeout: defaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/view/*", s.serve(resource.View))
	r.Get("/module/*", s.serve(resource.Module))
	r.Get("/health/live", s.handleLive)
	r.Get("/health/ready", s.handleReady)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	s.router = r

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) serve(kind resource.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := chi.URLParam(r, "*")
		if rest == "" || path.Clean("/"+rest) != "/"+rest || strings.HasSuffix(rest, "/") {
			http.Error(w, "invalid resource path", http.StatusBadRequest)
			return
		}
		p := "/" + kind.String() + "/" + rest

		start := time.Now()
		source, err := s.transport.Fetch(r.Context(), kind, p)
		switch {
		case errors.Is(err, resource.ErrNotFound):
			http.NotFound(w, r)
			return
		case err != nil:
			s.log.ErrorContext(r.Context(), "fetch failed",
				slog.String("kind", kind.String()),
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
			http.Error(w, "upstream fetch failed", http.StatusBadGateway)
			return
		}

		s.log.DebugContext(r.Context(), "served",
			slog.String("kind", kind.String()),
			slog.String("path", p),
			slog.Int("bytes", len(source)),
			slog.Duration("duration", time.Since(start)),
		)
		w.Header().Set("Content-Type", kind.Accept())
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(source)
	}
}
