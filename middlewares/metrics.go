package middlewares

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/sfap/internal"
	"github.com/dmitrymomot/sfap/pkg/resource"
)

// MetricsConfig configures the Prometheus metrics collector.
type MetricsConfig struct {
	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Namespace is the metrics namespace (default: "sfap").
	Namespace string

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64
}

// MetricsOption configures MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsConstLabels sets constant labels for all metrics.
func WithMetricsConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithMetricsBuckets sets the histogram buckets.
func WithMetricsBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithMetricsRegistry sets the Prometheus registry.
func WithMetricsRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics collects navigation and resource fetch metrics.
//
// Metrics collected:
//   - sfap_navigations_total: dispatches by status (ok, error, panic, timeout)
//   - sfap_navigation_duration_seconds: dispatch duration
//   - sfap_fetches_total: transport round trips by kind and status (ok, not_found, error)
//   - sfap_fetch_duration_seconds: transport round trip duration by kind
type Metrics struct {
	navigations   *prometheus.CounterVec
	navDuration   prometheus.Histogram
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors.
// It panics if they are already registered with the registry.
//
// Example:
//
//	m := middlewares.NewMetrics()
//	app, _ := sfap.New(sfap.WithFetchObserver(m.ObserveFetch))
//	app.Use(m.Handler())
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "sfap",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)
	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "navigations_total",
			Help:        "Total number of dispatched navigations",
			ConstLabels: cfg.ConstLabels,
		}, []string{"status"}),

		navDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation dispatch duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),

		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "fetches_total",
			Help:        "Total number of view and module transport requests",
			ConstLabels: cfg.ConstLabels,
		}, []string{"kind", "status"}),

		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "fetch_duration_seconds",
			Help:        "Transport request duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"kind"}),
	}
}

// Handler returns middleware that records every dispatch that reaches it.
func (m *Metrics) Handler() internal.RouteHandler {
	return func(r *internal.Request, next internal.Next) (err error) {
		start := time.Now()
		defer func() {
			v := recover()
			status := navigationStatus(err)
			if v != nil {
				status = "panic"
			}
			m.navigations.WithLabelValues(status).Inc()
			m.navDuration.Observe(time.Since(start).Seconds())
			if v != nil {
				panic(v)
			}
		}()
		return next()
	}
}

// ObserveFetch records a transport round trip.
// Pass it to sfap.WithFetchObserver.
func (m *Metrics) ObserveFetch(ev resource.FetchEvent) {
	status := "ok"
	switch {
	case errors.Is(ev.Err, resource.ErrNotFound):
		status = "not_found"
	case ev.Err != nil:
		status = "error"
	}
	kind := ev.Kind.String()
	m.fetches.WithLabelValues(kind, status).Inc()
	m.fetchDuration.WithLabelValues(kind).Observe(ev.Duration.Seconds())
}

func navigationStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsPanicError(err):
		return "panic"
	case IsTimeoutError(err):
		return "timeout"
	default:
		return "error"
	}
}
