package middlewares_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sfap/internal"
	"github.com/dmitrymomot/sfap/middlewares"
	"github.com/dmitrymomot/sfap/pkg/resource"
)

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := middlewares.NewMetrics(middlewares.WithMetricsRegistry(reg))

	require.NoError(t, run(t, newTestRequest(t, "/"), m.Handler()))
	require.Error(t, run(t, newTestRequest(t, "/"), m.Handler(), terminal(func(*internal.Request) error {
		return errors.New("boom")
	})))
	require.Error(t, run(t, newTestRequest(t, "/"), m.Handler(), middlewares.Recover(), terminal(func(*internal.Request) error {
		panic("boom")
	})))
	require.Error(t, run(t, newTestRequest(t, "/"), m.Handler(), terminal(func(*internal.Request) error {
		return &middlewares.TimeoutError{Duration: time.Second}
	})))

	require.Panics(t, func() {
		_ = run(t, newTestRequest(t, "/"), m.Handler(), terminal(func(*internal.Request) error {
			panic("unrecovered")
		}))
	})

	expected := `
# HELP sfap_navigations_total Total number of dispatched navigations
# TYPE sfap_navigations_total counter
sfap_navigations_total{status="error"} 1
sfap_navigations_total{status="ok"} 1
sfap_navigations_total{status="panic"} 2
sfap_navigations_total{status="timeout"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "sfap_navigations_total"))

	n, err := testutil.GatherAndCount(reg, "sfap_navigation_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestMetrics_ObserveFetch(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := middlewares.NewMetrics(
		middlewares.WithMetricsRegistry(reg),
		middlewares.WithMetricsNamespace("shop"),
		middlewares.WithMetricsConstLabels(prometheus.Labels{"app": "demo"}),
	)

	m.ObserveFetch(resource.FetchEvent{Kind: resource.View, Duration: time.Millisecond})
	m.ObserveFetch(resource.FetchEvent{Kind: resource.View, Err: resource.ErrNotFound})
	m.ObserveFetch(resource.FetchEvent{Kind: resource.Module, Err: errors.New("dial tcp")})

	expected := `
# HELP shop_fetches_total Total number of view and module transport requests
# TYPE shop_fetches_total counter
shop_fetches_total{app="demo",kind="module",status="error"} 1
shop_fetches_total{app="demo",kind="view",status="not_found"} 1
shop_fetches_total{app="demo",kind="view",status="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "shop_fetches_total"))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_ = middlewares.NewMetrics(middlewares.WithMetricsRegistry(reg))
	require.Panics(t, func() {
		_ = middlewares.NewMetrics(middlewares.WithMetricsRegistry(reg))
	})
}
