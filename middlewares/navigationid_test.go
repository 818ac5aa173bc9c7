package middlewares_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sfap/internal"
	"github.com/dmitrymomot/sfap/middlewares"
	"github.com/dmitrymomot/sfap/pkg/logger"
)

func TestNavigationID(t *testing.T) {
	t.Parallel()

	t.Run("generates a uuid", func(t *testing.T) {
		t.Parallel()

		var got string
		r := newTestRequest(t, "/")
		err := run(t, r, middlewares.NavigationID(), terminal(func(r *internal.Request) error {
			got = middlewares.GetNavigationID(r)
			return nil
		}))
		require.NoError(t, err)

		_, err = uuid.Parse(got)
		require.NoError(t, err)
	})

	t.Run("uses the upstream query parameter", func(t *testing.T) {
		t.Parallel()

		r := newTestRequest(t, "/orders?nid=abc-123")
		require.NoError(t, run(t, r, middlewares.NavigationID()))
		require.Equal(t, "abc-123", middlewares.GetNavigationID(r))
	})

	t.Run("custom parameter and generator", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.NavigationID(
			middlewares.WithNavigationIDParam(""),
			middlewares.WithNavigationIDGenerator(func() string { return "fixed" }),
		)
		r := newTestRequest(t, "/orders?nid=abc-123")
		require.NoError(t, run(t, r, mw))
		require.Equal(t, "fixed", middlewares.GetNavigationID(r))
	})

	t.Run("returns empty string without middleware", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, middlewares.GetNavigationID(newTestRequest(t, "/")))
	})
}

func TestNavigationIDExtractor(t *testing.T) {
	t.Parallel()

	t.Run("adds navigation_id to log records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Options{Output: &buf, Format: logger.FormatText}, middlewares.NavigationIDExtractor())

		mw := middlewares.NavigationID(middlewares.WithNavigationIDGenerator(func() string { return "nav-1" }))
		r := newTestRequest(t, "/")
		err := run(t, r, mw, terminal(func(r *internal.Request) error {
			log.InfoContext(r.Context(), "rendered")
			return nil
		}))
		require.NoError(t, err)
		require.Contains(t, buf.String(), "navigation_id=nav-1")
	})

	t.Run("skips contexts without an ID", func(t *testing.T) {
		t.Parallel()

		_, ok := middlewares.NavigationIDExtractor()(context.Background())
		require.False(t, ok)
	})
}
