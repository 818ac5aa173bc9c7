package middlewares_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sfap/internal"
	"github.com/dmitrymomot/sfap/middlewares"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	newLogger := func(buf *bytes.Buffer) *slog.Logger {
		return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	t.Run("logs successful dispatch at debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := newTestRequest(t, "/products/1")
		require.NoError(t, run(t, r, middlewares.Logging(newLogger(&buf))))

		out := buf.String()
		require.Contains(t, out, "level=DEBUG")
		require.Contains(t, out, "msg=navigation")
		require.Contains(t, out, "path=/products/1")
		require.Contains(t, out, "duration=")
	})

	t.Run("custom success level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := newTestRequest(t, "/")
		require.NoError(t, run(t, r, middlewares.Logging(newLogger(&buf), middlewares.WithLoggingLevel(slog.LevelInfo))))
		require.Contains(t, buf.String(), "level=INFO")
	})

	t.Run("logs failures at error and returns the error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var buf bytes.Buffer
		r := newTestRequest(t, "/")
		err := run(t, r, middlewares.Logging(newLogger(&buf)), terminal(func(*internal.Request) error {
			return boom
		}))
		require.ErrorIs(t, err, boom)

		out := buf.String()
		require.Contains(t, out, "level=ERROR")
		require.Contains(t, out, "navigation failed")
		require.Contains(t, out, "error=boom")
	})
}
