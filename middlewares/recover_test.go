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

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("recovers from panic and returns PanicError", func(t *testing.T) {
		t.Parallel()

		r := newTestRequest(t, "/boom")
		err := run(t, r, middlewares.Recover(), terminal(func(*internal.Request) error {
			panic("test panic")
		}))

		require.Error(t, err)
		pe, ok := middlewares.AsPanicError(err)
		require.True(t, ok)
		require.Equal(t, "test panic", pe.Value)
		require.NotEmpty(t, pe.Stack)
	})

	t.Run("passes through when no panic", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		r := newTestRequest(t, "/")
		err := run(t, r, middlewares.Recover(), terminal(func(*internal.Request) error {
			return boom
		}))
		require.ErrorIs(t, err, boom)
		require.False(t, middlewares.IsPanicError(err))
	})

	t.Run("respects DisablePrintStack option", func(t *testing.T) {
		t.Parallel()

		r := newTestRequest(t, "/")
		err := run(t, r, middlewares.Recover(middlewares.WithRecoverDisablePrintStack()), terminal(func(*internal.Request) error {
			panic("test panic")
		}))

		pe, ok := middlewares.AsPanicError(err)
		require.True(t, ok)
		require.Nil(t, pe.Stack)
	})

	t.Run("limits stack size", func(t *testing.T) {
		t.Parallel()

		r := newTestRequest(t, "/")
		err := run(t, r, middlewares.Recover(middlewares.WithRecoverStackSize(64)), terminal(func(*internal.Request) error {
			panic("test panic")
		}))

		pe, ok := middlewares.AsPanicError(err)
		require.True(t, ok)
		require.LessOrEqual(t, len(pe.Stack), 64)
	})

	t.Run("unwraps error panic values", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		r := newTestRequest(t, "/")
		err := run(t, r, middlewares.Recover(), terminal(func(*internal.Request) error {
			panic(boom)
		}))
		require.ErrorIs(t, err, boom)
	})

	t.Run("logs the panic", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, nil))
		r := newTestRequest(t, "/broken")
		_ = run(t, r, middlewares.Recover(middlewares.WithRecoverLogger(log)), terminal(func(*internal.Request) error {
			panic("test panic")
		}))

		require.Contains(t, buf.String(), "panic recovered")
		require.Contains(t, buf.String(), "path=/broken")
	})
}
