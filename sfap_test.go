package sfap_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sfap"
	"github.com/dmitrymomot/sfap/pkg/resource"
)

func TestCreateApp(t *testing.T) {
	t.Parallel()

	t.Run("uses name and location", func(t *testing.T) {
		t.Parallel()

		app, err := sfap.CreateApp("shop", "https://example.com/store?lang=en#/home")
		require.NoError(t, err)
		t.Cleanup(func() { _ = app.Close() })

		require.Equal(t, "shop", app.Name())
		require.Equal(t, "https://example.com/store?lang=en#/home", app.Location())
		require.Equal(t, "en", app.QueryValue("lang"))
		require.Equal(t, sfap.Idle, app.State())
	})

	t.Run("rejects unparsable location", func(t *testing.T) {
		t.Parallel()

		_, err := sfap.CreateApp("shop", "http://[::1")
		var argErr *sfap.ArgumentError
		require.ErrorAs(t, err, &argErr)
	})
}

func TestApp_EndToEnd(t *testing.T) {
	t.Parallel()

	views := resource.TransportFunc(func(_ context.Context, kind resource.Kind, path string) ([]byte, error) {
		if kind == resource.View && path == "/view/products/show" {
			return []byte(`<h1>Product {{.ID}}</h1>`), nil
		}
		return nil, resource.ErrNotFound
	})

	app, err := sfap.New(
		sfap.WithName("shop"),
		sfap.WithLocation("https://example.com/#/"),
		sfap.WithTransport(views),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	var seen []string
	require.NoError(t, app.Use(func(r *sfap.Request, next sfap.Next) error {
		seen = append(seen, r.Pathname)
		return next()
	}))

	var rendered []string
	require.NoError(t, app.Route("/products/:id", func(r *sfap.Request, next sfap.Next) error {
		html, err := app.View(r.Context(), "products.show", map[string]any{
			"ID": sfap.Param[int](r, "id"),
		})
		if err != nil {
			return err
		}
		rendered = append(rendered, html)
		return nil
	}))

	require.NoError(t, app.Start(context.Background()))
	app.SetHash("/products/42")

	require.Equal(t, []string{"/", "/products/42"}, seen)
	require.Equal(t, []string{"<h1>Product 42</h1>"}, rendered)
}

func TestNewRoute(t *testing.T) {
	t.Parallel()

	rt, err := sfap.NewRoute("/users/:id", func(*sfap.Request, sfap.Next) error { return nil })
	require.NoError(t, err)
	require.True(t, rt.Test("/users/7"))
	require.Equal(t, map[string]string{"id": "7"}, rt.Parse("/users/7"))

	_, err = sfap.NewRoute("/users/:id", nil)
	var argErr *sfap.ArgumentError
	require.ErrorAs(t, err, &argErr)
}

func TestNewRequest(t *testing.T) {
	t.Parallel()

	r, err := sfap.NewRequest(context.Background(), "https://example.com:8443/search?q=go&page=2#top")
	require.NoError(t, err)
	require.Equal(t, "/search", r.Pathname)
	require.Equal(t, "https", r.Protocol)
	require.Equal(t, "8443", r.Port)
	require.Equal(t, "go", sfap.Query[string](r, "q"))
	require.Equal(t, 2, sfap.Query[int](r, "page"))
	require.Equal(t, 10, sfap.QueryDefault(r, "limit", 10))

	r.Set("user", "alice")
	require.Equal(t, "alice", sfap.Value[string](r, "user"))
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var got error
	app, err := sfap.New(sfap.WithErrorHandler(func(_ context.Context, err error) {
		got = err
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	require.NoError(t, app.Use(func(*sfap.Request, sfap.Next) error { return boom }))
	require.NoError(t, app.Init("/anything"))
	require.ErrorIs(t, got, boom)
}
