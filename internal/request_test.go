package internal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sfap/internal"
)

func TestNewRequest(t *testing.T) {
	t.Parallel()

	t.Run("parses every part of the URL", func(t *testing.T) {
		t.Parallel()

		r, err := internal.NewRequest(context.Background(), "https://shop.example.com:8443/users/42?tab=orders&tag=a&tag=b#details")
		require.NoError(t, err)

		require.Equal(t, "https://shop.example.com:8443/users/42?tab=orders&tag=a&tag=b#details", r.Href)
		require.Equal(t, "/users/42", r.Pathname)
		require.Equal(t, "?tab=orders&tag=a&tag=b", r.Search)
		require.Equal(t, "orders", r.Query.Get("tab"))
		require.Equal(t, []string{"a", "b"}, r.Query["tag"])
		require.Equal(t, "details", r.Hash)
		require.Equal(t, "shop.example.com:8443", r.Host)
		require.Equal(t, "shop.example.com", r.Hostname)
		require.Equal(t, "8443", r.Port)
		require.Equal(t, "https", r.Protocol)
		require.Empty(t, r.Params)
	})

	t.Run("relative targets", func(t *testing.T) {
		t.Parallel()

		r, err := internal.NewRequest(context.Background(), "/users/42")
		require.NoError(t, err)
		require.Equal(t, "/users/42", r.Pathname)
		require.Empty(t, r.Host)
		require.Empty(t, r.Search)

		r, err = internal.NewRequest(context.Background(), "")
		require.NoError(t, err)
		require.Equal(t, "/", r.Pathname)
	})

	t.Run("malformed URLs are argument errors", func(t *testing.T) {
		t.Parallel()

		_, err := internal.NewRequest(context.Background(), "http://[::1")
		var argErr *internal.ArgumentError
		require.ErrorAs(t, err, &argErr)
		require.Equal(t, "url", argErr.Name)
	})

	t.Run("context and values", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		r, err := internal.NewRequest(context.Background(), "/")
		require.NoError(t, err)

		ctx := context.WithValue(context.Background(), key{}, "v")
		r.SetContext(ctx)
		require.Equal(t, "v", r.Context().Value(key{}))

		r.Set("k", 1)
		require.Equal(t, 1, r.Get("k"))
		require.Nil(t, r.Get("other"))
	})
}
