package transport_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sfap/pkg/resource"
	"github.com/dmitrymomot/sfap/pkg/transport"
)

func TestFS_Fetch(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"view/home.html":          {Data: []byte("home")},
		"view/users/profile.md":   {Data: []byte("# profile")},
		"view/raw":                {Data: []byte("raw")},
		"view/dir/index.html":     {Data: []byte("index")},
		"module/math.lua":         {Data: []byte("exports.pi = 3.14")},
		"module/shared/util.tmpl": {Data: []byte("not a module")},
	}
	tr := transport.NewFS(fsys)
	ctx := context.Background()

	for path, want := range map[string]string{
		"/view/home":          "home",
		"/view/users/profile": "# profile",
		"/view/raw":           "raw",
	} {
		body, err := tr.Fetch(ctx, resource.View, path)
		require.NoError(t, err, path)
		require.Equal(t, want, string(body), path)
	}

	body, err := tr.Fetch(ctx, resource.Module, "/module/math")
	require.NoError(t, err)
	require.Equal(t, "exports.pi = 3.14", string(body))

	t.Run("extensions are per kind", func(t *testing.T) {
		t.Parallel()

		_, err := tr.Fetch(ctx, resource.Module, "/module/shared/util")
		require.ErrorIs(t, err, resource.ErrNotFound)
	})

	t.Run("directories are not resources", func(t *testing.T) {
		t.Parallel()

		_, err := tr.Fetch(ctx, resource.View, "/view/dir")
		require.ErrorIs(t, err, resource.ErrNotFound)
	})

	t.Run("paths cannot escape the root", func(t *testing.T) {
		t.Parallel()

		_, err := tr.Fetch(ctx, resource.View, "/view/../secret")
		require.ErrorIs(t, err, resource.ErrNotFound)
	})

	t.Run("custom extensions", func(t *testing.T) {
		t.Parallel()

		custom := transport.NewFS(fsys, transport.WithExtensions(resource.Module, ".tmpl"))
		body, err := custom.Fetch(ctx, resource.Module, "/module/shared/util")
		require.NoError(t, err)
		require.Equal(t, "not a module", string(body))
	})
}
