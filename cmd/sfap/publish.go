package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sfap/pkg/resource"
	"github.com/dmitrymomot/sfap/pkg/transport"
)

// Putter stores resource source.
type Putter interface {
	Put(ctx context.Context, kind resource.Kind, path string, source []byte) error
}

func publishCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "publish DIR",
		Short: "Upload a view/ and module/ tree into the Postgres resource table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := transport.ConnectPostgres(ctx, cfg.Postgres)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := publish(ctx, os.DirFS(args[0]), transport.NewPostgres(pool))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "published %d resources\n", n)
			return err
		},
	}
}

// publish walks fsys and stores every file under view/ or module/ at its
// resource path, with the extension removed.
func publish(ctx context.Context, fsys fs.FS, dst Putter) (int, error) {
	n := 0
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		kind, rpath, ok := resourcePath(p)
		if !ok {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		if err := dst.Put(ctx, kind, rpath, data); err != nil {
			return fmt.Errorf("publish %s: %w", p, err)
		}
		n++
		return nil
	})
	return n, err
}

// resourcePath maps "view/users/profile.html" to (View, "/view/users/profile").
func resourcePath(p string) (resource.Kind, string, bool) {
	top, rest, ok := strings.Cut(p, "/")
	if !ok || rest == "" {
		return "", "", false
	}
	var kind resource.Kind
	switch resource.Kind(top) {
	case resource.View:
		kind = resource.View
	case resource.Module:
		kind = resource.Module
	default:
		return "", "", false
	}
	rest = strings.TrimSuffix(rest, path.Ext(rest))
	return kind, "/" + top + "/" + rest, true
}
