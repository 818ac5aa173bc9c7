package transport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dmitrymomot/sfap/pkg/resource"
)

// DefaultExtensions are tried, in order, after the bare path.
var DefaultExtensions = map[resource.Kind][]string{
	resource.View:   {".html", ".md", ".tmpl"},
	resource.Module: {".lua"},
}

// FSOption configures an FS transport.
type FSOption func(*FS)

// WithExtensions overrides the candidate extensions for kind.
func WithExtensions(kind resource.Kind, exts ...string) FSOption {
	return func(t *FS) {
		t.exts[kind] = exts
	}
}

// FS reads resources from a file system. The resource path "/view/a/b"
// resolves to "view/a/b", then "view/a/b.html" and so on.
type FS struct {
	fsys fs.FS
	exts map[resource.Kind][]string
}

// NewFS creates a transport over fsys.
func NewFS(fsys fs.FS, opts ...FSOption) *FS {
	t := &FS{fsys: fsys, exts: make(map[resource.Kind][]string, len(DefaultExtensions))}
	for k, v := range DefaultExtensions {
		t.exts[k] = v
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Dir creates a transport over a directory on disk.
func Dir(path string, opts ...FSOption) *FS {
	return NewFS(os.DirFS(path), opts...)
}

func (t *FS) Fetch(ctx context.Context, kind resource.Kind, path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "/")
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: %s", resource.ErrNotFound, path)
	}

	candidates := append([]string{""}, t.exts[kind]...)
	for _, ext := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(t.fsys, name+ext)
		switch {
		case err == nil:
			return data, nil
		case errors.Is(err, fs.ErrNotExist), isDirErr(t.fsys, name+ext):
			continue
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", resource.ErrNotFound, path)
}

func isDirErr(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && info.IsDir()
}
