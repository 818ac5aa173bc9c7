package resource

import (
	"context"
	"strings"
)

// Kind identifies a family of remote resources.
type Kind string

const (
	View   Kind = "view"
	Module Kind = "module"
)

// Accept returns the Accept header value transports send for this kind.
func (k Kind) Accept() string {
	switch k {
	case View:
		return "application/json"
	case Module:
		return "application/js"
	default:
		return "*/*"
	}
}

func (k Kind) String() string {
	return string(k)
}

// Path converts a dotted logical name into the remote path for kind.
//
//	Path(View, "users.profile") // "/view/users/profile"
func Path(kind Kind, name string) (string, error) {
	if name == "" {
		return "", ErrInvalidName
	}
	parts := strings.Split(name, ".")
	for _, p := range parts {
		if p == "" || strings.Contains(p, "/") {
			return "", ErrInvalidName
		}
	}
	return "/" + string(kind) + "/" + strings.Join(parts, "/"), nil
}

// Transport retrieves raw resource source.
// Implementations should return an error matching ErrNotFound for missing resources.
type Transport interface {
	Fetch(ctx context.Context, kind Kind, path string) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, kind Kind, path string) ([]byte, error)

func (f TransportFunc) Fetch(ctx context.Context, kind Kind, path string) ([]byte, error) {
	return f(ctx, kind, path)
}
