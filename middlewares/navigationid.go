package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sfap/internal"
	"github.com/dmitrymomot/sfap/pkg/logger"
)

// navigationIDKey is the key the navigation ID is stored under, both in the
// request values and in the request context.
type navigationIDKey struct{}

// DefaultNavigationIDParam is the query parameter checked for an existing ID.
const DefaultNavigationIDParam = "nid"

// NavigationIDConfig configures the navigation ID middleware.
type NavigationIDConfig struct {
	Generator func() string // ID generator function
	Param     string        // Query parameter holding an upstream ID; empty disables the lookup
}

// NavigationIDOption configures NavigationIDConfig.
type NavigationIDOption func(*NavigationIDConfig)

// WithNavigationIDGenerator sets a custom ID generator function.
func WithNavigationIDGenerator(gen func() string) NavigationIDOption {
	return func(cfg *NavigationIDConfig) {
		cfg.Generator = gen
	}
}

// WithNavigationIDParam sets the query parameter checked for an existing ID.
func WithNavigationIDParam(name string) NavigationIDOption {
	return func(cfg *NavigationIDConfig) {
		cfg.Param = name
	}
}

// NavigationID returns middleware that assigns a unique ID to each dispatch.
// The ID is taken from the query parameter (if present) or generated, then
// stored on the request and in its context so log records carry it.
func NavigationID(opts ...NavigationIDOption) internal.RouteHandler {
	cfg := &NavigationIDConfig{
		Generator: uuid.NewString,
		Param:     DefaultNavigationIDParam,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(r *internal.Request, next internal.Next) error {
		var navID string
		if cfg.Param != "" {
			navID = r.Query.Get(cfg.Param)
		}
		if navID == "" {
			navID = cfg.Generator()
		}

		r.Set(navigationIDKey{}, navID)
		r.SetContext(context.WithValue(r.Context(), navigationIDKey{}, navID))

		return next()
	}
}

// GetNavigationID returns the navigation ID of r.
// Returns an empty string if no ID is set.
func GetNavigationID(r *internal.Request) string {
	if v, ok := r.Get(navigationIDKey{}).(string); ok {
		return v
	}
	return ""
}

// NavigationIDExtractor returns a ContextExtractor for use with WithLogger.
// Adds "navigation_id" to every log entry made with the request context.
func NavigationIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(navigationIDKey{}).(string); ok && v != "" {
			return slog.String("navigation_id", v), true
		}
		return slog.Attr{}, false
	}
}
