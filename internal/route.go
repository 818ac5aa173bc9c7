package internal

import (
	"github.com/dmitrymomot/sfap/pkg/pattern"
)

// Route binds a compiled path pattern to a handler.
type Route struct {
	matcher *pattern.Matcher
	handler RouteHandler
}

// NewRoute compiles p and binds it to h.
func NewRoute(p string, h RouteHandler) (*Route, error) {
	if h == nil {
		return nil, &ArgumentError{Name: "route handler", Reason: "must not be nil"}
	}
	m, err := pattern.Compile(p)
	if err != nil {
		return nil, err
	}
	return &Route{matcher: m, handler: h}, nil
}

// Pattern returns the source pattern.
func (rt *Route) Pattern() string {
	return rt.matcher.String()
}

// Test reports whether path matches the route.
func (rt *Route) Test(path string) bool {
	return rt.matcher.Test(path)
}

// Parse returns the parameters captured from path, or nil when it does not match.
func (rt *Route) Parse(path string) map[string]string {
	return rt.matcher.Parse(path)
}

// Handle is the route's pipeline step: it calls the bound handler with
// parameters attached when r matches and falls through to next otherwise.
func (rt *Route) Handle(r *Request, next Next) error {
	params := rt.matcher.Parse(r.Pathname)
	if params == nil {
		return next()
	}
	r.Params = params
	return rt.handler(r, next)
}
