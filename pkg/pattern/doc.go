// Package pattern compiles route patterns into path matchers.
//
// # Syntax
//
// A pattern is a slash-separated list of segments:
//
//   - Literal: "/users" matches only that segment
//   - Named parameter: "/:id" or "/{id}" captures exactly one segment
//   - Tail wildcard: "/*" or "/*rest" captures one or more trailing segments
//
// The single pattern "*" matches every path.
//
// Matching is whole-path: "/users/:id" matches "/users/42" but neither "/users"
// nor "/users/42/posts". Only a tail wildcard accepts a variable number of
// segments. A single trailing slash on the path is ignored, and any query
// string or fragment is stripped before matching.
//
// # Usage
//
//	m, err := pattern.Compile("/users/:id")
//	if err != nil {
//	    return err
//	}
//	if m.Test("/users/42") {
//	    params := m.Parse("/users/42") // map[id:42]
//	}
//
// Parameter values are percent-decoded and NFC-normalized. Parse returns nil
// for a path that does not match, so guard with Test when the distinction
// between "no match" and "no parameters" matters.
//
// # Errors
//
// Compile returns a [*Error] for malformed patterns. It matches [ErrInvalid]
// with [errors.Is].
package pattern
