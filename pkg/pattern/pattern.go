package pattern

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type segmentKind uint8

const (
	literalSegment segmentKind = iota
	paramSegment
	wildcardSegment
)

type segment struct {
	value string // literal text or parameter name
	kind  segmentKind
}

// Matcher tests paths against a compiled pattern and extracts its parameters.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	raw      string
	segments []segment
	params   []string
	matchAll bool
}

// Compile parses a route pattern.
func Compile(p string) (*Matcher, error) {
	if p == "" {
		return nil, newError(p, "empty pattern")
	}
	if p == "*" {
		return &Matcher{raw: p, matchAll: true}, nil
	}
	if p[0] != '/' {
		return nil, newError(p, "pattern must start with '/'")
	}

	m := &Matcher{raw: p}
	if p == "/" {
		return m, nil
	}

	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	// One trailing slash is allowed: "/users/" is the same as "/users".
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	seen := make(map[string]bool, len(parts))
	for i, part := range parts {
		seg, err := parseSegment(p, part)
		if err != nil {
			return nil, err
		}
		if seg.kind == wildcardSegment && i != len(parts)-1 {
			return nil, newError(p, "wildcard must be the last segment")
		}
		if seg.kind != literalSegment && seg.value != "" {
			if seen[seg.value] {
				return nil, newError(p, "duplicate parameter "+seg.value)
			}
			seen[seg.value] = true
			m.params = append(m.params, seg.value)
		}
		m.segments = append(m.segments, seg)
	}

	return m, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(p string) *Matcher {
	m, err := Compile(p)
	if err != nil {
		panic(err)
	}
	return m
}

func parseSegment(p, part string) (segment, error) {
	switch {
	case part == "":
		return segment{}, newError(p, "empty segment")
	case part[0] == ':':
		name := part[1:]
		if name == "" {
			return segment{}, newError(p, "parameter without a name")
		}
		if strings.ContainsAny(name, ":{}*") {
			return segment{}, newError(p, "invalid parameter name "+name)
		}
		return segment{kind: paramSegment, value: name}, nil
	case part[0] == '{':
		if !strings.HasSuffix(part, "}") {
			return segment{}, newError(p, "unbalanced '{' in "+part)
		}
		name := part[1 : len(part)-1]
		if name == "" {
			return segment{}, newError(p, "parameter without a name")
		}
		if strings.ContainsAny(name, ":{}*") {
			return segment{}, newError(p, "invalid parameter name "+name)
		}
		return segment{kind: paramSegment, value: name}, nil
	case part[0] == '*':
		name := part[1:]
		if strings.ContainsAny(name, ":{}*") {
			return segment{}, newError(p, "invalid wildcard name "+name)
		}
		return segment{kind: wildcardSegment, value: name}, nil
	case strings.ContainsAny(part, "{}"):
		return segment{}, newError(p, "unbalanced capture marker in "+part)
	}
	return segment{kind: literalSegment, value: part}, nil
}

// String returns the source pattern.
func (m *Matcher) String() string {
	return m.raw
}

// Params returns parameter names in declaration order.
func (m *Matcher) Params() []string {
	out := make([]string, len(m.params))
	copy(out, m.params)
	return out
}

// Test reports whether path matches the pattern.
func (m *Matcher) Test(path string) bool {
	_, ok := m.match(path)
	return ok
}

// Parse returns the captured parameters for path, or nil if it does not match.
func (m *Matcher) Parse(path string) map[string]string {
	params, ok := m.match(path)
	if !ok {
		return nil
	}
	return params
}

func (m *Matcher) match(path string) (map[string]string, bool) {
	if m.matchAll {
		return map[string]string{}, true
	}

	parts, ok := splitPath(path)
	if !ok {
		return nil, false
	}

	params := make(map[string]string, len(m.params))
	for i, seg := range m.segments {
		if seg.kind == wildcardSegment {
			if i >= len(parts) {
				return nil, false
			}
			if seg.value != "" {
				rest := make([]string, 0, len(parts)-i)
				for _, part := range parts[i:] {
					rest = append(rest, decode(part))
				}
				params[seg.value] = strings.Join(rest, "/")
			}
			return params, true
		}

		if i >= len(parts) {
			return nil, false
		}
		switch seg.kind {
		case literalSegment:
			if parts[i] != seg.value {
				return nil, false
			}
		case paramSegment:
			if parts[i] == "" {
				return nil, false
			}
			params[seg.value] = decode(parts[i])
		}
	}

	if len(parts) != len(m.segments) {
		return nil, false
	}
	return params, true
}

// splitPath strips query and fragment and splits path into segments.
// The root path yields no segments.
func splitPath(path string) ([]string, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" || path[0] != '/' {
		return nil, false
	}
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return nil, true
	}
	return strings.Split(path, "/"), true
}

func decode(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		s = v
	}
	return norm.NFC.String(s)
}
