package view

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"maps"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Format selects how a view body is rendered.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Template renders a compiled view.
type Template interface {
	// Name returns the logical view name the template was compiled from.
	Name() string

	// Meta returns the front matter metadata. Callers must not modify it.
	Meta() map[string]any

	// Render executes the template with data.
	Render(data any) (string, error)
}

// Compiler turns view source into a Template.
type Compiler interface {
	Compile(name, source string) (Template, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(name, source string) (Template, error)

func (f CompilerFunc) Compile(name, source string) (Template, error) {
	return f(name, source)
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultFormat sets the format used when front matter does not name one.
// Default: FormatHTML.
func WithDefaultFormat(f Format) Option {
	return func(e *Engine) {
		e.format = f
	}
}

// WithFuncs adds template functions available to every view.
func WithFuncs(funcs map[string]any) Option {
	return func(e *Engine) {
		maps.Copy(e.funcs, funcs)
	}
}

// WithSanitizer applies policy to every rendered view.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithMarkdown replaces the goldmark instance used for markdown views.
func WithMarkdown(md goldmark.Markdown) Option {
	return func(e *Engine) {
		if md != nil {
			e.md = md
		}
	}
}

// Engine is the default Compiler. It is safe for concurrent use.
type Engine struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	funcs  map[string]any
	format Format
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		md:     goldmark.New(),
		funcs:  make(map[string]any),
		format: FormatHTML,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile parses source into a Template.
func (e *Engine) Compile(name, source string) (Template, error) {
	meta, body, err := ParseFrontMatter([]byte(source))
	if err != nil {
		return nil, err
	}

	format := e.format
	if v, ok := meta["format"].(string); ok && v != "" {
		format = Format(v)
	}

	base := compiled{name: name, meta: meta, policy: e.policy}
	switch format {
	case FormatHTML:
		tpl, err := htmltemplate.New(name).Funcs(e.funcs).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompile, err)
		}
		return &htmlView{compiled: base, tpl: tpl}, nil
	case FormatMarkdown:
		tpl, err := texttemplate.New(name).Funcs(e.funcs).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompile, err)
		}
		return &markdownView{compiled: base, tpl: tpl, md: e.md}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type compiled struct {
	meta   map[string]any
	policy *bluemonday.Policy
	name   string
}

func (c compiled) Name() string         { return c.name }
func (c compiled) Meta() map[string]any { return c.meta }

func (c compiled) sanitize(s string) string {
	if c.policy == nil {
		return s
	}
	return c.policy.Sanitize(s)
}

type htmlView struct {
	tpl *htmltemplate.Template
	compiled
}

func (v *htmlView) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := v.tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, v.name, err)
	}
	return v.sanitize(buf.String()), nil
}

type markdownView struct {
	tpl *texttemplate.Template
	md  goldmark.Markdown
	compiled
}

func (v *markdownView) Render(data any) (string, error) {
	var src bytes.Buffer
	if err := v.tpl.Execute(&src, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, v.name, err)
	}

	var out bytes.Buffer
	if err := v.md.Convert(src.Bytes(), &out); err != nil {
		return "", fmt.Errorf("%w: %s: markdown: %v", ErrRender, v.name, err)
	}
	return v.sanitize(out.String()), nil
}
