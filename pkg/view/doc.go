// Package view compiles view sources into renderable templates.
//
// A view source is a Go template, optionally preceded by YAML front matter:
//
//	---
//	title: Profile
//	format: markdown
//	---
//	# Hello, {{.Name}}
//
// The data passed to Render is available as the template's dot. The front
// matter "format" key selects how the body is rendered:
//
//   - "html" (default): html/template with contextual escaping
//   - "markdown": text/template, then converted to HTML with goldmark
//
// An [Engine] can post-process every rendered view with a bluemonday policy:
//
//	engine := view.New(view.WithSanitizer(bluemonday.UGCPolicy()))
//	tpl, err := engine.Compile("users.profile", source)
//	html, err := tpl.Render(map[string]any{"Name": "Ada"})
package view
