package view

import "errors"

var (
	// ErrInvalidFrontMatter indicates malformed YAML front matter.
	ErrInvalidFrontMatter = errors.New("view: invalid front matter")

	// ErrUnknownFormat indicates an unsupported "format" front matter value.
	ErrUnknownFormat = errors.New("view: unknown format")

	// ErrCompile indicates the template body failed to parse.
	ErrCompile = errors.New("view: compile failed")

	// ErrRender indicates template execution or markdown conversion failed.
	ErrRender = errors.New("view: render failed")
)
