package view

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var frontMatterDelimiter = []byte("---")

// ParseFrontMatter splits source into YAML metadata and template body.
// Sources without a leading "---" line have empty metadata.
func ParseFrontMatter(source []byte) (map[string]any, string, error) {
	if !bytes.HasPrefix(source, frontMatterDelimiter) {
		return map[string]any{}, string(source), nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(source, frontMatterDelimiter), "\r\n")
	end := bytes.Index(rest, frontMatterDelimiter)
	if end == -1 {
		return nil, "", fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontMatter)
	}

	body := rest[end+len(frontMatterDelimiter):]
	switch {
	case bytes.HasPrefix(body, []byte("\r\n")):
		body = body[2:]
	case bytes.HasPrefix(body, []byte("\n")):
		body = body[1:]
	}

	meta := map[string]any{}
	if raw := bytes.TrimSpace(rest[:end]); len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &meta); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
		}
	}

	return meta, string(body), nil
}
