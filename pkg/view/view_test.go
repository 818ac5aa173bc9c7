package view_test

import (
	"strings"
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sfap/pkg/view"
)

func TestParseFrontMatter(t *testing.T) {
	t.Parallel()

	t.Run("no front matter", func(t *testing.T) {
		t.Parallel()

		meta, body, err := view.ParseFrontMatter([]byte("<p>hi</p>"))
		require.NoError(t, err)
		require.Empty(t, meta)
		require.Equal(t, "<p>hi</p>", body)
	})

	t.Run("extracts metadata and body", func(t *testing.T) {
		t.Parallel()

		src := "---\ntitle: Profile\nformat: markdown\n---\n# {{.Name}}\n"
		meta, body, err := view.ParseFrontMatter([]byte(src))
		require.NoError(t, err)
		require.Equal(t, "Profile", meta["title"])
		require.Equal(t, "markdown", meta["format"])
		require.Equal(t, "# {{.Name}}\n", body)
	})

	t.Run("rejects unterminated front matter", func(t *testing.T) {
		t.Parallel()

		_, _, err := view.ParseFrontMatter([]byte("---\ntitle: x\n"))
		require.ErrorIs(t, err, view.ErrInvalidFrontMatter)
	})

	t.Run("rejects invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, _, err := view.ParseFrontMatter([]byte("---\ntitle: [unclosed\n---\nbody"))
		require.ErrorIs(t, err, view.ErrInvalidFrontMatter)
	})
}

func TestEngine_Compile(t *testing.T) {
	t.Parallel()

	t.Run("renders html with escaping", func(t *testing.T) {
		t.Parallel()

		tpl, err := view.New().Compile("users.profile", "<h1>{{.Name}}</h1>")
		require.NoError(t, err)
		require.Equal(t, "users.profile", tpl.Name())

		out, err := tpl.Render(map[string]any{"Name": "<Ada>"})
		require.NoError(t, err)
		require.Equal(t, "<h1>&lt;Ada&gt;</h1>", out)
	})

	t.Run("renders markdown selected by front matter", func(t *testing.T) {
		t.Parallel()

		tpl, err := view.New().Compile("docs.intro", "---\nformat: markdown\ntitle: Intro\n---\n# Hello {{.Name}}\n")
		require.NoError(t, err)
		require.Equal(t, "Intro", tpl.Meta()["title"])

		out, err := tpl.Render(map[string]any{"Name": "Ada"})
		require.NoError(t, err)
		require.Equal(t, "<h1>Hello Ada</h1>\n", out)
	})

	t.Run("default format can be markdown", func(t *testing.T) {
		t.Parallel()

		tpl, err := view.New(view.WithDefaultFormat(view.FormatMarkdown)).Compile("x", "*hi*")
		require.NoError(t, err)
		out, err := tpl.Render(nil)
		require.NoError(t, err)
		require.Equal(t, "<p><em>hi</em></p>\n", out)
	})

	t.Run("applies sanitizer", func(t *testing.T) {
		t.Parallel()

		engine := view.New(
			view.WithDefaultFormat(view.FormatMarkdown),
			view.WithSanitizer(bluemonday.StrictPolicy()),
		)
		tpl, err := engine.Compile("x", "**bold**")
		require.NoError(t, err)
		out, err := tpl.Render(nil)
		require.NoError(t, err)
		require.Equal(t, "bold", strings.TrimSpace(out))
	})

	t.Run("exposes custom funcs", func(t *testing.T) {
		t.Parallel()

		engine := view.New(view.WithFuncs(map[string]any{"upper": strings.ToUpper}))
		tpl, err := engine.Compile("x", `{{upper .}}`)
		require.NoError(t, err)
		out, err := tpl.Render("ada")
		require.NoError(t, err)
		require.Equal(t, "ADA", out)
	})

	t.Run("reports parse errors", func(t *testing.T) {
		t.Parallel()

		_, err := view.New().Compile("x", "{{.Name")
		require.ErrorIs(t, err, view.ErrCompile)
	})

	t.Run("reports unknown formats", func(t *testing.T) {
		t.Parallel()

		_, err := view.New().Compile("x", "---\nformat: jade\n---\np hi")
		require.ErrorIs(t, err, view.ErrUnknownFormat)
	})

	t.Run("reports execution errors", func(t *testing.T) {
		t.Parallel()

		tpl, err := view.New().Compile("x", `{{index . 5}}`)
		require.NoError(t, err)
		_, err = tpl.Render([]int{1})
		require.ErrorIs(t, err, view.ErrRender)
	})
}
