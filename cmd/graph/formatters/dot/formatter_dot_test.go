package dot_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
	"github.com/LegacyCodeHQ/ctxmap/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/ctxmap/cmd/graph/formatters/dot"
	"github.com/LegacyCodeHQ/ctxmap/contextmap"
	"github.com/LegacyCodeHQ/ctxmap/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, fsys fstest.MapFS, entry string, plugins ...bundler.Plugin) *bundler.Compilation {
	t.Helper()
	c, err := bundler.New("/app", bundler.WithFS(fsys), bundler.WithPlugins(plugins...))
	require.NoError(t, err)

	comp, err := c.Compile(context.Background(), []string{entry})
	require.NoError(t, err)
	require.NoError(t, comp.Err())
	return comp
}

func TestFormatter_StaticContext(t *testing.T) {
	fsys := fstest.MapFS{
		"src/index.js":        {Data: []byte("import './app';\nconst messages = require.context('./locales', false, /\\.json$/);\n")},
		"src/app.js":          {Data: []byte("")},
		"src/locales/en.json": {Data: []byte(`{}`)},
		"src/locales/fr.json": {Data: []byte(`{}`)},
		"src/locales/de.json": {Data: []byte(`{}`)},
	}
	plugin := contextmap.MustNew(contextmap.Config{
		ContextSuffix:      "locales",
		StaticDependencies: []string{"./en.json"},
	})
	comp := compile(t, fsys, "src/index.js", plugin)

	output, err := (&dot.Formatter{}).Format(comp, formatters.FormatOptions{})
	require.NoError(t, err)

	g := testhelpers.DotGoldie(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestFormatter_ScannedContextWithLabel(t *testing.T) {
	fsys := fstest.MapFS{
		"src/index.js":        {Data: []byte("const messages = require.context('./locales', false, /\\.json$/);\n")},
		"src/index.test.js":   {Data: []byte("import './index';\n")},
		"src/locales/en.json": {Data: []byte(`{}`)},
		"src/locales/fr.json": {Data: []byte(`{}`)},
	}
	comp := compile(t, fsys, "src/index.test.js")

	output, err := (&dot.Formatter{}).Format(comp, formatters.FormatOptions{Label: "ctxmap"})
	require.NoError(t, err)

	g := testhelpers.DotGoldie(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestFormatter_EmptyCompilation(t *testing.T) {
	comp := compile(t, fstest.MapFS{"index.js": {Data: []byte("")}}, "index.js")

	output, err := (&dot.Formatter{}).Format(comp, formatters.FormatOptions{})
	require.NoError(t, err)

	assert.Equal(t, "digraph dependencies {\n  rankdir=LR;\n  node [shape=box];\n\n  \"index.js\" [label=\"index.js\", style=filled, fillcolor=lightblue];\n}", output)
}
