package graph_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/LegacyCodeHQ/ctxmap/cmd/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func runGraph(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := graph.NewCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const localesConfig = `entries: [src/index.js]
contexts:
  - context: locales
    staticDependencies: [./en.json]
`

func localesProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/index.js":        "const messages = require.context('./locales', false, /\\.json$/);\n",
		"src/locales/en.json": "{}",
		"src/locales/fr.json": "{}",
		"src/locales/de.json": "{}",
		".ctxmap.yaml":        localesConfig,
	})
	return root
}

func TestGraphCommand_UsesConfiguredEntriesAndContexts(t *testing.T) {
	root := localesProject(t)

	stdout, _, err := runGraph(t, "-C", root, "-f", "json")

	require.NoError(t, err)
	assert.Contains(t, stdout, `"src/locales/en.json"`)
	assert.NotContains(t, stdout, `"src/locales/de.json"`)
	assert.Contains(t, stdout, `"overridden": true`)
}

func TestGraphCommand_DOTUsesRootNameAsLabel(t *testing.T) {
	root := localesProject(t)

	stdout, _, err := runGraph(t, "-C", root)

	require.NoError(t, err)
	assert.Contains(t, stdout, "digraph dependencies {")
	assert.Contains(t, stdout, `label="`+filepath.Base(root)+`";`)
	assert.Contains(t, stdout, "(static)")
}

func TestGraphCommand_ExplicitEntriesOverrideConfig(t *testing.T) {
	root := localesProject(t)
	writeFiles(t, root, map[string]string{"src/other.js": ""})

	stdout, _, err := runGraph(t, "-C", root, "-f", "json", "src/other.js")

	require.NoError(t, err)
	assert.Contains(t, stdout, `"src/other.js"`)
	assert.NotContains(t, stdout, `"src/index.js"`)
}

func TestGraphCommand_FailsOnCompilationErrors(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"index.js": "import './missing';\n"})

	stdout, stderr, err := runGraph(t, "-C", root, "index.js")

	require.ErrorIs(t, err, graph.ErrCompilationFailed)
	assert.Contains(t, stdout, "digraph dependencies {")
	assert.Contains(t, stderr, "can't resolve './missing'")

	_, _, err = runGraph(t, "-C", root, "--fail-on-error=false", "index.js")
	assert.NoError(t, err)
}

func TestGraphCommand_RejectsUnknownFormat(t *testing.T) {
	_, _, err := runGraph(t, "-C", t.TempDir(), "-f", "mermaid", "index.js")

	assert.EqualError(t, err, "unknown format: mermaid (valid options: dot, json)")
}

func TestGraphCommand_RequiresEntries(t *testing.T) {
	_, _, err := runGraph(t, "-C", t.TempDir())

	assert.ErrorContains(t, err, "no entries given")
}
