package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LegacyCodeHQ/ctxmap/contextmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
entries:
  - " src/index.js "
contexts:
  - context: locales
    staticDependencies:
      - ./en.json
      - ./fr.json
  - context: src/icons
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))

	require.NoError(t, err)
	assert.Equal(t, []string{"src/index.js"}, f.Entries)
	assert.Equal(t, []contextmap.Config{
		{ContextSuffix: "locales", StaticDependencies: []string{"./en.json", "./fr.json"}},
		{ContextSuffix: "src/icons"},
	}, f.Contexts)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse([]byte("  \n"))

	require.NoError(t, err)
	assert.Equal(t, File{}, f)
}

func TestParse_InvalidContext(t *testing.T) {
	_, err := Parse([]byte(`
contexts:
  - context: locales
    staticDependencies: [./en.json, ./en.json]
`))

	var dupErr *contextmap.DuplicateDependencyError
	require.ErrorAs(t, err, &dupErr)
	assert.Contains(t, err.Error(), "contexts[0]")
}

func TestParse_MissingSuffix(t *testing.T) {
	_, err := Parse([]byte(`
contexts:
  - staticDependencies: [./en.json]
`))

	assert.ErrorIs(t, err, contextmap.ErrEmptyContextSuffix)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("contexts: {"))

	assert.Error(t, err)
}

func TestLoad_DefaultFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultFileName), []byte(sampleConfig), 0o644))

	f, err := Load(root, "")

	require.NoError(t, err)
	assert.Len(t, f.Contexts, 2)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	f, err := Load(t.TempDir(), "")

	require.NoError(t, err)
	assert.Equal(t, File{}, f)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(t.TempDir(), "/does/not/exist.yaml")

	assert.Error(t, err)
}

func TestFile_Plugins(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	plugins, err := f.Plugins()

	require.NoError(t, err)
	require.Len(t, plugins, 2)
	p, ok := plugins[0].(*contextmap.Plugin)
	require.True(t, ok)
	assert.True(t, p.Matches("/app/src/locales"))
}

func TestEncode_ReadsBack(t *testing.T) {
	f := File{
		Entries: []string{"src/index.js"},
		Contexts: []contextmap.Config{
			{ContextSuffix: "src/locales", StaticDependencies: []string{"./en.json", "./fr.json"}},
		},
	}

	data, err := f.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "context: src/locales")

	decoded, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, decoded)
}
