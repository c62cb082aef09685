package javascript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func existsIn(files ...string) func(string) bool {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f] = true
	}
	return func(p string) bool { return set[p] }
}

func TestResolveJavaScriptImportPath(t *testing.T) {
	exists := existsIn(
		"src/utils.js",
		"src/utils.json",
		"src/components/index.jsx",
		"src/icons/add.svg",
		"src/data.json",
	)

	tests := []struct {
		name       string
		importPath string
		want       []string
	}{
		{"extension probing in order", "./utils", []string{"src/utils.js", "src/utils.json"}},
		{"directory index", "./components", []string{"src/components/index.jsx"}},
		{"exact non-script file", "./icons/add.svg", []string{"src/icons/add.svg"}},
		{"exact json", "./data.json", []string{"src/data.json"}},
		{"parent directory", "../src/utils.js", []string{"src/utils.js"}},
		{"missing", "./nope", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveJavaScriptImportPath("src/index.js", tc.importPath, exists))
		})
	}
}

func TestResolveJavaScriptImportPath_ModuleKinds(t *testing.T) {
	exists := existsIn(
		"project/src/helper.jsx",
		"project/src/lib/index.js",
		"project/src/feature/index.mjs",
		"project/src/legacy_state.cjs",
		"project/src/utils.js",
	)
	sourceFile := "project/src/app.js"

	assert.Equal(t, []string{"project/src/helper.jsx"}, ResolveJavaScriptImportPath(sourceFile, "./helper", exists))
	assert.Equal(t, []string{"project/src/lib/index.js"}, ResolveJavaScriptImportPath(sourceFile, "./lib", exists))
	assert.Equal(t, []string{"project/src/feature/index.mjs"}, ResolveJavaScriptImportPath(sourceFile, "./feature", exists))
	assert.Equal(t, []string{"project/src/legacy_state.cjs"}, ResolveJavaScriptImportPath(sourceFile, "./legacy_state.cjs", exists))
	assert.Equal(t, []string{"project/src/utils.js"}, ResolveJavaScriptImportPath("project/src/lib/index.js", "../utils", exists))
}

func TestResolveFromDir_ContextMembers(t *testing.T) {
	exists := existsIn("src/locales/en.json", "src/locales/nested/fr.json")

	assert.Equal(t, []string{"src/locales/en.json"}, ResolveFromDir("src/locales", "./en.json", exists))
	assert.Equal(t, []string{"src/locales/nested/fr.json"}, ResolveFromDir("src/locales", "./nested/fr.json", exists))
}

func TestIsJavaScriptFile(t *testing.T) {
	for _, p := range []string{"a.js", "b/c.jsx", "d.mjs", "e.cjs"} {
		assert.True(t, IsJavaScriptFile(p), p)
	}
	for _, p := range []string{"a.json", "b.ts", "Makefile", "c.js.map"} {
		assert.False(t, IsJavaScriptFile(p), p)
	}
}
