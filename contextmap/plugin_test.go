package contextmap_test

import (
	"testing"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
	"github.com/LegacyCodeHQ/ctxmap/contextmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localesPlugin(t *testing.T) *contextmap.Plugin {
	t.Helper()
	p, err := contextmap.New(contextmap.Config{
		ContextSuffix:      "locales",
		StaticDependencies: []string{"./en.json", "./fr.json"},
	})
	require.NoError(t, err)
	return p
}

type callbackRecorder struct {
	calls int
	err   error
	deps  []bundler.ElementDependency
}

func (r *callbackRecorder) callback(err error, deps []bundler.ElementDependency) {
	r.calls++
	r.err = err
	r.deps = deps
}

func TestPlugin_Matches(t *testing.T) {
	p := localesPlugin(t)

	tests := []struct {
		context string
		want    bool
	}{
		{context: "/app/src/locales", want: true},
		{context: "locales", want: true},
		{context: "/app/src/i18n-locales", want: true},
		{context: "/app/src/locales/", want: false},
		{context: "/app/src/Locales", want: false},
		{context: "/app/src/locales/en", want: false},
		{context: "/app/src/other", want: false},
		{context: "", want: false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, p.Matches(tc.context), "Matches(%q)", tc.context)
	}
}

func TestPlugin_Intercept_LocalesScenario(t *testing.T) {
	p := localesPlugin(t)
	req := bundler.ContextRequest{
		Context: "/app/src/locales",
		Dependencies: []bundler.DependencyEdge{
			{Request: "./en.json", Critical: true},
			{Request: "./de.json", Critical: true},
		},
	}

	patch := p.Intercept(req)

	require.NotNil(t, patch.ResolveDependencies)
	assert.Equal(t, []int{0, 1}, patch.NonCritical)

	var rec callbackRecorder
	patch.ResolveDependencies(nil, bundler.ResolveOptions{}, rec.callback)

	assert.Equal(t, 1, rec.calls)
	assert.NoError(t, rec.err)
	assert.Equal(t, []bundler.ElementDependency{
		{Request: "./en.json", UserRequest: "./en.json"},
		{Request: "./fr.json", UserRequest: "./fr.json"},
	}, rec.deps)

	// the request itself is never touched
	assert.True(t, req.Dependencies[0].Critical)
	assert.Equal(t, "./de.json", req.Dependencies[1].Request)
}

func TestPlugin_Intercept_NoMatch(t *testing.T) {
	p := localesPlugin(t)
	req := bundler.ContextRequest{
		Context:      "/app/src/other",
		Dependencies: []bundler.DependencyEdge{{Request: "./x", Critical: true}},
	}

	patch := p.Intercept(req)

	assert.True(t, patch.IsZero())
	assert.Nil(t, patch.ResolveDependencies)
	assert.Empty(t, patch.NonCritical)
}

func TestPlugin_Intercept_OnlyCriticalEdgesAreListed(t *testing.T) {
	p := localesPlugin(t)
	req := bundler.ContextRequest{
		Context: "/app/src/locales",
		Dependencies: []bundler.DependencyEdge{
			{Request: "./a", Critical: false},
			{Request: "./b", Critical: true},
			{Request: "./c"},
		},
	}

	patch := p.Intercept(req)

	assert.Equal(t, []int{1}, patch.NonCritical)
}

func TestPlugin_Intercept_EmptyStaticDependencies(t *testing.T) {
	p, err := contextmap.New(contextmap.Config{ContextSuffix: "locales"})
	require.NoError(t, err)

	patch := p.Intercept(bundler.ContextRequest{
		Context:      "/app/src/locales",
		Dependencies: []bundler.DependencyEdge{{Request: "./en.json", Critical: true}},
	})

	require.NotNil(t, patch.ResolveDependencies)
	assert.Equal(t, []int{0}, patch.NonCritical)

	var rec callbackRecorder
	patch.ResolveDependencies(nil, bundler.ResolveOptions{}, rec.callback)

	assert.Equal(t, 1, rec.calls)
	assert.NoError(t, rec.err)
	assert.Empty(t, rec.deps)
}

func TestPlugin_Intercept_Idempotent(t *testing.T) {
	p := localesPlugin(t)
	req := bundler.ContextRequest{
		Context:      "/app/src/locales",
		Dependencies: []bundler.DependencyEdge{{Request: "./en.json", Critical: true}},
	}

	first := p.Intercept(req)
	second := p.Intercept(req)

	assert.Equal(t, first.NonCritical, second.NonCritical)

	var a, b callbackRecorder
	first.ResolveDependencies(nil, bundler.ResolveOptions{}, a.callback)
	second.ResolveDependencies(nil, bundler.ResolveOptions{}, b.callback)
	assert.Equal(t, a.deps, b.deps)
}

func TestPlugin_DependenciesAreFreshSlices(t *testing.T) {
	p := localesPlugin(t)

	deps := p.Dependencies()
	deps[0].Request = "./mutated.json"

	assert.Equal(t, "./en.json", p.Dependencies()[0].Request)
}

func TestNew_CopiesConfiguration(t *testing.T) {
	deps := []string{"./en.json"}
	p, err := contextmap.New(contextmap.Config{ContextSuffix: "locales", StaticDependencies: deps})
	require.NoError(t, err)

	deps[0] = "./changed.json"

	assert.Equal(t, []string{"./en.json"}, p.Config().StaticDependencies)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := contextmap.New(contextmap.Config{})
	assert.ErrorIs(t, err, contextmap.ErrEmptyContextSuffix)

	_, err = contextmap.New(contextmap.Config{
		ContextSuffix:      "locales",
		StaticDependencies: []string{"./en.json", "./en.json"},
	})
	var dupErr *contextmap.DuplicateDependencyError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "./en.json", dupErr.Dependency)
}

func TestMustNew_PanicsOnInvalidConfig(t *testing.T) {
	assert.Panics(t, func() {
		contextmap.MustNew(contextmap.Config{})
	})
}
