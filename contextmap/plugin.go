// Package contextmap replaces the filesystem scan of a directory-style import
// with a fixed list of members.
package contextmap

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
)

// PluginName is the tap name used on every hook.
const PluginName = "ContextMapPlugin"

// Plugin resolves every context whose directory ends with the configured
// suffix to the configured static dependencies.
type Plugin struct {
	suffix       string
	dependencies []string
}

// New validates cfg and builds a plugin from a private copy of it.
func New(cfg Config) (*Plugin, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Plugin{
		suffix:       cfg.ContextSuffix,
		dependencies: append([]string(nil), cfg.StaticDependencies...),
	}, nil
}

// MustNew is New for configurations known to be valid.
func MustNew(cfg Config) *Plugin {
	p, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Config returns a copy of the plugin configuration.
func (p *Plugin) Config() Config {
	return Config{
		ContextSuffix:      p.suffix,
		StaticDependencies: append([]string(nil), p.dependencies...),
	}
}

// Apply attaches the plugin to c. It must be called once per compiler.
func (p *Plugin) Apply(c *bundler.Compiler) {
	logger := c.Logger().WithPrefix(PluginName)

	c.Hooks.ContextModuleFactory.Tap(PluginName, func(factory *bundler.ContextModuleFactory) {
		factory.Hooks.BeforeResolve.Tap(PluginName, func(req bundler.ContextRequest) bundler.Patch {
			patch := p.Intercept(req)
			if !patch.IsZero() {
				logger.Debug("static context applied",
					"context", req.Context,
					"dependencies", len(p.dependencies),
					"non-critical", len(patch.NonCritical))
			}
			return patch
		})
	})
}

// Matches reports whether the context directory is governed by this plugin.
// Separators are compared in slash form.
func (p *Plugin) Matches(contextPath string) bool {
	return strings.HasSuffix(filepath.ToSlash(contextPath), filepath.ToSlash(p.suffix))
}

// Intercept computes the change for one pending context resolution. It has no
// side effects; a non-matching request yields the zero Patch.
func (p *Plugin) Intercept(req bundler.ContextRequest) bundler.Patch {
	if !p.Matches(req.Context) {
		return bundler.Patch{}
	}

	var nonCritical []int
	for i, edge := range req.Dependencies {
		if edge.Critical {
			nonCritical = append(nonCritical, i)
		}
	}

	return bundler.Patch{
		ResolveDependencies: p.resolveDependencies,
		NonCritical:         nonCritical,
	}
}

// Dependencies returns the static members, each used as both request and
// user request.
func (p *Plugin) Dependencies() []bundler.ElementDependency {
	deps := make([]bundler.ElementDependency, 0, len(p.dependencies))
	for _, sd := range p.dependencies {
		deps = append(deps, bundler.NewElementDependency(sd, sd))
	}
	return deps
}

func (p *Plugin) resolveDependencies(_ fs.FS, _ bundler.ResolveOptions, callback bundler.ResolveCallback) {
	callback(nil, p.Dependencies())
}
