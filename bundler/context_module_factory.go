package bundler

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// ContextModuleFactoryHooks are the events a ContextModuleFactory exposes.
type ContextModuleFactoryHooks struct {
	BeforeResolve PatchHook
}

// ContextModuleFactory turns context requests into resolved context modules.
type ContextModuleFactory struct {
	Hooks ContextModuleFactoryHooks

	root    string
	fsys    fs.FS
	logger  *log.Logger
	resolve ResolveDependenciesFunc
}

// ContextModule is the outcome of one context resolution.
type ContextModule struct {
	// Dir is the slash-separated directory relative to the compiler root.
	Dir          string
	Request      string
	Recursive    bool
	Pattern      string
	Dependencies []DependencyEdge
	Elements     []ElementDependency
	// Overridden is set when a beforeResolve tap replaced the resolution.
	Overridden bool
}

// Identifier names the context module in the compilation graph.
func (m *ContextModule) Identifier() string {
	mode := "sync"
	if !m.Recursive {
		mode = "sync nonrecursive"
	}
	return fmt.Sprintf("%s %s %s", m.Dir, mode, m.Pattern)
}

func newContextModuleFactory(root string, fsys fs.FS, logger *log.Logger) *ContextModuleFactory {
	return &ContextModuleFactory{
		root:    root,
		fsys:    fsys,
		logger:  logger,
		resolve: ResolveFromFS,
	}
}

// Resolve runs the beforeResolve taps for req, applies their patches and
// enumerates the context members. It blocks until the resolve function calls
// back or ctx is done.
func (f *ContextModuleFactory) Resolve(ctx context.Context, req ContextRequest) (*ContextModule, error) {
	patches := f.Hooks.BeforeResolve.Call(req)
	resolve, edges, overridden := applyPatches(f.resolve, req.Dependencies, patches)

	dir, err := f.relativeDir(req.Context)
	if err != nil {
		return nil, err
	}

	opts := ResolveOptions{
		Root:      f.root,
		Dir:       dir,
		Recursive: req.Recursive,
		RegExp:    req.RegExp,
	}

	module := &ContextModule{
		Dir:          dir,
		Request:      req.Request,
		Recursive:    req.Recursive,
		Pattern:      patternSource(req),
		Dependencies: edges,
		Overridden:   overridden,
	}

	if overridden {
		f.logger.Debug("context resolution overridden", "dir", dir, "patches", len(patches))
	}

	elements, err := f.invoke(ctx, resolve, opts)
	if err != nil {
		return module, fmt.Errorf("failed to resolve context %s: %w", dir, err)
	}
	module.Elements = elements

	return module, nil
}

type resolveResult struct {
	deps []ElementDependency
	err  error
}

func (f *ContextModuleFactory) invoke(ctx context.Context, resolve ResolveDependenciesFunc, opts ResolveOptions) ([]ElementDependency, error) {
	done := make(chan resolveResult, 1)
	var once sync.Once

	go resolve(f.fsys, opts, func(err error, deps []ElementDependency) {
		delivered := false
		once.Do(func() {
			delivered = true
			done <- resolveResult{deps: slices.Clone(deps), err: err}
		})
		if !delivered {
			f.logger.Warn("resolve callback invoked more than once", "dir", opts.Dir)
		}
	})

	select {
	case r := <-done:
		return r.deps, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrResolveCanceled, ctx.Err())
	}
}

func (f *ContextModuleFactory) relativeDir(contextPath string) (string, error) {
	rel, err := filepath.Rel(f.root, contextPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve context %s: %w", contextPath, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", &ModuleNotFoundError{Request: contextPath, Issuer: f.root}
	}
	return rel, nil
}

func patternSource(req ContextRequest) string {
	if req.RegExp == nil {
		return ""
	}
	return req.RegExp.String()
}

// ResolveFromFS is the default resolution: it scans opts.Dir and reports every
// regular file whose "./<relative path>" matches opts.RegExp.
func ResolveFromFS(fsys fs.FS, opts ResolveOptions, callback ResolveCallback) {
	var deps []ElementDependency

	err := fs.WalkDir(fsys, opts.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == opts.Dir {
				return nil
			}
			if !opts.Recursive || d.Name() == "node_modules" {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		request := "./" + relativeTo(opts.Dir, p)
		if opts.RegExp != nil && !opts.RegExp.MatchString(request) {
			return nil
		}
		deps = append(deps, NewElementDependency(request, request))
		return nil
	})
	if err != nil {
		callback(fmt.Errorf("failed to scan %s: %w", opts.Dir, err), nil)
		return
	}

	slices.SortFunc(deps, func(a, b ElementDependency) int {
		return strings.Compare(a.Request, b.Request)
	})
	callback(nil, deps)
}

func relativeTo(dir, p string) string {
	if dir == "." {
		return p
	}
	return strings.TrimPrefix(p, path.Clean(dir)+"/")
}
