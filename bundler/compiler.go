package bundler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/LegacyCodeHQ/ctxmap/languages/javascript"
	"github.com/charmbracelet/log"
	"github.com/dominikbraun/graph"
)

// Plugin extends a Compiler. Apply is called exactly once, while the compiler
// is being constructed.
type Plugin interface {
	Apply(c *Compiler)
}

// CompilerHooks are the events a Compiler exposes to plugins.
type CompilerHooks struct {
	// ContextModuleFactory fires right after a compilation creates its factory.
	ContextModuleFactory SyncHook[*ContextModuleFactory]
}

// Compiler builds the module graph of a JavaScript project rooted at a directory.
type Compiler struct {
	Hooks CompilerHooks

	root    string
	fsys    fs.FS
	logger  *log.Logger
	plugins []Plugin
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithFS reads sources from fsys instead of the root directory on disk.
func WithFS(fsys fs.FS) Option {
	return func(c *Compiler) {
		c.fsys = fsys
	}
}

// WithLogger sets the logger used by the compiler and its factories.
func WithLogger(logger *log.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithPlugins registers plugins, applied in order.
func WithPlugins(plugins ...Plugin) Option {
	return func(c *Compiler) {
		c.plugins = append(c.plugins, plugins...)
	}
}

// New creates a compiler for the project at root.
func New(root string, opts ...Option) (*Compiler, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	c := &Compiler{root: absRoot}
	for _, opt := range opts {
		opt(c)
	}
	if c.fsys == nil {
		c.fsys = os.DirFS(absRoot)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}

	for _, p := range c.plugins {
		p.Apply(c)
	}

	return c, nil
}

// Root returns the absolute project root.
func (c *Compiler) Root() string {
	return c.root
}

// Logger returns the compiler's logger.
func (c *Compiler) Logger() *log.Logger {
	return c.logger
}

func (c *Compiler) newContextModuleFactory() *ContextModuleFactory {
	factory := newContextModuleFactory(c.root, c.fsys, c.logger)
	c.Hooks.ContextModuleFactory.Call(factory)
	return factory
}

// Compile walks the module graph from entries. Missing modules and failed
// context resolutions are collected on the compilation rather than returned;
// the returned error is reserved for cancellation and invalid entries.
func (c *Compiler) Compile(ctx context.Context, entries []string) (*Compilation, error) {
	factory := c.newContextModuleFactory()
	comp := newCompilation()

	var queue []string
	for _, entry := range entries {
		rel, err := c.relativePath(entry)
		if err != nil {
			return nil, err
		}
		queue = append(queue, rel)
	}
	comp.Entries = append([]string(nil), queue...)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return comp, err
		}

		modulePath := queue[0]
		queue = queue[1:]
		if comp.hasModule(modulePath) {
			continue
		}
		if !c.exists(modulePath) {
			comp.addError(&ModuleNotFoundError{Request: modulePath})
			continue
		}

		comp.addModule(modulePath)
		if !javascript.IsJavaScriptFile(modulePath) {
			continue
		}

		deps, err := c.buildModule(ctx, factory, comp, modulePath)
		if err != nil {
			return comp, err
		}
		queue = append(queue, deps...)
	}

	c.logger.Debug("compilation finished",
		"modules", len(comp.modules),
		"contexts", len(comp.Contexts),
		"errors", len(comp.Errors),
		"warnings", len(comp.Warnings))

	return comp, nil
}

// buildModule parses one JavaScript module and returns the modules it pulls in.
func (c *Compiler) buildModule(ctx context.Context, factory *ContextModuleFactory, comp *Compilation, modulePath string) ([]string, error) {
	source, err := fs.ReadFile(c.fsys, modulePath)
	if err != nil {
		comp.addError(fmt.Errorf("failed to read %s: %w", modulePath, err))
		return nil, nil
	}

	var deps []string

	imports, err := javascript.ParseJavaScriptImports(source)
	if err != nil {
		comp.addError(fmt.Errorf("failed to parse %s: %w", modulePath, err))
		return nil, nil
	}
	for _, imp := range imports {
		if _, ok := imp.(javascript.InternalImport); !ok {
			continue
		}
		resolved := javascript.ResolveJavaScriptImportPath(modulePath, imp.Path(), c.exists)
		if len(resolved) == 0 {
			comp.addError(&ModuleNotFoundError{Request: imp.Path(), Issuer: modulePath})
			continue
		}
		comp.addEdge(modulePath, resolved[0])
		deps = append(deps, resolved[0])
	}

	contextImports, err := javascript.ParseJavaScriptContextImports(source)
	if err != nil {
		comp.addError(fmt.Errorf("failed to parse %s: %w", modulePath, err))
		return deps, nil
	}
	for _, req := range c.groupContextRequests(modulePath, contextImports, comp) {
		members, err := c.buildContextModule(ctx, factory, comp, modulePath, req)
		if err != nil {
			return deps, err
		}
		deps = append(deps, members...)
	}

	return deps, nil
}

// groupContextRequests folds the context imports of one module that target
// the same directory, mode and pattern into a single request.
func (c *Compiler) groupContextRequests(modulePath string, imports []javascript.ContextImport, comp *Compilation) []ContextRequest {
	type key struct {
		dir       string
		recursive bool
		pattern   string
	}

	var order []key
	requests := make(map[key]*ContextRequest)

	for _, ci := range imports {
		re, err := regexp.Compile(ci.Pattern)
		if err != nil {
			comp.addError(fmt.Errorf("invalid context pattern %q in %s: %w", ci.Pattern, modulePath, err))
			continue
		}

		dir := path.Join(path.Dir(modulePath), ci.Directory)
		k := key{dir: dir, recursive: ci.Recursive, pattern: ci.Pattern}
		req, ok := requests[k]
		if !ok {
			req = &ContextRequest{
				Context:   filepath.Join(c.root, filepath.FromSlash(dir)),
				Request:   ci.Directory,
				Recursive: ci.Recursive,
				RegExp:    re,
			}
			requests[k] = req
			order = append(order, k)
		}
		req.Dependencies = append(req.Dependencies, DependencyEdge{
			Request:  ci.Request,
			Critical: ci.Dynamic,
			Issuer:   modulePath,
		})
	}

	grouped := make([]ContextRequest, 0, len(order))
	for _, k := range order {
		grouped = append(grouped, *requests[k])
	}
	return grouped
}

func (c *Compiler) buildContextModule(ctx context.Context, factory *ContextModuleFactory, comp *Compilation, modulePath string, req ContextRequest) ([]string, error) {
	module, err := factory.Resolve(ctx, req)
	if errors.Is(err, ErrResolveCanceled) {
		return nil, err
	}
	if err != nil {
		comp.addError(err)
		if module == nil {
			return nil, nil
		}
	}

	comp.Contexts = append(comp.Contexts, module)
	id := module.Identifier()
	comp.addContext(id)
	comp.addEdge(modulePath, id)

	for _, edge := range module.Dependencies {
		if edge.Critical {
			comp.addWarning(&CriticalDependencyWarning{Request: edge.Request, Issuer: edge.Issuer})
		}
	}

	var members []string
	for _, element := range module.Elements {
		resolved := javascript.ResolveFromDir(module.Dir, element.Request, c.exists)
		if len(resolved) == 0 {
			comp.addError(&ModuleNotFoundError{Request: element.UserRequest, Issuer: id})
			continue
		}
		comp.addEdge(id, resolved[0])
		members = append(members, resolved[0])
	}
	return members, nil
}

func (c *Compiler) exists(p string) bool {
	info, err := fs.Stat(c.fsys, p)
	return err == nil && !info.IsDir()
}

// relativePath maps an entry (absolute or root-relative) to a slash path inside the root.
func (c *Compiler) relativePath(entry string) (string, error) {
	p := entry
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(c.root, p)
		if err != nil {
			return "", fmt.Errorf("failed to resolve entry %s: %w", entry, err)
		}
		p = rel
	}
	p = path.Clean(filepath.ToSlash(p))
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("entry %s is outside of %s", entry, c.root)
	}
	return p, nil
}

// Compilation is the result of one Compile call.
type Compilation struct {
	// Entries are the root-relative entry paths compilation started from.
	Entries  []string
	Graph    graph.Graph[string, string]
	Contexts []*ContextModule
	Errors   []error
	Warnings []error

	modules map[string]bool
}

func newCompilation() *Compilation {
	return &Compilation{
		Graph:   graph.New(graph.StringHash, graph.Directed()),
		modules: make(map[string]bool),
	}
}

// Err joins every compilation error, or returns nil.
func (c *Compilation) Err() error {
	return errors.Join(c.Errors...)
}

// Modules returns the sorted paths of all modules reached.
func (c *Compilation) Modules() []string {
	modules := make([]string, 0, len(c.modules))
	for m := range c.modules {
		modules = append(modules, m)
	}
	slices.Sort(modules)
	return modules
}

// AdjacencyList flattens the graph into module -> dependencies.
func (c *Compilation) AdjacencyList() (map[string][]string, error) {
	adjacency, err := c.Graph.AdjacencyMap()
	if err != nil {
		return nil, err
	}

	list := make(map[string][]string, len(adjacency))
	for source, targets := range adjacency {
		deps := make([]string, 0, len(targets))
		for target := range targets {
			deps = append(deps, target)
		}
		slices.Sort(deps)
		list[source] = deps
	}
	return list, nil
}

// PathTo returns the shortest chain of graph vertices from the first entry
// that reaches target. Context modules appear in the chain by identifier.
func (c *Compilation) PathTo(target string) ([]string, error) {
	if _, err := c.Graph.Vertex(target); err != nil {
		return nil, fmt.Errorf("%s is not part of the compilation: %w", target, err)
	}

	for _, entry := range c.Entries {
		if !c.modules[entry] {
			continue
		}
		if entry == target {
			return []string{entry}, nil
		}
		chain, err := graph.ShortestPath(c.Graph, entry, target)
		if errors.Is(err, graph.ErrTargetNotReachable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return chain, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotReachable, target)
}

func (c *Compilation) hasModule(p string) bool {
	return c.modules[p]
}

func (c *Compilation) addModule(p string) {
	c.modules[p] = true
	c.addVertex(p)
}

func (c *Compilation) addContext(id string) {
	c.addVertex(id)
}

func (c *Compilation) addVertex(v string) {
	if err := c.Graph.AddVertex(v); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		c.addError(err)
	}
}

func (c *Compilation) addEdge(from, to string) {
	c.addVertex(to)
	if err := c.Graph.AddEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		c.addError(err)
	}
}

func (c *Compilation) addError(err error) {
	c.Errors = append(c.Errors, err)
}

func (c *Compilation) addWarning(err error) {
	c.Warnings = append(c.Warnings, err)
}
