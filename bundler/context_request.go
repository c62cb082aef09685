package bundler

import (
	"io/fs"
	"regexp"
	"slices"
)

// DependencyEdge is a call site that asked for a context. Critical edges make
// the host report a warning because the request could not be determined
// statically.
type DependencyEdge struct {
	Request  string
	Critical bool
	Issuer   string
}

// ElementDependency is one member of a resolved context.
type ElementDependency struct {
	Request     string
	UserRequest string
}

// NewElementDependency builds the descriptor for one context member.
func NewElementDependency(request, userRequest string) ElementDependency {
	return ElementDependency{Request: request, UserRequest: userRequest}
}

// ContextRequest describes a pending directory-style import. Context is the
// absolute path of the directory being resolved.
type ContextRequest struct {
	Context      string
	Request      string
	Recursive    bool
	RegExp       *regexp.Regexp
	Dependencies []DependencyEdge
}

func (r ContextRequest) clone() ContextRequest {
	r.Dependencies = slices.Clone(r.Dependencies)
	return r
}

// ResolveOptions are handed to a ResolveDependenciesFunc. Dir is the
// slash-separated directory relative to the root of the file system.
type ResolveOptions struct {
	Root      string
	Dir       string
	Recursive bool
	RegExp    *regexp.Regexp
}

// ResolveCallback receives the outcome of a context resolution. A nil err
// signals success.
type ResolveCallback func(err error, deps []ElementDependency)

// ResolveDependenciesFunc enumerates the members of a context. Implementations
// must invoke callback exactly once.
type ResolveDependenciesFunc func(fsys fs.FS, opts ResolveOptions, callback ResolveCallback)

// Patch is what a beforeResolve tap asks the host to change.
type Patch struct {
	// ResolveDependencies replaces the host's resolution when non-nil.
	ResolveDependencies ResolveDependenciesFunc
	// NonCritical lists indices into ContextRequest.Dependencies whose
	// Critical flag must be cleared.
	NonCritical []int
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.ResolveDependencies == nil && len(p.NonCritical) == 0
}

// applyPatches returns the resolve function and edges that result from
// applying patches in order. The input edges are never modified.
func applyPatches(
	resolve ResolveDependenciesFunc,
	edges []DependencyEdge,
	patches []Patch,
) (ResolveDependenciesFunc, []DependencyEdge, bool) {
	patched := slices.Clone(edges)
	overridden := false

	for _, p := range patches {
		if p.ResolveDependencies != nil {
			resolve = p.ResolveDependencies
			overridden = true
		}
		for _, idx := range p.NonCritical {
			if idx < 0 || idx >= len(patched) {
				continue
			}
			patched[idx].Critical = false
		}
	}

	return resolve, patched, overridden
}
