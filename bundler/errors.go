package bundler

import (
	"errors"
	"fmt"
)

// ErrResolveCanceled is returned when the build is canceled while a context
// resolution is still waiting for its callback.
var ErrResolveCanceled = errors.New("context resolution canceled")

// ErrNotReachable is returned by Compilation.PathTo when no entry leads to
// the requested module.
var ErrNotReachable = errors.New("not reachable from any entry")

// ModuleNotFoundError reports a request that does not match any file.
type ModuleNotFoundError struct {
	Request string
	Issuer  string
}

func (e *ModuleNotFoundError) Error() string {
	if e.Issuer == "" {
		return fmt.Sprintf("module not found: can't resolve '%s'", e.Request)
	}
	return fmt.Sprintf("module not found: can't resolve '%s' in '%s'", e.Request, e.Issuer)
}

// CriticalDependencyWarning reports a context edge whose request is an
// expression the host could not evaluate.
type CriticalDependencyWarning struct {
	Request string
	Issuer  string
}

func (w *CriticalDependencyWarning) Error() string {
	return fmt.Sprintf("critical dependency: the request of a dependency is an expression (%s in %s)", w.Request, w.Issuer)
}
