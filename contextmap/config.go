package contextmap

import (
	"errors"
	"fmt"
)

// ErrEmptyContextSuffix is returned for a configuration without a context suffix.
var ErrEmptyContextSuffix = errors.New("contextmap: context suffix is empty")

// DuplicateDependencyError reports a static dependency listed more than once.
type DuplicateDependencyError struct {
	Dependency string
}

func (e *DuplicateDependencyError) Error() string {
	return fmt.Sprintf("contextmap: static dependency %q is listed more than once", e.Dependency)
}

// Config selects the contexts a Plugin governs and the members it substitutes.
type Config struct {
	// ContextSuffix is matched against the end of the context directory path.
	ContextSuffix string `yaml:"context"`
	// StaticDependencies are the context members, in order.
	StaticDependencies []string `yaml:"staticDependencies"`
}

// Validate rejects an empty suffix and duplicate dependencies.
func (c Config) Validate() error {
	if c.ContextSuffix == "" {
		return ErrEmptyContextSuffix
	}

	seen := make(map[string]bool, len(c.StaticDependencies))
	for _, dep := range c.StaticDependencies {
		if seen[dep] {
			return &DuplicateDependencyError{Dependency: dep}
		}
		seen[dep] = true
	}
	return nil
}
