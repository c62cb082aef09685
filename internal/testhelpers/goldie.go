// Package testhelpers holds shared fixtures for golden-file tests.
package testhelpers

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// DotGoldie returns a goldie instance for Graphviz output.
func DotGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".gold.dot"),
	)
}

// JSONGoldie returns a goldie instance for JSON output.
func JSONGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".gold.json"),
	)
}
