package initcmd

import (
	"cmp"
	"path/filepath"
	"slices"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
	"github.com/LegacyCodeHQ/ctxmap/contextmap"
	"github.com/charmbracelet/log"
)

// freezeContexts turns every scanned context of comp into a static override
// keyed by its root-relative directory. Contexts that share a directory are
// merged, keeping the first occurrence of each member.
//
// Overrides are ordered by suffix length so that when one suffix ends another
// ("locales" and "src/locales") the longer one is registered later and wins
// for the directories it names.
func freezeContexts(comp *bundler.Compilation, root string, logger *log.Logger) []contextmap.Config {
	var frozen []contextmap.Config
	index := make(map[string]int)

	for _, m := range comp.Contexts {
		if m.Dir == "." {
			// a suffix of "." would match unrelated directories
			logger.Warn("skipping context at project root", "context", m.Identifier())
			continue
		}

		i, ok := index[m.Dir]
		if !ok {
			i = len(frozen)
			index[m.Dir] = i
			frozen = append(frozen, contextmap.Config{ContextSuffix: m.Dir})
		}
		for _, el := range m.Elements {
			if !slices.Contains(frozen[i].StaticDependencies, el.Request) {
				frozen[i].StaticDependencies = append(frozen[i].StaticDependencies, el.Request)
			}
		}
	}

	slices.SortStableFunc(frozen, func(a, b contextmap.Config) int {
		return cmp.Compare(len(a.ContextSuffix), len(b.ContextSuffix))
	})
	warnShadowed(frozen, root, logger)
	return frozen
}

// warnShadowed logs every override whose own directory is claimed by a
// later one, since the last matching override decides the members.
func warnShadowed(frozen []contextmap.Config, root string, logger *log.Logger) {
	plugins := make([]*contextmap.Plugin, len(frozen))
	for i, cfg := range frozen {
		p, err := contextmap.New(cfg)
		if err != nil {
			continue
		}
		plugins[i] = p
	}

	for i, cfg := range frozen {
		dir := filepath.Join(root, filepath.FromSlash(cfg.ContextSuffix))
		for j := len(plugins) - 1; j > i; j-- {
			if plugins[j] != nil && plugins[j].Matches(dir) {
				logger.Warn("frozen context is shadowed by a longer suffix",
					"suffix", cfg.ContextSuffix, "by", frozen[j].ContextSuffix)
				break
			}
		}
	}
}
