// Package why explains how a module ends up in a compilation.
package why

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/ctxmap/cmd/project"
	"github.com/spf13/cobra"
)

type whyOptions struct {
	project project.Options
}

// NewCommand returns a new why command instance.
func NewCommand() *cobra.Command {
	opts := &whyOptions{}

	cmd := &cobra.Command{
		Use:   "why <module> [entries...]",
		Short: "Show the import chain that pulls a module into the compilation",
		Long: `Compile the project and print the shortest chain of imports from an entry to
<module>. Directory-style imports appear in the chain as context modules, which
shows whether a file is included because a static override lists it or because
a directory scan found it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhy(cmd, opts, args[0], args[1:])
		},
	}

	project.BindFlags(cmd, &opts.project)

	return cmd
}

func runWhy(cmd *cobra.Command, opts *whyOptions, target string, entries []string) error {
	p, err := project.Open(opts.project, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	comp, err := p.Compile(cmd.Context(), entries)
	if err != nil {
		return err
	}

	target = path.Clean(filepath.ToSlash(target))
	chain, err := comp.PathTo(target)
	if err != nil {
		return err
	}

	overridden := make(map[string]bool)
	for _, m := range comp.Contexts {
		if m.Overridden {
			overridden[m.Identifier()] = true
		}
	}

	var sb strings.Builder
	for i, step := range chain {
		sb.WriteString(strings.Repeat("  ", i))
		if i > 0 {
			sb.WriteString("-> ")
		}
		sb.WriteString(step)
		if overridden[step] {
			sb.WriteString(" [static]")
		}
		sb.WriteString("\n")
	}
	fmt.Fprint(cmd.OutOrStdout(), sb.String())
	return nil
}
