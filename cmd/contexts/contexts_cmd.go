// Package contexts lists the directory-style imports of a compilation.
package contexts

import (
	"fmt"

	"github.com/LegacyCodeHQ/ctxmap/cmd/project"
	"github.com/spf13/cobra"
)

type contextsOptions struct {
	project      project.Options
	onlyStatic   bool
	showElements bool
}

// NewCommand returns a new contexts command instance.
func NewCommand() *cobra.Command {
	opts := &contextsOptions{showElements: true}

	cmd := &cobra.Command{
		Use:   "contexts [entries...]",
		Short: "List directory-style imports and how they were resolved",
		Long: `Compile the project and list every context module: the directory it covers,
the call sites that requested it, whether a static context override replaced the
filesystem scan, and the members it resolved to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Open(opts.project, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			comp, err := p.Compile(cmd.Context(), args)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderContexts(comp, opts))
			return nil
		},
	}

	project.BindFlags(cmd, &opts.project)
	cmd.Flags().BoolVar(&opts.onlyStatic, "static", false, "Only list contexts replaced by a static override")
	cmd.Flags().BoolVar(&opts.showElements, "elements", opts.showElements, "List the members of each context")

	return cmd
}
