package graph

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/LegacyCodeHQ/ctxmap/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/ctxmap/cmd/project"
	"github.com/spf13/cobra"
)

// ErrCompilationFailed is returned when the compilation recorded errors and
// --fail-on-error is set.
var ErrCompilationFailed = errors.New("compilation finished with errors")

type graphOptions struct {
	project     project.Options
	format      string
	label       string
	failOnError bool
}

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{
		format:      formatters.OutputFormatDOT.String(),
		failOnError: true,
	}

	cmd := &cobra.Command{
		Use:   "graph [entries...]",
		Short: "Compile a project and print its module graph",
		Long: `Compile a JavaScript project from its entry modules and print the module graph,
including directory-style imports and the members they resolved to.

Entries are relative to the project root. Without arguments the entries listed
in .ctxmap.yaml are used.

Examples:
  ctxmap graph src/index.js
  ctxmap graph -C ./app -f json
  ctxmap graph --config ctxmap.prod.yaml src/main.js`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, opts, args)
		},
	}

	project.BindFlags(cmd, &opts.project)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().StringVarP(&opts.label, "label", "l", "", "Graph label for DOT output (default: project directory name)")
	cmd.Flags().BoolVar(&opts.failOnError, "fail-on-error", opts.failOnError, "Exit non-zero when the compilation records errors")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOptions, args []string) error {
	formatter, err := NewFormatter(opts.format)
	if err != nil {
		return err
	}

	p, err := project.Open(opts.project, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	comp, err := p.Compile(cmd.Context(), args)
	if err != nil {
		return err
	}

	label := opts.label
	if label == "" {
		label = filepath.Base(p.Compiler.Root())
	}

	output, err := formatter.Format(comp, formatters.FormatOptions{Label: label})
	if err != nil {
		return fmt.Errorf("failed to format graph: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)

	if opts.failOnError && len(comp.Errors) > 0 {
		return fmt.Errorf("%w: %d error(s)", ErrCompilationFailed, len(comp.Errors))
	}
	return nil
}
