// Package cmd assembles the ctxmap command line.
package cmd

import (
	"os"

	"github.com/LegacyCodeHQ/ctxmap/cmd/contexts"
	"github.com/LegacyCodeHQ/ctxmap/cmd/graph"
	initcmd "github.com/LegacyCodeHQ/ctxmap/cmd/init"
	"github.com/LegacyCodeHQ/ctxmap/cmd/watch"
	"github.com/LegacyCodeHQ/ctxmap/cmd/why"
	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// NewRootCommand returns the ctxmap command with every subcommand registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ctxmap",
		Short: "Resolve directory-style JavaScript imports to fixed member lists",
		Long: `ctxmap compiles a JavaScript project, discovers its directory-style imports
(require.context and require calls built from expressions) and resolves them
either by scanning the directory or, for contexts configured in .ctxmap.yaml,
to a fixed list of members.

Use 'ctxmap --help' to see all available commands, or 'ctxmap <command> --help'
for detailed information about a specific command.`,
		Version:      version,
		SilenceUsage: true,
		Annotations:  map[string]string{"buildDate": buildDate, "commit": commit},
	}

	rootCmd.AddCommand(graph.NewCommand())
	rootCmd.AddCommand(contexts.NewCommand())
	rootCmd.AddCommand(watch.NewCommand())
	rootCmd.AddCommand(why.NewCommand())
	rootCmd.AddCommand(initcmd.NewCommand())

	// Customize version template to show additional build info
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
