// Package initcmd writes a starter .ctxmap.yaml for a project.
package initcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
	"github.com/LegacyCodeHQ/ctxmap/cmd/project"
	"github.com/LegacyCodeHQ/ctxmap/config"
	"github.com/spf13/cobra"
)

type initOptions struct {
	root   string
	freeze bool
	force  bool
	quiet  bool
}

// NewCommand returns a new init command instance.
func NewCommand() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init [entries...]",
		Short: "Create a " + config.DefaultFileName + " for a project",
		Long: `Create a ` + config.DefaultFileName + ` in the project root listing the given entries.

With --freeze the project is compiled first and every directory-style import it
contains is written as a static context override listing the files the import
resolves to today. Later compilations then keep that member list even when new
files appear in the directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.root, "root", "C", ".", "Project root directory")
	cmd.Flags().BoolVar(&opts.freeze, "freeze", false, "Record the members of every context found from the entries")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration file")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress output")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions, args []string) error {
	absRoot, err := filepath.Abs(opts.root)
	if err != nil {
		return fmt.Errorf("failed to resolve root %s: %w", opts.root, err)
	}

	path := filepath.Join(absRoot, config.DefaultFileName)
	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	file := config.File{Entries: args}
	if opts.freeze {
		if len(args) == 0 {
			return fmt.Errorf("--freeze needs at least one entry")
		}

		logger := project.NewLogger(cmd.ErrOrStderr(), false)
		compiler, err := bundler.New(absRoot, bundler.WithLogger(logger))
		if err != nil {
			return err
		}
		comp, err := compiler.Compile(cmd.Context(), args)
		if err != nil {
			return fmt.Errorf("failed to compile: %w", err)
		}
		if err := comp.Err(); err != nil {
			return fmt.Errorf("refusing to freeze a project with compilation errors: %w", err)
		}
		file.Contexts = freezeContexts(comp, absRoot, logger)
	}

	data, err := file.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if !opts.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d entries, %d contexts)\n", path, len(file.Entries), len(file.Contexts))
	}
	return nil
}
