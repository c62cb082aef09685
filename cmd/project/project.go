// Package project wires configuration, logging and plugins into a compiler
// for the CLI subcommands.
package project

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
	"github.com/LegacyCodeHQ/ctxmap/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Options are the flags shared by every subcommand.
type Options struct {
	Root       string
	ConfigPath string
	Verbose    bool
}

// BindFlags registers the shared flags on cmd.
func BindFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Root, "root", "C", ".", "Project root directory")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Configuration file, relative to the root (default: <root>/"+config.DefaultFileName+")")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
}

// Project is a configured compiler plus the entries to build.
type Project struct {
	Compiler *bundler.Compiler
	Config   config.File
	Logger   *log.Logger
}

// NewLogger returns the CLI logger writing to w.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "ctxmap",
		Level:  level,
	})
}

// Open loads the configuration for opts and builds the compiler.
func Open(opts Options, logOutput io.Writer) (*Project, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	cfg, err := config.Load(absRoot, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	plugins, err := cfg.Plugins()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(logOutput, opts.Verbose)
	logger.Debug("configuration loaded", "root", absRoot, "contexts", len(cfg.Contexts), "entries", len(cfg.Entries))

	compiler, err := bundler.New(absRoot, bundler.WithLogger(logger), bundler.WithPlugins(plugins...))
	if err != nil {
		return nil, err
	}

	return &Project{Compiler: compiler, Config: cfg, Logger: logger}, nil
}

// Entries returns args when given, otherwise the configured entries.
func (p *Project) Entries(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(p.Config.Entries) == 0 {
		return nil, fmt.Errorf("no entries given and none configured in %s", config.DefaultFileName)
	}
	return p.Config.Entries, nil
}

// Compile builds the project from entries and logs its diagnostics.
func (p *Project) Compile(ctx context.Context, args []string) (*bundler.Compilation, error) {
	entries, err := p.Entries(args)
	if err != nil {
		return nil, err
	}

	comp, err := p.Compiler.Compile(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	for _, warning := range comp.Warnings {
		p.Logger.Warn(warning.Error())
	}
	for _, compErr := range comp.Errors {
		p.Logger.Error(compErr.Error())
	}
	return comp, nil
}
