package watch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/LegacyCodeHQ/ctxmap/cmd/graph"
	"github.com/LegacyCodeHQ/ctxmap/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/ctxmap/cmd/project"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	project project.Options
	format  string
	port    int
}

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{
		format: formatters.OutputFormatDOT.String(),
	}

	cmd := &cobra.Command{
		Use:   "watch [entries...]",
		Short: "Recompile the project whenever its files change",
		Long: `Watch the project root for file changes, recompile after each burst of changes
and print the module graph. With --port the graph is also served as a live
visualization at localhost.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, args)
		},
	}

	project.BindFlags(cmd, &opts.project)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().IntVarP(&opts.port, "port", "P", 0, "Serve a live graph viewer on this port (0 disables)")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions, args []string) error {
	formatter, err := graph.NewFormatter(opts.format)
	if err != nil {
		return err
	}

	root := opts.project.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := project.NewLogger(cmd.ErrOrStderr(), opts.project.Verbose)
	b := newBroker()
	r := &rebuilder{
		opts:      opts.project,
		args:      args,
		formatter: formatter,
		out:       cmd.OutOrStdout(),
		logOut:    cmd.ErrOrStderr(),
		broker:    b,
	}

	if err := r.rebuild(ctx); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	if opts.port > 0 {
		srv, err := serve(ctx, b, opts.port, logger)
		if err != nil {
			return err
		}
		defer srv.Close()
		logger.Info("serving live graph", "url", fmt.Sprintf("http://localhost:%d", opts.port))
	}

	logger.Info("watching", "root", absRoot)
	return watchAndRebuild(ctx, absRoot, r, logger)
}

func serve(ctx context.Context, b *broker, port int, logger *log.Logger) (*http.Server, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	srv := newServer(b)
	go serveOn(srv, ln, logger)
	return srv, nil
}

// serveOn runs srv until it is closed. Any other reason for stopping is
// logged, since the watch loop keeps running without the viewer.
func serveOn(srv *http.Server, ln net.Listener, logger *log.Logger) {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("live graph server stopped", "err", err)
	}
}
