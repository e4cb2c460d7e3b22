package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rsned/industry-planner/internal/industry/engine"
	"github.com/rsned/industry-planner/internal/industry/mcp"
	"github.com/rsned/industry-planner/internal/industry/watcher"
)

func newServeCmd(a *app, version string) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Run the Model Context Protocol server, reading newline-delimited JSON-RPC
requests from stdin and writing responses to stdout. Logs go to stderr.

An empty catalog database is seeded from the configured catalog file, or the
built-in sample catalog when none is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Create context with signal handling
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					a.logger.Info("shutting down...")
					cancel()
				case <-ctx.Done():
				}
			}()

			eng, err := a.openEngine(ctx)
			if err != nil {
				return err
			}

			if watch {
				stop, err := a.watchBlueprints(ctx, eng)
				if err != nil {
					return err
				}
				defer stop()
			}

			server := mcp.NewServer(eng, version, a.logger)

			a.logger.Info("starting MCP server", "db", a.cfg.DB, "blueprints", a.cfg.Blueprints)
			if err := server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && ctx.Err() == nil {
				return fmt.Errorf("server error: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", true,
		"reload the blueprint configuration when the file changes on disk")
	return cmd
}

// watchBlueprints reloads the engine whenever the blueprint file changes.
func (a *app) watchBlueprints(ctx context.Context, eng *engine.Engine) (func(), error) {
	w, err := watcher.New(a.cfg.Blueprints, watcher.DefaultDebounce, a.logger)
	if err != nil {
		return nil, err
	}
	onChange, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return nil, err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-onChange:
				if !ok {
					return
				}
				stats := eng.Reload()
				a.logger.Info("blueprint configuration reloaded",
					"applied", stats.Applied,
					"components", stats.Components,
					"unmatched", stats.Unmatched)
			}
		}
	}()

	return func() { _ = w.Stop() }, nil
}
