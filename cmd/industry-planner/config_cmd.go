package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rsned/industry-planner/internal/industry/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(config.DataDir(), "config.yaml")
			if len(args) == 1 {
				path = config.ExpandPath(args[0])
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			used := a.v.ConfigFileUsed()
			if used == "" {
				used = "(none)"
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "config: %s\n", used)
			_, _ = fmt.Fprintf(out, "db: %s\n", a.cfg.DB)
			_, _ = fmt.Fprintf(out, "blueprints: %s\n", a.cfg.Blueprints)
			_, _ = fmt.Fprintf(out, "catalog: %s\n", a.cfg.Catalog)
			_, _ = fmt.Fprintf(out, "debug: %t\n", a.cfg.Debug)
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
