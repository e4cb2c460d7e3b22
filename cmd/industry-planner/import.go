package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rsned/industry-planner/internal/industry/sync"
	"github.com/rsned/industry-planner/pkg/industry"
)

func newImportCmd(a *app) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import catalog records from a JSON or YAML file",
		Long: `Import catalog records into the database. The file is either a flat list of
records carrying a category, or an object with ships, capital_ships,
components and pi_materials sections.

Records are upserted by category and key. Use --replace to drop the existing
catalog first.

Examples:
  industry-planner import catalog.yaml
  industry-planner import --replace export.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			a.logger.Info("importing catalog", "file", args[0], "replace", replace)
			stats, err := sync.NewSyncer(database, a.logger).ImportCatalogFromFile(ctx, args[0], replace)
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records (%d skipped) from %s\n",
				stats.Imported, stats.Skipped, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "drop the existing catalog before importing")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalog database status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			schemaVersion, dirty, err := database.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			st, err := sync.NewSyncer(database, a.logger).Status(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			writeTitle(out, "Catalog %s", a.cfg.DB)
			_, _ = fmt.Fprintf(out, "Schema version: %d (dirty: %s)\n", schemaVersion, yesNo(dirty))
			if st.LastSync == "" {
				_, _ = fmt.Fprintln(out, "Last import: never")
			} else {
				_, _ = fmt.Fprintf(out, "Last import: %s from %s\n", st.LastSync, st.Source)
			}
			_, _ = fmt.Fprintf(out, "Blueprints: %s\n", a.cfg.Blueprints)

			cats := make([]industry.Category, 0, len(st.Counts))
			for c := range st.Counts {
				cats = append(cats, c)
			}
			sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

			rows := make([][]string, 0, len(cats))
			for _, c := range cats {
				rows = append(rows, []string{string(c), strconv.Itoa(st.Counts[c])})
			}
			writeTable(out, []string{"Category", "Entries"}, rows)
			return nil
		},
	}
}
