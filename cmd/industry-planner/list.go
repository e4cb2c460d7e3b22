package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rsned/industry-planner/pkg/industry"
)

func newListCmd(a *app) *cobra.Command {
	var (
		req      industry.ListRequest
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blueprints with ownership and efficiency levels",
		Long: `List catalog blueprints. Without --category, ships and capital ships are
listed together.

Examples:
  industry-planner list --faction Minmatar
  industry-planner list --category pi
  industry-planner list --owned`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategoryFlag(category)
			if err != nil {
				return err
			}
			req.Category = cat

			eng, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := eng.ListBlueprints(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, resp)
			}

			rows := make([][]string, 0, len(resp.Entries))
			for _, e := range resp.Entries {
				rows = append(rows, []string{
					e.Key,
					e.DisplayName,
					string(e.Category),
					e.Faction,
					e.ShipType,
					yesNo(e.Owned),
					strconv.Itoa(e.ME),
					strconv.Itoa(e.TE),
				})
			}
			writeTable(out, []string{"Key", "Name", "Category", "Faction", "Type", "Owned", "ME", "TE"}, rows)
			_, _ = fmt.Fprintf(out, "%d blueprints\n", resp.Total)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&category, "category", "", "category to list (default: ships and capital ships)")
	f.StringVar(&req.Faction, "faction", "", "only list this faction")
	f.StringVar(&req.Type, "type", "", "only list this ship type")
	f.BoolVar(&req.OwnedOnly, "owned", false, "only list owned blueprints")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
