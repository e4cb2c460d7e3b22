package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rsned/industry-planner/pkg/industry"
)

func newCalcCmd(a *app) *cobra.Command {
	var (
		category string
		byKey    bool
		runs     int
		bom      bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "calc <name>",
		Short: "Calculate material requirements for a blueprint",
		Long: `Calculate the materials and production time for a number of runs, using the
configured material and time efficiency of the blueprint.

With --bom, capital ship components are expanded into their raw materials
through each component blueprint's own material efficiency.

Examples:
  industry-planner calc Rifter --runs 10
  industry-planner calc naglfar --key --bom
  industry-planner calc "Coolant" --category pi --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategoryFlag(category)
			if err != nil {
				return err
			}
			ref := industry.EntryRef{Category: cat, Name: args[0]}
			if byKey {
				ref = industry.EntryRef{Category: cat, Key: args[0]}
			}

			eng, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if bom {
				resp, err := eng.BillOfMaterials(cmd.Context(), industry.BillOfMaterialsRequest{EntryRef: ref, Runs: runs})
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, resp)
				}
				if !resp.Found {
					return notFound(out, args[0], resp.Suggestions)
				}

				writeTitle(out, "%s x%d", describeEntry(resp.Entry), resp.Runs)
				writeMaterials(out, resp.RawMaterials)
				if len(resp.Intermediates) > 0 {
					rows := make([][]string, 0, len(resp.Intermediates))
					for _, it := range resp.Intermediates {
						rows = append(rows, []string{it.Component, strconv.Itoa(it.Quantity), strconv.Itoa(it.ME)})
					}
					writeTitle(out, "Components")
					writeTable(out, []string{"Component", "Quantity", "ME"}, rows)
				}
				_, _ = fmt.Fprintf(out, "Production time: %s\n", resp.ProductionTime)
				return nil
			}

			resp, err := eng.Calculate(cmd.Context(), industry.CalculateRequest{EntryRef: ref, Runs: runs})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, resp)
			}
			if !resp.Found {
				return notFound(out, args[0], resp.Suggestions)
			}

			writeTitle(out, "%s x%d", describeEntry(resp.Entry), resp.Runs)
			writeMaterials(out, resp.Total)
			_, _ = fmt.Fprintf(out, "Production time: %s\n", resp.ProductionTime)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&category, "category", "", "restrict the lookup to one category")
	f.BoolVar(&byKey, "key", false, "treat the argument as an internal key")
	f.IntVarP(&runs, "runs", "r", 1, "number of runs")
	f.BoolVar(&bom, "bom", false, "expand capital ship components into raw materials")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newUsesCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "uses <material>",
		Short: "List blueprints that consume a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := eng.MaterialUses(cmd.Context(), industry.MaterialUsesRequest{Material: args[0]})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, resp)
			}
			if len(resp.UsedIn) == 0 {
				_, _ = fmt.Fprintf(out, "Nothing uses %s\n", resp.Material)
				return nil
			}

			rows := make([][]string, 0, len(resp.UsedIn))
			for _, u := range resp.UsedIn {
				rows = append(rows, []string{
					u.Entry.DisplayName,
					string(u.Entry.Category),
					u.Component,
					strconv.Itoa(u.Quantity),
				})
			}
			writeTitle(out, "%s: %d total", resp.Material, resp.TotalUses)
			writeTable(out, []string{"Blueprint", "Category", "Via component", "Quantity"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
