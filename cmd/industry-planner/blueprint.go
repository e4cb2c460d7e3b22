package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rsned/industry-planner/pkg/industry"
)

func newBlueprintCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blueprint",
		Short: "Show or change blueprint ownership and efficiency",
	}
	cmd.AddCommand(newBlueprintShowCmd(a), newBlueprintSetCmd(a))
	return cmd
}

func newBlueprintShowCmd(a *app) *cobra.Command {
	var (
		category string
		byKey    bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one blueprint and what consumes it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategoryFlag(category)
			if err != nil {
				return err
			}
			req := industry.LookupRequest{EntryRef: industry.EntryRef{Category: cat, Name: args[0]}}
			if byKey {
				req.EntryRef = industry.EntryRef{Category: cat, Key: args[0]}
			}

			eng, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := eng.LookupBlueprint(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, resp)
			}
			if !resp.Found {
				return notFound(out, args[0], resp.Suggestions)
			}

			writeTitle(out, "%s", describeEntry(resp.Entry))
			_, _ = fmt.Fprintf(out, "Key: %s  Owned: %s  Invented: %s\n",
				resp.Entry.Key, yesNo(resp.Entry.Owned), yesNo(resp.Entry.Invented))
			if resp.Record != nil {
				writeMaterials(out, resp.Record.Requirements.Lines())
			}

			if len(resp.Components) > 0 {
				names := make([]string, 0, len(resp.Components))
				for n := range resp.Components {
					names = append(names, n)
				}
				sort.Strings(names)

				rows := make([][]string, 0, len(names))
				for _, n := range names {
					st := resp.Components[n]
					rows = append(rows, []string{n, yesNo(st.Owned), strconv.Itoa(st.ME), strconv.Itoa(st.TE)})
				}
				writeTitle(out, "Component blueprints")
				writeTable(out, []string{"Component", "Owned", "ME", "TE"}, rows)
			}

			if len(resp.UsedIn) > 0 {
				writeTitle(out, "Used in")
				for _, u := range resp.UsedIn {
					_, _ = fmt.Fprintf(out, "  %s (%s)\n", u.DisplayName, u.Category)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&category, "category", "", "restrict the lookup to one category")
	f.BoolVar(&byKey, "key", false, "treat the argument as an internal key")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newBlueprintSetCmd(a *app) *cobra.Command {
	var (
		component string
		owned     bool
		invented  bool
		me        int
		te        int
	)

	cmd := &cobra.Command{
		Use:   "set <category> <key>",
		Short: "Update a blueprint and save it",
		Long: `Update ownership, invention or efficiency levels of one blueprint. Only the
flags given are changed. ME is clamped to 0-10 and TE to 0-20.

Examples:
  industry-planner blueprint set ships rifter --owned --me 10 --te 20
  industry-planner blueprint set capital naglfar --component "Capital Armor Plates" --me 8`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, ok := industry.ParseCategory(args[0])
			if !ok {
				return fmt.Errorf("unknown category: %q", args[0])
			}
			req := industry.UpdateBlueprintRequest{Category: cat, Key: args[1], Component: component}

			f := cmd.Flags()
			if f.Changed("owned") {
				req.Owned = &owned
			}
			if f.Changed("invented") {
				req.Invented = &invented
			}
			if f.Changed("me") {
				req.ME = &me
			}
			if f.Changed("te") {
				req.TE = &te
			}

			eng, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := eng.UpdateBlueprint(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s %s: owned=%s invented=%s me=%d te=%d\n",
				resp.Category, resp.Blueprint,
				yesNo(resp.State.Owned), yesNo(resp.State.Invented), resp.State.ME, resp.State.TE)
			if !resp.Matched {
				_, _ = fmt.Fprintln(out, "warning: no catalog entry matches this blueprint; it was saved anyway")
			}
			if !resp.Saved {
				return fmt.Errorf("saving %s failed; see log", a.cfg.Blueprints)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&component, "component", "", "capital ship component whose blueprint to update")
	f.BoolVar(&owned, "owned", false, "blueprint is owned (use --owned=false to clear)")
	f.BoolVar(&invented, "invented", false, "blueprint was invented (use --invented=false to clear)")
	f.IntVar(&me, "me", 0, "material efficiency level")
	f.IntVar(&te, "te", 0, "time efficiency level")
	return cmd
}
