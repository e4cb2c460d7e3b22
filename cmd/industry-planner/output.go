package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rsned/industry-planner/pkg/industry"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTitle(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf(format, args...)))
}

func writeTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...)
	_, _ = fmt.Fprintln(w, t.Render())
}

func materialRows(lines []industry.MaterialLine) [][]string {
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{l.Material, strconv.Itoa(l.Quantity)})
	}
	return rows
}

func writeMaterials(w io.Writer, lines []industry.MaterialLine) {
	if len(lines) == 0 {
		_, _ = fmt.Fprintln(w, "(no materials)")
		return
	}
	writeTable(w, []string{"Material", "Quantity"}, materialRows(lines))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func describeEntry(e *industry.EntrySummary) string {
	parts := []string{string(e.Category)}
	if e.Faction != "" {
		parts = append(parts, e.Faction)
	}
	if e.ShipType != "" {
		parts = append(parts, e.ShipType)
	}
	return fmt.Sprintf("%s [%s] ME %d TE %d", e.DisplayName, strings.Join(parts, ", "), e.ME, e.TE)
}

// notFound prints suggestions and returns the error for a failed lookup.
func notFound(w io.Writer, query string, suggestions []string) error {
	if len(suggestions) > 0 {
		_, _ = fmt.Fprintf(w, "Did you mean: %s\n", strings.Join(suggestions, ", "))
	}
	return fmt.Errorf("no blueprint matches %q", query)
}
