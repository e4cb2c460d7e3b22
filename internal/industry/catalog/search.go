package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/rsned/industry-planner/pkg/industry"
)

// MaterialUse is one place a material is consumed.
type MaterialUse struct {
	Entry     industry.Entry
	Quantity  int
	Component string // set when the material feeds a capital sub-component
}

// MaterialUses lists every entry that consumes material, directly or through
// a capital ship sub-component, in category priority then registration order.
func (r *Registry) MaterialUses(material string) []MaterialUse {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var uses []MaterialUse
	for _, cat := range industry.CatalogCategories() {
		for _, key := range r.order[cat] {
			e := r.entries[cat][key]
			if qty, ok := e.Base().Requirements[material]; ok {
				uses = append(uses, MaterialUse{Entry: e, Quantity: qty})
			}
			capital, ok := e.(*industry.CapitalShip)
			if !ok {
				continue
			}
			for _, name := range capital.ComponentNames() {
				if qty, ok := capital.Components[name][material]; ok {
					uses = append(uses, MaterialUse{Entry: e, Quantity: qty, Component: name})
				}
			}
		}
	}
	return uses
}

type suggestion struct {
	name  string
	score int
}

// Suggest returns up to limit display names close to name. Substring hits
// rank first, then names within a length-scaled edit distance.
func (r *Registry) Suggest(name string, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" || limit <= 0 {
		return nil
	}

	r.mu.RLock()
	seen := make(map[string]bool)
	var cands []suggestion
	for _, cat := range industry.CatalogCategories() {
		for _, key := range r.order[cat] {
			display := r.entries[cat][key].Base().DisplayName
			if seen[display] {
				continue
			}
			seen[display] = true

			hay := strings.ToLower(display)
			if strings.Contains(hay, needle) || strings.Contains(needle, hay) {
				cands = append(cands, suggestion{name: display, score: 0})
				continue
			}
			dist := levenshtein.ComputeDistance(needle, hay)
			if dist > distanceLimit(len(hay)) {
				continue
			}
			cands = append(cands, suggestion{name: display, score: dist})
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score == cands[j].score {
			return cands[i].name < cands[j].name
		}
		return cands[i].score < cands[j].score
	})

	if len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.name)
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
