package engine

import (
	"context"
	"sort"

	"github.com/rsned/industry-planner/pkg/industry"
)

// BillOfMaterials executes the bill_of_materials tool logic.
// Capital ship sub-components named in the hull requirements are expanded
// through their own component blueprint ME into raw materials. Everything
// else is treated as raw.
func (e *Engine) BillOfMaterials(ctx context.Context, req industry.BillOfMaterialsRequest) (*industry.BillOfMaterialsResponse, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	req.Runs = defaultRuns(req.Runs)
	resp := &industry.BillOfMaterialsResponse{Runs: req.Runs}

	entry, suggestions := e.resolve(req.EntryRef)
	if entry == nil {
		resp.Suggestions = suggestions
		return resp, nil
	}

	top := Scale(e.perUnit(entry), req.Runs)
	parts := []industry.Requirements{top}

	if capital, ok := entry.(*industry.CapitalShip); ok {
		var intermediates []industry.IntermediateItem
		for _, name := range capital.ComponentNames() {
			qty, needed := top[name]
			if !needed || qty <= 0 {
				continue
			}
			delete(top, name)

			blueprint := industry.ComponentBlueprintName(capital.Key, name)
			me := e.config.Get(industry.CategoryComponentBlueprint, blueprint).ME
			perComponent := e.scaledRequirements(industry.CategoryComponentBlueprint, blueprint, capital.Components[name], me)

			parts = append(parts, Scale(perComponent, qty))
			intermediates = append(intermediates, industry.IntermediateItem{
				Component:    name,
				Blueprint:    blueprint,
				Quantity:     qty,
				ME:           industry.ClampME(me),
				Requirements: perComponent.Lines(),
			})
		}
		sort.Slice(intermediates, func(i, j int) bool {
			return intermediates[i].Component < intermediates[j].Component
		})
		resp.Intermediates = intermediates
	}

	summary := e.summary(entry)
	seconds := e.productionTime(entry) * float64(req.Runs)

	resp.Found = true
	resp.Entry = &summary
	resp.RawMaterials = Aggregate(parts...).Lines()
	resp.ProductionTimeSec = seconds
	resp.ProductionTime = FormatDuration(seconds)
	return resp, nil
}
