package engine

import (
	"context"

	"github.com/rsned/industry-planner/internal/industry/catalog"
	"github.com/rsned/industry-planner/pkg/industry"
)

// LookupBlueprint executes the lookup_blueprint tool logic.
func (e *Engine) LookupBlueprint(ctx context.Context, req industry.LookupRequest) (*industry.LookupResponse, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	resp := &industry.LookupResponse{}

	entry, suggestions := e.resolve(req.EntryRef)
	if entry == nil {
		resp.Suggestions = suggestions
		return resp, nil
	}

	summary := e.summary(entry)
	record := industry.RecordOf(entry)
	resp.Found = true
	resp.Entry = &summary
	resp.Record = &record

	// Entries that consume this one by display name.
	seen := make(map[string]bool)
	for _, use := range e.registry.MaterialUses(entry.Base().DisplayName) {
		id := string(use.Entry.Category()) + "/" + use.Entry.Base().Key
		if seen[id] {
			continue
		}
		seen[id] = true
		resp.UsedIn = append(resp.UsedIn, e.summary(use.Entry))
	}

	if capital, ok := entry.(*industry.CapitalShip); ok && len(capital.Components) > 0 {
		resp.Components = make(map[string]industry.BlueprintState, len(capital.Components))
		for _, name := range capital.ComponentNames() {
			blueprint := industry.ComponentBlueprintName(capital.Key, name)
			resp.Components[name] = e.config.Get(industry.CategoryComponentBlueprint, blueprint).State()
		}
	}

	return resp, nil
}

// ListBlueprints executes the list_blueprints tool logic. With no category it
// lists ships and capital ships together.
func (e *Engine) ListBlueprints(ctx context.Context, req industry.ListRequest) (*industry.ListResponse, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	filter := catalog.Filter{Faction: req.Faction, Type: req.Type, OwnedOnly: req.OwnedOnly}

	var entries []industry.Entry
	if req.Category == "" {
		entries = e.registry.CombinedShips(filter)
	} else {
		entries = e.registry.Filter(req.Category, filter)
	}

	resp := &industry.ListResponse{
		Entries:   make([]industry.EntrySummary, 0, len(entries)),
		Total:     len(entries),
		Factions:  e.registry.Factions(),
		ShipTypes: e.registry.ShipTypes(),
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, e.summary(entry))
	}
	return resp, nil
}

// MaterialUses executes the material_uses tool logic.
func (e *Engine) MaterialUses(ctx context.Context, req industry.MaterialUsesRequest) (*industry.MaterialUsesResponse, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	uses := e.registry.MaterialUses(req.Material)

	resp := &industry.MaterialUsesResponse{
		Material: req.Material,
		UsedIn:   make([]industry.MaterialUse, 0, len(uses)),
	}
	for _, use := range uses {
		resp.UsedIn = append(resp.UsedIn, industry.MaterialUse{
			Entry:     e.summary(use.Entry),
			Quantity:  use.Quantity,
			Component: use.Component,
		})
	}
	resp.TotalUses = len(resp.UsedIn)
	return resp, nil
}
