package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rsned/industry-planner/internal/industry/blueprints"
	"github.com/rsned/industry-planner/pkg/industry"
)

// UpdateBlueprint executes the update_blueprint tool logic. Every supplied
// field is saved on its own, merged against what is on disk, and ownership is
// then re-applied to the registry. Records without a catalog match are still
// saved; Matched reports whether one exists.
func (e *Engine) UpdateBlueprint(ctx context.Context, req industry.UpdateBlueprintRequest) (*industry.UpdateBlueprintResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if req.Key == "" {
		return nil, errors.New("key is required")
	}

	var cat industry.Category
	if req.Category != "" {
		parsed, ok := industry.ParseCategory(string(req.Category))
		if !ok {
			return nil, fmt.Errorf("unknown category: %q", req.Category)
		}
		cat = parsed
	}

	name := req.Key
	if req.Component != "" {
		if cat != "" && cat != industry.CategoryCapitalShip && cat != industry.CategoryComponentBlueprint {
			return nil, fmt.Errorf("component blueprints belong to capital ships, not %s", cat)
		}
		cat = industry.CategoryComponentBlueprint
		name = industry.ComponentBlueprintName(req.Key, req.Component)
	}
	if cat == "" {
		return nil, errors.New("category is required")
	}

	type change struct {
		field blueprints.Field
		value any
	}
	var changes []change
	if req.Owned != nil {
		changes = append(changes, change{blueprints.FieldOwned, *req.Owned})
	}
	if req.Invented != nil {
		changes = append(changes, change{blueprints.FieldInvented, *req.Invented})
	}
	if req.ME != nil {
		changes = append(changes, change{blueprints.FieldME, *req.ME})
	}
	if req.TE != nil {
		changes = append(changes, change{blueprints.FieldTE, *req.TE})
	}
	if len(changes) == 0 {
		return nil, errors.New("nothing to update: set at least one of owned, invented, me, te")
	}

	saved := true
	for _, c := range changes {
		if !e.store.SetField(e.config, cat, name, c.field, c.value) {
			saved = false
		}
	}

	var matched bool
	if cat == industry.CategoryComponentBlueprint {
		matched = e.registry.HasComponent(req.Key, req.Component)
	} else {
		matched = e.registry.SetOwned(cat, name, e.config.Get(cat, name).Owned)
	}

	e.logger.Info("blueprint updated",
		"category", cat,
		"blueprint", name,
		"saved", saved,
		"matched", matched)

	return &industry.UpdateBlueprintResponse{
		Blueprint: name,
		Category:  cat,
		State:     e.config.Get(cat, name).State(),
		Saved:     saved,
		Matched:   matched,
	}, nil
}
