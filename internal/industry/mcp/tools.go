package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rsned/industry-planner/pkg/industry"
)

// ToolDefinition describes an MCP tool.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"inputSchema"`
}

// JSONSchema is a simplified JSON Schema representation.
type JSONSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a schema property.
type Property struct {
	Type                 string              `json:"type,omitempty"`
	Description          string              `json:"description,omitempty"`
	Default              any                 `json:"default,omitempty"`
	Enum                 []string            `json:"enum,omitempty"`
	Minimum              *float64            `json:"minimum,omitempty"`
	Maximum              *float64            `json:"maximum,omitempty"`
	Items                *Property           `json:"items,omitempty"`
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *Property           `json:"additionalProperties,omitempty"`
}

// GetToolDefinitions returns all tool definitions.
func GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		listBlueprintsTool(),
		lookupBlueprintTool(),
		calculateRequirementsTool(),
		billOfMaterialsTool(),
		aggregateRequirementsTool(),
		materialUsesTool(),
		updateBlueprintTool(),
	}
}

func float(v float64) *float64 { return &v }

func categoryEnum() []string {
	cats := industry.CatalogCategories()
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, string(c))
	}
	return out
}

// entryRefProperties are shared by every tool that names one entry.
func entryRefProperties() map[string]Property {
	return map[string]Property{
		"category": {
			Type:        "string",
			Description: "Catalog category. Optional; all categories are searched in priority order when omitted.",
			Enum:        categoryEnum(),
		},
		"key": {
			Type:        "string",
			Description: "Internal key, e.g. rifter",
		},
		"name": {
			Type:        "string",
			Description: "Display name, e.g. Rifter. Used when key is empty.",
		},
	}
}

func withRuns(props map[string]Property, description string) map[string]Property {
	props["runs"] = Property{
		Type:        "integer",
		Description: description,
		Default:     1,
		Minimum:     float(1),
	}
	return props
}

func listBlueprintsTool() ToolDefinition {
	return ToolDefinition{
		Name:        "list_blueprints",
		Description: "List blueprints with ownership and efficiency levels. Without a category, ships and capital ships are listed together.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"category": {
					Type:        "string",
					Description: "Catalog category to list",
					Enum:        categoryEnum(),
				},
				"faction": {
					Type:        "string",
					Description: "Faction filter; empty or \"all\" matches everything",
				},
				"type": {
					Type:        "string",
					Description: "Ship type filter; empty or \"all\" matches everything",
				},
				"owned_only": {
					Type:        "boolean",
					Description: "Only list owned blueprints",
					Default:     false,
				},
			},
		},
	}
}

func lookupBlueprintTool() ToolDefinition {
	return ToolDefinition{
		Name:        "lookup_blueprint",
		Description: "Look up one blueprint: its catalog record, configured state, capital component blueprints, and what consumes it. Suggests close names on a miss.",
		InputSchema: JSONSchema{
			Type:       "object",
			Properties: entryRefProperties(),
		},
	}
}

func calculateRequirementsTool() ToolDefinition {
	return ToolDefinition{
		Name:        "calculate_requirements",
		Description: "Calculate material requirements after material efficiency, and production time after time efficiency, for a number of runs.",
		InputSchema: JSONSchema{
			Type:       "object",
			Properties: withRuns(entryRefProperties(), "Number of runs"),
		},
	}
}

func billOfMaterialsTool() ToolDefinition {
	return ToolDefinition{
		Name:        "bill_of_materials",
		Description: "Calculate raw materials for a blueprint. Capital ship components are expanded through their own component blueprint efficiency.",
		InputSchema: JSONSchema{
			Type:       "object",
			Properties: withRuns(entryRefProperties(), "Number of runs"),
		},
	}
}

func aggregateRequirementsTool() ToolDefinition {
	item := Property{
		Type:       "object",
		Properties: withRuns(entryRefProperties(), "Number of runs for this line"),
	}
	return ToolDefinition{
		Name:        "aggregate_requirements",
		Description: "Sum efficiency-adjusted requirements across several blueprints. Lines that do not resolve are reported as missing.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"lines": {
					Type:        "array",
					Description: "Blueprints and run counts to include",
					Items:       &item,
				},
			},
			Required: []string{"lines"},
		},
	}
}

func materialUsesTool() ToolDefinition {
	return ToolDefinition{
		Name:        "material_uses",
		Description: "Find every blueprint that consumes a material, directly or through a capital ship component.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"material": {
					Type:        "string",
					Description: "Material name, e.g. Tritanium",
				},
			},
			Required: []string{"material"},
		},
	}
}

func updateBlueprintTool() ToolDefinition {
	cats := append(categoryEnum(), string(industry.CategoryComponentBlueprint))
	return ToolDefinition{
		Name:        "update_blueprint",
		Description: "Update ownership, invention, and efficiency levels of a blueprint and save them. Only supplied fields change. ME is clamped to 0-10, TE to 0-20.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"category": {
					Type:        "string",
					Description: "Blueprint category",
					Enum:        cats,
				},
				"key": {
					Type:        "string",
					Description: "Internal key of the blueprint, or of the capital ship when component is set",
				},
				"component": {
					Type:        "string",
					Description: "Capital ship component name; targets that component's blueprint",
				},
				"owned":    {Type: "boolean", Description: "Blueprint is owned"},
				"invented": {Type: "boolean", Description: "Blueprint was obtained by invention"},
				"me": {
					Type:        "integer",
					Description: "Material efficiency level",
					Minimum:     float(0),
					Maximum:     float(industry.MaxME),
				},
				"te": {
					Type:        "integer",
					Description: "Time efficiency level",
					Minimum:     float(0),
					Maximum:     float(industry.MaxTE),
				},
			},
			Required: []string{"category", "key"},
		},
	}
}

// decodeArgs unmarshals tool arguments. Missing arguments decode to the zero
// request.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

func requireRef(ref industry.EntryRef) error {
	if ref.Key == "" && ref.Name == "" {
		return errors.New("either key or name is required")
	}
	return nil
}

// Tool handlers

func (s *Server) toolListBlueprints(ctx context.Context, args json.RawMessage) (any, error) {
	var req industry.ListRequest
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	return s.engine.ListBlueprints(ctx, req)
}

func (s *Server) toolLookupBlueprint(ctx context.Context, args json.RawMessage) (any, error) {
	var req industry.LookupRequest
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	if err := requireRef(req.EntryRef); err != nil {
		return nil, err
	}
	return s.engine.LookupBlueprint(ctx, req)
}

func (s *Server) toolCalculateRequirements(ctx context.Context, args json.RawMessage) (any, error) {
	var req industry.CalculateRequest
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	if err := requireRef(req.EntryRef); err != nil {
		return nil, err
	}
	return s.engine.Calculate(ctx, req)
}

func (s *Server) toolBillOfMaterials(ctx context.Context, args json.RawMessage) (any, error) {
	var req industry.BillOfMaterialsRequest
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	if err := requireRef(req.EntryRef); err != nil {
		return nil, err
	}
	return s.engine.BillOfMaterials(ctx, req)
}

func (s *Server) toolAggregateRequirements(ctx context.Context, args json.RawMessage) (any, error) {
	var req industry.AggregateRequest
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, errors.New("lines must not be empty")
	}
	return s.engine.AggregateRequirements(ctx, req)
}

func (s *Server) toolMaterialUses(ctx context.Context, args json.RawMessage) (any, error) {
	var req industry.MaterialUsesRequest
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	if req.Material == "" {
		return nil, errors.New("material is required")
	}
	return s.engine.MaterialUses(ctx, req)
}

func (s *Server) toolUpdateBlueprint(ctx context.Context, args json.RawMessage) (any, error) {
	var req industry.UpdateBlueprintRequest
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	return s.engine.UpdateBlueprint(ctx, req)
}
