// Package industry contains the core types for the industry planner.
package industry

import (
	"sort"
	"strings"
)

// ============================================
// CATEGORIES
// ============================================

// Category identifies which kind of blueprint an entry belongs to.
type Category string

const (
	CategoryShip        Category = "ships"
	CategoryCapitalShip Category = "capital_ships"
	CategoryComponent   Category = "components"
	CategoryPIMaterial  Category = "pi_materials"

	// CategoryComponentBlueprint only exists in the blueprint configuration.
	// Its records are keyed by "<capital ship key>:<component name>".
	CategoryComponentBlueprint Category = "component_blueprints"
)

// CatalogCategories returns the categories that hold catalog entries, in
// lookup priority order.
func CatalogCategories() []Category {
	return []Category{
		CategoryShip,
		CategoryCapitalShip,
		CategoryComponent,
		CategoryPIMaterial,
	}
}

// ConfigCategories returns every category the blueprint configuration knows.
func ConfigCategories() []Category {
	return append(CatalogCategories(), CategoryComponentBlueprint)
}

// IsCatalog reports whether entries of this category can be registered.
func (c Category) IsCatalog() bool {
	for _, valid := range CatalogCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// ParseCategory accepts the canonical names plus a few singular aliases.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ships", "ship":
		return CategoryShip, true
	case "capital_ships", "capital_ship", "capital-ship", "capitals", "capital":
		return CategoryCapitalShip, true
	case "components", "component":
		return CategoryComponent, true
	case "pi_materials", "pi_material", "pi-material", "pi":
		return CategoryPIMaterial, true
	case "component_blueprints", "component_blueprint":
		return CategoryComponentBlueprint, true
	}
	return "", false
}

// ComponentBlueprintName builds the composite configuration key for a capital
// ship sub-component.
func ComponentBlueprintName(capitalKey, component string) string {
	return capitalKey + ":" + component
}

// SplitComponentBlueprintName is the inverse of ComponentBlueprintName.
func SplitComponentBlueprintName(name string) (capitalKey, component string, ok bool) {
	capitalKey, component, ok = strings.Cut(name, ":")
	if !ok || capitalKey == "" || component == "" {
		return "", "", false
	}
	return capitalKey, component, true
}

// ============================================
// EFFICIENCY LEVELS
// ============================================

// Efficiency level bounds. Out-of-range levels are clamped, never rejected.
const (
	MaxME = 10
	MaxTE = 20
)

// ClampME clamps a material efficiency level to [0, MaxME].
func ClampME(level int) int {
	return clamp(level, MaxME)
}

// ClampTE clamps a time efficiency level to [0, MaxTE].
func ClampTE(level int) int {
	return clamp(level, MaxTE)
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

// ============================================
// REQUIREMENTS
// ============================================

// Requirements maps an input material or sub-item name to a quantity.
type Requirements map[string]int

// Clone returns an independent copy. A nil receiver yields an empty map.
func (r Requirements) Clone() Requirements {
	out := make(Requirements, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Materials returns the material names in sorted order.
func (r Requirements) Materials() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Lines flattens the map into sorted material lines for output.
func (r Requirements) Lines() []MaterialLine {
	lines := make([]MaterialLine, 0, len(r))
	for _, name := range r.Materials() {
		lines = append(lines, MaterialLine{Material: name, Quantity: r[name]})
	}
	return lines
}

// Total sums every quantity in the map.
func (r Requirements) Total() int {
	total := 0
	for _, v := range r {
		total += v
	}
	return total
}

// MaterialLine is one material with its quantity.
type MaterialLine struct {
	Material string `json:"material"`
	Quantity int    `json:"quantity"`
}

// ============================================
// CATALOG ENTRIES
// ============================================

// Entry is one craftable thing. The set of implementations is closed:
// *Ship, *CapitalShip, *Component and *PIMaterial.
type Entry interface {
	Base() *EntryBase
	Category() Category
}

// EntryBase holds the attributes shared by every entry variant.
type EntryBase struct {
	Key          string       `json:"key"`
	DisplayName  string       `json:"display_name"`
	Requirements Requirements `json:"requirements"`
	BuildTimeSec float64      `json:"build_time_sec,omitempty"`

	owned bool
}

// Base returns the shared attributes.
func (b *EntryBase) Base() *EntryBase { return b }

// Owned reports whether the user owns this blueprint.
func (b *EntryBase) Owned() bool { return b.owned }

// SetOwned updates the ownership flag. It is the only mutable attribute of an
// entry; the registry exposes it through Registry.SetOwned.
func (b *EntryBase) SetOwned(owned bool) { b.owned = owned }

// Ship is a regular hull.
type Ship struct {
	EntryBase
	Faction  string `json:"faction"`
	ShipType string `json:"ship_type"`
}

// Category implements Entry.
func (*Ship) Category() Category { return CategoryShip }

// CapitalShip is a hull built from capital components. Components holds the
// requirement map of each sub-component, keyed by component name.
type CapitalShip struct {
	EntryBase
	Faction    string                  `json:"faction"`
	ShipType   string                  `json:"ship_type"`
	Components map[string]Requirements `json:"components,omitempty"`
}

// Category implements Entry.
func (*CapitalShip) Category() Category { return CategoryCapitalShip }

// ComponentNames returns the sub-component names in sorted order.
func (c *CapitalShip) ComponentNames() []string {
	names := make([]string, 0, len(c.Components))
	for name := range c.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Component is a standalone manufactured component.
type Component struct {
	EntryBase
	Group string `json:"group,omitempty"`
}

// Category implements Entry.
func (*Component) Category() Category { return CategoryComponent }

// PIMaterial is a planetary-interaction product. Tier 0 is raw and has no
// requirements.
type PIMaterial struct {
	EntryBase
	Tier int `json:"tier"`
}

// Category implements Entry.
func (*PIMaterial) Category() Category { return CategoryPIMaterial }

// FactionAndType returns the faction and ship type of hull entries.
// ok is false for variants that carry neither.
func FactionAndType(e Entry) (faction, shipType string, ok bool) {
	switch v := e.(type) {
	case *Ship:
		return v.Faction, v.ShipType, true
	case *CapitalShip:
		return v.Faction, v.ShipType, true
	default:
		return "", "", false
	}
}

// RawRecord is the shape a catalog source supplies for one entry.
type RawRecord struct {
	Category     Category                `json:"category" yaml:"category"`
	Key          string                  `json:"key" yaml:"key"`
	DisplayName  string                  `json:"display_name" yaml:"display_name"`
	Requirements Requirements            `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	BuildTimeSec float64                 `json:"build_time_sec,omitempty" yaml:"build_time_sec,omitempty"`
	Faction      string                  `json:"faction,omitempty" yaml:"faction,omitempty"`
	ShipType     string                  `json:"ship_type,omitempty" yaml:"ship_type,omitempty"`
	Group        string                  `json:"group,omitempty" yaml:"group,omitempty"`
	Tier         int                     `json:"tier,omitempty" yaml:"tier,omitempty"`
	Components   map[string]Requirements `json:"components,omitempty" yaml:"components,omitempty"`
}

// Entry converts the record into its category variant. ok is false when the
// category is not a catalog category.
func (r RawRecord) Entry() (Entry, bool) {
	base := EntryBase{
		Key:          r.Key,
		DisplayName:  r.DisplayName,
		Requirements: r.Requirements.Clone(),
		BuildTimeSec: r.BuildTimeSec,
	}
	if base.DisplayName == "" {
		base.DisplayName = r.Key
	}

	switch r.Category {
	case CategoryShip:
		return &Ship{EntryBase: base, Faction: r.Faction, ShipType: r.ShipType}, true
	case CategoryCapitalShip:
		components := make(map[string]Requirements, len(r.Components))
		for name, req := range r.Components {
			components[name] = req.Clone()
		}
		return &CapitalShip{EntryBase: base, Faction: r.Faction, ShipType: r.ShipType, Components: components}, true
	case CategoryComponent:
		return &Component{EntryBase: base, Group: r.Group}, true
	case CategoryPIMaterial:
		return &PIMaterial{EntryBase: base, Tier: r.Tier}, true
	default:
		return nil, false
	}
}

// RecordOf converts an entry back into its raw record form.
func RecordOf(e Entry) RawRecord {
	b := e.Base()
	rec := RawRecord{
		Category:     e.Category(),
		Key:          b.Key,
		DisplayName:  b.DisplayName,
		Requirements: b.Requirements.Clone(),
		BuildTimeSec: b.BuildTimeSec,
	}
	switch v := e.(type) {
	case *Ship:
		rec.Faction, rec.ShipType = v.Faction, v.ShipType
	case *CapitalShip:
		rec.Faction, rec.ShipType = v.Faction, v.ShipType
		rec.Components = make(map[string]Requirements, len(v.Components))
		for name, req := range v.Components {
			rec.Components[name] = req.Clone()
		}
	case *Component:
		rec.Group = v.Group
	case *PIMaterial:
		rec.Tier = v.Tier
	}
	return rec
}

// ============================================
// QUERY RESULT TYPES
// ============================================

// EntrySummary is a lightweight view of an entry for listings.
type EntrySummary struct {
	Category    Category `json:"category"`
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	Faction     string   `json:"faction,omitempty"`
	ShipType    string   `json:"ship_type,omitempty"`
	Owned       bool     `json:"owned"`
	Invented    bool     `json:"invented"`
	ME          int      `json:"me"`
	TE          int      `json:"te"`
}

// IntermediateItem is a capital sub-component expanded in a bill of materials.
type IntermediateItem struct {
	Component    string         `json:"component"`
	Blueprint    string         `json:"blueprint"`
	Quantity     int            `json:"quantity"`
	ME           int            `json:"me"`
	Requirements []MaterialLine `json:"requirements"`
}

// ============================================
// TOOL REQUEST/RESPONSE TYPES
// ============================================

// EntryRef identifies an entry either by category and key or by display name.
type EntryRef struct {
	Category Category `json:"category,omitempty"`
	Key      string   `json:"key,omitempty"`
	Name     string   `json:"name,omitempty"`
}

// ListRequest is the input for the list_blueprints tool.
type ListRequest struct {
	Category  Category `json:"category,omitempty"` // empty lists ships and capital ships
	Faction   string   `json:"faction,omitempty"`
	Type      string   `json:"type,omitempty"`
	OwnedOnly bool     `json:"owned_only,omitempty"`
}

// ListResponse is the output for the list_blueprints tool.
type ListResponse struct {
	Entries   []EntrySummary `json:"entries"`
	Total     int            `json:"total"`
	Factions  []string       `json:"factions"`
	ShipTypes []string       `json:"ship_types"`
}

// LookupRequest is the input for the lookup_blueprint tool.
type LookupRequest struct {
	EntryRef
}

// LookupResponse is the output for the lookup_blueprint tool.
type LookupResponse struct {
	Found       bool                      `json:"found"`
	Entry       *EntrySummary             `json:"entry,omitempty"`
	Record      *RawRecord                `json:"record,omitempty"`
	Suggestions []string                  `json:"suggestions,omitempty"`
	UsedIn      []EntrySummary            `json:"used_in,omitempty"`
	Components  map[string]BlueprintState `json:"component_blueprints,omitempty"`
}

// BlueprintState is the configured state of one blueprint.
type BlueprintState struct {
	Owned    bool `json:"owned"`
	Invented bool `json:"invented"`
	ME       int  `json:"me"`
	TE       int  `json:"te"`
}

// CalculateRequest is the input for the calculate_requirements tool.
type CalculateRequest struct {
	EntryRef
	Runs int `json:"runs"`
}

// CalculateResponse is the output for the calculate_requirements tool.
type CalculateResponse struct {
	Found             bool           `json:"found"`
	Entry             *EntrySummary  `json:"entry,omitempty"`
	Runs              int            `json:"runs"`
	PerUnit           []MaterialLine `json:"per_unit"`
	Total             []MaterialLine `json:"total"`
	ProductionTimeSec float64        `json:"production_time_sec"`
	ProductionTime    string         `json:"production_time"`
	Suggestions       []string       `json:"suggestions,omitempty"`
}

// BillOfMaterialsRequest is the input for the bill_of_materials tool.
type BillOfMaterialsRequest struct {
	EntryRef
	Runs int `json:"runs"`
}

// BillOfMaterialsResponse is the output for the bill_of_materials tool.
type BillOfMaterialsResponse struct {
	Found             bool               `json:"found"`
	Entry             *EntrySummary      `json:"entry,omitempty"`
	Runs              int                `json:"runs"`
	RawMaterials      []MaterialLine     `json:"raw_materials"`
	Intermediates     []IntermediateItem `json:"intermediates,omitempty"`
	ProductionTimeSec float64            `json:"production_time_sec"`
	ProductionTime    string             `json:"production_time"`
	Suggestions       []string           `json:"suggestions,omitempty"`
}

// AggregateLine is one entry and run count to include in an aggregate.
type AggregateLine struct {
	EntryRef
	Runs int `json:"runs"`
}

// AggregateRequest is the input for the aggregate_requirements tool.
type AggregateRequest struct {
	Lines []AggregateLine `json:"lines"`
}

// AggregateResponse is the output for the aggregate_requirements tool.
type AggregateResponse struct {
	Total    []MaterialLine `json:"total"`
	Included []EntrySummary `json:"included"`
	Missing  []EntryRef     `json:"missing,omitempty"`
}

// MaterialUsesRequest is the input for the material_uses tool.
type MaterialUsesRequest struct {
	Material string `json:"material"`
}

// MaterialUse describes one entry that consumes a material.
type MaterialUse struct {
	Entry     EntrySummary `json:"entry"`
	Quantity  int          `json:"quantity"`
	Component string       `json:"component,omitempty"`
}

// MaterialUsesResponse is the output for the material_uses tool.
type MaterialUsesResponse struct {
	Material  string        `json:"material"`
	UsedIn    []MaterialUse `json:"used_in"`
	TotalUses int           `json:"total_uses"`
}

// UpdateBlueprintRequest is the input for the update_blueprint tool. Only
// non-nil fields are written.
type UpdateBlueprintRequest struct {
	Category  Category `json:"category"`
	Key       string   `json:"key"`
	Component string   `json:"component,omitempty"`
	Owned     *bool    `json:"owned,omitempty"`
	Invented  *bool    `json:"invented,omitempty"`
	ME        *int     `json:"me,omitempty"`
	TE        *int     `json:"te,omitempty"`
}

// UpdateBlueprintResponse is the output for the update_blueprint tool.
type UpdateBlueprintResponse struct {
	Blueprint string         `json:"blueprint"`
	Category  Category       `json:"category"`
	State     BlueprintState `json:"state"`
	Saved     bool           `json:"saved"`
	Matched   bool           `json:"matched"`
}
