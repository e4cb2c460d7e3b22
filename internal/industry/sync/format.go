package sync

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rsned/industry-planner/pkg/industry"
)

// Format is the encoding of a catalog import file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks a format from the file extension, falling back to
// sniffing the first non-space byte.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// CatalogImport is the sectioned import shape: one list per category. Entries
// holds records that name their own category.
type CatalogImport struct {
	Ships        []RecordImport `json:"ships,omitempty" yaml:"ships,omitempty"`
	CapitalShips []RecordImport `json:"capital_ships,omitempty" yaml:"capital_ships,omitempty"`
	Capitals     []RecordImport `json:"capitals,omitempty" yaml:"capitals,omitempty"`
	Components   []RecordImport `json:"components,omitempty" yaml:"components,omitempty"`
	PIMaterials  []RecordImport `json:"pi_materials,omitempty" yaml:"pi_materials,omitempty"`
	Entries      []RecordImport `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// RecordImport represents one catalog record as external sources write it.
// Several spellings are accepted for most fields.
type RecordImport struct {
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	Key  string `json:"key,omitempty" yaml:"key,omitempty"`
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	DisplayName      string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	DisplayNameCamel string `json:"displayName,omitempty" yaml:"displayName,omitempty"`

	BuildTimeSec   float64 `json:"build_time_sec,omitempty" yaml:"build_time_sec,omitempty"`
	BuildTime      float64 `json:"build_time,omitempty" yaml:"build_time,omitempty"`
	BuildTimeCamel float64 `json:"buildTime,omitempty" yaml:"buildTime,omitempty"`

	Faction       string `json:"faction,omitempty" yaml:"faction,omitempty"`
	ShipType      string `json:"ship_type,omitempty" yaml:"ship_type,omitempty"`
	ShipTypeCamel string `json:"shipType,omitempty" yaml:"shipType,omitempty"`
	Type          string `json:"type,omitempty" yaml:"type,omitempty"`
	Group         string `json:"group,omitempty" yaml:"group,omitempty"`
	Tier          int    `json:"tier,omitempty" yaml:"tier,omitempty"`

	Requirements RequirementList            `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Materials    RequirementList            `json:"materials,omitempty" yaml:"materials,omitempty"`
	Components   map[string]RequirementList `json:"components,omitempty" yaml:"components,omitempty"`
}

// RequirementList accepts either a material-to-quantity map or a list of
// {material, quantity} objects.
type RequirementList industry.Requirements

type requirementItem struct {
	Material string `json:"material,omitempty" yaml:"material,omitempty"`
	Item     string `json:"item,omitempty" yaml:"item,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Quantity int    `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Qty      int    `json:"qty,omitempty" yaml:"qty,omitempty"`
}

func (it requirementItem) material() string {
	switch {
	case it.Material != "":
		return it.Material
	case it.Item != "":
		return it.Item
	default:
		return it.Name
	}
}

func (it requirementItem) quantity() int {
	if it.Quantity != 0 {
		return it.Quantity
	}
	return it.Qty
}

func fromItems(items []requirementItem) RequirementList {
	out := make(RequirementList, len(items))
	for _, it := range items {
		if name := it.material(); name != "" {
			out[name] += it.quantity()
		}
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RequirementList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []requirementItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("requirement list: %w", err)
		}
		*r = fromItems(items)
		return nil
	}
	var m map[string]int
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return fmt.Errorf("requirement map: %w", err)
	}
	*r = RequirementList(m)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *RequirementList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var items []requirementItem
		if err := value.Decode(&items); err != nil {
			return fmt.Errorf("requirement list: %w", err)
		}
		*r = fromItems(items)
	case yaml.MappingNode:
		var m map[string]int
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("requirement map: %w", err)
		}
		*r = RequirementList(m)
	case yaml.ScalarNode:
		if value.Tag != "!!null" {
			return fmt.Errorf("line %d: requirements must be a map or a list", value.Line)
		}
		*r = nil
	default:
		return fmt.Errorf("line %d: requirements must be a map or a list", value.Line)
	}
	return nil
}

// ParseImport decodes an import file in either shape: a sectioned object or
// a flat list of records that carry their own category.
func ParseImport(data []byte, format Format) (CatalogImport, error) {
	var out CatalogImport

	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return out, errors.New("empty import file")
		}
		if trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &out.Entries); err != nil {
				return out, fmt.Errorf("parsing JSON: %w", err)
			}
			return out, nil
		}
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return out, fmt.Errorf("parsing JSON: %w", err)
		}
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return out, fmt.Errorf("parsing YAML: %w", err)
		}
		if len(doc.Content) == 0 {
			return out, errors.New("empty import file")
		}
		root := doc.Content[0]
		if root.Kind == yaml.SequenceNode {
			if err := root.Decode(&out.Entries); err != nil {
				return out, fmt.Errorf("parsing YAML: %w", err)
			}
			return out, nil
		}
		if err := root.Decode(&out); err != nil {
			return out, fmt.Errorf("parsing YAML: %w", err)
		}
	default:
		return out, fmt.Errorf("unknown import format %q", format)
	}
	return out, nil
}

// slugKey derives an internal key from a display name.
func slugKey(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "_")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

// transformRecord converts import format to domain format. section is the
// category implied by the enclosing list, empty for flat entries.
func transformRecord(imp RecordImport, section industry.Category) (industry.RawRecord, error) {
	cat := section
	if imp.Category != "" {
		parsed, ok := industry.ParseCategory(imp.Category)
		if !ok || !parsed.IsCatalog() {
			return industry.RawRecord{}, fmt.Errorf("unknown category %q", imp.Category)
		}
		cat = parsed
	}
	if cat == "" {
		return industry.RawRecord{}, errors.New("record has no category")
	}

	key := firstNonEmpty(imp.Key, imp.ID)
	if key == "" {
		key = slugKey(firstNonEmpty(imp.Name, imp.DisplayName, imp.DisplayNameCamel))
	}
	if key == "" {
		return industry.RawRecord{}, errors.New("record has no key or name")
	}

	rec := industry.RawRecord{
		Category:     cat,
		Key:          key,
		DisplayName:  firstNonEmpty(imp.DisplayName, imp.DisplayNameCamel, imp.Name, key),
		BuildTimeSec: firstNonZero(imp.BuildTimeSec, imp.BuildTime, imp.BuildTimeCamel),
		Faction:      imp.Faction,
		ShipType:     firstNonEmpty(imp.ShipType, imp.ShipTypeCamel, imp.Type),
		Group:        imp.Group,
		Tier:         imp.Tier,
	}

	req := imp.Requirements
	if len(req) == 0 {
		req = imp.Materials
	}
	rec.Requirements = industry.Requirements(req).Clone()
	if err := checkQuantities(rec.Requirements); err != nil {
		return industry.RawRecord{}, fmt.Errorf("%s: %w", key, err)
	}

	if len(imp.Components) > 0 {
		rec.Components = make(map[string]industry.Requirements, len(imp.Components))
		for name, comp := range imp.Components {
			rec.Components[name] = industry.Requirements(comp).Clone()
			if err := checkQuantities(rec.Components[name]); err != nil {
				return industry.RawRecord{}, fmt.Errorf("%s component %s: %w", key, name, err)
			}
		}
	}

	return rec, nil
}

func checkQuantities(req industry.Requirements) error {
	for material, qty := range req {
		if qty < 0 {
			return fmt.Errorf("negative quantity %d for %s", qty, material)
		}
	}
	return nil
}
