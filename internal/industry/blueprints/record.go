// Package blueprints persists blueprint ownership and efficiency levels.
package blueprints

import (
	"sort"

	"github.com/rsned/industry-planner/pkg/industry"
)

// Field names one attribute of a blueprint record.
type Field string

const (
	FieldOwned    Field = "owned"
	FieldInvented Field = "invented"
	FieldME       Field = "me"
	FieldTE       Field = "te"
)

// Record is the configured state of one blueprint. The zero value is the
// default for blueprints without a record.
type Record struct {
	Owned    bool `json:"owned"`
	Invented bool `json:"invented"`
	ME       int  `json:"me"`
	TE       int  `json:"te"`
}

// State converts the record for tool output.
func (r Record) State() industry.BlueprintState {
	return industry.BlueprintState{Owned: r.Owned, Invented: r.Invented, ME: r.ME, TE: r.TE}
}

// Config maps category to blueprint name to record.
type Config map[industry.Category]map[string]Record

// NewConfig returns an empty configuration with every known category present.
func NewConfig() Config {
	c := make(Config)
	for _, cat := range industry.ConfigCategories() {
		c[cat] = make(map[string]Record)
	}
	return c
}

// Get returns the record for a blueprint, or the default record.
func (c Config) Get(cat industry.Category, name string) Record {
	return c[cat][name]
}

// Lookup returns the record and whether one is stored.
func (c Config) Lookup(cat industry.Category, name string) (Record, bool) {
	r, ok := c[cat][name]
	return r, ok
}

// Field returns one field of a stored record, or def when no record exists.
// Unknown fields also yield def.
func (c Config) Field(cat industry.Category, name string, field Field, def any) any {
	r, ok := c.Lookup(cat, name)
	if !ok {
		return def
	}
	switch field {
	case FieldOwned:
		return r.Owned
	case FieldInvented:
		return r.Invented
	case FieldME:
		return r.ME
	case FieldTE:
		return r.TE
	default:
		return def
	}
}

// put stores a record, creating the category map when needed.
func (c Config) put(cat industry.Category, name string, r Record) {
	records, ok := c[cat]
	if !ok {
		records = make(map[string]Record)
		c[cat] = records
	}
	records[name] = r
}

// Categories returns the categories present, known ones first in their
// canonical order and any others sorted after them.
func (c Config) Categories() []industry.Category {
	var out []industry.Category
	known := make(map[industry.Category]bool)
	for _, cat := range industry.ConfigCategories() {
		known[cat] = true
		if _, ok := c[cat]; ok {
			out = append(out, cat)
		}
	}
	var extra []string
	for cat := range c {
		if !known[cat] {
			extra = append(extra, string(cat))
		}
	}
	sort.Strings(extra)
	for _, cat := range extra {
		out = append(out, industry.Category(cat))
	}
	return out
}

// Names returns the blueprint names of a category in sorted order.
func (c Config) Names(cat industry.Category) []string {
	names := make([]string, 0, len(c[cat]))
	for name := range c[cat] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for cat, records := range c {
		cp := make(map[string]Record, len(records))
		for name, r := range records {
			cp[name] = r
		}
		out[cat] = cp
	}
	return out
}

// RecordPatch carries the fields to overwrite on one record. Nil fields are
// left untouched.
type RecordPatch struct {
	Owned    *bool `json:"owned,omitempty"`
	Invented *bool `json:"invented,omitempty"`
	ME       *int  `json:"me,omitempty"`
	TE       *int  `json:"te,omitempty"`
}

// Empty reports whether the patch sets no field.
func (p RecordPatch) Empty() bool {
	return p.Owned == nil && p.Invented == nil && p.ME == nil && p.TE == nil
}

// ApplyTo overwrites the set fields of r, clamping efficiency levels.
func (p RecordPatch) ApplyTo(r Record) Record {
	if p.Owned != nil {
		r.Owned = *p.Owned
	}
	if p.Invented != nil {
		r.Invented = *p.Invented
	}
	if p.ME != nil {
		r.ME = industry.ClampME(*p.ME)
	}
	if p.TE != nil {
		r.TE = industry.ClampTE(*p.TE)
	}
	return r
}

// merge combines two patches for the same record; q wins where both set.
func (p RecordPatch) merge(q RecordPatch) RecordPatch {
	if q.Owned != nil {
		p.Owned = q.Owned
	}
	if q.Invented != nil {
		p.Invented = q.Invented
	}
	if q.ME != nil {
		p.ME = q.ME
	}
	if q.TE != nil {
		p.TE = q.TE
	}
	return p
}

// Patch is a field-level update to a configuration.
type Patch map[industry.Category]map[string]RecordPatch

// Set merges rp into the patch for one blueprint.
func (p Patch) Set(cat industry.Category, name string, rp RecordPatch) {
	records, ok := p[cat]
	if !ok {
		records = make(map[string]RecordPatch)
		p[cat] = records
	}
	records[name] = records[name].merge(rp)
}

// ApplyTo overwrites the patched fields in c. Blueprints and fields the
// patch does not mention are left as they are.
func (p Patch) ApplyTo(c Config) {
	for cat, records := range p {
		if _, ok := c[cat]; !ok {
			c[cat] = make(map[string]Record)
		}
		for name, rp := range records {
			if rp.Empty() {
				continue
			}
			c.put(cat, name, rp.ApplyTo(c[cat][name]))
		}
	}
}

// FullPatch converts every record of c into a patch that sets all fields.
func (c Config) FullPatch() Patch {
	p := make(Patch, len(c))
	for cat, records := range c {
		p[cat] = make(map[string]RecordPatch, len(records))
		for name, r := range records {
			p[cat][name] = patchOf(r)
		}
	}
	return p
}

func patchOf(r Record) RecordPatch {
	owned, invented, me, te := r.Owned, r.Invented, r.ME, r.TE
	return RecordPatch{Owned: &owned, Invented: &invented, ME: &me, TE: &te}
}

// SingleField builds a patch that touches exactly one field.
func SingleField(cat industry.Category, name string, field Field, r Record) (Patch, bool) {
	var rp RecordPatch
	switch field {
	case FieldOwned:
		v := r.Owned
		rp.Owned = &v
	case FieldInvented:
		v := r.Invented
		rp.Invented = &v
	case FieldME:
		v := r.ME
		rp.ME = &v
	case FieldTE:
		v := r.TE
		rp.TE = &v
	default:
		return nil, false
	}
	p := make(Patch)
	p.Set(cat, name, rp)
	return p, true
}
