// Package catalog holds the in-memory registry of craftable entries.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/rsned/industry-planner/pkg/industry"
)

// anyValue is the filter value that means "no filter" alongside "".
const anyValue = "all"

// Filter narrows an enumeration. Empty or "All" fields do not filter.
type Filter struct {
	Faction   string
	Type      string
	OwnedOnly bool
}

// Registry indexes every catalog entry by category and key.
type Registry struct {
	mu        sync.RWMutex
	entries   map[industry.Category]map[string]industry.Entry
	order     map[industry.Category][]string
	factions  map[string]struct{}
	shipTypes map[string]struct{}
	version   uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{
		entries:   make(map[industry.Category]map[string]industry.Entry),
		order:     make(map[industry.Category][]string),
		factions:  make(map[string]struct{}),
		shipTypes: make(map[string]struct{}),
	}
	for _, c := range industry.CatalogCategories() {
		r.entries[c] = make(map[string]industry.Entry)
	}
	return r
}

// Register inserts or overwrites an entry under its category and key.
// An overwritten entry keeps its original registration position.
func (r *Registry) Register(e industry.Entry) {
	if e == nil {
		return
	}
	cat := e.Category()
	key := e.Base().Key

	r.mu.Lock()
	defer r.mu.Unlock()

	byKey, ok := r.entries[cat]
	if !ok {
		byKey = make(map[string]industry.Entry)
		r.entries[cat] = byKey
	}
	if _, exists := byKey[key]; !exists {
		r.order[cat] = append(r.order[cat], key)
	}
	byKey[key] = e

	if faction, shipType, ok := industry.FactionAndType(e); ok {
		if faction != "" {
			r.factions[faction] = struct{}{}
		}
		if shipType != "" {
			r.shipTypes[shipType] = struct{}{}
		}
	}
	r.version++
}

// Get returns the entry registered under category and key.
func (r *Registry) Get(cat industry.Category, key string) (industry.Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[cat][key]
	return e, ok
}

// FindByDisplayName scans the given categories, or all catalog categories in
// priority order when none are given, and returns the first entry whose
// display name equals name. Display names may repeat across categories; the
// earlier category wins.
func (r *Registry) FindByDisplayName(name string, cats ...industry.Category) (industry.Entry, bool) {
	if len(cats) == 0 {
		cats = industry.CatalogCategories()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cat := range cats {
		for _, key := range r.order[cat] {
			e := r.entries[cat][key]
			if e.Base().DisplayName == name {
				return e, true
			}
		}
	}
	return nil, false
}

// Filter returns the entries of one category matching f, in registration
// order. Entries without faction or type never match a non-empty filter on
// those fields.
func (r *Registry) Filter(cat industry.Category, f Filter) []industry.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []industry.Entry
	for _, key := range r.order[cat] {
		e := r.entries[cat][key]
		if matches(e, f) {
			out = append(out, e)
		}
	}
	return out
}

// CombinedShips returns filtered ships followed by filtered capital ships.
func (r *Registry) CombinedShips(f Filter) []industry.Entry {
	ships := r.Filter(industry.CategoryShip, f)
	return append(ships, r.Filter(industry.CategoryCapitalShip, f)...)
}

// All returns every entry of a category in registration order.
func (r *Registry) All(cat industry.Category) []industry.Entry {
	return r.Filter(cat, Filter{})
}

// Len returns the number of entries in a category.
func (r *Registry) Len(cat industry.Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order[cat])
}

// SetOwned updates the ownership flag of an entry. It reports whether the
// entry exists.
func (r *Registry) SetOwned(cat industry.Category, key string, owned bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[cat][key]
	if !ok {
		return false
	}
	e.Base().SetOwned(owned)
	return true
}

// ResetOwned marks every entry unowned.
func (r *Registry) ResetOwned() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entries := range r.entries {
		for _, e := range entries {
			e.Base().SetOwned(false)
		}
	}
}

// HasComponent reports whether a capital ship has the named sub-component.
func (r *Registry) HasComponent(capitalKey, component string) bool {
	e, ok := r.Get(industry.CategoryCapitalShip, capitalKey)
	if !ok {
		return false
	}
	capital, ok := e.(*industry.CapitalShip)
	if !ok {
		return false
	}
	_, ok = capital.Components[component]
	return ok
}

// Factions returns every faction seen so far, sorted.
func (r *Registry) Factions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.factions)
}

// ShipTypes returns every ship type seen so far, sorted.
func (r *Registry) ShipTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.shipTypes)
}

// Version increases on every Register. Caches of derived data key on it.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func matches(e industry.Entry, f Filter) bool {
	if f.OwnedOnly && !e.Base().Owned() {
		return false
	}
	if isAny(f.Faction) && isAny(f.Type) {
		return true
	}
	faction, shipType, ok := industry.FactionAndType(e)
	if !ok {
		return false
	}
	if !isAny(f.Faction) && faction != f.Faction {
		return false
	}
	if !isAny(f.Type) && shipType != f.Type {
		return false
	}
	return true
}

func isAny(v string) bool {
	return v == "" || strings.EqualFold(v, anyValue)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
