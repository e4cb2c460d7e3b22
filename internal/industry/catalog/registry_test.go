package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsned/industry-planner/pkg/industry"
)

func ship(key, name, faction, shipType string) *industry.Ship {
	return &industry.Ship{
		EntryBase: industry.EntryBase{Key: key, DisplayName: name, Requirements: industry.Requirements{"Tritanium": 100}},
		Faction:   faction,
		ShipType:  shipType,
	}
}

func capital(key, name, faction, shipType string) *industry.CapitalShip {
	return &industry.CapitalShip{
		EntryBase: industry.EntryBase{Key: key, DisplayName: name, Requirements: industry.Requirements{"Capital Armor Plates": 5}},
		Faction:   faction,
		ShipType:  shipType,
		Components: map[string]industry.Requirements{
			"Capital Armor Plates": {"Tritanium": 1000, "Pyerite": 200},
		},
	}
}

func keys(entries []industry.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Base().Key)
	}
	return out
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register(ship("rifter", "Rifter", "Minmatar", "Frigate"))
	r.Register(ship("merlin", "Merlin", "Caldari", "Frigate"))
	r.Register(ship("thorax", "Thorax", "Gallente", "Cruiser"))
	r.Register(capital("naglfar", "Naglfar", "Minmatar", "Dreadnought"))
	r.Register(&industry.Component{EntryBase: industry.EntryBase{Key: "plates", DisplayName: "Capital Armor Plates"}})
	r.Register(&industry.PIMaterial{EntryBase: industry.EntryBase{Key: "water", DisplayName: "Water"}, Tier: 1})
	return r
}

func TestRegistry_GetAndAbsent(t *testing.T) {
	r := newTestRegistry()

	e, ok := r.Get(industry.CategoryShip, "rifter")
	require.True(t, ok)
	require.Equal(t, "Rifter", e.Base().DisplayName)

	e, ok = r.Get(industry.CategoryShip, "naglfar")
	require.False(t, ok, "key lookups are per category")
	require.Nil(t, e)
}

func TestRegistry_RegisterOverwriteKeepsPosition(t *testing.T) {
	r := newTestRegistry()
	v := r.Version()

	r.Register(ship("rifter", "Rifter II", "Minmatar", "Assault Frigate"))

	e, ok := r.Get(industry.CategoryShip, "rifter")
	require.True(t, ok)
	require.Equal(t, "Rifter II", e.Base().DisplayName)
	require.Equal(t, []string{"rifter", "merlin", "thorax"}, keys(r.All(industry.CategoryShip)))
	require.Greater(t, r.Version(), v)
}

func TestRegistry_DerivedSetsOnlyGrow(t *testing.T) {
	r := newTestRegistry()
	require.Equal(t, []string{"Caldari", "Gallente", "Minmatar"}, r.Factions())
	require.Equal(t, []string{"Cruiser", "Dreadnought", "Frigate"}, r.ShipTypes())

	// Overwriting the only Cruiser with a Battleship keeps Cruiser in the set.
	r.Register(ship("thorax", "Thorax", "Gallente", "Battleship"))
	require.Equal(t, []string{"Battleship", "Cruiser", "Dreadnought", "Frigate"}, r.ShipTypes())
}

func TestRegistry_FindByDisplayName(t *testing.T) {
	r := newTestRegistry()

	e, ok := r.FindByDisplayName("Water")
	require.True(t, ok)
	require.Equal(t, industry.CategoryPIMaterial, e.Category())

	_, ok = r.FindByDisplayName("Unknown Hull")
	require.False(t, ok)

	_, ok = r.FindByDisplayName("Water", industry.CategoryShip)
	require.False(t, ok, "scan is restricted to the given categories")
}

func TestRegistry_FindByDisplayName_AmbiguityPrefersShips(t *testing.T) {
	r := newTestRegistry()
	r.Register(capital("rifter_capital", "Rifter", "Minmatar", "Titan"))
	r.Register(&industry.Component{EntryBase: industry.EntryBase{Key: "rifter_part", DisplayName: "Rifter"}})

	e, ok := r.FindByDisplayName("Rifter")
	require.True(t, ok)
	require.Equal(t, industry.CategoryShip, e.Category())

	e, ok = r.FindByDisplayName("Rifter", industry.CategoryComponent, industry.CategoryCapitalShip)
	require.True(t, ok)
	require.Equal(t, industry.CategoryComponent, e.Category(), "caller order decides")
}

func TestRegistry_Filter(t *testing.T) {
	r := newTestRegistry()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"rifter", "merlin", "thorax"}},
		{"all is no filter", Filter{Faction: "All", Type: "all"}, []string{"rifter", "merlin", "thorax"}},
		{"faction", Filter{Faction: "Caldari"}, []string{"merlin"}},
		{"type", Filter{Type: "Frigate"}, []string{"rifter", "merlin"}},
		{"faction and type", Filter{Faction: "Gallente", Type: "Frigate"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keys(r.Filter(industry.CategoryShip, tt.filter))
			if tt.want == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_FilterOwnedOnly(t *testing.T) {
	r := newTestRegistry()
	require.Empty(t, r.Filter(industry.CategoryShip, Filter{OwnedOnly: true}))

	require.True(t, r.SetOwned(industry.CategoryShip, "thorax", true))
	require.False(t, r.SetOwned(industry.CategoryShip, "missing", true))

	require.Equal(t, []string{"thorax"}, keys(r.Filter(industry.CategoryShip, Filter{OwnedOnly: true})))
}

func TestRegistry_FilterVariantsWithoutFaction(t *testing.T) {
	r := newTestRegistry()
	require.Len(t, r.Filter(industry.CategoryComponent, Filter{}), 1)
	require.Empty(t, r.Filter(industry.CategoryComponent, Filter{Faction: "Minmatar"}))
}

func TestRegistry_CombinedShips(t *testing.T) {
	r := newTestRegistry()

	got := keys(r.CombinedShips(Filter{Faction: "Minmatar"}))
	require.Equal(t, []string{"rifter", "naglfar"}, got)

	got = keys(r.CombinedShips(Filter{}))
	require.Equal(t, []string{"rifter", "merlin", "thorax", "naglfar"}, got)
}

func TestRegistry_HasComponent(t *testing.T) {
	r := newTestRegistry()
	require.True(t, r.HasComponent("naglfar", "Capital Armor Plates"))
	require.False(t, r.HasComponent("naglfar", "Capital Drone Bay"))
	require.False(t, r.HasComponent("rifter", "Capital Armor Plates"))
}

func TestRegistry_ResetOwned(t *testing.T) {
	r := newTestRegistry()
	require.True(t, r.SetOwned(industry.CategoryShip, "rifter", true))
	require.True(t, r.SetOwned(industry.CategoryCapitalShip, "naglfar", true))

	r.ResetOwned()

	require.Empty(t, r.Filter(industry.CategoryShip, Filter{OwnedOnly: true}))
	require.Empty(t, r.CombinedShips(Filter{OwnedOnly: true}))
}
