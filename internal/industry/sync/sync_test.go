package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsned/industry-planner/internal/industry/catalog"
	"github.com/rsned/industry-planner/internal/industry/db"
	"github.com/rsned/industry-planner/internal/industry/logging"
	"github.com/rsned/industry-planner/pkg/industry"
)

func newTestSyncer(t *testing.T) *Syncer {
	t.Helper()
	database, err := db.OpenAndInit(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewSyncer(database, logging.Discard())
}

func writeImport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sectionedJSON = `{
	"ships": [
		{"key": "rifter", "display_name": "Rifter", "faction": "Minmatar", "ship_type": "Frigate",
		 "build_time_sec": 6000, "requirements": {"Tritanium": 32000, "Pyerite": 6000}},
		{"name": "Merlin", "shipType": "Frigate", "faction": "Caldari",
		 "requirements": [{"material": "Tritanium", "quantity": 30000}]}
	],
	"capital_ships": [
		{"id": "naglfar", "displayName": "Naglfar", "type": "Dreadnought",
		 "requirements": {"Capital Armor Plates": 20},
		 "components": {"Capital Armor Plates": [{"item": "Tritanium", "qty": 330000}]}}
	],
	"pi_materials": [
		{"key": "water", "name": "Water", "tier": 1, "materials": {"Aqueous Liquids": 3000}},
		{"display_name": ""}
	]
}`

func TestImportCatalogFromFile_JSON(t *testing.T) {
	s := newTestSyncer(t)
	ctx := context.Background()

	stats, err := s.ImportCatalogFromFile(ctx, writeImport(t, "catalog.json", sectionedJSON), false)
	require.NoError(t, err)
	require.Equal(t, ImportStats{Imported: 4, Skipped: 1}, stats)

	reg := catalog.NewRegistry()
	populated, err := s.LoadRegistry(ctx, reg)
	require.NoError(t, err)
	require.Equal(t, 4, populated.Registered)

	merlin, ok := reg.Get(industry.CategoryShip, "merlin")
	require.True(t, ok, "key derived from name")
	require.Equal(t, "Merlin", merlin.Base().DisplayName)
	require.Equal(t, industry.Requirements{"Tritanium": 30000}, merlin.Base().Requirements)
	_, shipType, _ := industry.FactionAndType(merlin)
	require.Equal(t, "Frigate", shipType)

	naglfar, ok := reg.Get(industry.CategoryCapitalShip, "naglfar")
	require.True(t, ok)
	require.Equal(t, "Naglfar", naglfar.Base().DisplayName)
	require.True(t, reg.HasComponent("naglfar", "Capital Armor Plates"))
	require.Equal(t, industry.Requirements{"Tritanium": 330000},
		naglfar.(*industry.CapitalShip).Components["Capital Armor Plates"])

	water, ok := reg.Get(industry.CategoryPIMaterial, "water")
	require.True(t, ok)
	require.Equal(t, industry.Requirements{"Aqueous Liquids": 3000}, water.Base().Requirements)

	st, err := s.Status(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, st.LastSync)
	require.Contains(t, st.Source, "catalog.json")
	require.Equal(t, 2, st.Counts[industry.CategoryShip])
}

func TestImportCatalogFromFile_YAMLFlatList(t *testing.T) {
	s := newTestSyncer(t)
	ctx := context.Background()

	path := writeImport(t, "catalog.yml", `
- category: ship
  key: thorax
  display_name: Thorax
  requirements:
    - material: Tritanium
      quantity: 560000
- category: components
  key: fusion_reactor_unit
  display_name: Fusion Reactor Unit
  requirements:
    Titanium Carbide: 22
- category: boats
  key: dinghy
`)
	stats, err := s.ImportCatalogFromFile(ctx, path, false)
	require.NoError(t, err)
	require.Equal(t, ImportStats{Imported: 2, Skipped: 1}, stats)

	reg := catalog.NewRegistry()
	_, err = s.LoadRegistry(ctx, reg)
	require.NoError(t, err)
	thorax, ok := reg.Get(industry.CategoryShip, "thorax")
	require.True(t, ok)
	require.Equal(t, 560000, thorax.Base().Requirements["Tritanium"])
	require.Equal(t, 1, reg.Len(industry.CategoryComponent))
}

func TestImportCatalogFromFile_Replace(t *testing.T) {
	s := newTestSyncer(t)
	ctx := context.Background()

	_, err := s.ImportCatalogFromFile(ctx, writeImport(t, "catalog.json", sectionedJSON), false)
	require.NoError(t, err)

	_, err = s.ImportCatalogFromFile(ctx, writeImport(t, "small.json", `[{"category": "ships", "key": "drake"}]`), true)
	require.NoError(t, err)

	reg := catalog.NewRegistry()
	stats, err := s.LoadRegistry(ctx, reg)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Registered)
}

func TestImportCatalogFromFile_Errors(t *testing.T) {
	s := newTestSyncer(t)
	ctx := context.Background()

	_, err := s.ImportCatalogFromFile(ctx, filepath.Join(t.TempDir(), "missing.json"), false)
	require.Error(t, err)

	_, err = s.ImportCatalogFromFile(ctx, writeImport(t, "bad.json", `{"ships": [`), false)
	require.Error(t, err)

	_, err = s.ImportCatalogFromFile(ctx, writeImport(t, "neg.json",
		`{"ships": [{"key": "rifter", "requirements": {"Tritanium": -1}}]}`), false)
	require.NoError(t, err, "bad records are skipped, not fatal")
}

func TestImportRecords_MetadataFailureIsWrapped(t *testing.T) {
	s := newTestSyncer(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `DROP TABLE sync_metadata`)
	require.NoError(t, err)

	err = s.ImportRecords(ctx, []industry.RawRecord{{Category: industry.CategoryShip, Key: "drake", DisplayName: "Drake"}}, "test", false)
	require.ErrorContains(t, err, "recording sync metadata")
}

func TestSeedIfEmpty(t *testing.T) {
	s := newTestSyncer(t)
	ctx := context.Background()

	records, err := catalog.SampleCatalog()
	require.NoError(t, err)

	seeded, err := s.SeedIfEmpty(ctx, records, "embedded sample")
	require.NoError(t, err)
	require.True(t, seeded)

	seeded, err = s.SeedIfEmpty(ctx, records[:1], "again")
	require.NoError(t, err)
	require.False(t, seeded)

	reg := catalog.NewRegistry()
	stats, err := s.LoadRegistry(ctx, reg)
	require.NoError(t, err)
	require.Equal(t, len(records), stats.Registered)

	// Registration order survives the round trip through the store.
	ships := reg.All(industry.CategoryShip)
	require.Equal(t, "rifter", ships[0].Base().Key)
	require.Equal(t, "drake", ships[len(ships)-1].Base().Key)
}
