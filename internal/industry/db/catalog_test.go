package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsned/industry-planner/pkg/industry"
)

func testRecords() []industry.RawRecord {
	return []industry.RawRecord{
		{
			Category:     industry.CategoryPIMaterial,
			Key:          "water",
			DisplayName:  "Water",
			Tier:         1,
			Requirements: industry.Requirements{"Aqueous Liquids": 3000},
		},
		{
			Category:     industry.CategoryShip,
			Key:          "rifter",
			DisplayName:  "Rifter",
			Faction:      "Minmatar",
			ShipType:     "Frigate",
			BuildTimeSec: 6000,
			Requirements: industry.Requirements{"Tritanium": 32000, "Pyerite": 6000},
		},
		{
			Category:     industry.CategoryCapitalShip,
			Key:          "naglfar",
			DisplayName:  "Naglfar",
			Faction:      "Minmatar",
			ShipType:     "Dreadnought",
			Requirements: industry.Requirements{"Capital Armor Plates": 20},
			Components: map[string]industry.Requirements{
				"Capital Armor Plates": {"Tritanium": 330000},
				"Capital Empty Shell":  {},
			},
		},
		{
			Category: industry.CategoryShip,
			Key:      "merlin",
			Group:    "",
		},
	}
}

func TestCatalogStore_RoundTrip(t *testing.T) {
	store := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.BulkInsertRecords(ctx, testRecords()))

	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)

	// Category priority first, then insertion order.
	require.Equal(t, "rifter", records[0].Key)
	require.Equal(t, "merlin", records[1].Key)
	require.Equal(t, "naglfar", records[2].Key)
	require.Equal(t, "water", records[3].Key)

	require.Equal(t, "Minmatar", records[0].Faction)
	require.InDelta(t, 6000, records[0].BuildTimeSec, 1e-9)
	require.Equal(t, industry.Requirements{"Tritanium": 32000, "Pyerite": 6000}, records[0].Requirements)
	require.Equal(t, "merlin", records[1].DisplayName, "display name defaults to the key")

	require.Equal(t, map[string]industry.Requirements{
		"Capital Armor Plates": {"Tritanium": 330000},
		"Capital Empty Shell":  {},
	}, records[2].Components)
	require.Equal(t, 1, records[3].Tier)
}

func TestCatalogStore_ReinsertReplaces(t *testing.T) {
	store := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.BulkInsertRecords(ctx, testRecords()))
	require.NoError(t, store.BulkInsertRecords(ctx, []industry.RawRecord{{
		Category:     industry.CategoryShip,
		Key:          "rifter",
		DisplayName:  "Rifter II",
		Requirements: industry.Requirements{"Tritanium": 1},
	}}))

	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)

	var rifter industry.RawRecord
	for _, r := range records {
		if r.Key == "rifter" {
			rifter = r
		}
	}
	require.Equal(t, "Rifter II", rifter.DisplayName)
	require.Equal(t, industry.Requirements{"Tritanium": 1}, rifter.Requirements, "old requirement rows are dropped")
}

func TestCatalogStore_InvalidRecordRollsBack(t *testing.T) {
	store := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	records := append(testRecords(), industry.RawRecord{Category: "boats", Key: "dinghy"})
	require.Error(t, store.BulkInsertRecords(ctx, records))

	counts, err := store.CountEntries(ctx)
	require.NoError(t, err)
	require.Empty(t, counts)
}

func TestCatalogStore_CountReplaceAndClear(t *testing.T) {
	store := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.BulkInsertRecords(ctx, testRecords()))
	counts, err := store.CountEntries(ctx)
	require.NoError(t, err)
	require.Equal(t, map[industry.Category]int{
		industry.CategoryShip:        2,
		industry.CategoryCapitalShip: 1,
		industry.CategoryPIMaterial:  1,
	}, counts)

	require.NoError(t, store.ReplaceAll(ctx, testRecords()[:1]))
	counts, err = store.CountEntries(ctx)
	require.NoError(t, err)
	require.Equal(t, map[industry.Category]int{industry.CategoryPIMaterial: 1}, counts)

	require.NoError(t, store.ClearCatalog(ctx))
	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Empty(t, records)

	var orphans int
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entry_requirements`).Scan(&orphans))
	require.Zero(t, orphans, "requirements cascade with their entry")
}
