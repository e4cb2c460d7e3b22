package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsned/industry-planner/pkg/industry"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenAndInit(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestOpenAndInit_AppliesMigrations(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	version, dirty, err := database.SchemaVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)
	require.False(t, dirty)

	// Migrating again is a no-op.
	require.NoError(t, database.Migrate(ctx))
}

func TestOpenAndInit_InMemory(t *testing.T) {
	database, err := OpenAndInit(context.Background(), ":memory:")
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	n, err := NewCatalogStore(database).CountEntries(context.Background())
	require.NoError(t, err)
	require.Empty(t, n)
}

func TestInTransaction_RollsBack(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := database.InTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_entries (category, key, display_name) VALUES ('ships', 'rifter', 'Rifter')
		`)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	counts, err := NewCatalogStore(database).CountEntries(ctx)
	require.NoError(t, err)
	require.Zero(t, counts[industry.CategoryShip])
}

func TestSyncMetadata(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	v, err := database.GetSyncMetadata(ctx, "last_import")
	require.NoError(t, err)
	require.Empty(t, v)

	require.NoError(t, database.SetSyncMetadata(ctx, "last_import", "a"))
	require.NoError(t, database.SetSyncMetadata(ctx, "last_import", "b"))

	v, err = database.GetSyncMetadata(ctx, "last_import")
	require.NoError(t, err)
	require.Equal(t, "b", v)
}
