// Package sync imports catalog data into the SQLite store and loads it back
// into a registry.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/rsned/industry-planner/internal/industry/catalog"
	"github.com/rsned/industry-planner/internal/industry/db"
	"github.com/rsned/industry-planner/internal/industry/logging"
	"github.com/rsned/industry-planner/pkg/industry"
)

// Sync metadata keys.
const (
	MetaLastSync = "catalog_last_sync"
	MetaCount    = "catalog_count"
	MetaSource   = "catalog_source"
)

// Syncer handles catalog data synchronization.
type Syncer struct {
	db      *db.DB
	catalog *db.CatalogStore
	logger  *slog.Logger
}

// NewSyncer creates a new Syncer.
func NewSyncer(database *db.DB, logger *slog.Logger) *Syncer {
	return &Syncer{
		db:      database,
		catalog: db.NewCatalogStore(database),
		logger:  logging.OrDefault(logger),
	}
}

// ImportStats reports what an import did.
type ImportStats struct {
	Imported int
	Skipped  int
}

// ImportCatalogFromFile imports catalog records from a JSON or YAML file.
// Records that cannot be interpreted are skipped and logged. With replace set
// the existing catalog is dropped first; otherwise records are upserted.
func (s *Syncer) ImportCatalogFromFile(ctx context.Context, path string, replace bool) (ImportStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportStats{}, fmt.Errorf("reading file: %w", err)
	}

	imp, err := ParseImport(data, DetectFormat(path, data))
	if err != nil {
		return ImportStats{}, fmt.Errorf("%s: %w", path, err)
	}

	records, stats := s.transform(imp)
	if err := s.ImportRecords(ctx, records, path, replace); err != nil {
		return stats, err
	}
	stats.Imported = len(records)
	return stats, nil
}

func (s *Syncer) transform(imp CatalogImport) ([]industry.RawRecord, ImportStats) {
	sections := []struct {
		cat     industry.Category
		records []RecordImport
	}{
		{industry.CategoryShip, imp.Ships},
		{industry.CategoryCapitalShip, imp.CapitalShips},
		{industry.CategoryCapitalShip, imp.Capitals},
		{industry.CategoryComponent, imp.Components},
		{industry.CategoryPIMaterial, imp.PIMaterials},
		{"", imp.Entries},
	}

	var stats ImportStats
	var records []industry.RawRecord
	for _, section := range sections {
		for i, ri := range section.records {
			rec, err := transformRecord(ri, section.cat)
			if err != nil {
				s.logger.Warn("skipping import record",
					"section", section.cat,
					"index", i,
					"error", err)
				stats.Skipped++
				continue
			}
			records = append(records, rec)
		}
	}
	return records, stats
}

// ImportRecords writes records to the catalog store in one transaction and
// records sync metadata. source names where they came from.
func (s *Syncer) ImportRecords(ctx context.Context, records []industry.RawRecord, source string, replace bool) error {
	var err error
	if replace {
		err = s.catalog.ReplaceAll(ctx, records)
	} else {
		err = s.catalog.BulkInsertRecords(ctx, records)
	}
	if err != nil {
		return fmt.Errorf("inserting catalog records: %w", err)
	}

	// Update sync metadata
	if err := s.db.SetSyncMetadata(ctx, MetaLastSync, time.Now().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("recording sync metadata: %w", err)
	}
	if err := s.db.SetSyncMetadata(ctx, MetaCount, strconv.Itoa(len(records))); err != nil {
		return fmt.Errorf("recording sync metadata: %w", err)
	}
	if err := s.db.SetSyncMetadata(ctx, MetaSource, source); err != nil {
		return fmt.Errorf("recording sync metadata: %w", err)
	}

	s.logger.Info("catalog imported", "source", source, "records", len(records), "replace", replace)
	return nil
}

// SeedIfEmpty imports records only when the catalog store holds nothing. It
// reports whether it seeded.
func (s *Syncer) SeedIfEmpty(ctx context.Context, records []industry.RawRecord, source string) (bool, error) {
	counts, err := s.catalog.CountEntries(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range counts {
		if n > 0 {
			return false, nil
		}
	}
	if err := s.ImportRecords(ctx, records, source, false); err != nil {
		return false, err
	}
	return true, nil
}

// LoadRegistry registers every stored record into reg.
func (s *Syncer) LoadRegistry(ctx context.Context, reg *catalog.Registry) (catalog.PopulateStats, error) {
	records, err := s.catalog.LoadRecords(ctx)
	if err != nil {
		return catalog.PopulateStats{}, fmt.Errorf("loading catalog: %w", err)
	}
	return catalog.Populate(reg, records, s.logger), nil
}

// Status summarizes the stored catalog for display.
type Status struct {
	LastSync string
	Source   string
	Counts   map[industry.Category]int
}

// Status reports the stored catalog counts and the last import.
func (s *Syncer) Status(ctx context.Context) (Status, error) {
	var st Status
	var err error
	if st.LastSync, err = s.db.GetSyncMetadata(ctx, MetaLastSync); err != nil {
		return st, err
	}
	if st.Source, err = s.db.GetSyncMetadata(ctx, MetaSource); err != nil {
		return st, err
	}
	if st.Counts, err = s.catalog.CountEntries(ctx); err != nil {
		return st, err
	}
	return st, nil
}
