package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rsned/industry-planner/pkg/industry"
)

// CatalogStore handles catalog entry data access.
type CatalogStore struct {
	db *DB
}

// NewCatalogStore creates a new CatalogStore.
func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// BulkInsertRecords inserts or replaces records in one transaction. Records
// keep their slice order as their listing position.
func (s *CatalogStore) BulkInsertRecords(ctx context.Context, records []industry.RawRecord) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		return insertRecords(ctx, tx, records)
	})
}

// ReplaceAll clears the catalog and inserts records in one transaction.
func (s *CatalogStore) ReplaceAll(ctx context.Context, records []industry.RawRecord) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_entries`); err != nil {
			return fmt.Errorf("clearing catalog: %w", err)
		}
		return insertRecords(ctx, tx, records)
	})
}

func insertRecords(ctx context.Context, tx *sql.Tx, records []industry.RawRecord) error {
	var base int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM catalog_entries`).Scan(&base); err != nil {
		return fmt.Errorf("reading catalog position: %w", err)
	}

	// Replacing an entry must drop its old requirement rows too, which the
	// cascade handles.
	deleteStmt, err := tx.PrepareContext(ctx, `
		DELETE FROM catalog_entries WHERE category = ? AND key = ?
	`)
	if err != nil {
		return fmt.Errorf("preparing delete statement: %w", err)
	}
	defer func() { _ = deleteStmt.Close() }()

	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_entries
		(category, key, display_name, position, build_time_sec, faction, ship_type, item_group, tier)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing entry statement: %w", err)
	}
	defer func() { _ = entryStmt.Close() }()

	reqStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO entry_requirements (category, key, material, quantity)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing requirement statement: %w", err)
	}
	defer func() { _ = reqStmt.Close() }()

	compStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO capital_components (category, key, component)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing component statement: %w", err)
	}
	defer func() { _ = compStmt.Close() }()

	compReqStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO component_requirements (category, key, component, material, quantity)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing component requirement statement: %w", err)
	}
	defer func() { _ = compReqStmt.Close() }()

	for i, r := range records {
		if !r.Category.IsCatalog() {
			return fmt.Errorf("record %s: unknown category %q", r.Key, r.Category)
		}
		if r.Key == "" {
			return fmt.Errorf("record %d (%s): empty key", i, r.DisplayName)
		}
		display := r.DisplayName
		if display == "" {
			display = r.Key
		}

		if _, err := deleteStmt.ExecContext(ctx, string(r.Category), r.Key); err != nil {
			return fmt.Errorf("replacing entry %s/%s: %w", r.Category, r.Key, err)
		}
		_, err := entryStmt.ExecContext(ctx,
			string(r.Category), r.Key, display, base+i,
			r.BuildTimeSec, r.Faction, r.ShipType, r.Group, r.Tier,
		)
		if err != nil {
			return fmt.Errorf("inserting entry %s/%s: %w", r.Category, r.Key, err)
		}

		for material, qty := range r.Requirements {
			if _, err := reqStmt.ExecContext(ctx, string(r.Category), r.Key, material, qty); err != nil {
				return fmt.Errorf("inserting requirement for %s: %w", r.Key, err)
			}
		}

		for component, req := range r.Components {
			if _, err := compStmt.ExecContext(ctx, string(r.Category), r.Key, component); err != nil {
				return fmt.Errorf("inserting component %s for %s: %w", component, r.Key, err)
			}
			for material, qty := range req {
				if _, err := compReqStmt.ExecContext(ctx, string(r.Category), r.Key, component, material, qty); err != nil {
					return fmt.Errorf("inserting component requirement for %s: %w", r.Key, err)
				}
			}
		}
	}

	return nil
}

type entryID struct {
	category industry.Category
	key      string
}

// LoadRecords returns every stored record, grouped by category in lookup
// priority order and by insertion order within a category.
func (s *CatalogStore) LoadRecords(ctx context.Context) ([]industry.RawRecord, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[entryID]*industry.RawRecord, len(entries))
	for _, r := range entries {
		index[entryID{r.Category, r.Key}] = r
	}
	if err := s.loadRequirements(ctx, index); err != nil {
		return nil, err
	}
	if err := s.loadComponents(ctx, index); err != nil {
		return nil, err
	}

	records := make([]industry.RawRecord, 0, len(entries))
	for _, cat := range industry.CatalogCategories() {
		for _, r := range entries {
			if r.Category == cat {
				records = append(records, *r)
			}
		}
	}
	return records, nil
}

// loadEntries reads the entry rows. The cursor is closed before returning so
// follow-up queries can reuse the single connection.
func (s *CatalogStore) loadEntries(ctx context.Context) ([]*industry.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, key, display_name, build_time_sec, faction, ship_type, item_group, tier
		FROM catalog_entries
		ORDER BY position, category, key
	`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*industry.RawRecord
	for rows.Next() {
		r := &industry.RawRecord{}
		if err := rows.Scan(
			&r.Category,
			&r.Key,
			&r.DisplayName,
			&r.BuildTimeSec,
			&r.Faction,
			&r.ShipType,
			&r.Group,
			&r.Tier,
		); err != nil {
			return nil, fmt.Errorf("scanning catalog entry: %w", err)
		}
		r.Requirements = industry.Requirements{}
		entries = append(entries, r)
	}
	return entries, rows.Err()
}

func (s *CatalogStore) loadRequirements(ctx context.Context, index map[entryID]*industry.RawRecord) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, key, material, quantity FROM entry_requirements
	`)
	if err != nil {
		return fmt.Errorf("querying requirements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id entryID
		var material string
		var qty int
		if err := rows.Scan(&id.category, &id.key, &material, &qty); err != nil {
			return fmt.Errorf("scanning requirement: %w", err)
		}
		if r, ok := index[id]; ok {
			r.Requirements[material] = qty
		}
	}
	return rows.Err()
}

func (s *CatalogStore) loadComponents(ctx context.Context, index map[entryID]*industry.RawRecord) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.category, c.key, c.component, r.material, r.quantity
		FROM capital_components c
		LEFT JOIN component_requirements r
			ON r.category = c.category AND r.key = c.key AND r.component = c.component
	`)
	if err != nil {
		return fmt.Errorf("querying capital components: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id entryID
		var component string
		var material sql.NullString
		var qty sql.NullInt64
		if err := rows.Scan(&id.category, &id.key, &component, &material, &qty); err != nil {
			return fmt.Errorf("scanning capital component: %w", err)
		}
		r, ok := index[id]
		if !ok {
			continue
		}
		if r.Components == nil {
			r.Components = make(map[string]industry.Requirements)
		}
		if r.Components[component] == nil {
			r.Components[component] = industry.Requirements{}
		}
		if material.Valid {
			r.Components[component][material.String] = int(qty.Int64)
		}
	}
	return rows.Err()
}

// CountEntries returns the number of stored entries per category.
func (s *CatalogStore) CountEntries(ctx context.Context) (map[industry.Category]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM catalog_entries GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("counting catalog entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[industry.Category]int)
	for rows.Next() {
		var cat industry.Category
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[cat] = n
	}
	return counts, rows.Err()
}

// ClearCatalog removes all catalog data (for re-import).
func (s *CatalogStore) ClearCatalog(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		// Foreign keys cascade to requirements and components.
		_, err := tx.ExecContext(ctx, `DELETE FROM catalog_entries`)
		return err
	})
}
