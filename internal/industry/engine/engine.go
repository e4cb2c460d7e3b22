// Package engine contains the industry query business logic.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rsned/industry-planner/internal/industry/blueprints"
	"github.com/rsned/industry-planner/internal/industry/cache"
	"github.com/rsned/industry-planner/internal/industry/catalog"
	"github.com/rsned/industry-planner/internal/industry/logging"
	"github.com/rsned/industry-planner/pkg/industry"
)

// maxSuggestions bounds the did-you-mean list on failed lookups.
const maxSuggestions = 5

// Engine is the main query engine for industry operations.
type Engine struct {
	mu       sync.RWMutex // guards config
	registry *catalog.Registry
	store    *blueprints.Store
	config   blueprints.Config
	scaled   *cache.Cache[industry.Requirements]
	// scaledVersion is the registry version the memo was last filled at.
	scaledVersion atomic.Uint64
	logger        *slog.Logger
}

// New creates an Engine, loading the blueprint configuration from store and
// applying ownership to the registry.
func New(registry *catalog.Registry, store *blueprints.Store, logger *slog.Logger) *Engine {
	logger = logging.OrDefault(logger)
	e := &Engine{
		registry: registry,
		store:    store,
		scaled:   cache.New[industry.Requirements]("scaled-requirements", cache.DefaultExpiration, cache.DefaultCleanupInterval, logger),
		logger:   logger,
	}
	e.Reload()
	return e
}

// Reload re-reads the blueprint configuration and re-applies ownership.
func (e *Engine) Reload() blueprints.ApplyStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	flushed := e.scaled.Len()
	e.scaled.Flush()

	e.config = e.store.Load()
	stats := blueprints.ApplyToRegistry(e.config, e.registry, e.logger)
	e.logger.Debug("blueprint configuration loaded",
		"path", e.store.Path(),
		"applied", stats.Applied,
		"components", stats.Components,
		"unmatched", stats.Unmatched,
		"flushed", flushed)
	return stats
}

// Config returns the in-memory blueprint configuration.
func (e *Engine) Config() blueprints.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}

// Registry returns the catalog the engine queries.
func (e *Engine) Registry() *catalog.Registry {
	return e.registry
}

// resolve finds an entry by key, or by display name when no key is given.
// On a miss it returns suggestions for the name that was asked for.
func (e *Engine) resolve(ref industry.EntryRef) (industry.Entry, []string) {
	var cats []industry.Category
	if ref.Category != "" {
		cats = []industry.Category{ref.Category}
	}

	if ref.Key != "" {
		if len(cats) == 0 {
			cats = industry.CatalogCategories()
		}
		for _, cat := range cats {
			if entry, ok := e.registry.Get(cat, ref.Key); ok {
				return entry, nil
			}
		}
	} else if ref.Name != "" {
		if entry, ok := e.registry.FindByDisplayName(ref.Name, cats...); ok {
			return entry, nil
		}
	}

	query := ref.Name
	if query == "" {
		query = ref.Key
	}
	return nil, e.registry.Suggest(query, maxSuggestions)
}

// scaledRequirements returns per-unit requirements after material efficiency.
// Results are memoized per registry version; the memo is flushed when the
// version moves so stale keys do not linger until expiry.
func (e *Engine) scaledRequirements(cat industry.Category, name string, base industry.Requirements, me int) industry.Requirements {
	me = industry.ClampME(me)
	version := e.registry.Version()
	if prev := e.scaledVersion.Swap(version); prev != version {
		e.scaled.Flush()
	}
	key := fmt.Sprintf("%d|%s|%s|%d", version, cat, name, me)
	return e.scaled.GetOrCompute(key, func() industry.Requirements {
		return ApplyMaterialEfficiency(base, me)
	}).Clone()
}

// perUnit is the ME-scaled requirements of entry under the current
// configuration.
func (e *Engine) perUnit(entry industry.Entry) industry.Requirements {
	b := entry.Base()
	me := e.config.Get(entry.Category(), b.Key).ME
	return e.scaledRequirements(entry.Category(), b.Key, b.Requirements, me)
}

// productionTime is the TE-adjusted time for one run of entry.
func (e *Engine) productionTime(entry industry.Entry) float64 {
	b := entry.Base()
	return ProductionTime(b.BuildTimeSec, e.config.Get(entry.Category(), b.Key).TE)
}

func (e *Engine) summary(entry industry.Entry) industry.EntrySummary {
	b := entry.Base()
	rec := e.config.Get(entry.Category(), b.Key)
	s := industry.EntrySummary{
		Category:    entry.Category(),
		Key:         b.Key,
		DisplayName: b.DisplayName,
		Owned:       b.Owned(),
		Invented:    rec.Invented,
		ME:          rec.ME,
		TE:          rec.TE,
	}
	s.Faction, s.ShipType, _ = industry.FactionAndType(entry)
	return s
}

func defaultRuns(runs int) int {
	if runs <= 0 {
		return 1
	}
	return runs
}
