package blueprints

import (
	"log/slog"

	"github.com/rsned/industry-planner/internal/industry/logging"
	"github.com/rsned/industry-planner/pkg/industry"
)

// OwnershipTarget is the part of the registry ApplyToRegistry needs.
type OwnershipTarget interface {
	ResetOwned()
	SetOwned(cat industry.Category, key string, owned bool) bool
	HasComponent(capitalKey, component string) bool
	FindByDisplayName(name string, cats ...industry.Category) (industry.Entry, bool)
}

// ApplyStats counts what ApplyToRegistry matched.
type ApplyStats struct {
	Applied    int
	Components int
	Unmatched  int
}

// ApplyToRegistry copies the owned flag of every record onto the entry with
// the same internal key. Entries without a record are reset to unowned first,
// so removing a record drops the ownership it granted. Records without a matching entry are skipped and
// counted. Component blueprint records count as matched when the capital
// ship has that component; they carry no entry flag.
func ApplyToRegistry(c Config, target OwnershipTarget, logger *slog.Logger) ApplyStats {
	logger = logging.OrDefault(logger)

	target.ResetOwned()

	var stats ApplyStats
	for _, cat := range c.Categories() {
		for _, name := range c.Names(cat) {
			rec := c[cat][name]

			if cat == industry.CategoryComponentBlueprint {
				capitalKey, component, ok := industry.SplitComponentBlueprintName(name)
				if ok && target.HasComponent(capitalKey, component) {
					stats.Components++
					continue
				}
				stats.Unmatched++
				logger.Debug("component blueprint has no catalog match", "blueprint", name)
				continue
			}

			if target.SetOwned(cat, name, rec.Owned) {
				stats.Applied++
				continue
			}

			stats.Unmatched++
			if !logging.DebugEnabled() {
				continue
			}
			if e, ok := target.FindByDisplayName(name, cat); ok {
				logger.Debug("blueprint record uses a display name, expected the internal key",
					"category", cat, "blueprint", name, "key", e.Base().Key)
			} else {
				logger.Debug("blueprint record has no catalog match", "category", cat, "blueprint", name)
			}
		}
	}

	logger.Debug("applied blueprint ownership",
		"applied", stats.Applied, "components", stats.Components, "unmatched", stats.Unmatched)
	return stats
}
