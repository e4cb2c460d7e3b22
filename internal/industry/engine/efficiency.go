package engine

import (
	"fmt"
	"math"

	"github.com/rsned/industry-planner/internal/industry/blueprints"
	"github.com/rsned/industry-planner/pkg/industry"
)

// ApplyMaterialEfficiency scales every base quantity by (100 - me) percent,
// with me clamped to [0, 10]. Results round half up to the nearest integer
// and are computed in integer arithmetic, so 0.5 always rounds up. Scaled
// quantities never exceed the base.
func ApplyMaterialEfficiency(req industry.Requirements, me int) industry.Requirements {
	me = industry.ClampME(me)
	out := make(industry.Requirements, len(req))
	for material, base := range req {
		out[material] = scaleQuantity(base, me)
	}
	return out
}

func scaleQuantity(base, me int) int {
	if base <= 0 || me == 0 {
		return base
	}
	return int((int64(base)*int64(100-me) + 50) / 100)
}

// ProductionTime returns base seconds reduced by te percent, with te clamped
// to [0, 20]. The result is not rounded.
func ProductionTime(baseSec float64, te int) float64 {
	te = industry.ClampTE(te)
	return baseSec * (1 - float64(te)/100)
}

// FormatDuration renders seconds as H:MM:SS, rounded to the nearest second.
func FormatDuration(sec float64) string {
	if sec <= 0 || math.IsNaN(sec) {
		return "0:00:00"
	}
	total := int64(math.Floor(sec + 0.5))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// Aggregate sums requirement maps per material. Materials missing from a map
// contribute zero.
func Aggregate(maps ...industry.Requirements) industry.Requirements {
	out := make(industry.Requirements)
	for _, m := range maps {
		for material, qty := range m {
			out[material] += qty
		}
	}
	return out
}

// Scale multiplies every quantity by runs. Non-positive runs yield an empty
// map.
func Scale(req industry.Requirements, runs int) industry.Requirements {
	out := make(industry.Requirements, len(req))
	if runs <= 0 {
		return out
	}
	for material, qty := range req {
		out[material] = qty * runs
	}
	return out
}

// EntryLookup finds entries by category and key.
type EntryLookup interface {
	Get(cat industry.Category, key string) (industry.Entry, bool)
}

// CalculateFor scales the requirements of one entry by the material
// efficiency configured for it. Unknown entries yield an empty map.
func CalculateFor(lookup EntryLookup, cfg blueprints.Config, cat industry.Category, key string) industry.Requirements {
	e, ok := lookup.Get(cat, key)
	if !ok {
		return industry.Requirements{}
	}
	return ApplyMaterialEfficiency(e.Base().Requirements, cfg.Get(cat, key).ME)
}
