package blueprints

import (
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/rsned/industry-planner/internal/industry/logging"
	"github.com/rsned/industry-planner/pkg/industry"
)

// legacySuffix was appended to blueprint names by older releases.
const legacySuffix = "_data"

// Migrate upgrades a raw document to the current schema. Legacy record shapes
// (bare booleans, "Owned"/"Unowned"/"Invented" strings) become structured
// records, missing fields take defaults, efficiency levels are clamped and the
// legacy name suffix is stripped. When two names collapse into one, the value
// seen last in the document wins. Migrating an already current document
// returns an equal configuration.
func Migrate(doc Document, logger *slog.Logger) Config {
	cfg, _ := migrate(doc, logging.OrDefault(logger))
	return cfg
}

// migrate also reports whether anything had to change, so the caller knows
// to rewrite the file.
func migrate(doc Document, logger *slog.Logger) (Config, bool) {
	cfg := NewConfig()
	changed := false

	for _, cat := range doc {
		records, ok := cat.Value.(Object)
		if !ok {
			logger.Warn("dropping malformed blueprint category", "category", cat.Name)
			changed = true
			continue
		}
		category := industry.Category(cat.Name)
		if _, ok := cfg[category]; !ok {
			cfg[category] = make(map[string]Record)
		}

		for _, m := range records {
			name := normalizeName(m.Name)
			if name == "" {
				logger.Warn("dropping blueprint record without name", "category", cat.Name, "raw_name", m.Name)
				changed = true
				continue
			}
			if name != m.Name {
				changed = true
			}

			rec, canonical := migrateRecord(m.Value)
			if !canonical {
				logger.Debug("migrated legacy blueprint record",
					"category", cat.Name, "blueprint", name, "raw", m.Value)
				changed = true
			}
			if _, dup := cfg[category][name]; dup {
				changed = true
			}
			cfg[category][name] = rec
		}
	}

	return cfg, changed
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	for strings.HasSuffix(name, legacySuffix) {
		name = strings.TrimSuffix(name, legacySuffix)
	}
	return name
}

// migrateRecord converts one raw value. canonical is true when the value was
// already a complete, in-range record.
func migrateRecord(v any) (Record, bool) {
	switch val := v.(type) {
	case bool:
		return Record{Owned: val}, false
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "owned", "true":
			return Record{Owned: true}, false
		case "invented":
			return Record{Invented: true}, false
		default:
			return Record{}, false
		}
	case Object:
		return migrateObject(val)
	default:
		return Record{}, false
	}
}

func migrateObject(obj Object) (Record, bool) {
	var rec Record
	seen := make(map[Field]bool)
	canonical := true

	for _, m := range obj {
		field, ok := fieldAlias(m.Name)
		if !ok {
			canonical = false
			continue
		}
		seen[field] = true

		switch field {
		case FieldOwned, FieldInvented:
			b, exact := toBool(m.Value)
			if !exact {
				canonical = false
			}
			if field == FieldOwned {
				rec.Owned = b
			} else {
				rec.Invented = b
			}
		case FieldME, FieldTE:
			n, exact := toInt(m.Value)
			limited := industry.ClampME(n)
			if field == FieldTE {
				limited = industry.ClampTE(n)
			}
			if !exact || limited != n {
				canonical = false
			}
			if field == FieldME {
				rec.ME = limited
			} else {
				rec.TE = limited
			}
		}
		if m.Name != string(field) {
			canonical = false
		}
	}

	if len(seen) != 4 || len(obj) != 4 {
		canonical = false
	}
	return rec, canonical
}

func fieldAlias(name string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "owned":
		return FieldOwned, true
	case "invented":
		return FieldInvented, true
	case "me", "material_efficiency":
		return FieldME, true
	case "te", "time_efficiency":
		return FieldTE, true
	}
	return "", false
}

// toBool coerces a raw value. exact is true only for a JSON boolean.
func toBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "1", "owned", "invented":
			return true, false
		}
		return false, false
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0, false
	default:
		return false, false
	}
}

// toInt coerces a raw value, rounding fractions half up. exact is true only
// for a JSON integer.
func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return clampInt64(n), true
		}
		if f, err := val.Float64(); err == nil {
			return roundFloat(f), false
		}
		return 0, false
	case string:
		s := strings.TrimSpace(val)
		if n, err := strconv.Atoi(s); err == nil {
			return n, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return roundFloat(f), false
		}
		return 0, false
	case float64:
		return roundFloat(val), false
	case int:
		return val, true
	default:
		return 0, false
	}
}

func roundFloat(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	return clampInt64(int64(math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Floor(f+0.5)))))
}

func clampInt64(n int64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < math.MinInt32 {
		return math.MinInt32
	}
	return int(n)
}
