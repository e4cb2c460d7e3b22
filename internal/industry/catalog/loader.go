package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/rsned/industry-planner/internal/industry/logging"
	"github.com/rsned/industry-planner/pkg/industry"
)

//go:embed data/catalog.yaml
var sampleFS embed.FS

// File is the root structure of a YAML catalog document. Each section lists
// the records of one category; the section decides the category.
type File struct {
	Ships        []industry.RawRecord `yaml:"ships"`
	CapitalShips []industry.RawRecord `yaml:"capital_ships"`
	Components   []industry.RawRecord `yaml:"components"`
	PIMaterials  []industry.RawRecord `yaml:"pi_materials"`
}

// Records flattens the sections in category priority order.
func (f File) Records() []industry.RawRecord {
	sections := []struct {
		cat     industry.Category
		records []industry.RawRecord
	}{
		{industry.CategoryShip, f.Ships},
		{industry.CategoryCapitalShip, f.CapitalShips},
		{industry.CategoryComponent, f.Components},
		{industry.CategoryPIMaterial, f.PIMaterials},
	}

	var out []industry.RawRecord
	for _, s := range sections {
		for _, rec := range s.records {
			rec.Category = s.cat
			out = append(out, rec)
		}
	}
	return out
}

// ParseYAML decodes a YAML catalog document.
func ParseYAML(data []byte) ([]industry.RawRecord, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return f.Records(), nil
}

// LoadYAML reads and decodes a YAML catalog document from fsys.
func LoadYAML(fsys fs.FS, path string) ([]industry.RawRecord, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	records, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// SampleCatalog returns the small catalog embedded in the binary.
func SampleCatalog() ([]industry.RawRecord, error) {
	return LoadYAML(sampleFS, "data/catalog.yaml")
}

// PopulateStats reports what Populate did.
type PopulateStats struct {
	Registered int
	Skipped    int
}

// Populate registers raw records. Records with an unknown category or an
// empty key are logged and skipped.
func Populate(reg *Registry, records []industry.RawRecord, logger *slog.Logger) PopulateStats {
	logger = logging.OrDefault(logger)

	var stats PopulateStats
	for _, rec := range records {
		if rec.Key == "" {
			logger.Warn("skipping catalog record without key", "display_name", rec.DisplayName)
			stats.Skipped++
			continue
		}
		e, ok := rec.Entry()
		if !ok {
			logger.Warn("skipping catalog record with unknown category",
				"key", rec.Key, "category", rec.Category)
			stats.Skipped++
			continue
		}
		reg.Register(e)
		stats.Registered++
	}

	logger.Debug("catalog populated", "registered", stats.Registered, "skipped", stats.Skipped)
	return stats
}
