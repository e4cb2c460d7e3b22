package blueprints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rsned/industry-planner/internal/industry/logging"
	"github.com/rsned/industry-planner/pkg/industry"
)

// corruptSuffix is appended to an unreadable blueprint file before it is
// replaced with defaults.
const corruptSuffix = ".corrupt"

// Store reads and writes the blueprint file. Every write is a
// read-merge-write against the file's current contents, so a save only
// touches the fields it carries.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a Store for the JSON file at path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logging.OrDefault(logger)}
}

// Path returns the file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the configuration. A missing or unparsable file is replaced by
// a fresh default configuration, which is persisted and returned. Legacy
// files are migrated and rewritten in the current shape.
func (s *Store) Load() Config {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("blueprint file not found, creating default", "path", s.path)
		return s.resetToDefault()
	}
	if err != nil {
		s.logger.Error("reading blueprint file", "path", s.path, "error", err)
		return NewConfig()
	}

	doc, err := Parse(data)
	if err != nil {
		s.logger.Warn("blueprint file is corrupt, replacing with defaults", "path", s.path, "error", err)
		if err := os.Rename(s.path, s.path+corruptSuffix); err != nil {
			s.logger.Error("keeping corrupt blueprint file", "path", s.path, "error", err)
		}
		return s.resetToDefault()
	}

	cfg, changed := migrate(doc, s.logger)
	if changed {
		s.logger.Info("migrated blueprint file", "path", s.path)
		if err := s.write(cfg); err != nil {
			s.logger.Error("writing migrated blueprint file", "path", s.path, "error", err)
		}
	}
	return cfg
}

func (s *Store) resetToDefault() Config {
	cfg := NewConfig()
	if err := s.write(cfg); err != nil {
		s.logger.Error("writing default blueprint file", "path", s.path, "error", err)
	}
	return cfg
}

// Save merges the patch into the configuration currently on disk and writes
// the result. Only the fields the patch sets are overwritten. It reports
// whether the write succeeded; failures are logged.
func (s *Store) Save(p Patch) bool {
	current, err := s.current()
	if err != nil {
		s.logger.Error("reading blueprint file before save", "path", s.path, "error", err)
		return false
	}

	p.ApplyTo(current)

	if err := s.write(current); err != nil {
		s.logger.Error("saving blueprint file", "path", s.path, "error", err)
		return false
	}
	s.logger.Debug("saved blueprint file", "path", s.path, "categories", len(p))
	return true
}

// SaveConfig saves every field of every record in c through the merge path.
func (s *Store) SaveConfig(c Config) bool {
	return s.Save(c.FullPatch())
}

// current returns what is on disk now. Missing and corrupt files count as
// empty; a corrupt file is kept as <path>.corrupt first. Other read errors
// abort the save.
func (s *Store) current() (Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		s.logger.Warn("blueprint file is corrupt, merging into defaults", "path", s.path, "error", err)
		if err := os.Rename(s.path, s.path+corruptSuffix); err != nil {
			return nil, fmt.Errorf("keeping corrupt blueprint file: %w", err)
		}
		return NewConfig(), nil
	}
	cfg, _ := migrate(doc, s.logger)
	return cfg, nil
}

// SetField updates one field of a blueprint in c and saves that field
// immediately. Booleans accept bool values; efficiency levels accept any
// integer and are clamped. It reports whether the value was accepted and
// persisted.
func (s *Store) SetField(c Config, cat industry.Category, name string, field Field, value any) bool {
	rec := c.Get(cat, name)

	switch field {
	case FieldOwned, FieldInvented:
		b, ok := value.(bool)
		if !ok {
			s.logger.Error("blueprint field needs a boolean", "field", field, "value", value)
			return false
		}
		if field == FieldOwned {
			rec.Owned = b
		} else {
			rec.Invented = b
		}
	case FieldME, FieldTE:
		n, ok := value.(int)
		if !ok {
			s.logger.Error("blueprint field needs an integer", "field", field, "value", value)
			return false
		}
		if field == FieldME {
			rec.ME = industry.ClampME(n)
		} else {
			rec.TE = industry.ClampTE(n)
		}
	default:
		s.logger.Error("unknown blueprint field", "field", field)
		return false
	}

	c.put(cat, name, rec)
	p, _ := SingleField(cat, name, field, rec)
	return s.Save(p)
}

// SetOwned sets the owned flag of a blueprint and saves it.
func (s *Store) SetOwned(c Config, cat industry.Category, name string, owned bool) bool {
	return s.SetField(c, cat, name, FieldOwned, owned)
}

// SetInvented sets the invented flag of a blueprint and saves it.
func (s *Store) SetInvented(c Config, cat industry.Category, name string, invented bool) bool {
	return s.SetField(c, cat, name, FieldInvented, invented)
}

// SetME sets the material efficiency level of a blueprint and saves it.
func (s *Store) SetME(c Config, cat industry.Category, name string, level int) bool {
	return s.SetField(c, cat, name, FieldME, level)
}

// SetTE sets the time efficiency level of a blueprint and saves it.
func (s *Store) SetTE(c Config, cat industry.Category, name string, level int) bool {
	return s.SetField(c, cat, name, FieldTE, level)
}

// write stores c atomically: temp file in the same directory, then rename.
func (s *Store) write(c Config) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling blueprints: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating blueprint directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".blueprints.json.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
