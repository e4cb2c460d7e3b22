package blueprints

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsned/industry-planner/internal/industry/logging"
	"github.com/rsned/industry-planner/pkg/industry"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "blueprints.json"), logging.Discard())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readDisk(t *testing.T, s *Store) Config {
	t.Helper()
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	return Migrate(mustParse(t, string(data)), logging.Discard())
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestLoad_MissingFileCreatesDefault(t *testing.T) {
	s := newTestStore(t)

	cfg := s.Load()
	require.Equal(t, NewConfig(), cfg)

	_, err := os.Stat(s.Path())
	require.NoError(t, err, "default configuration is persisted")
	require.Equal(t, NewConfig(), readDisk(t, s))
}

func TestLoad_CorruptFileSelfHeals(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `{"ships": {"rifter": tru`)

	cfg := s.Load()
	require.Equal(t, NewConfig(), cfg)

	kept, err := os.ReadFile(s.Path() + corruptSuffix)
	require.NoError(t, err)
	require.Contains(t, string(kept), "rifter")
	require.Equal(t, NewConfig(), readDisk(t, s))
}

func TestLoad_MigratesAndRewritesLegacyFile(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `{"ships": {"rifter_data": true, "merlin": "Invented"}}`)

	cfg := s.Load()
	require.Equal(t, Record{Owned: true}, cfg.Get(industry.CategoryShip, "rifter"))
	require.Equal(t, Record{Invented: true}, cfg.Get(industry.CategoryShip, "merlin"))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.NotContains(t, string(data), "rifter_data")
	require.Contains(t, string(data), `"invented": true`)
}

func TestSave_MergesFieldsAgainstDisk(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `{"ships": {
		"A": {"owned": true, "invented": false, "me": 3, "te": 0},
		"B": {"owned": true, "invented": true, "me": 1, "te": 2}
	}}`)

	p := make(Patch)
	p.Set(industry.CategoryShip, "A", RecordPatch{TE: intPtr(7)})
	require.True(t, s.Save(p))

	disk := readDisk(t, s)
	require.Equal(t, Record{Owned: true, ME: 3, TE: 7}, disk.Get(industry.CategoryShip, "A"))
	require.Equal(t, Record{Owned: true, Invented: true, ME: 1, TE: 2}, disk.Get(industry.CategoryShip, "B"))
}

func TestSave_CorruptFileIsKeptBeforeMerge(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `{"ships": {"merlin": tru`)

	p := make(Patch)
	p.Set(industry.CategoryShip, "rifter", RecordPatch{Owned: boolPtr(true)})
	require.True(t, s.Save(p))

	kept, err := os.ReadFile(s.Path() + corruptSuffix)
	require.NoError(t, err)
	require.Equal(t, `{"ships": {"merlin": tru`, string(kept))

	disk := readDisk(t, s)
	require.Equal(t, Record{Owned: true}, disk.Get(industry.CategoryShip, "rifter"))
	_, ok := disk.Lookup(industry.CategoryShip, "merlin")
	require.False(t, ok)
}

func TestSave_SequentialUpdatesDoNotClobber(t *testing.T) {
	s := newTestStore(t)

	// Two callers working from the same stale snapshot.
	first := s.Load()
	second := first.Clone()

	require.True(t, s.SetME(first, industry.CategoryShip, "rifter", 5))
	require.True(t, s.SetOwned(second, industry.CategoryShip, "rifter", true))

	require.Equal(t, Record{Owned: true, ME: 5}, readDisk(t, s).Get(industry.CategoryShip, "rifter"))
}

func TestSave_ClampsPatchedLevels(t *testing.T) {
	s := newTestStore(t)

	p := make(Patch)
	p.Set(industry.CategoryShip, "rifter", RecordPatch{ME: intPtr(42), TE: intPtr(-1), Owned: boolPtr(true)})
	require.True(t, s.Save(p))

	require.Equal(t, Record{Owned: true, ME: 10, TE: 0}, readDisk(t, s).Get(industry.CategoryShip, "rifter"))
}

func TestSave_FailureIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	writeFile(t, blocker, "x")

	s := NewStore(filepath.Join(blocker, "blueprints.json"), logging.Discard())
	cfg := NewConfig()

	require.False(t, s.SetOwned(cfg, industry.CategoryShip, "rifter", true))
	require.True(t, cfg.Get(industry.CategoryShip, "rifter").Owned, "in-memory config stays usable")
}

func TestSaveConfig(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), `{"components": {"reactor": {"owned": true, "invented": false, "me": 0, "te": 0}}}`)

	cfg := NewConfig()
	cfg.put(industry.CategoryShip, "rifter", Record{Owned: true, ME: 2})
	require.True(t, s.SaveConfig(cfg))

	disk := readDisk(t, s)
	require.Equal(t, Record{Owned: true, ME: 2}, disk.Get(industry.CategoryShip, "rifter"))
	require.Equal(t, Record{Owned: true}, disk.Get(industry.CategoryComponent, "reactor"), "unmentioned blueprints survive")
}

func TestSetField(t *testing.T) {
	s := newTestStore(t)
	cfg := s.Load()

	require.True(t, s.SetField(cfg, industry.CategoryShip, "rifter", FieldME, 15))
	require.True(t, s.SetField(cfg, industry.CategoryShip, "rifter", FieldTE, 12))
	require.True(t, s.SetInvented(cfg, industry.CategoryShip, "rifter", true))
	require.False(t, s.SetField(cfg, industry.CategoryShip, "rifter", FieldOwned, "yes"))
	require.False(t, s.SetField(cfg, industry.CategoryShip, "rifter", FieldME, "3"))
	require.False(t, s.SetField(cfg, industry.CategoryShip, "rifter", Field("colour"), 1))

	want := Record{Invented: true, ME: 10, TE: 12}
	require.Equal(t, want, cfg.Get(industry.CategoryShip, "rifter"))
	require.Equal(t, want, s.Load().Get(industry.CategoryShip, "rifter"))
}

func TestConfigField(t *testing.T) {
	cfg := NewConfig()
	cfg.put(industry.CategoryShip, "rifter", Record{Owned: true, ME: 4, TE: 6})

	require.Equal(t, true, cfg.Field(industry.CategoryShip, "rifter", FieldOwned, false))
	require.Equal(t, false, cfg.Field(industry.CategoryShip, "rifter", FieldInvented, true))
	require.Equal(t, 4, cfg.Field(industry.CategoryShip, "rifter", FieldME, 0))
	require.Equal(t, 6, cfg.Field(industry.CategoryShip, "rifter", FieldTE, 0))
	require.Equal(t, "dflt", cfg.Field(industry.CategoryShip, "merlin", FieldME, "dflt"))
	require.Equal(t, "dflt", cfg.Field(industry.CategoryShip, "rifter", Field("colour"), "dflt"))
	require.Equal(t, Record{}, cfg.Get(industry.CategoryCapitalShip, "missing"))
}
