package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rsned/industry-planner/internal/industry/blueprints"
	"github.com/rsned/industry-planner/internal/industry/catalog"
	"github.com/rsned/industry-planner/internal/industry/config"
	"github.com/rsned/industry-planner/internal/industry/db"
	"github.com/rsned/industry-planner/internal/industry/engine"
	"github.com/rsned/industry-planner/internal/industry/logging"
	"github.com/rsned/industry-planner/internal/industry/sync"
	"github.com/rsned/industry-planner/pkg/industry"
)

// localConfigFile is checked before the user config directory.
const localConfigFile = ".industry-planner/config.yaml"

// builtinSource names the embedded sample catalog in sync metadata.
const builtinSource = "builtin:catalog.yaml"

// app carries the resolved configuration shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
}

func newRootCmd(version string) *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "industry-planner",
		Short: "Blueprint catalog and material requirement calculator",
		Long: `Industry Planner keeps a catalog of ships, capital ships, components and
planetary materials, tracks which blueprints you own and their material and
time efficiency levels, and calculates what a build will consume.

Run "industry-planner serve" to expose the planner as an MCP server on stdio.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ~/.config/industry-planner/config.yaml)")
	pf.String("db", "", "path to the SQLite catalog database")
	pf.String("blueprints", "", "path to the blueprint configuration file")
	pf.String("catalog", "", "YAML catalog used to seed an empty database")
	pf.BoolP("debug", "v", false, "enable debug logging")

	// Bind flags to viper
	for _, name := range []string{"db", "blueprints", "catalog", "debug"} {
		_ = a.v.BindPFlag(name, pf.Lookup(name))
	}

	root.AddCommand(
		newServeCmd(a, version),
		newImportCmd(a),
		newStatusCmd(a),
		newCalcCmd(a),
		newUsesCmd(a),
		newListCmd(a),
		newBlueprintCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) initConfig() error {
	defaults := config.Defaults()
	a.v.SetDefault("db", defaults.DB)
	a.v.SetDefault("blueprints", defaults.Blueprints)
	a.v.SetDefault("catalog", defaults.Catalog)
	a.v.SetDefault("debug", defaults.Debug)

	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		// Config lookup order:
		// 1. .industry-planner/config.yaml (current directory)
		// 2. ~/.config/industry-planner/config.yaml (user config)
		if _, err := os.Stat(localConfigFile); err == nil {
			a.v.SetConfigFile(localConfigFile)
		} else {
			a.v.AddConfigPath(config.DataDir())
			a.v.SetConfigName("config")
			a.v.SetConfigType("yaml")
		}
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	a.cfg = a.cfg.Resolve()
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.logger = logging.Init(os.Stderr, a.cfg.Debug)
	a.logger.Debug("configuration loaded",
		"file", a.v.ConfigFileUsed(),
		"db", a.cfg.DB,
		"blueprints", a.cfg.Blueprints)
	return nil
}

// openDB opens the catalog database and applies migrations.
func (a *app) openDB(ctx context.Context) (*db.DB, error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.DB), 0o750); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	database, err := db.OpenAndInit(ctx, a.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", a.cfg.DB, err)
	}
	return database, nil
}

// seedRecords returns the catalog used to fill an empty database.
func (a *app) seedRecords() ([]industry.RawRecord, string, error) {
	if a.cfg.Catalog == "" {
		records, err := catalog.SampleCatalog()
		return records, builtinSource, err
	}
	records, err := catalog.LoadYAML(os.DirFS(filepath.Dir(a.cfg.Catalog)), filepath.Base(a.cfg.Catalog))
	if err != nil {
		return nil, "", err
	}
	return records, a.cfg.Catalog, nil
}

// openEngine loads the catalog into a registry, seeding an empty database
// first, and builds an engine over it and the blueprint file. The database
// is closed again once the registry is populated.
func (a *app) openEngine(ctx context.Context) (*engine.Engine, error) {
	database, err := a.openDB(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = database.Close() }()

	syncer := sync.NewSyncer(database, a.logger)

	records, source, err := a.seedRecords()
	if err != nil {
		return nil, fmt.Errorf("loading seed catalog: %w", err)
	}
	seeded, err := syncer.SeedIfEmpty(ctx, records, source)
	if err != nil {
		return nil, fmt.Errorf("seeding catalog: %w", err)
	}
	if seeded {
		a.logger.Info("seeded empty catalog", "source", source, "records", len(records))
	}

	reg := catalog.NewRegistry()
	stats, err := syncer.LoadRegistry(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	a.logger.Debug("catalog loaded", "registered", stats.Registered, "skipped", stats.Skipped)

	store := blueprints.NewStore(a.cfg.Blueprints, a.logger)
	return engine.New(reg, store, a.logger), nil
}

// parseCategoryFlag accepts an empty value or any category alias.
func parseCategoryFlag(s string) (industry.Category, error) {
	if s == "" {
		return "", nil
	}
	cat, ok := industry.ParseCategory(s)
	if !ok {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return cat, nil
}
