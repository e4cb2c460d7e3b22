// Package config provides configuration types and defaults for the industry
// planner.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvPrefix prefixes environment overrides, e.g. INDUSTRY_PLANNER_DB.
const EnvPrefix = "INDUSTRY_PLANNER"

// Config holds all configuration options.
type Config struct {
	// DB is the SQLite catalog database path.
	DB string `mapstructure:"db"`
	// Blueprints is the JSON blueprint configuration file.
	Blueprints string `mapstructure:"blueprints"`
	// Catalog is an optional YAML catalog used to seed an empty database.
	// The embedded sample catalog is used when empty.
	Catalog string `mapstructure:"catalog"`
	Debug   bool   `mapstructure:"debug"`
}

// DataDir returns the directory holding the default database and blueprint
// file.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".industry-planner"
	}
	return filepath.Join(home, ".config", "industry-planner")
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	dir := DataDir()
	return Config{
		DB:         filepath.Join(dir, "catalog.db"),
		Blueprints: filepath.Join(dir, "blueprints.json"),
	}
}

// ExpandPath replaces a leading "~/" with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Resolve expands paths and fills empty required settings from Defaults.
func (c Config) Resolve() Config {
	d := Defaults()
	if c.DB == "" {
		c.DB = d.DB
	}
	if c.Blueprints == "" {
		c.Blueprints = d.Blueprints
	}
	c.DB = ExpandPath(c.DB)
	c.Blueprints = ExpandPath(c.Blueprints)
	c.Catalog = ExpandPath(c.Catalog)
	return c
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Blueprints == "" {
		return fmt.Errorf("blueprints path is required")
	}
	if c.DB == c.Blueprints {
		return fmt.Errorf("db and blueprints must be different files: %s", c.DB)
	}
	return nil
}

// DefaultConfigTemplate returns the commented YAML written by "config init".
func DefaultConfigTemplate() string {
	d := Defaults()
	return `# Industry Planner Configuration

# SQLite catalog database (filled by "industry-planner import")
db: ` + d.DB + `

# Blueprint ownership and efficiency levels
blueprints: ` + d.Blueprints + `

# YAML catalog used to seed an empty database (default: built-in sample)
# catalog: ~/catalog.yaml

# Verbose logging
debug: false
`
}

// WriteDefaultConfig writes the default configuration template to
// configPath, creating parent directories. An existing file is left alone.
func WriteDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
