// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/availability/internal/drag"
	"github.com/javiermolinar/availability/internal/grid"
	"github.com/javiermolinar/availability/internal/template"
)

// Config holds the application configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Wire    WireConfig    `toml:"wire"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// GridConfig holds the weekly grid geometry.
type GridConfig struct {
	SlotMinutes int    `toml:"slot_minutes"` // 15, 30 or 60
	DayStart    string `toml:"day_start"`    // e.g., "08:00"
	DayEnd      string `toml:"day_end"`      // e.g., "21:00"; "24:00" allowed
}

// WireConfig holds backend template settings.
type WireConfig struct {
	DayBase string `toml:"day_base"` // day numbered 0: "monday" or "sunday"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
	Owner  string `toml:"owner"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme          string `toml:"theme"`           // "mocha", "macchiato", "frappe", "latte"
	SelectionShape string `toml:"selection_shape"` // "path" or "rectangle"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // empty logs to stderr (CLI) or nowhere (TUI)
}

var allowedSlotMinutes = []int{15, 30, 60}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			SlotMinutes: grid.DefaultSlotMinutes,
			DayStart:    grid.DefaultDayStart,
			DayEnd:      grid.DefaultDayEnd,
		},
		Wire: WireConfig{
			DayBase: "monday",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
			Owner:  "me",
		},
		UI: UIConfig{
			Theme:          "frappe",
			SelectionShape: "path",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "avail.db"
	}
	return filepath.Join(home, ".local", "share", "avail", "avail.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "avail", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	// Grid overrides
	if v := os.Getenv("AVAIL_SLOT_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AVAIL_SLOT_MINUTES must be a number, got %q", v)
		}
		cfg.Grid.SlotMinutes = n
	}
	if v := os.Getenv("AVAIL_DAY_START"); v != "" {
		cfg.Grid.DayStart = v
	}
	if v := os.Getenv("AVAIL_DAY_END"); v != "" {
		cfg.Grid.DayEnd = v
	}

	if v := os.Getenv("AVAIL_DAY_BASE"); v != "" {
		cfg.Wire.DayBase = v
	}

	// Storage overrides
	if v := os.Getenv("AVAIL_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("AVAIL_OWNER"); v != "" {
		cfg.Storage.Owner = v
	}

	// UI overrides
	if v := os.Getenv("AVAIL_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("AVAIL_SELECTION_SHAPE"); v != "" {
		cfg.UI.SelectionShape = v
	}

	// Log overrides
	if v := os.Getenv("AVAIL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("AVAIL_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(allowedSlotMinutes, c.Grid.SlotMinutes) {
		return fmt.Errorf("slot_minutes must be 15, 30 or 60, got %d", c.Grid.SlotMinutes)
	}
	if _, err := c.GridConfig(); err != nil {
		return err
	}
	if _, err := c.DayConvention(); err != nil {
		return err
	}
	if _, err := c.SelectionShape(); err != nil {
		return err
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if strings.TrimSpace(c.Storage.Owner) == "" {
		return errors.New("owner must be set")
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

// GridConfig builds the grid geometry.
func (c *Config) GridConfig() (grid.Config, error) {
	g, err := grid.New(c.Grid.SlotMinutes, c.Grid.DayStart, c.Grid.DayEnd)
	if err != nil {
		return grid.Config{}, fmt.Errorf("grid: %w", err)
	}
	return g, nil
}

// DayConvention returns the backend day numbering.
func (c *Config) DayConvention() (template.DayConvention, error) {
	return template.ParseDayConvention(c.Wire.DayBase)
}

// SelectionShape returns the drag gesture shape.
func (c *Config) SelectionShape() (drag.Shape, error) {
	return drag.ParseShape(c.UI.SelectionShape)
}

// Codec builds the template codec for this configuration.
func (c *Config) Codec() (*template.Codec, error) {
	g, err := c.GridConfig()
	if err != nil {
		return nil, err
	}
	days, err := c.DayConvention()
	if err != nil {
		return nil, err
	}
	return template.New(g, days), nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
