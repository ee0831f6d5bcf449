package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/availability/internal/drag"
	"github.com/javiermolinar/availability/internal/template"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.SlotMinutes != 30 {
		t.Errorf("expected slot_minutes 30, got %d", cfg.Grid.SlotMinutes)
	}
	if cfg.Grid.DayStart != "08:00" {
		t.Errorf("expected day_start 08:00, got %s", cfg.Grid.DayStart)
	}
	if cfg.Grid.DayEnd != "21:00" {
		t.Errorf("expected day_end 21:00, got %s", cfg.Grid.DayEnd)
	}
	if cfg.Wire.DayBase != "monday" {
		t.Errorf("expected day_base monday, got %s", cfg.Wire.DayBase)
	}
	if cfg.Storage.Owner != "me" {
		t.Errorf("expected owner me, got %s", cfg.Storage.Owner)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Grid.DayStart != "08:00" {
		t.Errorf("expected default day_start, got %s", cfg.Grid.DayStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
slot_minutes = 60
day_start = "09:00"
day_end = "24:00"

[wire]
day_base = "sunday"

[storage]
db_path = "/tmp/test.db"
owner = "clinic-3"

[ui]
selection_shape = "rectangle"

[log]
level = "debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g, err := cfg.GridConfig()
	if err != nil {
		t.Fatalf("GridConfig failed: %v", err)
	}
	if g.SlotsPerDay() != 15 {
		t.Errorf("expected 15 slots per day, got %d", g.SlotsPerDay())
	}
	days, err := cfg.DayConvention()
	if err != nil {
		t.Fatalf("DayConvention failed: %v", err)
	}
	if days != template.SundayFirst {
		t.Errorf("expected sunday-first convention, got %v", days)
	}
	shape, err := cfg.SelectionShape()
	if err != nil {
		t.Fatalf("SelectionShape failed: %v", err)
	}
	if shape != drag.ShapeRectangle {
		t.Errorf("expected rectangle shape, got %v", shape)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Storage.Owner != "clinic-3" {
		t.Errorf("expected owner clinic-3, got %s", cfg.Storage.Owner)
	}
	// Unset keys keep their defaults
	if cfg.UI.Theme != "frappe" {
		t.Errorf("expected default theme frappe, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[grid\nslot_minutes = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
day_start = "08:00"
day_end = "16:00"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("AVAIL_DAY_START", "10:00")
	t.Setenv("AVAIL_SLOT_MINUTES", "15")
	t.Setenv("AVAIL_DAY_BASE", "sunday")
	t.Setenv("AVAIL_OWNER", "bob")
	t.Setenv("AVAIL_LOG_LEVEL", "warn")
	t.Setenv("AVAIL_LOG_FILE", "~/avail.log")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Grid.DayStart != "10:00" {
		t.Errorf("expected day_start 10:00 from env, got %s", cfg.Grid.DayStart)
	}
	// File value should be kept when no env override
	if cfg.Grid.DayEnd != "16:00" {
		t.Errorf("expected day_end 16:00 from file, got %s", cfg.Grid.DayEnd)
	}
	// Env should override default
	if cfg.Grid.SlotMinutes != 15 {
		t.Errorf("expected slot_minutes 15 from env, got %d", cfg.Grid.SlotMinutes)
	}
	if cfg.Wire.DayBase != "sunday" {
		t.Errorf("expected day_base sunday from env, got %s", cfg.Wire.DayBase)
	}
	if cfg.Storage.Owner != "bob" {
		t.Errorf("expected owner bob from env, got %s", cfg.Storage.Owner)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level warn from env, got %s", cfg.Log.Level)
	}
	home, _ := os.UserHomeDir()
	if cfg.Log.File != filepath.Join(home, "avail.log") {
		t.Errorf("expected expanded log file, got %s", cfg.Log.File)
	}
}

func TestLoadFrom_BadSlotEnv(t *testing.T) {
	t.Setenv("AVAIL_SLOT_MINUTES", "half-hour")
	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for non-numeric AVAIL_SLOT_MINUTES")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"slot not allowed", func(c *Config) { c.Grid.SlotMinutes = 20 }},
		{"zero slot", func(c *Config) { c.Grid.SlotMinutes = 0 }},
		{"bad day start", func(c *Config) { c.Grid.DayStart = "9:00" }},
		{"start after end", func(c *Config) { c.Grid.DayStart = "18:00"; c.Grid.DayEnd = "09:00" }},
		{"window not a multiple of slot", func(c *Config) { c.Grid.SlotMinutes = 60; c.Grid.DayEnd = "20:30" }},
		{"day end past midnight", func(c *Config) { c.Grid.DayEnd = "24:30" }},
		{"bad day base", func(c *Config) { c.Wire.DayBase = "wednesday" }},
		{"bad shape", func(c *Config) { c.UI.SelectionShape = "lasso" }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"empty owner", func(c *Config) { c.Storage.Owner = "  " }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCodec(t *testing.T) {
	cfg := Default()
	cfg.Grid.SlotMinutes = 60
	cfg.Wire.DayBase = "sunday"

	codec, err := cfg.Codec()
	if err != nil {
		t.Fatalf("Codec failed: %v", err)
	}
	if codec.Days() != template.SundayFirst {
		t.Errorf("expected sunday-first codec, got %v", codec.Days())
	}
	if codec.Grid().SlotMinutes != 60 {
		t.Errorf("expected 60-minute grid, got %d", codec.Grid().SlotMinutes)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Grid.SlotMinutes = 15
	cfg.Grid.DayStart = "07:30"
	cfg.Grid.DayEnd = "15:30"
	cfg.Storage.Owner = "carol"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Grid.DayStart != "07:30" {
		t.Errorf("expected day_start 07:30, got %s", loaded.Grid.DayStart)
	}
	if loaded.Grid.DayEnd != "15:30" {
		t.Errorf("expected day_end 15:30, got %s", loaded.Grid.DayEnd)
	}
	if loaded.Grid.SlotMinutes != 15 {
		t.Errorf("expected slot_minutes 15, got %d", loaded.Grid.SlotMinutes)
	}
	if loaded.Storage.Owner != "carol" {
		t.Errorf("expected owner carol, got %s", loaded.Storage.Owner)
	}
}
