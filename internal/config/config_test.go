package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "solar_system" {
		t.Errorf("expected scenario solar_system, got %s", cfg.Scenario)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("earth_moon", "iss_pass")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Dt != 10 {
		t.Errorf("expected dt 10, got %f", cfg.Dt)
	}
	if cfg.FrameRate != DefaultFrameRate {
		t.Errorf("expected default frame rate, got %d", cfg.FrameRate)
	}

	cfg.Dt = 99
	if again := GetPreset("earth_moon", "iss_pass"); again.Dt != 10 {
		t.Error("expected GetPreset to return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("inner", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "year"); cfg != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("inner")
	sort.Strings(presets)
	if len(presets) != 2 || presets[0] != "mars_window" {
		t.Errorf("expected [mars_window year], got %v", presets)
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestPresetsValidate(t *testing.T) {
	for scenario, presets := range Presets {
		for name := range presets {
			cfg := GetPreset(scenario, name)
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", scenario, name, err)
			}
		}
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orrery.yaml")
	yamlText := "scenario: inner\nstart: \"2030-05-01T00:00:00Z\"\nspeed: 3600\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(yamlText), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scenario != "inner" || cfg.Speed != 3600 || cfg.Log.Level != "debug" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("expected unset dt to keep default %f, got %f", DefaultDt, cfg.Dt)
	}

	out := filepath.Join(dir, "saved.yaml")
	if err := Save(out, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := Load(out)
	if err != nil {
		t.Fatalf("Load saved: %v", err)
	}
	if again.Start != cfg.Start {
		t.Errorf("expected start %s, got %s", cfg.Start, again.Start)
	}
}

func TestLoadOver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	if err := os.WriteFile(path, []byte("speed: 10\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	base := GetPreset("earth_moon", "iss_pass")
	cfg, err := LoadOver(path, base)
	if err != nil {
		t.Fatalf("LoadOver: %v", err)
	}
	if cfg.Speed != 10 {
		t.Errorf("expected speed 10 from file, got %f", cfg.Speed)
	}
	if cfg.Dt != 10 || cfg.Scenario != "earth_moon" {
		t.Errorf("expected preset values to survive, got dt=%f scenario=%s", cfg.Dt, cfg.Scenario)
	}
	if base.Speed != 60 {
		t.Errorf("expected base untouched, got speed %f", base.Speed)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(c *Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"bad start", func(c *Config) { c.Start = "tomorrow" }},
		{"bad origin", func(c *Config) { c.TrajectoryOrigin = "2010-01-01" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStartTime(t *testing.T) {
	fixed := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	got, err := cfg.StartTime(func() time.Time { return fixed })
	if err != nil || !got.Equal(fixed) {
		t.Errorf("expected now for empty start, got %s (%v)", got, err)
	}

	cfg.Start = "2000-01-01T12:00:00Z"
	got, _ = cfg.StartTime(time.Now)
	if got.Year() != 2000 || got.Hour() != 12 {
		t.Errorf("expected J2000, got %s", got)
	}

	if iv := cfg.FrameInterval(); iv != time.Second/30 {
		t.Errorf("expected 1/30 s, got %v", iv)
	}
}
