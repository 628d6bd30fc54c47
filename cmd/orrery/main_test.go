package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/orbit"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/trajectory"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	configFile, preset = "", ""
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&configFile, "config", "", "")
	cmd.Flags().StringVar(&preset, "preset", "", "")
	cmd.Flags().StringVar(&scenarioName, "scenario", config.DefaultScenario, "")
	cmd.Flags().StringVar(&start, "start", "", "")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "")
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestCmd(t))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Scenario != config.DefaultScenario || cfg.Dt != config.DefaultDt {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	if err := os.WriteFile(path, []byte("scenario: earth_moon\nspeed: 120\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := loadConfig(newTestCmd(t, "--config", path, "--preset", "iss_pass", "--dt", "5"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Scenario != "earth_moon" {
		t.Errorf("expected scenario from file, got %s", cfg.Scenario)
	}
	if cfg.Start != "2008-09-20T12:25:40Z" {
		t.Errorf("expected preset start, got %s", cfg.Start)
	}
	if cfg.Speed != 120 {
		t.Errorf("expected file speed 120, got %f", cfg.Speed)
	}
	if cfg.Dt != 5 {
		t.Errorf("expected flag dt 5, got %f", cfg.Dt)
	}
}

func TestLoadConfig_UnknownPreset(t *testing.T) {
	if _, err := loadConfig(newTestCmd(t, "--scenario", "inner", "--preset", "nope")); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	if _, err := loadConfig(newTestCmd(t, "--dt", "0")); err == nil {
		t.Error("expected validation error for zero dt")
	}
}

func TestPositionTables(t *testing.T) {
	runStart := trajectory.ReferenceEpoch.Add(time.Hour)
	pos := &storage.Positions{
		Bodies:  []string{"Sun", "Earth"},
		Offsets: []float64{0, 60},
		Values: [][]orbit.Vec3{
			{{}, {X: 1}},
			{{}, {X: 2}},
		},
	}

	tables := positionTables(runStart, pos)
	earth := tables["Earth"]
	if len(earth) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(earth))
	}
	if p, ok := earth[3660]; !ok || p.X != 2 {
		t.Errorf("expected sample at 3660 s with x=2, got %+v (%v)", p, ok)
	}
}
