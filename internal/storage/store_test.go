package storage

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/orrery/internal/orbit"
	"github.com/san-kum/orrery/internal/sim"
)

func testResult(start time.Time) *sim.Result {
	return &sim.Result{
		Bodies:  []string{"Sun", "Earth"},
		Parents: []string{"", "Sun"},
		Times:   []time.Time{start, start.Add(time.Hour)},
		Positions: [][]orbit.Vec3{
			{{}, {X: 1.5e8}},
			{{}, {X: 1.4e8, Y: 1.2e7, Z: -3.25}},
		},
		Metrics:    map[string]float64{"failure_rate": 0},
		StepsTaken: 2,
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := sim.Config{Start: start, Dt: 3600, Duration: 3600}
	id, err := store.Save("inner", cfg, testResult(start))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Scenario != "inner" || meta.Steps != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if !meta.Start.Equal(start) {
		t.Errorf("expected start %s, got %s", start, meta.Start)
	}

	pos, err := store.LoadPositions(id)
	if err != nil {
		t.Fatalf("LoadPositions: %v", err)
	}
	if len(pos.Bodies) != 2 || pos.Bodies[1] != "Earth" {
		t.Errorf("expected bodies [Sun Earth], got %v", pos.Bodies)
	}
	if len(pos.Values) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(pos.Values))
	}
	if pos.Offsets[1] != 3600 {
		t.Errorf("expected offset 3600, got %f", pos.Offsets[1])
	}
	got := pos.Values[1][1]
	if math.Abs(got.X-1.4e8) > 1e-6 || math.Abs(got.Z+3.25) > 1e-6 {
		t.Errorf("expected (1.4e8, 1.2e7, -3.25), got %+v", got)
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	runs, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := store.Save("inner", sim.Config{Start: start, Dt: 1}, testResult(start)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	runs, _ = store.List()
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestList_MissingDir(t *testing.T) {
	store := New(t.TempDir() + "/missing")
	runs, err := store.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v (%v)", runs, err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := store.LoadPositions("nope"); err == nil {
		t.Error("expected error for missing positions")
	}
}
