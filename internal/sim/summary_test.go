package sim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/orbit"
)

func TestResult_Summary(t *testing.T) {
	reg := bodies.NewRegistry()
	_ = reg.Add(bodies.Body{Name: "Sun"})
	_ = reg.Add(bodies.Body{Name: "Comet", Parent: "Sun", Orbit: orbit.Keplerian(orbit.KeplerianOrbit{
		SemiMajorAxis: 100, Eccentricity: 0.5, MeanMotion: 2 * math.Pi / 360, Epoch: t0,
	})})

	s, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := s.Run(context.Background(), Config{Start: t0, Dt: 1, Duration: 360})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	summary := result.Summary()
	if len(summary) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(summary))
	}
	comet := summary[1]
	if comet.Name != "Comet" || comet.Parent != "Sun" {
		t.Errorf("expected Comet around Sun, got %+v", comet)
	}
	if math.Abs(comet.Min-50) > 1e-6 {
		t.Errorf("expected periapsis 50, got %f", comet.Min)
	}
	if math.Abs(comet.Max-150) > 0.1 {
		t.Errorf("expected apoapsis near 150, got %f", comet.Max)
	}
	if comet.Samples != 361 {
		t.Errorf("expected 361 samples, got %d", comet.Samples)
	}

	d, err := result.Distances("Sun", "Comet")
	if err != nil {
		t.Fatalf("Distances: %v", err)
	}
	if math.Abs(d[0]-50) > 1e-6 {
		t.Errorf("expected first distance 50, got %f", d[0])
	}
	if _, err := result.Distances("Sun", "Halley"); err == nil {
		t.Error("expected error for unknown body")
	}

	track, err := result.Track("Comet")
	if err != nil || len(track) != 361 {
		t.Errorf("expected 361 track points, got %d (%v)", len(track), err)
	}
}
