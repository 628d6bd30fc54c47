package bodies

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orrery/internal/orbit"
)

const bodiesYAML = `
bodies:
  - name: Kerbol
    radius: 261600
    mass: 1.7565e28
    color: "#ffcc00"
  - name: Kerbin
    parent: Kerbol
    radius: 600
    mass: 5.2915e22
    day_length: 6
    rotation_multiplier: 2
    orbit:
      semi_major_axis: 13599840
      eccentricity: 0
      orbital_period: 9203545
      epoch: "2000-01-01T12:00:00Z"
  - name: Probe
    parent: Kerbin
    orbit:
      kind: sampled
      trajectory: probe-1
  - name: Station
    parent: Kerbin
    orbit:
      kind: tle
      tle:
        - "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
        - "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
`

func TestParse(t *testing.T) {
	reg, err := Parse([]byte(bodiesYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Len() != 4 {
		t.Fatalf("expected 4 bodies, got %d", reg.Len())
	}

	kerbin, _ := reg.Get("Kerbin")
	want := 2 * math.Pi / 9203545
	if math.Abs(kerbin.Orbit.Keplerian.MeanMotion-want) > 1e-18 {
		t.Errorf("expected mean motion %g from period, got %g", want, kerbin.Orbit.Keplerian.MeanMotion)
	}
	if kerbin.RotationMultiplier != 2 {
		t.Errorf("expected rotation multiplier 2, got %f", kerbin.RotationMultiplier)
	}

	kerbol, _ := reg.Get("Kerbol")
	if kerbol.RotationMultiplier != 1 {
		t.Errorf("expected default rotation multiplier 1, got %f", kerbol.RotationMultiplier)
	}

	probe, _ := reg.Get("Probe")
	if probe.Orbit.Kind != orbit.KindSampled || probe.Trajectory != "probe-1" {
		t.Errorf("expected sampled probe on probe-1, got kind %s trajectory %q", probe.Orbit.Kind, probe.Trajectory)
	}

	station, _ := reg.Get("Station")
	if station.Orbit.Kind != orbit.KindTLE {
		t.Errorf("expected TLE station, got %s", station.Orbit.Kind)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"hyperbolic", "bodies:\n  - name: Comet\n    orbit:\n      semi_major_axis: 10\n      eccentricity: 1.2\n", orbit.ErrInvalidElements},
		{"unknown kind", "bodies:\n  - name: X\n    orbit:\n      kind: nbody\n", orbit.ErrUnknownKind},
		{"short tle", "bodies:\n  - name: X\n    orbit:\n      kind: tle\n      tle: [\"1 2\"]\n", orbit.ErrInvalidTLE},
		{"missing parent", "bodies:\n  - name: Moon\n    parent: Earth\n", ErrUnknownParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bodies.yaml")
	if err := os.WriteFile(path, []byte(bodiesYAML), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := reg.Get("Station"); !ok {
		t.Error("expected Station in loaded registry")
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
