package bodies

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/orbit"
)

// File is the YAML layout of a bodies file.
type File struct {
	Bodies []Spec `yaml:"bodies"`
}

// Spec describes one body in a bodies file.
type Spec struct {
	Name               string    `yaml:"name"`
	Parent             string    `yaml:"parent,omitempty"`
	Radius             float64   `yaml:"radius"`
	Mass               float64   `yaml:"mass"`
	Color              string    `yaml:"color,omitempty"`
	DayLength          float64   `yaml:"day_length,omitempty"`
	RotationMultiplier *float64  `yaml:"rotation_multiplier,omitempty"`
	Orbit              OrbitSpec `yaml:"orbit"`
}

// OrbitSpec selects the orbit kind and carries its parameters. Angles are
// degrees, OrbitalPeriod is seconds and MeanMotion radians per second; a zero
// MeanMotion is derived from OrbitalPeriod.
type OrbitSpec struct {
	Kind          string   `yaml:"kind,omitempty"`
	SemiMajorAxis float64  `yaml:"semi_major_axis,omitempty"`
	Eccentricity  float64  `yaml:"eccentricity,omitempty"`
	Inclination   float64  `yaml:"inclination,omitempty"`
	RAAN          float64  `yaml:"raan,omitempty"`
	ArgPeriapsis  float64  `yaml:"arg_periapsis,omitempty"`
	MeanMotion    float64  `yaml:"mean_motion,omitempty"`
	OrbitalPeriod float64  `yaml:"orbital_period,omitempty"`
	Epoch         string   `yaml:"epoch,omitempty"`
	Trajectory    string   `yaml:"trajectory,omitempty"`
	TLE           []string `yaml:"tle,omitempty"`
}

// Body converts the spec, validating the orbit it describes.
func (s Spec) Body() (Body, error) {
	kind, err := orbit.ParseKind(s.Orbit.Kind)
	if err != nil {
		return Body{}, fmt.Errorf("body %s: %w", s.Name, err)
	}

	b := Body{
		Name:               s.Name,
		Parent:             s.Parent,
		Radius:             s.Radius,
		Mass:               s.Mass,
		Color:              s.Color,
		DayLength:          s.DayLength,
		RotationMultiplier: 1,
	}
	if s.RotationMultiplier != nil {
		b.RotationMultiplier = *s.RotationMultiplier
	}

	switch kind {
	case orbit.KindKeplerian:
		o, err := s.Orbit.keplerian()
		if err != nil {
			return Body{}, fmt.Errorf("body %s: %w", s.Name, err)
		}
		b.Orbit = orbit.Keplerian(o)
	case orbit.KindSampled:
		b.Orbit = orbit.Descriptor{Kind: orbit.KindSampled}
		b.Trajectory = s.Orbit.Trajectory
		if b.Trajectory == "" {
			b.Trajectory = s.Name
		}
	case orbit.KindTLE:
		if len(s.Orbit.TLE) != 2 {
			return Body{}, fmt.Errorf("body %s: %w: expected 2 lines, got %d", s.Name, orbit.ErrInvalidTLE, len(s.Orbit.TLE))
		}
		tle, err := orbit.ParseTLE(s.Orbit.TLE[0], s.Orbit.TLE[1])
		if err != nil {
			return Body{}, fmt.Errorf("body %s: %w", s.Name, err)
		}
		b.Orbit = orbit.Satellite(tle)
	}
	return b, nil
}

func (o OrbitSpec) keplerian() (orbit.KeplerianOrbit, error) {
	epoch := J2000
	if o.Epoch != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(o.Epoch))
		if err != nil {
			return orbit.KeplerianOrbit{}, fmt.Errorf("epoch: %w", err)
		}
		epoch = t
	}

	n := o.MeanMotion
	if n == 0 && o.OrbitalPeriod > 0 {
		n = 2 * math.Pi / o.OrbitalPeriod
	}

	k := orbit.KeplerianOrbit{
		SemiMajorAxis: o.SemiMajorAxis,
		Eccentricity:  o.Eccentricity,
		Inclination:   o.Inclination,
		RAAN:          o.RAAN,
		ArgPeriapsis:  o.ArgPeriapsis,
		MeanMotion:    n,
		Epoch:         epoch,
	}
	return k, k.Validate()
}

// Parse reads a bodies file from YAML.
func Parse(data []byte) (*Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	reg := NewRegistry()
	for _, s := range f.Bodies {
		b, err := s.Body()
		if err != nil {
			return nil, err
		}
		if err := reg.Add(b); err != nil {
			return nil, err
		}
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
