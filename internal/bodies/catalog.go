package bodies

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/orrery/internal/orbit"
)

const day = 86400.0

// ISS element set bundled with the earth_moon scenario. SGP4 accuracy
// degrades quickly away from its epoch (2008-09-20).
const (
	ISSLine1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	ISSLine2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

type planet struct {
	name      string
	parent    string
	radius    float64
	mass      float64
	color     string
	dayLength float64

	// a [km], e, i, Ω, ω [deg], period [days]
	a, e, i, raan, argp, period float64
}

// Approximate J2000 mean elements relative to the parent body.
var solarSystem = []planet{
	{"Sun", "", 696340, 1.989e30, "#ffd700", 609.6, 0, 0, 0, 0, 0, 0},
	{"Mercury", "Sun", 2439.7, 3.285e23, "#A0522D", 4222.6, 57.909e6, 0.2056, 7.005, 48.331, 29.124, 87.969},
	{"Venus", "Sun", 6051.8, 4.867e24, "#DEB887", -5832.5, 108.209e6, 0.0068, 3.395, 76.680, 54.884, 224.701},
	{"Earth", "Sun", 6371, 5.972e24, "#4287f5", 24.0, 149.598e6, 0.0167, 0.00005, 348.739, 114.208, 365.256},
	{"Moon", "Earth", 1737, 7.348e22, "#808080", 708.7, 384399, 0.0549, 5.145, 125.08, 318.15, 27.321661},
	{"Mars", "Sun", 3390, 6.417e23, "#ff0000", 24.7, 227.939e6, 0.0934, 1.850, 49.558, 286.502, 686.980},
	{"Jupiter", "Sun", 69911, 1.898e27, "#DEB887", 9.9, 778.57e6, 0.0489, 1.303, 100.464, 273.867, 4332.59},
	{"Saturn", "Sun", 58232, 5.683e26, "#DEB887", 10.7, 1433.53e6, 0.0565, 2.485, 113.665, 339.392, 10759.22},
	{"Uranus", "Sun", 25362, 8.681e25, "#87CEEB", -17.2, 2872.46e6, 0.0457, 0.773, 74.006, 96.999, 30688.5},
	{"Neptune", "Sun", 24622, 1.024e26, "#1E90FF", 16.1, 4495.06e6, 0.0113, 1.770, 131.784, 273.187, 60182},
	{"Pluto", "Sun", 1188, 1.309e22, "#808080", -153.3, 5906.38e6, 0.2488, 17.16, 110.299, 113.834, 90560},
}

func (p planet) body() Body {
	o := orbit.KeplerianOrbit{
		SemiMajorAxis: p.a,
		Eccentricity:  p.e,
		Inclination:   p.i,
		RAAN:          p.raan,
		ArgPeriapsis:  p.argp,
		Epoch:         J2000,
	}
	if p.period > 0 {
		o.MeanMotion = 2 * math.Pi / (p.period * day)
	}
	return Body{
		Name:               p.name,
		Parent:             p.parent,
		Radius:             p.radius,
		Mass:               p.mass,
		Color:              p.color,
		DayLength:          p.dayLength,
		RotationMultiplier: 1,
		Orbit:              orbit.Keplerian(o),
	}
}

var scenarios = map[string][]string{
	"solar_system": {"Sun", "Mercury", "Venus", "Earth", "Moon", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune", "Pluto"},
	"inner":        {"Sun", "Mercury", "Venus", "Earth", "Moon", "Mars"},
	"outer":        {"Sun", "Jupiter", "Saturn", "Uranus", "Neptune", "Pluto"},
	"earth_moon":   {"Earth", "Moon"},
	"example":      {"Earth"},
}

// Scenarios lists the names accepted by Catalog.
func Scenarios() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog builds the registry for a named scenario. Bodies whose parent is
// left out of the scenario become roots at the origin.
func Catalog(scenario string) (*Registry, error) {
	names, ok := scenarios[scenario]
	if !ok {
		return nil, fmt.Errorf("bodies: unknown scenario %q", scenario)
	}

	include := make(map[string]bool, len(names))
	for _, n := range names {
		include[n] = true
	}

	reg := NewRegistry()
	for _, p := range solarSystem {
		if !include[p.name] {
			continue
		}
		b := p.body()
		if !include[b.Parent] {
			b.Parent = ""
			b.Orbit = orbit.Keplerian(orbit.KeplerianOrbit{Epoch: J2000})
		}
		if err := reg.Add(b); err != nil {
			return nil, err
		}
	}

	switch scenario {
	case "earth_moon":
		tle, err := orbit.ParseTLE(ISSLine1, ISSLine2)
		if err != nil {
			return nil, err
		}
		if err := reg.Add(Body{
			Name:   "ISS",
			Parent: "Earth",
			Radius: 0.05,
			Mass:   419725,
			Color:  "#ffffff",
			Orbit:  orbit.Satellite(tle),
		}); err != nil {
			return nil, err
		}
	case "example":
		if err := reg.Add(Body{
			Name:               "Probe",
			Parent:             "Earth",
			Radius:             1,
			Mass:               1000,
			Color:              "#00ffff",
			RotationMultiplier: 1,
			Orbit: orbit.Keplerian(orbit.KeplerianOrbit{
				SemiMajorAxis: 100,
				Eccentricity:  0.2,
				Inclination:   30,
				MeanMotion:    0.0000729,
				Epoch:         J2000,
			}),
		}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
