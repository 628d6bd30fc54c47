package orbit

import (
	"math"
	"time"
)

// KeplerIterations is the fixed number of fixed-point substitutions used to
// solve Kepler's equation. No convergence test is made; for eccentricities
// close to 1 ten substitutions leave a visible residual.
const KeplerIterations = 10

const twoPi = 2 * math.Pi

// KeplerianOrbit holds classical orbital elements. Angles are in degrees,
// MeanMotion in radians per second. The mean anomaly is zero at Epoch.
type KeplerianOrbit struct {
	SemiMajorAxis float64   `json:"semi_major_axis" yaml:"semi_major_axis"`
	Eccentricity  float64   `json:"eccentricity" yaml:"eccentricity"`
	Inclination   float64   `json:"inclination" yaml:"inclination"`
	RAAN          float64   `json:"raan" yaml:"raan"`
	ArgPeriapsis  float64   `json:"arg_periapsis" yaml:"arg_periapsis"`
	MeanMotion    float64   `json:"mean_motion" yaml:"mean_motion"`
	Epoch         time.Time `json:"epoch" yaml:"epoch"`
}

// Validate reports the first element outside its supported range.
func (o KeplerianOrbit) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"semi_major_axis", o.SemiMajorAxis},
		{"eccentricity", o.Eccentricity},
		{"inclination", o.Inclination},
		{"raan", o.RAAN},
		{"arg_periapsis", o.ArgPeriapsis},
		{"mean_motion", o.MeanMotion},
	}
	for _, f := range fields {
		if !isFinite(f.value) {
			return &InvalidElementsError{Field: f.name, Value: f.value}
		}
	}

	switch {
	case o.SemiMajorAxis < 0:
		return &InvalidElementsError{Field: "semi_major_axis", Value: o.SemiMajorAxis}
	case o.Eccentricity < 0 || o.Eccentricity >= 1:
		return &InvalidElementsError{Field: "eccentricity", Value: o.Eccentricity}
	case o.MeanMotion < 0:
		return &InvalidElementsError{Field: "mean_motion", Value: o.MeanMotion}
	}
	return nil
}

// Period is the orbital period, or zero for a body that does not move.
func (o KeplerianOrbit) Period() time.Duration {
	if o.MeanMotion == 0 {
		return 0
	}
	return secondsToDuration(twoPi / o.MeanMotion)
}

func (o KeplerianOrbit) Periapsis() float64 { return o.SemiMajorAxis * (1 - o.Eccentricity) }
func (o KeplerianOrbit) Apoapsis() float64  { return o.SemiMajorAxis * (1 + o.Eccentricity) }

// EvaluateKeplerian returns the position of the body at simulation time t.
func EvaluateKeplerian(o KeplerianOrbit, t time.Time) (Vec3, error) {
	if err := o.Validate(); err != nil {
		return Vec3{}, err
	}
	if o.SemiMajorAxis == 0 {
		return Vec3{}, nil
	}
	return o.positionAt(SecondsSince(t, o.Epoch)), nil
}

func (o KeplerianOrbit) positionAt(elapsed float64) Vec3 {
	m := MeanAnomaly(o.MeanMotion, elapsed)
	e := EccentricAnomaly(m, o.Eccentricity)
	nu := TrueAnomaly(e, o.Eccentricity)
	return o.positionAtTrueAnomaly(nu)
}

// positionAtTrueAnomaly places the body on the orbit and rotates it into the
// reference frame using the 3-1-3 sequence (RAAN, inclination, argument of
// periapsis).
func (o KeplerianOrbit) positionAtTrueAnomaly(nu float64) Vec3 {
	a, ecc := o.SemiMajorAxis, o.Eccentricity
	r := a * (1 - ecc*ecc) / (1 + ecc*math.Cos(nu))
	xp := r * math.Cos(nu)
	yp := r * math.Sin(nu)

	cosO, sinO := math.Cos(deg2rad(o.RAAN)), math.Sin(deg2rad(o.RAAN))
	cosI, sinI := math.Cos(deg2rad(o.Inclination)), math.Sin(deg2rad(o.Inclination))
	cosW, sinW := math.Cos(deg2rad(o.ArgPeriapsis)), math.Sin(deg2rad(o.ArgPeriapsis))

	return Vec3{
		X: (cosO*cosW-sinO*sinW*cosI)*xp + (-cosO*sinW-sinO*cosW*cosI)*yp,
		Y: (sinO*cosW+cosO*sinW*cosI)*xp + (-sinO*sinW+cosO*cosW*cosI)*yp,
		Z: (sinW*sinI)*xp + (cosW*sinI)*yp,
	}
}

// MeanAnomaly returns n*elapsed reduced to [0, 2π).
func MeanAnomaly(meanMotion, elapsed float64) float64 {
	return NormalizeAngle(meanMotion * elapsed)
}

// EccentricAnomaly solves M = E - e*sin(E) by KeplerIterations rounds of
// E = M + e*sin(E), starting from E = M.
func EccentricAnomaly(m, ecc float64) float64 {
	e := m
	for i := 0; i < KeplerIterations; i++ {
		e = m + ecc*math.Sin(e)
	}
	return e
}

// TrueAnomaly converts an eccentric anomaly to the true anomaly.
func TrueAnomaly(eccAnomaly, ecc float64) float64 {
	return 2 * math.Atan2(
		math.Sqrt(1+ecc)*math.Sin(eccAnomaly/2),
		math.Sqrt(1-ecc)*math.Cos(eccAnomaly/2),
	)
}

// NormalizeAngle maps an angle in radians into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

// SecondsSince is t-since in seconds. Unlike time.Time.Sub it does not
// saturate beyond about 292 years.
func SecondsSince(t, since time.Time) float64 {
	return float64(t.Unix()-since.Unix()) + float64(t.Nanosecond()-since.Nanosecond())/1e9
}

// secondsToDuration converts seconds to a Duration, saturating at the
// representable range.
func secondsToDuration(s float64) time.Duration {
	v := s * float64(time.Second)
	switch {
	case v >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	case v <= math.MinInt64:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(v)
}
