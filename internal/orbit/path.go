package orbit

import (
	"fmt"
	"time"
)

// DefaultPathPoints is the number of points drawn for one Keplerian orbit.
const DefaultPathPoints = 200

// MaxPathPoints caps the points taken from a sampled trajectory.
const MaxPathPoints = 20000

// Path returns points along one full orbit, suitable for drawing an orbit
// line. For sampled trajectories n caps the number of samples kept; the last
// sample is always included. TLE paths cover one period estimated from the
// mean motion in the element set.
func Path(d Descriptor, n int) ([]Vec3, error) {
	switch d.Kind {
	case KindKeplerian:
		if n <= 0 {
			n = DefaultPathPoints
		}
		return keplerPath(d.Keplerian, n)
	case KindSampled:
		if n <= 0 {
			n = MaxPathPoints
		}
		if d.Sampled.Len() < 2 {
			return nil, &EmptyTrajectoryError{Samples: d.Sampled.Len()}
		}
		return ReducePoints(d.Sampled.samples, n), nil
	case KindTLE:
		if n <= 0 {
			n = DefaultPathPoints
		}
		return tlePath(d.TLE, n)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(d.Kind))
}

func keplerPath(o KeplerianOrbit, n int) ([]Vec3, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	points := make([]Vec3, n+1)
	if o.SemiMajorAxis == 0 {
		return points, nil
	}
	for i := 0; i <= n; i++ {
		nu := float64(i) / float64(n) * twoPi
		points[i] = o.positionAtTrueAnomaly(nu)
	}
	return points, nil
}

func tlePath(tle *TLE, n int) ([]Vec3, error) {
	if tle == nil {
		return nil, ErrInvalidTLE
	}
	period := tle.Period()
	start := tle.Epoch

	points := make([]Vec3, 0, n+1)
	for i := 0; i <= n; i++ {
		p, err := EvaluateTLE(tle, start.Add(period*time.Duration(i)/time.Duration(n)))
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// ReducePoints keeps every k-th point so that at most max points remain,
// always ending on the last point.
func ReducePoints(points []Vec3, max int) []Vec3 {
	if max < 2 || len(points) <= max {
		out := make([]Vec3, len(points))
		copy(out, points)
		return out
	}
	step := (len(points) + max - 2) / (max - 1)
	out := make([]Vec3, 0, max)
	for i := 0; i < len(points)-1; i += step {
		out = append(out, points[i])
	}
	return append(out, points[len(points)-1])
}
