package orbit

import "time"

// DefaultVelocityStep is the half-width of the central difference used by
// Velocity when no step is given.
const DefaultVelocityStep = time.Second

// Velocity estimates the velocity at t by central difference over ±h. The
// result is in position units per second. TLE propagation resolves whole
// seconds, so h is at least one second for KindTLE.
func Velocity(d Descriptor, t time.Time, h time.Duration) (Vec3, error) {
	if h <= 0 {
		h = DefaultVelocityStep
	}
	if d.Kind == KindTLE && h < time.Second {
		h = time.Second
	}
	before, err := d.Evaluate(t.Add(-h))
	if err != nil {
		return Vec3{}, err
	}
	after, err := d.Evaluate(t.Add(h))
	if err != nil {
		return Vec3{}, err
	}
	return after.Sub(before).Scale(1 / (2 * h.Seconds())), nil
}
