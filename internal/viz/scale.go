package viz

import (
	"math"

	"github.com/san-kum/orrery/internal/orbit"
)

// defaultDecades is how many orders of magnitude the log scale keeps
// distinguishable below the extent.
const defaultDecades = 4

// RadialScale maps kilometres to view units so that Extent lands at 1.
// With Decades > 0 the distance from the centre is compressed
// logarithmically, keeping both moons and outer planets on screen; the
// direction is preserved.
type RadialScale struct {
	Extent  float64
	Decades float64
}

func NewRadialScale(extent float64, logarithmic bool) RadialScale {
	if extent <= 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		extent = 1
	}
	s := RadialScale{Extent: extent}
	if logarithmic {
		s.Decades = defaultDecades
	}
	return s
}

// Radius maps a distance to view units.
func (s RadialScale) Radius(r float64) float64 {
	if r <= 0 {
		return 0
	}
	if s.Decades <= 0 {
		return r / s.Extent
	}
	k := math.Pow(10, s.Decades)
	return math.Log10(1+r*k/s.Extent) / math.Log10(1+k)
}

func (s RadialScale) Apply(p orbit.Vec3) orbit.Vec3 {
	r := p.Norm()
	if r == 0 {
		return orbit.Vec3{}
	}
	return p.Scale(s.Radius(r) / r)
}
