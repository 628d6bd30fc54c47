package orbit

import (
	"math"
	"sort"
	"time"
)

// Table maps a time offset in seconds, relative to the trajectory origin, to
// the position recorded at that offset.
type Table map[float64]Vec3

// SampledTrajectory is a read-only, key-sorted view of a Table. The whole
// table is treated as one cycle of a periodic orbit with period
// keys[N-1]-keys[0].
type SampledTrajectory struct {
	keys    []float64
	samples []Vec3
}

// NewSampledTrajectory sorts the table once so that evaluations only search.
func NewSampledTrajectory(tbl Table) (*SampledTrajectory, error) {
	keys := make([]float64, 0, len(tbl))
	for k := range tbl {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	samples := make([]Vec3, len(keys))
	for i, k := range keys {
		samples[i] = tbl[k]
	}
	return newSorted(keys, samples)
}

// NewSampledTrajectoryFromSamples builds a trajectory from parallel slices.
// Keys need not be sorted but must be distinct.
func NewSampledTrajectoryFromSamples(keys []float64, samples []Vec3) (*SampledTrajectory, error) {
	if len(keys) != len(samples) {
		return nil, &DegenerateTrajectoryError{Left: len(keys), Right: len(samples), Reason: "key and sample counts differ"}
	}
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })

	sk := make([]float64, len(keys))
	ss := make([]Vec3, len(keys))
	for i, j := range idx {
		sk[i] = keys[j]
		ss[i] = samples[j]
	}
	return newSorted(sk, ss)
}

func newSorted(keys []float64, samples []Vec3) (*SampledTrajectory, error) {
	if len(keys) < 2 {
		return nil, &EmptyTrajectoryError{Samples: len(keys)}
	}
	for i, k := range keys {
		if !isFinite(k) {
			return nil, &DegenerateTrajectoryError{Left: i, Right: i, Key: k, Reason: "non-finite key"}
		}
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] == keys[i-1] {
			return nil, &DegenerateTrajectoryError{Left: i - 1, Right: i, Key: keys[i], Reason: "duplicate keys"}
		}
	}
	return &SampledTrajectory{keys: keys, samples: samples}, nil
}

func (s *SampledTrajectory) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Period is the span between the first and the last key, in seconds.
func (s *SampledTrajectory) Period() float64 {
	return s.keys[len(s.keys)-1] - s.keys[0]
}

// Keys returns a copy of the sorted keys.
func (s *SampledTrajectory) Keys() []float64 {
	out := make([]float64, len(s.keys))
	copy(out, s.keys)
	return out
}

// Sample returns the i-th key and position in key order.
func (s *SampledTrajectory) Sample(i int) (float64, Vec3) {
	return s.keys[i], s.samples[i]
}

// EvaluateSampled returns the interpolated position at simulation time t for
// a trajectory whose offsets are measured from origin.
func EvaluateSampled(s *SampledTrajectory, t, origin time.Time) (Vec3, error) {
	return s.At(SecondsSince(t, origin))
}

// EvaluateTable is EvaluateSampled for an unsorted table, sorting on every
// call.
func EvaluateTable(tbl Table, t, origin time.Time) (Vec3, error) {
	s, err := NewSampledTrajectory(tbl)
	if err != nil {
		return Vec3{}, err
	}
	return EvaluateSampled(s, t, origin)
}

// At interpolates the trajectory at offset seconds from the origin. Offsets
// outside [keys[0], keys[N-1]] are folded back into the cycle.
func (s *SampledTrajectory) At(offset float64) (Vec3, error) {
	if s.Len() < 2 {
		return Vec3{}, &EmptyTrajectoryError{Samples: s.Len()}
	}
	if !isFinite(offset) {
		return Vec3{}, &DegenerateTrajectoryError{Key: offset, Reason: "non-finite offset"}
	}

	n := len(s.keys)
	first, last := s.keys[0], s.keys[n-1]
	period := last - first
	if offset < first || offset > last {
		offset = first + math.Mod(offset-first, period)
		if offset < first {
			offset += period
		}
	}

	// rightmost key <= offset
	left := sort.Search(n, func(i int) bool { return s.keys[i] > offset }) - 1
	if left < 0 {
		left = 0
	}
	right := (left + 1) % n

	var frac float64
	if right == 0 {
		frac = (offset - s.keys[left]) / period
	} else {
		width := s.keys[right] - s.keys[left]
		if width == 0 {
			return Vec3{}, &DegenerateTrajectoryError{Left: left, Right: right, Key: s.keys[left], Reason: "duplicate keys"}
		}
		frac = (offset - s.keys[left]) / width
	}
	frac = math.Max(0, math.Min(1, frac))

	return s.samples[left].Lerp(s.samples[right], frac), nil
}
