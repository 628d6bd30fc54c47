package sim

import (
	"fmt"
	"math"
)

// FailureRate is the fraction of frames in which at least one body failed.
type FailureRate struct {
	failed  int
	samples int
}

func NewFailureRate() *FailureRate { return &FailureRate{} }

func (r *FailureRate) Name() string { return "failure_rate" }

func (r *FailureRate) Observe(f Frame) {
	r.samples++
	if f.Failed() > 0 {
		r.failed++
	}
}

func (r *FailureRate) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return float64(r.failed) / float64(r.samples)
}

func (r *FailureRate) Reset() {
	r.failed = 0
	r.samples = 0
}

// MeanDistance averages the separation of two bodies.
type MeanDistance struct {
	a, b    string
	total   float64
	samples int
}

func NewMeanDistance(a, b string) *MeanDistance { return &MeanDistance{a: a, b: b} }

func (m *MeanDistance) Name() string { return fmt.Sprintf("mean_distance_%s_%s", m.a, m.b) }

func (m *MeanDistance) Observe(f Frame) {
	if d, ok := separation(f, m.a, m.b); ok {
		m.total += d
		m.samples++
	}
}

func (m *MeanDistance) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanDistance) Reset() {
	m.total = 0
	m.samples = 0
}

// ClosestApproach tracks the minimum separation of two bodies.
type ClosestApproach struct {
	a, b string
	min  float64
}

func NewClosestApproach(a, b string) *ClosestApproach {
	return &ClosestApproach{a: a, b: b, min: math.Inf(1)}
}

func (c *ClosestApproach) Name() string { return fmt.Sprintf("closest_approach_%s_%s", c.a, c.b) }

func (c *ClosestApproach) Observe(f Frame) {
	if d, ok := separation(f, c.a, c.b); ok && d < c.min {
		c.min = d
	}
}

func (c *ClosestApproach) Value() float64 { return c.min }

func (c *ClosestApproach) Reset() { c.min = math.Inf(1) }

func separation(f Frame, a, b string) (float64, bool) {
	ba, ok := f.Body(a)
	if !ok || ba.Err != nil {
		return 0, false
	}
	bb, ok := f.Body(b)
	if !ok || bb.Err != nil {
		return 0, false
	}
	return ba.Position.DistanceTo(bb.Position), true
}
