package sim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/orrery/internal/orbit"
)

// BodySummary describes a body's distance from its parent over a run.
type BodySummary struct {
	Name    string
	Parent  string
	Min     float64
	Max     float64
	Mean    float64
	Samples int
}

// Summary returns one entry per body, in result order. Steps where a body
// failed are skipped.
func (r *Result) Summary() []BodySummary {
	out := make([]BodySummary, 0, len(r.Bodies))
	for j, name := range r.Bodies {
		d := r.localDistances(j)
		s := BodySummary{Name: name, Parent: r.Parents[j], Samples: len(d)}
		if len(d) > 0 {
			s.Min = floats.Min(d)
			s.Max = floats.Max(d)
			s.Mean = floats.Sum(d) / float64(len(d))
		}
		out = append(out, s)
	}
	return out
}

// Distances is the separation between two bodies at every step.
func (r *Result) Distances(a, b string) ([]float64, error) {
	ia, ib := r.index(a), r.index(b)
	if ia < 0 {
		return nil, fmt.Errorf("sim: body %q not in run", a)
	}
	if ib < 0 {
		return nil, fmt.Errorf("sim: body %q not in run", b)
	}
	out := make([]float64, len(r.Positions))
	for i, row := range r.Positions {
		out[i] = row[ia].DistanceTo(row[ib])
	}
	return out, nil
}

func (r *Result) localDistances(j int) []float64 {
	failed := make(map[int]bool)
	for _, err := range r.Errors {
		if se, ok := err.(*StepError); ok && se.Body == r.Bodies[j] {
			failed[se.Step] = true
		}
	}
	d := make([]float64, 0, len(r.Locals))
	for i, row := range r.Locals {
		if !failed[i] {
			d = append(d, row[j].Norm())
		}
	}
	return d
}

func (r *Result) index(name string) int {
	for i, n := range r.Bodies {
		if n == name {
			return i
		}
	}
	return -1
}

// Track is the root-frame path of one body over the run.
func (r *Result) Track(name string) ([]orbit.Vec3, error) {
	j := r.index(name)
	if j < 0 {
		return nil, fmt.Errorf("sim: body %q not in run", name)
	}
	out := make([]orbit.Vec3, len(r.Positions))
	for i, row := range r.Positions {
		out[i] = row[j]
	}
	return out, nil
}
