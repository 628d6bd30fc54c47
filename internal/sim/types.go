package sim

import (
	"time"

	"github.com/san-kum/orrery/internal/orbit"
)

// BodyState is one body's evaluated position within a frame.
type BodyState struct {
	Name     string
	Parent   string
	Kind     orbit.Kind
	// Local is relative to the parent; Position is relative to the root.
	Local    orbit.Vec3
	Position orbit.Vec3
	Rotation float64
	Err      error
}

// Frame is every body evaluated at one simulation time, parents first.
type Frame struct {
	Time   time.Time
	Bodies []BodyState
}

// Body looks up a body by name.
func (f Frame) Body(name string) (BodyState, bool) {
	for _, b := range f.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyState{}, false
}

// Failed counts bodies whose evaluation returned an error.
func (f Frame) Failed() int {
	n := 0
	for _, b := range f.Bodies {
		if b.Err != nil {
			n++
		}
	}
	return n
}

// Clock supplies the simulation time for Tick.
type Clock interface {
	Now() time.Time
}

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// Config describes a headless run. Dt and Duration are seconds of
// simulation time.
type Config struct {
	Start    time.Time
	Dt       float64
	Duration float64
}

// Result holds every frame of a run in column form: Positions[i][j] is body
// Bodies[j] at Times[i].
type Result struct {
	Bodies     []string
	Parents    []string
	Times      []time.Time
	Positions  [][]orbit.Vec3
	Locals     [][]orbit.Vec3
	Errors     []error
	Metrics    map[string]float64
	StepsTaken int
}
