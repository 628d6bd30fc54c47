// Package bodies holds the registry of celestial bodies and their orbits.
package bodies

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/san-kum/orrery/internal/orbit"
)

var (
	// ErrDuplicateBody indicates a second body registered under the same name.
	ErrDuplicateBody = errors.New("bodies: duplicate body")

	// ErrUnknownParent indicates a parent name with no registered body.
	ErrUnknownParent = errors.New("bodies: unknown parent")

	// ErrParentCycle indicates bodies that orbit each other through parent links.
	ErrParentCycle = errors.New("bodies: parent cycle")
)

// J2000 is the reference epoch for catalog elements and spin angles.
var J2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// Body is one entry of the registry. Distances are kilometres, mass is
// kilograms and DayLength is hours (negative for retrograde spin).
type Body struct {
	Name               string
	Parent             string
	Radius             float64
	Mass               float64
	Color              string
	DayLength          float64
	RotationMultiplier float64
	Orbit              orbit.Descriptor

	// Trajectory names the table in the trajectory store used when the orbit
	// is sampled and carries no table of its own.
	Trajectory string
}

// RotationAngle is the spin angle in radians at t, measured from J2000.
func (b Body) RotationAngle(t time.Time) float64 {
	if b.DayLength == 0 {
		return 0
	}
	hours := orbit.SecondsSince(t, J2000) / 3600
	return orbit.NormalizeAngle(2 * math.Pi * hours / b.DayLength * b.RotationMultiplier)
}

// Registry is an ordered set of bodies. It is not safe for concurrent
// mutation; build it once and share it read-only.
type Registry struct {
	bodies []Body
	index  map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

func (r *Registry) Add(b Body) error {
	if b.Name == "" {
		return fmt.Errorf("bodies: body needs a name")
	}
	if _, ok := r.index[b.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBody, b.Name)
	}
	r.index[b.Name] = len(r.bodies)
	r.bodies = append(r.bodies, b)
	return nil
}

// Replace swaps the body with the same name, or adds it.
func (r *Registry) Replace(b Body) error {
	if i, ok := r.index[b.Name]; ok {
		r.bodies[i] = b
		return nil
	}
	return r.Add(b)
}

func (r *Registry) Get(name string) (Body, bool) {
	i, ok := r.index[name]
	if !ok {
		return Body{}, false
	}
	return r.bodies[i], true
}

func (r *Registry) Len() int { return len(r.bodies) }

// Names returns body names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.bodies))
	for i, b := range r.bodies {
		names[i] = b.Name
	}
	return names
}

// Bodies returns a copy of the bodies in registration order.
func (r *Registry) Bodies() []Body {
	out := make([]Body, len(r.bodies))
	copy(out, r.bodies)
	return out
}

// Validate checks that every parent exists and that parent links form a
// forest.
func (r *Registry) Validate() error {
	_, err := r.Ordered()
	return err
}

// Ordered returns the bodies with every parent ahead of its children.
// Siblings keep registration order.
func (r *Registry) Ordered() ([]Body, error) {
	depth := make(map[string]int, len(r.bodies))
	for _, b := range r.bodies {
		if _, err := r.depth(b.Name, depth, map[string]bool{}); err != nil {
			return nil, err
		}
	}

	out := r.Bodies()
	sort.SliceStable(out, func(i, j int) bool { return depth[out[i].Name] < depth[out[j].Name] })
	return out, nil
}

func (r *Registry) depth(name string, memo map[string]int, visiting map[string]bool) (int, error) {
	if d, ok := memo[name]; ok {
		return d, nil
	}
	if visiting[name] {
		return 0, fmt.Errorf("%w: %s", ErrParentCycle, name)
	}
	visiting[name] = true

	b := r.bodies[r.index[name]]
	d := 0
	if b.Parent != "" {
		if _, ok := r.index[b.Parent]; !ok {
			return 0, fmt.Errorf("%w: %s (parent of %s)", ErrUnknownParent, b.Parent, b.Name)
		}
		pd, err := r.depth(b.Parent, memo, visiting)
		if err != nil {
			return 0, err
		}
		d = pd + 1
	}
	memo[name] = d
	return d, nil
}
