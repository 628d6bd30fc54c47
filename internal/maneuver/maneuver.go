// Package maneuver plans velocity-change events on evaluated orbits.
//
// A node is anchored to a body at a simulation time; its delta-v is kept in
// the body's local orbital frame so that nudges map to the familiar
// prograde, normal and radial handles.
package maneuver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/orrery/internal/orbit"
)

var (
	// ErrDegenerateFrame indicates a zero or collinear position/velocity pair.
	ErrDegenerateFrame = errors.New("maneuver: position and velocity do not span a plane")

	// ErrUnknownNode indicates a node ID not present in the plan.
	ErrUnknownNode = errors.New("maneuver: unknown node")
)

type Direction int

const (
	Prograde Direction = iota
	Retrograde
	Normal
	Antinormal
	RadialOut
	RadialIn
)

var directionNames = []string{"prograde", "retrograde", "normal", "antinormal", "radial-out", "radial-in"}

func (d Direction) String() string {
	if int(d) >= 0 && int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	switch s {
	case "radialout":
		s = "radial-out"
	case "radialin":
		s = "radial-in"
	}
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("maneuver: unknown direction %q", s)
}

// Frame is the local orbital basis at one point of an orbit.
type Frame struct {
	Prograde  orbit.Vec3
	Normal    orbit.Vec3
	RadialOut orbit.Vec3
}

// LocalFrame builds the basis from a position and velocity relative to the
// body being orbited. Prograde follows velocity, normal follows r×v and
// radial-out completes the right-handed set.
func LocalFrame(r, v orbit.Vec3) (Frame, error) {
	p := v.Normalize()
	n := r.Cross(v).Normalize()
	if p == (orbit.Vec3{}) || n == (orbit.Vec3{}) {
		return Frame{}, ErrDegenerateFrame
	}
	return Frame{Prograde: p, Normal: n, RadialOut: p.Cross(n)}, nil
}

// Unit returns the reference-frame unit vector for a direction.
func (f Frame) Unit(d Direction) orbit.Vec3 {
	switch d {
	case Prograde:
		return f.Prograde
	case Retrograde:
		return f.Prograde.Scale(-1)
	case Normal:
		return f.Normal
	case Antinormal:
		return f.Normal.Scale(-1)
	case RadialOut:
		return f.RadialOut
	case RadialIn:
		return f.RadialOut.Scale(-1)
	}
	return orbit.Vec3{}
}

// DeltaV holds a velocity change in local components.
type DeltaV struct {
	Prograde float64
	Normal   float64
	Radial   float64
}

// Node is a planned velocity change for one body.
type Node struct {
	ID       int
	Body     string
	Time     time.Time
	Position orbit.Vec3
	Velocity orbit.Vec3
	Frame    Frame
	DeltaV   DeltaV
}

// NewNode anchors a node on the orbit described by d at time t.
func NewNode(body string, d orbit.Descriptor, t time.Time) (*Node, error) {
	r, err := d.Evaluate(t)
	if err != nil {
		return nil, err
	}
	v, err := orbit.Velocity(d, t, 0)
	if err != nil {
		return nil, err
	}
	f, err := LocalFrame(r, v)
	if err != nil {
		return nil, fmt.Errorf("%s at %s: %w", body, t.Format(time.RFC3339), err)
	}
	return &Node{Body: body, Time: t, Position: r, Velocity: v, Frame: f}, nil
}

// Nudge adds amount along a direction. Negative amounts pull the opposite
// way.
func (n *Node) Nudge(d Direction, amount float64) {
	switch d {
	case Prograde:
		n.DeltaV.Prograde += amount
	case Retrograde:
		n.DeltaV.Prograde -= amount
	case Normal:
		n.DeltaV.Normal += amount
	case Antinormal:
		n.DeltaV.Normal -= amount
	case RadialOut:
		n.DeltaV.Radial += amount
	case RadialIn:
		n.DeltaV.Radial -= amount
	}
}

// Inertial returns the delta-v in the reference frame.
func (n *Node) Inertial() orbit.Vec3 {
	return n.Frame.Prograde.Scale(n.DeltaV.Prograde).
		Add(n.Frame.Normal.Scale(n.DeltaV.Normal)).
		Add(n.Frame.RadialOut.Scale(n.DeltaV.Radial))
}

// Magnitude is the total delta-v of the node.
func (n *Node) Magnitude() float64 {
	return n.Inertial().Norm()
}

// VelocityAfter is the body's velocity once the burn is applied.
func (n *Node) VelocityAfter() orbit.Vec3 {
	return n.Velocity.Add(n.Inertial())
}
