package orbit

import (
	"fmt"
	"time"
)

// Kind tags the payload carried by a Descriptor.
type Kind int

const (
	KindKeplerian Kind = iota
	KindSampled
	KindTLE
)

func (k Kind) String() string {
	switch k {
	case KindKeplerian:
		return "keplerian"
	case KindSampled:
		return "sampled"
	case KindTLE:
		return "tle"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts the names returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "keplerian", "kepler":
		return KindKeplerian, nil
	case "sampled", "trajectory":
		return KindSampled, nil
	case "tle":
		return KindTLE, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Descriptor is the orbit description of one body. Only the payload selected
// by Kind is read.
type Descriptor struct {
	Kind      Kind
	Keplerian KeplerianOrbit
	Sampled   *SampledTrajectory
	Origin    time.Time
	TLE       *TLE
}

func Keplerian(o KeplerianOrbit) Descriptor { return Descriptor{Kind: KindKeplerian, Keplerian: o} }

func Sampled(s *SampledTrajectory, origin time.Time) Descriptor {
	return Descriptor{Kind: KindSampled, Sampled: s, Origin: origin}
}

func Satellite(tle *TLE) Descriptor { return Descriptor{Kind: KindTLE, TLE: tle} }

// Evaluate returns the position described by d at simulation time t.
func (d Descriptor) Evaluate(t time.Time) (Vec3, error) {
	switch d.Kind {
	case KindKeplerian:
		return EvaluateKeplerian(d.Keplerian, t)
	case KindSampled:
		return EvaluateSampled(d.Sampled, t, d.Origin)
	case KindTLE:
		return EvaluateTLE(d.TLE, t)
	}
	return Vec3{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(d.Kind))
}
