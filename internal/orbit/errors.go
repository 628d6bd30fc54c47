package orbit

import (
	"errors"
	"fmt"
)

// Domain errors for orbit evaluation.
var (
	// ErrInvalidElements indicates orbital elements outside the supported range.
	ErrInvalidElements = errors.New("orbit: invalid orbital elements")

	// ErrEmptyTrajectory indicates a sampled trajectory with fewer than two samples.
	ErrEmptyTrajectory = errors.New("orbit: trajectory needs at least two samples")

	// ErrDegenerateTrajectory indicates a zero-width interval between bracketing samples.
	ErrDegenerateTrajectory = errors.New("orbit: degenerate trajectory interval")

	// ErrInvalidTLE indicates a malformed two-line element set.
	ErrInvalidTLE = errors.New("orbit: invalid two-line element set")

	// ErrPropagation indicates the SGP4 propagator produced a non-finite state.
	ErrPropagation = errors.New("orbit: propagation failed")

	// ErrUnknownKind indicates a descriptor with an unsupported kind tag.
	ErrUnknownKind = errors.New("orbit: unknown descriptor kind")
)

// InvalidElementsError names the offending element.
type InvalidElementsError struct {
	Field string
	Value float64
}

func (e *InvalidElementsError) Error() string {
	return fmt.Sprintf("orbit: invalid orbital elements: %s = %g", e.Field, e.Value)
}

func (e *InvalidElementsError) Unwrap() error {
	return ErrInvalidElements
}

// EmptyTrajectoryError reports how many samples were supplied.
type EmptyTrajectoryError struct {
	Samples int
}

func (e *EmptyTrajectoryError) Error() string {
	return fmt.Sprintf("orbit: trajectory needs at least two samples, got %d", e.Samples)
}

func (e *EmptyTrajectoryError) Unwrap() error {
	return ErrEmptyTrajectory
}

// DegenerateTrajectoryError identifies the bracket that cannot be interpolated.
type DegenerateTrajectoryError struct {
	Left, Right int
	Key         float64
	Reason      string
}

func (e *DegenerateTrajectoryError) Error() string {
	return fmt.Sprintf("orbit: degenerate trajectory interval [%d,%d] at key %g: %s", e.Left, e.Right, e.Key, e.Reason)
}

func (e *DegenerateTrajectoryError) Unwrap() error {
	return ErrDegenerateTrajectory
}
