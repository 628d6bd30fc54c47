// Package orbit evaluates where a body is at a given simulation time.
//
// Two evaluators are provided: an analytic Keplerian propagator driven by
// classical orbital elements, and a lookup into a precomputed table of
// timestamped positions. Both are pure functions of their inputs; they hold
// no state between calls and are safe for concurrent use.
package orbit
