// Package clock maps wall-clock time to simulation time.
//
// The clock owns pause, speed and direct time jumps; orbit evaluators only
// ever see the resulting simulation timestamp.
package clock

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// ErrInvalidSpeed indicates a non-finite speed multiplier.
var ErrInvalidSpeed = errors.New("clock: speed must be finite")

// Clock is safe for concurrent use.
type Clock struct {
	mu sync.RWMutex

	wall       func() time.Time
	anchorWall time.Time
	anchorSim  time.Time
	speed      float64
	paused     bool
}

type Option func(*Clock)

// WithWallClock replaces time.Now as the source of wall time.
func WithWallClock(now func() time.Time) Option {
	return func(c *Clock) { c.wall = now }
}

// WithSpeed sets the initial multiplier of simulated seconds per wall second.
func WithSpeed(speed float64) Option {
	return func(c *Clock) { c.speed = speed }
}

// WithPaused starts the clock paused.
func WithPaused() Option {
	return func(c *Clock) { c.paused = true }
}

// New returns a clock showing start. The default speed is real time.
func New(start time.Time, opts ...Option) *Clock {
	c := &Clock{wall: time.Now, speed: 1, anchorSim: start}
	for _, opt := range opts {
		opt(c)
	}
	if math.IsNaN(c.speed) || math.IsInf(c.speed, 0) {
		c.speed = 1
	}
	c.anchorWall = c.wall()
	return c
}

// Now returns the current simulation time.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nowLocked()
}

func (c *Clock) nowLocked() time.Time {
	if c.paused {
		return c.anchorSim
	}
	elapsed := c.wall().Sub(c.anchorWall)
	return c.anchorSim.Add(scale(elapsed, c.speed))
}

// scale multiplies d by f, saturating instead of overflowing.
func scale(d time.Duration, f float64) time.Duration {
	v := float64(d) * f
	switch {
	case v >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	case v <= math.MinInt64:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(v)
}

// rebase folds the elapsed simulation time into the anchor so that speed or
// pause changes apply from now on.
func (c *Clock) rebase() {
	c.anchorSim = c.nowLocked()
	c.anchorWall = c.wall()
}

// SetTime jumps the simulation to t.
func (c *Clock) SetTime(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchorSim = t
	c.anchorWall = c.wall()
}

// Advance jumps the simulation by d, which may be negative.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebase()
	c.anchorSim = c.anchorSim.Add(d)
}

// SetSpeed changes the multiplier. Negative speeds run time backwards.
func (c *Clock) SetSpeed(speed float64) error {
	if math.IsNaN(speed) || math.IsInf(speed, 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidSpeed, speed)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebase()
	c.speed = speed
	return nil
}

func (c *Clock) Speed() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.speed
}

func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.rebase()
	c.paused = true
}

func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.anchorWall = c.wall()
	c.paused = false
}

// Toggle flips between paused and running and reports whether the clock is
// now paused.
func (c *Clock) Toggle() bool {
	if c.Paused() {
		c.Resume()
		return false
	}
	c.Pause()
	return true
}

func (c *Clock) Paused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paused
}
