// Package sim evaluates every registered body at a simulation time and runs
// headless sweeps over a time range.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/orbit"
	"github.com/san-kum/orrery/internal/trajectory"
)

// ErrMissingTrajectory indicates a sampled body whose table is not loaded.
var ErrMissingTrajectory = errors.New("sim: trajectory not loaded")

// ErrParentFailed marks a body skipped because its parent failed.
var ErrParentFailed = errors.New("sim: parent evaluation failed")

const defaultWorkers = 4

type Simulator struct {
	bodies       []bodies.Body
	parentIdx    []int
	trajectories *trajectory.Store
	collector    *metrics.Collector
	logger       logging.Logger
	workers      int
	minChunk     int
	metrics      []Metric
	observers    []Observer
}

type Option func(*Simulator)

// WithTrajectories supplies tables for sampled bodies.
func WithTrajectories(store *trajectory.Store) Option {
	return func(s *Simulator) { s.trajectories = store }
}

func WithCollector(c *metrics.Collector) Option {
	return func(s *Simulator) { s.collector = c }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithWorkers bounds the goroutines used per frame.
func WithWorkers(n int) Option {
	return func(s *Simulator) { s.workers = n }
}

// New orders the registry parents-first. It fails on unknown parents or
// parent cycles.
func New(reg *bodies.Registry, opts ...Option) (*Simulator, error) {
	ordered, err := reg.Ordered()
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		bodies:    ordered,
		parentIdx: make([]int, len(ordered)),
		logger:    logging.Noop(),
		workers:   defaultWorkers,
		minChunk:  4,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.trajectories == nil {
		s.trajectories = trajectory.NewStore()
	}

	index := make(map[string]int, len(ordered))
	for i, b := range ordered {
		index[b.Name] = i
	}
	for i, b := range ordered {
		s.parentIdx[i] = -1
		if b.Parent != "" {
			s.parentIdx[i] = index[b.Parent]
		}
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Bodies returns the bodies in evaluation order.
func (s *Simulator) Bodies() []bodies.Body {
	out := make([]bodies.Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

func (s *Simulator) Trajectories() *trajectory.Store { return s.trajectories }

// Descriptor resolves the orbit used for a body, pulling sampled tables from
// the trajectory store.
func (s *Simulator) Descriptor(b bodies.Body) (orbit.Descriptor, error) {
	if b.Orbit.Kind != orbit.KindSampled || b.Orbit.Sampled != nil {
		return b.Orbit, nil
	}
	d, ok := s.trajectories.Descriptor(b.Trajectory)
	if !ok {
		return orbit.Descriptor{}, fmt.Errorf("%w: %s", ErrMissingTrajectory, b.Trajectory)
	}
	return d, nil
}

// Evaluate computes a frame at t. Local positions are evaluated in parallel;
// parent offsets are then applied in order.
func (s *Simulator) Evaluate(t time.Time) Frame {
	states := make([]BodyState, len(s.bodies))

	ParallelFor(len(s.bodies), s.minChunk, s.workers, func(start, end int) {
		for i := start; i < end; i++ {
			states[i] = s.evaluateLocal(s.bodies[i], t)
		}
	})

	for i := range states {
		st := &states[i]
		st.Position = st.Local
		p := s.parentIdx[i]
		if p < 0 || st.Err != nil {
			continue
		}
		if parent := states[p]; parent.Err != nil {
			st.Err = fmt.Errorf("%w: %s", ErrParentFailed, parent.Name)
		} else {
			st.Position = parent.Position.Add(st.Local)
		}
	}

	for _, st := range states {
		if st.Err != nil {
			s.logger.Debug(context.Background(), "body evaluation failed",
				logging.String("body", st.Name), logging.Time("sim_time", t), logging.Err(st.Err))
		}
	}
	s.collector.ObserveFrame(t, len(states))

	return Frame{Time: t, Bodies: states}
}

func (s *Simulator) evaluateLocal(b bodies.Body, t time.Time) BodyState {
	st := BodyState{
		Name:     b.Name,
		Parent:   b.Parent,
		Kind:     b.Orbit.Kind,
		Rotation: b.RotationAngle(t),
	}

	start := time.Now()
	d, err := s.Descriptor(b)
	if err == nil {
		st.Local, err = d.Evaluate(t)
	}
	s.collector.ObserveEvaluation(b.Orbit.Kind.String(), time.Since(start), err)
	st.Err = err
	return st
}

// Tick evaluates the frame at the clock's current time.
func (s *Simulator) Tick(c Clock) Frame {
	return s.Evaluate(c.Now())
}

// Run sweeps [cfg.Start, cfg.Start+cfg.Duration] in steps of cfg.Dt. On
// cancellation it returns the frames gathered so far with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	return s.RunWithCallback(ctx, cfg, nil)
}

// RunWithCallback is Run with a per-frame hook; returning false stops the
// run early without error.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, cb func(Frame) bool) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Bodies:    make([]string, len(s.bodies)),
		Parents:   make([]string, len(s.bodies)),
		Times:     make([]time.Time, 0, steps+1),
		Positions: make([][]orbit.Vec3, 0, steps+1),
		Locals:    make([][]orbit.Vec3, 0, steps+1),
		Errors:    make([]error, 0),
		Metrics:   make(map[string]float64),
	}
	for i, b := range s.bodies {
		result.Bodies[i] = b.Name
		result.Parents[i] = b.Parent
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Info(ctx, "run started",
		logging.Time("start", cfg.Start), logging.Float("dt", cfg.Dt),
		logging.Float("duration", cfg.Duration), logging.Int("bodies", len(s.bodies)))

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			s.collectMetrics(result)
			return result, ctx.Err()
		default:
		}

		t := cfg.Start.Add(time.Duration(float64(i) * cfg.Dt * float64(time.Second)))
		f := s.Evaluate(t)

		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnFrame(f)
		}

		pos := make([]orbit.Vec3, len(f.Bodies))
		local := make([]orbit.Vec3, len(f.Bodies))
		for j, b := range f.Bodies {
			pos[j] = b.Position
			local[j] = b.Local
			if b.Err != nil {
				result.Errors = append(result.Errors, &StepError{Step: i, Time: t, Body: b.Name, Wrapped: b.Err})
			}
		}
		result.Times = append(result.Times, t)
		result.Positions = append(result.Positions, pos)
		result.Locals = append(result.Locals, local)
		result.StepsTaken++

		if cb != nil && !cb(f) {
			break
		}
	}

	s.collectMetrics(result)
	s.logger.Info(ctx, "run finished",
		logging.Int("steps", result.StepsTaken), logging.Int("errors", len(result.Errors)))
	return result, nil
}

func (s *Simulator) collectMetrics(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %f", cfg.Duration)
	}
	return nil
}
