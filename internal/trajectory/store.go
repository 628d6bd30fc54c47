package trajectory

import (
	"fmt"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/san-kum/orrery/internal/orbit"
)

// Set is an immutable collection of sampled trajectories sharing one origin.
type Set struct {
	Origin time.Time
	tables map[string]*orbit.SampledTrajectory
}

// NewSet sorts every table once. A table that cannot be evaluated fails the
// whole set.
func NewSet(origin time.Time, tables map[string]orbit.Table) (*Set, error) {
	s := &Set{Origin: origin, tables: make(map[string]*orbit.SampledTrajectory, len(tables))}
	for name, tbl := range tables {
		tr, err := orbit.NewSampledTrajectory(tbl)
		if err != nil {
			return nil, fmt.Errorf("trajectory %s: %w", name, err)
		}
		s.tables[name] = tr
	}
	return s, nil
}

func (s *Set) Get(name string) (*orbit.SampledTrajectory, bool) {
	if s == nil {
		return nil, false
	}
	tr, ok := s.tables[name]
	return tr, ok
}

func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store hands out the current Set. Readers never observe a partially
// replaced set; replacement swaps the whole reference.
type Store struct {
	current atomic.Pointer[Set]
}

func NewStore() *Store {
	return &Store{}
}

// Replace publishes set to subsequent readers. The previous set stays valid
// for readers still holding it.
func (s *Store) Replace(set *Set) {
	s.current.Store(set)
}

// Current returns the published set, or nil before the first Replace.
func (s *Store) Current() *Set {
	return s.current.Load()
}

// Descriptor returns the sampled orbit descriptor for name.
func (s *Store) Descriptor(name string) (orbit.Descriptor, bool) {
	set := s.Current()
	tr, ok := set.Get(name)
	if !ok {
		return orbit.Descriptor{}, false
	}
	return orbit.Sampled(tr, set.Origin), true
}

// LoadFile reads a trajectory JSON file and publishes it.
func (s *Store) LoadFile(path string, origin time.Time) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tables, err := ParseJSON(f)
	if err != nil {
		return nil, err
	}
	set, err := NewSet(origin, tables)
	if err != nil {
		return nil, err
	}
	s.Replace(set)
	return set, nil
}
