package trajectory

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/san-kum/orrery/internal/orbit"
)

func TestStore_ReplaceAndDescriptor(t *testing.T) {
	s := NewStore()
	if _, ok := s.Descriptor("Earth"); ok {
		t.Error("expected no descriptor before first Replace")
	}

	set, err := NewSet(ReferenceEpoch, map[string]orbit.Table{
		"Probe": {0: {}, 50: {X: 100}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Replace(set)

	d, ok := s.Descriptor("Probe")
	if !ok {
		t.Fatal("expected Probe descriptor")
	}
	pos, err := d.Evaluate(ReferenceEpoch.Add(25e9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.X != 50 {
		t.Errorf("expected x=50, got %f", pos.X)
	}
	if names := s.Current().Names(); len(names) != 1 || names[0] != "Probe" {
		t.Errorf("expected [Probe], got %v", names)
	}
}

func TestNewSet_RejectsBadTable(t *testing.T) {
	_, err := NewSet(ReferenceEpoch, map[string]orbit.Table{"Lonely": {0: {}}})
	if !errors.Is(err, orbit.ErrEmptyTrajectory) {
		t.Errorf("expected ErrEmptyTrajectory, got %v", err)
	}
}

func TestStore_ConcurrentReplace(t *testing.T) {
	s := NewStore()
	first, _ := NewSet(ReferenceEpoch, map[string]orbit.Table{"Probe": {0: {X: 1}, 10: {X: 1}}})
	second, _ := NewSet(ReferenceEpoch, map[string]orbit.Table{"Probe": {0: {X: 2}, 10: {X: 2}}})
	s.Replace(first)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if i%2 == 0 {
				s.Replace(second)
			} else {
				s.Replace(first)
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		d, ok := s.Descriptor("Probe")
		if !ok {
			t.Fatal("expected Probe descriptor")
		}
		pos, err := d.Evaluate(ReferenceEpoch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pos.X != 1 && pos.X != 2 {
			t.Fatalf("expected a value from one whole set, got %f", pos.X)
		}
	}
	wg.Wait()
}

func TestStore_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trajectories.json")
	if err := os.WriteFile(path, []byte(serviceBody), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore()
	set, err := s.LoadFile(path, ReferenceEpoch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Current() != set {
		t.Error("expected loaded set to be published")
	}
	if tr, ok := set.Get("Earth"); !ok || tr.Len() != 3 {
		t.Errorf("expected Earth with 3 samples, got %v", tr)
	}

	if _, err := s.LoadFile(filepath.Join(t.TempDir(), "missing.json"), ReferenceEpoch); err == nil {
		t.Error("expected error for missing file")
	}
	if s.Current() != set {
		t.Error("expected failed load to keep the previous set")
	}
}
