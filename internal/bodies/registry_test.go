package bodies

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestRegistry_AddAndGet(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Add(Body{Name: "Sun"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := reg.Add(Body{Name: "Sun"}); !errors.Is(err, ErrDuplicateBody) {
		t.Errorf("expected ErrDuplicateBody, got %v", err)
	}
	if err := reg.Add(Body{}); err == nil {
		t.Error("expected error for unnamed body")
	}

	b, ok := reg.Get("Sun")
	if !ok || b.Name != "Sun" {
		t.Errorf("expected Sun, got %+v (ok=%v)", b, ok)
	}
	if _, ok := reg.Get("Vulcan"); ok {
		t.Error("expected Vulcan to be missing")
	}

	if err := reg.Replace(Body{Name: "Sun", Radius: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, _ := reg.Get("Sun"); b.Radius != 1 {
		t.Errorf("expected replaced radius 1, got %f", b.Radius)
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 body, got %d", reg.Len())
	}
}

func TestRegistry_Ordered(t *testing.T) {
	reg := NewRegistry()
	for _, b := range []Body{
		{Name: "ISS", Parent: "Earth"},
		{Name: "Moon", Parent: "Earth"},
		{Name: "Earth", Parent: "Sun"},
		{Name: "Sun"},
	} {
		if err := reg.Add(b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	ordered, err := reg.Ordered()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Sun", "Earth", "ISS", "Moon"}
	for i, b := range ordered {
		if b.Name != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], b.Name)
		}
	}

	names := reg.Names()
	if names[0] != "ISS" {
		t.Errorf("expected Names in registration order, got %v", names)
	}
}

func TestRegistry_ValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		bodies []Body
		want   error
	}{
		{"unknown parent", []Body{{Name: "Moon", Parent: "Earth"}}, ErrUnknownParent},
		{"self parent", []Body{{Name: "A", Parent: "A"}}, ErrParentCycle},
		{"cycle", []Body{{Name: "A", Parent: "B"}, {Name: "B", Parent: "C"}, {Name: "C", Parent: "A"}}, ErrParentCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			for _, b := range tt.bodies {
				if err := reg.Add(b); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			if err := reg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBody_RotationAngle(t *testing.T) {
	earth := Body{Name: "Earth", DayLength: 24, RotationMultiplier: 1}

	tests := []struct {
		at   time.Time
		want float64
	}{
		{J2000, 0},
		{J2000.Add(6 * time.Hour), math.Pi / 2},
		{J2000.Add(36 * time.Hour), math.Pi},
		{J2000.Add(-6 * time.Hour), 3 * math.Pi / 2},
	}
	for _, tt := range tests {
		if got := earth.RotationAngle(tt.at); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("at %s: expected %f, got %f", tt.at, tt.want, got)
		}
	}

	fast := earth
	fast.RotationMultiplier = 2
	if got := fast.RotationAngle(J2000.Add(6 * time.Hour)); math.Abs(got-math.Pi) > 1e-9 {
		t.Errorf("expected doubled spin pi, got %f", got)
	}

	if got := (Body{}).RotationAngle(J2000.Add(time.Hour)); got != 0 {
		t.Errorf("expected no spin without a day length, got %f", got)
	}
}
