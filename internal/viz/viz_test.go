package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/orbit"
	"github.com/san-kum/orrery/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if !c.IsSet(0, 0) || !c.IsSet(3, 3) {
		t.Error("expected dots to be set")
	}
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected U+2801, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected U+2880, got %U", c.Grid[0][1])
	}

	c.Unset(0, 0)
	if c.IsSet(0, 0) {
		t.Error("expected dot to be cleared")
	}
	c.Clear()
	if c.String() != "\u2800\u2800\n" {
		t.Errorf("expected blank row, got %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19)
	for i := 0; i < 20; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("expected (%d,%d) on the diagonal", i, i)
		}
	}
}

func TestCameraProject(t *testing.T) {
	cam := &Camera{Zoom: 1}
	x, y, _, ok := cam.Project(orbit.Vec3{}, 100, 80)
	if !ok || x != 50 || y != 40 {
		t.Errorf("expected origin at (50,40), got (%d,%d) %v", x, y, ok)
	}

	x, y, _, _ = cam.Project(orbit.Vec3{X: 1}, 100, 80)
	if x != 50+36 || y != 40 {
		t.Errorf("expected (86,40), got (%d,%d)", x, y)
	}

	cam.ZoomIn()
	zx, _, _, _ := cam.Project(orbit.Vec3{X: 0.5}, 100, 80)
	if zx <= 50+18 {
		t.Errorf("expected zoom to push point outwards, got x=%d", zx)
	}

	persp := NewCamera()
	persp.RotX = 0
	if _, _, _, ok := persp.Project(orbit.Vec3{Z: 10}, 100, 80); ok {
		t.Error("expected point behind the camera to be hidden")
	}
}

func TestRadialScale(t *testing.T) {
	lin := NewRadialScale(100, false)
	if got := lin.Radius(50); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}

	log := NewRadialScale(100, true)
	if got := log.Radius(100); math.Abs(got-1) > 1e-12 {
		t.Errorf("expected extent to map to 1, got %f", got)
	}
	if log.Radius(1) <= lin.Radius(1) {
		t.Error("expected log scale to lift small distances")
	}
	if log.Radius(10) >= log.Radius(20) {
		t.Error("expected log scale to be monotonic")
	}

	p := log.Apply(orbit.Vec3{X: 3, Y: 4})
	if math.Abs(p.X/p.Y-0.75) > 1e-12 {
		t.Errorf("expected direction preserved, got %+v", p)
	}
	if got := log.Apply(orbit.Vec3{}); got != (orbit.Vec3{}) {
		t.Errorf("expected origin, got %+v", got)
	}
	if s := NewRadialScale(0, true); s.Extent != 1 {
		t.Errorf("expected zero extent to fall back to 1, got %f", s.Extent)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("retro").Name != "retro" {
		t.Error("expected retro theme")
	}
	if GetTheme("missing").Name != Themes[0].Name {
		t.Error("expected fallback to first theme")
	}
	last := Themes[len(Themes)-1].Name
	if NextTheme(last).Name != Themes[0].Name {
		t.Error("expected NextTheme to wrap")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("expected one name per theme")
	}
}

type fixedWall struct{ t time.Time }

func (w *fixedWall) now() time.Time { return w.t }

func newTestModel(t *testing.T) (Model, *clock.Clock) {
	t.Helper()
	reg, err := bodies.Catalog("inner")
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	s, err := sim.New(reg)
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	wall := &fixedWall{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := clock.New(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), clock.WithWallClock(wall.now))
	return NewModel(s, c, WithTheme("minimal")), c
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelKeys(t *testing.T) {
	m, c := newTestModel(t)
	start := c.Now()

	m = press(m, " ")
	if !c.Paused() {
		t.Error("expected space to pause the clock")
	}

	m = press(m, "]")
	if got := c.Now().Sub(start); got != 24*time.Hour {
		t.Errorf("expected one day jump, got %v", got)
	}
	if !m.frame.Time.Equal(c.Now()) {
		t.Error("expected frame to follow the clock after a jump")
	}

	speed := c.Speed()
	m = press(m, ">")
	if c.Speed() != 2*speed {
		t.Errorf("expected speed %f, got %f", 2*speed, c.Speed())
	}

	m = press(m, "tab")
	if m.selected != 1 {
		t.Errorf("expected selection 1, got %d", m.selected)
	}

	m = press(m, "t")
	if m.theme.Name != NextTheme("minimal").Name {
		t.Errorf("expected theme after minimal, got %s", m.theme.Name)
	}
}

func TestModelManeuverNodes(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, "p")
	if !strings.Contains(m.status, "no maneuver node") {
		t.Errorf("expected missing node status, got %q", m.status)
	}

	m = press(m, "n")
	if len(m.plan.Nodes()) != 0 {
		t.Error("expected no node on the static Sun")
	}

	m = press(m, "tab")
	m = press(m, "n")
	if len(m.plan.Nodes()) != 1 {
		t.Fatalf("expected 1 node, got %d", len(m.plan.Nodes()))
	}
	m = press(m, "p")
	m = press(m, "p")
	m = press(m, "J")
	node := m.plan.Selected()
	if math.Abs(node.DeltaV.Prograde-0.02) > 1e-12 || math.Abs(node.DeltaV.Radial+0.01) > 1e-12 {
		t.Errorf("expected Δv (0.02, 0, -0.01), got %+v", node.DeltaV)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(Model)
	if len(m.plan.Nodes()) != 0 {
		t.Error("expected node to be removed")
	}
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "tab")

	out := m.View()
	for _, want := range []string{"ORRERY", "Mercury", "JD", "Sun"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	drawn := 0
	for _, row := range m.canvas.Grid {
		for _, r := range row {
			if r != 0x2800 {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("expected something drawn on the canvas")
	}

	m = press(m, "?")
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("expected help overlay")
	}
}

func TestModelSnapshot(t *testing.T) {
	var got *Canvas
	m, _ := newTestModel(t)
	m.snapshot = func(c *Canvas, _ time.Time) (string, error) {
		got = c
		return "orrery.svg", nil
	}
	m = press(m, "s")
	if got == nil {
		t.Fatal("expected snapshot to be taken")
	}
	if m.status != "saved orrery.svg" {
		t.Errorf("expected saved status, got %q", m.status)
	}
}
