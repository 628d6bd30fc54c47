package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/soniakeys/meeus/v3/julian"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/maneuver"
	"github.com/san-kum/orrery/internal/orbit"
	"github.com/san-kum/orrery/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	panelWidth      = 46
	historyCapacity = 240
	jumpStep        = 24 * time.Hour
	nudgeStep       = 0.01 // km/s
	rotateStep      = 0.1
)

type TickMsg time.Time

// SnapshotFunc persists the canvas and returns where it went.
type SnapshotFunc func(c *Canvas, t time.Time) (string, error)

type Option func(*Model)

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = GetTheme(name) }
}

// WithFrameInterval sets the redraw period.
func WithFrameInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

func WithSnapshot(fn SnapshotFunc) Option {
	return func(m *Model) { m.snapshot = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// Model is the live orrery view. Each tick reads the clock, evaluates every
// body through the simulator and redraws the canvas.
type Model struct {
	sim    *sim.Simulator
	memo   *sim.Memo
	clock  *clock.Clock
	logger logging.Logger

	bodies []bodies.Body
	paths  map[string][]orbit.Vec3
	frame  sim.Frame

	canvas     *Canvas
	camera     *Camera
	theme      Theme
	interval   time.Duration
	snapshot   SnapshotFunc
	selected   int
	focus      string
	logScale   bool
	showOrbits bool
	showHelp   bool
	history    []float64
	plan       *maneuver.Plan
	status     string
}

// NewModel builds the view and precomputes one orbit line per body. Bodies
// whose orbit cannot be traced are drawn without a line.
func NewModel(s *sim.Simulator, c *clock.Clock, opts ...Option) Model {
	m := Model{
		sim:        s,
		memo:       sim.NewMemo(s),
		clock:      c,
		logger:     logging.Noop(),
		bodies:     s.Bodies(),
		paths:      make(map[string][]orbit.Vec3),
		canvas:     NewCanvas(defaultWidth, defaultHeight),
		camera:     NewCamera(),
		theme:      Themes[0],
		interval:   time.Second / 30,
		logScale:   true,
		showOrbits: true,
		history:    make([]float64, 0, historyCapacity),
		plan:       maneuver.NewPlan(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	for _, b := range m.bodies {
		if b.Parent == "" {
			continue
		}
		d, err := s.Descriptor(b)
		if err != nil {
			m.logger.Warn(context.Background(), "no orbit line", logging.String("body", b.Name), logging.Err(err))
			continue
		}
		path, err := orbit.Path(d, 0)
		if err != nil {
			m.logger.Warn(context.Background(), "no orbit line", logging.String("body", b.Name), logging.Err(err))
			continue
		}
		m.paths[b.Name] = path
	}
	m.refresh()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.canvas = NewCanvas(msg.Width-panelWidth-8, msg.Height-4)
		m.draw()
	case tea.KeyMsg:
		if quit := m.handleKey(msg.String()); quit {
			return m, tea.Quit
		}
		m.refresh()
	case TickMsg:
		m.refresh()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(key string) bool {
	switch key {
	case "q", "ctrl+c":
		return true
	case " ":
		m.clock.Toggle()
	case ">", ".":
		m.setSpeed(m.clock.Speed() * 2)
	case "<", ",":
		m.setSpeed(m.clock.Speed() / 2)
	case "r":
		m.setSpeed(-m.clock.Speed())
	case "]":
		m.clock.Advance(jumpStep)
	case "[":
		m.clock.Advance(-jumpStep)
	case "tab":
		m.cycleBody(1)
	case "shift+tab":
		m.cycleBody(-1)
	case "f":
		m.toggleFocus()
	case "x":
		m.camera.RotateX(rotateStep)
	case "X":
		m.camera.RotateX(-rotateStep)
	case "y":
		m.camera.RotateY(rotateStep)
	case "Y":
		m.camera.RotateY(-rotateStep)
	case "z":
		m.camera.RotateZ(rotateStep)
	case "Z":
		m.camera.RotateZ(-rotateStep)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "0":
		m.camera.Reset()
	case "o":
		m.showOrbits = !m.showOrbits
	case "l":
		m.logScale = !m.logScale
	case "n":
		m.addNode()
	case "p":
		m.nudge(maneuver.Prograde)
	case "P":
		m.nudge(maneuver.Retrograde)
	case "k":
		m.nudge(maneuver.Normal)
	case "K":
		m.nudge(maneuver.Antinormal)
	case "j":
		m.nudge(maneuver.RadialOut)
	case "J":
		m.nudge(maneuver.RadialIn)
	case "backspace", "delete":
		m.removeNode()
	case "t":
		m.theme = NextTheme(m.theme.Name)
	case "s":
		m.saveSnapshot()
	case "?":
		m.showHelp = !m.showHelp
	}
	return false
}

func (m *Model) setSpeed(v float64) {
	if err := m.clock.SetSpeed(v); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) cycleBody(dir int) {
	if len(m.bodies) == 0 {
		return
	}
	m.selected = (m.selected + dir + len(m.bodies)) % len(m.bodies)
	m.history = m.history[:0]
}

func (m *Model) toggleFocus() {
	name := m.bodies[m.selected].Name
	if m.focus == name {
		m.focus = ""
		return
	}
	m.focus = name
}

func (m *Model) addNode() {
	if len(m.bodies) == 0 {
		return
	}
	b := m.bodies[m.selected]
	d, err := m.sim.Descriptor(b)
	if err != nil {
		m.status = err.Error()
		return
	}
	node, err := maneuver.NewNode(b.Name, d, m.clock.Now())
	if err != nil {
		m.status = err.Error()
		return
	}
	id := m.plan.Add(node)
	m.status = fmt.Sprintf("node #%d on %s", id, b.Name)
}

func (m *Model) nudge(dir maneuver.Direction) {
	node := m.plan.Selected()
	if node == nil {
		m.status = "no maneuver node selected"
		return
	}
	node.Nudge(dir, nudgeStep)
}

func (m *Model) removeNode() {
	node := m.plan.Selected()
	if node == nil {
		return
	}
	if err := m.plan.Remove(node.ID); err != nil {
		m.status = err.Error()
		return
	}
	if nodes := m.plan.Nodes(); len(nodes) > 0 {
		_ = m.plan.Select(nodes[len(nodes)-1].ID)
	}
}

func (m *Model) saveSnapshot() {
	if m.snapshot == nil {
		m.status = "snapshots disabled"
		return
	}
	path, err := m.snapshot(m.canvas, m.frame.Time)
	if err != nil {
		m.status = err.Error()
		m.logger.Error(context.Background(), "snapshot failed", logging.Err(err))
		return
	}
	m.status = "saved " + path
}

// refresh evaluates the frame at the clock time. The distance history only
// grows when simulation time moves.
func (m *Model) refresh() {
	t := m.clock.Now()
	moved := !t.Equal(m.frame.Time)
	m.frame = m.memo.Frame(t)

	if moved && len(m.bodies) > 0 {
		if st := m.frame.Bodies[m.selected]; st.Err == nil {
			m.history = append(m.history, st.Local.Norm())
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
	}
	m.draw()
}

func (m *Model) focusPoint() orbit.Vec3 {
	if m.focus == "" {
		return orbit.Vec3{}
	}
	if st, ok := m.frame.Body(m.focus); ok && st.Err == nil {
		return st.Position
	}
	return orbit.Vec3{}
}

// radialScale fits the farthest body from the focus into the view.
func (m *Model) radialScale(center orbit.Vec3) RadialScale {
	extent := 0.0
	for _, st := range m.frame.Bodies {
		if st.Err != nil {
			continue
		}
		extent = math.Max(extent, st.Position.DistanceTo(center))
	}
	return NewRadialScale(extent*1.1, m.logScale)
}

func (m *Model) draw() {
	m.canvas.Clear()
	if len(m.frame.Bodies) == 0 {
		return
	}

	center := m.focusPoint()
	scale := m.radialScale(center)
	view := func(p orbit.Vec3) orbit.Vec3 { return scale.Apply(p.Sub(center)) }

	if m.showOrbits {
		wf := NewWireframe()
		for _, st := range m.frame.Bodies {
			path, ok := m.paths[st.Name]
			if !ok {
				continue
			}
			parent, ok := m.frame.Body(st.Parent)
			if !ok || parent.Err != nil {
				continue
			}
			line := make([]orbit.Vec3, len(path))
			for i, p := range path {
				line[i] = view(parent.Position.Add(p))
			}
			wf.AddPolyline(line)
		}
		Render3D(m.canvas, wf, m.camera)
	}

	cw, ch := m.canvas.PixelSize()
	for _, node := range m.plan.Nodes() {
		b, ok := m.frame.Body(node.Body)
		if !ok {
			continue
		}
		parent := b.Position.Sub(b.Local)
		if x, y, _, ok := m.camera.Project(view(parent.Add(node.Position)), cw, ch); ok {
			m.canvas.Cross(x, y, 2)
		}
	}

	for i, st := range m.frame.Bodies {
		if st.Err != nil {
			continue
		}
		x, y, _, ok := m.camera.Project(view(st.Position), cw, ch)
		if !ok {
			continue
		}
		r := 1
		if i == m.selected {
			r = 2
		}
		m.canvas.Disc(x, y, r)
	}
}

// View renders the canvas next to the info panel.
func (m Model) View() string {
	st := newStyles(m.theme)
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render("ORRERY") + "\n")

	t := m.frame.Time
	if m.clock.Paused() {
		s.WriteString(st.paused.Render("PAUSED"))
	} else {
		s.WriteString(st.running.Render("RUNNING"))
	}
	s.WriteString(st.value.Render(fmt.Sprintf("  x%s", formatSpeed(m.clock.Speed()))) + "\n")
	s.WriteString(st.value.Render(t.UTC().Format("2006-01-02 15:04:05 MST")) + "\n")
	s.WriteString(st.label.Render("JD") + st.value.Render(fmt.Sprintf("%.5f", julian.TimeToJD(t))) + "\n")
	if m.focus != "" {
		s.WriteString(st.label.Render("Centre") + st.value.Render(m.focus) + "\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("distance from parent (km)"))
		s.WriteString(st.graph.Render(chart) + "\n")
	} else {
		s.WriteString("\n")
	}

	if len(m.bodies) > 0 {
		s.WriteString(m.bodyInfo(st))
	}
	s.WriteString(m.nodeInfo(st))

	if m.status != "" {
		s.WriteString("\n" + st.errText.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render("SP:Pause <>:Speed []:Day Tab:Select\nn:Node p/k/j:Nudge s:SVG ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpBox(st) + "\n\n" + mainView
	}
	return mainView
}

func (m Model) bodyInfo(st styles) string {
	b := m.bodies[m.selected]
	state := m.frame.Bodies[m.selected]

	var s strings.Builder
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	s.WriteString(st.selected.Render("> "+b.Name) + "\n")
	if b.Parent != "" {
		row("Parent", b.Parent)
	}
	row("Orbit", state.Kind.String())
	row("Radius", fmt.Sprintf("%.1f km", b.Radius))
	row("Mass", fmt.Sprintf("%.3e kg", b.Mass))
	if state.Err != nil {
		s.WriteString(st.errText.Render(state.Err.Error()) + "\n")
		return s.String()
	}
	row("Distance", fmt.Sprintf("%.4g km", state.Local.Norm()))
	if d, err := m.sim.Descriptor(b); err == nil {
		if v, err := orbit.Velocity(d, m.frame.Time, 0); err == nil {
			row("Speed", fmt.Sprintf("%.3f km/s", v.Norm()))
		}
	}
	row("Rotation", fmt.Sprintf("%.1f°", state.Rotation*180/math.Pi))
	return s.String()
}

func (m Model) nodeInfo(st styles) string {
	nodes := m.plan.Nodes()
	if len(nodes) == 0 {
		return ""
	}
	var s strings.Builder
	s.WriteString(fmt.Sprintf("\nNODES %d  Δv %.3f km/s\n", len(nodes), m.plan.TotalDeltaV()))
	sel := m.plan.Selected()
	for _, n := range nodes {
		line := fmt.Sprintf("#%d %-8s %+.2f/%+.2f/%+.2f", n.ID, n.Body, n.DeltaV.Prograde, n.DeltaV.Normal, n.DeltaV.Radial)
		if sel != nil && n.ID == sel.ID {
			s.WriteString(st.selected.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	return s.String()
}

func formatSpeed(v float64) string {
	a := math.Abs(v)
	switch {
	case a >= 86400:
		return fmt.Sprintf("%.4g d/s", v/86400)
	case a >= 3600:
		return fmt.Sprintf("%.4g h/s", v/3600)
	default:
		return fmt.Sprintf("%.4g", v)
	}
}
