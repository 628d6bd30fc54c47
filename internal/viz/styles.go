package viz

import (
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas   lipgloss.Style
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	graph    lipgloss.Style
	help     lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	errText  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().
			Padding(1, 2).
			Foreground(t.Primary),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(panelWidth),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary).
			MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		selected: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:    lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		help:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		running:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:   lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		errText:  lipgloss.NewStyle().Foreground(t.Error),
	}
}

// helpBox renders the key reference overlay.
func helpBox(s styles) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.header.GetForeground()).
		Padding(0, 2).
		Render(helpText)
}

const helpText = `KEYBOARD SHORTCUTS

Space      pause / resume
< >        halve / double speed
r          reverse time
[ ]        jump one day back / forward
Tab        select next body (Shift+Tab previous)
f          centre view on selected body
x y z      rotate camera (shift reverses)
+ -        zoom
0          reset camera
o          toggle orbit lines
l          toggle log / linear distances
n          add maneuver node on selected body
p P        prograde / retrograde nudge
k K        normal / antinormal nudge
j J        radial out / in nudge
Backspace  delete selected node
t          cycle themes
s          save SVG snapshot
?          toggle this help
q          quit`
