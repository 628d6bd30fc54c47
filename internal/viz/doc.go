// Package viz draws the orrery in a terminal.
//
// [Model] is a Bubble Tea program that evaluates every body at the
// simulation clock on each tick and renders them on a braille [Canvas]
// through a rotating [Camera]. Distances are log-compressed by default so
// moons and outer planets share the screen.
//
// # Key Bindings
//
//	Space  - Pause/Resume the clock
//	< >    - Halve/double speed
//	[ ]    - Jump one day
//	Tab    - Select next body
//	n      - Add maneuver node; p/k/j nudge it
//	t      - Cycle color themes
//	s      - Save an SVG snapshot
//	?      - Show help overlay
package viz
