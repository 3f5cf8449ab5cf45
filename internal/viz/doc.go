// Package viz is the interactive terminal front end built on Bubble Tea.
//
// [Model] owns a [sim.Driver] and renders its trajectory chart, the
// histogram of terminal values and the summary line. Driver ticks are
// delivered as Bubble Tea messages, so the whole simulation runs on the
// program's update loop.
//
// # Key Bindings
//
//	s   - Start an animated run
//	x   - Stop the run and show statistics
//	c   - Recompute every trajectory at once
//	+/- - Change animation speed
//	t   - Cycle color themes
//	?   - Show help
//	q   - Quit
package viz
