package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/itosim/internal/dynamo"
	"github.com/san-kum/itosim/internal/metrics"
	"github.com/san-kum/itosim/internal/store"
)

// Speed bounds of the animation control.
const (
	MinSpeed = 1
	MaxSpeed = 100
)

// Chart labels.
const (
	TrajectoryTitle = "Brownian Motion and Stochastic Integral"
	HistogramTitle  = "Distribution of Final Integral Values"
	TimeLabel       = "Time"
	ValueLabel      = "Value"
	FrequencyLabel  = "Frequency"
)

// Config is everything a run needs, collected once at Start or Recompute.
type Config struct {
	TMax            float64
	NumSamples      int
	NumTrajectories int
	NumBins         int
	Speed           int
	F               string
	G               string
}

// Validate reports the first out-of-range field as a *dynamo.ConfigError.
func (c Config) Validate() error {
	switch {
	case !(c.TMax > 0) || math.IsInf(c.TMax, 0):
		return &dynamo.ConfigError{Field: "t_max", Value: c.TMax, Reason: "must be a finite number > 0"}
	case c.NumSamples < 1:
		return &dynamo.ConfigError{Field: "num_samples", Value: c.NumSamples, Reason: "must be >= 1"}
	case c.NumTrajectories < 1:
		return &dynamo.ConfigError{Field: "num_trajectories", Value: c.NumTrajectories, Reason: "must be >= 1"}
	case c.NumBins < 1:
		return &dynamo.ConfigError{Field: "num_bins", Value: c.NumBins, Reason: "must be >= 1"}
	}
	return validateSpeed(c.Speed)
}

func validateSpeed(speed int) error {
	if speed < MinSpeed || speed > MaxSpeed {
		return &dynamo.ConfigError{
			Field:  "animation_speed",
			Value:  speed,
			Reason: fmt.Sprintf("must be in [%d, %d]", MinSpeed, MaxSpeed),
		}
	}
	return nil
}

// Period maps the speed control to the tick period: max(1, 101-speed) ms.
func Period(speed int) time.Duration {
	ms := 101 - speed
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// Grid returns t_i = i*tMax/n for i in 0..n.
func Grid(tMax float64, n int) []float64 {
	dt := tMax / float64(n)
	grid := make([]float64, n+1)
	for i := range grid {
		grid[i] = float64(i) * dt
	}
	return grid
}

// State is the driver's lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Computing
	Stopped
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Computing:
		return "computing"
	case Stopped:
		return "stopped"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether a run in state s has been finalized.
func (s State) Terminal() bool { return s == Stopped || s == Completed }

// Layout describes the trajectory chart: 2m line traces, the Brownian
// paths first, then the integrals.
type Layout struct {
	Title           string
	XLabel          string
	YLabel          string
	Traces          []string
	NumTrajectories int
}

func newLayout(m int) Layout {
	traces := make([]string, 0, 2*m)
	for i := 0; i < m; i++ {
		traces = append(traces, fmt.Sprintf("Brownian Motion %d", i+1))
	}
	for i := 0; i < m; i++ {
		traces = append(traces, fmt.Sprintf("Stochastic Integral %d", i+1))
	}
	return Layout{
		Title:           TrajectoryTitle,
		XLabel:          TimeLabel,
		YLabel:          ValueLabel,
		Traces:          traces,
		NumTrajectories: m,
	}
}

// HistogramRequest asks the renderer to plot the terminal values.
type HistogramRequest struct {
	Title   string
	XLabel  string
	YLabel  string
	Values  []float64
	Bins    int
	Summary metrics.Summary
}

// Renderer is the presentation sink. The driver never reads anything back.
type Renderer interface {
	// Init sets up one line trace per entry of Layout.Traces, each holding
	// the single point (0, 0).
	Init(Layout)
	// Extend appends the point (t, values[j]) to trace j after step.
	Extend(step int, t float64, values []float64)
	// Redraw replaces every trace with the complete sequences.
	Redraw(Layout, store.Snapshot)
	Histogram(HistogramRequest)
	Fail(error)
}

// NopRenderer discards everything.
type NopRenderer struct{}

func (NopRenderer) Init(Layout)                    {}
func (NopRenderer) Extend(int, float64, []float64) {}
func (NopRenderer) Redraw(Layout, store.Snapshot)  {}
func (NopRenderer) Histogram(HistogramRequest)     {}
func (NopRenderer) Fail(error)                     {}
