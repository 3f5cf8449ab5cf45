package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/itosim/internal/dynamo"
	"github.com/san-kum/itosim/internal/expression"
	"github.com/san-kum/itosim/internal/integrators"
	"github.com/san-kum/itosim/internal/logging"
	"github.com/san-kum/itosim/internal/metrics"
	"github.com/san-kum/itosim/internal/noise"
	"github.com/san-kum/itosim/internal/schedule"
	"github.com/san-kum/itosim/internal/store"
)

// Run is one simulation: the grid, the compiled integrands, every
// trajectory and the step counter. It is owned by the Driver and replaced
// wholesale on every Start or Recompute.
type Run struct {
	cfg    Config
	grid   []float64
	dt     float64
	f, g   integrators.Integrand
	layout Layout
	paths  *store.Store
	step   int
}

func newRun(cfg Config) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f, err := expression.Compile(cfg.F)
	if err != nil {
		return nil, &dynamo.CompileError{Integrand: "f", Source: cfg.F, Err: err}
	}
	g, err := expression.Compile(cfg.G)
	if err != nil {
		return nil, &dynamo.CompileError{Integrand: "g", Source: cfg.G, Err: err}
	}

	paths := store.New(cfg.NumTrajectories)
	paths.Grow(cfg.NumSamples)

	return &Run{
		cfg:    cfg,
		grid:   Grid(cfg.TMax, cfg.NumSamples),
		dt:     cfg.TMax / float64(cfg.NumSamples),
		f:      f,
		g:      g,
		layout: newLayout(cfg.NumTrajectories),
		paths:  paths,
	}, nil
}

// Driver runs simulations either animated, one lock-step tick at a time on
// a Scheduler, or in batch via Recompute.
//
// A Driver is not safe for concurrent use. All calls, including the tick
// callbacks fired by the scheduler, must come from one goroutine.
type Driver struct {
	renderer Renderer
	sched    schedule.Scheduler
	stepper  *integrators.EulerMaruyama
	log      *slog.Logger

	state   State
	run     *Run
	task    schedule.Task
	speed   int
	summary metrics.Summary
	err     error
}

// New returns an idle driver. A nil renderer or logger discards output.
func New(r Renderer, sched schedule.Scheduler, normal noise.Normal, logger *slog.Logger) *Driver {
	if r == nil {
		r = NopRenderer{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Driver{
		renderer: r,
		sched:    sched,
		stepper:  integrators.NewEulerMaruyama(normal),
		log:      logger,
		speed:    MaxSpeed / 2,
	}
}

// Start begins an animated run. It is rejected while a run is in progress;
// from any other state it discards the previous run.
func (d *Driver) Start(cfg Config) error {
	if d.state == Running || d.state == Computing {
		return fmt.Errorf("start while %s: %w", d.state, dynamo.ErrInvalidTransition)
	}
	if d.sched == nil {
		return errNoScheduler
	}
	d.reset()

	run, err := newRun(cfg)
	if err != nil {
		return d.fail(err)
	}

	d.run = run
	d.speed = cfg.Speed
	d.state = Running
	d.renderer.Init(run.layout)
	d.schedule()

	d.log.Info("simulation started",
		"mode", "animated",
		"trajectories", cfg.NumTrajectories,
		"samples", cfg.NumSamples,
		"t_max", cfg.TMax,
		"period", Period(d.speed))
	return nil
}

// Stop cancels the pending tick and finalizes over the step reached so far.
func (d *Driver) Stop() error {
	if d.state != Running {
		return fmt.Errorf("stop while %s: %w", d.state, dynamo.ErrInvalidTransition)
	}
	d.cancel()
	d.state = Stopped
	d.log.Info("simulation stopped", "step", d.run.step, "of", d.run.cfg.NumSamples)
	return d.finalize()
}

// Recompute runs every trajectory to the end synchronously, renders once
// and finalizes. It is valid from any state and cancels any animation.
// ctx is checked between trajectories.
func (d *Driver) Recompute(ctx context.Context, cfg Config) error {
	d.reset()
	d.state = Computing

	run, err := newRun(cfg)
	if err != nil {
		return d.fail(err)
	}
	d.run = run
	d.speed = cfg.Speed

	d.log.Info("simulation started",
		"mode", "batch",
		"trajectories", cfg.NumTrajectories,
		"samples", cfg.NumSamples,
		"t_max", cfg.TMax)

	for i := 0; i < cfg.NumTrajectories; i++ {
		select {
		case <-ctx.Done():
			return d.fail(ctx.Err())
		default:
		}

		b, v := 0.0, 0.0
		for k := 1; k <= cfg.NumSamples; k++ {
			b, v, err = d.stepper.Step(run.grid[k-1], b, v, run.dt, run.f, run.g)
			if err != nil {
				return d.fail(locate(err, k, i))
			}
			if err := run.paths.Append(i, b, v); err != nil {
				return d.fail(err)
			}
		}
	}
	run.step = cfg.NumSamples

	d.renderer.Redraw(run.layout, run.paths.Snapshot(run.grid))
	d.state = Completed
	return d.finalize()
}

// ChangeSpeed sets the animation speed. While running, the tick is
// rescheduled at the new period; simulation state is untouched.
func (d *Driver) ChangeSpeed(speed int) error {
	if err := validateSpeed(speed); err != nil {
		return err
	}
	d.speed = speed
	if d.state != Running {
		return nil
	}
	d.cancel()
	d.schedule()
	d.log.Debug("speed changed", "speed", speed, "period", Period(speed))
	return nil
}

func (d *Driver) schedule() {
	d.task = d.sched.Repeat(Period(d.speed), d.tick)
}

func (d *Driver) cancel() {
	if d.task != nil {
		d.task.Cancel()
		d.task = nil
	}
}

// tick advances every trajectory by one step, or completes the run when
// the last step was already taken.
func (d *Driver) tick() {
	if d.state != Running {
		return
	}
	run := d.run
	n := run.cfg.NumSamples

	if run.step >= n {
		d.cancel()
		d.state = Completed
		d.log.Info("simulation completed", "step", run.step)
		_ = d.finalize()
		return
	}

	m := run.cfg.NumTrajectories
	t := run.grid[run.step]
	values := make([]float64, 2*m)
	for i := 0; i < m; i++ {
		b, v, err := run.paths.Last(i)
		if err != nil {
			_ = d.fail(err)
			return
		}
		b, v, err = d.stepper.Step(t, b, v, run.dt, run.f, run.g)
		if err != nil {
			_ = d.fail(locate(err, run.step+1, i))
			return
		}
		if err := run.paths.Append(i, b, v); err != nil {
			_ = d.fail(err)
			return
		}
		values[i] = b
		values[m+i] = v
	}
	run.step++

	d.log.Debug("tick", "step", run.step)
	d.renderer.Extend(run.step, run.grid[run.step], values)
}

func (d *Driver) finalize() error {
	run := d.run
	values := run.paths.TerminalValues()
	summary, err := metrics.Finalize(values)
	if err != nil {
		return d.fail(err)
	}
	summary.Step = run.step
	summary.Time = run.grid[run.step]
	d.summary = summary

	d.renderer.Histogram(HistogramRequest{
		Title:   HistogramTitle,
		XLabel:  ValueLabel,
		YLabel:  FrequencyLabel,
		Values:  values,
		Bins:    run.cfg.NumBins,
		Summary: summary,
	})
	d.log.Info("simulation finalized", "mean", summary.Mean, "std_dev", summary.StdDev, "step", summary.Step)
	return nil
}

// fail aborts the current run, discards its state and reports err.
func (d *Driver) fail(err error) error {
	d.cancel()
	d.run = nil
	d.state = Idle
	d.err = err
	d.renderer.Fail(err)
	d.log.Error("simulation aborted", "err", err)
	return err
}

func (d *Driver) reset() {
	d.cancel()
	d.run = nil
	d.summary = metrics.Summary{}
	d.err = nil
}

func locate(err error, step, traj int) error {
	var ee *dynamo.EvaluationError
	if errors.As(err, &ee) {
		ee.Step = step
		ee.Trajectory = traj
	}
	return err
}

func (d *Driver) State() State { return d.state }

// Speed is the current animation speed.
func (d *Driver) Speed() int { return d.speed }

// Period is the tick period for the current speed.
func (d *Driver) Period() time.Duration { return Period(d.speed) }

// Err is the error that aborted the last run, if any.
func (d *Driver) Err() error { return d.err }

// Step is the number of steps taken by the current run.
func (d *Driver) Step() int {
	if d.run == nil {
		return 0
	}
	return d.run.step
}

// Grid returns a copy of the current run's time grid.
func (d *Driver) Grid() []float64 {
	if d.run == nil {
		return nil
	}
	grid := make([]float64, len(d.run.grid))
	copy(grid, d.run.grid)
	return grid
}

// Brownian returns the Brownian samples of trajectory i.
func (d *Driver) Brownian(i int) ([]float64, error) {
	if d.run == nil {
		return nil, errNoRun
	}
	return d.run.paths.Brownian(i)
}

// Integral returns the integral samples of trajectory i.
func (d *Driver) Integral(i int) ([]float64, error) {
	if d.run == nil {
		return nil, errNoRun
	}
	return d.run.paths.Integral(i)
}

// Snapshot copies the current run's samples.
func (d *Driver) Snapshot() (store.Snapshot, bool) {
	if d.run == nil {
		return store.Snapshot{}, false
	}
	return d.run.paths.Snapshot(d.run.grid), true
}

// Summary returns the statistics of the last finalized run.
func (d *Driver) Summary() (metrics.Summary, bool) {
	if !d.state.Terminal() {
		return metrics.Summary{}, false
	}
	return d.summary, true
}

// TerminalValues returns the last integral sample of every trajectory once
// the run is finalized.
func (d *Driver) TerminalValues() []float64 {
	if d.run == nil || !d.state.Terminal() {
		return nil
	}
	return d.run.paths.TerminalValues()
}

var (
	errNoRun       = fmt.Errorf("sim: no run: %w", dynamo.ErrInvalidTransition)
	errNoScheduler = fmt.Errorf("sim: animated start needs a scheduler: %w", dynamo.ErrInvalidTransition)
)
