package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/itosim/internal/dynamo"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"zero t_max", func(c *Config) { c.TMax = 0 }, "t_max"},
		{"negative t_max", func(c *Config) { c.TMax = -1 }, "t_max"},
		{"NaN t_max", func(c *Config) { c.TMax = math.NaN() }, "t_max"},
		{"infinite t_max", func(c *Config) { c.TMax = math.Inf(1) }, "t_max"},
		{"zero samples", func(c *Config) { c.NumSamples = 0 }, "num_samples"},
		{"zero trajectories", func(c *Config) { c.NumTrajectories = 0 }, "num_trajectories"},
		{"zero bins", func(c *Config) { c.NumBins = 0 }, "num_bins"},
		{"speed too low", func(c *Config) { c.Speed = 0 }, "animation_speed"},
		{"speed too high", func(c *Config) { c.Speed = 101 }, "animation_speed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.edit(&cfg)

			err := cfg.Validate()
			var ce *dynamo.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field = %q, want %q", ce.Field, tt.field)
			}
		})
	}

	if err := baseConfig().Validate(); err != nil {
		t.Errorf("base config rejected: %v", err)
	}
}

func TestPeriod(t *testing.T) {
	tests := []struct {
		speed    int
		expected time.Duration
	}{
		{1, 100 * time.Millisecond},
		{50, 51 * time.Millisecond},
		{91, 10 * time.Millisecond},
		{100, 1 * time.Millisecond},
		{150, 1 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := Period(tt.speed); got != tt.expected {
			t.Errorf("Period(%d) = %v, want %v", tt.speed, got, tt.expected)
		}
	}
}

func TestGrid(t *testing.T) {
	for _, tc := range []struct {
		tMax float64
		n    int
	}{{1, 100}, {2.5, 7}, {10, 1}, {0.3, 1000}} {
		grid := Grid(tc.tMax, tc.n)
		if len(grid) != tc.n+1 {
			t.Fatalf("len(Grid(%v, %d)) = %d", tc.tMax, tc.n, len(grid))
		}
		dt := tc.tMax / float64(tc.n)
		for i, ti := range grid {
			if ti != float64(i)*dt {
				t.Errorf("grid[%d] = %v, want %v", i, ti, float64(i)*dt)
			}
		}
		if math.Abs(grid[tc.n]-tc.tMax) > 1e-12*tc.tMax {
			t.Errorf("grid ends at %v, want %v", grid[tc.n], tc.tMax)
		}
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		Idle:      "idle",
		Running:   "running",
		Computing: "computing",
		Stopped:   "stopped",
		Completed: "completed",
		State(42): "state(42)",
	}
	for s, want := range names {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
	if !Stopped.Terminal() || !Completed.Terminal() || Running.Terminal() {
		t.Error("Terminal() classification wrong")
	}
}

func TestLayoutTraceOrder(t *testing.T) {
	l := newLayout(2)
	want := []string{"Brownian Motion 1", "Brownian Motion 2", "Stochastic Integral 1", "Stochastic Integral 2"}
	if len(l.Traces) != len(want) {
		t.Fatalf("traces = %v", l.Traces)
	}
	for i := range want {
		if l.Traces[i] != want[i] {
			t.Errorf("trace %d = %q, want %q", i, l.Traces[i], want[i])
		}
	}
	if l.Title != TrajectoryTitle || l.XLabel != "Time" || l.YLabel != "Value" {
		t.Errorf("unexpected labels: %+v", l)
	}
}
