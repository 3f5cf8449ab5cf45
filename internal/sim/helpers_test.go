package sim

import (
	"github.com/san-kum/itosim/internal/store"
)

type extendCall struct {
	step   int
	t      float64
	values []float64
}

// recorder is a Renderer that remembers every request.
type recorder struct {
	layouts    []Layout
	extends    []extendCall
	redraws    []store.Snapshot
	histograms []HistogramRequest
	failures   []error
}

func (r *recorder) Init(l Layout) { r.layouts = append(r.layouts, l) }

func (r *recorder) Extend(step int, t float64, values []float64) {
	v := make([]float64, len(values))
	copy(v, values)
	r.extends = append(r.extends, extendCall{step: step, t: t, values: v})
}

func (r *recorder) Redraw(_ Layout, s store.Snapshot) { r.redraws = append(r.redraws, s) }

func (r *recorder) Histogram(h HistogramRequest) { r.histograms = append(r.histograms, h) }

func (r *recorder) Fail(err error) { r.failures = append(r.failures, err) }

func baseConfig() Config {
	return Config{
		TMax:            1,
		NumSamples:      100,
		NumTrajectories: 3,
		NumBins:         10,
		Speed:           91,
		F:               "1",
		G:               "0",
	}
}
