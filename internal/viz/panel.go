package viz

import (
	"github.com/san-kum/itosim/internal/sim"
	"github.com/san-kum/itosim/internal/store"
	"github.com/san-kum/itosim/internal/tui"
)

// panel is the sim.Renderer behind Model. It only records what the driver
// sends; View turns it into text.
type panel struct {
	layout    sim.Layout
	times     []float64
	series    [][]float64
	step      int
	histogram string
	summary   string
	err       error
}

func (p *panel) Init(l sim.Layout) {
	p.layout = l
	p.step = 0
	p.times = []float64{0}
	p.series = make([][]float64, len(l.Traces))
	for i := range p.series {
		p.series[i] = []float64{0}
	}
	p.histogram, p.summary, p.err = "", "", nil
}

func (p *panel) Extend(step int, t float64, values []float64) {
	p.step = step
	p.times = append(p.times, t)
	for i := range p.series {
		if i < len(values) {
			p.series[i] = append(p.series[i], values[i])
		}
	}
}

func (p *panel) Redraw(l sim.Layout, snap store.Snapshot) {
	p.layout = l
	p.times = snap.Times
	p.series = tui.Traces(snap.Brownian, snap.Integral)
	p.step = len(snap.Times) - 1
	p.histogram, p.summary, p.err = "", "", nil
}

func (p *panel) Histogram(req sim.HistogramRequest) {
	bars, err := tui.HistogramBars(req, histogramWidth)
	if err != nil {
		p.err = err
		return
	}
	p.histogram = bars
	p.summary = req.Summary.String()
}

func (p *panel) Fail(err error) {
	p.err = err
	p.series = nil
	p.histogram, p.summary = "", ""
}
