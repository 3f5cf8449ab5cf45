// Package export renders finished runs to PNG or SVG files with go-chart.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/itosim/internal/analysis"
	"github.com/san-kum/itosim/internal/sim"
	"github.com/san-kum/itosim/internal/store"
)

const (
	chartWidth  = 1024
	chartHeight = 600
)

var (
	ErrFormat   = errors.New("export: format must be png or svg")
	ErrTooShort = errors.New("export: trajectory chart needs at least two time points")
	ErrNoData   = errors.New("export: nothing to render")
)

var (
	brownianPalette = []drawing.Color{
		chart.ColorBlue,
		drawing.ColorFromHex("1f77b4"),
		drawing.ColorFromHex("17becf"),
		drawing.ColorFromHex("2ca02c"),
	}
	integralPalette = []drawing.Color{
		chart.ColorRed,
		drawing.ColorFromHex("ff7f0e"),
		drawing.ColorFromHex("d62728"),
		drawing.ColorFromHex("9467bd"),
	}
)

// Provider maps a format name to a go-chart renderer and a file extension.
func Provider(format string) (chart.RendererProvider, string, error) {
	switch format {
	case "png":
		return chart.PNG, "png", nil
	case "svg":
		return chart.SVG, "svg", nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrFormat, format)
	}
}

// Charts is a sim.Renderer that keeps the last trajectories and histogram
// request so they can be written out once the run has finalized.
type Charts struct {
	layout    sim.Layout
	times     []float64
	series    [][]float64
	histogram *sim.HistogramRequest
	err       error
}

func NewCharts() *Charts { return &Charts{} }

func (c *Charts) Init(l sim.Layout) {
	c.layout = l
	c.times = []float64{0}
	c.series = make([][]float64, len(l.Traces))
	for i := range c.series {
		c.series[i] = []float64{0}
	}
	c.histogram, c.err = nil, nil
}

func (c *Charts) Extend(_ int, t float64, values []float64) {
	c.times = append(c.times, t)
	for i := range c.series {
		if i < len(values) {
			c.series[i] = append(c.series[i], values[i])
		}
	}
}

func (c *Charts) Redraw(l sim.Layout, snap store.Snapshot) {
	c.layout = l
	c.times = snap.Times
	c.series = append(append([][]float64{}, snap.Brownian...), snap.Integral...)
	c.histogram, c.err = nil, nil
}

func (c *Charts) Histogram(req sim.HistogramRequest) { c.histogram = &req }

func (c *Charts) Fail(err error) { c.err = err }

// WriteTrajectories renders every trace as a line chart.
func (c *Charts) WriteTrajectories(w io.Writer, format string) error {
	rp, _, err := Provider(format)
	if err != nil {
		return err
	}
	if c.err != nil {
		return c.err
	}
	if len(c.series) == 0 {
		return ErrNoData
	}
	if len(c.times) < 2 {
		return ErrTooShort
	}

	m := c.layout.NumTrajectories
	series := make([]chart.Series, 0, len(c.series))
	lo, hi := math.Inf(1), math.Inf(-1)
	for j, ys := range c.series {
		n := min(len(ys), len(c.times))
		color := brownianPalette[j%len(brownianPalette)]
		if j >= m {
			color = integralPalette[(j-m)%len(integralPalette)]
		}
		name := ""
		if j < len(c.layout.Traces) {
			name = c.layout.Traces[j]
		}
		for _, y := range ys[:n] {
			lo, hi = math.Min(lo, y), math.Max(hi, y)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: c.times[:n],
			YValues: ys[:n],
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 1.5},
		})
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	graph := chart.Chart{
		Title:  c.layout.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  c.layout.XLabel,
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.2f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  c.layout.YLabel,
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	if m <= 5 {
		graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}
	}
	return graph.Render(rp, w)
}

// WriteHistogram renders the terminal values as a bar chart, one bar per
// bucket labelled with its centre.
func (c *Charts) WriteHistogram(w io.Writer, format string) error {
	rp, _, err := Provider(format)
	if err != nil {
		return err
	}
	if c.err != nil {
		return c.err
	}
	if c.histogram == nil {
		return ErrNoData
	}
	req := c.histogram
	buckets, err := analysis.Bin(req.Values, req.Bins)
	if err != nil {
		return err
	}
	if len(buckets) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(buckets))
	for i, b := range buckets {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%.2f", (b.Lo+b.Hi)/2),
			Value: float64(b.Count),
			Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue},
		}
	}

	bc := chart.BarChart{
		Title:  req.Title + " (" + req.Summary.String() + ")",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth: max(4, (chartWidth-100)/len(bars)-4),
		XAxis:    chart.Style{FontSize: 8.0},
		YAxis: chart.YAxis{
			Name:  req.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(1, analysis.MaxCount(buckets)))},
		},
		Bars: bars,
	}
	return bc.Render(rp, w)
}

// WriteFiles writes trajectories.<ext> and histogram.<ext> into dir and
// returns their paths.
func (c *Charts) WriteFiles(dir, format string) ([]string, error) {
	_, ext, err := Provider(format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var paths []string
	for _, out := range []struct {
		name  string
		write func(io.Writer, string) error
	}{
		{"trajectories", c.WriteTrajectories},
		{"histogram", c.WriteHistogram},
	} {
		path := filepath.Join(dir, out.name+"."+ext)
		if err := writeFile(path, func(w io.Writer) error { return out.write(w, format) }); err != nil {
			return paths, fmt.Errorf("export %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
