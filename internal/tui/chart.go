package tui

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/itosim/internal/analysis"
	"github.com/san-kum/itosim/internal/sim"
)

const barRune = "█"

var (
	brownianColors = []asciigraph.AnsiColor{
		asciigraph.DodgerBlue, asciigraph.SkyBlue, asciigraph.Teal, asciigraph.RoyalBlue, asciigraph.Turquoise,
	}
	integralColors = []asciigraph.AnsiColor{
		asciigraph.Red, asciigraph.Orange, asciigraph.HotPink, asciigraph.Gold, asciigraph.Tomato,
	}
)

// ChartOptions controls the size and coloring of a trajectory chart.
type ChartOptions struct {
	Width  int
	Height int
	Color  bool
}

// Chart plots every trace of a run on one set of axes: the Brownian paths
// in blues, the integrals in reds. series is laid out like Layout.Traces.
func Chart(l sim.Layout, series [][]float64, opts ChartOptions) string {
	if len(series) == 0 || len(series[0]) == 0 {
		return ""
	}
	if opts.Width < 2 {
		opts.Width = 2
	}
	if opts.Height < 1 {
		opts.Height = 1
	}

	options := []asciigraph.Option{
		asciigraph.Width(opts.Width),
		asciigraph.Height(opts.Height),
		asciigraph.Caption(fmt.Sprintf("%s (%s vs %s)", l.Title, l.YLabel, l.XLabel)),
	}
	if opts.Color {
		options = append(options, asciigraph.SeriesColors(traceColors(l.NumTrajectories)...))
	}
	return asciigraph.PlotMany(series, options...)
}

func traceColors(m int) []asciigraph.AnsiColor {
	colors := make([]asciigraph.AnsiColor, 0, 2*m)
	for i := 0; i < m; i++ {
		colors = append(colors, brownianColors[i%len(brownianColors)])
	}
	for i := 0; i < m; i++ {
		colors = append(colors, integralColors[i%len(integralColors)])
	}
	return colors
}

// Traces lays the Brownian and integral paths out in trace order.
func Traces(brownian, integral [][]float64) [][]float64 {
	out := make([][]float64, 0, len(brownian)+len(integral))
	out = append(out, brownian...)
	return append(out, integral...)
}

// HistogramBars renders the bucketed terminal values as horizontal bars at
// most width runes long, one line per bucket.
func HistogramBars(req sim.HistogramRequest, width int) (string, error) {
	buckets, err := analysis.Bin(req.Values, req.Bins)
	if err != nil {
		return "", err
	}
	peak := analysis.MaxCount(buckets)
	if width < 1 {
		width = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", req.Title)
	fmt.Fprintf(&b, "%-21s  %s\n", req.XLabel, req.YLabel)
	for _, bk := range buckets {
		n := 0
		if peak > 0 {
			n = bk.Count * width / peak
		}
		if bk.Count > 0 && n == 0 {
			n = 1
		}
		fmt.Fprintf(&b, "[%9.4f, %9.4f)  %s %d\n", bk.Lo, bk.Hi, strings.Repeat(barRune, n), bk.Count)
	}
	return b.String(), nil
}
