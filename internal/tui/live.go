package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/itosim/internal/sim"
	"github.com/san-kum/itosim/internal/store"
)

const (
	width       = 70
	height      = 20
	barWidth    = 40
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Printer is a sim.Renderer that writes asciigraph charts to a terminal
// or any other writer.
//
// In live mode every Extend repaints the screen, throttled to frameRate
// frames per second (0 repaints on every step). Otherwise only Redraw
// prints the chart.
type Printer struct {
	out       io.Writer
	live      bool
	color     bool
	frameRate int
	lastFrame time.Time

	layout sim.Layout
	times  []float64
	series [][]float64
	step   int
}

// NewPrinter returns a printer for batch runs.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// NewLivePrinter returns a printer that repaints on every tick.
func NewLivePrinter(out io.Writer, frameRate int, color bool) *Printer {
	return &Printer{out: out, live: true, color: color, frameRate: frameRate}
}

func (p *Printer) Init(l sim.Layout) {
	p.layout = l
	p.step = 0
	p.times = []float64{0}
	p.series = make([][]float64, len(l.Traces))
	for i := range p.series {
		p.series[i] = []float64{0}
	}
	if p.live {
		fmt.Fprint(p.out, hideCursor)
		p.repaint()
	}
}

func (p *Printer) Extend(step int, t float64, values []float64) {
	p.step = step
	p.times = append(p.times, t)
	for i := range p.series {
		if i < len(values) {
			p.series[i] = append(p.series[i], values[i])
		}
	}
	if !p.live {
		return
	}
	if p.frameRate > 0 && time.Since(p.lastFrame) < time.Second/time.Duration(p.frameRate) {
		return
	}
	p.lastFrame = time.Now()
	p.repaint()
}

func (p *Printer) Redraw(l sim.Layout, snap store.Snapshot) {
	p.layout = l
	p.times = snap.Times
	p.series = Traces(snap.Brownian, snap.Integral)
	p.step = len(snap.Times) - 1
	p.repaint()
}

// Histogram prints the terminal distribution and the summary line. In live
// mode the last frame is painted first so it reflects the final step.
func (p *Printer) Histogram(req sim.HistogramRequest) {
	if p.live {
		p.repaint()
		fmt.Fprint(p.out, showCursor)
	}
	bars, err := HistogramBars(req, barWidth)
	if err != nil {
		p.Fail(err)
		return
	}
	fmt.Fprintln(p.out)
	fmt.Fprint(p.out, bars)
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, req.Summary.String())
}

func (p *Printer) Fail(err error) {
	if p.live {
		fmt.Fprint(p.out, showCursor)
	}
	fmt.Fprintf(p.out, "error: %v\n", err)
}

func (p *Printer) repaint() {
	var b strings.Builder
	if p.live {
		b.WriteString(clearScreen)
	}
	t := 0.0
	if len(p.times) > 0 {
		t = p.times[len(p.times)-1]
	}
	b.WriteString(fmt.Sprintf("  step %d  t=%.4f\n", p.step, t))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(Chart(p.layout, p.series, ChartOptions{Width: width, Height: height, Color: p.color}))
	b.WriteString("\n")
	fmt.Fprint(p.out, b.String())
}
