package viz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/itosim/internal/noise"
	"github.com/san-kum/itosim/internal/sim"
	"github.com/san-kum/itosim/internal/tui"
)

const (
	width          = 80
	height         = 16
	histogramWidth = 30
	speedStep      = 5
)

// Model is the Bubble Tea model of the interactive simulator.
type Model struct {
	driver   *sim.Driver
	ticker   *ticker
	panel    *panel
	cfg      sim.Config
	theme    int
	styles   styles
	notice   string
	showHelp bool
	width    int
}

// NewModel returns an idle model that will run cfg when started.
func NewModel(cfg sim.Config, normal noise.Normal, logger *slog.Logger, theme string) Model {
	tk := newTicker()
	p := &panel{}
	idx := themeIndex(theme)
	return Model{
		driver: sim.New(p, tk, normal, logger),
		ticker: tk,
		panel:  p,
		cfg:    cfg,
		theme:  idx,
		styles: newStyles(Themes[idx]),
		width:  width,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles keys and driver ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "q", "ctrl+c":
			if m.driver.State() == sim.Running {
				_ = m.driver.Stop()
			}
			return m, tea.Quit
		case "s":
			m.report(m.driver.Start(m.cfg))
		case "x":
			m.report(m.driver.Stop())
		case "c":
			m.report(m.driver.Recompute(context.Background(), m.cfg))
		case "+", "=":
			m.changeSpeed(speedStep)
		case "-", "_":
			m.changeSpeed(-speedStep)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = newStyles(Themes[m.theme])
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.width = min(msg.Width-4, width)
		}
	case TickMsg:
		m.ticker.fire(msg.ID)
	}
	return m, m.ticker.drain()
}

func (m *Model) changeSpeed(delta int) {
	speed := max(sim.MinSpeed, min(sim.MaxSpeed, m.driver.Speed()+delta))
	m.cfg.Speed = speed
	m.report(m.driver.ChangeSpeed(speed))
}

// report keeps errors the renderer never sees, such as a rejected
// transition, for the status line.
func (m *Model) report(err error) {
	if err != nil && err != m.driver.Err() {
		m.notice = err.Error()
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.styles
	var s strings.Builder

	s.WriteString(st.header.Render(sim.TrajectoryTitle) + "\n")
	s.WriteString(m.status() + "\n")
	s.WriteString(st.label.Render("f(t, B_t)") + st.value.Render(m.cfg.F) + "\n")
	s.WriteString(st.label.Render("g(t, B_t)") + st.value.Render(m.cfg.G) + "\n")
	s.WriteString(st.label.Render("Speed") + st.value.Render(fmt.Sprintf("%d (%v)", m.driver.Speed(), m.driver.Period())) + "\n")
	s.WriteString(st.label.Render("Progress") +
		st.value.Render(ProgressBar(float64(m.panel.step)/float64(max(1, m.cfg.NumSamples)), 30)) +
		st.value.Render(fmt.Sprintf(" %d/%d", m.panel.step, m.cfg.NumSamples)) + "\n\n")

	if len(m.panel.series) > 0 {
		chart := tui.Chart(m.panel.layout, m.panel.series, tui.ChartOptions{Width: m.width - 12, Height: height, Color: true})
		s.WriteString(chart + "\n")
		s.WriteString(st.brownian.Render("■ Brownian Motion") + "   " + st.integral.Render("■ Stochastic Integral") + "\n\n")
	}
	if m.panel.histogram != "" {
		s.WriteString(st.panel.Render(st.integral.Render(strings.TrimRight(m.panel.histogram, "\n"))) + "\n")
		s.WriteString(st.value.Render(m.panel.summary) + "\n")
	}
	if m.panel.err != nil {
		s.WriteString(st.failed.Render("error: "+m.panel.err.Error()) + "\n")
	}
	if m.notice != "" {
		s.WriteString(st.stopped.Render(m.notice) + "\n")
	}

	s.WriteString(st.help.Render(Separator(m.width)) + "\n")
	if m.showHelp {
		s.WriteString(st.help.Render("s start • x stop • c recompute • +/- speed • t theme (" + Themes[m.theme].Name + ") • ? help • q quit"))
	} else {
		s.WriteString(st.help.Render("? help • q quit"))
	}
	return lipgloss.NewStyle().MaxWidth(m.width + 4).Render(s.String())
}

func (m Model) status() string {
	st := m.styles
	state := m.driver.State()
	text := strings.ToUpper(state.String())
	switch state {
	case sim.Running, sim.Computing:
		return st.running.Render(text)
	case sim.Stopped, sim.Completed:
		return st.stopped.Render(text)
	default:
		if m.panel.err != nil {
			return st.failed.Render(text)
		}
		return st.label.Render(text)
	}
}

// Driver exposes the model's driver.
func (m Model) Driver() *sim.Driver { return m.driver }
