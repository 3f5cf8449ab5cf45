package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are the lipgloss styles of one theme.
type styles struct {
	header   lipgloss.Style
	panel    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	brownian lipgloss.Style
	integral lipgloss.Style
	running  lipgloss.Style
	stopped  lipgloss.Style
	failed   lipgloss.Style
	help     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		brownian: lipgloss.NewStyle().Foreground(t.Brownian),
		integral: lipgloss.NewStyle().Foreground(t.Integral),
		running:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		stopped:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		failed:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		help:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}

// ProgressBar renders the fraction of steps taken.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Separator is a decorative horizontal rule.
func Separator(width int) string {
	if width < 8 {
		return strings.Repeat("─", width)
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return left + " ◆ " + right
}
