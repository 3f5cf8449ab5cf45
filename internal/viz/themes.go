package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Brownian lipgloss.Color
	Integral lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
	Error    lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:     "ocean",
		Primary:  lipgloss.Color("#00a8cc"),
		Brownian: lipgloss.Color("#0077be"),
		Integral: lipgloss.Color("#ffd700"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Success:  lipgloss.Color("#00ff88"),
		Warning:  lipgloss.Color("#ffcc00"),
		Error:    lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Primary:  lipgloss.Color("#00ff00"), // Green phosphor
		Brownian: lipgloss.Color("#00cc00"),
		Integral: lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Success:  lipgloss.Color("#88ff88"),
		Warning:  lipgloss.Color("#ffff00"),
		Error:    lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Primary:  lipgloss.Color("#ffffff"),
		Brownian: lipgloss.Color("#0088ff"),
		Integral: lipgloss.Color("#ff5555"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Success:  lipgloss.Color("#00ff00"),
		Warning:  lipgloss.Color("#ffaa00"),
		Error:    lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{
		ThemeOcean,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}
