package viz

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeEmber = Theme{
		Name:      "ember",
		Primary:   lipgloss.Color("#ff6b35"),
		Secondary: lipgloss.Color("#4a90d9"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
	}

	ThemeFrost = Theme{
		Name:      "frost",
		Primary:   lipgloss.Color("#00a8cc"),
		Secondary: lipgloss.Color("#e0f0ff"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#888888"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
	}

	Themes = []Theme{ThemeEmber, ThemeFrost, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to ember.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeEmber
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
