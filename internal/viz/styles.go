package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	Title   lipgloss.Style
	Curve   lipgloss.Style
	Ambient lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Hint    lipgloss.Style
	Panel   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Curve:   lipgloss.NewStyle().Foreground(t.Primary),
		Ambient: lipgloss.NewStyle().Foreground(t.Secondary),
		Label:   lipgloss.NewStyle().Foreground(t.Muted),
		Value:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

// Heading is the style used for section titles in console output.
var Heading = NewStyles(ThemeEmber).Title

// ProgressBar renders fraction in [0, 1] as a filled bar of the given width.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
