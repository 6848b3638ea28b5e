// Package theme holds the terminal styles used by the readlog CLI.
package theme

import "github.com/charmbracelet/lipgloss"

var (
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
	Yellow   = lipgloss.Color("#f9e2af")

	Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Foreground(Text).
		Padding(0, 1)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Label = lipgloss.NewStyle().Foreground(Lavender).Width(14)
)

var statusColors = map[string]lipgloss.Color{
	"to-read":   Subtext0,
	"read-next": Yellow,
	"reading":   Sapphire,
	"read":      Green,
	"dnf":       Red,
}

// Status renders a reading status in its color. Unknown values pass
// through unstyled.
func Status(s string) string {
	c, ok := statusColors[s]
	if !ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

// Field renders one "label value" line of a detail card.
func Field(label, value string) string {
	if value == "" {
		value = Muted.Render("-")
	}
	return Label.Render(label) + value
}
