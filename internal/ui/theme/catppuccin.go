package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base      = lipgloss.Color("#1e1e2e")
	Mantle    = lipgloss.Color("#181825")
	Surface0  = lipgloss.Color("#313244")
	Surface1  = lipgloss.Color("#45475a")
	Text      = lipgloss.Color("#cdd6f4")
	Subtext0  = lipgloss.Color("#a6adc8")
	Lavender  = lipgloss.Color("#b4befe")
	Sapphire  = lipgloss.Color("#74c7ec")
	Green     = lipgloss.Color("#a6e3a1")
	Peach     = lipgloss.Color("#fab387")
	Yellow    = lipgloss.Color("#f9e2af")
	Red       = lipgloss.Color("#f38ba8")
	Rosewater = lipgloss.Color("#f5e0dc")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1, 2)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Bad   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Green).Bold(true)

	Clock = lipgloss.NewStyle().Foreground(Text).Bold(true).Padding(0, 1)

	BarFilled = lipgloss.NewStyle().Foreground(Green)
	BarEmpty  = lipgloss.NewStyle().Foreground(Surface1)
)

// State colours the timer state label.
func State(name string) lipgloss.Style {
	switch name {
	case "incubating":
		return Good
	case "paused":
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	case "interrupted":
		return Bad
	case "completed":
		return Title
	default:
		return Muted
	}
}

// Family colours an animal family.
func Family(name string) lipgloss.Style {
	switch name {
	case "chicken":
		return lipgloss.NewStyle().Foreground(Yellow)
	case "cat":
		return lipgloss.NewStyle().Foreground(Peach)
	case "dog":
		return lipgloss.NewStyle().Foreground(Rosewater)
	default:
		return Muted
	}
}
