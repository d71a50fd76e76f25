package display

import "github.com/charmbracelet/lipgloss"

var (
	Subtext = lipgloss.Color("#a6adc8")
	Surface = lipgloss.Color("#45475a")
	Sky     = lipgloss.Color("#89dceb")
	Green   = lipgloss.Color("#a6e3a1")
	Red     = lipgloss.Color("#f38ba8")
	Peach   = lipgloss.Color("#fab387")

	// heat levels, coldest first
	heatColors = []lipgloss.Color{
		lipgloss.Color("#313244"),
		lipgloss.Color("#f9e2af"),
		lipgloss.Color("#fab387"),
		lipgloss.Color("#eba0ac"),
		lipgloss.Color("#f38ba8"),
	}

	Header  = lipgloss.NewStyle().Foreground(Sky).Bold(true).MarginTop(1)
	Muted   = lipgloss.NewStyle().Foreground(Subtext)
	Success = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Failure = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Hot     = lipgloss.NewStyle().Foreground(Peach).Bold(true)

	Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface).
		Padding(0, 2)
)
