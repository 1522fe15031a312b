package inspector

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73F59F")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#54A0FF")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Background(lipgloss.Color("#2D3748")).
				Foreground(lipgloss.Color("#FFFFFF"))

	resolvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BBBBBB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8787"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BBBBBB")).
			Padding(0, 1)
)
