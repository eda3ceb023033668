package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B4BEFE"))

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	cpuGraphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA"))

	memGraphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))

	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CBA6F7"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#585B70")).
			Padding(0, 1)
)

// panel draws content in a rounded box with a bold title on the first line
func panel(title, content string) string {
	return panelStyle.Render(titleStyle.Render(title) + "\n\n" + content)
}
