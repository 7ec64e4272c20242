package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorInfo    = lipgloss.AdaptiveColor{Light: "27", Dark: "39"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}
	colorError   = lipgloss.AdaptiveColor{Light: "124", Dark: "196"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "243", Dark: "246"}

	titleStyle = lipgloss.NewStyle().Bold(true)

	statusConnectingStyle = lipgloss.NewStyle().Foreground(colorInfo)
	statusSuccessStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	statusErrorStyle      = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	noteStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	helpStyle = lipgloss.NewStyle().Foreground(colorMuted)
)
