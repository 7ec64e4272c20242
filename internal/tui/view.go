package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the status label plus a one-line help footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Page service"))
	b.WriteString("\n\n")

	var line string
	switch m.kind {
	case statusConnecting:
		line = m.Spinner.View() + " " + statusConnectingStyle.Render(m.status)
	case statusError:
		line = IconText(IconCross, statusErrorStyle.Render(m.status))
	default:
		line = IconText(IconCheck, statusSuccessStyle.Render(m.status))
	}
	b.WriteString(line)

	if m.copyNote != "" {
		b.WriteString("  " + noteStyle.Render(m.copyNote))
	}

	b.WriteString("\n\n")
	help := "r trigger again · y copy status · q quit"
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	out := b.String()
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}
