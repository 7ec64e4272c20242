package tui

import (
	"context"

	"pagectl/internal/client"

	tea "github.com/charmbracelet/bubbletea"
)

// processCmd issues one processing trigger against the page service. No
// timeout is imposed; a hung request simply never delivers a result and the
// label keeps reading "Connecting...".
func processCmd(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		result, err := c.Process(context.Background())
		if err != nil {
			return triggerResultMsg{Err: err}
		}
		return triggerResultMsg{Message: result.Message}
	}
}
