package tui

import (
	"pagectl/internal/trigger"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages for the trigger view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Retrigger):
			// Each press is an independent request; whichever result lands
			// last wins, same as overlapping triggers anywhere else.
			m.status = trigger.StatusConnecting
			m.kind = statusConnecting
			m.copyNote = ""
			return m, tea.Batch(m.Spinner.Tick, processCmd(m.client))

		case key.Matches(msg, m.keys.Copy):
			if err := clipboard.WriteAll(m.status); err != nil {
				m.copyNote = "copy failed"
			} else {
				m.copyNote = "copied"
			}
			return m, nil
		}
		return m, nil

	case triggerResultMsg:
		if msg.Err != nil {
			m.status = trigger.StatusError
			m.kind = statusError
		} else {
			m.status = msg.Message
			m.kind = statusSuccess
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}
