// Package tui renders the processing trigger's status label in the terminal.
package tui

import (
	"pagectl/internal/client"
	"pagectl/internal/trigger"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// statusKind drives the status label's styling.
type statusKind int

const (
	statusConnecting statusKind = iota
	statusSuccess
	statusError
)

// Model is the bubbletea model for the trigger view.
type Model struct {
	client *client.Client
	keys   KeyMap

	Spinner spinner.Model
	status  string
	kind    statusKind
	width   int

	// copyNote is a transient confirmation after copying the status text.
	copyNote string

	quitting bool
}

// NewModel creates the trigger view for the given service client. The model
// starts in the connecting state: the label must read "Connecting..." before
// any network activity.
func NewModel(c *client.Client) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorInfo)

	return Model{
		client:  c,
		keys:    DefaultKeyMap(),
		Spinner: sp,
		status:  trigger.StatusConnecting,
		kind:    statusConnecting,
	}
}

// Init fires the first trigger.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, processCmd(m.client))
}

// Status returns the label's current text.
func (m Model) Status() string {
	return m.status
}
