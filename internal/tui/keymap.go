package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the key bindings for the trigger view.
type KeyMap struct {
	Retrigger key.Binding
	Copy      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Retrigger: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "trigger again"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy status"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
	}
}
