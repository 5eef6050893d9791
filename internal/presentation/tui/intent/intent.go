// Package intent parses user input into UI intents.
package intent

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tesso57/headlines/internal/presentation/tui/state"
)

// Type represents a user intent.
type Type int

const (
	None Type = iota
	Quit
	ToggleHelp
	AddFeed
	Open
	Back
	Refresh
	ToggleGroup
	Up
	Down
	Top
	Bottom
)

// Intent represents a parsed user intent.
type Intent struct {
	Type Type
}

// FromKeyMsg maps a key message to an intent.
func FromKeyMsg(msg tea.KeyMsg, keys state.KeyMap) Intent {
	switch {
	case key.Matches(msg, keys.Quit):
		return Intent{Type: Quit}
	case key.Matches(msg, keys.Help):
		return Intent{Type: ToggleHelp}
	case key.Matches(msg, keys.AddFeed):
		return Intent{Type: AddFeed}
	case key.Matches(msg, keys.Open):
		return Intent{Type: Open}
	case key.Matches(msg, keys.Back):
		return Intent{Type: Back}
	case key.Matches(msg, keys.Refresh):
		return Intent{Type: Refresh}
	case key.Matches(msg, keys.Group):
		return Intent{Type: ToggleGroup}
	case key.Matches(msg, keys.Up):
		return Intent{Type: Up}
	case key.Matches(msg, keys.Down):
		return Intent{Type: Down}
	case key.Matches(msg, keys.Top):
		return Intent{Type: Top}
	case key.Matches(msg, keys.Bottom):
		return Intent{Type: Bottom}
	default:
		return Intent{Type: None}
	}
}
