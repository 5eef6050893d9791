// Package state holds UI state types for the TUI.
package state

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/tesso57/headlines/internal/application/settings"
)

// Session represents the current view state.
type Session int

const (
	TimelineView Session = iota
	AddingFeedView
	QuitView
)

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	UpPage   key.Binding
	DownPage key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Open     key.Binding
	Back     key.Binding
	Quit     key.Binding
	AddFeed  key.Binding
	Refresh  key.Binding
	Group    key.Binding
	Help     key.Binding
}

// ShortHelp returns a subset of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Group, k.Open, k.Quit}
}

// FullHelp returns all keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.UpPage, k.DownPage},
		{k.Top, k.Bottom, k.Open},
		{k.Refresh, k.Group, k.AddFeed},
		{k.Back, k.Quit, k.Help},
	}
}

// NewKeyMap creates a new KeyMap from the configuration.
// A binding may list several keys separated by commas.
func NewKeyMap(cfg settings.KeyMapConfig) KeyMap {
	bind := func(keys, help string) key.Binding {
		return key.NewBinding(key.WithKeys(splitKeys(keys)...), key.WithHelp(keys, help))
	}
	return KeyMap{
		Up:       bind(withArrow(cfg.Up, "up"), "up"),
		Down:     bind(withArrow(cfg.Down, "down"), "down"),
		UpPage:   bind(cfg.UpPage, "pgup"),
		DownPage: bind(cfg.DownPage, "pgdn"),
		Top:      bind(cfg.Top, "top"),
		Bottom:   bind(cfg.Bottom, "bottom"),
		Open:     bind("enter,o", "open"),
		Back:     bind("esc", "back"),
		Quit:     bind(cfg.Quit, "quit"),
		AddFeed:  bind("a", "add feed"),
		Refresh:  bind(cfg.Refresh, "refresh"),
		Group:    bind(cfg.Group, "group"),
		Help:     bind("?", "toggle help"),
	}
}

func withArrow(keys, arrow string) string {
	if strings.TrimSpace(keys) == "" {
		return arrow
	}
	return keys + "," + arrow
}

func splitKeys(keys string) []string {
	parts := strings.Split(keys, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		keyName := strings.TrimSpace(part)
		if keyName == "" {
			continue
		}
		out = append(out, keyName)
		switch keyName {
		case "pgdn":
			out = append(out, "pgdown")
		case "pgdown":
			out = append(out, "pgdn")
		}
	}
	return out
}
