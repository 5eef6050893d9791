package state

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tesso57/headlines/internal/application/settings"
)

func TestNewKeyMap(t *testing.T) {
	keys := NewKeyMap(settings.KeyMapConfig{Up: "k", Down: "j", Refresh: "r, R", Group: "g", Quit: "q", DownPage: "pgdn"})

	if !key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}}, keys.Refresh) {
		t.Error("comma separated keys should all bind")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyUp}, keys.Up) {
		t.Error("arrow keys are always bound for movement")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyPgDown}, keys.DownPage) {
		t.Error("pgdn alias should match pgdown")
	}
}

func TestSelectedCard(t *testing.T) {
	s := &ModelState{Selected: 0}
	if _, ok := s.SelectedCard(); ok {
		t.Error("no cards means no selection")
	}
}
