package state

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/tesso57/headlines/internal/application/usecase"
	"github.com/tesso57/headlines/internal/domain/reading"
)

// ModelState holds the presentation state for the TUI.
type ModelState struct {
	Session   Session
	Viewport  viewport.Model
	TextInput textinput.Model
	Help      help.Model
	Spinner   spinner.Model
	Keys      KeyMap
	Width     int
	Height    int

	Loading bool
	// Pending is the pass whose result the model is waiting for.
	Pending usecase.Pass
	// Timeline is the last applied pass; Cards is its display order.
	Timeline  *usecase.Timeline
	Cards     []reading.Card
	CardLines []int
	Selected  int
	Grouped   bool

	Status string
	Err    error
}

// SelectedCard returns the highlighted card.
func (s *ModelState) SelectedCard() (reading.Card, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Cards) {
		return reading.Card{}, false
	}
	return s.Cards[s.Selected], true
}
