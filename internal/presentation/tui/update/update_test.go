package update

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/tesso57/headlines/internal/application/settings"
	"github.com/tesso57/headlines/internal/presentation/tui/state"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{v: -1, lo: 0, hi: 3, want: 0},
		{v: 2, lo: 0, hi: 3, want: 2},
		{v: 9, lo: 0, hi: 3, want: 3},
		{v: 4, lo: 0, hi: -1, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clamp(tt.v, tt.lo, tt.hi))
	}
}

func TestHandleKeyMsgFallsThrough(t *testing.T) {
	s := &state.ModelState{Session: state.TimelineView, Keys: state.NewKeyMap(settings.KeyMapConfig{UpPage: "ctrl+u"})}

	_, handled := HandleKeyMsg(s, tea.KeyMsg{Type: tea.KeyCtrlU}, Deps{})
	assert.False(t, handled, "page keys belong to the viewport")

	_, handled = HandleKeyMsg(s, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")}, Deps{})
	assert.True(t, handled)
	assert.True(t, s.Help.ShowAll)
}

func TestMoveSelectionWithoutCards(t *testing.T) {
	s := &state.ModelState{}
	moveSelection(s, 3)
	assert.Equal(t, 0, s.Selected)
}

func TestHandleWindowSize(t *testing.T) {
	s := &state.ModelState{Keys: state.NewKeyMap(settings.KeyMapConfig{})}
	HandleWindowSize(s, tea.WindowSizeMsg{Width: 90, Height: 30})

	assert.Equal(t, 90, s.Viewport.Width)
	assert.Less(t, s.Viewport.Height, 30)
	assert.Positive(t, s.Viewport.Height)
}
