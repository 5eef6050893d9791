// Package update holds UI update logic for the TUI.
package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tesso57/headlines/internal/application/usecase"
	"github.com/tesso57/headlines/internal/domain/subscription"
	"github.com/tesso57/headlines/internal/presentation/render"
	"github.com/tesso57/headlines/internal/presentation/tui/intent"
	"github.com/tesso57/headlines/internal/presentation/tui/state"
)

// HeaderLines is the height reserved above the timeline.
const HeaderLines = 2

// Deps groups external dependencies for updates.
type Deps struct {
	Ctx           context.Context
	Subscriptions *usecase.SubscriptionService
	Aggregation   usecase.AggregationService
	Session       *usecase.Session
	OpenBrowser   func(string) error
}

func (d Deps) ctx() context.Context {
	if d.Ctx != nil {
		return d.Ctx
	}
	return context.Background()
}

// TimelineMsg is emitted when a pass finishes.
type TimelineMsg struct {
	Timeline usecase.Timeline
	Err      error
}

// FeedAddedMsg is emitted after an add attempt.
type FeedAddedMsg struct {
	Subscription subscription.Subscription
	Err          error
}

// RefreshCmd runs one pass over the current subscriptions.
func RefreshCmd(deps Deps, pass usecase.Pass) tea.Cmd {
	return func() tea.Msg {
		ctx := deps.ctx()
		subs, err := deps.Subscriptions.List(ctx)
		if err != nil {
			return TimelineMsg{Timeline: usecase.Timeline{Pass: pass}, Err: err}
		}
		return TimelineMsg{Timeline: deps.Aggregation.Aggregate(ctx, pass, subs)}
	}
}

// AddFeedCmd subscribes to url.
func AddFeedCmd(deps Deps, url string) tea.Cmd {
	return func() tea.Msg {
		sub, err := deps.Subscriptions.Add(deps.ctx(), url)
		return FeedAddedMsg{Subscription: sub, Err: err}
	}
}

// StartRefresh begins a new pass. Results of any pass still in flight will
// be discarded when they arrive.
func StartRefresh(s *state.ModelState, deps Deps) tea.Cmd {
	pass := deps.Session.Begin()
	s.Pending = pass
	s.Loading = true
	s.Err = nil
	s.Status = ""
	return tea.Batch(s.Spinner.Tick, RefreshCmd(deps, pass))
}

// HandleTimelineMsg applies a finished pass unless a newer one has begun.
func HandleTimelineMsg(s *state.ModelState, msg TimelineMsg, deps Deps) {
	if deps.Session.Stale(msg.Timeline.Pass) {
		return
	}
	s.Loading = false
	if msg.Err != nil {
		s.Err = msg.Err
		return
	}
	if !deps.Session.Apply(msg.Timeline) {
		return
	}

	tl := msg.Timeline
	s.Timeline = &tl
	s.Status = render.Status(tl.Report)
	Rebuild(s)
}

// HandleFeedAddedMsg reports the add result and refreshes on success.
func HandleFeedAddedMsg(s *state.ModelState, msg FeedAddedMsg, deps Deps) tea.Cmd {
	s.Loading = false
	s.Session = state.TimelineView
	if msg.Err != nil {
		s.Err = msg.Err
		return nil
	}
	cmd := StartRefresh(s, deps)
	s.Status = fmt.Sprintf("Added %s", msg.Subscription.Title)
	return cmd
}

// HandleWindowSize resizes the viewport and re-renders.
func HandleWindowSize(s *state.ModelState, msg tea.WindowSizeMsg) {
	s.Width = msg.Width
	s.Height = msg.Height
	UpdateSizes(s)
	Rebuild(s)
}

// UpdateSizes fits the viewport between the header and the footer.
func UpdateSizes(s *state.ModelState) {
	if s.Width <= 0 || s.Height <= 0 {
		return
	}
	s.Help.Width = s.Width
	footer := lipgloss.Height(FooterView(s))
	s.Viewport.Width = s.Width
	s.Viewport.Height = max(s.Height-HeaderLines-footer, 1)
}

// FooterView renders the status and help lines.
func FooterView(s *state.ModelState) string {
	status := s.Status
	if s.Err != nil {
		status = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Error: " + s.Err.Error())
	}
	if s.Loading && s.Timeline != nil {
		return s.Spinner.View() + " Refreshing...\n" + s.Help.View(&s.Keys)
	}
	return state.FooterText(s.Loading, status, s.Help.View(&s.Keys))
}

// Rebuild re-renders the timeline into the viewport.
func Rebuild(s *state.ModelState) {
	if s.Timeline == nil {
		return
	}
	s.Cards = render.Ordered(s.Timeline.Cards, s.Grouped)
	s.Selected = clamp(s.Selected, 0, len(s.Cards)-1)

	out := render.Timeline(s.Timeline.Cards, render.Options{
		Width:    s.Viewport.Width,
		Grouped:  s.Grouped,
		Now:      s.Timeline.Now,
		Selected: s.Selected,
	})
	s.CardLines = out.CardLines
	s.Viewport.SetContent(out.Text)
	ensureVisible(s)
}

func ensureVisible(s *state.ModelState) {
	if s.Selected < 0 || s.Selected >= len(s.CardLines) || s.Viewport.Height <= 0 {
		return
	}
	top := s.CardLines[s.Selected]
	if s.Selected == 0 {
		top = 0
	}
	bottom := s.CardLines[s.Selected] + 2
	switch {
	case top < s.Viewport.YOffset:
		s.Viewport.SetYOffset(top)
	case bottom >= s.Viewport.YOffset+s.Viewport.Height:
		s.Viewport.SetYOffset(bottom - s.Viewport.Height + 1)
	}
}

// HandleKeyMsg handles key presses. It reports false when the key should
// fall through to the viewport.
func HandleKeyMsg(s *state.ModelState, msg tea.KeyMsg, deps Deps) (tea.Cmd, bool) {
	switch s.Session {
	case state.QuitView:
		switch strings.ToLower(msg.String()) {
		case "y", "enter", "q":
			return tea.Quit, true
		case "n", "esc":
			s.Session = state.TimelineView
		}
		return nil, true
	case state.AddingFeedView:
		return handleAddFeedKey(s, msg, deps), true
	}

	switch intent.FromKeyMsg(msg, s.Keys).Type {
	case intent.Quit:
		s.Session = state.QuitView
	case intent.ToggleHelp:
		s.Help.ShowAll = !s.Help.ShowAll
		UpdateSizes(s)
		Rebuild(s)
	case intent.AddFeed:
		s.Session = state.AddingFeedView
		s.TextInput.Reset()
		return s.TextInput.Focus(), true
	case intent.Open:
		if card, ok := s.SelectedCard(); ok && deps.OpenBrowser != nil {
			if err := deps.OpenBrowser(card.Link); err != nil {
				s.Err = err
			}
		}
	case intent.Back:
		s.Err = nil
	case intent.Refresh:
		return StartRefresh(s, deps), true
	case intent.ToggleGroup:
		toggleGrouping(s)
	case intent.Up:
		moveSelection(s, s.Selected-1)
	case intent.Down:
		moveSelection(s, s.Selected+1)
	case intent.Top:
		moveSelection(s, 0)
	case intent.Bottom:
		moveSelection(s, len(s.Cards)-1)
	default:
		return nil, false
	}
	return nil, true
}

func handleAddFeedKey(s *state.ModelState, msg tea.KeyMsg, deps Deps) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		s.Session = state.TimelineView
		s.TextInput.Blur()
		return nil
	case tea.KeyEnter:
		url := strings.TrimSpace(s.TextInput.Value())
		if url == "" {
			return nil
		}
		s.TextInput.Blur()
		s.Loading = true
		s.Err = nil
		return tea.Batch(s.Spinner.Tick, AddFeedCmd(deps, url))
	}
	var cmd tea.Cmd
	s.TextInput, cmd = s.TextInput.Update(msg)
	return cmd
}

// toggleGrouping switches layout and keeps the same card selected.
func toggleGrouping(s *state.ModelState) {
	link := ""
	if card, ok := s.SelectedCard(); ok {
		link = card.Link
	}
	s.Grouped = !s.Grouped
	if s.Timeline == nil {
		return
	}
	s.Cards = render.Ordered(s.Timeline.Cards, s.Grouped)
	for i, c := range s.Cards {
		if c.Link == link {
			s.Selected = i
			break
		}
	}
	Rebuild(s)
}

func moveSelection(s *state.ModelState, to int) {
	if len(s.Cards) == 0 {
		return
	}
	s.Selected = clamp(to, 0, len(s.Cards)-1)
	Rebuild(s)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
