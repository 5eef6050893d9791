// Package tui implements the interactive timeline viewer.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tesso57/headlines/internal/application/settings"
	"github.com/tesso57/headlines/internal/application/usecase"
	"github.com/tesso57/headlines/internal/presentation/tui/components/header"
	"github.com/tesso57/headlines/internal/presentation/tui/components/modal"
	"github.com/tesso57/headlines/internal/presentation/tui/state"
	"github.com/tesso57/headlines/internal/presentation/tui/update"
	"github.com/tesso57/headlines/internal/presentation/tui/view"
)

// Model represents the main application state.
type Model struct {
	ctx           context.Context
	settings      settings.Settings
	subscriptions *usecase.SubscriptionService
	aggregation   usecase.AggregationService
	session       *usecase.Session
	state         *state.ModelState
}

// NewModel creates a new application model. The first pass starts in Init.
func NewModel(ctx context.Context, cfg settings.Settings, subscriptions *usecase.SubscriptionService, aggregation usecase.AggregationService) *Model {
	return &Model{
		ctx:           ctx,
		settings:      cfg,
		subscriptions: subscriptions,
		aggregation:   aggregation,
		session:       &usecase.Session{},
		state:         newModelState(cfg),
	}
}

// Init starts the first pass.
func (m *Model) Init() tea.Cmd {
	return update.StartRefresh(m.state, m.deps())
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		cmd, handled := update.HandleKeyMsg(m.state, msg, m.deps())
		if handled {
			update.UpdateSizes(m.state)
			return m, cmd
		}
	case tea.WindowSizeMsg:
		update.HandleWindowSize(m.state, msg)
	case update.TimelineMsg:
		update.HandleTimelineMsg(m.state, msg, m.deps())
		update.UpdateSizes(m.state)
	case update.FeedAddedMsg:
		cmds = append(cmds, update.HandleFeedAddedMsg(m.state, msg, m.deps()))
	}

	if m.state.Loading {
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.state.Session == state.TimelineView {
		var cmd tea.Cmd
		m.state.Viewport, cmd = m.state.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the application view.
func (m *Model) View() string {
	return view.Render(m.buildProps())
}

func (m *Model) buildProps() view.Props {
	s := m.state
	props := view.Props{
		Header: header.Props{Width: s.Width, Grouped: s.Grouped},
		Footer: update.FooterView(s),
	}
	if s.Timeline != nil {
		props.Header.Stories = len(s.Timeline.Cards)
		props.Header.Feeds = s.Timeline.Report.Requested
		props.Header.UpdatedAt = s.Timeline.Now
	}

	switch {
	case s.Loading && s.Timeline == nil:
		props.Body = s.Spinner.View() + " Loading feed..."
	default:
		props.Body = s.Viewport.View()
	}

	switch s.Session {
	case state.AddingFeedView:
		body := "Subscribe to a feed\n\n" + s.TextInput.View() + "\n\n(enter to add, esc to cancel)"
		if s.Loading {
			body = s.Spinner.View() + " Fetching " + s.TextInput.Value()
		}
		props.Modal = modal.Props{Visible: true, Kind: modal.AddFeed, Body: body, Width: s.Width, Height: s.Height}
	case state.QuitView:
		props.Modal = modal.Props{Visible: true, Kind: modal.Quit, Body: "Quit headlines? (y/n)", Width: s.Width, Height: s.Height}
	}
	return props
}

func (m *Model) deps() update.Deps {
	return update.Deps{
		Ctx:           m.ctx,
		Subscriptions: m.subscriptions,
		Aggregation:   m.aggregation,
		Session:       m.session,
		OpenBrowser:   openBrowser,
	}
}

func newModelState(cfg settings.Settings) *state.ModelState {
	st := &state.ModelState{
		Session:   state.TimelineView,
		TextInput: newTextInput(),
		Viewport:  newViewport(),
		Help:      help.New(),
		Spinner:   newSpinner(),
		Keys:      state.NewKeyMap(cfg.KeyMap),
		Grouped:   cfg.Display.Grouped,
	}
	st.Viewport.KeyMap.PageUp = st.Keys.UpPage
	st.Viewport.KeyMap.PageDown = st.Keys.DownPage
	return st
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "https://example.com/feed.xml"
	ti.CharLimit = 512
	ti.Width = 50
	return ti
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return s
}

func newViewport() viewport.Model {
	vp := viewport.New(80, 20)
	// Line movement keys select cards instead of scrolling.
	vp.KeyMap.Up.SetEnabled(false)
	vp.KeyMap.Down.SetEnabled(false)
	return vp
}
