package tui

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/mock"

	"github.com/tesso57/headlines/internal/application/settings"
	"github.com/tesso57/headlines/internal/application/usecase"
	"github.com/tesso57/headlines/internal/domain/reading"
	"github.com/tesso57/headlines/internal/domain/subscription"
	"github.com/tesso57/headlines/internal/presentation/tui/update"
)

var fixedNow = time.Date(2024, time.March, 15, 14, 0, 0, 0, time.UTC)

type stubSubscriptionRepo struct {
	mock.Mock
	mu   sync.Mutex
	subs []subscription.Subscription
}

func (s *stubSubscriptionRepo) Load(_ context.Context) ([]subscription.Subscription, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called()
		subs, _ := args.Get(0).([]subscription.Subscription)
		return subs, args.Error(1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]subscription.Subscription{}, s.subs...), nil
}

func (s *stubSubscriptionRepo) Save(_ context.Context, subs []subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append([]subscription.Subscription(nil), subs...)
	return nil
}

type stubFeedFetcher struct {
	feeds map[string]reading.FeedResult
}

func (s *stubFeedFetcher) Fetch(_ context.Context, url string) (reading.FeedResult, error) {
	res, ok := s.feeds[url]
	if !ok {
		return reading.FeedResult{}, errors.New("not found")
	}
	return res, nil
}

func testSettings() settings.Settings {
	return settings.Settings{
		Display: settings.DisplayConfig{DefaultColor: subscription.DefaultColor, Grouped: true},
		KeyMap: settings.KeyMapConfig{
			Up:       "k",
			Down:     "j",
			UpPage:   "ctrl+u",
			DownPage: "ctrl+d",
			Top:      "home",
			Bottom:   "G",
			Refresh:  "r",
			Group:    "g",
			Quit:     "q",
		},
	}
}

// sampleFetcher serves one feed with stories spread over several buckets.
func sampleFetcher() *stubFeedFetcher {
	return &stubFeedFetcher{feeds: map[string]reading.FeedResult{
		"https://a.example/rss": {Title: "A", Items: []reading.Item{
			{Title: "Lunch", Link: "https://a.example/1", PublishedAt: fixedNow.Add(-time.Hour)},
			{Title: "Breakfast", Link: "https://a.example/2", PublishedAt: fixedNow.Add(-5 * time.Hour)},
			{Title: "Last night", Link: "https://a.example/3", PublishedAt: fixedNow.Add(-20 * time.Hour)},
		}},
		"https://new.example/rss": {Title: "New Feed"},
	}}
}

func newTestModel(cfg settings.Settings, repo usecase.SubscriptionRepository, fetcher usecase.FeedFetcher) *Model {
	subs := usecase.NewSubscriptionService(repo, fetcher, nil)
	agg := usecase.NewAggregationService(fetcher, nil)
	agg.Location = time.UTC
	agg.Now = func() time.Time { return fixedNow }
	m := NewModel(context.Background(), cfg, subs, agg)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// runPass delivers the result of the pending pass.
func runPass(m *Model) {
	msg := update.RefreshCmd(m.deps(), m.state.Pending)()
	m.Update(msg)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
