package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tesso57/headlines/internal/domain/reading"
	"github.com/tesso57/headlines/internal/domain/subscription"
)

type stubSubscriptionRepo struct {
	mock.Mock
	mu    sync.Mutex
	subs  []subscription.Subscription
	saves int
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
	s.saves++
	s.subs = append([]subscription.Subscription(nil), subs...)
	return nil
}

type stubFeedFetcher struct {
	mock.Mock
}

func (s *stubFeedFetcher) Fetch(_ context.Context, url string) (reading.FeedResult, error) {
	args := s.Called(url)
	res, _ := args.Get(0).(reading.FeedResult)
	return res, args.Error(1)
}

func TestSubscriptionAddDiscoversFeed(t *testing.T) {
	repo := &stubSubscriptionRepo{}
	fetcher := &stubFeedFetcher{}
	fetcher.On("Fetch", "https://feeds.bbci.co.uk/news/rss.xml").
		Return(reading.FeedResult{Title: " BBC News ", Link: "https://www.bbc.co.uk/news"}, nil).Once()
	svc := NewSubscriptionService(repo, fetcher, nil)

	sub, err := svc.Add(context.Background(), "  https://feeds.bbci.co.uk/news/rss.xml\t")
	require.NoError(t, err)

	assert.Equal(t, "https://feeds.bbci.co.uk/news/rss.xml", sub.URL)
	assert.Equal(t, "BBC News", sub.Title)
	assert.Equal(t, "https://www.bbc.co.uk/news", sub.Website)
	assert.Empty(t, sub.Category)
	assert.False(t, sub.Paywall)
	wantColor, ok := subscription.ColorFor("https://www.bbc.co.uk/news")
	require.True(t, ok)
	assert.Equal(t, wantColor, sub.Color)

	require.Len(t, repo.subs, 1)
	assert.Equal(t, sub, repo.subs[0])
	fetcher.AssertExpectations(t)
}

func TestSubscriptionAddDefaults(t *testing.T) {
	repo := &stubSubscriptionRepo{}
	fetcher := &stubFeedFetcher{}
	fetcher.On("Fetch", "https://unknown.example/rss").Return(reading.FeedResult{}, nil)
	svc := NewSubscriptionService(repo, fetcher, nil)

	sub, err := svc.Add(context.Background(), "https://unknown.example/rss")
	require.NoError(t, err)
	assert.Equal(t, "https://unknown.example/rss", sub.Title)
	assert.Equal(t, subscription.DefaultColor, sub.Color)
}

func TestSubscriptionAddColorFallsBackToFeedURL(t *testing.T) {
	repo := &stubSubscriptionRepo{}
	fetcher := &stubFeedFetcher{}
	fetcher.On("Fetch", "https://www.theguardian.com/world/rss").
		Return(reading.FeedResult{Title: "World", Link: "https://unmatched.example/"}, nil)
	svc := NewSubscriptionService(repo, fetcher, nil)

	sub, err := svc.Add(context.Background(), "https://www.theguardian.com/world/rss")
	require.NoError(t, err)

	want, ok := subscription.ColorFor("https://www.theguardian.com/world/rss")
	require.True(t, ok)
	assert.Equal(t, want, sub.Color)
	assert.Equal(t, "#052962", sub.Color)
}

func TestSubscriptionAddRejectsDuplicateWithoutFetching(t *testing.T) {
	repo := &stubSubscriptionRepo{subs: []subscription.Subscription{{URL: "https://example.com/rss", Title: "Example"}}}
	fetcher := &stubFeedFetcher{}
	svc := NewSubscriptionService(repo, fetcher, nil)

	_, err := svc.Add(context.Background(), " https://example.com/rss ")
	require.ErrorIs(t, err, subscription.ErrDuplicate)

	fetcher.AssertNotCalled(t, "Fetch", mock.Anything)
	assert.Zero(t, repo.saves)
	assert.Len(t, repo.subs, 1)
}

func TestSubscriptionAddRejectsInvalid(t *testing.T) {
	svc := NewSubscriptionService(&stubSubscriptionRepo{}, &stubFeedFetcher{}, nil)
	for _, in := range []string{"", " \t\n", "https://example.com/rss another", "ftp://example.com/rss", "example.com/rss"} {
		_, err := svc.Add(context.Background(), in)
		assert.Error(t, err, "%q", in)
	}
}

func TestSubscriptionAddFetchFailureSavesNothing(t *testing.T) {
	repo := &stubSubscriptionRepo{}
	fetcher := &stubFeedFetcher{}
	fetcher.On("Fetch", "https://down.example/rss").Return(reading.FeedResult{}, errors.New("boom"))
	svc := NewSubscriptionService(repo, fetcher, nil)

	_, err := svc.Add(context.Background(), "https://down.example/rss")
	require.Error(t, err)
	assert.Zero(t, repo.saves)
}

func TestSubscriptionAddLoadError(t *testing.T) {
	repo := &stubSubscriptionRepo{}
	repo.On("Load").Return(nil, errors.New("disk"))
	svc := NewSubscriptionService(repo, &stubFeedFetcher{}, nil)

	_, err := svc.Add(context.Background(), "https://example.com/rss")
	require.Error(t, err)
}

func TestSubscriptionAddDerivedSources(t *testing.T) {
	repo := &stubSubscriptionRepo{}
	fetcher := &stubFeedFetcher{}
	fetcher.On("Fetch", mock.Anything).Return(reading.FeedResult{Title: "Derived"}, nil)
	svc := NewSubscriptionService(repo, fetcher, nil)

	news, err := svc.AddNews(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, "https://news.google.com/rss/search?q=golang&hl=en-US&gl=US&ceid=US:en", news.URL)

	reddit, err := svc.AddReddit(context.Background(), "r/golang")
	require.NoError(t, err)
	assert.Equal(t, "https://www.reddit.com/r/golang/search.rss?q=golang&restrict_sr=on&type=link&limit=20&sort=hot", reddit.URL)

	_, err = svc.AddNews(context.Background(), "golang")
	assert.ErrorIs(t, err, subscription.ErrDuplicate)
	assert.Len(t, repo.subs, 2)
}

func TestSubscriptionEdit(t *testing.T) {
	repo := &stubSubscriptionRepo{subs: []subscription.Subscription{
		{URL: "https://a.example/rss", Title: "A"},
		{URL: "https://b.example/rss", Title: "B"},
	}}
	svc := NewSubscriptionService(repo, &stubFeedFetcher{}, nil)

	title, category, color, paywall := "Renamed", " Tech ", "#123abc", true
	got, err := svc.Edit(context.Background(), "https://a.example/rss", Patch{
		Title: &title, Category: &category, Color: &color, Paywall: &paywall,
	})
	require.NoError(t, err)

	want := subscription.Subscription{URL: "https://a.example/rss", Title: "Renamed", Category: "Tech", Color: "#123abc", Paywall: true}
	assert.Equal(t, want, got)
	assert.Equal(t, want, repo.subs[0], "edit keeps the stored position")
	assert.Equal(t, "B", repo.subs[1].Title)
}

func TestSubscriptionEditErrors(t *testing.T) {
	repo := &stubSubscriptionRepo{subs: []subscription.Subscription{{URL: "https://a.example/rss"}}}
	svc := NewSubscriptionService(repo, &stubFeedFetcher{}, nil)

	bad := "red"
	_, err := svc.Edit(context.Background(), "https://a.example/rss", Patch{Color: &bad})
	assert.Error(t, err)

	_, err = svc.Edit(context.Background(), "https://missing.example/rss", Patch{})
	assert.ErrorIs(t, err, subscription.ErrNotFound)
	assert.Zero(t, repo.saves)
}

func TestSubscriptionRemove(t *testing.T) {
	repo := &stubSubscriptionRepo{subs: []subscription.Subscription{
		{URL: "https://a.example/rss"},
		{URL: "https://b.example/rss"},
		{URL: "https://c.example/rss"},
	}}
	svc := NewSubscriptionService(repo, &stubFeedFetcher{}, nil)

	require.NoError(t, svc.Remove(context.Background(), "https://b.example/rss"))
	subs, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "https://a.example/rss", subs[0].URL)
	assert.Equal(t, "https://c.example/rss", subs[1].URL)

	assert.ErrorIs(t, svc.Remove(context.Background(), "https://b.example/rss"), subscription.ErrNotFound)
}

func TestSubscriptionSorted(t *testing.T) {
	repo := &stubSubscriptionRepo{subs: []subscription.Subscription{
		{URL: "1", Title: "zeit"},
		{URL: "2", Title: "Économie"},
		{URL: "3", Title: "apple"},
		{URL: "4", Title: "Banana"},
	}}
	svc := NewSubscriptionService(repo, &stubFeedFetcher{}, nil)

	subs, err := svc.Sorted(context.Background())
	require.NoError(t, err)

	titles := make([]string, 0, len(subs))
	for _, s := range subs {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"apple", "Banana", "Économie", "zeit"}, titles)
	assert.Equal(t, "zeit", repo.subs[0].Title, "stored order is untouched")
}

func TestSubscriptionConcurrentAdds(t *testing.T) {
	repo := &stubSubscriptionRepo{}
	fetcher := &stubFeedFetcher{}
	fetcher.On("Fetch", mock.Anything).Return(reading.FeedResult{Title: "T"}, nil)
	svc := NewSubscriptionService(repo, fetcher, nil)

	urls := []string{"https://a.example/rss", "https://b.example/rss", "https://c.example/rss", "https://d.example/rss"}
	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Go(func() {
			_, _ = svc.Add(context.Background(), u)
		})
	}
	wg.Wait()

	assert.Len(t, repo.subs, len(urls))
}
