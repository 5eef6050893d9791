package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesso57/headlines/internal/domain/reading"
	"github.com/tesso57/headlines/internal/domain/subscription"
)

type funcFetcher func(ctx context.Context, url string) (reading.FeedResult, error)

func (f funcFetcher) Fetch(ctx context.Context, url string) (reading.FeedResult, error) {
	return f(ctx, url)
}

type passRecorder struct {
	calls    int
	cards    int
	failures int
}

func (r *passRecorder) ObservePass(_ time.Duration, cards, failures int) {
	r.calls++
	r.cards = cards
	r.failures = failures
}

var fixedNow = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

func newTestAggregation(fetcher FeedFetcher) AggregationService {
	svc := NewAggregationService(fetcher, nil)
	svc.Location = time.UTC
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func TestAggregateMergesAndClassifies(t *testing.T) {
	feeds := map[string]reading.FeedResult{
		"https://a.example/rss": {Title: "A", Items: []reading.Item{
			{Title: "a-morning", Link: "https://x/1", PublishedAt: fixedNow.Add(-5 * time.Hour)},
			{Title: "a-yesterday", Link: "https://x/2", PublishedAt: fixedNow.Add(-24 * time.Hour)},
		}},
		"https://b.example/rss": {Title: "B", Items: []reading.Item{
			{Title: "b-evening-dup", Link: "https://x/1", PublishedAt: fixedNow.Add(-time.Hour)},
			{Title: "b-old", Link: "https://x/3", PublishedAt: fixedNow.AddDate(0, -1, 0)},
			{Title: "no-link", Link: "", PublishedAt: fixedNow},
		}},
	}
	svc := newTestAggregation(funcFetcher(func(_ context.Context, url string) (reading.FeedResult, error) {
		return feeds[url], nil
	}))
	rec := &passRecorder{}
	svc.Recorder = rec

	subs := []subscription.Subscription{
		{URL: "https://a.example/rss", Title: "Feed A", Color: "#ff0000", Category: "News"},
		{URL: "https://b.example/rss", Paywall: true},
	}
	tl := svc.Aggregate(context.Background(), Pass{Generation: 1}, subs)

	assert.Equal(t, FeedFetchReport{Requested: 2, Succeeded: 2}, tl.Report)
	assert.Empty(t, tl.Failures)
	require.Len(t, tl.Cards, 3)

	first := tl.Cards[0]
	assert.Equal(t, "b-evening-dup", first.Title, "later duplicate wins")
	assert.Equal(t, "B", first.FeedTitle, "empty subscription title falls back to the feed title")
	assert.Equal(t, subscription.DefaultColor, first.Color)
	assert.True(t, first.Paywall)
	assert.Equal(t, reading.Afternoon, first.Bucket)

	assert.Equal(t, "a-yesterday", tl.Cards[1].Title)
	assert.Equal(t, "Feed A", tl.Cards[1].FeedTitle)
	assert.Equal(t, "#ff0000", tl.Cards[1].Color)
	assert.Equal(t, "News", tl.Cards[1].Category)
	assert.Equal(t, reading.Yesterday, tl.Cards[1].Bucket)

	assert.Equal(t, reading.Older, tl.Cards[2].Bucket)

	require.Len(t, tl.Groups, 3)
	assert.Equal(t, reading.Afternoon, tl.Groups[0].Bucket)
	assert.Equal(t, reading.Yesterday, tl.Groups[1].Bucket)
	assert.Equal(t, reading.Older, tl.Groups[2].Bucket)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, 3, rec.cards)
}

func TestAggregateIsolatesFailures(t *testing.T) {
	svc := newTestAggregation(funcFetcher(func(_ context.Context, url string) (reading.FeedResult, error) {
		switch url {
		case "https://bad.example/rss":
			return reading.FeedResult{}, errors.New("both paths failed")
		case "https://slow.example/rss":
			return reading.FeedResult{}, fmt.Errorf("fetch: %w", context.DeadlineExceeded)
		}
		return reading.FeedResult{Items: []reading.Item{{Title: "ok", Link: "https://ok/1", PublishedAt: fixedNow}}}, nil
	}))

	tl := svc.Aggregate(context.Background(), Pass{}, []subscription.Subscription{
		{URL: "https://bad.example/rss", Title: "Bad"},
		{URL: "https://good.example/rss"},
		{URL: "https://slow.example/rss"},
	})

	assert.Equal(t, FeedFetchReport{Requested: 3, Succeeded: 1, Failed: 1, TimedOut: 1}, tl.Report)
	require.Len(t, tl.Cards, 1)
	require.Len(t, tl.Failures, 2)
	assert.Equal(t, "https://bad.example/rss", tl.Failures[0].URL)
	assert.Equal(t, "Bad", tl.Failures[0].Title)
	assert.Error(t, tl.Failures[0].Err)
}

// attemptsError mimics a fetch error that keeps every attempted path.
type attemptsError struct {
	first, last error
}

func (e attemptsError) Error() string   { return e.first.Error() + "; " + e.last.Error() }
func (e attemptsError) Unwrap() []error { return []error{e.first, e.last} }
func (e attemptsError) Final() error    { return e.last }

func TestAggregateClassifiesByFinalAttempt(t *testing.T) {
	svc := newTestAggregation(funcFetcher(func(_ context.Context, url string) (reading.FeedResult, error) {
		switch url {
		case "https://proxy-slow.example/rss":
			return reading.FeedResult{}, attemptsError{
				first: fmt.Errorf("proxy: %w", context.DeadlineExceeded),
				last:  errors.New("structural: 404"),
			}
		default:
			return reading.FeedResult{}, attemptsError{
				first: errors.New("proxy: 500"),
				last:  fmt.Errorf("structural: %w", context.DeadlineExceeded),
			}
		}
	}))

	tl := svc.Aggregate(context.Background(), Pass{}, []subscription.Subscription{
		{URL: "https://proxy-slow.example/rss"},
		{URL: "https://direct-slow.example/rss"},
	})

	assert.Equal(t, FeedFetchReport{Requested: 2, Failed: 1, TimedOut: 1}, tl.Report)
}

func TestAggregateIsIdempotent(t *testing.T) {
	tie := fixedNow.Add(-2 * time.Hour)
	feeds := map[string]reading.FeedResult{
		"https://a.example/rss": {Title: "A", Items: []reading.Item{
			{Title: "a-tie", Link: "https://x/tie-a", PublishedAt: tie},
			{Title: "a-shared", Link: "https://x/shared", PublishedAt: fixedNow.Add(-time.Hour)},
			{Title: "a-old", Link: "https://x/a-old", PublishedAt: fixedNow.AddDate(0, 0, -3)},
		}},
		"https://b.example/rss": {Title: "B", Items: []reading.Item{
			{Title: "b-tie", Link: "https://x/tie-b", PublishedAt: tie},
			{Title: "b-shared", Link: "https://x/shared", PublishedAt: fixedNow.Add(-time.Hour)},
		}},
		"https://c.example/rss": {Title: "C", Items: []reading.Item{
			{Title: "c-tie", Link: "https://x/tie-c", PublishedAt: tie},
			{Title: "c-shared-later", Link: "https://x/shared", PublishedAt: fixedNow.Add(-30 * time.Minute)},
		}},
	}
	svc := newTestAggregation(funcFetcher(func(ctx context.Context, url string) (reading.FeedResult, error) {
		select {
		case <-time.After(time.Duration(rand.IntN(20)) * time.Millisecond):
		case <-ctx.Done():
			return reading.FeedResult{}, ctx.Err()
		}
		return feeds[url], nil
	}))
	subs := []subscription.Subscription{
		{URL: "https://a.example/rss"},
		{URL: "https://b.example/rss"},
		{URL: "https://c.example/rss"},
	}

	first := svc.Aggregate(context.Background(), Pass{}, subs)
	for range 5 {
		again := svc.Aggregate(context.Background(), Pass{}, subs)
		assert.Equal(t, first.Cards, again.Cards)
	}

	links := make([]string, 0, len(first.Cards))
	for _, c := range first.Cards {
		links = append(links, c.Link)
	}
	assert.Equal(t, []string{"https://x/shared", "https://x/tie-a", "https://x/tie-b", "https://x/tie-c", "https://x/a-old"}, links)
	assert.Equal(t, "c-shared-later", first.Cards[0].Title)
}

func TestAggregateAllFailYieldsEmptyTimeline(t *testing.T) {
	svc := newTestAggregation(funcFetcher(func(context.Context, string) (reading.FeedResult, error) {
		return reading.FeedResult{}, errors.New("down")
	}))
	tl := svc.Aggregate(context.Background(), Pass{}, []subscription.Subscription{{URL: "https://a/rss"}, {URL: "https://b/rss"}})

	assert.Empty(t, tl.Cards)
	assert.Empty(t, tl.Groups)
	assert.Len(t, tl.Failures, 2)
}

func TestAggregateNoSubscriptions(t *testing.T) {
	svc := newTestAggregation(funcFetcher(func(context.Context, string) (reading.FeedResult, error) {
		t.Fatal("fetcher must not be called")
		return reading.FeedResult{}, nil
	}))
	tl := svc.Aggregate(context.Background(), Pass{}, nil)
	assert.Empty(t, tl.Cards)
	assert.Equal(t, FeedFetchReport{}, tl.Report)
}

func TestAggregateRespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	svc := newTestAggregation(funcFetcher(func(context.Context, string) (reading.FeedResult, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return reading.FeedResult{}, nil
	}))
	svc.Concurrency = 2

	subs := make([]subscription.Subscription, 8)
	for i := range subs {
		subs[i] = subscription.Subscription{URL: fmt.Sprintf("https://%d.example/rss", i)}
	}
	tl := svc.Aggregate(context.Background(), Pass{}, subs)

	assert.Equal(t, 8, tl.Report.Succeeded)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAggregateBatchTimeout(t *testing.T) {
	svc := newTestAggregation(funcFetcher(func(ctx context.Context, _ string) (reading.FeedResult, error) {
		<-ctx.Done()
		return reading.FeedResult{}, ctx.Err()
	}))
	svc.BatchTimeout = 20 * time.Millisecond

	tl := svc.Aggregate(context.Background(), Pass{}, []subscription.Subscription{{URL: "https://hang.example/rss"}})
	assert.Equal(t, 1, tl.Report.TimedOut)
}

func TestSessionDiscardsStalePasses(t *testing.T) {
	var s Session

	first := s.Begin()
	second := s.Begin()
	assert.NotEqual(t, first.ID, second.ID)
	assert.Greater(t, second.Generation, first.Generation)
	assert.True(t, s.Stale(first))
	assert.False(t, s.Stale(second))

	assert.True(t, s.Apply(Timeline{Pass: second, Cards: []reading.Card{{}}}))
	assert.False(t, s.Apply(Timeline{Pass: first}), "late result of an older pass is dropped")

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, second, cur.Pass)
	assert.Len(t, cur.Cards, 1)
}

func TestSessionCurrentEmpty(t *testing.T) {
	var s Session
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSessionConcurrentBegin(t *testing.T) {
	var s Session
	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() { s.Begin() })
	}
	wg.Wait()
	last := s.Begin()
	assert.Equal(t, uint64(51), last.Generation)
}
