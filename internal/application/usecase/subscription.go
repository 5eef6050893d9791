// Package usecase contains application-level services.
package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tesso57/headlines/internal/domain/subscription"
)

// SubscriptionRepository abstracts persistence for feed subscriptions.
// Save replaces the whole collection.
type SubscriptionRepository interface {
	Load(ctx context.Context) ([]subscription.Subscription, error)
	Save(ctx context.Context, subs []subscription.Subscription) error
}

// Patch lists the editable fields of a subscription; nil fields are left alone.
type Patch struct {
	Title    *string
	Category *string
	Color    *string
	Paywall  *bool
}

// SubscriptionService provides subscription-related operations.
// Every mutation is a single load-modify-save under one lock.
type SubscriptionService struct {
	Repo    SubscriptionRepository
	Fetcher FeedFetcher
	Logger  *zap.Logger

	mu sync.Mutex
}

// NewSubscriptionService constructs a SubscriptionService. logger may be nil.
func NewSubscriptionService(repo SubscriptionRepository, fetcher FeedFetcher, logger *zap.Logger) *SubscriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{Repo: repo, Fetcher: fetcher, Logger: logger.Named("subscriptions")}
}

// List returns all subscriptions in stored order.
func (s *SubscriptionService) List(ctx context.Context) ([]subscription.Subscription, error) {
	return s.Repo.Load(ctx)
}

// Sorted returns all subscriptions ordered by title for display.
func (s *SubscriptionService) Sorted(ctx context.Context) ([]subscription.Subscription, error) {
	subs, err := s.Repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	SortByTitle(subs)
	return subs, nil
}

// SortByTitle orders subs by title using language-aware collation.
func SortByTitle(subs []subscription.Subscription) {
	c := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(subs, func(a, b subscription.Subscription) int {
		return c.CompareString(a.Title, b.Title)
	})
}

// Add subscribes to a feed URL. The feed is fetched once to discover its
// title and website; nothing is saved when the URL is already subscribed or
// the fetch fails.
func (s *SubscriptionService) Add(ctx context.Context, rawURL string) (subscription.Subscription, error) {
	feedURL, err := subscription.NormalizeURL(rawURL)
	if err != nil {
		return subscription.Subscription{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.Repo.Load(ctx)
	if err != nil {
		return subscription.Subscription{}, err
	}
	if subscription.Index(subs, feedURL) >= 0 {
		return subscription.Subscription{}, fmt.Errorf("%w: %s", subscription.ErrDuplicate, feedURL)
	}

	res, err := s.Fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("discover feed: %w", err)
	}

	sub := subscription.Subscription{
		URL:     feedURL,
		Title:   strings.TrimSpace(res.Title),
		Website: strings.TrimSpace(res.Link),
	}
	if sub.Title == "" {
		sub.Title = feedURL
	}
	sub.Color = subscription.DefaultColor
	if color, ok := subscription.ColorFor(sub.Homepage()); ok {
		sub.Color = color
	} else if color, ok := subscription.ColorFor(feedURL); ok {
		sub.Color = color
	}

	if err := s.Repo.Save(ctx, append(subs, sub)); err != nil {
		return subscription.Subscription{}, err
	}
	s.Logger.Info("subscribed", zap.String("url", sub.URL), zap.String("title", sub.Title))
	return sub, nil
}

// AddNews subscribes to the Google News search feed for keyword.
func (s *SubscriptionService) AddNews(ctx context.Context, keyword string) (subscription.Subscription, error) {
	feedURL, err := subscription.GoogleNewsURL(keyword)
	if err != nil {
		return subscription.Subscription{}, err
	}
	return s.Add(ctx, feedURL)
}

// AddReddit subscribes to the hot-posts search feed of a community.
func (s *SubscriptionService) AddReddit(ctx context.Context, community string) (subscription.Subscription, error) {
	feedURL, err := subscription.RedditURL(community)
	if err != nil {
		return subscription.Subscription{}, err
	}
	return s.Add(ctx, feedURL)
}

// Edit updates a subscription in place.
func (s *SubscriptionService) Edit(ctx context.Context, feedURL string, p Patch) (subscription.Subscription, error) {
	if p.Color != nil && !subscription.ValidColor(*p.Color) {
		return subscription.Subscription{}, fmt.Errorf("invalid color %q", *p.Color)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.Repo.Load(ctx)
	if err != nil {
		return subscription.Subscription{}, err
	}
	i := subscription.Index(subs, strings.TrimSpace(feedURL))
	if i < 0 {
		return subscription.Subscription{}, fmt.Errorf("%w: %s", subscription.ErrNotFound, feedURL)
	}

	sub := &subs[i]
	if p.Title != nil {
		sub.Title = strings.TrimSpace(*p.Title)
	}
	if p.Category != nil {
		sub.Category = strings.TrimSpace(*p.Category)
	}
	if p.Color != nil {
		sub.Color = *p.Color
	}
	if p.Paywall != nil {
		sub.Paywall = *p.Paywall
	}

	if err := s.Repo.Save(ctx, subs); err != nil {
		return subscription.Subscription{}, err
	}
	return *sub, nil
}

// Remove unsubscribes from a feed URL.
func (s *SubscriptionService) Remove(ctx context.Context, feedURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.Repo.Load(ctx)
	if err != nil {
		return err
	}
	i := subscription.Index(subs, strings.TrimSpace(feedURL))
	if i < 0 {
		return fmt.Errorf("%w: %s", subscription.ErrNotFound, feedURL)
	}
	if err := s.Repo.Save(ctx, slices.Delete(subs, i, i+1)); err != nil {
		return err
	}
	s.Logger.Info("unsubscribed", zap.String("url", feedURL))
	return nil
}
