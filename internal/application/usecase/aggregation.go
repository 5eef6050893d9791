package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tesso57/headlines/internal/domain/reading"
	"github.com/tesso57/headlines/internal/domain/subscription"
)

// DefaultConcurrency is how many feeds a pass fetches at once.
const DefaultConcurrency = 8

// FeedFetcher abstracts feed retrieval.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (reading.FeedResult, error)
}

// PassRecorder receives one observation per finished pass.
type PassRecorder interface {
	ObservePass(elapsed time.Duration, cards, failures int)
}

// FeedFetchReport summarizes the outcome of one pass.
type FeedFetchReport struct {
	Requested int
	Succeeded int
	Failed    int
	TimedOut  int
}

// FeedFailure records a subscription that contributed nothing to a pass.
type FeedFailure struct {
	URL   string
	Title string
	Err   error
}

// Pass identifies one aggregation pass.
type Pass struct {
	ID         uuid.UUID
	Generation uint64
}

// Timeline is the result of one pass.
type Timeline struct {
	Pass     Pass
	Now      time.Time
	Cards    []reading.Card
	Groups   []reading.Group
	Failures []FeedFailure
	Report   FeedFetchReport
}

// AggregationService fetches every subscription and builds a Timeline.
type AggregationService struct {
	Fetcher FeedFetcher
	// Concurrency caps in-flight fetches; 0 means unlimited.
	Concurrency int
	// BatchTimeout bounds the whole pass when positive.
	BatchTimeout time.Duration
	DefaultColor string
	Location     *time.Location
	Now          func() time.Time
	Logger       *zap.Logger
	Recorder     PassRecorder
}

// NewAggregationService constructs an AggregationService with defaults.
func NewAggregationService(fetcher FeedFetcher, logger *zap.Logger) AggregationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return AggregationService{
		Fetcher:      fetcher,
		Concurrency:  DefaultConcurrency,
		DefaultColor: subscription.DefaultColor,
		Location:     time.Local,
		Now:          time.Now,
		Logger:       logger.Named("aggregate"),
	}
}

// Aggregate fetches subs concurrently and waits for every fetch to settle.
// A failing feed is reported in Failures and never fails the pass.
func (s AggregationService) Aggregate(ctx context.Context, pass Pass, subs []subscription.Subscription) Timeline {
	started := time.Now()
	logger := s.logger().With(zap.String("pass", pass.ID.String()), zap.Uint64("generation", pass.Generation))

	if s.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.BatchTimeout)
		defer cancel()
	}

	results := make([]reading.FeedResult, len(subs))
	errs := make([]error, len(subs))

	// Workers never return an error so one failure cannot cancel its siblings.
	var g errgroup.Group
	if s.Concurrency > 0 {
		g.SetLimit(s.Concurrency)
	}
	for i, sub := range subs {
		g.Go(func() error {
			results[i], errs[i] = s.Fetcher.Fetch(ctx, sub.URL)
			return nil
		})
	}
	_ = g.Wait()

	now := s.now().In(s.location())
	timeline := Timeline{Pass: pass, Now: now, Report: FeedFetchReport{Requested: len(subs)}}

	var cards []reading.Card
	for i, sub := range subs {
		if err := errs[i]; err != nil {
			if timedOut(err) {
				timeline.Report.TimedOut++
			} else {
				timeline.Report.Failed++
			}
			timeline.Failures = append(timeline.Failures, FeedFailure{URL: sub.URL, Title: sub.Title, Err: err})
			logger.Warn("feed failed", zap.String("url", sub.URL), zap.Error(err))
			continue
		}
		timeline.Report.Succeeded++
		cards = append(cards, s.cards(now, sub, results[i])...)
	}

	timeline.Cards = reading.Merge(cards)
	timeline.Groups = reading.Partition(timeline.Cards)

	elapsed := time.Since(started)
	if s.Recorder != nil {
		s.Recorder.ObservePass(elapsed, len(timeline.Cards), len(timeline.Failures))
	}
	logger.Info("pass finished",
		zap.Int("requested", timeline.Report.Requested),
		zap.Int("succeeded", timeline.Report.Succeeded),
		zap.Int("failed", timeline.Report.Failed),
		zap.Int("timed_out", timeline.Report.TimedOut),
		zap.Int("cards", len(timeline.Cards)),
		zap.Duration("elapsed", elapsed),
	)
	return timeline
}

// finalAttempt is implemented by errors that record several fetch attempts.
type finalAttempt interface {
	Final() error
}

// timedOut reports whether the last attempt behind err ran out of time.
func timedOut(err error) bool {
	var fa finalAttempt
	if errors.As(err, &fa) {
		if final := fa.Final(); final != nil {
			err = final
		}
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func (s AggregationService) cards(now time.Time, sub subscription.Subscription, res reading.FeedResult) []reading.Card {
	title := sub.Title
	if strings.TrimSpace(title) == "" {
		title = res.Title
	}
	color := sub.Color
	if color == "" {
		color = s.DefaultColor
	}
	if color == "" {
		color = subscription.DefaultColor
	}

	cards := make([]reading.Card, 0, len(res.Items))
	for _, item := range res.Items {
		cards = append(cards, reading.Card{
			Item:      item,
			FeedTitle: title,
			FeedURL:   sub.URL,
			Color:     color,
			Category:  sub.Category,
			Paywall:   sub.Paywall,
			Bucket:    reading.Classify(now, item.PublishedAt),
		})
	}
	return cards
}

func (s AggregationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AggregationService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

func (s AggregationService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// Session tracks which pass is current so late results of superseded passes
// are discarded. The zero value is ready to use.
type Session struct {
	mu         sync.Mutex
	generation uint64
	current    *Timeline
}

// Begin starts a new pass; every earlier pass becomes stale.
func (s *Session) Begin() Pass {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return Pass{ID: uuid.New(), Generation: s.generation}
}

// Apply stores t when it belongs to the newest pass begun and reports whether
// it did.
func (s *Session) Apply(t Timeline) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Pass.Generation != s.generation {
		return false
	}
	s.current = &t
	return true
}

// Current returns the last applied timeline.
func (s *Session) Current() (Timeline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Timeline{}, false
	}
	return *s.current, true
}

// Stale reports whether p has been superseded.
func (s *Session) Stale(p Pass) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return p.Generation != s.generation
}
