// Package metrics owns the prometheus collectors for fetches and passes.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tesso57/headlines/internal/infrastructure/feed"
)

const namespace = "headlines"

// Metrics holds every collector on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	FeedFetches   *prometheus.CounterVec
	FeedFailures  prometheus.Counter
	PassDuration  prometheus.Histogram
	TimelineCards prometheus.Gauge
	LastPass      prometheus.Gauge
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		FeedFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feed_fetch_total",
				Help:      "Fetch attempts by path and result",
			},
			[]string{"path", "result"},
		),
		FeedFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_failures_total",
			Help:      "Subscriptions that contributed no cards to a pass",
		}),
		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Wall time of one aggregation pass",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
		TimelineCards: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timeline_cards",
			Help:      "Cards in the most recent timeline",
		}),
		LastPass: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_pass_timestamp_seconds",
			Help:      "Unix time the most recent pass finished",
		}),
	}
}

// ObserveFetch implements feed.Recorder.
func (m *Metrics) ObserveFetch(path feed.Path, result string) {
	m.FeedFetches.WithLabelValues(string(path), result).Inc()
}

// ObservePass records one finished aggregation pass.
func (m *Metrics) ObservePass(elapsed time.Duration, cards, failures int) {
	m.PassDuration.Observe(elapsed.Seconds())
	m.TimelineCards.Set(float64(cards))
	m.FeedFailures.Add(float64(failures))
	m.LastPass.SetToCurrentTime()
}

// WriteTextfile writes the registry in text exposition format for a
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
