package cli

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/tesso57/headlines/internal/application/settings"
	"github.com/tesso57/headlines/internal/application/usecase"
	"github.com/tesso57/headlines/internal/infrastructure/config"
	"github.com/tesso57/headlines/internal/infrastructure/feed"
	"github.com/tesso57/headlines/internal/infrastructure/logger"
	"github.com/tesso57/headlines/internal/infrastructure/metrics"
	"github.com/tesso57/headlines/internal/infrastructure/store"
)

// App holds everything a command needs. It is built once per invocation.
type App struct {
	Settings      settings.Settings
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	Subscriptions *usecase.SubscriptionService
	Aggregation   usecase.AggregationService

	Stdout io.Writer
	Stderr io.Writer

	closers []func() error
}

// NewApp loads the configuration and wires the services. Log lines go to the
// configured file; console is added when not nil.
func NewApp(g Globals, stdout, stderr, console io.Writer) (*App, error) {
	cfgStore, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	s := cfgStore.Settings
	if g.LogLevel != "" {
		s.Log.Level = g.LogLevel
	}

	loc, err := s.Location()
	if err != nil {
		return nil, err
	}

	app := &App{Settings: s, Stdout: stdout, Stderr: stderr}

	log, closeLog, err := logger.New(logger.Config{
		Level:      s.Log.Level,
		File:       s.Log.File,
		MaxSizeMB:  s.Log.MaxSizeMB,
		MaxBackups: s.Log.MaxBackups,
		MaxAgeDays: s.Log.MaxAgeDays,
		Console:    console,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	app.Logger = log
	app.closers = append(app.closers, closeLog)

	kv, err := store.Open(store.Config{
		Driver:    s.Store.Driver,
		Path:      s.Store.Path,
		RedisAddr: s.Store.RedisAddr,
		RedisDB:   s.Store.RedisDB,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	app.closers = append(app.closers, kv.Close)

	app.Metrics = metrics.New()

	fetcher := feed.NewFetcher(feed.Config{
		ProxyURL:     s.Proxy.BaseURL,
		ProxyAPIKey:  s.Proxy.APIKey,
		DisableProxy: !s.Proxy.Enabled,
		Timeout:      s.Timeout(),
		UserAgent:    s.Fetch.UserAgent,
	}, log, app.Metrics)

	repo := store.NewSubscriptions(kv)
	if s.Store.Key != "" {
		repo.Key = s.Store.Key
	}
	app.Subscriptions = usecase.NewSubscriptionService(repo, fetcher, log)

	agg := usecase.NewAggregationService(fetcher, log)
	agg.Concurrency = s.Fetch.Concurrency
	if s.Display.DefaultColor != "" {
		agg.DefaultColor = s.Display.DefaultColor
	}
	agg.Location = loc
	agg.Recorder = app.Metrics
	app.Aggregation = agg

	log.Debug("app ready",
		zap.String("config", cfgStore.Path()),
		zap.String("store", s.Store.Driver),
		zap.Bool("proxy", s.Proxy.Enabled),
	)
	return app, nil
}

// Close releases the store and flushes the logger, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
