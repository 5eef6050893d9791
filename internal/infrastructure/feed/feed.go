// Package feed fetches feeds and normalizes them into reading models.
//
// A feed is fetched through a JSON proxy first. When that fails with a
// classified error the raw document is fetched and parsed directly.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tesso57/headlines/internal/domain/reading"
)

const (
	// DefaultProxyURL is the feed-to-JSON bridge used by the proxy path.
	DefaultProxyURL  = "https://api.rss2json.com/v1/api.json"
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "headlines/1.0"
	maxBodyBytes     = 10 << 20
)

// Recorder receives one observation per fetch attempt.
type Recorder interface {
	ObserveFetch(path Path, result string)
}

// Config controls both fetch paths.
type Config struct {
	ProxyURL     string
	ProxyAPIKey  string
	DisableProxy bool
	Timeout      time.Duration
	UserAgent    string
	// HTTPClient overrides the client built from Timeout and UserAgent.
	HTTPClient *http.Client
}

// Fetcher implements the usecase.FeedFetcher interface.
type Fetcher struct {
	cfg      Config
	client   *http.Client
	logger   *zap.Logger
	recorder Recorder
}

// NewFetcher constructs a Fetcher. logger and recorder may be nil.
func NewFetcher(cfg Config, logger *zap.Logger, recorder Recorder) *Fetcher {
	if cfg.ProxyURL == "" {
		cfg.ProxyURL = DefaultProxyURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Transport: acceptTransport{base: http.DefaultTransport, userAgent: cfg.UserAgent}}
	}

	return &Fetcher{
		cfg:      cfg,
		client:   client,
		logger:   logger.Named("feed"),
		recorder: recorder,
	}
}

// Fetch returns the normalized feed at url.
//
// The structural path is attempted only when the proxy path fails with a
// Recoverable error. When both fail the result is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (reading.FeedResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return reading.FeedResult{}, errors.New("feed url is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var proxyErr error
	if !f.cfg.DisableProxy {
		res, err := f.fetchProxy(ctx, url)
		f.observe(PathProxy, err)
		if err == nil {
			return res, nil
		}
		if !Recoverable(err) || ctx.Err() != nil {
			return reading.FeedResult{}, err
		}
		f.logger.Debug("proxy fetch failed, parsing feed directly", zap.String("url", url), zap.Error(err))
		proxyErr = err
	}

	res, err := f.fetchStructural(ctx, url)
	f.observe(PathStructural, err)
	if err != nil {
		return reading.FeedResult{}, &FetchError{URL: url, Proxy: proxyErr, Structural: err}
	}
	return res, nil
}

func (f *Fetcher) observe(path Path, err error) {
	if f.recorder == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		if kind, ok := KindOf(err); ok {
			result = string(kind)
		}
	}
	f.recorder.ObserveFetch(path, result)
}

// get performs a GET and returns the body of a 2xx response.
// The body is read before the status is inspected.
func (f *Fetcher) get(ctx context.Context, path Path, url, target string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s fetch new request: %w", path, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, networkError(path, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, networkError(path, url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Debug("non-2xx response",
			zap.String("path", string(path)),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(body)),
		)
		return nil, statusError(path, url, resp.StatusCode)
	}
	return body, nil
}
