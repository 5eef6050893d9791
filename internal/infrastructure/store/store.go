// Package store persists the subscription collection in a key-value backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tesso57/headlines/internal/domain/subscription"
)

// DefaultKey is the key the subscription collection is stored under.
const DefaultKey = "rssUrls"

// ErrUnknownDriver is returned by Open for an unsupported backend name.
var ErrUnknownDriver = errors.New("unknown store driver")

// KV is the minimal key-value contract both backends satisfy.
// Get reports false when the key is absent.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver    string
	Path      string
	RedisAddr string
	RedisDB   int
}

// Open returns the backend named by cfg.Driver ("sqlite" when empty).
func Open(cfg Config) (KV, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return OpenSQLite(cfg.Path)
	case "redis":
		return OpenRedis(RedisConfig{Address: cfg.RedisAddr, DB: cfg.RedisDB})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}

// Subscriptions stores the whole collection as one JSON document.
type Subscriptions struct {
	KV  KV
	Key string
}

// NewSubscriptions constructs a Subscriptions over kv using DefaultKey.
func NewSubscriptions(kv KV) *Subscriptions {
	return &Subscriptions{KV: kv, Key: DefaultKey}
}

func (s *Subscriptions) key() string {
	if s.Key == "" {
		return DefaultKey
	}
	return s.Key
}

// Load returns the stored collection; an absent key yields an empty one.
func (s *Subscriptions) Load(ctx context.Context) ([]subscription.Subscription, error) {
	raw, ok, err := s.KV.Get(ctx, s.key())
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	if !ok || len(raw) == 0 {
		return []subscription.Subscription{}, nil
	}

	var subs []subscription.Subscription
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, fmt.Errorf("decode subscriptions: %w", err)
	}
	if subs == nil {
		subs = []subscription.Subscription{}
	}
	return subs, nil
}

// Save replaces the stored collection.
func (s *Subscriptions) Save(ctx context.Context, subs []subscription.Subscription) error {
	if subs == nil {
		subs = []subscription.Subscription{}
	}
	raw, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("encode subscriptions: %w", err)
	}
	if err := s.KV.Set(ctx, s.key(), raw); err != nil {
		return fmt.Errorf("save subscriptions: %w", err)
	}
	return nil
}
