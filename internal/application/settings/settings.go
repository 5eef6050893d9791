// Package settings defines application-level configuration data.
package settings

import (
	"fmt"
	"strings"
	"time"
)

// ProxyConfig configures the feed-to-JSON bridge.
type ProxyConfig struct {
	Enabled bool   `yaml:"enabled" kong:"help='Fetch through the JSON proxy first',default='true'"`
	BaseURL string `yaml:"base_url" kong:"help='Proxy endpoint',default='https://api.rss2json.com/v1/api.json'"`
	APIKey  string `yaml:"api_key" kong:"help='Proxy API key'"`
}

// FetchConfig configures feed retrieval.
type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds" kong:"help='Per-request timeout in seconds',default='10'"`
	Concurrency    int    `yaml:"concurrency" kong:"help='Feeds fetched at once (0 = unlimited)',default='8'"`
	UserAgent      string `yaml:"user_agent" kong:"help='HTTP User-Agent',default='headlines/1.0'"`
}

// StoreConfig selects the subscription backend.
type StoreConfig struct {
	Driver    string `yaml:"driver" kong:"help='Store driver (sqlite/redis)',default='sqlite',enum='sqlite,redis'"`
	Path      string `yaml:"path" kong:"help='SQLite database path'"`
	Key       string `yaml:"key" kong:"help='Key holding the subscription list',default='rssUrls'"`
	RedisAddr string `yaml:"redis_addr" kong:"help='Redis address',default='localhost:6379'"`
	RedisDB   int    `yaml:"redis_db" kong:"help='Redis database',default='0'"`
}

// LogConfig configures the application log.
type LogConfig struct {
	Level      string `yaml:"level" kong:"help='Log level (debug/info/warn/error)',default='info'"`
	File       string `yaml:"file" kong:"help='Log file path'"`
	MaxSizeMB  int    `yaml:"max_size_mb" kong:"help='Rotate after this many megabytes',default='10'"`
	MaxBackups int    `yaml:"max_backups" kong:"help='Rotated files to keep',default='3'"`
	MaxAgeDays int    `yaml:"max_age_days" kong:"help='Days to keep rotated files',default='28'"`
}

// DisplayConfig controls timeline presentation.
type DisplayConfig struct {
	Timezone     string `yaml:"timezone" kong:"help='IANA zone used for time buckets (empty = local)'"`
	DefaultColor string `yaml:"default_color" kong:"help='Accent for feeds without a color',default='#dfdfdf'"`
	Grouped      bool   `yaml:"grouped" kong:"help='Group the timeline by time bucket',default='true'"`
}

// KeyMapConfig defines the configuration for keybindings.
type KeyMapConfig struct {
	Up       string `yaml:"up" kong:"help='Up key',default='k'"`
	Down     string `yaml:"down" kong:"help='Down key',default='j'"`
	UpPage   string `yaml:"up_page" kong:"help='Page Up key',default='ctrl+u'"`
	DownPage string `yaml:"down_page" kong:"help='Page Down key',default='ctrl+d'"`
	Top      string `yaml:"top" kong:"help='Top key',default='home'"`
	Bottom   string `yaml:"bottom" kong:"help='Bottom key',default='G'"`
	Refresh  string `yaml:"refresh" kong:"help='Refresh key',default='r'"`
	Group    string `yaml:"group" kong:"help='Toggle grouping key',default='g'"`
	Quit     string `yaml:"quit" kong:"help='Quit key',default='q'"`
}

// Settings represents the application configuration.
type Settings struct {
	Proxy   ProxyConfig   `yaml:"proxy" kong:"embed,prefix='proxy.'"`
	Fetch   FetchConfig   `yaml:"fetch" kong:"embed,prefix='fetch.'"`
	Store   StoreConfig   `yaml:"store" kong:"embed,prefix='store.'"`
	Log     LogConfig     `yaml:"log" kong:"embed,prefix='log.'"`
	Display DisplayConfig `yaml:"display" kong:"embed,prefix='display.'"`
	KeyMap  KeyMapConfig  `yaml:"keymap" kong:"embed,prefix='keymap.'"`
}

// Timeout returns the fetch timeout, never less than one second.
func (s Settings) Timeout() time.Duration {
	if s.Fetch.TimeoutSeconds < 1 {
		return time.Second
	}
	return time.Duration(s.Fetch.TimeoutSeconds) * time.Second
}

// Location resolves display.timezone; empty means the local zone.
func (s Settings) Location() (*time.Location, error) {
	name := strings.TrimSpace(s.Display.Timezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("display.timezone: %w", err)
	}
	return loc, nil
}
