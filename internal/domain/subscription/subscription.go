// Package subscription defines feed subscription models.
package subscription

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultColor is the accent used when a subscription has none.
const DefaultColor = "#dfdfdf"

// UncategorisedLabel is shown for subscriptions with an empty category.
const UncategorisedLabel = "Uncategorised"

var (
	// ErrDuplicate is returned when a URL is already subscribed.
	ErrDuplicate = errors.New("feed is already subscribed")
	// ErrNotFound is returned when no subscription has the given URL.
	ErrNotFound = errors.New("feed is not subscribed")
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Subscription represents a single feed subscription.
type Subscription struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Website  string `json:"website,omitempty"`
	Category string `json:"category"`
	Color    string `json:"color,omitempty"`
	Paywall  bool   `json:"paywall"`
}

// Homepage returns the website, falling back to the feed URL.
func (s Subscription) Homepage() string {
	if s.Website != "" {
		return s.Website
	}
	return s.URL
}

// Accent returns the display color, falling back to DefaultColor.
func (s Subscription) Accent() string {
	if s.Color != "" {
		return s.Color
	}
	return DefaultColor
}

// CategoryLabel returns the category, or UncategorisedLabel when empty.
func (s Subscription) CategoryLabel() string {
	if strings.TrimSpace(s.Category) == "" {
		return UncategorisedLabel
	}
	return s.Category
}

// NormalizeURL trims and validates a user-supplied feed URL.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("feed url is empty")
	}
	if strings.ContainsAny(trimmed, " \t\r\n") {
		return "", errors.New("feed url contains whitespace")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid feed url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported feed url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("feed url has no host")
	}
	return trimmed, nil
}

// ValidColor reports whether c is a #rgb or #rrggbb color.
func ValidColor(c string) bool {
	return hexColor.MatchString(c)
}

// Index returns the position of the subscription with the given URL, or -1.
func Index(subs []Subscription, feedURL string) int {
	for i, s := range subs {
		if s.URL == feedURL {
			return i
		}
	}
	return -1
}
