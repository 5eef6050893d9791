// Package reading defines core reading models.
package reading

import "time"

// MaxItemsPerFeed caps how many normalized items a single feed contributes to a pass.
const MaxItemsPerFeed = 10

// Item represents a single normalized feed entry.
type Item struct {
	Title       string
	Link        string
	PublishedAt time.Time
	ImageURL    string
}

// FeedResult is the outcome of fetching one feed.
type FeedResult struct {
	Title string
	Link  string
	Items []Item
}

// Card is an Item enriched with the owning subscription and its time bucket.
type Card struct {
	Item
	FeedTitle string
	FeedURL   string
	Color     string
	Category  string
	Paywall   bool
	Bucket    Bucket
}
