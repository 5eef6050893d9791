package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"

	"github.com/tesso57/headlines/internal/domain/reading"
)

type proxyResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Feed    proxyFeed   `json:"feed"`
	Items   []proxyItem `json:"items"`
}

type proxyFeed struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

type proxyItem struct {
	Title     string         `json:"title"`
	Link      string         `json:"link"`
	PubDate   string         `json:"pubDate"`
	Thumbnail string         `json:"thumbnail"`
	Enclosure proxyEnclosure `json:"enclosure"`
}

type proxyEnclosure struct {
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
}

// UnmarshalJSON accepts the object form and ignores the empty array the bridge
// sends for items without an enclosure.
func (e *proxyEnclosure) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*e = proxyEnclosure{}
		return nil
	}
	type plain proxyEnclosure
	return json.Unmarshal(trimmed, (*plain)(e))
}

func (f *Fetcher) proxyTarget(feedURL string) (string, error) {
	base, err := url.Parse(f.cfg.ProxyURL)
	if err != nil {
		return "", fmt.Errorf("proxy url: %w", err)
	}
	q := base.Query()
	q.Set("rss_url", feedURL)
	if f.cfg.ProxyAPIKey != "" {
		q.Set("api_key", f.cfg.ProxyAPIKey)
	}
	base.RawQuery = q.Encode()
	return base.String(), nil
}

func (f *Fetcher) fetchProxy(ctx context.Context, feedURL string) (reading.FeedResult, error) {
	target, err := f.proxyTarget(feedURL)
	if err != nil {
		return reading.FeedResult{}, err
	}

	body, err := f.get(ctx, PathProxy, feedURL, target)
	if err != nil {
		return reading.FeedResult{}, err
	}

	var resp proxyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return reading.FeedResult{}, decodeError(PathProxy, feedURL, err)
	}
	if resp.Status != "" && resp.Status != "ok" {
		return reading.FeedResult{}, shapeError(PathProxy, feedURL, fmt.Errorf("proxy status %q: %s", resp.Status, resp.Message))
	}

	entries := make([]entry, 0, len(resp.Items))
	for _, it := range resp.Items {
		thumb := it.Enclosure.Thumbnail
		if thumb == "" {
			thumb = it.Thumbnail
		}
		entries = append(entries, entry{
			Title:     html.UnescapeString(it.Title),
			Link:      it.Link,
			Date:      it.PubDate,
			Enclosure: it.Enclosure.Link,
			Thumbnail: thumb,
		})
	}

	return reading.FeedResult{
		Title: html.UnescapeString(resp.Feed.Title),
		Link:  resp.Feed.Link,
		Items: f.normalize(entries),
	}, nil
}
