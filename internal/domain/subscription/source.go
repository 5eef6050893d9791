package subscription

import (
	"errors"
	"net/url"
	"strings"
)

const (
	googleNewsSearchURL = "https://news.google.com/rss/search"
	redditBaseURL       = "https://www.reddit.com/r/"
)

// GoogleNewsURL builds a news search feed URL for a keyword.
func GoogleNewsURL(keyword string) (string, error) {
	keyword = strings.Join(strings.Fields(keyword), " ")
	if keyword == "" {
		return "", errors.New("search keyword is empty")
	}
	// QueryEscape encodes spaces as '+'.
	return googleNewsSearchURL + "?q=" + url.QueryEscape(keyword) + "&hl=en-US&gl=US&ceid=US:en", nil
}

// RedditURL builds a search feed URL for a community.
func RedditURL(community string) (string, error) {
	name := strings.TrimSpace(community)
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimPrefix(name, "r/")
	if name == "" || strings.ContainsAny(name, " /?#&") {
		return "", errors.New("invalid community name")
	}
	escaped := url.PathEscape(name)
	return redditBaseURL + escaped + "/search.rss?q=" + url.QueryEscape(name) +
		"&restrict_sr=on&type=link&limit=20&sort=hot", nil
}
