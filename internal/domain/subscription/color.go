package subscription

import "strings"

type colorRule struct {
	match string
	color string
}

// colorRules is scanned in order; more specific matches come first.
var colorRules = []colorRule{
	{match: "bbc.co.uk/sport", color: "#ffd230"},
	{match: "bbc.co.uk", color: "#b80000"},
	{match: "ft.com", color: "#fff1e5"},
	{match: "google.com", color: "#4285f4"},
	{match: "livemint.com", color: "#f99d1c"},
	{match: "nytimes.com", color: "#000000"},
	{match: "reddit.com", color: "#d93900"},
	{match: "theguardian.com", color: "#052962"},
}

// ColorFor returns the accent for the first rule contained in site, ignoring case.
func ColorFor(site string) (string, bool) {
	lower := strings.ToLower(site)
	if lower == "" {
		return "", false
	}
	for _, r := range colorRules {
		if strings.Contains(lower, r.match) {
			return r.color, true
		}
	}
	return "", false
}
