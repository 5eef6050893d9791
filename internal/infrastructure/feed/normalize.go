package feed

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"github.com/tesso57/headlines/internal/domain/reading"
)

// entry is the shape both fetch paths reduce an item to before normalization.
type entry struct {
	Title     string
	Link      string
	Date      string
	Parsed    time.Time
	Enclosure string
	Thumbnail string
}

// normalize converts the first reading.MaxItemsPerFeed entries into items.
func (f *Fetcher) normalize(entries []entry) []reading.Item {
	n := min(len(entries), reading.MaxItemsPerFeed)
	items := make([]reading.Item, 0, n)
	for _, e := range entries[:n] {
		published := e.Parsed
		if published.IsZero() && e.Date != "" {
			t, err := ParseDate(e.Date)
			if err != nil {
				f.logger.Debug("unparseable item date", zap.String("date", e.Date), zap.Error(err))
			}
			published = t
		}

		image := strings.TrimSpace(e.Enclosure)
		if image == "" {
			image = strings.TrimSpace(e.Thumbnail)
		}

		items = append(items, reading.Item{
			Title:       strings.TrimSpace(e.Title),
			Link:        strings.TrimSpace(e.Link),
			PublishedAt: published,
			ImageURL:    image,
		})
	}
	return items
}

// rfc822Zones maps the named zones RFC 822 allows to numeric offsets.
var rfc822Zones = []struct{ name, offset string }{
	{"UT", "+0000"},
	{"GMT", "+0000"},
	{"EST", "-0500"},
	{"EDT", "-0400"},
	{"CST", "-0600"},
	{"CDT", "-0500"},
	{"MST", "-0700"},
	{"MDT", "-0600"},
	{"PST", "-0800"},
	{"PDT", "-0700"},
}

// ParseDate parses feed date text in any common layout.
// Dates without a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	return dateparse.ParseIn(numericZone(strings.TrimSpace(s)), time.UTC)
}

// numericZone rewrites a trailing RFC 822 zone name as its offset.
func numericZone(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return s
	}
	last := fields[len(fields)-1]
	for _, z := range rfc822Zones {
		if strings.EqualFold(last, z.name) {
			fields[len(fields)-1] = z.offset
			return strings.Join(fields, " ")
		}
	}
	return s
}

func firstImage(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}
