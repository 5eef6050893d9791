package feed

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/tesso57/headlines/internal/domain/reading"
	"github.com/tesso57/headlines/internal/infrastructure/xmltree"
)

func (f *Fetcher) fetchStructural(ctx context.Context, url string) (reading.FeedResult, error) {
	body, err := f.get(ctx, PathStructural, url, url)
	if err != nil {
		return reading.FeedResult{}, err
	}

	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
		return f.parseUniversal(url, body)
	}

	doc, err := xmltree.Parse(bytes.NewReader(body))
	if err != nil {
		return reading.FeedResult{}, decodeError(PathStructural, url, err)
	}

	switch doc.Root {
	case "rss", "rdf:RDF":
		return f.mapChannel(url, doc)
	default:
		return f.parseUniversal(url, body)
	}
}

// mapChannel maps an RSS 0.9x/1.0/2.0 tree.
func (f *Fetcher) mapChannel(url string, doc *xmltree.Document) (reading.FeedResult, error) {
	channel, ok := doc.Body.Child("channel")
	if !ok {
		return reading.FeedResult{}, shapeError(PathStructural, url, errors.New("missing channel"))
	}

	raw, ok := channel.Get("item")
	if !ok && doc.Root == "rdf:RDF" {
		// RSS 1.0 keeps items beside the channel.
		raw, ok = doc.Body.Get("item")
	}
	if !ok {
		return reading.FeedResult{}, shapeError(PathStructural, url, errors.New("missing channel.item"))
	}

	nodes := xmltree.Items(raw)
	entries := make([]entry, 0, len(nodes))
	for _, n := range nodes {
		item, isMap := n.(*xmltree.Mapping)
		if !isMap {
			return reading.FeedResult{}, shapeError(PathStructural, url, errors.New("channel.item is not an element"))
		}
		entries = append(entries, channelEntry(item))
	}

	title, _ := channel.ChildText("title")
	link, _ := channel.ChildText("link")
	return reading.FeedResult{
		Title: title,
		Link:  link,
		Items: f.normalize(entries),
	}, nil
}

func channelEntry(item *xmltree.Mapping) entry {
	e := entry{}
	e.Title, _ = item.ChildText("title")
	e.Link, _ = item.ChildText("link")
	if e.Link == "" {
		if guid, ok := item.Child("guid"); ok {
			permalink, _ := guid.Attr("isPermaLink")
			text, _ := xmltree.Text(guid)
			if permalink != "false" && strings.HasPrefix(text, "http") {
				e.Link = text
			}
		}
	}

	if date, ok := item.ChildText("pubDate"); ok {
		e.Date = date
	} else {
		e.Date, _ = item.ChildText("dc:date")
	}

	if thumb, ok := item.Child("media:thumbnail"); ok {
		e.Thumbnail, _ = thumb.Attr("url")
	}
	if media, ok := item.Child("media:content"); ok {
		e.Enclosure, _ = media.Attr("url")
		if thumb, ok := media.Child("media:thumbnail"); ok && e.Thumbnail == "" {
			e.Thumbnail, _ = thumb.Attr("url")
		}
	}
	if e.Enclosure == "" {
		if enc, ok := item.Child("enclosure"); ok {
			typ, _ := enc.Attr("type")
			if typ == "" || strings.HasPrefix(typ, "image/") {
				e.Enclosure, _ = enc.Attr("url")
			}
		}
	}
	if e.Thumbnail == "" {
		if desc, ok := item.ChildText("description"); ok {
			e.Thumbnail = firstImage(desc)
		}
	}
	return e
}

// parseUniversal handles Atom and JSON Feed documents.
func (f *Fetcher) parseUniversal(url string, body []byte) (reading.FeedResult, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return reading.FeedResult{}, decodeError(PathStructural, url, err)
	}

	entries := make([]entry, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil {
			continue
		}
		e := entry{Title: it.Title, Link: it.Link, Date: it.Published}
		switch {
		case it.PublishedParsed != nil:
			e.Parsed = *it.PublishedParsed
		case it.UpdatedParsed != nil:
			e.Parsed = *it.UpdatedParsed
		case e.Date == "":
			e.Date = it.Updated
		}
		for _, enc := range it.Enclosures {
			if enc != nil && (enc.Type == "" || strings.HasPrefix(enc.Type, "image/")) {
				e.Enclosure = enc.URL
				break
			}
		}
		if it.Image != nil {
			e.Thumbnail = it.Image.URL
		}
		if e.Thumbnail == "" {
			e.Thumbnail = firstImage(it.Description)
		}
		entries = append(entries, e)
	}

	return reading.FeedResult{
		Title: parsed.Title,
		Link:  parsed.Link,
		Items: f.normalize(entries),
	}, nil
}
