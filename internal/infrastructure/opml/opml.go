// Package opml exports subscriptions as an OPML 2.0 document.
package opml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/tesso57/headlines/internal/domain/subscription"
)

// DefaultFilename is the suggested export file name.
const DefaultFilename = "subscriptions.opml"

type document struct {
	XMLName xml.Name  `xml:"opml"`
	Version string    `xml:"version,attr"`
	Title   string    `xml:"head>title"`
	Outline []outline `xml:"body>outline"`
}

type outline struct {
	Type     string `xml:"type,attr"`
	Text     string `xml:"text,attr"`
	Title    string `xml:"title,attr"`
	XMLURL   string `xml:"xmlUrl,attr"`
	HTMLURL  string `xml:"htmlUrl,attr"`
	Category string `xml:"category,attr,omitempty"`
}

// Write encodes subs in stored order. Attribute values are XML-escaped.
func Write(w io.Writer, subs []subscription.Subscription) error {
	doc := document{Version: "2.0", Title: "RSS Feeds", Outline: make([]outline, 0, len(subs))}
	for _, s := range subs {
		title := s.Title
		if title == "" {
			title = s.URL
		}
		doc.Outline = append(doc.Outline, outline{
			Type:     "rss",
			Text:     title,
			Title:    title,
			XMLURL:   s.URL,
			HTMLURL:  s.Homepage(),
			Category: s.Category,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write opml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode opml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode opml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
