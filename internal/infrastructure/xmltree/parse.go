package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Document is a parsed XML document.
type Document struct {
	// Root is the qualified name of the document element, e.g. "rss" or "rdf:RDF".
	Root string
	Body *Mapping
}

type frame struct {
	name string
	body *Mapping
}

// Parse reads one XML document and converts its document element.
// Qualified names keep their prefix as written, so "media:content" stays "media:content".
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	var (
		stack []frame
		doc   *Document
	)
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if doc != nil && len(stack) == 0 {
				return nil, errors.New("xml: content after document element")
			}
			stack = append(stack, frame{name: qualified(t.Name), body: element(t.Attr)})
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("xml: unexpected end element </%s>", qualified(t.Name))
			}
			top := stack[len(stack)-1]
			if name := qualified(t.Name); name != top.name {
				return nil, fmt.Errorf("xml: element <%s> closed by </%s>", top.name, name)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				doc = &Document{Root: top.name, Body: top.body}
				continue
			}
			stack[len(stack)-1].body.Merge(top.name, top.body)
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			if text := strings.TrimSpace(string(t)); text != "" {
				stack[len(stack)-1].body.Merge(TextKey, Scalar(text))
			}
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("xml: unclosed element <%s>", stack[len(stack)-1].name)
	}
	if doc == nil {
		return nil, errors.New("xml: no document element")
	}
	return doc, nil
}

func element(attrs []xml.Attr) *Mapping {
	m := NewMapping()
	if len(attrs) == 0 {
		return m
	}
	am := NewMapping()
	for _, a := range attrs {
		am.Set(qualified(a.Name), Scalar(a.Value))
	}
	m.Set(AttributesKey, am)
	return m
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
