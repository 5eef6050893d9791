// Package xmltree converts XML documents into a generic tree of nodes.
//
// Repeated sibling elements collapse into a Sequence while a single
// occurrence stays a lone value, so consumers must accept both; Items
// does that normalization.
package xmltree

import "strings"

const (
	// AttributesKey holds an element's attributes inside its Mapping.
	AttributesKey = "@attributes"
	// TextKey holds an element's character data inside its Mapping.
	TextKey = "#text"
)

// Node is one of Scalar, Sequence or *Mapping.
type Node interface {
	node()
}

// Scalar is trimmed character data or an attribute value.
type Scalar string

// Sequence collects repeated values under one key.
type Sequence []Node

// Mapping is an ordered set of keyed nodes.
type Mapping struct {
	keys   []string
	values map[string]Node
}

func (Scalar) node()   {}
func (Sequence) node() {}
func (*Mapping) node() {}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Node)}
}

// Get returns the node stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	if m == nil {
		return nil, false
	}
	n, ok := m.values[key]
	return n, ok
}

// Keys returns keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Set stores n under key, replacing any previous value.
func (m *Mapping) Set(key string, n Node) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = n
}

// Merge stores n under key; a repeated key is promoted to a Sequence.
func (m *Mapping) Merge(key string, n Node) {
	existing, ok := m.values[key]
	if !ok {
		m.Set(key, n)
		return
	}
	if seq, isSeq := existing.(Sequence); isSeq {
		m.values[key] = append(seq, n)
		return
	}
	m.values[key] = Sequence{existing, n}
}

// Child returns the first element stored under name as a Mapping.
func (m *Mapping) Child(name string) (*Mapping, bool) {
	n, ok := m.Get(name)
	if !ok {
		return nil, false
	}
	for _, item := range Items(n) {
		if child, isMap := item.(*Mapping); isMap {
			return child, true
		}
	}
	return nil, false
}

// Attr returns the attribute with the given qualified name.
func (m *Mapping) Attr(name string) (string, bool) {
	attrs, ok := m.Get(AttributesKey)
	if !ok {
		return "", false
	}
	am, ok := attrs.(*Mapping)
	if !ok {
		return "", false
	}
	v, ok := am.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(Scalar)
	return string(s), ok
}

// ChildText returns the text of the first element stored under name.
func (m *Mapping) ChildText(name string) (string, bool) {
	n, ok := m.Get(name)
	if !ok {
		return "", false
	}
	items := Items(n)
	if len(items) == 0 {
		return "", false
	}
	return Text(items[0])
}

// Items returns n as a slice: a Sequence as-is, any other node as one element.
func Items(n Node) []Node {
	switch v := n.(type) {
	case nil:
		return nil
	case Sequence:
		return v
	default:
		return []Node{v}
	}
}

// Text returns the character data carried by n.
// Split text runs of one element are joined with a single space.
func Text(n Node) (string, bool) {
	switch v := n.(type) {
	case Scalar:
		return string(v), true
	case *Mapping:
		t, ok := v.Get(TextKey)
		if !ok {
			return "", false
		}
		return Text(t)
	case Sequence:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(Scalar); ok {
				parts = append(parts, string(s))
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, " "), true
	}
	return "", false
}
