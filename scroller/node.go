package scroller

import "strings"

// DefaultRowMarker is the attribute that marks a child as a measurable row.
const DefaultRowMarker = "data-scroll-row"

// Node is a direct child of the scroll container.
type Node interface {
	Tag() string
	Attr(name string) (string, bool)
}

// Matcher reports whether a child counts as a row.
type Matcher func(Node) bool

// MarkerAttr matches children that carry attr with a non-empty value.
// An empty value does not mark a row.
func MarkerAttr(attr string) Matcher {
	return func(n Node) bool {
		v, ok := n.Attr(attr)
		return ok && v != ""
	}
}

// TagName matches children by tag name, ignoring case.
func TagName(tag string) Matcher {
	return func(n Node) bool {
		return strings.EqualFold(n.Tag(), tag)
	}
}

// Rows filters children down to rows, preserving document order. Non-row
// children are dropped and do not take an index.
func Rows(children []Node, isRow Matcher) []Node {
	rows := make([]Node, 0, len(children))
	for _, c := range children {
		if c != nil && isRow(c) {
			rows = append(rows, c)
		}
	}
	return rows
}
