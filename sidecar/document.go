package sidecar

import (
	"github.com/miosa/osa-scroll/scroller"
)

// RowSpec is one child of the host's scroll container as reported by
// set_rows. A nil OffsetTop lays the child out directly below the previous
// one.
type RowSpec struct {
	Tag       string            `json:"tag"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	OffsetTop *int              `json:"offsetTop,omitempty"`
	Height    int               `json:"height"`
}

type node struct {
	tag    string
	attrs  map[string]string
	top    int
	height int
}

func (n *node) Tag() string { return n.tag }

func (n *node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// document mirrors the host container. It is the scroller's Container and
// Geometry; scroll writes are forwarded to the host through emit.
type document struct {
	nodes     []*node
	scrollTop int

	listeners map[int]func(int)
	nextID    int

	emit func(top int)
}

func newDocument(emit func(top int)) *document {
	return &document{listeners: make(map[int]func(int)), emit: emit}
}

func (d *document) setRows(specs []RowSpec) {
	nodes := make([]*node, len(specs))
	next := 0
	for i, s := range specs {
		top := next
		if s.OffsetTop != nil {
			top = *s.OffsetTop
		}
		nodes[i] = &node{tag: s.Tag, attrs: s.Attrs, top: top, height: max(s.Height, 0)}
		next = top + nodes[i].height
	}
	d.nodes = nodes
}

// scrolled records a scroll event from the host.
func (d *document) scrolled(top int) {
	d.scrollTop = top
	for _, fn := range d.listeners {
		fn(top)
	}
}

func (d *document) Children() []scroller.Node {
	out := make([]scroller.Node, len(d.nodes))
	for i, n := range d.nodes {
		out[i] = n
	}
	return out
}

// SetScrollTop asks the host to scroll and assumes it complied. The host's
// own scroll event, if it clamps, corrects the tracked position.
func (d *document) SetScrollTop(top int) {
	if d.emit != nil {
		d.emit(top)
	}
	d.scrolled(top)
}

func (d *document) OnScroll(fn func(int)) func() {
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	return func() { delete(d.listeners, id) }
}

func (d *document) OffsetTop(n scroller.Node) int {
	if nd, ok := n.(*node); ok {
		return nd.top
	}
	return 0
}

func (d *document) Height(n scroller.Node) int {
	if nd, ok := n.(*node); ok {
		return nd.height
	}
	return 0
}
