package scroller

// ---------------------------------------------------------------------------
// Fakes shared by the package tests
// ---------------------------------------------------------------------------

type fakeNode struct {
	tag    string
	attrs  map[string]string
	top    int
	height int
}

func (n *fakeNode) Tag() string { return n.tag }

func (n *fakeNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func row(height int) *fakeNode {
	return &fakeNode{tag: "div", attrs: map[string]string{DefaultRowMarker: "true"}, height: height}
}

func wrapper(height int) *fakeNode {
	return &fakeNode{tag: "div", height: height}
}

// fakeContainer lays its children out top to bottom and fires scroll
// listeners synchronously, like a browser element with no clamping.
type fakeContainer struct {
	children  []*fakeNode
	scrollTop int
	listeners map[int]func(int)
	nextID    int
	sets      []int
}

func newContainer(nodes ...*fakeNode) *fakeContainer {
	c := &fakeContainer{listeners: make(map[int]func(int))}
	c.setChildren(nodes...)
	return c
}

func rowsOf(heights ...int) []*fakeNode {
	nodes := make([]*fakeNode, len(heights))
	for i, h := range heights {
		nodes[i] = row(h)
	}
	return nodes
}

func (c *fakeContainer) setChildren(nodes ...*fakeNode) {
	c.children = nodes
	top := 0
	for _, n := range nodes {
		n.top = top
		top += n.height
	}
}

func (c *fakeContainer) removeFirst(n int) {
	c.setChildren(c.children[n:]...)
}

func (c *fakeContainer) Children() []Node {
	out := make([]Node, len(c.children))
	for i, n := range c.children {
		out[i] = n
	}
	return out
}

func (c *fakeContainer) SetScrollTop(top int) {
	c.sets = append(c.sets, top)
	c.scroll(top)
}

func (c *fakeContainer) scroll(top int) {
	c.scrollTop = top
	for _, fn := range c.listeners {
		fn(top)
	}
}

func (c *fakeContainer) OnScroll(fn func(int)) func() {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

func (c *fakeContainer) OffsetTop(n Node) int { return n.(*fakeNode).top }
func (c *fakeContainer) Height(n Node) int    { return n.(*fakeNode).height }
