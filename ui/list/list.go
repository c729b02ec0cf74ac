// Package list provides a lazy-rendered scroll container for osa-scroll.
// Rows are addressed by an absolute line offset, the terminal analogue of an
// element's scrollTop, and the list exposes per-row geometry so that a
// scroller.Scroller can measure the rows above the viewport and correct the
// offset after a page shift.
//
// Key properties:
//   - Per-item height and content cache, invalidated on width or
//     content-version changes.
//   - The offset is clamped to [0, total-height]; every change is reported
//     to scroll listeners, the way an element fires scroll events.
//   - Removing rows from the top never moves the offset, not even past the
//     new end; the next scroll clamps it. Prepending moves it down by the
//     inserted height so visible content stays put.
//   - A row's geometric height includes the gap lines below it, so the
//     heights of consecutive rows add up to the distance they span.
//   - Only the lines inside the viewport are rendered on each View() call.
//   - Gap lines between items are configurable and factored into all
//     geometry.
package list

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/miosa/osa-scroll/scroller"
)

// ---------------------------------------------------------------------------
// Public interfaces
// ---------------------------------------------------------------------------

// Item is anything the list can render.
type Item interface {
	// ID returns a unique, stable identifier used for cache keying and
	// geometry lookups.
	ID() string

	// ContentVersion returns a monotonically increasing integer. When this
	// value changes the cached render for this item is discarded.
	ContentVersion() int

	// Height returns the rendered height in terminal lines for the given
	// width. It must agree with the line count of Render(width).
	Height(width int) int

	// Render returns the rendered string for the given width.
	Render(width int) string
}

// Tagged items report an element tag name.
type Tagged interface {
	Tag() string
}

// Marked items expose attributes, such as the row marker.
type Marked interface {
	Attr(name string) (string, bool)
}

// MouseClickable items can handle click events.
type MouseClickable interface {
	HandleClick(x, y int) tea.Cmd
}

// DefaultTag is reported for items that do not implement Tagged.
const DefaultTag = "div"

// wheelLines is how far one mouse wheel notch scrolls.
const wheelLines = 3

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Option is a functional option for New.
type Option func(*Model)

// WithWidth sets the initial viewport width.
func WithWidth(w int) Option {
	return func(m *Model) { m.width = w }
}

// WithHeight sets the initial viewport height (number of terminal lines
// visible at once).
func WithHeight(h int) Option {
	return func(m *Model) { m.height = h }
}

// WithGap sets the number of blank lines inserted between consecutive items.
func WithGap(g int) Option {
	return func(m *Model) {
		if g >= 0 {
			m.gap = g
		}
	}
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type cachedRender struct {
	content string
	height  int
	width   int
	version int
}

// position is the laid-out extent of one item.
type position struct {
	start  int
	height int
}

// Model is the scroll container. It satisfies scroller.Container and
// scroller.Geometry. The zero value is not usable; construct with New.
type Model struct {
	items  []Item
	width  int
	height int
	gap    int

	// offset is the first visible line, counted from the top of the content.
	offset int

	positions   []position
	index       map[string]int
	totalHeight int

	cache map[string]cachedRender

	listeners    map[int]func(int)
	nextListener int
}

// New constructs a Model with the supplied options.
func New(opts ...Option) *Model {
	m := &Model{
		cache:     make(map[string]cachedRender),
		listeners: make(map[int]func(int)),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// SetSize updates the viewport dimensions. The cache is invalidated when
// width changes because every item must be re-rendered at the new width.
func (m *Model) SetSize(w, h int) {
	if w != m.width {
		m.cache = make(map[string]cachedRender)
	}
	m.width = w
	m.height = h
	m.layout()
	m.clamp()
}

// SetGap updates the number of blank lines between items.
func (m *Model) SetGap(n int) {
	if n >= 0 {
		m.gap = n
		m.layout()
		m.clamp()
	}
}

// SetItems replaces the item slice wholesale. The cache is preserved: items
// whose ID+version are unchanged are not re-rendered.
func (m *Model) SetItems(items []Item) {
	m.items = append([]Item(nil), items...)
	m.layout()
	m.clamp()
}

// AppendItems adds items to the end of the list.
func (m *Model) AppendItems(items ...Item) {
	if len(items) == 0 {
		return
	}
	m.items = append(m.items, items...)
	m.layout()
	m.clamp()
}

// PrependItems inserts items at the beginning of the list and moves the
// offset down by the inserted height so the visible content stays where it
// was.
func (m *Model) PrependItems(items ...Item) {
	if len(items) == 0 {
		return
	}
	before := m.totalHeight
	m.items = append(append([]Item(nil), items...), m.items...)
	m.layout()
	m.setOffset(m.offset + m.totalHeight - before)
}

// RemoveFirst drops the first n items. The offset is left exactly where it
// was and no scroll is reported, even when it now lies past the end:
// compensating for the lost height is the scroller's job, and it needs the
// offset the reader saw. The next SetScrollTop brings it back in range.
func (m *Model) RemoveFirst(n int) []Item {
	n = min(max(n, 0), len(m.items))
	removed := append([]Item(nil), m.items[:n]...)
	m.items = m.items[n:]
	m.forget(removed)
	m.layout()
	return removed
}

// RemoveLast drops the last n items.
func (m *Model) RemoveLast(n int) []Item {
	n = min(max(n, 0), len(m.items))
	cut := len(m.items) - n
	removed := append([]Item(nil), m.items[cut:]...)
	m.items = m.items[:cut]
	m.forget(removed)
	m.layout()
	m.clamp()
	return removed
}

// UpdateItem replaces the item with the given id in-place and invalidates
// its cache entry. If the id is not found, the call is a no-op.
func (m *Model) UpdateItem(id string, item Item) {
	for i, existing := range m.items {
		if existing.ID() == id {
			m.items[i] = item
			delete(m.cache, id)
			m.layout()
			m.clamp()
			return
		}
	}
}

// Items returns the current items.
func (m *Model) Items() []Item { return m.items }

// Len returns the number of items.
func (m *Model) Len() int { return len(m.items) }

// TotalHeight returns the content height including gaps.
func (m *Model) TotalHeight() int { return m.totalHeight }

// ViewportHeight returns the number of visible lines.
func (m *Model) ViewportHeight() int { return m.height }

// Width returns the viewport width.
func (m *Model) Width() int { return m.width }

// ---------------------------------------------------------------------------
// Scroll
// ---------------------------------------------------------------------------

// ScrollTop returns the first visible line.
func (m *Model) ScrollTop() int { return m.offset }

// SetScrollTop moves the offset, clamped to the scrollable range.
func (m *Model) SetScrollTop(top int) { m.setOffset(top) }

// OnScroll registers fn to be called with the new offset after every
// change and returns a function that removes it.
func (m *Model) OnScroll(fn func(top int)) func() {
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn
	return func() { delete(m.listeners, id) }
}

// ScrollDown moves the viewport down by lines.
func (m *Model) ScrollDown(lines int) {
	if lines > 0 {
		m.setOffset(m.offset + lines)
	}
}

// ScrollUp moves the viewport up by lines.
func (m *Model) ScrollUp(lines int) {
	if lines > 0 {
		m.setOffset(m.offset - lines)
	}
}

// PageDown scrolls down by one full viewport height.
func (m *Model) PageDown() { m.ScrollDown(m.height) }

// PageUp scrolls up by one full viewport height.
func (m *Model) PageUp() { m.ScrollUp(m.height) }

// HalfPageDown scrolls down by half the viewport height.
func (m *Model) HalfPageDown() { m.ScrollDown(m.height / 2) }

// HalfPageUp scrolls up by half the viewport height.
func (m *Model) HalfPageUp() { m.ScrollUp(m.height / 2) }

// ScrollToTop positions the viewport at the very first line.
func (m *Model) ScrollToTop() { m.setOffset(0) }

// ScrollToBottom positions the viewport so the last line is visible.
func (m *Model) ScrollToBottom() { m.setOffset(m.maxOffset()) }

// AtTop reports whether the first line is visible.
func (m *Model) AtTop() bool { return m.offset == 0 }

// AtBottom reports whether the last line is visible.
func (m *Model) AtBottom() bool { return m.offset >= m.maxOffset() }

// LinesBelow returns how many content lines lie under the viewport.
func (m *Model) LinesBelow() int {
	return max(m.totalHeight-m.offset-m.height, 0)
}

func (m *Model) maxOffset() int {
	return max(m.totalHeight-m.height, 0)
}

func (m *Model) setOffset(top int) {
	top = min(max(top, 0), m.maxOffset())
	if top == m.offset {
		return
	}
	m.offset = top
	for _, fn := range m.listeners {
		fn(top)
	}
}

// clamp re-applies the scroll bounds after the content or viewport changed.
func (m *Model) clamp() { m.setOffset(m.offset) }

// ---------------------------------------------------------------------------
// Position helpers
// ---------------------------------------------------------------------------

// ItemIndexAtPosition resolves a y coordinate (relative to the top of the
// viewport) to the index of the item rendered at that line. Returns -1 if
// the coordinate is out of range or falls on a gap line.
func (m *Model) ItemIndexAtPosition(y int) int {
	if y < 0 || y >= m.height || len(m.items) == 0 {
		return -1
	}
	line := m.offset + y
	for i, p := range m.positions {
		if line < p.start {
			return -1
		}
		if line < p.start+p.height {
			return i
		}
	}
	return -1
}

// VisibleItemIndices returns the indices of items currently in the viewport.
func (m *Model) VisibleItemIndices() []int {
	if m.height <= 0 {
		return nil
	}
	var result []int
	end := m.offset + m.height
	for i, p := range m.positions {
		if p.start >= end {
			break
		}
		if p.start+p.height > m.offset {
			result = append(result, i)
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Cache management
// ---------------------------------------------------------------------------

// InvalidateCache forces all cached renders to be discarded.
func (m *Model) InvalidateCache() {
	m.cache = make(map[string]cachedRender)
	m.layout()
	m.clamp()
}

func (m *Model) forget(items []Item) {
	for _, it := range items {
		delete(m.cache, it.ID())
	}
}

// ---------------------------------------------------------------------------
// Update (bubbletea)
// ---------------------------------------------------------------------------

// Update handles mouse wheel and click events. Callers forward whichever
// tea.Msg events they want the list to respond to.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.ScrollUp(wheelLines)
		case tea.MouseWheelDown:
			m.ScrollDown(wheelLines)
		}
	case tea.MouseClickMsg:
		idx := m.ItemIndexAtPosition(msg.Y)
		if idx >= 0 {
			if mc, ok := m.items[idx].(MouseClickable); ok {
				return mc.HandleClick(msg.X, msg.Y)
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the lines inside the viewport. Items outside it are skipped
// entirely.
func (m *Model) View() string {
	if m.height <= 0 || m.width <= 0 || len(m.items) == 0 {
		return ""
	}

	lines := make([]string, 0, m.height)
	end := m.offset + m.height
	line := m.offset

	for i, p := range m.positions {
		if line >= end {
			break
		}
		// Gap lines before this item.
		for line < p.start && line < end {
			lines = append(lines, "")
			line++
		}
		if p.start+p.height <= line {
			continue
		}
		itemLines := splitLines(m.renderItem(m.items[i]))
		from := line - p.start
		for j := from; j < p.height && line < end; j++ {
			if j < len(itemLines) {
				lines = append(lines, itemLines[j])
			} else {
				lines = append(lines, "")
			}
			line++
		}
	}

	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Geometry
// ---------------------------------------------------------------------------

// child adapts an Item to scroller.Node.
type child struct {
	item Item
}

func (c child) Tag() string {
	if t, ok := c.item.(Tagged); ok {
		return t.Tag()
	}
	return DefaultTag
}

func (c child) Attr(name string) (string, bool) {
	if mk, ok := c.item.(Marked); ok {
		return mk.Attr(name)
	}
	return "", false
}

// Children returns every item as a scroller.Node, in display order.
func (m *Model) Children() []scroller.Node {
	out := make([]scroller.Node, len(m.items))
	for i, it := range m.items {
		out[i] = child{item: it}
	}
	return out
}

// OffsetTop returns the first line of n measured from the top of the
// content, or 0 if n is not in the list.
func (m *Model) OffsetTop(n scroller.Node) int {
	if i, ok := m.lookup(n); ok {
		return m.positions[i].start
	}
	return 0
}

// Height returns the extent of n: its rendered lines plus the gap below it.
// The last item has no gap. Returns 0 if n is not in the list.
func (m *Model) Height(n scroller.Node) int {
	i, ok := m.lookup(n)
	if !ok {
		return 0
	}
	h := m.positions[i].height
	if i < len(m.items)-1 {
		h += m.gap
	}
	return h
}

func (m *Model) lookup(n scroller.Node) (int, bool) {
	c, ok := n.(child)
	if !ok {
		return 0, false
	}
	i, ok := m.index[c.item.ID()]
	return i, ok
}

// layout recomputes every item's extent from scratch.
func (m *Model) layout() {
	if cap(m.positions) < len(m.items) {
		m.positions = make([]position, len(m.items))
	}
	m.positions = m.positions[:len(m.items)]
	m.index = make(map[string]int, len(m.items))

	top := 0
	for i, item := range m.items {
		h := m.itemHeight(item)
		m.positions[i] = position{start: top, height: h}
		m.index[item.ID()] = i
		top += h
		if i < len(m.items)-1 {
			top += m.gap
		}
	}
	m.totalHeight = top
}

// itemHeight returns the height of an item for the current width.
//
// It uses the cached render height when the cache entry is valid (same width
// and ContentVersion). Otherwise it asks the item directly, so that layout
// never pre-populates the render cache; only View does.
func (m *Model) itemHeight(item Item) int {
	if m.width <= 0 {
		return 1
	}
	if cr, ok := m.cache[item.ID()]; ok {
		if cr.width == m.width && cr.version == item.ContentVersion() {
			return cr.height
		}
	}
	return max(item.Height(m.width), 1)
}

// renderItem returns the cached or freshly rendered content for an item.
func (m *Model) renderItem(item Item) string {
	id := item.ID()
	ver := item.ContentVersion()
	if cr, ok := m.cache[id]; ok {
		if cr.width == m.width && cr.version == ver {
			return cr.content
		}
	}
	rendered := item.Render(m.width)
	m.cache[id] = cachedRender{
		content: rendered,
		height:  max(countLines(rendered), 1),
		width:   m.width,
		version: ver,
	}
	return rendered
}

// ---------------------------------------------------------------------------
// String helpers
// ---------------------------------------------------------------------------

// splitLines splits a rendered string into individual lines.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// countLines counts the number of rendered lines in a string (number of \n + 1).
func countLines(s string) int {
	if s == "" {
		return 1
	}
	return strings.Count(s, "\n") + 1
}

var (
	_ scroller.Container = (*Model)(nil)
	_ scroller.Geometry  = (*Model)(nil)
)
