package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/miosa/osa-scroll/markdown"
	"github.com/miosa/osa-scroll/scroller"
	"github.com/miosa/osa-scroll/ui/list"
)

// ErrBusy is returned while a page load is in flight.
var ErrBusy = errors.New("feed: page load in flight")

// Rows is the part of the scroll container the pager mutates.
type Rows interface {
	AppendItems(items ...list.Item)
	PrependItems(items ...list.Item)
	RemoveFirst(n int) []list.Item
	RemoveLast(n int) []list.Item
}

// Attributes receives the pager's signals. *scroller.Scroller satisfies it.
type Attributes interface {
	SetAttribute(name, value string)
}

type loadedPage struct {
	index int
	items int
	rows  int // marked rows
}

// Pager keeps at most MaxPages consecutive pages of a Source in a list.
// Loading past a full window drops the page at the other end.
//
// After every change it sets pageShiftSize to the row count of the first
// page in the window and toggles recalculate. Dropping the first page also
// sets shift to a downward payload; dropping the last sets an upward one.
// New pages are inserted before old ones are removed. Removing from the top
// does not move the container's offset, so the scroller compensates from the
// position the reader was looking at.
//
// Each page's rule and the gap lines below its rows belong to the rows'
// extent, so both strategies measure the full height a dropped page took.
type Pager struct {
	src    Source
	rows   Rows
	attrs  Attributes
	md     *markdown.Renderer
	marker string
	logger *slog.Logger

	size     int
	maxPages int

	pages   []loadedPage
	loading bool
	atEnd   bool
	seq     int64
	toggles int
}

// PagerOption configures a Pager.
type PagerOption func(*Pager)

// WithPageSize sets the entries per page. Default 20.
func WithPageSize(n int) PagerOption {
	return func(p *Pager) {
		if n > 0 {
			p.size = n
		}
	}
}

// WithMaxPages sets the window size in pages. Default 3.
func WithMaxPages(n int) PagerOption {
	return func(p *Pager) {
		if n > 0 {
			p.maxPages = n
		}
	}
}

// WithRenderer sets the markdown renderer used for row bodies.
func WithRenderer(r *markdown.Renderer) PagerOption {
	return func(p *Pager) { p.md = r }
}

// WithMarker sets the attribute rows are marked with. Default
// scroller.DefaultRowMarker.
func WithMarker(attr string) PagerOption {
	return func(p *Pager) {
		if attr != "" {
			p.marker = attr
		}
	}
}

// WithPagerLogger sets the logger.
func WithPagerLogger(l *slog.Logger) PagerOption {
	return func(p *Pager) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPager returns an empty pager over src.
func NewPager(src Source, rows Rows, attrs Attributes, opts ...PagerOption) *Pager {
	p := &Pager{
		src:      src,
		rows:     rows,
		attrs:    attrs,
		marker:   scroller.DefaultRowMarker,
		logger:   slog.New(slog.DiscardHandler),
		size:     20,
		maxPages: 3,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ---------------------------------------------------------------------------
// Asynchronous protocol: Request, Fetch, Apply
// ---------------------------------------------------------------------------

// Request reserves the next page load in dir and returns its index. It
// fails with ErrBusy while another load is in flight and with ErrExhausted
// when there is nothing more in that direction.
func (p *Pager) Request(dir scroller.Direction) (int, error) {
	if p.loading {
		return 0, ErrBusy
	}
	var index int
	switch dir {
	case scroller.Down:
		if p.atEnd {
			return 0, ErrExhausted
		}
		if len(p.pages) > 0 {
			index = p.pages[len(p.pages)-1].index + 1
		}
	case scroller.Up:
		if len(p.pages) == 0 || p.pages[0].index == 0 {
			return 0, ErrExhausted
		}
		index = p.pages[0].index - 1
	default:
		return 0, fmt.Errorf("unknown direction %q", dir)
	}
	p.loading = true
	return index, nil
}

// Fetch loads page index from the source. It touches no pager state and may
// run off the event loop.
func (p *Pager) Fetch(ctx context.Context, index int) ([]Entry, error) {
	return p.src.Page(ctx, index, p.size)
}

// Apply inserts a fetched page and releases the reservation made by
// Request. fetchErr is the error Fetch returned, if any.
func (p *Pager) Apply(dir scroller.Direction, index int, entries []Entry, fetchErr error) error {
	p.loading = false
	if fetchErr != nil {
		return fmt.Errorf("load %s page %d: %w", p.src.Name(), index, fetchErr)
	}
	if len(entries) == 0 {
		if dir == scroller.Down {
			p.atEnd = true
		}
		return ErrExhausted
	}

	items := p.itemsFor(index, entries)
	page := loadedPage{index: index, items: len(items), rows: markedCount(entries)}

	var dropped scroller.Direction
	if dir == scroller.Down {
		p.rows.AppendItems(items...)
		p.pages = append(p.pages, page)
		if len(p.pages) > p.maxPages {
			p.rows.RemoveFirst(p.pages[0].items)
			p.pages = p.pages[1:]
			dropped = scroller.Down
		}
	} else {
		p.rows.PrependItems(items...)
		p.pages = append([]loadedPage{page}, p.pages...)
		if len(p.pages) > p.maxPages {
			last := p.pages[len(p.pages)-1]
			p.rows.RemoveLast(last.items)
			p.pages = p.pages[:len(p.pages)-1]
			dropped = scroller.Up
			p.atEnd = false
		}
	}

	p.logger.Debug("page applied",
		"source", p.src.Name(),
		"direction", dir,
		"page", index,
		"entries", len(entries),
		"window", p.Window(),
	)
	p.signal(dropped)
	return nil
}

// ---------------------------------------------------------------------------
// Synchronous helpers
// ---------------------------------------------------------------------------

// Next loads the page after the window.
func (p *Pager) Next(ctx context.Context) error { return p.load(ctx, scroller.Down) }

// Prev loads the page before the window.
func (p *Pager) Prev(ctx context.Context) error { return p.load(ctx, scroller.Up) }

func (p *Pager) load(ctx context.Context, dir scroller.Direction) error {
	index, err := p.Request(dir)
	if err != nil {
		return err
	}
	entries, err := p.Fetch(ctx, index)
	return p.Apply(dir, index, entries, err)
}

// ---------------------------------------------------------------------------
// State
// ---------------------------------------------------------------------------

// Window returns the page indexes currently in the list, in order.
func (p *Pager) Window() []int {
	out := make([]int, len(p.pages))
	for i, pg := range p.pages {
		out[i] = pg.index
	}
	return out
}

// Seq returns the number of shifts signalled so far.
func (p *Pager) Seq() int64 { return p.seq }

// AtEnd reports whether the source ran out below the window.
func (p *Pager) AtEnd() bool { return p.atEnd }

// Loading reports whether a page load is in flight.
func (p *Pager) Loading() bool { return p.loading }

// Source returns the paged source.
func (p *Pager) Source() Source { return p.src }

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (p *Pager) signal(dropped scroller.Direction) {
	if dropped != "" {
		p.seq++
		p.attrs.SetAttribute(scroller.AttrShift, scroller.FormatShift(dropped, p.seq))
	}
	p.attrs.SetAttribute(scroller.AttrPageShiftSize, strconv.Itoa(p.pages[0].rows))
	p.toggles++
	p.attrs.SetAttribute(scroller.AttrRecalculate, strconv.Itoa(p.toggles))
}

func (p *Pager) itemsFor(index int, entries []Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		row := NewRow(e, index, p.md)
		row.marker = p.marker
		items[i] = row
	}
	// The page rule rides on the last entry, so removing a page removes
	// exactly the rows that were measured for it.
	items[len(items)-1].(*Row).footer = fmt.Sprintf("%s · page %d", p.src.Name(), index+1)
	return items
}

func markedCount(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Marker {
			n++
		}
	}
	return n
}
