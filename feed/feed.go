// Package feed is the paging side of osa-scroll: sources that produce pages
// of entries, the list items those entries render as, and the Pager that
// keeps a bounded window of pages in a list while telling a scroller what it
// changed.
package feed

import (
	"context"
	"errors"
)

// ErrExhausted is returned when there is no page in the requested direction.
var ErrExhausted = errors.New("feed: no more pages")

// Entry is one record of a page.
type Entry struct {
	ID    string
	Title string
	Meta  string
	Body  string // markdown

	// Marker reports whether the entry renders as a scroll row. Unmarked
	// entries are laid out like rows but are ignored by the scroller.
	Marker bool
}

// Source produces pages of entries. An empty page means the source is
// exhausted at that index.
type Source interface {
	Name() string
	Page(ctx context.Context, index, size int) ([]Entry, error)
}

// window returns the half-open slice bounds of page index for size, clamped
// to n items.
func window(index, size, n int) (int, int) {
	lo := min(index*size, n)
	hi := min(lo+size, n)
	return lo, hi
}
