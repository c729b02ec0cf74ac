package feed

import (
	"context"
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/miosa/osa-scroll/scroller"
)

// HTML pages through the direct children of a container element in an HTML
// document. Children whose marker attribute is non-empty become rows; the
// rest are kept as unmarked entries.
type HTML struct {
	entries []Entry
}

// HTMLOptions configures ParseHTML.
type HTMLOptions struct {
	// Container selects the scroll container. Default "body".
	Container string
	// Marker is the row marker attribute. Default scroller.DefaultRowMarker.
	Marker string
}

// ParseHTML reads a document and collects the container's children.
func ParseHTML(r io.Reader, opts HTMLOptions) (*HTML, error) {
	if opts.Container == "" {
		opts.Container = "body"
	}
	if opts.Marker == "" {
		opts.Marker = scroller.DefaultRowMarker
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	container := doc.Find(opts.Container).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("container %q not found", opts.Container)
	}

	conv := md.NewConverter("", true, nil)
	h := &HTML{}
	container.Children().Each(func(i int, s *goquery.Selection) {
		h.entries = append(h.entries, htmlEntry(conv, i, s, opts.Marker))
	})
	return h, nil
}

func htmlEntry(conv *md.Converter, i int, s *goquery.Selection, marker string) Entry {
	id, ok := s.Attr("id")
	if !ok || id == "" {
		id = fmt.Sprintf("node-%d", i)
	}
	title, ok := s.Attr("data-title")
	if !ok {
		title = strings.TrimSpace(s.Find("h1,h2,h3,h4").First().Text())
	}
	if title == "" {
		title = goquery.NodeName(s)
	}
	v, _ := s.Attr(marker)
	return Entry{
		ID:     id,
		Title:  title,
		Meta:   goquery.NodeName(s),
		Body:   strings.TrimSpace(conv.Convert(s)),
		Marker: v != "",
	}
}

// Len returns the number of collected children.
func (h *HTML) Len() int { return len(h.entries) }

func (h *HTML) Name() string { return "html" }

func (h *HTML) Page(ctx context.Context, index, size int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || size <= 0 {
		return nil, nil
	}
	lo, hi := window(index, size, len(h.entries))
	return append([]Entry(nil), h.entries[lo:hi]...), nil
}
