package feed

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/miosa/osa-scroll/markdown"
	"github.com/miosa/osa-scroll/scroller"
	"github.com/miosa/osa-scroll/style"
	"github.com/miosa/osa-scroll/ui/list"
)

// Row renders an entry as a list item. Marked rows carry the scroller's row
// marker attribute.
type Row struct {
	Entry Entry
	Page  int

	md     *markdown.Renderer
	marker string
	// footer is the page rule drawn under the last entry of a page. It is
	// part of the row so that the rows of a page cover its full height.
	footer string

	width    int
	theme    string
	rendered string
}

// NewRow wraps e for page. md may be nil, in which case bodies are shown raw.
func NewRow(e Entry, page int, md *markdown.Renderer) *Row {
	return &Row{Entry: e, Page: page, md: md, marker: scroller.DefaultRowMarker}
}

func (r *Row) ID() string          { return r.Entry.ID }
func (r *Row) ContentVersion() int { return 1 }
func (r *Row) Tag() string         { return "article" }

func (r *Row) Attr(name string) (string, bool) {
	if name == r.marker && r.Entry.Marker {
		return "true", true
	}
	return "", false
}

func (r *Row) Height(width int) int {
	return strings.Count(r.Render(width), "\n") + 1
}

// Render draws the title, meta line and body inside a left-ruled frame.
// The result is memoized for the last width and theme.
func (r *Row) Render(width int) string {
	if r.rendered != "" && r.width == width && r.theme == style.CurrentThemeName {
		return r.rendered
	}
	inner := max(width-2, 1)

	parts := []string{style.RowTitle.Render(truncate(r.Entry.Title, inner))}
	if r.Entry.Meta != "" {
		parts = append(parts, style.RowMeta.Render(truncate(r.Entry.Meta, inner)))
	}
	if body := strings.TrimSpace(r.Entry.Body); body != "" {
		if r.md != nil {
			body = r.md.Render(body, inner)
		} else {
			body = lipgloss.NewStyle().Width(inner).Render(body)
		}
		parts = append(parts, style.RowBody.Render(body))
	}

	frame := style.RowFrame
	if !r.Entry.Marker {
		frame = frame.BorderForeground(style.Dim)
	}
	r.rendered = frame.Render(strings.Join(parts, "\n"))
	if r.footer != "" {
		r.rendered += "\n" + rule(r.footer, width)
	}
	r.width = width
	r.theme = style.CurrentThemeName
	return r.rendered
}

// rule draws a labelled horizontal line across width.
func rule(label string, width int) string {
	label = " " + label + " "
	rest := max(width-lipgloss.Width(label)-2, 0)
	return style.Separator.Render("──" + label + strings.Repeat("─", rest))
}

func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

var (
	_ list.Item   = (*Row)(nil)
	_ list.Marked = (*Row)(nil)
	_ list.Tagged = (*Row)(nil)
)
