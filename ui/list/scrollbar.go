package list

import (
	"strings"

	"github.com/miosa/osa-scroll/style"
)

const (
	scrollTrackChar = "│"
	scrollThumbChar = "█"
)

// Scrollbar renders a one-column vertical scrollbar for the current
// viewport, or "" when the content fits.
func (m *Model) Scrollbar() string {
	return Scrollbar(m.height, m.totalHeight, m.offset)
}

// Scrollbar renders a vertical scrollbar as a single column of characters.
//
// The track occupies viewportHeight rows. The thumb is positioned and sized
// proportionally to the visible region within the total content.
func Scrollbar(viewportHeight, contentHeight, offset int) string {
	top, size := thumb(viewportHeight, contentHeight, offset)
	if size == 0 {
		return ""
	}
	rows := make([]string, viewportHeight)
	for i := range rows {
		if i >= top && i < top+size {
			rows[i] = style.ScrollbarThumb.Render(scrollThumbChar)
		} else {
			rows[i] = style.ScrollbarTrack.Render(scrollTrackChar)
		}
	}
	return strings.Join(rows, "\n")
}

// thumb returns the thumb's first track row and its size. Size 0 means no
// scrollbar is needed.
func thumb(vh, ch, offset int) (top, size int) {
	if vh <= 0 || ch <= vh {
		return 0, 0
	}
	size = min(max(vh*vh/ch, 1), vh)
	top = offset * (vh - size) / (ch - vh)
	top = min(max(top, 0), vh-size)
	return top, size
}
