// Package markdown renders feed entry bodies to ANSI text with glamour.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Renderer renders markdown at a given wrap width. Term renderers are built
// lazily, one per width, and reused.
type Renderer struct {
	style string

	mu    sync.Mutex
	byWid map[int]*glamour.TermRenderer
}

// New returns a Renderer using the named glamour style. "" or "auto" picks a
// style from the terminal background.
func New(style string) *Renderer {
	return &Renderer{style: style, byWid: make(map[int]*glamour.TermRenderer)}
}

// Render converts md to styled output wrapped at width. Falls back to the
// raw text if glamour cannot build a renderer or fails to render.
func (r *Renderer) Render(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	tr := r.termRenderer(max(width, 1))
	if tr == nil {
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	// glamour pads with blank lines; trim for inline display.
	return strings.Trim(out, "\n")
}

func (r *Renderer) termRenderer(width int) *glamour.TermRenderer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr, ok := r.byWid[width]; ok {
		return tr
	}
	opt := glamour.WithAutoStyle()
	if r.style != "" && r.style != "auto" {
		opt = glamour.WithStandardStyle(r.style)
	}
	tr, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(width))
	if err != nil {
		tr = nil
	}
	r.byWid[width] = tr
	return tr
}

var defaultRenderer = New("auto")

// Render renders md with the shared auto-styled renderer.
func Render(md string, width int) string {
	return defaultRenderer.Render(md, width)
}
