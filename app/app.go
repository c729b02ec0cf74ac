// Package app is the bubbletea program of osa-scroll: an endless feed in a
// list whose position is held still by a scroller while the pager swaps
// pages in and out.
//
// Deferred scroller work runs on flushMsg. A tea.Cmd that returns flushMsg
// is delivered after the current Update returns and the frame is laid out,
// which is the event-queue turn the scroller expects.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/osa-scroll/feed"
	"github.com/miosa/osa-scroll/markdown"
	"github.com/miosa/osa-scroll/scroller"
	"github.com/miosa/osa-scroll/style"
	"github.com/miosa/osa-scroll/ui/list"
)

// flushMsg runs one turn of the scroller queue.
type flushMsg struct{}

// pageLoadedMsg carries a fetched page back to the event loop.
type pageLoadedMsg struct {
	dir     scroller.Direction
	index   int
	entries []feed.Entry
	err     error
}

// Options configures New.
type Options struct {
	Source   feed.Source
	Strategy scroller.Strategy
	Matcher  scroller.Matcher
	Marker   string // row marker attribute; also the matcher when Matcher is nil
	PageSize int
	MaxPages int
	Gap      int
	Renderer *markdown.Renderer
	Logger   *slog.Logger
}

// Model is the root tea.Model.
type Model struct {
	ctx    context.Context
	logger *slog.Logger
	keys   KeyMap

	list     *list.Model
	queue    *scroller.Queue
	scroller *scroller.Scroller
	pager    *feed.Pager

	layout   Layout
	showHelp bool
	status   string
	err      error
}

// New builds the model. ctx bounds page fetches.
func New(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := list.New(list.WithGap(opts.Gap))
	q := scroller.NewQueue()

	scOpts := []scroller.Option{scroller.WithStrategy(opts.Strategy), scroller.WithLogger(logger)}
	switch {
	case opts.Matcher != nil:
		scOpts = append(scOpts, scroller.WithMatcher(opts.Matcher))
	case opts.Marker != "":
		scOpts = append(scOpts, scroller.WithMatcher(scroller.MarkerAttr(opts.Marker)))
	}
	sc := scroller.New(q, l, scOpts...)
	sc.Attach(l)

	pager := feed.NewPager(opts.Source, l, sc,
		feed.WithPageSize(opts.PageSize),
		feed.WithMaxPages(opts.MaxPages),
		feed.WithRenderer(opts.Renderer),
		feed.WithMarker(opts.Marker),
		feed.WithPagerLogger(logger),
	)

	return Model{
		ctx:      ctx,
		logger:   logger,
		keys:     DefaultKeyMap(),
		list:     l,
		queue:    q,
		scroller: sc,
		pager:    pager,
		showHelp: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return tea.RequestWindowSize() },
		m.load(scroller.Down),
	)
}

// -- Update -------------------------------------------------------------------

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := rawMsg.(type) {

	case tea.WindowSizeMsg:
		m.layout = ComputeLayout(v.Width, v.Height, m.showHelp)
		m.list.SetSize(m.layout.ListWidth, m.layout.ListHeight)
		return m, tea.Batch(m.flushIfQueued(), m.prefetch())

	case tea.KeyPressMsg:
		return m.handleKey(v)

	case tea.MouseWheelMsg:
		cmd := m.list.Update(v)
		return m, tea.Batch(cmd, m.prefetch())

	case pageLoadedMsg:
		return m.handlePage(v)

	case flushMsg:
		ran := m.queue.Flush()
		if ran > 0 {
			m.logger.Debug("queue turn", "tasks", ran)
		}
		// Work deferred during this turn waits for the next one.
		return m, tea.Batch(m.flushIfQueued(), m.prefetch())
	}
	return m, nil
}

func (m Model) handleKey(k tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(k, m.keys.ScrollDown):
		m.list.ScrollDown(1)
	case key.Matches(k, m.keys.ScrollUp):
		m.list.ScrollUp(1)
	case key.Matches(k, m.keys.PageDown):
		m.list.PageDown()
	case key.Matches(k, m.keys.PageUp):
		m.list.PageUp()
	case key.Matches(k, m.keys.HalfPageDown):
		m.list.HalfPageDown()
	case key.Matches(k, m.keys.HalfPageUp):
		m.list.HalfPageUp()
	case key.Matches(k, m.keys.ScrollTop):
		m.list.ScrollToTop()
	case key.Matches(k, m.keys.ScrollBottom):
		m.list.ScrollToBottom()
	case key.Matches(k, m.keys.NextPage):
		return m, m.load(scroller.Down)
	case key.Matches(k, m.keys.PrevPage):
		return m, m.load(scroller.Up)
	case key.Matches(k, m.keys.Theme):
		m.cycleTheme()
		return m, nil
	default:
		return m, nil
	}
	return m, m.prefetch()
}

func (m Model) handlePage(p pageLoadedMsg) (tea.Model, tea.Cmd) {
	err := m.pager.Apply(p.dir, p.index, p.entries, p.err)
	switch {
	case errors.Is(err, feed.ErrExhausted):
		if p.dir == scroller.Down {
			m.status = "end of feed"
		} else {
			m.status = "start of feed"
		}
	case err != nil:
		m.logger.Error("page load failed", "err", err)
		m.err = err
	default:
		m.status = ""
		m.err = nil
	}
	return m, m.flushIfQueued()
}

// -- Commands -----------------------------------------------------------------

func flush() tea.Msg { return flushMsg{} }

func (m Model) flushIfQueued() tea.Cmd {
	if m.queue.Len() == 0 {
		return nil
	}
	return flush
}

// load reserves a page in dir and fetches it off the event loop.
func (m Model) load(dir scroller.Direction) tea.Cmd {
	index, err := m.pager.Request(dir)
	if err != nil {
		return nil
	}
	pager, ctx := m.pager, m.ctx
	m.logger.Debug("loading page", "direction", dir, "page", index)
	return func() tea.Msg {
		entries, err := pager.Fetch(ctx, index)
		return pageLoadedMsg{dir: dir, index: index, entries: entries, err: err}
	}
}

// prefetch loads a page when less than a viewport of content is left in
// the scroll direction. Nothing happens until the scroller is settled.
func (m Model) prefetch() tea.Cmd {
	if m.pager.Loading() || m.queue.Len() > 0 || m.list.ViewportHeight() <= 0 {
		return nil
	}
	vh := m.list.ViewportHeight()
	switch {
	case m.list.Len() == 0 || m.list.LinesBelow() < vh:
		return m.load(scroller.Down)
	case m.list.ScrollTop() < vh:
		return m.load(scroller.Up)
	}
	return nil
}

func (m Model) cycleTheme() {
	i := slices.Index(style.ThemeNames, style.CurrentThemeName)
	next := style.ThemeNames[(i+1)%len(style.ThemeNames)]
	style.SetTheme(next)
	m.list.InvalidateCache()
	m.logger.Info("theme changed", "theme", next)
}

// -- View ---------------------------------------------------------------------

func (m Model) View() tea.View {
	v := tea.NewView(m.renderView())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m Model) renderView() string {
	if m.layout.TermWidth == 0 {
		return ""
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.layout.ListWidth).Height(m.layout.ListHeight).Render(m.list.View()),
		m.list.Scrollbar(),
	)
	sections := []string{m.renderHeader(), body, m.renderStatus()}
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	return style.Gradient("osa-scroll") + style.Faint.Render(" · "+m.pager.Source().Name())
}

func (m Model) renderStatus() string {
	st := m.scroller.State()
	field := func(label, value string) string {
		return style.StatusLabel.Render(label+" ") + style.StatusValue.Render(value)
	}
	parts := []string{
		field("pages", fmt.Sprint(pageNumbers(m.pager.Window()))),
		field("top", fmt.Sprintf("%d/%d", m.list.ScrollTop(), m.list.TotalHeight())),
		field("above", optInt(st.AboveHeight)),
		field("pending", optInt(st.PendingAdjustment)),
		field("strategy", m.scroller.Strategy().String()),
	}
	if ph := m.scroller.Phase(); ph != scroller.Idle {
		parts = append(parts, style.StatusPhase.Render(ph.String()))
	}
	if m.pager.Loading() {
		parts = append(parts, style.StatusPhase.Render("loading"))
	}
	switch {
	case m.err != nil:
		parts = append(parts, style.ErrorText.Render(m.err.Error()))
	case m.status != "":
		parts = append(parts, style.Faint.Render(m.status))
	}
	return style.StatusBar.Render(strings.Join(parts, "  "))
}

func (m Model) renderHelp() string {
	bindings := m.keys.ShortHelp()
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = style.HelpKey.Render(h.Key) + " " + style.HelpDesc.Render(h.Desc)
	}
	return " " + strings.Join(parts, style.HelpSeparator.Render(" • "))
}

func pageNumbers(window []int) []int {
	out := make([]int, len(window))
	for i, p := range window {
		out[i] = p + 1
	}
	return out
}

func optInt(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}
