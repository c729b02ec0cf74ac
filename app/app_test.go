package app

import (
	"context"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miosa/osa-scroll/feed"
	"github.com/miosa/osa-scroll/scroller"
	"github.com/miosa/osa-scroll/style"
)

// lines yields one-line entries so page heights are exact.
type lines struct{ pages int }

func (lines) Name() string { return "lines" }

func (s lines) Page(_ context.Context, index, size int) ([]feed.Entry, error) {
	if s.pages > 0 && index >= s.pages {
		return nil, nil
	}
	out := make([]feed.Entry, size)
	for i := range out {
		out[i] = feed.Entry{
			ID:     fmt.Sprintf("p%d-%d", index, i),
			Title:  fmt.Sprintf("page %d row %d", index, i),
			Marker: true,
		}
	}
	return out, nil
}

func newTestModel(src feed.Source) Model {
	return New(context.Background(), Options{
		Source:   src,
		Strategy: scroller.Boundary,
		PageSize: 10,
		MaxPages: 2,
		Gap:      1,
	})
}

// drive feeds msgs through Update and runs every returned command until the
// program is quiet. Batches are expanded in order. Commands run after the
// remaining msgs, so pass messages that depend on each other to separate
// calls.
func drive(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	queue := append([]tea.Msg(nil), msgs...)
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 500, "program did not settle")
		msg := queue[0]
		queue = queue[1:]

		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, cmd := range batch {
				if cmd != nil {
					queue = append(queue, cmd())
				}
			}
			continue
		}
		if msg == nil {
			continue
		}
		next, cmd := m.Update(msg)
		m = next.(Model)
		if cmd != nil {
			queue = append(queue, cmd())
		}
	}
	return m
}

func press(s string) tea.KeyPressMsg {
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// 10 one-line rows with gap 1 and the page rule under the last row make 20
// lines per page, 21 with the gap to the next page. The list viewport is 13-3 = 10 lines.
var size = tea.WindowSizeMsg{Width: 40, Height: 13}

func TestModel_FillsViewportOnResize(t *testing.T) {
	m := drive(t, newTestModel(lines{}), size)

	assert.Equal(t, []int{0}, m.pager.Window())
	assert.Equal(t, 10, m.list.ViewportHeight())
	assert.Equal(t, 20, m.list.TotalHeight())
	assert.Equal(t, scroller.Idle, m.scroller.Phase())
	assert.Zero(t, m.queue.Len())

	st := m.scroller.State()
	require.NotNil(t, st.AboveHeight)
	assert.Nil(t, st.PendingAdjustment)
}

func TestModel_PrefetchesNearBottom(t *testing.T) {
	m := drive(t, newTestModel(lines{}), size)
	m = drive(t, m, press("G"))

	assert.Equal(t, []int{0, 1}, m.pager.Window())
	assert.Equal(t, 10, m.list.ScrollTop(), "appending does not move the view")
	assert.Equal(t, 41, m.list.TotalHeight())
}

func TestModel_DroppedPageKeepsViewStill(t *testing.T) {
	m := drive(t, newTestModel(lines{}), size)
	m = drive(t, m, press("G"))
	require.Equal(t, []int{0, 1}, m.pager.Window())

	// Jump to the bottom and capture the frame before the next page lands.
	next, cmd := m.Update(press("G"))
	m = next.(Model)
	require.NotNil(t, cmd, "bottom of the window loads the next page")
	assert.Equal(t, 31, m.list.ScrollTop())
	before := m.list.View()

	m = drive(t, m, cmd())

	assert.Equal(t, []int{1, 2}, m.pager.Window())
	assert.Equal(t, 10, m.list.ScrollTop(), "offset moved back by the dropped page")
	assert.Equal(t, before, m.list.View())
	assert.Equal(t, scroller.Idle, m.scroller.Phase())
	assert.Nil(t, m.scroller.State().PendingAdjustment)
}

func TestModel_EndOfFeed(t *testing.T) {
	m := drive(t, newTestModel(lines{pages: 1}), size)
	m = drive(t, m, press("G"))

	assert.Equal(t, []int{0}, m.pager.Window())
	assert.True(t, m.pager.AtEnd())
	assert.Equal(t, "end of feed", m.status)
	assert.Contains(t, m.renderStatus(), "end of feed")
}

func TestModel_LoadErrorIsShown(t *testing.T) {
	m := drive(t, newTestModel(lines{}), size)
	next, _ := m.Update(pageLoadedMsg{dir: scroller.Down, index: 1, err: fmt.Errorf("disk on fire")})
	m = next.(Model)

	require.Error(t, m.err)
	assert.Contains(t, m.renderStatus(), "disk on fire")
	assert.False(t, m.pager.Loading())
}

func TestModel_ThemeCycles(t *testing.T) {
	t.Cleanup(func() { style.SetTheme("dark") })
	style.SetTheme("dark")

	m := drive(t, newTestModel(lines{}), size)
	m = drive(t, m, press("t"))
	assert.NotEqual(t, "dark", style.CurrentThemeName)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(lines{})
	_, cmd := m.Update(press("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := newTestModel(lines{})
	assert.Empty(t, m.renderView())
}

func TestModel_ViewShowsFeed(t *testing.T) {
	m := drive(t, newTestModel(lines{}), size)
	out := m.renderView()
	assert.Contains(t, out, "page 0 row 0")
	assert.Contains(t, out, "lines")
	assert.Contains(t, out, "boundary")
}

func TestComputeLayout(t *testing.T) {
	l := ComputeLayout(80, 24, true)
	assert.Equal(t, 79, l.ListWidth)
	assert.Equal(t, 21, l.ListHeight)

	l = ComputeLayout(80, 24, false)
	assert.Equal(t, 22, l.ListHeight)

	l = ComputeLayout(10, 2, true)
	assert.Equal(t, minListHeight, l.ListHeight)
}
