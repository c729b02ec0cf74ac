package scroller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tenRows is the feed used throughout: five 40-line rows then five 50-line rows.
func tenRows() *fakeContainer {
	return newContainer(rowsOf(40, 40, 40, 40, 40, 50, 50, 50, 50, 50)...)
}

func attached(t *testing.T, c *fakeContainer, opts ...Option) (*Scroller, *Queue) {
	t.Helper()
	q := NewQueue()
	s := New(q, c, opts...)
	s.Attach(c)
	return s, q
}

func measured(t *testing.T, s *Scroller, q *Queue, shiftSize string) {
	t.Helper()
	s.SetAttribute(AttrPageShiftSize, shiftSize)
	s.SetAttribute(AttrRecalculate, "1")
	q.Drain(0)
	require.NotNil(t, s.State().AboveHeight, "aboveHeight should be measured")
}

// ---------------------------------------------------------------------------
// Recalculation
// ---------------------------------------------------------------------------

func TestRecalculate_IsDeferred(t *testing.T) {
	c := tenRows()
	s, q := attached(t, c, WithStrategy(Summation))

	s.SetAttribute(AttrPageShiftSize, "3")
	s.SetAttribute(AttrRecalculate, "a")

	assert.Nil(t, s.State().AboveHeight, "measurement must wait for the next turn")
	assert.Equal(t, RecalcPending, s.Phase())
	assert.Equal(t, 1, q.Len())

	q.Flush()
	require.NotNil(t, s.State().AboveHeight)
	assert.Equal(t, 120, *s.State().AboveHeight)
	assert.Equal(t, Idle, s.Phase())
}

func TestRecalculate_Idempotent(t *testing.T) {
	for _, strategy := range []Strategy{Summation, Boundary} {
		t.Run(strategy.String(), func(t *testing.T) {
			c := tenRows()
			s, q := attached(t, c, WithStrategy(strategy))
			measured(t, s, q, "4")
			first := *s.State().AboveHeight

			s.Recalculate()
			s.Recalculate()
			assert.Equal(t, first, *s.State().AboveHeight)
		})
	}
}

func TestRecalculate_ZeroShift(t *testing.T) {
	c := newContainer(append([]*fakeNode{wrapper(5)}, rowsOf(40, 40, 50)...)...)

	s, q := attached(t, c, WithStrategy(Summation))
	measured(t, s, q, "0")
	assert.Equal(t, 0, *s.State().AboveHeight)

	b, bq := attached(t, c, WithStrategy(Boundary))
	measured(t, b, bq, "0")
	assert.Equal(t, 5, *b.State().AboveHeight, "boundary strategy yields the first row's offset")
}

func TestRecalculate_OutOfRange(t *testing.T) {
	for _, strategy := range []Strategy{Summation, Boundary} {
		t.Run(strategy.String(), func(t *testing.T) {
			c := tenRows()
			s, q := attached(t, c, WithStrategy(strategy))
			require.NotPanics(t, func() { measured(t, s, q, "25") })
			assert.Equal(t, 450, *s.State().AboveHeight)
		})
	}
}

func TestRecalculate_EmptyContainer(t *testing.T) {
	c := newContainer()
	s, q := attached(t, c)
	measured(t, s, q, "3")
	assert.Equal(t, 0, *s.State().AboveHeight)
}

func TestRecalculate_MissingOrBadShiftSize(t *testing.T) {
	cases := map[string]func(s *Scroller){
		"missing":  func(s *Scroller) {},
		"text":     func(s *Scroller) { s.SetAttribute(AttrPageShiftSize, "three") },
		"negative": func(s *Scroller) { s.SetAttribute(AttrPageShiftSize, "-2") },
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			c := tenRows()
			s, q := attached(t, c)
			setup(s)
			s.SetAttribute(AttrRecalculate, "1")
			q.Drain(0)

			st := s.State()
			assert.Nil(t, st.AboveHeight)
			assert.Nil(t, st.PendingAdjustment)
		})
	}
}

func TestRecalculate_SkipsNonRows(t *testing.T) {
	c := newContainer(row(10), wrapper(7), row(20), wrapper(3), row(30))

	s, q := attached(t, c, WithStrategy(Summation))
	measured(t, s, q, "2")
	assert.Equal(t, 30, *s.State().AboveHeight, "wrappers are neither summed nor indexed")

	b, bq := attached(t, c, WithStrategy(Boundary))
	measured(t, b, bq, "2")
	assert.Equal(t, 40, *b.State().AboveHeight, "boundary includes the wrappers above the boundary row")
}

func TestRecalculate_TagMatcher(t *testing.T) {
	c := newContainer(
		&fakeNode{tag: "SCROLL-ROW", height: 11},
		&fakeNode{tag: "div", height: 100},
		&fakeNode{tag: "scroll-row", height: 13},
	)
	s, q := attached(t, c, WithStrategy(Summation), WithMatcher(TagName("scroll-row")))
	measured(t, s, q, "2")
	assert.Equal(t, 24, *s.State().AboveHeight)
}

func TestMarkerAttr_EmptyValueIsNotARow(t *testing.T) {
	n := &fakeNode{attrs: map[string]string{DefaultRowMarker: ""}}
	assert.False(t, MarkerAttr(DefaultRowMarker)(n))
	n.attrs[DefaultRowMarker] = "1"
	assert.True(t, MarkerAttr(DefaultRowMarker)(n))
}

func TestStrategies_AgreeOnContiguousRows(t *testing.T) {
	c := tenRows()
	rows := Rows(c.Children(), MarkerAttr(DefaultRowMarker))
	for n := 0; n <= 12; n++ {
		assert.Equal(t, Summation.Measure(rows, n, c), Boundary.Measure(rows, n, c), "n=%d", n)
	}
}

// ---------------------------------------------------------------------------
// Shift handling
// ---------------------------------------------------------------------------

func TestShiftDown_CompensatesWithPreShiftHeight(t *testing.T) {
	c := tenRows()
	s, q := attached(t, c, WithStrategy(Summation))
	measured(t, s, q, "3")
	require.Equal(t, 120, *s.State().AboveHeight)

	c.scroll(500)
	c.removeFirst(3)
	s.SetAttribute(AttrShift, `{"direction":"down"}`)

	st := s.State()
	require.NotNil(t, st.PendingAdjustment)
	assert.Equal(t, 120, *st.PendingAdjustment)
	assert.Equal(t, 500, c.scrollTop, "nothing moves before the deferred turn")

	q.Flush()

	assert.Equal(t, 380, c.scrollTop)
	st = s.State()
	assert.Equal(t, 380, st.ScrollPos)
	assert.Nil(t, st.PendingAdjustment, "recalculation clears the pending adjustment")
	require.NotNil(t, st.AboveHeight)
	assert.Equal(t, 130, *st.AboveHeight, "post-shift rows are 40,40,50")
}

func TestShiftDown_CompensationRunsBeforeRecalculation(t *testing.T) {
	c := tenRows()
	s, q := attached(t, c, WithStrategy(Summation))
	measured(t, s, q, "3")
	c.scroll(500)
	c.removeFirst(3)

	s.SetAttribute(AttrShift, `{"direction":"down"}`)
	require.Equal(t, 2, q.Len())
	q.Flush()

	require.Len(t, c.sets, 1)
	assert.Equal(t, 380, c.sets[0], "compensation must use the height captured before the shift")
}

func TestShift_DirectionGating(t *testing.T) {
	c := tenRows()
	s, q := attached(t, c)
	measured(t, s, q, "3")

	s.SetAttribute(AttrShift, `{"direction":"up"}`)
	assert.Nil(t, s.State().PendingAdjustment)
	assert.Zero(t, q.Len(), "upward shifts schedule nothing")
}

func TestShift_MalformedPayload(t *testing.T) {
	for _, payload := range []string{"not-json", `{"dir":"down"}`, `"down"`, `{"direction":5}`, "null", ""} {
		t.Run(payload, func(t *testing.T) {
			c := tenRows()
			s, q := attached(t, c)
			measured(t, s, q, "3")
			c.scroll(200)
			before := s.State()

			require.NotPanics(t, func() { s.SetAttribute(AttrShift, payload) })
			assert.Equal(t, before, s.State())
			assert.Zero(t, q.Len())
		})
	}
}

func TestShift_SameValueIsNoop(t *testing.T) {
	c := tenRows()
	s, q := attached(t, c)
	measured(t, s, q, "3")

	s.SetAttribute(AttrShift, `{"direction":"down"}`)
	q.Drain(0)
	s.SetAttribute(AttrShift, `{"direction":"down"}`)
	assert.Zero(t, q.Len())
}

func TestShift_BeforeFirstMeasurement(t *testing.T) {
	c := tenRows()
	s, q := attached(t, c, WithStrategy(Summation))
	s.SetAttribute(AttrPageShiftSize, "2")
	c.scroll(300)

	s.SetAttribute(AttrShift, `{"direction":"down"}`)
	assert.Nil(t, s.State().PendingAdjustment)
	q.Drain(0)

	assert.Empty(t, c.sets, "no compensation without a measurement")
	assert.Equal(t, 80, *s.State().AboveHeight)
}

func TestShift_TwoShiftsBeforeFlush(t *testing.T) {
	c := tenRows()
	s, q := attached(t, c, WithStrategy(Summation))
	measured(t, s, q, "2")
	c.scroll(400)

	c.removeFirst(2)
	s.SetAttribute(AttrShift, FormatShift(Down, 1))
	s.SetAttribute(AttrShift, FormatShift(Down, 2))
	require.Equal(t, 4, q.Len())
	q.Flush()

	assert.Equal(t, []int{320, 240}, c.sets, "each queued pass re-derives from the tracked offset")
}

func TestRemoveRecalculate_CountsAsChange(t *testing.T) {
	c := tenRows()
	s, q := attached(t, c)
	s.SetAttribute(AttrRecalculate, "x")
	q.Drain(0)

	s.RemoveAttribute(AttrRecalculate)
	assert.Equal(t, 1, q.Len())

	s.RemoveAttribute(AttrShift)
	assert.Equal(t, 1, q.Len(), "removing an absent attribute does nothing")
}

// ---------------------------------------------------------------------------
// Scroll tracking and lifecycle
// ---------------------------------------------------------------------------

func TestScrollTracking_LastWriteWins(t *testing.T) {
	c := tenRows()
	s, _ := attached(t, c)
	for _, top := range []int{10, 250, 90} {
		c.scroll(top)
	}
	assert.Equal(t, 90, s.State().ScrollPos)
}

func TestDetach_StopsTracking(t *testing.T) {
	c := tenRows()
	s, q := attached(t, c)
	measured(t, s, q, "3")
	c.scroll(100)

	s.Detach()
	assert.Equal(t, Detached, s.Phase())
	assert.Empty(t, c.listeners)

	c.scroll(700)
	assert.Equal(t, 100, s.State().ScrollPos)

	s.SetAttribute(AttrShift, `{"direction":"down"}`)
	q.Drain(0)
	assert.Empty(t, c.sets, "compensation is a no-op while detached")
}

func TestAttach_ReplacesContainer(t *testing.T) {
	a, b := tenRows(), tenRows()
	s, _ := attached(t, a)
	s.Attach(b)

	assert.Empty(t, a.listeners)
	assert.Len(t, b.listeners, 1)
	b.scroll(42)
	assert.Equal(t, 42, s.State().ScrollPos)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "detached", Detached.String())
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "recalc-pending", RecalcPending.String())
}
