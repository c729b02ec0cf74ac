package scroller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FlushRunsOneTurn(t *testing.T) {
	q := NewQueue()
	var order []string

	q.Defer(func() {
		order = append(order, "a")
		q.Defer(func() { order = append(order, "c") })
	})
	q.Defer(func() { order = append(order, "b") })

	assert.Equal(t, 2, q.Flush())
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, q.Len(), "work deferred during a turn waits for the next one")

	assert.Equal(t, 1, q.Flush())
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, q.Flush())
}

func TestQueue_DeferNilIgnored(t *testing.T) {
	q := NewQueue()
	q.Defer(nil)
	assert.Zero(t, q.Len())
}

func TestQueue_DrainRespectsLimit(t *testing.T) {
	q := NewQueue()
	var again func()
	runs := 0
	again = func() {
		runs++
		q.Defer(again)
	}
	q.Defer(again)

	assert.Equal(t, 3, q.Drain(3))
	assert.Equal(t, 3, runs)
	assert.Equal(t, 1, q.Len())
}

func TestShiftPayload_RoundTrip(t *testing.T) {
	v := FormatShift(Down, 7)
	got, ok := ParseShift(v)
	require.True(t, ok)
	assert.Equal(t, Shift{Direction: Down, Seq: 7}, got)

	assert.Equal(t, `{"direction":"up"}`, FormatShift(Up, 0))
}

func TestParseShift(t *testing.T) {
	cases := []struct {
		in   string
		want Shift
		ok   bool
	}{
		{`{"direction":"down"}`, Shift{Direction: Down}, true},
		{`{"direction":"up","seq":3}`, Shift{Direction: Up, Seq: 3}, true},
		{`{"direction":"sideways"}`, Shift{Direction: "sideways"}, true},
		{`{"direction":null}`, Shift{}, false},
		{`[{"direction":"down"}]`, Shift{}, false},
		{`{"direction":"down"`, Shift{}, false},
		{"not-json", Shift{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseShift(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy(" Summation ")
	require.NoError(t, err)
	assert.Equal(t, Summation, s)

	s, err = ParseStrategy("offset")
	require.NoError(t, err)
	assert.Equal(t, Boundary, s)

	_, err = ParseStrategy("median")
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}
