package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestdata(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			sc, err := Load(f)
			require.NoError(t, err)
			trace, err := Run(sc, nil)
			require.NoError(t, err)
			assert.Len(t, trace, len(sc.Steps))
		})
	}
}

func TestRun_ReportsFailedExpectation(t *testing.T) {
	sc, err := Parse([]byte(`
rows: [10, 10, 10]
steps:
  - set: {pageShiftSize: "1", recalculate: "1"}
  - flush: 1
  - expect: {aboveHeight: 99, pending: 3}
  - scroll: 5
`))
	require.NoError(t, err)

	trace, err := Run(sc, nil)
	require.ErrorIs(t, err, ErrExpectation)
	assert.Contains(t, err.Error(), "step 3")
	assert.Contains(t, err.Error(), "aboveHeight = 10, want 99")
	assert.Contains(t, err.Error(), "pending unset, want 3")
	assert.Len(t, trace, 3, "run stops at the failing step")
}

func TestParse_RowsAndMaybe(t *testing.T) {
	sc, err := Parse([]byte(`
rows: [7, {height: 2, row: false}, {height: 4}]
steps:
  - expect: {pending: null, aboveHeight: 0}
  - expect: {}
`))
	require.NoError(t, err)
	assert.Equal(t, []RowSpec{{7, true}, {2, false}, {4, true}}, sc.Rows)
	assert.Equal(t, 10, sc.Viewport)

	e := sc.Steps[0].Expect
	assert.Equal(t, Maybe{Given: true, Null: true}, e.Pending)
	assert.Equal(t, Maybe{Given: true, Value: 0}, e.AboveHeight)
	assert.False(t, sc.Steps[1].Expect.Pending.Given)
}

func TestParse_SetKeepsOrder(t *testing.T) {
	sc, err := Parse([]byte(`
steps:
  - set: {shift: a, recalculate: b, pageShiftSize: c}
`))
	require.NoError(t, err)
	assert.Equal(t, Attrs{{"shift", "a"}, {"recalculate", "b"}, {"pageShiftSize", "c"}}, sc.Steps[0].Set)
}

func TestNewRunner_BadStrategy(t *testing.T) {
	_, err := NewRunner(&Scenario{Strategy: "median", Viewport: 5}, nil)
	assert.Error(t, err)
}
