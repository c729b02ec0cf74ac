package scroller

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStrategy is returned by ParseStrategy for unrecognised names.
var ErrUnknownStrategy = errors.New("unknown measurement strategy")

// Strategy selects how the height above the fold is measured. A Scroller
// uses one strategy for its whole lifetime.
type Strategy int

const (
	// Boundary uses the offset of the first row that stays on screen after
	// the shift. Wrappers and gaps between rows are included.
	Boundary Strategy = iota
	// Summation adds up the heights of the shifted rows.
	Summation
)

func (s Strategy) String() string {
	switch s {
	case Boundary:
		return "boundary"
	case Summation:
		return "summation"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a configuration value to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "boundary", "offset":
		return Boundary, nil
	case "summation", "sum":
		return Summation, nil
	default:
		return 0, fmt.Errorf("%w: %q (valid: boundary, summation)", ErrUnknownStrategy, name)
	}
}

// Measure returns the height above the fold for the first n rows. A count
// past the end of rows is not an error: missing rows contribute nothing, so
// both strategies settle on the bottom edge of the last row.
func (s Strategy) Measure(rows []Node, n int, g Geometry) int {
	if n <= 0 && s == Summation {
		return 0
	}
	switch s {
	case Summation:
		total := 0
		for i := 0; i < n && i < len(rows); i++ {
			total += max(g.Height(rows[i]), 0)
		}
		return total
	default:
		if n < len(rows) {
			return max(g.OffsetTop(rows[max(n, 0)]), 0)
		}
		if len(rows) == 0 {
			return 0
		}
		last := rows[len(rows)-1]
		return max(g.OffsetTop(last)+g.Height(last), 0)
	}
}
