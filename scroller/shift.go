package scroller

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Direction is the direction of a page shift.
type Direction string

const (
	// Down means rows left the top of the list; the offset must shrink.
	Down Direction = "down"
	// Up means rows entered at the top. Upward shifts are not compensated.
	Up Direction = "up"
)

// Shift is a decoded shift attribute value.
type Shift struct {
	Direction Direction
	// Seq is an optional counter the collaborator bumps so that two
	// consecutive shifts in the same direction still change the attribute.
	Seq int64
}

// ParseShift decodes a shift attribute value such as {"direction":"down"}.
// ok is false for malformed JSON, a non-object payload, or a missing or
// non-string direction.
func ParseShift(value string) (Shift, bool) {
	if value == "" || !gjson.Valid(value) {
		return Shift{}, false
	}
	root := gjson.Parse(value)
	if !root.IsObject() {
		return Shift{}, false
	}
	dir := root.Get("direction")
	if dir.Type != gjson.String {
		return Shift{}, false
	}
	return Shift{
		Direction: Direction(dir.String()),
		Seq:       root.Get("seq").Int(),
	}, true
}

// FormatShift encodes a shift attribute value. seq is omitted when zero.
func FormatShift(dir Direction, seq int64) string {
	v, err := sjson.Set("{}", "direction", string(dir))
	if err != nil {
		return ""
	}
	if seq != 0 {
		if withSeq, err := sjson.Set(v, "seq", seq); err == nil {
			v = withSeq
		}
	}
	return v
}
