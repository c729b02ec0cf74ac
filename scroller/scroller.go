// Package scroller keeps the content of an infinite list visually still
// while its collaborator adds or removes pages of rows above the viewport.
//
// The collaborator mutates the rows of a scroll container and then sets
// attributes on the component:
//
//	pageShiftSize  number of rows involved in the next shift
//	recalculate    any change requests a remeasurement
//	shift          {"direction":"down"} after rows left the top
//
// The component measures the height of the first pageShiftSize rows
// (aboveHeight) and, on a downward shift, moves the scroll offset back by
// the height measured before the shift. Measurement and compensation are
// deferred one turn of the host's event queue through a Scheduler, because
// row geometry is only valid after the host has laid out the mutation.
//
// Every failure (missing pageShiftSize, malformed shift payload, shift
// count past the last row) is absorbed as a no-op and logged at debug
// level. Nothing is returned to the collaborator.
package scroller

import (
	"log/slog"
	"strconv"
	"strings"
)

// Observed attribute names.
const (
	AttrPageShiftSize = "pageShiftSize"
	AttrRecalculate   = "recalculate"
	AttrShift         = "shift"
)

// ObservedAttributes lists the attributes whose changes schedule work.
// pageShiftSize is read at measurement time and never observed.
var ObservedAttributes = []string{AttrRecalculate, AttrShift}

// Container is the scroll element a Scroller is attached to.
type Container interface {
	// Children returns the direct children in document order.
	Children() []Node
	// SetScrollTop moves the scroll offset. Implementations clamp and
	// report the result through their scroll listeners.
	SetScrollTop(top int)
	// OnScroll registers fn for scroll events and returns a function that
	// removes it.
	OnScroll(fn func(top int)) (unsubscribe func())
}

// Geometry reads the laid-out position and size of a row.
type Geometry interface {
	OffsetTop(n Node) int
	Height(n Node) int
}

// Phase is the lifecycle state of a Scroller.
type Phase int

const (
	Detached Phase = iota
	Idle
	RecalcPending
)

func (p Phase) String() string {
	switch p {
	case Detached:
		return "detached"
	case Idle:
		return "idle"
	case RecalcPending:
		return "recalc-pending"
	default:
		return "unknown"
	}
}

// State is a snapshot of the measured state. Nil pointers mean "not set".
type State struct {
	AboveHeight       *int
	ScrollPos         int
	PendingAdjustment *int
	QueuedRecalcs     int
	Attached          bool
}

// Option configures a Scroller.
type Option func(*Scroller)

// WithStrategy selects the measurement strategy. Default Boundary.
func WithStrategy(s Strategy) Option {
	return func(sc *Scroller) { sc.strategy = s }
}

// WithMatcher selects how rows are told apart from other children.
// Default MarkerAttr(DefaultRowMarker).
func WithMatcher(m Matcher) Option {
	return func(sc *Scroller) {
		if m != nil {
			sc.isRow = m
		}
	}
}

// WithLogger sets the logger for absorbed failures and passes.
func WithLogger(l *slog.Logger) Option {
	return func(sc *Scroller) {
		if l != nil {
			sc.logger = l
		}
	}
}

// Scroller is the position-preservation component. It is driven from a
// single event loop and is not safe for concurrent use.
type Scroller struct {
	sched    Scheduler
	geom     Geometry
	strategy Strategy
	isRow    Matcher
	logger   *slog.Logger

	attrs       map[string]string
	container   Container
	unsubscribe func()

	aboveHeight   *int
	scrollPos     int
	pending       *int
	queuedRecalcs int
}

// New returns a detached Scroller that defers its passes to sched and reads
// row geometry from geom.
func New(sched Scheduler, geom Geometry, opts ...Option) *Scroller {
	s := &Scroller{
		sched:    sched,
		geom:     geom,
		strategy: Boundary,
		isRow:    MarkerAttr(DefaultRowMarker),
		logger:   slog.New(slog.DiscardHandler),
		attrs:    make(map[string]string),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Attach starts tracking c's scroll position. Attaching to a new container
// detaches from the previous one first.
func (s *Scroller) Attach(c Container) {
	if s.container != nil {
		s.Detach()
	}
	s.container = c
	s.unsubscribe = c.OnScroll(s.OnScroll)
	s.logger.Debug("scroller attached", "strategy", s.strategy)
}

// Detach stops scroll tracking. Queued passes still run but do nothing
// while detached. There is nothing to flush.
func (s *Scroller) Detach() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.unsubscribe = nil
	s.container = nil
	s.logger.Debug("scroller detached")
}

// Phase reports the current lifecycle state.
func (s *Scroller) Phase() Phase {
	switch {
	case s.container == nil:
		return Detached
	case s.queuedRecalcs > 0:
		return RecalcPending
	default:
		return Idle
	}
}

// State returns a copy of the measured state.
func (s *Scroller) State() State {
	return State{
		AboveHeight:       copyInt(s.aboveHeight),
		ScrollPos:         s.scrollPos,
		PendingAdjustment: copyInt(s.pending),
		QueuedRecalcs:     s.queuedRecalcs,
		Attached:          s.container != nil,
	}
}

// Strategy returns the measurement strategy fixed at construction.
func (s *Scroller) Strategy() Strategy { return s.strategy }

// OnScroll records a scroll position. It is the listener registered with
// the container on Attach. Last write wins.
func (s *Scroller) OnScroll(top int) {
	s.scrollPos = top
}

// ---------------------------------------------------------------------------
// Attribute watcher
// ---------------------------------------------------------------------------

// Attribute returns the current value of an attribute.
func (s *Scroller) Attribute(name string) (string, bool) {
	v, ok := s.attrs[name]
	return v, ok
}

// SetAttribute stores an attribute and reacts when an observed attribute
// actually changes value.
func (s *Scroller) SetAttribute(name, value string) {
	old, had := s.attrs[name]
	s.attrs[name] = value
	if had && old == value {
		return
	}
	s.attributeChanged(name, value, true)
}

// RemoveAttribute deletes an attribute. Removal counts as a change.
func (s *Scroller) RemoveAttribute(name string) {
	if _, had := s.attrs[name]; !had {
		return
	}
	delete(s.attrs, name)
	s.attributeChanged(name, "", false)
}

func (s *Scroller) attributeChanged(name, value string, present bool) {
	switch name {
	case AttrRecalculate:
		s.scheduleRecalc()

	case AttrShift:
		if !present {
			s.logger.Debug("shift removed, nothing to do")
			return
		}
		shift, ok := ParseShift(value)
		if !ok {
			s.logger.Debug("ignoring malformed shift payload", "value", value)
			return
		}
		if shift.Direction != Down {
			s.logger.Debug("shift not compensated", "direction", shift.Direction)
			return
		}
		s.shiftDown()
	}
}

// shiftDown captures the pre-shift height and queues compensate-then-
// recalculate. The compensation closes over the captured value so that a
// recalculation queued by an earlier shift cannot erase it.
func (s *Scroller) shiftDown() {
	if s.aboveHeight == nil {
		s.logger.Debug("downward shift before first measurement")
		s.scheduleRecalc()
		return
	}
	adjustment := *s.aboveHeight
	s.pending = &adjustment
	s.sched.Defer(func() { s.Compensate(adjustment) })
	s.scheduleRecalc()
}

func (s *Scroller) scheduleRecalc() {
	s.queuedRecalcs++
	s.sched.Defer(func() {
		s.queuedRecalcs--
		s.Recalculate()
	})
}

// ---------------------------------------------------------------------------
// Height accumulator
// ---------------------------------------------------------------------------

// Recalculate remeasures aboveHeight from the container's current rows and
// clears any pending adjustment. Without a usable pageShiftSize, or while
// detached, it changes nothing.
func (s *Scroller) Recalculate() {
	if s.container == nil {
		s.logger.Debug("recalculate skipped: detached")
		return
	}
	n, ok := s.pageShiftSize()
	if !ok {
		return
	}
	rows := Rows(s.container.Children(), s.isRow)
	h := s.strategy.Measure(rows, n, s.geom)
	s.aboveHeight = &h
	s.pending = nil
	s.logger.Debug("recalculated",
		"pageShiftSize", n,
		"rows", len(rows),
		"aboveHeight", h,
	)
}

func (s *Scroller) pageShiftSize() (int, bool) {
	raw, ok := s.attrs[AttrPageShiftSize]
	if !ok {
		s.logger.Debug("recalculate skipped: no pageShiftSize")
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		s.logger.Debug("recalculate skipped: bad pageShiftSize", "value", raw)
		return 0, false
	}
	return n, true
}

// ---------------------------------------------------------------------------
// Scroll compensator
// ---------------------------------------------------------------------------

// Compensate moves the scroll offset to the last tracked position minus
// adjustment. The tracked position is used instead of a fresh read because
// the container may not yet reflect the mutation being compensated.
func (s *Scroller) Compensate(adjustment int) {
	if s.container == nil {
		s.logger.Debug("compensate skipped: detached")
		return
	}
	top := s.scrollPos - adjustment
	s.logger.Debug("compensating", "from", s.scrollPos, "by", adjustment, "to", top)
	s.container.SetScrollTop(top)
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
