package scenario

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/miosa/osa-scroll/scroller"
	"github.com/miosa/osa-scroll/ui/list"
)

// ErrExpectation marks a failed expect step.
var ErrExpectation = errors.New("expectation failed")

// Trace is one executed step with the state after it.
type Trace struct {
	Step  int
	What  string
	State scroller.State
	Top   int
	Phase scroller.Phase
}

func (t Trace) String() string {
	return fmt.Sprintf("%2d %-28s top=%-5d above=%-5s pending=%-5s %s",
		t.Step, t.What, t.Top, fmtPtr(t.State.AboveHeight), fmtPtr(t.State.PendingAdjustment), t.Phase)
}

// block is a blank list item of fixed height.
type block struct {
	id     string
	height int
	row    bool
}

func (b block) ID() string          { return b.id }
func (b block) ContentVersion() int { return 1 }
func (b block) Height(int) int      { return b.height }
func (b block) Render(int) string   { return strings.Repeat("\n", max(b.height-1, 0)) }
func (b block) Attr(name string) (string, bool) {
	if b.row && name == scroller.DefaultRowMarker {
		return "true", true
	}
	return "", false
}

// Runner holds the live objects of a scenario run.
type Runner struct {
	List     *list.Model
	Queue    *scroller.Queue
	Scroller *scroller.Scroller

	nextID int
}

// NewRunner builds the list and an attached scroller for sc.
func NewRunner(sc *Scenario, logger *slog.Logger) (*Runner, error) {
	strategy := scroller.Boundary
	if sc.Strategy != "" {
		var err error
		if strategy, err = scroller.ParseStrategy(sc.Strategy); err != nil {
			return nil, err
		}
	}
	opts := []scroller.Option{scroller.WithStrategy(strategy), scroller.WithLogger(logger)}
	if sc.Marker != "" {
		opts = append(opts, scroller.WithMatcher(scroller.MarkerAttr(sc.Marker)))
	}

	r := &Runner{
		List:  list.New(list.WithWidth(20), list.WithHeight(sc.Viewport), list.WithGap(sc.Gap)),
		Queue: scroller.NewQueue(),
	}
	r.List.SetItems(r.blocks(sc.Rows))
	r.Scroller = scroller.New(r.Queue, r.List, opts...)
	r.Scroller.Attach(r.List)
	return r, nil
}

// Run executes every step of sc, stopping at the first failed expectation.
// The trace covers the steps that ran.
func Run(sc *Scenario, logger *slog.Logger) ([]Trace, error) {
	r, err := NewRunner(sc, logger)
	if err != nil {
		return nil, err
	}
	trace := make([]Trace, 0, len(sc.Steps))
	for i, st := range sc.Steps {
		what, err := r.Step(st)
		trace = append(trace, Trace{
			Step:  i + 1,
			What:  what,
			State: r.Scroller.State(),
			Top:   r.List.ScrollTop(),
			Phase: r.Scroller.Phase(),
		})
		if err != nil {
			return trace, fmt.Errorf("step %d (%s): %w", i+1, what, err)
		}
	}
	return trace, nil
}

// Step applies one step and describes it.
func (r *Runner) Step(st Step) (string, error) {
	switch {
	case st.Set != nil:
		parts := make([]string, len(st.Set))
		for i, a := range st.Set {
			r.Scroller.SetAttribute(a.Name, a.Value)
			parts[i] = a.Name + "=" + a.Value
		}
		return "set " + strings.Join(parts, " "), nil
	case st.Remove != "":
		r.Scroller.RemoveAttribute(st.Remove)
		return "remove " + st.Remove, nil
	case st.Flush != nil:
		if *st.Flush <= 0 {
			return fmt.Sprintf("drain (%d turns)", r.Queue.Drain(0)), nil
		}
		return fmt.Sprintf("flush %d", r.Queue.Drain(*st.Flush)), nil
	case st.Scroll != nil:
		r.List.SetScrollTop(*st.Scroll)
		return fmt.Sprintf("scroll %d", *st.Scroll), nil
	case st.RemoveFirst > 0:
		r.List.RemoveFirst(st.RemoveFirst)
		return fmt.Sprintf("remove_first %d", st.RemoveFirst), nil
	case st.RemoveLast > 0:
		r.List.RemoveLast(st.RemoveLast)
		return fmt.Sprintf("remove_last %d", st.RemoveLast), nil
	case st.Append != nil:
		r.List.AppendItems(r.blocks(st.Append)...)
		return fmt.Sprintf("append %d", len(st.Append)), nil
	case st.Prepend != nil:
		r.List.PrependItems(r.blocks(st.Prepend)...)
		return fmt.Sprintf("prepend %d", len(st.Prepend)), nil
	case st.Detach:
		r.Scroller.Detach()
		return "detach", nil
	case st.Attach:
		r.Scroller.Attach(r.List)
		return "attach", nil
	case st.Expect != nil:
		return "expect", r.check(*st.Expect)
	default:
		return "noop", nil
	}
}

func (r *Runner) check(e Expect) error {
	st := r.Scroller.State()
	var fails []string
	if e.ScrollTop != nil && r.List.ScrollTop() != *e.ScrollTop {
		fails = append(fails, fmt.Sprintf("scrollTop = %d, want %d", r.List.ScrollTop(), *e.ScrollTop))
	}
	if e.ScrollPos != nil && st.ScrollPos != *e.ScrollPos {
		fails = append(fails, fmt.Sprintf("scrollPos = %d, want %d", st.ScrollPos, *e.ScrollPos))
	}
	if msg, ok := e.AboveHeight.mismatch("aboveHeight", st.AboveHeight); !ok {
		fails = append(fails, msg)
	}
	if msg, ok := e.Pending.mismatch("pending", st.PendingAdjustment); !ok {
		fails = append(fails, msg)
	}
	if e.Queued != nil && st.QueuedRecalcs != *e.Queued {
		fails = append(fails, fmt.Sprintf("queued = %d, want %d", st.QueuedRecalcs, *e.Queued))
	}
	if e.Phase != "" && r.Scroller.Phase().String() != e.Phase {
		fails = append(fails, fmt.Sprintf("phase = %s, want %s", r.Scroller.Phase(), e.Phase))
	}
	if len(fails) > 0 {
		return fmt.Errorf("%w: %s", ErrExpectation, strings.Join(fails, "; "))
	}
	return nil
}

func (m Maybe) mismatch(name string, got *int) (string, bool) {
	switch {
	case !m.Given:
		return "", true
	case m.Null && got != nil:
		return fmt.Sprintf("%s = %d, want unset", name, *got), false
	case m.Null:
		return "", true
	case got == nil:
		return fmt.Sprintf("%s unset, want %d", name, m.Value), false
	case *got != m.Value:
		return fmt.Sprintf("%s = %d, want %d", name, *got, m.Value), false
	}
	return "", true
}

func (r *Runner) blocks(specs []RowSpec) []list.Item {
	items := make([]list.Item, len(specs))
	for i, s := range specs {
		items[i] = block{id: fmt.Sprintf("b%d", r.nextID), height: max(s.Height, 1), row: s.Row}
		r.nextID++
	}
	return items
}

func fmtPtr(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}
