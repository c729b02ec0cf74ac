package scroller

// Scheduler defers work to a later turn of the host's event queue. Layout
// reads are only valid once the host has settled the row mutation that
// triggered them, so the scroller never measures inside a callback.
type Scheduler interface {
	Defer(task func())
}

// Queue is a FIFO Scheduler the host drains one turn at a time.
// It is not safe for concurrent use; the host event loop owns it.
type Queue struct {
	tasks []func()
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Defer appends task to the next turn.
func (q *Queue) Defer(task func()) {
	if task == nil {
		return
	}
	q.tasks = append(q.tasks, task)
}

// Len returns the number of tasks waiting for a turn.
func (q *Queue) Len() int { return len(q.tasks) }

// Flush runs one turn: exactly the tasks queued before the call, in order.
// Tasks deferred while flushing wait for the following turn. It returns the
// number of tasks run.
func (q *Queue) Flush() int {
	turn := q.tasks
	q.tasks = nil
	for _, task := range turn {
		task()
	}
	return len(turn)
}

// Drain flushes turns until the queue is empty or maxTurns turns have run,
// and returns the number of turns taken. maxTurns <= 0 means no limit.
func (q *Queue) Drain(maxTurns int) int {
	turns := 0
	for len(q.tasks) > 0 {
		if maxTurns > 0 && turns >= maxTurns {
			break
		}
		q.Flush()
		turns++
	}
	return turns
}
