// Package schedule runs deferred editor work once per animation tick.
package schedule

// Task is a unit of deferred work.
type Task func()

// Queue is a strict FIFO of tasks. It is driven from the editor's single
// thread of control and is not safe for concurrent use.
type Queue struct {
	tasks []Task
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add enqueues t.
func (q *Queue) Add(t Task) {
	if t == nil {
		return
	}
	q.tasks = append(q.tasks, t)
}

// Drain runs the tasks queued before the call, in order, and returns how many
// ran. Tasks added while draining wait for the next drain.
func (q *Queue) Drain() int {
	pending := q.tasks
	q.tasks = nil
	for _, t := range pending {
		t()
	}
	return len(pending)
}

// Discard drops every pending task.
func (q *Queue) Discard() int {
	n := len(q.tasks)
	q.tasks = nil
	return n
}

// Len is the number of pending tasks.
func (q *Queue) Len() int { return len(q.tasks) }

// Coalescer collapses bursts of values into at most one queued handler call
// that sees the latest value.
type Coalescer[T any] struct {
	queue   *Queue
	handler func(T)
	latest  T
	pending bool
}

// NewCoalescer creates a coalescer feeding handler through q.
func NewCoalescer[T any](q *Queue, handler func(T)) *Coalescer[T] {
	return &Coalescer[T]{queue: q, handler: handler}
}

// Push records v and schedules the handler unless a call is already pending.
func (c *Coalescer[T]) Push(v T) {
	c.latest = v
	if c.pending {
		return
	}
	c.pending = true
	c.queue.Add(c.flush)
}

// Pending reports whether a handler call is queued.
func (c *Coalescer[T]) Pending() bool { return c.pending }

// Reset forgets a pending value; the queued call becomes a no-op.
func (c *Coalescer[T]) Reset() {
	var zero T
	c.latest = zero
	c.pending = false
}

func (c *Coalescer[T]) flush() {
	if !c.pending {
		return
	}
	c.pending = false
	v := c.latest
	c.handler(v)
}
