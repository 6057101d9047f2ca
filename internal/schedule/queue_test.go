package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueDrainsInOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := range 3 {
		q.Add(func() { got = append(got, i) })
	}
	q.Add(nil)
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, 0, q.Len())
}

func TestQueueDefersTasksAddedDuringDrain(t *testing.T) {
	q := NewQueue()
	var got []string
	q.Add(func() {
		got = append(got, "first")
		q.Add(func() { got = append(got, "later") })
	})

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []string{"first"}, got)
	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []string{"first", "later"}, got)
}

func TestQueueDiscard(t *testing.T) {
	q := NewQueue()
	ran := false
	q.Add(func() { ran = true })
	assert.Equal(t, 1, q.Discard())
	assert.Equal(t, 0, q.Drain())
	assert.False(t, ran)
}

func TestCoalescerKeepsLatest(t *testing.T) {
	q := NewQueue()
	var seen []int
	c := NewCoalescer(q, func(v int) { seen = append(seen, v) })

	c.Push(1)
	c.Push(2)
	c.Push(3)
	assert.Equal(t, 1, q.Len())
	assert.True(t, c.Pending())

	q.Drain()
	assert.Equal(t, []int{3}, seen)

	c.Push(4)
	q.Drain()
	assert.Equal(t, []int{3, 4}, seen)
}

func TestCoalescerPreservesEnqueueOrder(t *testing.T) {
	q := NewQueue()
	var trace []string
	c := NewCoalescer(q, func(v string) { trace = append(trace, "move:"+v) })

	c.Push("a")
	q.Add(func() { trace = append(trace, "redraw") })
	c.Push("b")
	q.Drain()

	assert.Equal(t, []string{"move:b", "redraw"}, trace)
}

func TestCoalescerReset(t *testing.T) {
	q := NewQueue()
	calls := 0
	c := NewCoalescer(q, func(int) { calls++ })
	c.Push(1)
	c.Reset()
	q.Drain()
	assert.Equal(t, 0, calls)
}
