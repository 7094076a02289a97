package core

import "github.com/gammazero/deque"

// Channel is an unbounded FIFO of values sent by one lane and received by
// another. Push appends to the tail and Pop removes from the head.
type Channel struct {
	name  string
	queue deque.Deque[int64]

	pushed int
}

// NewChannel creates an empty channel.
func NewChannel(name string) *Channel {
	return &Channel{name: name}
}

// Name returns the name of the channel.
func (c *Channel) Name() string {
	return c.name
}

// Push appends v to the tail of the channel.
func (c *Channel) Push(v int64) {
	c.queue.PushBack(v)
	c.pushed++
}

// Pop removes and returns the head of the channel.
func (c *Channel) Pop() (int64, bool) {
	if c.queue.Len() == 0 {
		return 0, false
	}

	return c.queue.PopFront(), true
}

// Peek returns the head of the channel without removing it.
func (c *Channel) Peek() (int64, bool) {
	if c.queue.Len() == 0 {
		return 0, false
	}

	return c.queue.Front(), true
}

// Len returns the number of queued values.
func (c *Channel) Len() int {
	return c.queue.Len()
}

// Pushed returns how many values were ever pushed.
func (c *Channel) Pushed() int {
	return c.pushed
}
