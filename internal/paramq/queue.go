// Package paramq implements the one-way parameter channel between the control
// context and the real-time processing context.
//
// The queue is an unbounded multi-producer, single-consumer linked list with a
// stub node. Producers allocate one node per Send and publish it with a single
// atomic swap; the consumer follows next pointers with atomic loads and never
// allocates, locks or blocks.
//
// Thread assignment:
//   - Send: any goroutine in the control context
//   - TryReceive: the processing context only
package paramq

import "sync/atomic"

type node struct {
	next atomic.Pointer[node]
	msg  Message
}

// Queue is an unbounded MPSC message queue. The zero value is not usable; call New.
type Queue struct {
	// Producers swap head; the consumer owns tail. Separate cache lines to
	// prevent false sharing between the two sides.
	head atomic.Pointer[node]
	_pad [56]byte
	tail *node
}

// New creates an empty queue.
func New() *Queue {
	stub := &node{}
	q := &Queue{tail: stub}
	q.head.Store(stub)
	return q
}

// Send appends m to the queue. It never blocks and never fails.
func (q *Queue) Send(m Message) {
	n := &node{msg: m}
	prev := q.head.Swap(n)
	prev.next.Store(n)
}

// TryReceive returns the oldest pending message, or false if the queue is
// empty. A message whose Send is still in flight is reported on a later call.
func (q *Queue) TryReceive() (Message, bool) {
	next := q.tail.next.Load()
	if next == nil {
		return Message{}, false
	}
	// next becomes the new stub; the old one is left to the collector.
	q.tail = next
	return next.msg, true
}
