package sched

import "sync"

// Queue is a bounded FIFO that is a Sink on one end and a Stream on the other.
// A full queue applies backpressure: PollReady stays Pending until the
// consumer takes an item.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
	closed   bool
	sender   Waker
	receiver Waker
}

// NewQueue creates a queue holding at most capacity items (minimum 1).
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{capacity: capacity}
}

// PollReady implements Sink.
func (q *Queue[T]) PollReady(cx *Context) Poll {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || len(q.items) < q.capacity {
		return Ready
	}
	q.sender = cx.Waker()
	return Pending
}

// Send implements Sink. Items sent after Close are dropped.
func (q *Queue[T]) Send(item T) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, item)
	w := q.receiver
	q.receiver = Waker{}
	q.mu.Unlock()
	w.Wake()
}

// PollFlush implements Sink. A queue never holds items on the sending side.
func (q *Queue[T]) PollFlush(*Context) Poll { return Ready }

// PollNext implements Stream.
func (q *Queue[T]) PollNext(cx *Context) (T, Poll) {
	var zero T
	q.mu.Lock()
	if len(q.items) > 0 {
		item := q.items[0]
		q.items[0] = zero
		q.items = q.items[1:]
		w := q.sender
		q.sender = Waker{}
		q.mu.Unlock()
		w.Wake()
		return item, Ready
	}
	if q.closed {
		q.mu.Unlock()
		return zero, Closed
	}
	q.receiver = cx.Waker()
	q.mu.Unlock()
	return zero, Pending
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close ends the stream once the buffered items are drained.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	r, s := q.receiver, q.sender
	q.receiver, q.sender = Waker{}, Waker{}
	q.mu.Unlock()
	r.Wake()
	s.Wake()
}
