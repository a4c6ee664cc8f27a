package sched

// Stream is a cooperatively polled sequence of values.
//
// PollNext returns (item, Ready) when an item is available, (zero, Closed)
// once the stream has ended, and (zero, Pending) after registering cx.Waker()
// to be woken when either becomes true.
type Stream[T any] interface {
	PollNext(cx *Context) (T, Poll)
}

// Closer is implemented by streams that own resources or state which must be
// torn down when their consumer goes away.
type Closer interface {
	Close()
}

// CloseStream closes s if it implements Closer.
func CloseStream(s any) {
	if c, ok := s.(Closer); ok {
		c.Close()
	}
}

// Sink is a backpressure-aware consumer.
type Sink[T any] interface {
	// PollReady returns Ready when Send may be called.
	PollReady(cx *Context) Poll
	// Send delivers one item. Only valid after PollReady returned Ready.
	Send(item T)
	// PollFlush returns Ready once every sent item has been processed.
	PollFlush(cx *Context) Poll
}

// Listener is a Sink that hands each item to a function. It is always ready.
type Listener[T any] struct {
	fn func(T)
}

// NewListener wraps fn as a Sink.
func NewListener[T any](fn func(T)) Listener[T] {
	return Listener[T]{fn: fn}
}

// PollReady implements Sink.
func (l Listener[T]) PollReady(*Context) Poll { return Ready }

// Send implements Sink.
func (l Listener[T]) Send(item T) {
	if l.fn != nil {
		l.fn(item)
	}
}

// PollFlush implements Sink.
func (l Listener[T]) PollFlush(*Context) Poll { return Ready }

// ForEach returns a task that drains s, calling fn for every item. The task
// completes when s closes. Aborting the task closes s.
func ForEach[T any](s Stream[T], fn func(T)) Task {
	return &forEach[T]{s: s, fn: fn}
}

type forEach[T any] struct {
	s  Stream[T]
	fn func(T)
}

func (f *forEach[T]) Poll(cx *Context) Poll {
	for {
		item, p := f.s.PollNext(cx)
		switch p {
		case Ready:
			f.fn(item)
		case Closed:
			return Ready
		default:
			return Pending
		}
	}
}

func (f *forEach[T]) Cancel() {
	CloseStream(f.s)
}

// Map returns a stream yielding f of every item of s. Closing it closes s.
func Map[A, B any](s Stream[A], f func(A) B) Stream[B] {
	return &mapped[A, B]{s: s, f: f}
}

type mapped[A, B any] struct {
	s Stream[A]
	f func(A) B
}

func (m *mapped[A, B]) PollNext(cx *Context) (B, Poll) {
	a, p := m.s.PollNext(cx)
	if p != Ready {
		var zero B
		return zero, p
	}
	return m.f(a), Ready
}

// Close closes the source stream.
func (m *mapped[A, B]) Close() {
	CloseStream(m.s)
}
