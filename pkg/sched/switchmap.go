package sched

// SwitchMap maps every item of outer to an inner stream and yields the items
// of the most recent inner stream. When outer yields again the current inner
// stream is closed and replaced. The result closes when outer closes; an inner
// stream ending on its own just waits for the next outer item.
func SwitchMap[A, B any](outer Stream[A], f func(A) Stream[B]) Stream[B] {
	return &switchMap[A, B]{outer: outer, f: f}
}

type switchMap[A, B any] struct {
	outer Stream[A]
	inner Stream[B]
	f     func(A) Stream[B]
	done  bool
}

func (s *switchMap[A, B]) PollNext(cx *Context) (B, Poll) {
	var zero B
	if s.done {
		return zero, Closed
	}
	for {
		a, p := s.outer.PollNext(cx)
		switch p {
		case Ready:
			CloseStream(s.inner)
			s.inner = s.f(a)
			continue
		case Closed:
			CloseStream(s.inner)
			s.inner = nil
			s.done = true
			return zero, Closed
		}

		if s.inner == nil {
			return zero, Pending
		}
		b, ip := s.inner.PollNext(cx)
		switch ip {
		case Ready:
			return b, Ready
		case Closed:
			CloseStream(s.inner)
			s.inner = nil
		default:
			return zero, Pending
		}
	}
}

// Close closes the outer and the current inner stream.
func (s *switchMap[A, B]) Close() {
	CloseStream(s.inner)
	s.inner = nil
	CloseStream(s.outer)
	s.done = true
}
