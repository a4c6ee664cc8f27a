package vdom

import (
	"fmt"

	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/sched"
)

// rawSink is a sink with its event type erased.
type rawSink interface {
	PollReady(cx *sched.Context) sched.Poll
	Send(ev dom.Event)
	PollFlush(cx *sched.Context) sched.Poll
}

type typedSink[E dom.Event] struct {
	s sched.Sink[E]
}

func (t typedSink[E]) PollReady(cx *sched.Context) sched.Poll { return t.s.PollReady(cx) }
func (t typedSink[E]) PollFlush(cx *sched.Context) sched.Poll { return t.s.PollFlush(cx) }

func (t typedSink[E]) Send(ev dom.Event) {
	e, ok := ev.(E)
	if !ok {
		panic(fmt.Sprintf("vdom: %q event of type %T cannot be sent to a sink of %T", ev.Type(), ev, (*E)(nil)))
	}
	t.s.Send(e)
}

// On attaches sink to the element being built. Once the tree is committed,
// every event of the given kind on the live element is forwarded to sink
// until the tree is superseded. A live event that does not implement E
// panics on delivery.
func On[E dom.Event](b *Builder, kind string, sink sched.Sink[E]) {
	b.t.addSink(b.id, kind, typedSink[E]{s: sink})
}

// OnFunc attaches a callback to the element being built.
func OnFunc[E dom.Event](b *Builder, kind string, fn func(E)) {
	On[E](b, kind, sched.NewListener(fn))
}

type spawnState uint8

const (
	spawnUnused spawnState = iota
	spawnSpawned
	spawnGone
)

// spawner turns a sink into a forwarding task exactly once.
type spawner struct {
	kind   string
	sink   rawSink
	state  spawnState
	handle *sched.Handle
}

func (sp *spawner) spawn(s *sched.Scheduler, el dom.Element) {
	if sp.state != spawnUnused {
		panic("vdom: event sink spawned twice")
	}
	t := &sinkTask{events: el.Events(sp.kind), sink: sp.sink}
	sp.handle = s.Spawn("sink:"+sp.kind, t)
	sp.sink = nil
	sp.state = spawnSpawned
}

func (sp *spawner) cancel() {
	if sp.state == spawnSpawned {
		sp.handle.Abort()
		sp.handle = nil
	}
	sp.sink = nil
	sp.state = spawnGone
}

// sinkTask forwards an element's event stream into a sink, honouring its
// backpressure.
type sinkTask struct {
	events   dom.EventStream
	sink     rawSink
	buffered dom.Event
}

func (t *sinkTask) Poll(cx *sched.Context) sched.Poll {
	for {
		if t.buffered != nil {
			if t.sink.PollReady(cx) == sched.Pending {
				return sched.Pending
			}
			ev := t.buffered
			t.buffered = nil
			t.sink.Send(ev)
		}

		ev, p := t.events.PollNext(cx)
		switch p {
		case sched.Ready:
			t.buffered = ev
		case sched.Closed:
			if t.sink.PollFlush(cx) == sched.Pending {
				return sched.Pending
			}
			return sched.Ready
		default:
			t.sink.PollFlush(cx)
			return sched.Pending
		}
	}
}

// Cancel closes the event stream, removing the live listener.
func (t *sinkTask) Cancel() {
	t.events.Close()
}
