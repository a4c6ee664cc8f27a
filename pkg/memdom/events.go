package memdom

import (
	"sync"

	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/sched"
)

// Event is a dispatched event. Each listening element receives its own copy
// with CurrentTarget set to itself.
type Event struct {
	Kind    string
	KeyName string

	target  *Element
	current *Element
}

var _ dom.KeyboardEvent = (*Event)(nil)

// Type implements dom.Event.
func (e *Event) Type() string { return e.Kind }

// Key implements dom.KeyboardEvent.
func (e *Event) Key() string { return e.KeyName }

// Target returns the element the event was dispatched on.
func (e *Event) Target() *Element { return e.target }

// CurrentTarget implements dom.Event.
func (e *Event) CurrentTarget() dom.Element {
	if e.current == nil {
		return nil
	}
	return e.current
}

// Events implements dom.Element.
func (e *Element) Events(kind string) dom.EventStream {
	s := &eventStream{el: e, kind: kind}
	if e.listeners == nil {
		e.listeners = make(map[string][]*eventStream)
	}
	e.listeners[kind] = append(e.listeners[kind], s)
	return s
}

// ListenerCount returns the number of open event streams of the given kind.
func (e *Element) ListenerCount(kind string) int {
	return len(e.listeners[kind])
}

// Dispatch delivers an event of the given kind to this element and then
// bubbles it through its ancestors, crossing shadow boundaries to the host.
// Delivery happens when the scheduler next runs.
func (e *Element) Dispatch(ev *Event) {
	ev.target = e
	for cur := e; cur != nil; cur = parentElement(cur) {
		for _, s := range append([]*eventStream(nil), cur.listeners[ev.Kind]...) {
			cp := *ev
			cp.current = cur
			s.push(&cp)
		}
	}
}

// Click dispatches a click event.
func (e *Element) Click() { e.Dispatch(&Event{Kind: "click"}) }

// DoubleClick dispatches a dblclick event.
func (e *Element) DoubleClick() { e.Dispatch(&Event{Kind: "dblclick"}) }

// Type sets the live value as a user would and dispatches an input event.
func (e *Element) Type(value string) {
	e.SetValue(value)
	e.Dispatch(&Event{Kind: "input"})
}

// KeyDown dispatches a keydown event for key.
func (e *Element) KeyDown(key string) { e.Dispatch(&Event{Kind: "keydown", KeyName: key}) }

// Toggle flips the live checked state as a user click would and dispatches
// input and change events.
func (e *Element) Toggle() {
	e.checked = !e.checked
	e.checkedDirty = true
	e.Dispatch(&Event{Kind: "input"})
	e.Dispatch(&Event{Kind: "change"})
}

// Blur dispatches a focusout event and drops focus.
func (e *Element) Blur() {
	if e.doc.active == e {
		e.doc.active = nil
	}
	e.Dispatch(&Event{Kind: "focusout"})
}

func parentElement(e *Element) *Element {
	switch p := e.parent.(type) {
	case *Element:
		return p
	case *ShadowRoot:
		return p.host
	default:
		return nil
	}
}

type eventStream struct {
	mu     sync.Mutex
	el     *Element
	kind   string
	buf    []dom.Event
	waker  sched.Waker
	closed bool
}

func (s *eventStream) push(ev dom.Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.buf = append(s.buf, ev)
	w := s.waker
	s.waker = sched.Waker{}
	s.mu.Unlock()
	w.Wake()
}

// PollNext implements sched.Stream.
func (s *eventStream) PollNext(cx *sched.Context) (dom.Event, sched.Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) > 0 {
		ev := s.buf[0]
		s.buf[0] = nil
		s.buf = s.buf[1:]
		return ev, sched.Ready
	}
	if s.closed {
		return nil, sched.Closed
	}
	s.waker = cx.Waker()
	return nil, sched.Pending
}

// Close removes the listener. Buffered events are dropped.
func (s *eventStream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.buf = nil
	w := s.waker
	s.waker = sched.Waker{}
	s.mu.Unlock()

	list := s.el.listeners[s.kind]
	for i, l := range list {
		if l == s {
			s.el.listeners[s.kind] = append(list[:i], list[i+1:]...)
			break
		}
	}
	w.Wake()
}
