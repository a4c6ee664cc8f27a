package component

import (
	"sync"

	"github.com/guise-dev/guise/pkg/sched"
)

// Attrs is a snapshot of a component's observed attributes.
type Attrs struct {
	values map[string]string
}

// Get returns the value of name and whether it is present.
func (a Attrs) Get(name string) (string, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Value returns the value of name, or "" when it is absent.
func (a Attrs) Value(name string) string {
	return a.values[name]
}

// Has reports whether name is present.
func (a Attrs) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Len returns the number of present attributes.
func (a Attrs) Len() int {
	return len(a.values)
}

func (a Attrs) clone() Attrs {
	if len(a.values) == 0 {
		return Attrs{}
	}
	out := make(map[string]string, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return Attrs{values: out}
}

func (a *Attrs) set(name, value string, present bool) {
	if !present {
		delete(a.values, name)
		return
	}
	if a.values == nil {
		a.values = make(map[string]string)
	}
	a.values[name] = value
}

// director holds the observed attribute state of one instance and the single
// waiter of its AttributesChanged stream.
type director struct {
	mu           sync.Mutex
	attrs        Attrs
	waker        sched.Waker
	armed        bool
	disconnected bool
}

func newDirector() *director {
	return &director{disconnected: true}
}

func (d *director) connect(seed Attrs) {
	d.mu.Lock()
	d.attrs = seed
	d.disconnected = false
	d.mu.Unlock()
}

// update records a change and wakes the waiter, if one is parked. Changes
// that arrive while the waiter is already awake coalesce into the snapshot it
// reads next. Changes while disconnected are dropped; connect reseeds.
func (d *director) update(name, value string, present bool) {
	d.mu.Lock()
	if d.disconnected {
		d.mu.Unlock()
		return
	}
	d.attrs.set(name, value, present)
	w := d.take()
	d.mu.Unlock()
	w.Wake()
}

func (d *director) disconnect() {
	d.mu.Lock()
	w := d.take()
	d.attrs = Attrs{}
	d.disconnected = true
	d.mu.Unlock()
	w.Wake()
}

func (d *director) snapshot() Attrs {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attrs.clone()
}

func (d *director) take() sched.Waker {
	if !d.armed {
		return sched.Waker{}
	}
	w := d.waker
	d.waker = sched.Waker{}
	d.armed = false
	return w
}

// AttributesChanged is the stream of observed attribute snapshots handed to a
// component's init function.
//
// The first poll after connecting yields the current snapshot. Later polls
// stay pending until at least one observed attribute changes; any number of
// changes in between produce a single item carrying the latest values. The
// stream ends when the component is disconnected.
type AttributesChanged struct {
	d *director
}

// PollNext implements sched.Stream.
func (c *AttributesChanged) PollNext(cx *sched.Context) (Attrs, sched.Poll) {
	d := c.d
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.disconnected {
		return Attrs{}, sched.Closed
	}
	if d.armed {
		d.waker = cx.Waker()
		return Attrs{}, sched.Pending
	}
	d.armed = true
	d.waker = cx.Waker()
	return d.attrs.clone(), sched.Ready
}
