package component

import (
	"sync"

	"github.com/guise-dev/guise/pkg/sched"
	"github.com/guise-dev/guise/pkg/vdom"
)

type modelState[T any] struct {
	mu       sync.Mutex
	value    T
	waker    sched.Waker
	armed    bool
	gone     bool
	updating bool
}

// ViewModel owns a component's model value until it is turned into a render
// stream with Rendered.
//
//	vm := component.NewViewModel(counter{})
//	up := vm.Updater()
//	return vm.Rendered(func(c *counter) *vdom.Tree {
//	    t := vdom.New()
//	    t.Element("button", func(b *vdom.Builder) {
//	        vdom.OnFunc(b, "click", func(dom.Event) {
//	            up.Update(func(c *counter) { c.n++ })
//	        })
//	        b.Text(strconv.Itoa(c.n))
//	    })
//	    return t
//	})
type ViewModel[T any] struct {
	st *modelState[T]
}

// NewViewModel creates a view model holding initial.
func NewViewModel[T any](initial T) *ViewModel[T] {
	return &ViewModel[T]{st: &modelState[T]{value: initial}}
}

// Updater returns a handle that mutates the model.
func (vm *ViewModel[T]) Updater() Updater[T] {
	return Updater[T]{st: vm.st}
}

// Rendered returns the render stream of the model: render is called with the
// current value on the first poll and on the first poll after each update.
// Updates between two polls coalesce into one render.
func (vm *ViewModel[T]) Rendered(render func(m *T) *vdom.Tree) *Rendered[T] {
	return &Rendered[T]{st: vm.st, render: render}
}

// Updater mutates a view model and schedules a re-render. It is a value type
// and may be copied freely.
type Updater[T any] struct {
	st *modelState[T]
}

// Update applies fn to the model and wakes the render stream. It returns
// ErrGone without calling fn once the render stream has been closed. Calling
// Update from inside fn panics.
func (u Updater[T]) Update(fn func(m *T)) error {
	st := u.st
	st.mu.Lock()
	if st.gone {
		st.mu.Unlock()
		return ErrGone
	}
	if st.updating {
		st.mu.Unlock()
		panic("component: reentrant Update")
	}
	st.updating = true
	st.mu.Unlock()

	defer func() {
		st.mu.Lock()
		st.updating = false
		w := sched.Waker{}
		if st.armed {
			w = st.waker
			st.waker = sched.Waker{}
			st.armed = false
		}
		st.mu.Unlock()
		w.Wake()
	}()

	fn(&st.value)
	return nil
}

// Rendered is the stream of trees rendered from a view model. Closing it
// makes every Updater of the model return ErrGone.
type Rendered[T any] struct {
	st     *modelState[T]
	render func(m *T) *vdom.Tree
}

// PollNext implements sched.Stream.
func (r *Rendered[T]) PollNext(cx *sched.Context) (*vdom.Tree, sched.Poll) {
	st := r.st
	st.mu.Lock()
	if st.gone {
		st.mu.Unlock()
		return nil, sched.Closed
	}
	if st.armed {
		st.waker = cx.Waker()
		st.mu.Unlock()
		return nil, sched.Pending
	}
	st.armed = true
	st.waker = cx.Waker()
	st.mu.Unlock()

	return r.render(&st.value), sched.Ready
}

// Close ends the stream.
func (r *Rendered[T]) Close() {
	r.st.mu.Lock()
	r.st.gone = true
	r.st.waker = sched.Waker{}
	r.st.mu.Unlock()
}
