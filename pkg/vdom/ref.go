package vdom

import (
	"sync"

	"github.com/guise-dev/guise/pkg/dom"
)

// Ref captures the live element a virtual element was committed to.
//
// A Ref is filled each time a tree that references it is committed, and
// holds whatever element the most recent commit produced. Ref is safe for
// concurrent access.
//
//	input := vdom.NewRef()
//	t.Element("input", func(b *vdom.Builder) {
//	    b.Ref(input)
//	})
//	t.OnCommitted(func(dom.Element) {
//	    if f, ok := input.Get().(dom.Focusable); ok {
//	        f.Focus()
//	    }
//	})
type Ref struct {
	mu    sync.RWMutex
	el    dom.Element
	isSet bool
}

// NewRef creates an empty Ref.
func NewRef() *Ref {
	return &Ref{}
}

// Get returns the captured element, or nil before the first commit.
func (r *Ref) Get() dom.Element {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.el
}

// IsSet reports whether an element has been captured.
func (r *Ref) IsSet() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isSet
}

// Clear empties the capture.
func (r *Ref) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.el = nil
	r.isSet = false
}

func (r *Ref) set(el dom.Element) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.el = el
	r.isSet = true
}
