// Package vtest provides testing helpers for guise components.
//
// The vtest package reduces the boilerplate of wiring a scheduler, an
// in-memory document and a component registry, and adds render assertions.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New(t, []component.Definition{counterDef})
//	    el := h.Mount("x-counter")
//	    vtest.Child(t, el, 0).Click()
//	    h.Settle()
//	    h.ExpectHTML("<x-counter><button>1</button></x-counter>")
//	}
//
// # Registry Options
//
// Recorders, tracers and commit observers are passed through to the
// registry:
//
//	h := vtest.New(t, defs, component.WithRecorder(rec))
//
// # Render Assertions
//
// Trees can be checked without a component around them:
//
//	html := vtest.RenderToString(tree)
//	vtest.ExpectContains(t, tree, "Increment!")
package vtest
