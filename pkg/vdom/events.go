package vdom

import (
	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/sched"
)

// Mouse events

// OnClick forwards click events to sink.
func OnClick(b *Builder, sink sched.Sink[dom.Event]) { On(b, "click", sink) }

// OnDblClick forwards double-click events to sink.
func OnDblClick(b *Builder, sink sched.Sink[dom.Event]) { On(b, "dblclick", sink) }

// Form events

// OnInput forwards input events to sink.
func OnInput(b *Builder, sink sched.Sink[dom.Event]) { On(b, "input", sink) }

// OnChange forwards change events to sink.
func OnChange(b *Builder, sink sched.Sink[dom.Event]) { On(b, "change", sink) }

// OnSubmit forwards submit events to sink.
func OnSubmit(b *Builder, sink sched.Sink[dom.Event]) { On(b, "submit", sink) }

// Focus events

// OnFocusOut forwards focusout events to sink. Unlike blur, focusout bubbles.
func OnFocusOut(b *Builder, sink sched.Sink[dom.Event]) { On(b, "focusout", sink) }

// Keyboard events

// OnKeyDown forwards keydown events to sink.
func OnKeyDown(b *Builder, sink sched.Sink[dom.KeyboardEvent]) { On(b, "keydown", sink) }

// OnKeyUp forwards keyup events to sink.
func OnKeyUp(b *Builder, sink sched.Sink[dom.KeyboardEvent]) { On(b, "keyup", sink) }
