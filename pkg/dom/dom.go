// Package dom defines the live node tree and event source abstractions that
// the reconciler patches. A platform binding implements these interfaces;
// package memdom provides a headless in-memory one.
package dom

import "github.com/guise-dev/guise/pkg/sched"

// NodeType distinguishes live node kinds.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is a live node.
type Node interface {
	NodeType() NodeType

	// ReplaceWith puts n in this node's place. No-op for detached nodes.
	ReplaceWith(n Node)

	// Remove detaches the node from its parent.
	Remove()
}

// Parent is a live node that owns an ordered child list: an element or a
// shadow root.
type Parent interface {
	// ChildNodes returns a snapshot of the current children.
	ChildNodes() []Node

	// AppendChild moves n to the end of the child list.
	AppendChild(n Node)

	OwnerDocument() Document
}

// Element is a live element node.
type Element interface {
	Node
	Parent

	TagName() string

	// Is returns the customization name of a customized built-in element,
	// or "" for plain and autonomous elements.
	Is() string

	SetAttribute(name, value string)
	RemoveAttribute(name string)
	GetAttribute(name string) (string, bool)

	// IsConnected reports whether the element is attached to the document.
	IsConnected() bool

	// Events opens a new stream of events of the given kind targeting or
	// bubbling through this element.
	Events(kind string) EventStream
}

// Text is a live text node.
type Text interface {
	Node
	Data() string
	SetData(data string)
}

// Checkable is implemented by form controls with a live checked state that
// is separate from the "checked" content attribute.
type Checkable interface {
	Checked() bool
	SetChecked(checked bool)
}

// ValueHolder is implemented by form controls with a live value.
type ValueHolder interface {
	Value() string
	SetValue(value string)
}

// Focusable is implemented by elements that can take focus.
type Focusable interface {
	Focus()
}

// ShadowHost is implemented by elements that can host a shadow root.
type ShadowHost interface {
	// AttachShadow creates the shadow root, or returns the existing one.
	AttachShadow() Parent
	ShadowRoot() Parent
}

// Document creates live nodes and owns the scheduler that delivers their
// events.
type Document interface {
	CreateElement(tag string) Element
	CreateCustomizedElement(tag, is string) Element
	CreateText(data string) Text
	Scheduler() *sched.Scheduler
}

// Event is a platform event.
type Event interface {
	Type() string

	// CurrentTarget is the element whose stream delivered the event.
	CurrentTarget() Element
}

// KeyboardEvent is an event that carries a key.
type KeyboardEvent interface {
	Event
	Key() string
}

// EventStream is a restartable, cancellable sequence of events. Closing it
// removes the underlying listener.
type EventStream interface {
	sched.Stream[Event]
	Close()
}

// CustomElementHooks receives the lifecycle callbacks of custom elements.
type CustomElementHooks interface {
	// Defines reports whether el is a defined custom element.
	Defines(el Element) bool
	Connected(el Element)
	Disconnected(el Element)
	AttributeChanged(el Element, name, value string, present bool)
}

// CustomElementHost is implemented by documents that support custom element
// lifecycle callbacks.
type CustomElementHost interface {
	SetCustomElementHooks(hooks CustomElementHooks)
}
