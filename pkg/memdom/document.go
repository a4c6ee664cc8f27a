// Package memdom is a headless, in-memory implementation of the dom
// interfaces. It keeps a log of every mutation, serializes to HTML, delivers
// events through the document's scheduler and runs custom element lifecycle
// callbacks the way a browser would. Tests, the CLI and the inspector use it
// as the live tree.
package memdom

import (
	"fmt"
	"strings"
	"sync"

	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/sched"
)

// Document owns a connected body element and creates detached nodes.
type Document struct {
	sched  *sched.Scheduler
	body   *Element
	hooks  dom.CustomElementHooks
	active *Element
	nextID int

	logMu     sync.Mutex
	mutations []Mutation
}

var (
	_ dom.Document          = (*Document)(nil)
	_ dom.CustomElementHost = (*Document)(nil)
)

// NewDocument creates a document whose events are delivered by s.
func NewDocument(s *sched.Scheduler) *Document {
	if s == nil {
		s = sched.New()
	}
	d := &Document{sched: s}
	d.body = d.newElement("body", "")
	d.body.root = true
	return d
}

// Body returns the connected root element.
func (d *Document) Body() *Element { return d.body }

// Scheduler implements dom.Document.
func (d *Document) Scheduler() *sched.Scheduler { return d.sched }

// SetCustomElementHooks implements dom.CustomElementHost.
func (d *Document) SetCustomElementHooks(hooks dom.CustomElementHooks) {
	d.hooks = hooks
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Element {
	return d.NewElement(tag)
}

// CreateCustomizedElement implements dom.Document.
func (d *Document) CreateCustomizedElement(tag, is string) dom.Element {
	e := d.newElement(strings.ToLower(tag), strings.ToLower(is))
	d.record(Mutation{Op: OpCreateElement, Target: e.label(), Value: e.is})
	return e
}

// CreateText implements dom.Document.
func (d *Document) CreateText(data string) dom.Text {
	return d.NewText(data)
}

// NewElement is CreateElement returning the concrete type.
func (d *Document) NewElement(tag string) *Element {
	e := d.newElement(strings.ToLower(tag), "")
	d.record(Mutation{Op: OpCreateElement, Target: e.label()})
	return e
}

// NewText is CreateText returning the concrete type.
func (d *Document) NewText(data string) *Text {
	d.nextID++
	t := &Text{nodeBase: nodeBase{doc: d, id: d.nextID}, data: data}
	d.record(Mutation{Op: OpCreateText, Target: t.label(), Value: data})
	return t
}

// ActiveElement returns the focused element, or nil.
func (d *Document) ActiveElement() *Element { return d.active }

// HTML serializes the children of the body.
func (d *Document) HTML() string { return d.body.InnerHTML() }

// NodeAt resolves a path of child indices starting at the body.
func (d *Document) NodeAt(path []int) (dom.Node, error) {
	var cur dom.Node = d.body
	for depth, idx := range path {
		p, ok := cur.(dom.Parent)
		if !ok {
			return nil, fmt.Errorf("memdom: node at depth %d has no children", depth)
		}
		kids := p.ChildNodes()
		if idx < 0 || idx >= len(kids) {
			return nil, fmt.Errorf("memdom: index %d out of range at depth %d (%d children)", idx, depth, len(kids))
		}
		cur = kids[idx]
	}
	return cur, nil
}

func (d *Document) newElement(tag, is string) *Element {
	d.nextID++
	return &Element{nodeBase: nodeBase{doc: d, id: d.nextID}, tag: tag, is: is}
}

func (d *Document) appendChild(p parentNode, n dom.Node) {
	m := asMem(n)
	if detach(m) {
		d.disconnectTree(m)
	}
	kids := p.kids()
	*kids = append(*kids, m)
	m.base().parent = p
	d.record(Mutation{Op: OpAppendChild, Target: p.label(), Name: m.label()})
	if p.connected() {
		d.connectTree(m)
	}
}

func (d *Document) replaceNode(old memNode, n dom.Node) {
	p := old.base().parent
	if p == nil {
		return
	}
	m := asMem(n)
	if m == old {
		return
	}
	if detach(m) {
		d.disconnectTree(m)
	}

	kids := *p.kids()
	for i, c := range kids {
		if c == old {
			kids[i] = m
			break
		}
	}
	m.base().parent = p
	old.base().parent = nil
	d.record(Mutation{Op: OpReplaceChild, Target: p.label(), Name: old.label(), Value: m.label()})

	if p.connected() {
		d.disconnectTree(old)
		d.connectTree(m)
	}
}

func (d *Document) removeNode(n memNode) {
	p := n.base().parent
	if p == nil {
		return
	}
	wasConnected := detach(n)
	d.record(Mutation{Op: OpRemoveChild, Target: p.label(), Name: n.label()})
	if wasConnected {
		d.disconnectTree(n)
	}
}

func (d *Document) connectTree(n memNode) {
	e, ok := n.(*Element)
	if !ok {
		return
	}
	if d.hooks != nil && d.hooks.Defines(e) {
		d.hooks.Connected(e)
	}
	if e.shadow != nil {
		for _, c := range e.shadow.snapshot() {
			d.connectTree(c)
		}
	}
	for _, c := range e.snapshot() {
		d.connectTree(c)
	}
}

func (d *Document) disconnectTree(n memNode) {
	e, ok := n.(*Element)
	if !ok {
		return
	}
	if d.active == e {
		d.active = nil
	}
	if d.hooks != nil && d.hooks.Defines(e) {
		d.hooks.Disconnected(e)
	}
	if e.shadow != nil {
		for _, c := range e.shadow.snapshot() {
			d.disconnectTree(c)
		}
	}
	for _, c := range e.snapshot() {
		d.disconnectTree(c)
	}
}

func (d *Document) attributeChanged(e *Element, name, value string, present bool) {
	if d.hooks != nil && d.hooks.Defines(e) {
		d.hooks.AttributeChanged(e, name, value, present)
	}
}

func detach(n memNode) (wasConnected bool) {
	b := n.base()
	p := b.parent
	if p == nil {
		return false
	}
	wasConnected = p.connected()
	kids := p.kids()
	for i, c := range *kids {
		if c == n {
			*kids = append((*kids)[:i], (*kids)[i+1:]...)
			break
		}
	}
	b.parent = nil
	return wasConnected
}

func asMem(n dom.Node) memNode {
	m, ok := n.(memNode)
	if !ok {
		panic(fmt.Sprintf("memdom: foreign node %T", n))
	}
	return m
}
