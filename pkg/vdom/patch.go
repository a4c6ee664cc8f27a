package vdom

import (
	"fmt"
	"strings"

	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/sched"
)

// Stats counts the work done by one Patch.
type Stats struct {
	TextUpdates  int // text nodes whose data changed
	AttrSets     int // attributes added or updated
	AttrRemovals int // attributes removed
	Replaced     int // live nodes replaced by fresh ones
	Appended     int // fresh nodes appended to a parent
	Removed      int // surplus live nodes removed
	Created      int // live nodes created, including descendants
	Sinks        int // sink tasks spawned
	Refs         int // node captures filled
}

// Mutations returns the number of operations applied to existing live nodes.
func (s Stats) Mutations() int {
	return s.TextUpdates + s.AttrSets + s.AttrRemovals + s.Replaced + s.Appended + s.Removed
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.TextUpdates += o.TextUpdates
	s.AttrSets += o.AttrSets
	s.AttrRemovals += o.AttrRemovals
	s.Replaced += o.Replaced
	s.Appended += o.Appended
	s.Removed += o.Removed
	s.Created += o.Created
	s.Sinks += o.Sinks
	s.Refs += o.Refs
}

// ShapeError reports a live tree that does not have the shape the previous
// virtual tree says it should. It is raised as a panic: the live tree has
// been mutated behind the reconciler's back.
type ShapeError struct {
	Want dom.NodeType
	Got  dom.Node // nil when the live child is missing
}

func (e *ShapeError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("vdom: live %s node missing", e.Want)
	}
	return fmt.Sprintf("vdom: live %s node is a %s (%T)", e.Want, e.Got.NodeType(), e.Got)
}

// Patch makes the children of container match next, assuming they currently
// match prev, and returns what it did. A nil prev stands for an empty tree.
//
// Patch commits next and releases prev. Sinks of prev are aborted after the
// sinks of next have been spawned. Patching a tree that was already committed
// panics.
func Patch(container dom.Parent, prev, next *Tree) Stats {
	if next.state != stateBuilding {
		panic("vdom: next tree was already committed")
	}
	if prev == nil {
		prev = New()
	}
	if prev == next {
		panic("vdom: patching a tree against itself")
	}
	if prev.state == stateReleased {
		panic("vdom: previous tree was released")
	}

	doc := container.OwnerDocument()
	p := &patcher{
		doc:   doc,
		sched: doc.Scheduler(),
		prev:  prev,
		next:  next,
	}
	p.children(container, 0, 0)

	next.state = stateCommitted
	prev.Release()
	return p.stats
}

type patcher struct {
	doc   dom.Document
	sched *sched.Scheduler
	prev  *Tree
	next  *Tree
	stats Stats

	// scratch, reused across elements
	prevAttrs []Attribute
	nextAttrs []Attribute
	ops       []AttrOp
}

func (p *patcher) children(parent dom.Parent, oldID, newID int32) {
	live := parent.ChildNodes()
	o := p.prev.nodes[oldID].firstChild
	n := p.next.nodes[newID].firstChild

	i := 0
	for o != none && n != none {
		if i >= len(live) {
			panic(&ShapeError{Want: kindNodeType(p.prev.nodes[o].kind)})
		}
		p.node(live[i], o, n)
		o = p.prev.nodes[o].next
		n = p.next.nodes[n].next
		i++
	}

	surplus := 0
	for ; o != none; o = p.prev.nodes[o].next {
		surplus++
	}
	if surplus > 0 {
		live = parent.ChildNodes()
		for ; surplus > 0 && len(live) > 0; surplus-- {
			live[len(live)-1].Remove()
			live = live[:len(live)-1]
			p.stats.Removed++
		}
	}

	for ; n != none; n = p.next.nodes[n].next {
		parent.AppendChild(p.build(n))
		p.stats.Appended++
	}
}

func (p *patcher) node(live dom.Node, o, n int32) {
	on, nn := &p.prev.nodes[o], &p.next.nodes[n]

	switch {
	case on.kind == KindText && nn.kind == KindText:
		if on.data == nn.data {
			return
		}
		txt, ok := live.(dom.Text)
		if !ok {
			panic(&ShapeError{Want: dom.TextNode, Got: live})
		}
		txt.SetData(nn.data)
		p.stats.TextUpdates++
		return

	case on.kind == KindElement && nn.kind == KindElement:
		el, ok := live.(dom.Element)
		if !ok {
			panic(&ShapeError{Want: dom.ElementNode, Got: live})
		}
		if on.data == nn.data && on.is == nn.is {
			p.attributes(el, o, n)
			p.children(el, o, n)
			p.attach(el, n)
			return
		}
	}

	live.ReplaceWith(p.build(n))
	p.stats.Replaced++
}

func (p *patcher) attributes(el dom.Element, o, n int32) {
	p.prevAttrs = p.prev.attributes(p.prevAttrs[:0], o)
	p.nextAttrs = p.next.attributes(p.nextAttrs[:0], n)
	p.ops = appendAttrOps(p.ops[:0], p.prevAttrs, p.nextAttrs)

	for _, op := range p.ops {
		switch op.Kind {
		case AttrSet:
			el.SetAttribute(op.Name, op.Value)
			p.stats.AttrSets++
			if isChecked(op.Name) {
				setChecked(el, true)
			}
		case AttrRemove:
			el.RemoveAttribute(op.Name)
			p.stats.AttrRemovals++
			if isChecked(op.Name) {
				setChecked(el, false)
			}
		}
	}
}

// build creates the live subtree for node n of the next tree.
func (p *patcher) build(n int32) dom.Node {
	nd := &p.next.nodes[n]
	p.stats.Created++

	if nd.kind == KindText {
		return p.doc.CreateText(nd.data)
	}

	var el dom.Element
	if nd.is != "" {
		el = p.doc.CreateCustomizedElement(nd.data, nd.is)
	} else {
		el = p.doc.CreateElement(nd.data)
	}
	for a := nd.firstAttr; a != none; a = p.next.attrs[a].next {
		attr := p.next.attrs[a].attr
		el.SetAttribute(attr.Name, attr.Value)
	}
	for c := nd.firstChild; c != none; c = p.next.nodes[c].next {
		el.AppendChild(p.build(c))
	}
	p.attach(el, n)
	return el
}

// attach spawns the sinks and fills the captures of node n against el.
func (p *patcher) attach(el dom.Element, n int32) {
	nd := &p.next.nodes[n]
	for s := nd.firstSink; s != none; s = p.next.sinks[s].next {
		p.next.sinks[s].sp.spawn(p.sched, el)
		p.stats.Sinks++
	}
	for r := nd.firstRef; r != none; r = p.next.refs[r].next {
		p.next.refs[r].ref.set(el)
		p.stats.Refs++
	}
}

func isChecked(name string) bool {
	return strings.EqualFold(name, "checked")
}

// setChecked mirrors the checked attribute into the live checked state of
// input elements, which the attribute alone stops controlling once the user
// has toggled the control.
func setChecked(el dom.Element, checked bool) {
	if !strings.EqualFold(el.TagName(), "input") {
		return
	}
	if c, ok := el.(dom.Checkable); ok {
		c.SetChecked(checked)
	}
}

func kindNodeType(k Kind) dom.NodeType {
	if k == KindText {
		return dom.TextNode
	}
	return dom.ElementNode
}
