package vdom

import (
	"fmt"
	"strings"

	"github.com/guise-dev/guise/pkg/dom"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	kindRoot    Kind = iota // synthetic forest root, index 0
	KindText                // text node
	KindElement             // element node
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case kindRoot:
		return "Root"
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	default:
		return "Unknown"
	}
}

// none terminates index links.
const none int32 = -1

// node is an arena entry. Child, attribute, sink and ref lists are singly
// linked through the tree's slices.
type node struct {
	kind Kind
	data string // text content or tag name
	is   string

	firstChild, lastChild, next int32
	firstAttr, lastAttr         int32
	firstSink, lastSink         int32
	firstRef, lastRef           int32
}

type attrSlot struct {
	attr Attribute
	next int32
}

type sinkSlot struct {
	sp   spawner
	next int32
}

type refSlot struct {
	ref  *Ref
	next int32
}

type treeState uint8

const (
	stateBuilding treeState = iota
	stateCommitted
	stateReleased
)

// Tree is the virtual tree of one render pass.
type Tree struct {
	nodes []node
	attrs []attrSlot
	sinks []sinkSlot
	refs  []refSlot

	onCommitted func(host dom.Element)
	state       treeState
}

// New creates an empty tree with its own arena.
func New() *Tree {
	t := &Tree{
		nodes: make([]node, 0, 16),
		attrs: make([]attrSlot, 0, 16),
	}
	t.newNode(kindRoot, "", "")
	return t
}

// Text appends a root text node.
func (t *Tree) Text(s string) {
	t.addText(0, s)
}

// Element appends a root element, calling fn to build its content.
func (t *Tree) Element(tag string, fn func(b *Builder)) {
	t.addElement(0, tag, "", fn)
}

// ElementIs appends a root customized built-in element: tag upgraded to the
// custom element named is.
func (t *Tree) ElementIs(tag, is string, fn func(b *Builder)) {
	t.addElement(0, tag, is, fn)
}

// OnCommitted registers fn to run once, after this tree has been patched into
// the live tree. fn receives the component host element.
func (t *Tree) OnCommitted(fn func(host dom.Element)) {
	t.mustBuild()
	t.onCommitted = fn
}

// RunOnCommitted runs and clears the callback registered with OnCommitted.
func (t *Tree) RunOnCommitted(host dom.Element) {
	fn := t.onCommitted
	t.onCommitted = nil
	if fn != nil {
		fn(host)
	}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Committed reports whether the tree has been patched into a live tree.
func (t *Tree) Committed() bool {
	return t.state == stateCommitted
}

// CancelSinks aborts every sink task spawned from this tree. Sinks that were
// never spawned can no longer be.
func (t *Tree) CancelSinks() {
	for i := range t.sinks {
		t.sinks[i].sp.cancel()
	}
}

// ClearRefs empties every node capture attached to this tree.
func (t *Tree) ClearRefs() {
	for _, r := range t.refs {
		r.ref.Clear()
	}
}

// Release cancels the tree's sink tasks and frees its arena. The tree must
// not be used afterwards. Releasing twice is a no-op.
func (t *Tree) Release() {
	if t == nil || t.state == stateReleased {
		return
	}
	t.CancelSinks()
	t.nodes = nil
	t.attrs = nil
	t.sinks = nil
	t.refs = nil
	t.onCommitted = nil
	t.state = stateReleased
}

// Dump renders the tree as indented text, one node per line.
func (t *Tree) Dump() string {
	var b strings.Builder
	t.dump(&b, 0, 0)
	return b.String()
}

func (t *Tree) dump(b *strings.Builder, id int32, depth int) {
	for c := t.nodes[id].firstChild; c != none; c = t.nodes[c].next {
		n := &t.nodes[c]
		b.WriteString(strings.Repeat("  ", depth))
		switch n.kind {
		case KindText:
			fmt.Fprintf(b, "%q\n", n.data)
		case KindElement:
			b.WriteString("<" + n.data)
			if n.is != "" {
				fmt.Fprintf(b, " is=%q", n.is)
			}
			for a := n.firstAttr; a != none; a = t.attrs[a].next {
				attr := t.attrs[a].attr
				if attr.Boolean {
					b.WriteString(" " + attr.Name)
				} else {
					fmt.Fprintf(b, " %s=%q", attr.Name, attr.Value)
				}
			}
			b.WriteString(">")
			if n := t.countSinks(c); n > 0 {
				fmt.Fprintf(b, " sinks=%d", n)
			}
			b.WriteString("\n")
			t.dump(b, c, depth+1)
		}
	}
}

func (t *Tree) countSinks(id int32) int {
	n := 0
	for s := t.nodes[id].firstSink; s != none; s = t.sinks[s].next {
		n++
	}
	return n
}

func (t *Tree) mustBuild() {
	if t.state != stateBuilding {
		panic("vdom: tree modified after it was committed or released")
	}
}

func (t *Tree) newNode(kind Kind, data, is string) int32 {
	t.nodes = append(t.nodes, node{
		kind:       kind,
		data:       data,
		is:         is,
		firstChild: none,
		lastChild:  none,
		next:       none,
		firstAttr:  none,
		lastAttr:   none,
		firstSink:  none,
		lastSink:   none,
		firstRef:   none,
		lastRef:    none,
	})
	return int32(len(t.nodes) - 1)
}

func (t *Tree) linkChild(parent, child int32) {
	p := &t.nodes[parent]
	if p.lastChild == none {
		p.firstChild = child
	} else {
		t.nodes[p.lastChild].next = child
	}
	p.lastChild = child
}

func (t *Tree) addText(parent int32, s string) {
	t.mustBuild()
	id := t.newNode(KindText, s, "")
	t.linkChild(parent, id)
}

func (t *Tree) addElement(parent int32, tag, is string, fn func(b *Builder)) {
	t.mustBuild()
	id := t.newNode(KindElement, tag, is)
	t.linkChild(parent, id)
	if fn != nil {
		fn(&Builder{t: t, id: id})
	}
}

func (t *Tree) addAttr(id int32, a Attribute) {
	t.mustBuild()
	t.attrs = append(t.attrs, attrSlot{attr: a, next: none})
	idx := int32(len(t.attrs) - 1)
	n := &t.nodes[id]
	if n.lastAttr == none {
		n.firstAttr = idx
	} else {
		t.attrs[n.lastAttr].next = idx
	}
	n.lastAttr = idx
}

func (t *Tree) addSink(id int32, kind string, sink rawSink) {
	t.mustBuild()
	t.sinks = append(t.sinks, sinkSlot{sp: spawner{kind: kind, sink: sink}, next: none})
	idx := int32(len(t.sinks) - 1)
	n := &t.nodes[id]
	if n.lastSink == none {
		n.firstSink = idx
	} else {
		t.sinks[n.lastSink].next = idx
	}
	n.lastSink = idx
}

func (t *Tree) addRef(id int32, r *Ref) {
	t.mustBuild()
	t.refs = append(t.refs, refSlot{ref: r, next: none})
	idx := int32(len(t.refs) - 1)
	n := &t.nodes[id]
	if n.lastRef == none {
		n.firstRef = idx
	} else {
		t.refs[n.lastRef].next = idx
	}
	n.lastRef = idx
}

// attributes appends the attributes of node id to dst.
func (t *Tree) attributes(dst []Attribute, id int32) []Attribute {
	for a := t.nodes[id].firstAttr; a != none; a = t.attrs[a].next {
		dst = append(dst, t.attrs[a].attr)
	}
	return dst
}
