package memdom

import (
	"fmt"
	"strings"

	"github.com/guise-dev/guise/pkg/dom"
)

type memNode interface {
	dom.Node
	base() *nodeBase
	label() string
}

type parentNode interface {
	dom.Parent
	kids() *[]memNode
	connected() bool
	label() string
}

type nodeBase struct {
	doc    *Document
	parent parentNode
	id     int
}

func (b *nodeBase) base() *nodeBase { return b }

// ID returns the document-unique node id.
func (b *nodeBase) ID() int { return b.id }

// Attr is a content attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is an in-memory element.
type Element struct {
	nodeBase
	tag       string
	is        string
	attrs     []Attr
	children  []memNode
	shadow    *ShadowRoot
	listeners map[string][]*eventStream
	root      bool

	value        string
	valueDirty   bool
	checked      bool
	checkedDirty bool
}

var (
	_ dom.Element     = (*Element)(nil)
	_ dom.Checkable   = (*Element)(nil)
	_ dom.ValueHolder = (*Element)(nil)
	_ dom.Focusable   = (*Element)(nil)
	_ dom.ShadowHost  = (*Element)(nil)
)

// NodeType implements dom.Node.
func (e *Element) NodeType() dom.NodeType { return dom.ElementNode }

// TagName implements dom.Element.
func (e *Element) TagName() string { return e.tag }

// Is implements dom.Element.
func (e *Element) Is() string { return e.is }

// OwnerDocument implements dom.Parent.
func (e *Element) OwnerDocument() dom.Document { return e.doc }

// ChildNodes implements dom.Parent.
func (e *Element) ChildNodes() []dom.Node { return toNodes(e.children) }

// AppendChild implements dom.Parent.
func (e *Element) AppendChild(n dom.Node) { e.doc.appendChild(e, n) }

// ReplaceWith implements dom.Node.
func (e *Element) ReplaceWith(n dom.Node) { e.doc.replaceNode(e, n) }

// Remove implements dom.Node.
func (e *Element) Remove() { e.doc.removeNode(e) }

// IsConnected reports whether the element is attached to the body.
func (e *Element) IsConnected() bool { return e.connected() }

// Parent returns the parent element or shadow root, or nil.
func (e *Element) Parent() dom.Parent {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// Attributes returns a copy of the attribute list in insertion order.
func (e *Element) Attributes() []Attr {
	out := make([]Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// GetAttribute implements dom.Element.
func (e *Element) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttribute implements dom.Element.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	found := false
	for i := range e.attrs {
		if e.attrs[i].Name == name {
			e.attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		e.attrs = append(e.attrs, Attr{Name: name, Value: value})
	}
	e.doc.record(Mutation{Op: OpSetAttribute, Target: e.label(), Name: name, Value: value})

	switch name {
	case "checked":
		if !e.checkedDirty {
			e.checked = true
		}
	case "value":
		if !e.valueDirty {
			e.value = value
		}
	}
	e.doc.attributeChanged(e, name, value, true)
}

// RemoveAttribute implements dom.Element.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i := range e.attrs {
		if e.attrs[i].Name != name {
			continue
		}
		e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
		e.doc.record(Mutation{Op: OpRemoveAttribute, Target: e.label(), Name: name})

		switch name {
		case "checked":
			if !e.checkedDirty {
				e.checked = false
			}
		case "value":
			if !e.valueDirty {
				e.value = ""
			}
		}
		e.doc.attributeChanged(e, name, "", false)
		return
	}
}

// Checked implements dom.Checkable.
func (e *Element) Checked() bool { return e.checked }

// SetChecked implements dom.Checkable. Like a browser, setting the live
// state detaches it from the "checked" attribute. Only inputs have one.
func (e *Element) SetChecked(checked bool) {
	if e.tag != "input" {
		return
	}
	e.checked = checked
	e.checkedDirty = true
	e.doc.record(Mutation{Op: OpSetChecked, Target: e.label(), Value: fmt.Sprint(checked)})
}

// Value implements dom.ValueHolder.
func (e *Element) Value() string { return e.value }

// SetValue implements dom.ValueHolder.
func (e *Element) SetValue(value string) {
	e.value = value
	e.valueDirty = true
}

// Focus implements dom.Focusable.
func (e *Element) Focus() { e.doc.active = e }

// AttachShadow implements dom.ShadowHost.
func (e *Element) AttachShadow() dom.Parent {
	if e.shadow == nil {
		e.shadow = &ShadowRoot{host: e}
	}
	return e.shadow
}

// ShadowRoot implements dom.ShadowHost. It returns nil when none is attached.
func (e *Element) ShadowRoot() dom.Parent {
	if e.shadow == nil {
		return nil
	}
	return e.shadow
}

func (e *Element) kids() *[]memNode { return &e.children }

func (e *Element) connected() bool {
	if e.root {
		return true
	}
	if e.parent == nil {
		return false
	}
	return e.parent.connected()
}

func (e *Element) label() string {
	if e.is != "" {
		return fmt.Sprintf("%s[is=%s]#%d", e.tag, e.is, e.id)
	}
	return fmt.Sprintf("%s#%d", e.tag, e.id)
}

func (e *Element) snapshot() []memNode {
	out := make([]memNode, len(e.children))
	copy(out, e.children)
	return out
}

// Text is an in-memory text node.
type Text struct {
	nodeBase
	data string
}

var _ dom.Text = (*Text)(nil)

// NodeType implements dom.Node.
func (t *Text) NodeType() dom.NodeType { return dom.TextNode }

// Data implements dom.Text.
func (t *Text) Data() string { return t.data }

// SetData implements dom.Text.
func (t *Text) SetData(data string) {
	t.data = data
	t.doc.record(Mutation{Op: OpSetData, Target: t.label(), Value: data})
}

// ReplaceWith implements dom.Node.
func (t *Text) ReplaceWith(n dom.Node) { t.doc.replaceNode(t, n) }

// Remove implements dom.Node.
func (t *Text) Remove() { t.doc.removeNode(t) }

func (t *Text) label() string { return fmt.Sprintf("#text#%d", t.id) }

// ShadowRoot is the shadow tree attached to a host element.
type ShadowRoot struct {
	host     *Element
	children []memNode
}

var _ dom.Parent = (*ShadowRoot)(nil)

// Host returns the shadow host.
func (s *ShadowRoot) Host() *Element { return s.host }

// ChildNodes implements dom.Parent.
func (s *ShadowRoot) ChildNodes() []dom.Node { return toNodes(s.children) }

// AppendChild implements dom.Parent.
func (s *ShadowRoot) AppendChild(n dom.Node) { s.host.doc.appendChild(s, n) }

// OwnerDocument implements dom.Parent.
func (s *ShadowRoot) OwnerDocument() dom.Document { return s.host.doc }

// InnerHTML serializes the shadow tree.
func (s *ShadowRoot) InnerHTML() string {
	var b strings.Builder
	for _, c := range s.children {
		writeNode(&b, c)
	}
	return b.String()
}

func (s *ShadowRoot) kids() *[]memNode { return &s.children }
func (s *ShadowRoot) connected() bool  { return s.host.connected() }
func (s *ShadowRoot) label() string    { return "#shadow(" + s.host.label() + ")" }

func (s *ShadowRoot) snapshot() []memNode {
	out := make([]memNode, len(s.children))
	copy(out, s.children)
	return out
}

func toNodes(kids []memNode) []dom.Node {
	out := make([]dom.Node, len(kids))
	for i, k := range kids {
		out[i] = k
	}
	return out
}
