package vdom

// Builder appends content to one element of a tree under construction. It is
// only valid inside the build function it was passed to.
type Builder struct {
	t  *Tree
	id int32
}

// Attr appends an attribute.
func (b *Builder) Attr(name, value string) {
	b.t.addAttr(b.id, Attribute{Name: name, Value: value})
}

// BoolAttr appends a presence-only attribute.
func (b *Builder) BoolAttr(name string) {
	b.t.addAttr(b.id, Attribute{Name: name, Boolean: true})
}

// Text appends a text child.
func (b *Builder) Text(s string) {
	b.t.addText(b.id, s)
}

// Element appends a child element, calling fn to build its content.
func (b *Builder) Element(tag string, fn func(b *Builder)) {
	b.t.addElement(b.id, tag, "", fn)
}

// ElementIs appends a customized built-in child element.
func (b *Builder) ElementIs(tag, is string, fn func(b *Builder)) {
	b.t.addElement(b.id, tag, is, fn)
}

// Ref requests that r be filled with this element's live node on commit.
func (b *Builder) Ref(r *Ref) {
	b.t.addRef(b.id, r)
}
