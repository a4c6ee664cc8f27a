package memdom

import "strings"

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// OuterHTML serializes the element and its subtree. A shadow root is written
// as a declarative shadow root template.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	writeElement(&b, e)
	return b.String()
}

// InnerHTML serializes the children of the element.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for _, c := range e.children {
		writeNode(&b, c)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n memNode) {
	switch v := n.(type) {
	case *Element:
		writeElement(b, v)
	case *Text:
		b.WriteString(escapeHTML(v.data))
	}
}

func writeElement(b *strings.Builder, e *Element) {
	b.WriteByte('<')
	b.WriteString(e.tag)
	if e.is != "" {
		b.WriteString(` is="`)
		b.WriteString(escapeAttr(e.is))
		b.WriteByte('"')
	}
	for _, a := range e.attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		if a.Value != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(a.Value))
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')

	if voidElements[e.tag] {
		return
	}
	if e.shadow != nil {
		b.WriteString(`<template shadowrootmode="open">`)
		b.WriteString(e.shadow.InnerHTML())
		b.WriteString(`</template>`)
	}
	for _, c := range e.children {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(e.tag)
	b.WriteByte('>')
}

// escapeHTML escapes text content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes a double-quoted attribute value.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
