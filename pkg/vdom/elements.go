package vdom

import "strings"

// voidElements are elements that cannot have children.
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

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Global attributes

// ID sets the id attribute.
func (b *Builder) ID(id string) { b.Attr("id", id) }

// Class sets the class attribute. Empty classes are skipped.
func (b *Builder) Class(classes ...string) {
	kept := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != "" {
			kept = append(kept, c)
		}
	}
	b.Attr("class", strings.Join(kept, " "))
}

// Title sets the title attribute.
func (b *Builder) Title(title string) { b.Attr("title", title) }

// Data sets a data-* attribute.
func (b *Builder) Data(key, value string) { b.Attr("data-"+key, value) }

// Hidden adds the hidden attribute when hidden is true.
func (b *Builder) Hidden(hidden bool) {
	if hidden {
		b.BoolAttr("hidden")
	}
}

// Form attributes

// Type sets the type attribute.
func (b *Builder) Type(typ string) { b.Attr("type", typ) }

// Value sets the value attribute.
func (b *Builder) Value(value string) { b.Attr("value", value) }

// Placeholder sets the placeholder attribute.
func (b *Builder) Placeholder(text string) { b.Attr("placeholder", text) }

// Checked adds the checked attribute when checked is true.
func (b *Builder) Checked(checked bool) {
	if checked {
		b.BoolAttr("checked")
	}
}

// Autofocus adds the autofocus attribute.
func (b *Builder) Autofocus() { b.BoolAttr("autofocus") }

// For sets the for attribute of a label.
func (b *Builder) For(id string) { b.Attr("for", id) }

// Href sets the href attribute.
func (b *Builder) Href(url string) { b.Attr("href", url) }

// Elements

// Div appends a div element.
func (b *Builder) Div(fn func(b *Builder)) { b.Element("div", fn) }

// Span appends a span element.
func (b *Builder) Span(fn func(b *Builder)) { b.Element("span", fn) }

// P appends a paragraph.
func (b *Builder) P(fn func(b *Builder)) { b.Element("p", fn) }

// H1 appends a top-level heading.
func (b *Builder) H1(fn func(b *Builder)) { b.Element("h1", fn) }

// Strong appends a strong element.
func (b *Builder) Strong(fn func(b *Builder)) { b.Element("strong", fn) }

// A appends an anchor.
func (b *Builder) A(fn func(b *Builder)) { b.Element("a", fn) }

// Button appends a button.
func (b *Builder) Button(fn func(b *Builder)) { b.Element("button", fn) }

// Input appends an input.
func (b *Builder) Input(fn func(b *Builder)) { b.Element("input", fn) }

// Label appends a label.
func (b *Builder) Label(fn func(b *Builder)) { b.Element("label", fn) }

// Ul appends an unordered list.
func (b *Builder) Ul(fn func(b *Builder)) { b.Element("ul", fn) }

// Li appends a list item.
func (b *Builder) Li(fn func(b *Builder)) { b.Element("li", fn) }

// Section appends a section.
func (b *Builder) Section(fn func(b *Builder)) { b.Element("section", fn) }

// Header appends a header.
func (b *Builder) Header(fn func(b *Builder)) { b.Element("header", fn) }

// Footer appends a footer.
func (b *Builder) Footer(fn func(b *Builder)) { b.Element("footer", fn) }
