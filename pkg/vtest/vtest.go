package vtest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guise-dev/guise/pkg/component"
	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/memdom"
	"github.com/guise-dev/guise/pkg/sched"
	"github.com/guise-dev/guise/pkg/vdom"
)

// Harness is a document with a bound registry, driven by hand.
type Harness struct {
	t        testing.TB
	Sched    *sched.Scheduler
	Doc      *memdom.Document
	Registry *component.Registry
}

// New creates a harness and defines defs. Setup failures abort the test.
// The registry is closed when the test ends.
func New(t testing.TB, defs []component.Definition, opts ...component.Option) *Harness {
	t.Helper()
	s := sched.New()
	doc := memdom.NewDocument(s)
	reg := component.NewRegistry(opts...)
	if err := reg.Bind(doc); err != nil {
		t.Fatalf("vtest: Bind: %v", err)
	}
	for _, def := range defs {
		if err := reg.Define(def); err != nil {
			t.Fatalf("vtest: Define(%s): %v", def.Name, err)
		}
	}
	t.Cleanup(reg.Close)
	return &Harness{t: t, Sched: s, Doc: doc, Registry: reg}
}

// Mount creates the named component with the given attribute name/value
// pairs, appends it to the body and settles.
func (h *Harness) Mount(name string, attrs ...string) *memdom.Element {
	h.t.Helper()
	if len(attrs)%2 != 0 {
		h.t.Fatalf("vtest: Mount(%s): odd attribute list", name)
	}
	el, err := h.Registry.Create(h.Doc, name)
	if err != nil {
		h.t.Fatalf("vtest: Mount(%s): %v", name, err)
	}
	for i := 0; i < len(attrs); i += 2 {
		el.SetAttribute(attrs[i], attrs[i+1])
	}
	h.Doc.Body().AppendChild(el)
	h.Settle()
	return el.(*memdom.Element)
}

// Settle runs the scheduler until idle and returns the number of polls.
func (h *Harness) Settle() int {
	return h.Sched.RunUntilIdle()
}

// ExpectHTML compares the serialized body with want.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if diff := cmp.Diff(want, h.Doc.HTML()); diff != "" {
		h.t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

// Child follows path through element children of parent.
func Child(t testing.TB, parent dom.Parent, path ...int) *memdom.Element {
	t.Helper()
	cur := parent
	var el *memdom.Element
	for depth, i := range path {
		kids := cur.ChildNodes()
		if i < 0 || i >= len(kids) {
			t.Fatalf("vtest: child %v: index %d out of range at depth %d", path, i, depth)
		}
		e, ok := kids[i].(*memdom.Element)
		if !ok {
			t.Fatalf("vtest: child %v: %T at depth %d is not an element", path, kids[i], depth)
		}
		el, cur = e, e
	}
	if el == nil {
		t.Fatalf("vtest: empty child path")
	}
	return el
}

// RenderToString patches tree into a detached container and returns the
// resulting HTML. Sink tasks are spawned on a throwaway scheduler and never
// run.
//
// Example:
//
//	html := vtest.RenderToString(view(model))
//	if !strings.Contains(html, "expected text") {
//	    t.Error("missing expected text")
//	}
func RenderToString(tree *vdom.Tree) string {
	doc := memdom.NewDocument(sched.New())
	container := doc.NewElement("div")
	vdom.Patch(container, nil, tree)
	return container.InnerHTML()
}

// ExpectContains asserts that the rendered tree contains expected.
func ExpectContains(t testing.TB, tree *vdom.Tree, expected string) {
	t.Helper()
	html := RenderToString(tree)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered tree does not contain
// unexpected.
func ExpectNotContains(t testing.TB, tree *vdom.Tree, unexpected string) {
	t.Helper()
	html := RenderToString(tree)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectAttribute asserts that el carries attr with value.
func ExpectAttribute(t testing.TB, el *memdom.Element, attr, value string) {
	t.Helper()
	got, ok := el.GetAttribute(attr)
	if !ok {
		t.Errorf("expected attribute %s=%q on <%s>, attribute missing", attr, value, el.TagName())
		return
	}
	if got != value {
		t.Errorf("attribute %s on <%s> = %q, want %q", attr, el.TagName(), got, value)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
