package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/memdom"
	"github.com/guise-dev/guise/pkg/sched"
)

func button(label string, fn func(dom.Event)) *Tree {
	t := New()
	t.Element("button", func(b *Builder) {
		OnFunc(b, "click", fn)
		b.Text(label)
	})
	return t
}

func TestSinkDelivery(t *testing.T) {
	s := sched.New()
	doc := memdom.NewDocument(s)

	var got []string
	Patch(doc.Body(), nil, button("go", func(ev dom.Event) {
		got = append(got, ev.Type()+":"+ev.CurrentTarget().TagName())
	}))
	s.RunUntilIdle()

	btn := doc.Body().ChildNodes()[0].(*memdom.Element)
	btn.Click()
	btn.Click()
	s.RunUntilIdle()

	if diff := cmp.Diff([]string{"click:button", "click:button"}, got); diff != "" {
		t.Errorf("delivery mismatch (-want +got):\n%s", diff)
	}
}

func TestSinkCancelledWhenNodeReplaced(t *testing.T) {
	s := sched.New()
	doc := memdom.NewDocument(s)

	var old int
	prev := button("go", func(dom.Event) { old++ })
	Patch(doc.Body(), nil, prev)
	s.RunUntilIdle()
	btn := doc.Body().ChildNodes()[0].(*memdom.Element)

	next := New()
	next.Element("span", nil)
	Patch(doc.Body(), prev, next)
	s.RunUntilIdle()

	btn.Click()
	s.RunUntilIdle()

	if old != 0 {
		t.Errorf("superseded sink received %d events", old)
	}
	if n := btn.ListenerCount("click"); n != 0 {
		t.Errorf("ListenerCount = %d, want 0", n)
	}
	if n := s.Len(); n != 0 {
		t.Errorf("live tasks = %d, want 0", n)
	}
}

func TestSinkRebindOnReusedNode(t *testing.T) {
	s := sched.New()
	doc := memdom.NewDocument(s)

	var first, second int
	prev := button("go", func(dom.Event) { first++ })
	Patch(doc.Body(), nil, prev)
	s.RunUntilIdle()
	btn := doc.Body().ChildNodes()[0].(*memdom.Element)

	Patch(doc.Body(), prev, button("go", func(dom.Event) { second++ }))
	s.RunUntilIdle()

	btn.Click()
	s.RunUntilIdle()

	if first != 0 || second != 1 {
		t.Errorf("first = %d, second = %d; want 0, 1", first, second)
	}
	if n := btn.ListenerCount("click"); n != 1 {
		t.Errorf("ListenerCount = %d, want 1", n)
	}
}

func TestSinkBackpressure(t *testing.T) {
	s := sched.New()
	doc := memdom.NewDocument(s)
	q := sched.NewQueue[dom.KeyboardEvent](1)

	tree := New()
	tree.Element("input", func(b *Builder) {
		OnKeyDown(b, q)
	})
	Patch(doc.Body(), nil, tree)
	s.RunUntilIdle()

	input := doc.Body().ChildNodes()[0].(*memdom.Element)
	for _, k := range []string{"a", "b", "c"} {
		input.KeyDown(k)
	}
	s.RunUntilIdle()

	if n := q.Len(); n != 1 {
		t.Fatalf("queue holds %d events, want 1 while full", n)
	}

	var keys []string
	for i := 0; i < 3; i++ {
		ev, p := q.PollNext(&sched.Context{})
		if p != sched.Ready {
			t.Fatalf("PollNext #%d = %v, want Ready", i, p)
		}
		keys = append(keys, ev.Key())
		s.RunUntilIdle()
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSpawnTwicePanics(t *testing.T) {
	s := sched.New()
	doc := memdom.NewDocument(s)
	el := doc.NewElement("button")
	sp := &spawner{kind: "click", sink: typedSink[dom.Event]{s: nopSink{}}}
	sp.spawn(s, el)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second spawn")
		}
	}()
	sp.spawn(s, el)
}

func TestReleaseAbortsSinks(t *testing.T) {
	s := sched.New()
	doc := memdom.NewDocument(s)
	tree := button("go", func(dom.Event) {})
	Patch(doc.Body(), nil, tree)
	s.RunUntilIdle()
	if s.Len() != 1 {
		t.Fatalf("live tasks = %d, want 1", s.Len())
	}

	tree.Release()
	tree.Release()

	if s.Len() != 0 {
		t.Errorf("live tasks after Release = %d, want 0", s.Len())
	}
}

func TestSinkWrongEventTypePanics(t *testing.T) {
	ts := typedSink[*memdom.Event]{s: sched.NewListener(func(*memdom.Event) {})}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for mismatched event type")
		}
	}()
	ts.Send(otherEvent{})
}

type otherEvent struct{}

func (otherEvent) Type() string               { return "click" }
func (otherEvent) CurrentTarget() dom.Element { return nil }
