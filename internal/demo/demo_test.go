package demo

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guise-dev/guise/pkg/memdom"
)

func newSession(t *testing.T, todos int) *Session {
	t.Helper()
	s, err := NewSession(Options{Todos: todos})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func labels(s *Session) []string {
	var out []string
	for _, item := range FindAll(s.Doc.Body(), ByIs(ItemName)) {
		if l, err := Find(item, ByTag("label"), 0); err == nil {
			out = append(out, l.InnerHTML())
		}
	}
	return out
}

func TestCounter(t *testing.T) {
	s := newSession(t, 0)
	el, err := s.Mount(CounterName, "initial-count", "5")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if got, want := el.InnerHTML(), "5<button>Increment!</button>"; got != want {
		t.Fatalf("InnerHTML() = %q, want %q", got, want)
	}

	btn, _ := Find(el, ByTag("button"), 0)
	btn.Click()
	btn.Click()
	s.Sched.RunUntilIdle()
	if got, want := el.InnerHTML(), "7<button>Increment!</button>"; got != want {
		t.Errorf("after clicks InnerHTML() = %q, want %q", got, want)
	}

	el.SetAttribute("initial-count", "1")
	s.Sched.RunUntilIdle()
	if got, want := el.InnerHTML(), "1<button>Increment!</button>"; got != want {
		t.Errorf("after reset InnerHTML() = %q, want %q", got, want)
	}
	if kids := el.ChildNodes(); kids[1] != btn {
		t.Error("button should survive the restart")
	}
}

func TestCounterScript(t *testing.T) {
	s := newSession(t, 0)

	var names, counts []string
	err := s.Play(CounterScript(2), func(step Step, html string) {
		names = append(names, step.Name)
		el, _ := Find(s.Doc.Body(), ByTag(CounterName), 0)
		counts = append(counts, strings.TrimSuffix(el.InnerHTML(), "<button>Increment!</button>"))
	})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}

	if diff := cmp.Diff([]string{"mount x-counter", "click #1", "click #2", "set initial-count=10"}, names); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"0", "1", "2", "10"}, counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoAppRendersStore(t *testing.T) {
	s := newSession(t, 2)
	if _, err := s.Mount(AppName); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if diff := cmp.Diff([]string{"Todo 1", "Todo 2"}, labels(s)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	count, err := s.find(ByClass("todo-count"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := count.InnerHTML(); got != "<strong>2</strong> items left" {
		t.Errorf("todo-count = %q", got)
	}
	if _, err := s.find(ByClass("clear-completed"), 0); err == nil {
		t.Error("clear-completed should be hidden without completed todos")
	}
}

func TestTodoAppEmpty(t *testing.T) {
	s := newSession(t, 0)
	if _, err := s.Mount(AppName); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if _, err := s.find(ByClass("main"), 0); err == nil {
		t.Error("main section should be hidden for an empty list")
	}

	input, _ := s.find(ByClass("new-todo"), 0)
	input.Type("   ")
	input.KeyDown("Enter")
	s.Sched.RunUntilIdle()
	if s.Store.Len() != 0 {
		t.Errorf("blank note was added")
	}
	if input.Value() != "" {
		t.Errorf("input value = %q, want cleared", input.Value())
	}
}

func TestTodoEditFocusesInput(t *testing.T) {
	s := newSession(t, 1)
	if _, err := s.Mount(AppName); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	label, _ := s.find(ByTag("label"), 1) // 0 is "Mark all as complete"
	label.DoubleClick()
	s.Sched.RunUntilIdle()

	edit, err := s.find(ByClass("edit"), 0)
	if err != nil {
		t.Fatalf("edit input not rendered: %v", err)
	}
	if s.Doc.ActiveElement() != edit {
		t.Error("edit input should have focus after the commit")
	}
	if edit.Value() != "Todo 1" {
		t.Errorf("edit value = %q", edit.Value())
	}

	edit.Type("Renamed")
	edit.Blur()
	s.Sched.RunUntilIdle()

	if diff := cmp.Diff([]string{"Renamed"}, labels(s)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleAll(t *testing.T) {
	s := newSession(t, 2)
	if _, err := s.Mount(AppName); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	all, _ := s.find(ByClass("toggle-all"), 0)
	all.Toggle()
	s.Sched.RunUntilIdle()

	if got := s.Store.IDs(Completed); len(got) != 2 {
		t.Fatalf("completed = %v, want both", got)
	}
	for i, toggle := range FindAll(s.Doc.Body(), ByClass("toggle")) {
		if !toggle.Checked() {
			t.Errorf("toggle %d not checked", i)
		}
	}
	for i, item := range FindAll(s.Doc.Body(), ByIs(ItemName)) {
		div := item.ChildNodes()[0].(*memdom.Element)
		if v, _ := div.GetAttribute("class"); v != "completed" {
			t.Errorf("item %d class = %q", i, v)
		}
	}
}

func TestTodoScript(t *testing.T) {
	s := newSession(t, 3)

	var last string
	if err := s.Play(TodoScript(), func(_ Step, html string) { last = html }); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if diff := cmp.Diff([]string{"Walk the dog", "Todo 3"}, labels(s)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(last, "<strong>2</strong> items left") {
		t.Errorf("final HTML missing count:\n%s", last)
	}
	active, err := s.find(ByClass("selected"), 0)
	if err != nil || active.InnerHTML() != "Active" {
		t.Errorf("Active filter should be selected:\n%s", last)
	}
	if s.Store.Len() != 2 {
		t.Errorf("store holds %d todos, want 2", s.Store.Len())
	}
}

func TestCloseReleasesWatchers(t *testing.T) {
	s := newSession(t, 2)
	if _, err := s.Mount(AppName); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if n := s.Store.Watchers(); n != 3 {
		t.Fatalf("watchers = %d, want 3 (app and two items)", n)
	}

	s.Close()
	s.Store.Add("after close")

	if n := s.Store.Watchers(); n != 0 {
		t.Errorf("watchers after close = %d, want 0", n)
	}
	if n := s.Sched.Len(); n != 0 {
		t.Errorf("live tasks after close = %d, want 0", n)
	}
}

func TestStoreFilters(t *testing.T) {
	st := NewStore()
	a := st.Add("a")
	b := st.Add("b")
	st.Add("c")
	st.SetComplete(b, true)

	if diff := cmp.Diff([]int{1, 3}, st.IDs(Active)); diff != "" {
		t.Errorf("Active mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2}, st.IDs(Completed)); diff != "" {
		t.Errorf("Completed mismatch (-want +got):\n%s", diff)
	}

	st.SetNote(a, "  ")
	st.ClearCompleted()
	if diff := cmp.Diff([]int{3}, st.IDs(All)); diff != "" {
		t.Errorf("All mismatch (-want +got):\n%s", diff)
	}
	if got := Completed.String(); got != "Completed" {
		t.Errorf("String() = %q", got)
	}
}

func TestStoreWatchersAreDropped(t *testing.T) {
	st := NewStore()
	calls := 0
	st.Watch(func() bool {
		calls++
		return calls < 2
	})

	st.Add("x")
	st.Add("y")
	st.Add("z")

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if st.Watchers() != 0 {
		t.Errorf("Watchers() = %d, want 0", st.Watchers())
	}
}
