package demo

import "strings"

// Filter selects which todos the app lists.
type Filter uint8

const (
	All Filter = iota
	Active
	Completed
)

// String returns the string representation of the Filter.
func (f Filter) String() string {
	switch f {
	case All:
		return "All"
	case Active:
		return "Active"
	case Completed:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Todo is one item of the list.
type Todo struct {
	ID       int
	Note     string
	Complete bool
}

// Store is the todo list shared by todo-app and its todo-item children.
// Every mutation notifies the watchers. It is not safe for concurrent use;
// all access happens on the scheduler loop.
type Store struct {
	nextID   int
	order    []int
	todos    map[int]*Todo
	watchers []func() bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{todos: make(map[int]*Todo)}
}

// Watch registers fn to run after every change. fn is dropped once it
// returns false.
func (s *Store) Watch(fn func() bool) {
	s.watchers = append(s.watchers, fn)
}

// Watchers returns the number of registered watchers.
func (s *Store) Watchers() int { return len(s.watchers) }

// Add appends a todo with the trimmed note and returns its id. Blank notes
// are ignored and yield 0.
func (s *Store) Add(note string) int {
	note = strings.TrimSpace(note)
	if note == "" {
		return 0
	}
	s.nextID++
	s.todos[s.nextID] = &Todo{ID: s.nextID, Note: note}
	s.order = append(s.order, s.nextID)
	s.notify()
	return s.nextID
}

// Get returns the todo with the given id.
func (s *Store) Get(id int) (Todo, bool) {
	t, ok := s.todos[id]
	if !ok {
		return Todo{}, false
	}
	return *t, true
}

// IDs returns the ids passing f in insertion order.
func (s *Store) IDs(f Filter) []int {
	ids := make([]int, 0, len(s.order))
	for _, id := range s.order {
		t := s.todos[id]
		if f == All || (f == Completed) == t.Complete {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of todos.
func (s *Store) Len() int { return len(s.order) }

// SetNote replaces the note of a todo. A blank note removes it.
func (s *Store) SetNote(id int, note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		s.Remove(id)
		return
	}
	if t, ok := s.todos[id]; ok && t.Note != note {
		t.Note = note
		s.notify()
	}
}

// SetComplete marks a todo complete or active.
func (s *Store) SetComplete(id int, complete bool) {
	if t, ok := s.todos[id]; ok && t.Complete != complete {
		t.Complete = complete
		s.notify()
	}
}

// SetAllComplete marks every todo complete or active.
func (s *Store) SetAllComplete(complete bool) {
	changed := false
	for _, t := range s.todos {
		if t.Complete != complete {
			t.Complete = complete
			changed = true
		}
	}
	if changed {
		s.notify()
	}
}

// Remove deletes a todo.
func (s *Store) Remove(id int) {
	if _, ok := s.todos[id]; !ok {
		return
	}
	delete(s.todos, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.notify()
}

// ClearCompleted deletes every completed todo.
func (s *Store) ClearCompleted() {
	kept := s.order[:0]
	for _, id := range s.order {
		if s.todos[id].Complete {
			delete(s.todos, id)
		} else {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(s.order) {
		return
	}
	s.order = kept
	s.notify()
}

func (s *Store) notify() {
	watchers := s.watchers
	s.watchers = nil
	kept := make([]func() bool, 0, len(watchers))
	for _, w := range watchers {
		if w() {
			kept = append(kept, w)
		}
	}
	// Watchers registered while notifying go last.
	s.watchers = append(kept, s.watchers...)
}
