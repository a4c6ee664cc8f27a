package demo

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/guise-dev/guise/pkg/component"
	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/memdom"
	"github.com/guise-dev/guise/pkg/sched"
)

// Session is a headless document with every demo component defined.
type Session struct {
	Sched    *sched.Scheduler
	Doc      *memdom.Document
	Registry *component.Registry
	Store    *Store
}

// Options configures a Session.
type Options struct {
	// Todos seeds the store with that many items.
	Todos int

	Logger *slog.Logger

	// Registry options, e.g. a metrics recorder or commit observers.
	Registry []component.Option
}

// NewSession creates the document, binds a registry to it and defines
// x-counter, todo-app and todo-item.
func NewSession(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := sched.New(sched.WithLogger(logger))
	doc := memdom.NewDocument(s)
	reg := component.NewRegistry(append([]component.Option{component.WithLogger(logger)}, opts.Registry...)...)
	if err := reg.Bind(doc); err != nil {
		return nil, err
	}

	store := NewStore()
	for i := 1; i <= opts.Todos; i++ {
		store.Add(fmt.Sprintf("Todo %d", i))
	}
	for _, def := range []component.Definition{Counter(), App(store), Item(store)} {
		if err := reg.Define(def); err != nil {
			return nil, err
		}
	}
	return &Session{Sched: s, Doc: doc, Registry: reg, Store: store}, nil
}

// Mount appends a new element for the named component to the body and
// runs the scheduler until idle.
func (s *Session) Mount(name string, attrs ...string) (*memdom.Element, error) {
	if len(attrs)%2 != 0 {
		return nil, fmt.Errorf("demo: attrs must be name/value pairs")
	}
	el, err := s.Registry.Create(s.Doc, name)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(attrs); i += 2 {
		el.SetAttribute(attrs[i], attrs[i+1])
	}
	s.Doc.Body().AppendChild(el)
	s.Sched.RunUntilIdle()
	return el.(*memdom.Element), nil
}

// Step is one scripted user action.
type Step struct {
	Name string
	Do   func(s *Session) error
}

// Play runs each step, lets the scheduler settle and reports the serialized
// body to fn.
func (s *Session) Play(steps []Step, fn func(step Step, html string)) error {
	for _, step := range steps {
		if err := step.Do(s); err != nil {
			return fmt.Errorf("demo: step %q: %w", step.Name, err)
		}
		s.Sched.RunUntilIdle()
		if fn != nil {
			fn(step, s.Doc.HTML())
		}
	}
	return nil
}

// Close disconnects every component and drains the scheduler.
func (s *Session) Close() {
	s.Registry.Close()
	s.Sched.RunUntilIdle()
}

// Matcher selects elements.
type Matcher struct {
	desc  string
	match func(e *memdom.Element) bool
}

// String returns the matcher description.
func (m Matcher) String() string { return m.desc }

// ByTag matches elements by tag name.
func ByTag(tag string) Matcher {
	return Matcher{desc: tag, match: func(e *memdom.Element) bool { return e.TagName() == tag }}
}

// ByClass matches elements carrying the class.
func ByClass(class string) Matcher {
	return Matcher{desc: "." + class, match: func(e *memdom.Element) bool {
		v, _ := e.GetAttribute("class")
		for _, c := range strings.Fields(v) {
			if c == class {
				return true
			}
		}
		return false
	}}
}

// ByIs matches customized built-in elements.
func ByIs(is string) Matcher {
	return Matcher{desc: "[is=" + is + "]", match: func(e *memdom.Element) bool { return e.Is() == is }}
}

// FindAll returns the elements under root matching m in document order.
func FindAll(root dom.Parent, m Matcher) []*memdom.Element {
	var out []*memdom.Element
	var walk func(p dom.Parent)
	walk = func(p dom.Parent) {
		for _, n := range p.ChildNodes() {
			e, ok := n.(*memdom.Element)
			if !ok {
				continue
			}
			if m.match(e) {
				out = append(out, e)
			}
			walk(e)
		}
	}
	walk(root)
	return out
}

// Find returns the index-th element under root matching m.
func Find(root dom.Parent, m Matcher, index int) (*memdom.Element, error) {
	all := FindAll(root, m)
	if index < 0 || index >= len(all) {
		return nil, fmt.Errorf("demo: no %s #%d (found %d)", m, index, len(all))
	}
	return all[index], nil
}

func (s *Session) find(m Matcher, index int) (*memdom.Element, error) {
	return Find(s.Doc.Body(), m, index)
}
