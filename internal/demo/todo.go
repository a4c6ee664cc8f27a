package demo

import (
	"strconv"

	"github.com/guise-dev/guise/pkg/component"
	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/sched"
	"github.com/guise-dev/guise/pkg/vdom"
)

const (
	// AppName is the element name of the todo application.
	AppName = "todo-app"

	// ItemName customizes <li> elements that render one todo.
	ItemName = "todo-item"
)

type appModel struct {
	filter    Filter
	all       []int
	active    []int
	completed []int
}

func (m *appModel) visible() []int {
	switch m.filter {
	case Active:
		return m.active
	case Completed:
		return m.completed
	default:
		return m.all
	}
}

// App defines <todo-app>, a TodoMVC-style list backed by store.
func App(store *Store) component.Definition {
	return component.Definition{
		Name: AppName,
		Init: func(dom.Element, *component.AttributesChanged) sched.Stream[*vdom.Tree] {
			return appView(store)
		},
	}
}

func appView(store *Store) sched.Stream[*vdom.Tree] {
	vm := component.NewViewModel(appModel{})
	up := vm.Updater()

	refresh := func(m *appModel) {
		m.all = store.IDs(All)
		m.active = store.IDs(Active)
		m.completed = store.IDs(Completed)
	}
	up.Update(refresh)
	store.Watch(func() bool { return up.Update(refresh) == nil })

	newTodo := sched.NewListener(func(ev dom.KeyboardEvent) {
		if ev.Key() != "Enter" {
			return
		}
		input, ok := ev.CurrentTarget().(dom.ValueHolder)
		if !ok {
			return
		}
		store.Add(input.Value())
		input.SetValue("")
	})
	toggleAll := sched.NewListener(func(ev dom.Event) {
		if c, ok := ev.CurrentTarget().(dom.Checkable); ok {
			store.SetAllComplete(c.Checked())
		}
	})
	clearCompleted := sched.NewListener(func(dom.Event) {
		store.ClearCompleted()
	})
	showFilter := func(f Filter) sched.Listener[dom.Event] {
		return sched.NewListener(func(dom.Event) {
			up.Update(func(m *appModel) { m.filter = f })
		})
	}
	filters := []sched.Listener[dom.Event]{showFilter(All), showFilter(Active), showFilter(Completed)}

	return vm.Rendered(func(m *appModel) *vdom.Tree {
		t := vdom.New()
		t.Element("div", func(b *vdom.Builder) {
			b.Class("todoapp")

			b.Header(func(b *vdom.Builder) {
				b.Class("header")
				b.H1(func(b *vdom.Builder) { b.Text("todos") })
				b.Input(func(b *vdom.Builder) {
					b.Type("text")
					b.Class("new-todo")
					b.Placeholder("What needs to be done?")
					b.Autofocus()
					vdom.OnKeyDown(b, newTodo)
				})
			})

			if len(m.all) == 0 {
				return
			}

			b.Section(func(b *vdom.Builder) {
				b.Class("main")
				b.Input(func(b *vdom.Builder) {
					b.Type("checkbox")
					b.ID("toggle-all")
					b.Class("toggle-all")
					b.Checked(len(m.completed) == len(m.all))
					vdom.OnInput(b, toggleAll)
				})
				b.Label(func(b *vdom.Builder) {
					b.For("toggle-all")
					b.Text("Mark all as complete")
				})
				b.Ul(func(b *vdom.Builder) {
					b.Class("todo-list")
					for _, id := range m.visible() {
						b.ElementIs("li", ItemName, func(b *vdom.Builder) {
							b.Attr("todo-id", strconv.Itoa(id))
						})
					}
				})
			})

			b.Footer(func(b *vdom.Builder) {
				b.Class("footer")
				b.Span(func(b *vdom.Builder) {
					b.Class("todo-count")
					b.Strong(func(b *vdom.Builder) { b.Text(strconv.Itoa(len(m.active))) })
					if len(m.active) == 1 {
						b.Text(" item left")
					} else {
						b.Text(" items left")
					}
				})
				b.Ul(func(b *vdom.Builder) {
					b.Class("filters")
					for i, f := range []Filter{All, Active, Completed} {
						b.Li(func(b *vdom.Builder) {
							b.A(func(b *vdom.Builder) {
								if m.filter == f {
									b.Class("selected")
								}
								b.Href("#/" + filterPath(f))
								vdom.OnClick(b, filters[i])
								b.Text(f.String())
							})
						})
					}
				})
				if len(m.completed) > 0 {
					b.Button(func(b *vdom.Builder) {
						b.Class("clear-completed")
						vdom.OnClick(b, clearCompleted)
						b.Text("Clear completed")
					})
				}
			})
		})
		return t
	})
}

func filterPath(f Filter) string {
	switch f {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return ""
	}
}

type itemModel struct {
	note     string
	complete bool
	editing  bool
}

// Item defines <li is="todo-item" todo-id="N">, one row of the todo list.
// A new todo-id rebuilds the row's view model.
func Item(store *Store) component.Definition {
	return component.Definition{
		Name:     ItemName,
		Extends:  "li",
		Observed: []string{"todo-id"},
		Init: func(_ dom.Element, changes *component.AttributesChanged) sched.Stream[*vdom.Tree] {
			return sched.SwitchMap[component.Attrs, *vdom.Tree](changes, func(a component.Attrs) sched.Stream[*vdom.Tree] {
				id, err := strconv.Atoi(a.Value("todo-id"))
				if err != nil {
					id = -1
				}
				return itemView(store, id)
			})
		},
	}
}

func itemView(store *Store, id int) sched.Stream[*vdom.Tree] {
	vm := component.NewViewModel(itemModel{})
	up := vm.Updater()
	edit := vdom.NewRef()

	load := func(m *itemModel) {
		if t, ok := store.Get(id); ok {
			m.note = t.Note
			m.complete = t.Complete
		}
	}
	up.Update(load)
	store.Watch(func() bool { return up.Update(load) == nil })

	save := func(note string) {
		if up.Update(func(m *itemModel) { m.editing = false }) != nil {
			return
		}
		store.SetNote(id, note)
	}
	saveOnEnter := sched.NewListener(func(ev dom.KeyboardEvent) {
		if ev.Key() != "Enter" {
			return
		}
		if input, ok := ev.CurrentTarget().(dom.ValueHolder); ok {
			save(input.Value())
		}
	})
	saveOnBlur := sched.NewListener(func(ev dom.Event) {
		if input, ok := ev.CurrentTarget().(dom.ValueHolder); ok {
			save(input.Value())
		}
	})
	toggle := sched.NewListener(func(ev dom.Event) {
		if c, ok := ev.CurrentTarget().(dom.Checkable); ok {
			store.SetComplete(id, c.Checked())
		}
	})
	startEditing := sched.NewListener(func(dom.Event) {
		up.Update(func(m *itemModel) { m.editing = true })
	})
	destroy := sched.NewListener(func(dom.Event) {
		store.Remove(id)
	})

	return vm.Rendered(func(m *itemModel) *vdom.Tree {
		t := vdom.New()
		t.Element("div", func(b *vdom.Builder) {
			if m.complete || m.editing {
				b.Class(flag(m.complete, "completed"), flag(m.editing, "editing"))
			}

			if m.editing {
				b.Input(func(b *vdom.Builder) {
					b.Type("text")
					b.Class("edit")
					b.Autofocus()
					b.Value(m.note)
					vdom.OnKeyDown(b, saveOnEnter)
					vdom.OnFocusOut(b, saveOnBlur)
					b.Ref(edit)
				})
				return
			}

			b.Div(func(b *vdom.Builder) {
				b.Class("view")
				b.Input(func(b *vdom.Builder) {
					b.Type("checkbox")
					b.Class("toggle")
					b.Checked(m.complete)
					vdom.OnInput(b, toggle)
				})
				b.Label(func(b *vdom.Builder) {
					vdom.OnDblClick(b, startEditing)
					b.Text(m.note)
				})
				b.Button(func(b *vdom.Builder) {
					b.Class("destroy")
					vdom.OnClick(b, destroy)
				})
			})
		})

		if m.editing {
			t.OnCommitted(func(dom.Element) {
				if f, ok := edit.Get().(dom.Focusable); ok {
					f.Focus()
				}
			})
		}
		return t
	})
}

func flag(on bool, class string) string {
	if on {
		return class
	}
	return ""
}
