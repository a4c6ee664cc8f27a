package demo

import "fmt"

// CounterScript mounts a counter starting at 0, clicks it clicks times and
// finally resets it through its initial-count attribute.
func CounterScript(clicks int) []Step {
	steps := []Step{{
		Name: "mount x-counter",
		Do: func(s *Session) error {
			_, err := s.Mount(CounterName, "initial-count", "0")
			return err
		},
	}}
	for i := 1; i <= clicks; i++ {
		steps = append(steps, Step{
			Name: fmt.Sprintf("click #%d", i),
			Do: func(s *Session) error {
				btn, err := s.find(ByTag("button"), 0)
				if err != nil {
					return err
				}
				btn.Click()
				return nil
			},
		})
	}
	return append(steps, Step{
		Name: "set initial-count=10",
		Do: func(s *Session) error {
			el, err := s.find(ByTag(CounterName), 0)
			if err != nil {
				return err
			}
			el.SetAttribute("initial-count", "10")
			return nil
		},
	})
}

// TodoScript walks through the todo app: add, complete, edit, filter,
// clear completed and remove.
func TodoScript() []Step {
	return []Step{
		{
			Name: "mount todo-app",
			Do: func(s *Session) error {
				_, err := s.Mount(AppName)
				return err
			},
		},
		{
			Name: "add \"Buy milk\"",
			Do: func(s *Session) error {
				input, err := s.find(ByClass("new-todo"), 0)
				if err != nil {
					return err
				}
				input.Type("Buy milk")
				input.KeyDown("Enter")
				return nil
			},
		},
		{
			Name: "complete the first todo",
			Do: func(s *Session) error {
				toggle, err := s.find(ByClass("toggle"), 0)
				if err != nil {
					return err
				}
				toggle.Toggle()
				return nil
			},
		},
		{
			Name: "start editing the second todo",
			Do: func(s *Session) error {
				item, err := s.find(ByIs(ItemName), 1)
				if err != nil {
					return err
				}
				label, err := Find(item, ByTag("label"), 0)
				if err != nil {
					return err
				}
				label.DoubleClick()
				return nil
			},
		},
		{
			Name: "rename it to \"Walk the dog\"",
			Do: func(s *Session) error {
				input, err := s.find(ByClass("edit"), 0)
				if err != nil {
					return err
				}
				input.Type("Walk the dog")
				input.KeyDown("Enter")
				return nil
			},
		},
		{
			Name: "show active",
			Do: func(s *Session) error {
				link, err := s.find(ByTag("a"), int(Active))
				if err != nil {
					return err
				}
				link.Click()
				return nil
			},
		},
		{
			Name: "clear completed",
			Do: func(s *Session) error {
				btn, err := s.find(ByClass("clear-completed"), 0)
				if err != nil {
					return err
				}
				btn.Click()
				return nil
			},
		},
		{
			Name: "remove the last todo",
			Do: func(s *Session) error {
				all := FindAll(s.Doc.Body(), ByClass("destroy"))
				if len(all) == 0 {
					return fmt.Errorf("demo: no todos left")
				}
				all[len(all)-1].Click()
				return nil
			},
		},
	}
}
