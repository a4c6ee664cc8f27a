package demo

import (
	"strconv"

	"github.com/guise-dev/guise/pkg/component"
	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/sched"
	"github.com/guise-dev/guise/pkg/vdom"
)

// CounterName is the element name of the counter demo.
const CounterName = "x-counter"

// Counter defines <x-counter initial-count="N">: a count and an increment
// button. Changing initial-count restarts the count from the new value.
func Counter() component.Definition {
	return component.Definition{
		Name:     CounterName,
		Observed: []string{"initial-count"},
		Init: func(_ dom.Element, changes *component.AttributesChanged) sched.Stream[*vdom.Tree] {
			return sched.SwitchMap[component.Attrs, *vdom.Tree](changes, counterView)
		},
	}
}

func counterView(attrs component.Attrs) sched.Stream[*vdom.Tree] {
	initial, _ := strconv.Atoi(attrs.Value("initial-count"))
	vm := component.NewViewModel(initial)
	up := vm.Updater()

	increment := sched.NewListener(func(dom.Event) {
		up.Update(func(n *int) { *n++ })
	})

	return vm.Rendered(func(n *int) *vdom.Tree {
		t := vdom.New()
		t.Text(strconv.Itoa(*n))
		t.Element("button", func(b *vdom.Builder) {
			vdom.OnClick(b, increment)
			b.Text("Increment!")
		})
		return t
	})
}
