package component

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/sched"
	"github.com/guise-dev/guise/pkg/vdom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State is the lifecycle state of an Instance.
type State uint8

const (
	Unattached State = iota
	Connected
	Disconnected
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case Unattached:
		return "Unattached"
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// Instance is one mounted element of a defined component. It owns the
// element's render loop and its last committed tree.
type Instance struct {
	reg  *Registry
	def  *Definition
	host dom.Element
	root dom.Parent

	director *director

	mu      sync.Mutex
	state   State
	render  *sched.Handle
	last    *vdom.Tree
	commits uint64
}

func newInstance(reg *Registry, def *Definition, host dom.Element) (*Instance, error) {
	inst := &Instance{
		reg:      reg,
		def:      def,
		host:     host,
		root:     host,
		director: newDirector(),
	}
	if def.Shadow {
		sh, ok := host.(dom.ShadowHost)
		if !ok {
			return nil, &InstanceError{Name: def.Name, Op: "attach shadow", Err: ErrNoShadowHost}
		}
		inst.root = sh.AttachShadow()
	}
	return inst, nil
}

// Name returns the component name.
func (i *Instance) Name() string { return i.def.Name }

// Host returns the element the component is mounted on.
func (i *Instance) Host() dom.Element { return i.host }

// Root returns the parent the component renders into: its shadow root for
// shadow-hosted components, otherwise the host itself.
func (i *Instance) Root() dom.Parent { return i.root }

// State returns the lifecycle state.
func (i *Instance) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Commits returns the number of trees committed so far.
func (i *Instance) Commits() uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.commits
}

// Tree returns a text dump of the last committed tree, or "" before the
// first commit.
func (i *Instance) Tree() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.last == nil {
		return ""
	}
	return i.last.Dump()
}

func (i *Instance) connect() {
	i.mu.Lock()
	if i.state == Connected {
		i.mu.Unlock()
		return
	}
	i.state = Connected
	i.mu.Unlock()

	i.director.connect(i.observedAttrs())
	changes := &AttributesChanged{d: i.director}
	stream := i.def.Init(i.host, changes)

	s := i.host.OwnerDocument().Scheduler()
	handle := s.Spawn("render:"+i.def.Name, &renderTask{inst: i, stream: stream})

	i.mu.Lock()
	i.render = handle
	i.mu.Unlock()

	if i.reg.recorder != nil {
		i.reg.recorder.Mounted(i.def.Name, 1)
	}
	i.reg.logger.Debug("component connected", "component", i.def.Name)
}

func (i *Instance) disconnect() {
	i.mu.Lock()
	if i.state != Connected {
		i.mu.Unlock()
		return
	}
	i.state = Disconnected
	handle := i.render
	i.render = nil
	last := i.last
	i.mu.Unlock()

	// Aborting closes the render stream. Sink tasks of the last tree are
	// separate tasks and need their own cancellation. The tree itself is
	// kept: it still describes the live children should the element be
	// connected again.
	handle.Abort()
	if last != nil {
		last.CancelSinks()
		last.ClearRefs()
	}
	i.director.disconnect()

	if i.reg.recorder != nil {
		i.reg.recorder.Mounted(i.def.Name, -1)
	}
	i.reg.logger.Debug("component disconnected", "component", i.def.Name)
}

// destroy releases the kept tree and removes the children it described, so a
// later connect starts from an empty root. It reports false when the
// instance is connected.
func (i *Instance) destroy() bool {
	i.mu.Lock()
	if i.state == Connected {
		i.mu.Unlock()
		return false
	}
	last := i.last
	i.last = nil
	i.mu.Unlock()

	if last != nil {
		last.Release()
		for _, n := range i.root.ChildNodes() {
			n.Remove()
		}
	}
	return true
}

func (i *Instance) attributeChanged(name, value string, present bool) {
	i.director.update(name, value, present)
}

func (i *Instance) observedAttrs() Attrs {
	var a Attrs
	for _, name := range i.def.Observed {
		if v, ok := i.host.GetAttribute(name); ok {
			a.set(name, v, true)
		}
	}
	return a
}

// commit patches next into the live tree.
func (i *Instance) commit(next *vdom.Tree) {
	name := i.def.Name
	_, span := i.reg.tracer.Start(context.Background(), "guise.commit",
		trace.WithAttributes(attribute.String("guise.component", name)),
	)
	defer func() {
		if r := recover(); r != nil {
			span.RecordError(fmt.Errorf("%v", r))
			span.SetStatus(codes.Error, "patch failed")
			span.End()
			panic(r)
		}
	}()

	start := time.Now()

	i.mu.Lock()
	prev := i.last
	i.last = nil
	i.mu.Unlock()

	stats := vdom.Patch(i.root, prev, next)

	i.mu.Lock()
	i.last = next
	i.commits++
	seq := i.commits
	i.mu.Unlock()

	next.RunOnCommitted(i.host)
	d := time.Since(start)

	span.SetAttributes(
		attribute.Int64("guise.commit.seq", int64(seq)),
		attribute.Int("guise.commit.mutations", stats.Mutations()),
		attribute.Int("guise.commit.replaced", stats.Replaced),
		attribute.Int("guise.commit.sinks", stats.Sinks),
	)
	span.End()

	if i.reg.recorder != nil {
		i.reg.recorder.Commit(name, stats, d)
	}
	c := Commit{Component: name, Host: i.host, Seq: seq, Stats: stats, Duration: d, At: start}
	for _, o := range i.reg.commitObservers() {
		o.Committed(c)
	}
	i.reg.logger.Debug("commit",
		"component", name,
		"seq", seq,
		"mutations", stats.Mutations(),
		"created", stats.Created,
		"duration", d,
	)
}

// renderTask commits every tree the render stream produces.
type renderTask struct {
	inst   *Instance
	stream sched.Stream[*vdom.Tree]
}

func (t *renderTask) Poll(cx *sched.Context) sched.Poll {
	for {
		tree, p := t.stream.PollNext(cx)
		switch p {
		case sched.Ready:
			t.inst.commit(tree)
		case sched.Closed:
			return sched.Ready
		default:
			return sched.Pending
		}
	}
}

// Cancel closes the render stream.
func (t *renderTask) Cancel() {
	sched.CloseStream(t.stream)
}
