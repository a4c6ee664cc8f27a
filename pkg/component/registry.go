package component

import (
	"log/slog"
	"regexp"
	"sort"
	"sync"

	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/sched"
	"github.com/guise-dev/guise/pkg/vdom"
	"go.opentelemetry.io/otel/trace"
)

// InitFunc starts a component. It is called on every connect with the host
// element and the stream of observed attribute snapshots, and returns the
// stream of trees to commit into the component's root.
type InitFunc func(host dom.Element, changes *AttributesChanged) sched.Stream[*vdom.Tree]

// Definition describes a component.
type Definition struct {
	// Name is the custom element name, e.g. "todo-app".
	Name string

	// Extends names the built-in tag a customized built-in element upgrades,
	// e.g. "li" for <li is="todo-item">. Empty for autonomous elements.
	Extends string

	// Observed lists the attributes delivered through AttributesChanged.
	Observed []string

	// Shadow renders into an open shadow root instead of the host's children.
	Shadow bool

	Init InitFunc
}

// Registry holds component definitions and the instances mounted from them.
// Bound to a document, it receives the document's custom element callbacks.
type Registry struct {
	mu        sync.Mutex
	defs      map[string]*Definition
	instances map[dom.Element]*Instance

	logger    *slog.Logger
	tracer    trace.Tracer
	recorder  Recorder
	observers []CommitObserver
}

var _ dom.CustomElementHooks = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		defs:      make(map[string]*Definition),
		instances: make(map[dom.Element]*Instance),
		logger:    slog.Default(),
		tracer:    defaultTracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Matches the lowercase ASCII subset of valid custom element names.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9._]*(-[a-z0-9._]*)+$`)

var reservedNames = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// ValidName reports whether name is usable as a custom element name.
func ValidName(name string) bool {
	return namePattern.MatchString(name) && !reservedNames[name]
}

// Define registers a component.
func (r *Registry) Define(def Definition) error {
	if !ValidName(def.Name) {
		return &InstanceError{Name: def.Name, Op: "define", Err: ErrInvalidName}
	}
	if def.Init == nil {
		return &InstanceError{Name: def.Name, Op: "define", Err: ErrNoInit}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[def.Name]; ok {
		return &InstanceError{Name: def.Name, Op: "define", Err: ErrAlreadyDefined}
	}
	def.Observed = append([]string(nil), def.Observed...)
	r.defs[def.Name] = &def
	r.logger.Debug("component defined", "component", def.Name, "extends", def.Extends)
	return nil
}

// Names returns the defined component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind installs the registry as doc's custom element callbacks.
func (r *Registry) Bind(doc dom.Document) error {
	host, ok := doc.(dom.CustomElementHost)
	if !ok {
		return ErrNoHooks
	}
	host.SetCustomElementHooks(r)
	return nil
}

// Create makes a detached element for the named component.
func (r *Registry) Create(doc dom.Document, name string) (dom.Element, error) {
	r.mu.Lock()
	def, ok := r.defs[name]
	r.mu.Unlock()
	if !ok {
		return nil, &InstanceError{Name: name, Op: "create", Err: ErrNotDefined}
	}
	if def.Extends != "" {
		return doc.CreateCustomizedElement(def.Extends, name), nil
	}
	return doc.CreateElement(name), nil
}

// Instance returns the instance mounted on el.
func (r *Registry) Instance(el dom.Element) (*Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[el]
	return inst, ok
}

// Instances returns the live instances: connected ones, and disconnected ones
// whose host may still be reattached during the current loop turn.
func (r *Registry) Instances() []*Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		out = append(out, inst)
	}
	return out
}

// Observe adds a commit observer after construction.
func (r *Registry) Observe(o CommitObserver) {
	if o == nil {
		return
	}
	r.mu.Lock()
	r.observers = append(r.observers, o)
	r.mu.Unlock()
}

func (r *Registry) commitObservers() []CommitObserver {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.observers
}

// Close disconnects every connected instance.
func (r *Registry) Close() {
	for _, inst := range r.Instances() {
		inst.disconnect()
	}
}

// Defines implements dom.CustomElementHooks.
func (r *Registry) Defines(el dom.Element) bool {
	return r.lookup(el) != nil
}

// Connected implements dom.CustomElementHooks.
func (r *Registry) Connected(el dom.Element) {
	if inst := r.instance(el); inst != nil {
		inst.connect()
	}
}

// Disconnected implements dom.CustomElementHooks. An element that is not
// reattached before the next loop turn loses its instance.
func (r *Registry) Disconnected(el dom.Element) {
	inst, ok := r.Instance(el)
	if !ok {
		return
	}
	inst.disconnect()
	el.OwnerDocument().Scheduler().Post(func() { r.reap(el, inst) })
}

// AttributeChanged implements dom.CustomElementHooks. Changes to attributes
// the definition does not observe are ignored, as are changes on elements
// that were never connected: connect reads the current values.
func (r *Registry) AttributeChanged(el dom.Element, name, value string, present bool) {
	def := r.lookup(el)
	if def == nil || !observes(def, name) {
		return
	}
	if inst, ok := r.Instance(el); ok {
		inst.attributeChanged(name, value, present)
	}
}

// reap destroys inst unless its host was connected again.
func (r *Registry) reap(el dom.Element, inst *Instance) {
	if el.IsConnected() || !inst.destroy() {
		return
	}
	r.mu.Lock()
	if r.instances[el] == inst {
		delete(r.instances, el)
	}
	r.mu.Unlock()
	r.logger.Debug("component destroyed", "component", inst.def.Name)
}

func (r *Registry) lookup(el dom.Element) *Definition {
	r.mu.Lock()
	defer r.mu.Unlock()
	if is := el.Is(); is != "" {
		if def, ok := r.defs[is]; ok && def.Extends == el.TagName() {
			return def
		}
		return nil
	}
	if def, ok := r.defs[el.TagName()]; ok && def.Extends == "" {
		return def
	}
	return nil
}

// instance returns the instance for el, creating it on first connect.
func (r *Registry) instance(el dom.Element) *Instance {
	def := r.lookup(el)
	if def == nil {
		return nil
	}

	r.mu.Lock()
	inst, ok := r.instances[el]
	r.mu.Unlock()
	if ok {
		return inst
	}

	inst, err := newInstance(r, def, el)
	if err != nil {
		r.logger.Error("component mount failed", "component", def.Name, "error", err)
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.instances[el]; ok {
		return existing
	}
	r.instances[el] = inst
	return inst
}

func observes(def *Definition, name string) bool {
	for _, o := range def.Observed {
		if o == name {
			return true
		}
	}
	return false
}
