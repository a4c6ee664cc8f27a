package memdom

// Op is a kind of recorded mutation.
type Op string

const (
	OpCreateElement   Op = "create-element"
	OpCreateText      Op = "create-text"
	OpSetAttribute    Op = "set-attribute"
	OpRemoveAttribute Op = "remove-attribute"
	OpSetData         Op = "set-data"
	OpSetChecked      Op = "set-checked"
	OpAppendChild     Op = "append-child"
	OpReplaceChild    Op = "replace-child"
	OpRemoveChild     Op = "remove-child"
)

// Mutation is one recorded change to the document.
// Target and Name hold node labels such as "div#3"; for attribute mutations
// Name is the attribute name.
type Mutation struct {
	Op     Op
	Target string
	Name   string
	Value  string
}

func (d *Document) record(m Mutation) {
	d.logMu.Lock()
	d.mutations = append(d.mutations, m)
	d.logMu.Unlock()
}

// Mutations returns a copy of the mutation log.
func (d *Document) Mutations() []Mutation {
	d.logMu.Lock()
	defer d.logMu.Unlock()
	out := make([]Mutation, len(d.mutations))
	copy(out, d.mutations)
	return out
}

// ResetMutations clears the mutation log.
func (d *Document) ResetMutations() {
	d.logMu.Lock()
	d.mutations = nil
	d.logMu.Unlock()
}

// CountOps returns how many logged mutations have one of the given ops.
func (d *Document) CountOps(ops ...Op) int {
	d.logMu.Lock()
	defer d.logMu.Unlock()
	n := 0
	for _, m := range d.mutations {
		for _, op := range ops {
			if m.Op == op {
				n++
				break
			}
		}
	}
	return n
}
