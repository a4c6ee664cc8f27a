package vdom

// Attribute is a name/value pair on an element. Boolean attributes carry an
// empty value and are written without one.
type Attribute struct {
	Name    string
	Value   string
	Boolean bool
}

// AttrOpKind is the type of an attribute operation.
type AttrOpKind uint8

const (
	AttrSet    AttrOpKind = iota + 1 // add or update
	AttrRemove                       // remove
)

// String returns the string representation of the AttrOpKind.
func (k AttrOpKind) String() string {
	switch k {
	case AttrSet:
		return "Set"
	case AttrRemove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// AttrOp is one attribute mutation.
type AttrOp struct {
	Kind  AttrOpKind
	Name  string
	Value string
}

// DiffAttributes returns the operations that turn prev into next.
//
// With an empty prev every attribute of next is set; with an empty next every
// attribute of prev is removed. Otherwise attributes of next whose value
// differs from the same-named attribute of prev (or that prev lacks) are set,
// in next order, followed by removals of the attributes of prev that next
// lacks, in prev order. Comparison is quadratic; element attribute counts are
// small.
func DiffAttributes(prev, next []Attribute) []AttrOp {
	return appendAttrOps(nil, prev, next)
}

func appendAttrOps(dst []AttrOp, prev, next []Attribute) []AttrOp {
	if len(prev) == 0 {
		for _, a := range next {
			dst = append(dst, AttrOp{Kind: AttrSet, Name: a.Name, Value: a.Value})
		}
		return dst
	}
	if len(next) == 0 {
		for _, a := range prev {
			dst = append(dst, AttrOp{Kind: AttrRemove, Name: a.Name})
		}
		return dst
	}

next:
	for _, a := range next {
		for _, old := range prev {
			if a.Name == old.Name {
				if a.Value == old.Value {
					continue next
				}
				break
			}
		}
		dst = append(dst, AttrOp{Kind: AttrSet, Name: a.Name, Value: a.Value})
	}

prev:
	for _, old := range prev {
		for _, a := range next {
			if a.Name == old.Name {
				continue prev
			}
		}
		dst = append(dst, AttrOp{Kind: AttrRemove, Name: old.Name})
	}
	return dst
}
