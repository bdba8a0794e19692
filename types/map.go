package types

import "sort"

// Map is a name -> value mapping with an optional parent link.
// It doubles as lexical scope and as a prototype-inheriting object.
//
// The parent is a non-owning back-link used only for lookup: the parent
// must outlive every child holding it. Extend is the only way to set a
// parent, and it always creates a fresh container, so the chain is
// acyclic by construction.
type Map struct {
	vars   map[string]Value
	parent *Map
}

// NewMap creates an empty container with no parent
func NewMap() *Map {
	return &Map{vars: make(map[string]Value)}
}

// NewMapFrom creates a parentless container holding pairs
func NewMapFrom(pairs map[string]Value) *Map {
	m := &Map{vars: make(map[string]Value, len(pairs))}
	for k, v := range pairs {
		m.vars[k] = v
	}
	return m
}

func (m *Map) isValue() {}

// Type returns the value tag
func (m *Map) Type() Tag {
	return TagMap
}

// String returns the default rendering
func (m *Map) String() string {
	return Render(m)
}

// Clone deep-copies the local mapping. The copy keeps the same parent
// link; inheritance is shared, local entries are not.
func (m *Map) Clone() Value {
	return deepClone(m, make(map[Value]Value))
}

// Copy returns an independent parentless copy of the local mapping
// (values are shared, not cloned)
func (m *Map) Copy() *Map {
	return NewMapFrom(m.vars)
}

// Lookup searches the local mapping, then the parent chain
func (m *Map) Lookup(name string) (Value, bool) {
	for c := m; c != nil; c = c.parent {
		if v, ok := c.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Local searches only the local mapping
func (m *Map) Local(name string) (Value, bool) {
	v, ok := m.vars[name]
	return v, ok
}

// Assign binds name in the local mapping, shadowing any ancestor
func (m *Map) Assign(name string, v Value) {
	m.vars[name] = v
}

// Erase removes a local binding. Inherited entries are untouched.
func (m *Map) Erase(name string) bool {
	if _, ok := m.vars[name]; !ok {
		return false
	}
	delete(m.vars, name)
	return true
}

// Len returns the number of local entries
func (m *Map) Len() int {
	return len(m.vars)
}

// Keys returns the local keys in sorted order
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.vars))
	for k := range m.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parent returns the parent container (nil for a root)
func (m *Map) Parent() *Map {
	return m.parent
}

// Extend returns a new container with an empty local mapping whose
// parent is m
func (m *Map) Extend() *Map {
	return &Map{vars: make(map[string]Value), parent: m}
}

// IsInstanceOf walks the chain starting at m's parent and reports whether
// candidate is one of m's ancestors (by identity)
func (m *Map) IsInstanceOf(candidate *Map) bool {
	if candidate == nil {
		return false
	}
	for p := m.parent; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// Extend returns a child of v, failing unless v is an extensible container
func Extend(v Value) (*Map, error) {
	m, ok := Resolve(v).(*Map)
	if !ok {
		return nil, NewFailure(E_INVARG, "extend", "%s is not extensible", Render(v))
	}
	return m.Extend(), nil
}
