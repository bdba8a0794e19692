package types

// Iterator walks the elements of an iterable value
type Iterator interface {
	Next() (Value, bool)
}

// Iterable is implemented by every value with the iterable capability
// (List, Tuple, STuple and custom iterables)
type Iterable interface {
	Value
	Iterator() Iterator
}

// sliceIterator iterates a snapshot of a slice
type sliceIterator struct {
	elements []Value
	pos      int
}

func (it *sliceIterator) Next() (Value, bool) {
	if it.pos >= len(it.elements) {
		return nil, false
	}
	v := it.elements[it.pos]
	it.pos++
	return v, true
}

// Collect drains an iterator into a slice
func Collect(it Iterator) []Value {
	var out []Value
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		out = append(out, v)
	}
	return out
}

// deepClone copies v. Containers already copied during this clone map to
// their copy, so self-referential values keep their shape.
func deepClone(v Value, seen map[Value]Value) Value {
	switch x := v.(type) {
	case *Map:
		if c, ok := seen[x]; ok {
			return c
		}
		c := &Map{vars: make(map[string]Value, len(x.vars)), parent: x.parent}
		seen[x] = c
		for k, e := range x.vars {
			c.vars[k] = deepClone(e, seen)
		}
		return c
	case *ListValue:
		if c, ok := seen[x]; ok {
			return c
		}
		c := &ListValue{}
		seen[x] = c
		c.elements = cloneElements(x.elements, seen)
		return c
	case TupleValue:
		return TupleValue{elements: cloneElements(x.elements, seen), spread: x.spread}
	case *RefValue:
		return &RefValue{key: x.key, origin: x.origin, val: deepClone(x.val, seen)}
	}
	return v.Clone()
}

func cloneElements(elements []Value, seen map[Value]Value) []Value {
	out := make([]Value, len(elements))
	for i, e := range elements {
		out[i] = deepClone(e, seen)
	}
	return out
}

// ListValue is the ordered, mutable sequence. It is a handle: copies of
// the pointer share the elements, Clone duplicates them.
type ListValue struct {
	elements []Value
}

// NewList creates a new list value owning elements
func NewList(elements []Value) *ListValue {
	if elements == nil {
		elements = []Value{}
	}
	return &ListValue{elements: elements}
}

// NewEmptyList creates an empty list
func NewEmptyList() *ListValue {
	return &ListValue{elements: []Value{}}
}

func (l *ListValue) isValue() {}

// Type returns the value tag
func (l *ListValue) Type() Tag {
	return TagList
}

// String returns the default rendering
func (l *ListValue) String() string {
	return Render(l)
}

// Clone deep-copies the list
func (l *ListValue) Clone() Value {
	return deepClone(l, make(map[Value]Value))
}

// Iterator iterates the current elements
func (l *ListValue) Iterator() Iterator {
	return &sliceIterator{elements: l.elements}
}

// Len returns the length of the list
func (l *ListValue) Len() int {
	return len(l.elements)
}

// Get returns the element at a 0-based index
func (l *ListValue) Get(index int) (Value, bool) {
	if index < 0 || index >= len(l.elements) {
		return nil, false
	}
	return l.elements[index], true
}

// Set replaces the element at a 0-based index
func (l *ListValue) Set(index int, v Value) bool {
	if index < 0 || index >= len(l.elements) {
		return false
	}
	l.elements[index] = v
	return true
}

// Push appends a value in place
func (l *ListValue) Push(v Value) {
	l.elements = append(l.elements, v)
}

// DeleteAt removes and returns the element at a 0-based index
func (l *ListValue) DeleteAt(index int) (Value, bool) {
	if index < 0 || index >= len(l.elements) {
		return nil, false
	}
	v := l.elements[index]
	copy(l.elements[index:], l.elements[index+1:])
	l.elements[len(l.elements)-1] = nil
	l.elements = l.elements[:len(l.elements)-1]
	return v, true
}

// Elements returns the internal slice for iteration
func (l *ListValue) Elements() []Value {
	return l.elements
}

// TupleValue is an immutable positional group: literal parenthesized
// groups (TagTuple) or argument-spread groups (TagSTuple)
type TupleValue struct {
	elements []Value
	spread   bool
}

// NewTuple creates a literal tuple
func NewTuple(elements ...Value) TupleValue {
	return TupleValue{elements: elements}
}

// NewSTuple creates an argument-spread tuple
func NewSTuple(elements ...Value) TupleValue {
	return TupleValue{elements: elements, spread: true}
}

func (t TupleValue) isValue() {}

// Type returns TagSTuple for spread groups, TagTuple otherwise
func (t TupleValue) Type() Tag {
	if t.spread {
		return TagSTuple
	}
	return TagTuple
}

// String returns the default rendering
func (t TupleValue) String() string {
	return Render(t)
}

// Clone deep-copies the tuple
func (t TupleValue) Clone() Value {
	return deepClone(t, make(map[Value]Value))
}

// Iterator iterates the elements
func (t TupleValue) Iterator() Iterator {
	return &sliceIterator{elements: t.elements}
}

// Len returns the number of elements
func (t TupleValue) Len() int {
	return len(t.elements)
}

// Get returns the element at a 0-based index
func (t TupleValue) Get(index int) (Value, bool) {
	if index < 0 || index >= len(t.elements) {
		return nil, false
	}
	return t.elements[index], true
}

// Elements returns a copy of the element slice
func (t TupleValue) Elements() []Value {
	out := make([]Value, len(t.elements))
	copy(out, t.elements)
	return out
}

// IterValue is a custom iterable: a named factory of fresh iterators
type IterValue struct {
	name    string
	factory func() Iterator
}

// NewIterable wraps an iterator factory as a value
func NewIterable(name string, factory func() Iterator) *IterValue {
	return &IterValue{name: name, factory: factory}
}

func (i *IterValue) isValue() {}

// Type returns the value tag
func (i *IterValue) Type() Tag {
	return TagIterable
}

// String returns the default rendering
func (i *IterValue) String() string {
	return Render(i)
}

// Clone returns the same iterable; the factory is stateless
func (i *IterValue) Clone() Value {
	return &IterValue{name: i.name, factory: i.factory}
}

// Iterator returns a fresh iterator
func (i *IterValue) Iterator() Iterator {
	return i.factory()
}

// Name returns the iterable's name
func (i *IterValue) Name() string {
	return i.name
}
