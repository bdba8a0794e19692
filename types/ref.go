package types

// RefValue is a resolvable binding to a container slot: the value found
// under key in origin. Member access and indexing produce references so
// that assignment can write through to the container.
type RefValue struct {
	key    Value
	origin Value
	val    Value
}

// NewRef creates a reference to origin[key] currently holding val
func NewRef(key, origin, val Value) *RefValue {
	if val == nil {
		val = None
	}
	return &RefValue{key: key, origin: origin, val: val}
}

func (r *RefValue) isValue() {}

// Type returns the value tag
func (r *RefValue) Type() Tag {
	return TagRef
}

// String renders the resolved value
func (r *RefValue) String() string {
	return Render(r)
}

// Clone copies the reference with a cloned resolved value; the origin is
// a non-owning link and is shared
func (r *RefValue) Clone() Value {
	return deepClone(r, make(map[Value]Value))
}

// Key returns the slot key
func (r *RefValue) Key() Value {
	return r.key
}

// Origin returns the container the slot belongs to
func (r *RefValue) Origin() Value {
	return r.origin
}

// Resolve returns the referenced value
func (r *RefValue) Resolve() Value {
	return Resolve(r.val)
}

// Assign writes v into the referenced slot
func (r *RefValue) Assign(v Value) error {
	switch o := r.origin.(type) {
	case *Map:
		name, err := AsString(r.key)
		if err != nil {
			return err
		}
		o.Assign(name, v)
	case *ListValue:
		n, err := AsInt(r.key)
		if err != nil {
			return err
		}
		idx, ok := NormalizeIndex(n, o.Len())
		if !ok || !o.Set(idx, v) {
			return NewFailure(E_RANGE, "assign", "index %d out of range for list of length %d", n, o.Len())
		}
	case nil:
		return NewFailure(E_INVARG, "assign", "reference to %s has no container", Render(r.key))
	default:
		return NewFailure(E_TYPE, "assign", "%s does not support item assignment", TypeName(o))
	}
	r.val = v
	return nil
}

// Resolve follows references until a concrete value is reached
func Resolve(v Value) Value {
	for {
		r, ok := v.(*RefValue)
		if !ok {
			return v
		}
		v = r.val
	}
}

// NormalizeIndex maps a possibly negative position onto [0, size).
// -1 is the last element.
func NormalizeIndex(pos int64, size int) (int, bool) {
	if pos < 0 {
		pos += int64(size)
	}
	if pos < 0 || pos >= int64(size) {
		return 0, false
	}
	return int(pos), true
}
