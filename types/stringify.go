package types

import "strings"

// DefaultDepth is the depth budget used by String() and Render
const DefaultDepth = 3

// Overrider supplies per-type stringify overrides. An empty result asks
// for the default rendering.
type Overrider interface {
	StringOverride(v Value, depth int) (string, error)
}

// Render returns the default rendering of v with DefaultDepth and no overrides
func Render(v Value) string {
	s, _ := Stringify(v, DefaultDepth, nil)
	return s
}

// RenderDepth returns the default rendering of v with the given depth budget
func RenderDepth(v Value, depth int) string {
	s, _ := Stringify(v, depth, nil)
	return s
}

// Stringify renders v. Containers recurse with depth-1; at depth 0 they
// render as a placeholder. The override hook, when present, is consulted
// at every level before the default rendering.
func Stringify(v Value, depth int, ov Overrider) (string, error) {
	if v == nil {
		return "undefined", nil
	}
	if depth < 0 {
		depth = 0
	}

	// References render as the value they resolve to; an anonymous
	// function takes the name of the slot holding it
	var slot string
	if r, ok := v.(*RefValue); ok {
		if k, err := AsString(r.key); err == nil {
			slot = k
		}
		v = r.Resolve()
	}

	if ov != nil {
		s, err := ov.StringOverride(v, depth)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
	}

	switch x := v.(type) {
	case *Function:
		if x.name != "" {
			return "[function: " + x.name + "]", nil
		}
		if slot != "" {
			return "[function: " + slot + "]", nil
		}
		return "[function]", nil

	case TupleValue:
		if depth == 0 {
			return "[tuple]", nil
		}
		if len(x.elements) == 0 {
			// distinguishes the empty tuple from ()
			return "(,)", nil
		}
		parts, err := stringifyAll(x.elements, depth-1, ov)
		if err != nil {
			return "", err
		}
		return "(" + strings.Join(parts, ", ") + ")", nil

	case *Map:
		if depth == 0 {
			return "[map]", nil
		}
		if len(x.vars) == 0 {
			return "{}", nil
		}
		var b strings.Builder
		b.WriteString("{")
		for i, k := range x.Keys() {
			if i > 0 {
				b.WriteString(",")
			}
			s, err := Stringify(x.vars[k], depth-1, ov)
			if err != nil {
				return "", err
			}
			b.WriteString(` "` + k + `": ` + s)
		}
		b.WriteString(" }")
		return b.String(), nil

	case *ListValue:
		if depth == 0 {
			return "[list]", nil
		}
		if len(x.elements) == 0 {
			return "[]", nil
		}
		parts, err := stringifyAll(x.elements, depth-1, ov)
		if err != nil {
			return "", err
		}
		return "[ " + strings.Join(parts, ", ") + " ]", nil

	case *IterValue:
		return "[iterator]", nil

	default:
		return v.String(), nil
	}
}

func stringifyAll(elements []Value, depth int, ov Overrider) ([]string, error) {
	parts := make([]string, len(elements))
	for i, e := range elements {
		s, err := Stringify(e, depth, ov)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return parts, nil
}

// Equal compares two values: numerics across tags by real value,
// everything else by tag and canonical rendering
func Equal(a, b Value) bool {
	a, b = Resolve(a), Resolve(b)
	if a == nil || b == nil {
		return a == b
	}
	if a.Type().In(Numeric) && b.Type().In(Numeric) {
		ra, _ := AsReal(a)
		rb, _ := AsReal(b)
		return ra == rb
	}
	if a.Type() != b.Type() {
		return false
	}
	return Render(a) == Render(b)
}
