package builtins

import (
	"strings"

	"calc/types"
)

// ============================================================================
// CONTAINER OPERATORS
// ============================================================================

const sequences = types.TagList | types.Tuples

// InstallContainerOperators registers concatenation, indexing and
// membership
func InstallContainerOperators(r *Registry) {
	ops := r.Operators()
	ops.Define("[]", 2, LeftAssoc)
	ops.Define("+", 6, LeftAssoc)
	ops.Define("in", 8, LeftAssoc)

	ops.Add("+", types.TagList, types.TagList, concatLists)
	ops.Add("+", types.TagStr, types.TagStr, concatStrings)
	ops.Add("+", types.TagStr, types.AnyTag, concatStrings)
	ops.Add("+", types.AnyTag, types.TagStr, concatStrings)

	ops.Add("[]", sequences, types.Numeric, indexSequence)
	ops.Add("[]", types.TagStr, types.Numeric, indexString)
	ops.Add("[]", types.TagMap, types.TagStr, indexMap)

	ops.Add("in", types.AnyTag, types.Iterables, containsElement)
	ops.Add("in", types.TagStr, types.TagStr, containsSubstring)
	ops.Add("in", types.TagStr, types.TagMap, containsKey)

	r.mark(ContainerOperators)
}

func concatLists(left, right types.Value, data *OpData) types.Result {
	a := left.(*types.ListValue).Elements()
	b := right.(*types.ListValue).Elements()
	elements := make([]types.Value, 0, len(a)+len(b))
	for _, e := range a {
		elements = append(elements, e.Clone())
	}
	for _, e := range b {
		elements = append(elements, e.Clone())
	}
	return types.Ok(types.NewList(elements))
}

func (d *OpData) text(v types.Value) (string, error) {
	if s, ok := v.(types.StrValue); ok {
		return s.Value(), nil
	}
	if d.Registry != nil {
		return d.Registry.Stringify(v, types.DefaultDepth)
	}
	return types.Render(v), nil
}

// concatStrings joins two operands as text; a non-string side is rendered
func concatStrings(left, right types.Value, data *OpData) types.Result {
	a, err := data.text(left)
	if err != nil {
		return types.Fail(err)
	}
	b, err := data.text(right)
	if err != nil {
		return types.Fail(err)
	}
	return types.Ok(types.NewStr(a + b))
}

type indexed interface {
	Len() int
	Get(index int) (types.Value, bool)
}

// indexSequence returns the element at a possibly negative position. List
// elements come back as references so they can be assigned.
func indexSequence(left, right types.Value, data *OpData) types.Result {
	seq := left.(indexed)
	pos, _ := types.AsInt(right)
	idx, ok := types.NormalizeIndex(pos, seq.Len())
	if !ok {
		return types.Errf(types.E_RANGE, "[]", "index %d out of range for %s of length %d", pos, types.TypeName(left), seq.Len())
	}
	v, _ := seq.Get(idx)
	if _, ok := left.(*types.ListValue); ok {
		return types.Ok(types.NewRef(types.NewInt(pos), left, v))
	}
	return types.Ok(v)
}

func indexString(left, right types.Value, data *OpData) types.Result {
	runes := []rune(left.(types.StrValue).Value())
	pos, _ := types.AsInt(right)
	idx, ok := types.NormalizeIndex(pos, len(runes))
	if !ok {
		return types.Errf(types.E_RANGE, "[]", "index %d out of range for string of length %d", pos, len(runes))
	}
	return types.Ok(types.NewStr(string(runes[idx])))
}

// indexMap looks a key up along the chain; a missing key yields a
// reference to none
func indexMap(left, right types.Value, data *OpData) types.Result {
	m := left.(*types.Map)
	key := right.(types.StrValue)
	v, ok := m.Lookup(key.Value())
	if !ok {
		v = types.None
	}
	return types.Ok(types.NewRef(key, m, v))
}

func containsElement(left, right types.Value, data *OpData) types.Result {
	it := right.(types.Iterable).Iterator()
	for {
		e, ok := it.Next()
		if !ok {
			return types.Ok(types.NewBool(false))
		}
		if types.Equal(left, e) {
			return types.Ok(types.NewBool(true))
		}
	}
}

func containsSubstring(left, right types.Value, data *OpData) types.Result {
	return types.Ok(types.NewBool(strings.Contains(right.(types.StrValue).Value(), left.(types.StrValue).Value())))
}

func containsKey(left, right types.Value, data *OpData) types.Result {
	_, ok := right.(*types.Map).Lookup(left.(types.StrValue).Value())
	return types.Ok(types.NewBool(ok))
}
