package builtins

import (
	"strings"

	"calc/types"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ============================================================================
// CORE BUILTINS
// Always installed: constructors, conversions, introspection, the
// assignment and member access operators and the per-type methods.
// ============================================================================

// InstallCore registers the builtins every registry carries
func InstallCore(r *Registry) {
	r.Register("type", []string{"value"}, builtinType)
	r.Register("str", []string{"value"}, r.builtinStr)
	r.Register("int", []string{"value"}, builtinInt)
	r.Register("float", []string{"value"}, builtinFloat)
	r.Register("real", []string{"value"}, builtinFloat)
	r.Register("list", nil, builtinList)
	r.Register("map", nil, builtinMap)
	r.Register("extend", []string{"value"}, builtinExtend)
	r.Register("range", []string{"start", "stop", "step"}, builtinRange)
	r.Register("len", []string{"value"}, builtinLen)

	ops := r.Operators()
	assign := ops.Define("=", 15, RightAssoc)
	assign.RawLeft = true
	ops.Add("=", types.TagRef|types.TagVar, types.AnyTag, opAssign)

	member := ops.Define(".", 1, LeftAssoc)
	member.RawRight = true
	ops.Add(".", types.AnyTag, types.TagVar|types.TagStr, opMember)

	r.RegisterMethod(types.TagList, "push", []string{"item"}, listPush)
	r.RegisterMethod(types.TagList, "pop", []string{"pos"}, listPop)
	r.RegisterMethod(types.TagList, "len", nil, receiverLen)
	r.RegisterMethod(types.TagList, "join", []string{"chars"}, r.listJoin)

	r.RegisterMethod(types.TagStr, "len", nil, receiverLen)
	r.RegisterMethod(types.TagStr, "lower", nil, stringLower)
	r.RegisterMethod(types.TagStr, "upper", nil, stringUpper)
	r.RegisterMethod(types.TagStr, "strip", nil, stringStrip)
	r.RegisterMethod(types.TagStr, "split", []string{"chars"}, stringSplit)

	r.RegisterMethod(types.TagMap, "pop", []string{"key", "default"}, mapPop)
	r.RegisterMethod(types.TagMap, "len", nil, receiverLen)
	r.RegisterMethod(types.TagMap, "instanceof", []string{"value"}, mapInstanceOf)
}

// builtinType returns the type name of a value
// type(value) -> str
func builtinType(scope *types.Map) types.Result {
	v, f := required(scope, "type", "value")
	if f != nil {
		return types.Result{Err: f}
	}
	return types.Ok(types.NewStr(types.TypeName(v)))
}

// builtinStr renders a value; strings are returned unchanged
// str(value) -> str
func (r *Registry) builtinStr(scope *types.Map) types.Result {
	v, f := required(scope, "str", "value")
	if f != nil {
		return types.Result{Err: f}
	}
	if s, ok := v.(types.StrValue); ok {
		return types.Ok(s)
	}
	s, err := r.Stringify(v, types.DefaultDepth)
	if err != nil {
		return types.Fail(err)
	}
	return types.Ok(types.NewStr(s))
}

// builtinInt converts numbers and numeric text to an integer
// int(value) -> int
func builtinInt(scope *types.Map) types.Result {
	v, f := required(scope, "int", "value")
	if f != nil {
		return types.Result{Err: f}
	}
	if v.Type().In(types.Numeric) {
		n, err := types.AsInt(v)
		if err != nil {
			return types.Fail(err)
		}
		return types.Ok(types.NewInt(n))
	}
	s, err := types.AsString(v)
	if err != nil {
		return types.Fail(err)
	}
	n, err := types.ParseInt(s)
	if err != nil {
		return types.Fail(err)
	}
	return types.Ok(types.NewInt(n))
}

// builtinFloat converts numbers and numeric text to a real
// float(value) -> real
func builtinFloat(scope *types.Map) types.Result {
	v, f := required(scope, "float", "value")
	if f != nil {
		return types.Result{Err: f}
	}
	if v.Type().In(types.Numeric) {
		x, err := types.AsReal(v)
		if err != nil {
			return types.Fail(err)
		}
		return types.Ok(types.NewReal(x))
	}
	s, err := types.AsString(v)
	if err != nil {
		return types.Fail(err)
	}
	x, err := types.ParseReal(s)
	if err != nil {
		return types.Fail(err)
	}
	return types.Ok(types.NewReal(x))
}

// builtinList builds a list from its arguments, or drains a single
// iterable argument
// list(a, b, ...) -> list
// list(iterable) -> list
func builtinList(scope *types.Map) types.Result {
	args := restArgs(scope)
	if len(args) == 1 {
		if it, ok := args[0].(types.Iterable); ok {
			return types.Ok(types.NewList(types.Collect(it.Iterator())))
		}
	}
	elements := make([]types.Value, len(args))
	copy(elements, args)
	return types.Ok(types.NewList(elements))
}

// builtinMap builds a map from its keyword arguments
// map(k=v, ...) -> map
func builtinMap(scope *types.Map) types.Result {
	return types.Ok(restKwargs(scope).Copy())
}

// builtinExtend creates a child of a map
// extend(map) -> map
func builtinExtend(scope *types.Map) types.Result {
	v, f := required(scope, "extend", "value")
	if f != nil {
		return types.Result{Err: f}
	}
	child, err := types.Extend(v)
	if err != nil {
		return types.Fail(err)
	}
	return types.Ok(child)
}

// builtinRange returns a lazy arithmetic sequence
// range(stop) -> iterable
// range(start, stop [, step]) -> iterable
func builtinRange(scope *types.Map) types.Result {
	nums := make([]int64, 0, 3)
	for _, name := range []string{"start", "stop", "step"} {
		v, ok := param(scope, name)
		if !ok {
			break
		}
		n, err := types.AsInt(v)
		if err != nil {
			return types.Fail(err)
		}
		nums = append(nums, n)
	}

	var start, stop, step int64 = 0, 0, 1
	switch len(nums) {
	case 0:
		return types.Errf(types.E_ARGS, "range", "expected at least 1 argument")
	case 1:
		stop = nums[0]
	case 2:
		start, stop = nums[0], nums[1]
	default:
		start, stop, step = nums[0], nums[1], nums[2]
	}
	if step == 0 {
		return types.Errf(types.E_INVARG, "range", "step must not be zero")
	}

	return types.Ok(types.NewIterable("range", func() types.Iterator {
		return &rangeIterator{next: start, stop: stop, step: step}
	}))
}

type rangeIterator struct {
	next, stop, step int64
}

func (it *rangeIterator) Next() (types.Value, bool) {
	if (it.step > 0 && it.next >= it.stop) || (it.step < 0 && it.next <= it.stop) {
		return nil, false
	}
	v := types.NewInt(it.next)
	it.next += it.step
	return v, true
}

// builtinLen returns the size of a string, list, tuple or map
// len(value) -> int
func builtinLen(scope *types.Map) types.Result {
	v, f := required(scope, "len", "value")
	if f != nil {
		return types.Result{Err: f}
	}
	return sizeOf("len", v)
}

func sizeOf(op string, v types.Value) types.Result {
	switch x := v.(type) {
	case types.StrValue:
		return types.Ok(types.NewInt(int64(x.Len())))
	case *types.ListValue:
		return types.Ok(types.NewInt(int64(x.Len())))
	case types.TupleValue:
		return types.Ok(types.NewInt(int64(x.Len())))
	case *types.Map:
		return types.Ok(types.NewInt(int64(x.Len())))
	default:
		return types.Errf(types.E_TYPE, op, "%s has no length", types.TypeName(v))
	}
}

// ============================================================================
// CORE OPERATORS
// ============================================================================

// opAssign stores the right operand through a reference or into the
// local scope for a bare name
func opAssign(left, right types.Value, data *OpData) types.Result {
	value := right.Clone()
	switch target := left.(type) {
	case *types.RefValue:
		if target.Origin() == nil {
			name, err := types.AsString(target.Key())
			if err != nil {
				return types.Fail(err)
			}
			if data.Scope == nil {
				return types.Errf(types.E_INVARG, "=", "no scope to assign %q in", name)
			}
			data.Scope.Assign(name, value)
			return types.Ok(value)
		}
		if err := target.Assign(value); err != nil {
			return types.Fail(err)
		}
		return types.Ok(value)
	case types.VarValue:
		if data.Scope == nil {
			return types.Errf(types.E_INVARG, "=", "no scope to assign %q in", target.Name())
		}
		data.Scope.Assign(target.Name(), value)
		return types.Ok(value)
	}
	return types.Errf(types.E_TYPE, "=", "cannot assign to %s", types.TypeName(left))
}

// opMember resolves a member name on a value. Missing keys of a map give
// a reference to none so that they can be assigned.
func opMember(left, right types.Value, data *OpData) types.Result {
	name, err := types.AsString(right)
	if err != nil {
		return types.Fail(err)
	}
	key := types.NewStr(name)
	if data.Registry != nil {
		if v, ok := data.Registry.Member(left, name); ok {
			return types.Ok(types.NewRef(key, left, v))
		}
	} else if m, ok := left.(*types.Map); ok {
		if v, ok := m.Lookup(name); ok {
			return types.Ok(types.NewRef(key, left, v))
		}
	}
	if _, ok := left.(*types.Map); ok {
		return types.Ok(types.NewRef(key, left, types.None))
	}
	return types.Errf(types.E_PROPNF, ".", "%s has no member %q", types.TypeName(left), name)
}

// ============================================================================
// TYPE METHODS
// ============================================================================

// listPush appends an item and returns the list
// list.push(item) -> list
func listPush(scope *types.Map) types.Result {
	this, f := receiver(scope, "push")
	if f != nil {
		return types.Result{Err: f}
	}
	list, err := types.AsList(this)
	if err != nil {
		return types.Fail(err)
	}
	item, f := required(scope, "push", "item")
	if f != nil {
		return types.Result{Err: f}
	}
	list.Push(item.Clone())
	return types.Ok(list)
}

// listPop removes and returns the element at pos (default: the last one).
// Negative positions count from the end.
// list.pop([pos]) -> value
func listPop(scope *types.Map) types.Result {
	this, f := receiver(scope, "pop")
	if f != nil {
		return types.Result{Err: f}
	}
	list, err := types.AsList(this)
	if err != nil {
		return types.Fail(err)
	}
	if list.Len() == 0 {
		return types.Errf(types.E_RANGE, "pop", "pop from empty list")
	}

	pos := int64(list.Len() - 1)
	if v, ok := param(scope, "pos"); ok && v.Type().In(types.Numeric) {
		pos, _ = types.AsInt(v)
	}
	idx, ok := types.NormalizeIndex(pos, list.Len())
	if !ok {
		return types.Errf(types.E_RANGE, "pop", "index %d out of range for list of length %d", pos, list.Len())
	}
	v, _ := list.DeleteAt(idx)
	return types.Ok(v)
}

// receiverLen returns the size of the receiver
// value.len() -> int
func receiverLen(scope *types.Map) types.Result {
	this, f := receiver(scope, "len")
	if f != nil {
		return types.Result{Err: f}
	}
	return sizeOf("len", this)
}

// listJoin concatenates the elements with chars between them
// list.join(chars) -> str
func (r *Registry) listJoin(scope *types.Map) types.Result {
	this, f := receiver(scope, "join")
	if f != nil {
		return types.Result{Err: f}
	}
	list, err := types.AsList(this)
	if err != nil {
		return types.Fail(err)
	}
	sep := ""
	if v, ok := param(scope, "chars"); ok {
		if sep, err = types.AsString(v); err != nil {
			return types.Fail(err)
		}
	}

	parts := make([]string, list.Len())
	for i, e := range list.Elements() {
		if s, ok := types.Resolve(e).(types.StrValue); ok {
			parts[i] = s.Value()
			continue
		}
		s, err := r.Stringify(e, types.DefaultDepth)
		if err != nil {
			return types.Fail(err)
		}
		parts[i] = s
	}
	return types.Ok(types.NewStr(strings.Join(parts, sep)))
}

func thisString(scope *types.Map, fn string) (string, *types.Failure) {
	this, f := receiver(scope, fn)
	if f != nil {
		return "", f
	}
	s, err := types.AsString(this)
	if err != nil {
		return "", types.Mismatch(fn, types.TagStr, this)
	}
	return s, nil
}

var (
	lowerCaser = cases.Lower(language.Und)
	upperCaser = cases.Upper(language.Und)
)

// stringLower returns the receiver in lower case
// str.lower() -> str
func stringLower(scope *types.Map) types.Result {
	s, f := thisString(scope, "lower")
	if f != nil {
		return types.Result{Err: f}
	}
	return types.Ok(types.NewStr(lowerCaser.String(s)))
}

// stringUpper returns the receiver in upper case
// str.upper() -> str
func stringUpper(scope *types.Map) types.Result {
	s, f := thisString(scope, "upper")
	if f != nil {
		return types.Result{Err: f}
	}
	return types.Ok(types.NewStr(upperCaser.String(s)))
}

// stringStrip trims surrounding whitespace
// str.strip() -> str
func stringStrip(scope *types.Map) types.Result {
	s, f := thisString(scope, "strip")
	if f != nil {
		return types.Result{Err: f}
	}
	return types.Ok(types.NewStr(strings.TrimSpace(s)))
}

// stringSplit splits the receiver on chars
// str.split(chars) -> list
func stringSplit(scope *types.Map) types.Result {
	s, f := thisString(scope, "split")
	if f != nil {
		return types.Result{Err: f}
	}
	v, f := required(scope, "split", "chars")
	if f != nil {
		return types.Result{Err: f}
	}
	sep, err := types.AsString(v)
	if err != nil {
		return types.Fail(err)
	}

	pieces := strings.Split(s, sep)
	elements := make([]types.Value, len(pieces))
	for i, p := range pieces {
		elements[i] = types.NewStr(p)
	}
	return types.Ok(types.NewList(elements))
}

// mapPop removes a local key and returns its value, or the default
// (none when absent)
// map.pop(key [, default]) -> value
func mapPop(scope *types.Map) types.Result {
	this, f := receiver(scope, "pop")
	if f != nil {
		return types.Result{Err: f}
	}
	m, err := types.AsMap(this)
	if err != nil {
		return types.Fail(err)
	}
	k, f := required(scope, "pop", "key")
	if f != nil {
		return types.Result{Err: f}
	}
	key, err := types.AsString(k)
	if err != nil {
		return types.Fail(err)
	}

	if v, ok := m.Local(key); ok {
		m.Erase(key)
		return types.Ok(v)
	}
	if def, ok := param(scope, "default"); ok {
		return types.Ok(def)
	}
	return types.Ok(types.None)
}

// mapInstanceOf reports whether value is on the receiver's parent chain
// map.instanceof(proto) -> bool
func mapInstanceOf(scope *types.Map) types.Result {
	this, f := receiver(scope, "instanceof")
	if f != nil {
		return types.Result{Err: f}
	}
	m, err := types.AsMap(this)
	if err != nil {
		return types.Fail(err)
	}
	v, f := required(scope, "instanceof", "value")
	if f != nil {
		return types.Result{Err: f}
	}
	proto, err := types.AsMap(v)
	if err != nil {
		return types.Fail(err)
	}
	return types.Ok(types.NewBool(m.IsInstanceOf(proto)))
}
