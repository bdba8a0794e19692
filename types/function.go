package types

// NativeFunc is a host routine. It receives the fresh call scope holding
// the bound parameters (plus "this", "args" and "kwargs").
type NativeFunc func(scope *Map) Result

// Body is the executable part of a user-defined function. The evaluator
// provides the implementation.
type Body interface {
	Run(scope *Map) Result
}

// Function is a named callable with declared parameter names. Native and
// user-defined functions share the same call contract.
type Function struct {
	name    string
	params  []string
	native  NativeFunc
	body    Body
	closure *Map
}

// NewNative wraps a host routine. An empty params list means the function
// receives all positional arguments through "args".
func NewNative(name string, params []string, fn NativeFunc) *Function {
	return &Function{name: name, params: params, native: fn}
}

// NewUserFunc creates a user-defined function whose calls run against a
// child of closure
func NewUserFunc(name string, params []string, body Body, closure *Map) *Function {
	return &Function{name: name, params: params, body: body, closure: closure}
}

func (f *Function) isValue() {}

// Type returns the value tag
func (f *Function) Type() Tag {
	return TagFunc
}

// String returns the default rendering
func (f *Function) String() string {
	return Render(f)
}

// Clone returns a copy sharing the routine and closure
func (f *Function) Clone() Value {
	c := *f
	c.params = append([]string(nil), f.params...)
	return &c
}

// Name returns the function name ("" for anonymous functions)
func (f *Function) Name() string {
	return f.name
}

// Params returns the declared parameter names
func (f *Function) Params() []string {
	return f.params
}

// IsNative reports whether the function is backed by a host routine
func (f *Function) IsNative() bool {
	return f.native != nil
}

// Closure returns the captured scope of a user-defined function
func (f *Function) Closure() *Map {
	return f.closure
}

// Bind builds the call scope:
//
//  1. "this" is bound to the receiver, if any
//  2. positional arguments fill the declared names in order
//  3. surplus positional arguments are collected into "args"
//  4. keyword arguments naming a declared parameter bind it; the rest are
//     collected into "kwargs"
//
// Native functions run against a child of the caller's scope, user-defined
// functions against a child of their closure. Binding never validates tags.
func (f *Function) Bind(caller *Map, this Value, args []Value, kwargs *Map) (*Map, error) {
	parent := caller
	if f.native == nil {
		parent = f.closure
	}
	var scope *Map
	if parent != nil {
		scope = parent.Extend()
	} else {
		scope = NewMap()
	}

	if this != nil {
		scope.Assign(ThisName, this)
	}

	if len(args) == 1 {
		if t, ok := args[0].(TupleValue); ok && t.spread {
			args = t.elements
		}
	}

	n := len(args)
	if n > len(f.params) {
		n = len(f.params)
	}
	for i := 0; i < n; i++ {
		scope.Assign(f.params[i], args[i])
	}
	extra := make([]Value, len(args)-n)
	copy(extra, args[n:])
	scope.Assign(ArgsName, NewList(extra))

	rest := NewMap()
	if kwargs != nil {
		for _, k := range kwargs.Keys() {
			v := kwargs.vars[k]
			idx := f.paramIndex(k)
			switch {
			case idx < 0:
				rest.Assign(k, v)
			case idx < n:
				return nil, NewFailure(E_ARGS, f.describe(), "got multiple values for argument %q", k)
			default:
				scope.Assign(k, v)
			}
		}
	}
	scope.Assign(KwargsName, rest)

	return scope, nil
}

// Call binds the arguments and runs the function
func (f *Function) Call(caller *Map, this Value, args []Value, kwargs *Map) Result {
	scope, err := f.Bind(caller, this, args, kwargs)
	if err != nil {
		return Fail(err)
	}
	if f.native != nil {
		return f.native(scope)
	}
	if f.body == nil {
		return Ok(None)
	}
	return f.body.Run(scope)
}

func (f *Function) paramIndex(name string) int {
	for i, p := range f.params {
		if p == name {
			return i
		}
	}
	return -1
}

func (f *Function) describe() string {
	if f.name == "" {
		return "call"
	}
	return "call " + f.name
}
