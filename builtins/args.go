package builtins

import "calc/types"

// Helpers for reading bound parameters out of a call scope. Parameters
// are always local to the call scope; looking further up the chain would
// see the caller's variables.

func param(scope *types.Map, name string) (types.Value, bool) {
	v, ok := scope.Local(name)
	if !ok {
		return nil, false
	}
	return types.Resolve(v), true
}

func required(scope *types.Map, fn, name string) (types.Value, *types.Failure) {
	v, ok := param(scope, name)
	if !ok {
		return nil, types.NewFailure(types.E_ARGS, fn, "missing argument %q", name)
	}
	return v, nil
}

func restArgs(scope *types.Map) []types.Value {
	v, ok := scope.Local(types.ArgsName)
	if !ok {
		return nil
	}
	if l, ok := types.Resolve(v).(*types.ListValue); ok {
		return l.Elements()
	}
	return nil
}

func restKwargs(scope *types.Map) *types.Map {
	v, ok := scope.Local(types.KwargsName)
	if !ok {
		return types.NewMap()
	}
	if m, ok := types.Resolve(v).(*types.Map); ok {
		return m
	}
	return types.NewMap()
}

func receiver(scope *types.Map, fn string) (types.Value, *types.Failure) {
	v, ok := param(scope, types.ThisName)
	if !ok {
		return nil, types.NewFailure(types.E_ARGS, fn, "called without a receiver")
	}
	return v, nil
}

// positional returns the declared parameters that were bound followed by
// the surplus arguments
func positional(scope *types.Map, params ...string) []types.Value {
	var vals []types.Value
	for _, p := range params {
		if v, ok := param(scope, p); ok {
			vals = append(vals, v)
		}
	}
	return append(vals, restArgs(scope)...)
}
