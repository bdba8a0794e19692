package builtins

import (
	"fmt"
	"os"
	"strings"
	"time"

	"calc/types"
)

// ============================================================================
// SYSTEM BUILTINS
// Host facing functions. Left out of restricted registries.
// ============================================================================

// InstallSystemFunctions registers print, time, getenv and hash
func InstallSystemFunctions(r *Registry) {
	r.Register("print", nil, r.builtinPrint)
	r.Register("time", nil, builtinTime)
	r.Register("getenv", []string{"name"}, builtinGetenv)
	r.Register("hash", []string{"value", "algo"}, r.builtinHash)

	r.mark(SystemFunctions)
}

// builtinPrint writes its arguments separated by spaces. Strings are
// written raw, everything else in its rendered form.
// print(a, b, ...) -> none
func (r *Registry) builtinPrint(scope *types.Map) types.Result {
	args := restArgs(scope)
	parts := make([]string, len(args))
	for i, v := range args {
		v = types.Resolve(v)
		if s, ok := v.(types.StrValue); ok {
			parts[i] = s.Value()
			continue
		}
		s, err := r.Stringify(v, types.DefaultDepth)
		if err != nil {
			return types.Fail(err)
		}
		parts[i] = s
	}
	if _, err := fmt.Fprintln(r.Output(), strings.Join(parts, " ")); err != nil {
		return types.Errf(types.E_INVARG, "print", "%v", err)
	}
	return types.Ok(types.None)
}

// builtinTime returns the current Unix time in seconds
// time() -> real
func builtinTime(scope *types.Map) types.Result {
	now := time.Now()
	return types.Ok(types.NewReal(float64(now.UnixNano()) / float64(time.Second)))
}

// builtinGetenv returns an environment variable, or none if it is unset
// getenv(name) -> str|none
func builtinGetenv(scope *types.Map) types.Result {
	v, f := required(scope, "getenv", "name")
	if f != nil {
		return types.Result{Err: f}
	}
	name, err := types.AsString(v)
	if err != nil {
		return types.Fail(err)
	}
	value, exists := os.LookupEnv(name)
	if !exists {
		return types.Ok(types.None)
	}
	return types.Ok(types.NewStr(value))
}
