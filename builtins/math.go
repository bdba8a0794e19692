package builtins

import (
	"math"

	"calc/types"
)

// ============================================================================
// MATH BUILTINS
// ============================================================================

// InstallMathFunctions registers the math library
func InstallMathFunctions(r *Registry) {
	unary := []struct {
		name string
		fn   func(float64) (float64, *types.Failure)
	}{
		{"sqrt", mathSqrt},
		{"sin", total(math.Sin)},
		{"cos", total(math.Cos)},
		{"tan", total(math.Tan)},
		{"asin", mathAsin},
		{"acos", mathAcos},
		{"atan", total(math.Atan)},
		{"exp", total(math.Exp)},
		{"log", mathLog},
	}
	for _, u := range unary {
		r.Register(u.name, []string{"num"}, realFunc(u.name, u.fn))
	}

	r.Register("abs", []string{"num"}, builtinAbs)
	r.Register("floor", []string{"num"}, rounding("floor", math.Floor))
	r.Register("ceil", []string{"num"}, rounding("ceil", math.Ceil))
	r.Register("round", []string{"num"}, rounding("round", math.Round))
	r.Register("pow", []string{"number", "exp"}, builtinPow)
	r.Register("min", []string{"left", "right"}, extremum("min", -1))
	r.Register("max", []string{"left", "right"}, extremum("max", 1))
	r.Register("sum", nil, builtinSum)

	r.mark(MathFunctions)
}

func total(fn func(float64) float64) func(float64) (float64, *types.Failure) {
	return func(x float64) (float64, *types.Failure) {
		return fn(x), nil
	}
}

func mathSqrt(x float64) (float64, *types.Failure) {
	if x < 0 {
		return 0, types.NewFailure(types.E_INVARG, "sqrt", "negative argument %g", x)
	}
	return math.Sqrt(x), nil
}

func mathAsin(x float64) (float64, *types.Failure) {
	if x < -1 || x > 1 {
		return 0, types.NewFailure(types.E_INVARG, "asin", "argument %g outside [-1, 1]", x)
	}
	return math.Asin(x), nil
}

func mathAcos(x float64) (float64, *types.Failure) {
	if x < -1 || x > 1 {
		return 0, types.NewFailure(types.E_INVARG, "acos", "argument %g outside [-1, 1]", x)
	}
	return math.Acos(x), nil
}

func mathLog(x float64) (float64, *types.Failure) {
	if x <= 0 {
		return 0, types.NewFailure(types.E_INVARG, "log", "argument %g must be positive", x)
	}
	return math.Log(x), nil
}

func number(scope *types.Map, fn, name string) (types.Value, *types.Failure) {
	v, f := required(scope, fn, name)
	if f != nil {
		return nil, f
	}
	if !v.Type().In(types.Numeric) {
		return nil, types.Mismatch(fn, types.TagReal, v)
	}
	return v, nil
}

// realFunc adapts a float function into a builtin of one argument
// name(num) -> real
func realFunc(name string, fn func(float64) (float64, *types.Failure)) types.NativeFunc {
	return func(scope *types.Map) types.Result {
		v, f := number(scope, name, "num")
		if f != nil {
			return types.Result{Err: f}
		}
		x, _ := types.AsReal(v)
		y, f := fn(x)
		if f != nil {
			return types.Result{Err: f}
		}
		return types.Ok(types.NewReal(y))
	}
}

// rounding returns integers for floor, ceil and round; integers pass through
// name(num) -> int
func rounding(name string, fn func(float64) float64) types.NativeFunc {
	return func(scope *types.Map) types.Result {
		v, f := number(scope, name, "num")
		if f != nil {
			return types.Result{Err: f}
		}
		if isIntegral(v) {
			n, _ := types.AsInt(v)
			return types.Ok(types.NewInt(n))
		}
		x, _ := types.AsReal(v)
		y := fn(x)
		if math.IsNaN(y) || math.IsInf(y, 0) || y >= math.MaxInt64 || y < math.MinInt64 {
			return types.Ok(types.NewReal(y))
		}
		return types.Ok(types.NewInt(int64(y)))
	}
}

// builtinAbs returns absolute value
// abs(num) -> int|real
func builtinAbs(scope *types.Map) types.Result {
	v, f := number(scope, "abs", "num")
	if f != nil {
		return types.Result{Err: f}
	}
	if isIntegral(v) {
		n, _ := types.AsInt(v)
		if n < 0 {
			n = -n
		}
		return types.Ok(types.NewInt(n))
	}
	x, _ := types.AsReal(v)
	return types.Ok(types.NewReal(math.Abs(x)))
}

// builtinPow raises number to exp; integer operands with a non-negative
// exponent stay integral unless the result overflows an integer
// pow(number, exp) -> int|real
func builtinPow(scope *types.Map) types.Result {
	base, f := number(scope, "pow", "number")
	if f != nil {
		return types.Result{Err: f}
	}
	exp, f := number(scope, "pow", "exp")
	if f != nil {
		return types.Result{Err: f}
	}
	if isIntegral(base) && isIntegral(exp) {
		b, _ := types.AsInt(base)
		e, _ := types.AsInt(exp)
		return intArithmetic("^", b, e)
	}
	b, _ := types.AsReal(base)
	e, _ := types.AsReal(exp)
	return types.Ok(types.NewReal(math.Pow(b, e)))
}

// extremum returns the smallest (sign -1) or largest (sign 1) argument,
// preserving its type
// min(left, right, ...) -> int|real
// max(left, right, ...) -> int|real
func extremum(name string, sign int) types.NativeFunc {
	return func(scope *types.Map) types.Result {
		args := positional(scope, "left", "right")
		if len(args) == 1 {
			if l, ok := args[0].(*types.ListValue); ok {
				args = l.Elements()
			}
		}
		if len(args) == 0 {
			return types.Errf(types.E_ARGS, name, "expected at least 1 argument")
		}

		best := args[0]
		bestF, f := numericFloat(name, best)
		if f != nil {
			return types.Result{Err: f}
		}
		for _, v := range args[1:] {
			x, f := numericFloat(name, v)
			if f != nil {
				return types.Result{Err: f}
			}
			if (sign < 0 && x < bestF) || (sign > 0 && x > bestF) {
				best, bestF = v, x
			}
		}
		return types.Ok(best)
	}
}

// builtinSum adds its arguments, or the elements of a single list argument
// sum(a, b, ...) -> int|real
// sum(list) -> int|real
func builtinSum(scope *types.Map) types.Result {
	args := restArgs(scope)
	if len(args) == 1 {
		if l, ok := args[0].(*types.ListValue); ok {
			args = l.Elements()
		}
	}

	var isum int64
	var rsum float64
	integral := true
	for _, v := range args {
		v = types.Resolve(v)
		x, f := numericFloat("sum", v)
		if f != nil {
			return types.Result{Err: f}
		}
		if integral && isIntegral(v) {
			n, _ := types.AsInt(v)
			isum += n
		} else {
			integral = false
		}
		rsum += x
	}
	if integral {
		return types.Ok(types.NewInt(isum))
	}
	return types.Ok(types.NewReal(rsum))
}

func numericFloat(fn string, v types.Value) (float64, *types.Failure) {
	v = types.Resolve(v)
	if !v.Type().In(types.Numeric) {
		return 0, types.Mismatch(fn, types.TagReal, v)
	}
	x, _ := types.AsReal(v)
	return x, nil
}
