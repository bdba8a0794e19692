package builtins

import (
	"math"
	"math/bits"

	"calc/types"
)

// ============================================================================
// NUMBER OPERATORS
// Arithmetic stays integral while both operands are integers or booleans;
// any real operand makes the result real.
// ============================================================================

// InstallNumberOperators registers arithmetic and numeric comparison
func InstallNumberOperators(r *Registry) {
	ops := r.Operators()
	ops.Define("^", 3, RightAssoc)
	ops.Define("**", 3, RightAssoc)
	ops.Define("*", 5, LeftAssoc)
	ops.Define("/", 5, LeftAssoc)
	ops.Define("%", 5, LeftAssoc)
	ops.Define("+", 6, LeftAssoc)
	ops.Define("-", 6, LeftAssoc)
	for _, sym := range []string{"<", ">", "<=", ">="} {
		ops.Define(sym, 8, LeftAssoc)
	}
	ops.Define("==", 9, LeftAssoc)
	ops.Define("!=", 9, LeftAssoc)

	for _, sym := range []string{"+", "-", "*", "/", "%", "^", "**"} {
		ops.Add(sym, types.Numeric, types.Numeric, arithmetic)
	}
	for _, sym := range []string{"<", ">", "<=", ">=", "==", "!="} {
		ops.Add(sym, types.Numeric, types.Numeric, compareNumbers)
	}

	ops.DefineUnary("-", 4)
	ops.DefineUnary("+", 4)
	ops.AddUnary("-", types.Numeric, negate)
	ops.AddUnary("+", types.Numeric, identity)

	r.mark(NumberOperators)
}

func isIntegral(v types.Value) bool {
	return v.Type().In(types.TagInt | types.TagBool)
}

func arithmetic(left, right types.Value, data *OpData) types.Result {
	if isIntegral(left) && isIntegral(right) {
		a, _ := types.AsInt(left)
		b, _ := types.AsInt(right)
		return intArithmetic(data.Op, a, b)
	}
	a, _ := types.AsReal(left)
	b, _ := types.AsReal(right)
	return realArithmetic(data.Op, a, b)
}

func intArithmetic(op string, a, b int64) types.Result {
	switch op {
	case "+":
		return types.Ok(types.NewInt(a + b))
	case "-":
		return types.Ok(types.NewInt(a - b))
	case "*":
		return types.Ok(types.NewInt(a * b))
	case "/":
		if b == 0 {
			return types.Errf(types.E_DIV, op, "integer division by zero")
		}
		return types.Ok(types.NewInt(a / b))
	case "%":
		if b == 0 {
			return types.Errf(types.E_DIV, op, "integer modulo by zero")
		}
		return types.Ok(types.NewInt(a % b))
	case "^", "**":
		if b >= 0 {
			if n, ok := intPow(a, b); ok {
				return types.Ok(types.NewInt(n))
			}
		}
		return types.Ok(types.NewReal(math.Pow(float64(a), float64(b))))
	}
	return types.Errf(types.E_INVARG, op, "unknown arithmetic operator")
}

func realArithmetic(op string, a, b float64) types.Result {
	switch op {
	case "+":
		return types.Ok(types.NewReal(a + b))
	case "-":
		return types.Ok(types.NewReal(a - b))
	case "*":
		return types.Ok(types.NewReal(a * b))
	case "/":
		if b == 0 {
			return types.Errf(types.E_DIV, op, "division by zero")
		}
		return types.Ok(types.NewReal(a / b))
	case "%":
		if b == 0 {
			return types.Errf(types.E_DIV, op, "modulo by zero")
		}
		return types.Ok(types.NewReal(math.Mod(a, b)))
	case "^", "**":
		return types.Ok(types.NewReal(math.Pow(a, b)))
	}
	return types.Errf(types.E_INVARG, op, "unknown arithmetic operator")
}

// intPow raises base to a non-negative exp; ok is false when the result
// leaves the int64 range
func intPow(base, exp int64) (n int64, ok bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			if result, ok = mulInt(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, ok = mulInt(base, base); !ok {
				return 0, false
			}
		}
	}
	return result, true
}

// mulInt multiplies a and b, reporting whether the product fits an int64
func mulInt(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(absUint(a), absUint(b))
	if hi != 0 {
		return 0, false
	}
	if (a < 0) != (b < 0) {
		if lo > 1<<63 {
			return 0, false
		}
		return int64(-lo), true
	}
	if lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

func absUint(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

func compareNumbers(left, right types.Value, data *OpData) types.Result {
	var cmp int
	if isIntegral(left) && isIntegral(right) {
		a, _ := types.AsInt(left)
		b, _ := types.AsInt(right)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	} else {
		a, _ := types.AsReal(left)
		b, _ := types.AsReal(right)
		if math.IsNaN(a) || math.IsNaN(b) {
			return types.Ok(types.NewBool(data.Op == "!="))
		}
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	}

	switch data.Op {
	case "<":
		return types.Ok(types.NewBool(cmp < 0))
	case ">":
		return types.Ok(types.NewBool(cmp > 0))
	case "<=":
		return types.Ok(types.NewBool(cmp <= 0))
	case ">=":
		return types.Ok(types.NewBool(cmp >= 0))
	case "==":
		return types.Ok(types.NewBool(cmp == 0))
	case "!=":
		return types.Ok(types.NewBool(cmp != 0))
	}
	return types.Errf(types.E_INVARG, data.Op, "unknown comparison operator")
}

func negate(operand types.Value, data *OpData) types.Result {
	if isIntegral(operand) {
		n, _ := types.AsInt(operand)
		return types.Ok(types.NewInt(-n))
	}
	x, _ := types.AsReal(operand)
	return types.Ok(types.NewReal(-x))
}

func identity(operand types.Value, data *OpData) types.Result {
	if b, ok := operand.(types.BoolValue); ok {
		n, _ := types.AsInt(b)
		return types.Ok(types.NewInt(n))
	}
	return types.Ok(operand)
}
