package builtins

import "calc/types"

// ============================================================================
// LOGICAL OPERATORS
// ============================================================================

// InstallLogicalOperators registers boolean connectives, equality on any
// pair of values and the keyword spellings
func InstallLogicalOperators(r *Registry) {
	ops := r.Operators()
	ops.Define("==", 9, LeftAssoc)
	ops.Define("!=", 9, LeftAssoc)
	ops.Define("&&", 13, LeftAssoc)
	ops.Define("||", 14, LeftAssoc)
	ops.DefineUnary("!", 4)

	ops.Add("==", types.AnyTag, types.AnyTag, equality)
	ops.Add("!=", types.AnyTag, types.AnyTag, equality)
	ops.Add("&&", types.AnyTag, types.AnyTag, connective)
	ops.Add("||", types.AnyTag, types.AnyTag, connective)
	ops.AddUnary("!", types.AnyTag, not)

	p := r.Parsers()
	p.AddWord("true", literal(types.NewBool(true)))
	p.AddWord("false", literal(types.NewBool(false)))
	p.AddWord("None", literal(types.None))
	p.AddWord("and", alias("&&"))
	p.AddWord("or", alias("||"))
	p.AddWord("not", alias("!"))
	p.AddChar('#', skipLine)

	r.mark(LogicalOperators)
}

func equality(left, right types.Value, data *OpData) types.Result {
	eq := types.Equal(left, right)
	if data.Op == "!=" {
		eq = !eq
	}
	return types.Ok(types.NewBool(eq))
}

func connective(left, right types.Value, data *OpData) types.Result {
	a, err := types.AsBool(left)
	if err != nil {
		return types.Fail(err)
	}
	b, err := types.AsBool(right)
	if err != nil {
		return types.Fail(err)
	}
	if data.Op == "&&" {
		return types.Ok(types.NewBool(a && b))
	}
	return types.Ok(types.NewBool(a || b))
}

func not(operand types.Value, data *OpData) types.Result {
	b, err := types.AsBool(operand)
	if err != nil {
		return types.Fail(err)
	}
	return types.Ok(types.NewBool(!b))
}
