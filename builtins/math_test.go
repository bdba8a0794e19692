package builtins

import (
	"math"
	"testing"

	"calc/types"
)

func TestMathFunctions(t *testing.T) {
	r := New(MathFunctions)

	tests := []struct {
		fn   string
		args []types.Value
		want types.Value
	}{
		{"pow", []types.Value{types.NewInt(2), types.NewInt(10)}, types.NewInt(1024)},
		{"pow", []types.Value{types.NewReal(4), types.NewReal(0.5)}, types.NewReal(2)},
		{"max", []types.Value{types.NewInt(3), types.NewInt(5)}, types.NewInt(5)},
		{"min", []types.Value{types.NewInt(3), types.NewInt(5)}, types.NewInt(3)},
		{"max", []types.Value{types.NewInt(3), types.NewReal(7.5), types.NewInt(5)}, types.NewReal(7.5)},
		{"min", []types.Value{types.NewInt(9)}, types.NewInt(9)},
		{"abs", []types.Value{types.NewInt(-4)}, types.NewInt(4)},
		{"abs", []types.Value{types.NewReal(-1.5)}, types.NewReal(1.5)},
		{"sqrt", []types.Value{types.NewInt(16)}, types.NewReal(4)},
		{"floor", []types.Value{types.NewReal(2.7)}, types.NewInt(2)},
		{"ceil", []types.Value{types.NewReal(2.1)}, types.NewInt(3)},
		{"round", []types.Value{types.NewReal(-2.5)}, types.NewInt(-3)},
		{"exp", []types.Value{types.NewInt(0)}, types.NewReal(1)},
		{"log", []types.Value{types.NewInt(1)}, types.NewReal(0)},
		{"sin", []types.Value{types.NewInt(0)}, types.NewReal(0)},
		{"cos", []types.Value{types.NewInt(0)}, types.NewReal(1)},
		{"atan", []types.Value{types.NewInt(0)}, types.NewReal(0)},
		{"sum", []types.Value{types.NewInt(1), types.NewInt(2), types.NewInt(3)}, types.NewInt(6)},
		{"sum", []types.Value{types.NewList([]types.Value{types.NewInt(1), types.NewReal(0.5)})}, types.NewReal(1.5)},
		{"sum", nil, types.NewInt(0)},
	}
	for _, tt := range tests {
		got := mustValue(t, call(t, r, tt.fn, tt.args...))
		if !types.Equal(got, tt.want) || got.Type() != tt.want.Type() {
			t.Errorf("%s(%v) = %s (%s), want %s (%s)", tt.fn, tt.args,
				types.Render(got), got.Type(), types.Render(tt.want), tt.want.Type())
		}
	}
}

func TestMathDomainErrors(t *testing.T) {
	r := New(MathFunctions)

	wantCode(t, call(t, r, "sqrt", types.NewInt(-1)), types.E_INVARG)
	wantCode(t, call(t, r, "log", types.NewInt(0)), types.E_INVARG)
	wantCode(t, call(t, r, "asin", types.NewInt(2)), types.E_INVARG)
	wantCode(t, call(t, r, "acos", types.NewReal(-1.5)), types.E_INVARG)
	wantCode(t, call(t, r, "sqrt", types.NewStr("4")), types.E_TYPE)
	wantCode(t, call(t, r, "sqrt"), types.E_ARGS)
	wantCode(t, call(t, r, "max"), types.E_ARGS)
	wantCode(t, call(t, r, "min", types.NewInt(1), types.NewStr("2")), types.E_TYPE)
	wantCode(t, call(t, r, "sum", types.NewInt(1), types.None), types.E_TYPE)
}

func TestPowKeyword(t *testing.T) {
	r := New(MathFunctions)
	fn, _ := r.Get("pow")
	kwargs := types.NewMapFrom(map[string]types.Value{"exp": types.NewInt(3)})
	got := mustValue(t, fn.Call(r.Global(), nil, []types.Value{types.NewInt(2)}, kwargs))
	if !types.Equal(got, types.NewInt(8)) {
		t.Errorf("pow(2, exp=3) = %s", types.Render(got))
	}

	res := fn.Call(r.Global(), nil, []types.Value{types.NewInt(2), types.NewInt(3)}, kwargs)
	wantCode(t, res, types.E_ARGS)
}

func TestIntPow(t *testing.T) {
	tests := []struct {
		base, exp, want int64
		ok              bool
	}{
		{2, 0, 1, true},
		{2, 1, 2, true},
		{3, 4, 81, true},
		{-2, 3, -8, true},
		{10, 18, 1000000000000000000, true},
		{2, 62, 1 << 62, true},
		{-2, 63, math.MinInt64, true},
		{2, 63, 0, false},
		{2, 64, 0, false},
		{10, 19, 0, false},
		{-3, 41, 0, false},
	}
	for _, tt := range tests {
		got, ok := intPow(tt.base, tt.exp)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("intPow(%d, %d) = %d, %v; want %d, %v", tt.base, tt.exp, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPowOverflowBecomesReal(t *testing.T) {
	r := New(MathFunctions | NumberOperators)

	tests := []struct {
		base, exp int64
		want      float64
	}{
		{2, 64, 18446744073709551616},
		{10, 20, 1e20},
		{2, 63, 9223372036854775808},
	}
	for _, tt := range tests {
		got := mustValue(t, call(t, r, "pow", types.NewInt(tt.base), types.NewInt(tt.exp)))
		if got.Type() != types.TagReal || !types.Equal(got, types.NewReal(tt.want)) {
			t.Errorf("pow(%d, %d) = %s (%s), want %g", tt.base, tt.exp, types.Render(got), got.Type(), tt.want)
		}
		got = mustValue(t, r.Operators().Dispatch("^", types.NewInt(tt.base), types.NewInt(tt.exp), nil))
		if got.Type() != types.TagReal || !types.Equal(got, types.NewReal(tt.want)) {
			t.Errorf("%d ^ %d = %s (%s), want %g", tt.base, tt.exp, types.Render(got), got.Type(), tt.want)
		}
	}
}

func TestRoundingOutOfIntegerRange(t *testing.T) {
	r := New(MathFunctions)

	for _, fn := range []string{"floor", "ceil", "round"} {
		got := mustValue(t, call(t, r, fn, types.NewReal(9223372036854775807.0)))
		if got.Type() != types.TagReal {
			t.Errorf("%s(2^63) = %s (%s), want a real", fn, types.Render(got), got.Type())
		}
		got = mustValue(t, call(t, r, fn, types.NewReal(-9223372036854775808.0)))
		if !types.Equal(got, types.NewInt(math.MinInt64)) || got.Type() != types.TagInt {
			t.Errorf("%s(-2^63) = %s (%s), want integer", fn, types.Render(got), got.Type())
		}
	}
}
