package builtins

import (
	"testing"

	"calc/types"
)

func TestArithmetic(t *testing.T) {
	r := New(NumberOperators)
	ops := r.Operators()

	tests := []struct {
		op          string
		left, right types.Value
		want        string
		tag         types.Tag
	}{
		{"+", types.NewInt(2), types.NewInt(3), "5", types.TagInt},
		{"-", types.NewInt(2), types.NewInt(3), "-1", types.TagInt},
		{"*", types.NewInt(4), types.NewReal(0.5), "2", types.TagReal},
		{"/", types.NewInt(7), types.NewInt(2), "3", types.TagInt},
		{"/", types.NewReal(7), types.NewInt(2), "3.5", types.TagReal},
		{"%", types.NewInt(7), types.NewInt(3), "1", types.TagInt},
		{"%", types.NewReal(7.5), types.NewInt(2), "1.5", types.TagReal},
		{"^", types.NewInt(2), types.NewInt(10), "1024", types.TagInt},
		{"**", types.NewInt(2), types.NewInt(-1), "0.5", types.TagReal},
		{"+", types.NewBool(true), types.NewInt(1), "2", types.TagInt},
		{"<", types.NewInt(1), types.NewReal(1.5), "true", types.TagBool},
		{">=", types.NewInt(2), types.NewInt(2), "true", types.TagBool},
		{"==", types.NewInt(2), types.NewReal(2), "true", types.TagBool},
		{"!=", types.NewReal(2), types.NewInt(3), "true", types.TagBool},
	}
	for _, tt := range tests {
		got := mustValue(t, ops.Dispatch(tt.op, tt.left, tt.right, nil))
		if types.Render(got) != tt.want || got.Type() != tt.tag {
			t.Errorf("%s %s %s = %s (%s), want %s (%s)", types.Render(tt.left), tt.op, types.Render(tt.right),
				types.Render(got), got.Type(), tt.want, tt.tag)
		}
	}
}

func TestArithmeticFailures(t *testing.T) {
	r := New(NumberOperators)
	ops := r.Operators()

	wantCode(t, ops.Dispatch("/", types.NewInt(1), types.NewInt(0), nil), types.E_DIV)
	wantCode(t, ops.Dispatch("%", types.NewInt(1), types.NewInt(0), nil), types.E_DIV)
	wantCode(t, ops.Dispatch("/", types.NewReal(1), types.NewReal(0), nil), types.E_DIV)
	wantCode(t, ops.Dispatch("+", types.NewInt(1), types.NewStr("a"), nil), types.E_TYPE)
	wantCode(t, ops.Dispatch("+", types.NewVar("nope"), types.NewInt(1), nil), types.E_VARNF)
	wantCode(t, ops.Dispatch("?", types.NewInt(1), types.NewInt(1), nil), types.E_INVARG)
}

func TestUnaryOperators(t *testing.T) {
	r := New(NumberOperators | LogicalOperators)
	ops := r.Operators()

	got := mustValue(t, ops.DispatchUnary("-", types.NewInt(5), nil))
	if !types.Equal(got, types.NewInt(-5)) || got.Type() != types.TagInt {
		t.Errorf("-5 = %s", types.Render(got))
	}
	got = mustValue(t, ops.DispatchUnary("-", types.NewReal(1.5), nil))
	if types.Render(got) != "-1.5" {
		t.Errorf("-1.5 = %s", types.Render(got))
	}
	got = mustValue(t, ops.DispatchUnary("+", types.NewBool(true), nil))
	if got.Type() != types.TagInt {
		t.Errorf("+true should be an integer, got %s", got.Type())
	}
	got = mustValue(t, ops.DispatchUnary("!", types.NewStr(""), nil))
	if !types.Equal(got, types.NewBool(true)) {
		t.Errorf("!\"\" = %s", types.Render(got))
	}
	wantCode(t, ops.DispatchUnary("-", types.NewStr("x"), nil), types.E_TYPE)
	wantCode(t, ops.DispatchUnary("!", types.NewEmptyList(), nil), types.E_TYPE)
}

func TestLogicalOperators(t *testing.T) {
	r := New(LogicalOperators)
	ops := r.Operators()

	tests := []struct {
		op          string
		left, right types.Value
		want        bool
	}{
		{"&&", types.NewBool(true), types.NewInt(1), true},
		{"&&", types.NewBool(true), types.None, false},
		{"||", types.NewStr(""), types.NewReal(0.1), true},
		{"==", types.NewStr("a"), types.NewStr("a"), true},
		{"==", types.NewStr("1"), types.NewInt(1), false},
		{"==", types.NewList([]types.Value{types.NewInt(1)}), types.NewList([]types.Value{types.NewInt(1)}), true},
		{"!=", types.None, types.None, false},
	}
	for _, tt := range tests {
		got := mustValue(t, ops.Dispatch(tt.op, tt.left, tt.right, nil))
		if !types.Equal(got, types.NewBool(tt.want)) {
			t.Errorf("%s %s %s = %s", types.Render(tt.left), tt.op, types.Render(tt.right), types.Render(got))
		}
	}
}

func TestContainerOperators(t *testing.T) {
	r := New(ContainerOperators | NumberOperators)
	ops := r.Operators()
	data := &OpData{Registry: r}

	a := types.NewList([]types.Value{types.NewInt(1), types.NewInt(2)})
	b := types.NewList([]types.Value{types.NewInt(3)})
	got := mustValue(t, ops.Dispatch("+", a, b, data))
	if types.Render(got) != "[ 1, 2, 3 ]" {
		t.Errorf("list concat = %s", types.Render(got))
	}
	if a.Len() != 2 {
		t.Error("concatenation modified its operand")
	}

	got = mustValue(t, ops.Dispatch("+", types.NewStr("n="), types.NewInt(4), data))
	if s, _ := types.AsString(got); s != "n=4" {
		t.Errorf("str concat = %q", s)
	}
	got = mustValue(t, ops.Dispatch("+", types.NewInt(4), types.NewStr("!"), data))
	if s, _ := types.AsString(got); s != "4!" {
		t.Errorf("str concat = %q", s)
	}

	got = mustValue(t, ops.Dispatch("[]", a, types.NewInt(-1), data))
	if !types.Equal(got, types.NewInt(2)) {
		t.Errorf("a[-1] = %s", types.Render(got))
	}
	wantCode(t, ops.Dispatch("[]", a, types.NewInt(2), data), types.E_RANGE)

	got = mustValue(t, ops.Dispatch("[]", types.NewStr("héllo"), types.NewInt(1), data))
	if s, _ := types.AsString(got); s != "é" {
		t.Errorf("string index = %q", s)
	}
	tuple := types.NewTuple(types.NewInt(7), types.NewInt(8))
	got = mustValue(t, ops.Dispatch("[]", tuple, types.NewInt(0), data))
	if !types.Equal(got, types.NewInt(7)) {
		t.Errorf("tuple index = %s", types.Render(got))
	}

	m := types.NewMap()
	m.Assign("k", types.NewStr("v"))
	got = mustValue(t, ops.Dispatch("[]", m, types.NewStr("missing"), data))
	if !types.IsNone(got) {
		t.Errorf("missing key = %s", types.Render(got))
	}

	member := []struct {
		left, right types.Value
		want        bool
	}{
		{types.NewReal(2), a, true},
		{types.NewInt(5), a, false},
		{types.NewStr("ell"), types.NewStr("hello"), true},
		{types.NewStr("k"), m, true},
		{types.NewStr("z"), m, false},
	}
	for _, tt := range member {
		got := mustValue(t, ops.Dispatch("in", tt.left, tt.right, data))
		if !types.Equal(got, types.NewBool(tt.want)) {
			t.Errorf("%s in %s = %s", types.Render(tt.left), types.Render(tt.right), types.Render(got))
		}
	}
}

func TestAssignThroughReferences(t *testing.T) {
	r := New(ContainerOperators)
	ops := r.Operators()
	scope := types.NewMap()
	data := &OpData{Registry: r, Scope: scope}

	mustValue(t, ops.Dispatch("=", types.NewVar("x"), types.NewInt(1), data))
	if v, ok := scope.Local("x"); !ok || !types.Equal(v, types.NewInt(1)) {
		t.Errorf("x = %v", v)
	}

	list := types.NewList([]types.Value{types.NewInt(1), types.NewInt(2)})
	ref := ops.Dispatch("[]", list, types.NewInt(0), data).Val
	mustValue(t, ops.Dispatch("=", ref, types.NewStr("a"), data))
	if types.Render(list) != `[ "a", 2 ]` {
		t.Errorf("list after assignment = %s", types.Render(list))
	}

	m := types.NewMap()
	ref = ops.Dispatch("[]", m, types.NewStr("k"), data).Val
	mustValue(t, ops.Dispatch("=", ref, types.NewInt(3), data))
	if v, _ := m.Local("k"); !types.Equal(v, types.NewInt(3)) {
		t.Errorf("m.k = %v", v)
	}

	ref = ops.Dispatch(".", m, types.NewVar("fresh"), data).Val
	mustValue(t, ops.Dispatch("=", ref, types.NewInt(4), data))
	if v, _ := m.Local("fresh"); !types.Equal(v, types.NewInt(4)) {
		t.Errorf("m.fresh = %v", v)
	}

	wantCode(t, ops.Dispatch("=", types.NewInt(1), types.NewInt(2), data), types.E_TYPE)
}

func TestMemberOperator(t *testing.T) {
	r := New(0)
	ops := r.Operators()
	data := &OpData{Registry: r}

	list := types.NewEmptyList()
	res := ops.Dispatch(".", list, types.NewVar("push"), data)
	if res.IsError() {
		t.Fatalf("list.push: %v", res.Err)
	}
	rv, ok := res.Val.(*types.RefValue)
	if !ok {
		t.Fatalf("member access returned %T, want a reference", res.Val)
	}
	if rv.Origin() != types.Value(list) {
		t.Error("reference origin should be the receiver")
	}
	if _, err := types.AsFunc(rv); err != nil {
		t.Errorf("push should resolve to a function: %v", err)
	}

	wantCode(t, ops.Dispatch(".", types.NewInt(1), types.NewVar("push"), data), types.E_PROPNF)
}

func TestMostSpecificHandlerWins(t *testing.T) {
	ops := NewOpTable()
	ops.Define("~", 5, LeftAssoc)
	generic := func(l, r types.Value, d *OpData) types.Result { return types.Ok(types.NewStr("generic")) }
	specific := func(l, r types.Value, d *OpData) types.Result { return types.Ok(types.NewStr("specific")) }

	ops.Add("~", types.TagInt, types.TagInt, specific)
	ops.Add("~", types.AnyTag, types.AnyTag, generic)

	got := mustValue(t, ops.Dispatch("~", types.NewInt(1), types.NewInt(2), nil))
	if s, _ := types.AsString(got); s != "specific" {
		t.Errorf("int ~ int used %s handler", s)
	}
	got = mustValue(t, ops.Dispatch("~", types.NewInt(1), types.NewStr("x"), nil))
	if s, _ := types.AsString(got); s != "generic" {
		t.Errorf("int ~ str used %s handler", s)
	}

	ops.Add("~", types.TagInt, types.TagInt, generic)
	op, _ := ops.Lookup("~")
	if len(op.Signatures()) != 2 {
		t.Errorf("re-adding a signature should replace it, have %d", len(op.Signatures()))
	}
	if prec, _ := ops.Precedence("~"); prec != 5 {
		t.Errorf("Precedence(~) = %d", prec)
	}
}
