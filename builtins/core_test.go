package builtins

import (
	"testing"

	"calc/types"
)

func TestConversions(t *testing.T) {
	r := New(0)

	tests := []struct {
		fn   string
		arg  types.Value
		want string
		tag  types.Tag
	}{
		{"type", types.NewInt(1), `"integer"`, types.TagStr},
		{"type", types.NewTuple(), `"tuple"`, types.TagStr},
		{"type", types.NewSTuple(types.NewInt(1)), `"integer"`, types.TagStr},
		{"str", types.NewStr("x"), `"x"`, types.TagStr},
		{"str", types.NewReal(1.5), `"1.5"`, types.TagStr},
		{"str", types.NewList([]types.Value{types.NewInt(1)}), `"[ 1 ]"`, types.TagStr},
		{"int", types.NewStr(" 42 "), "42", types.TagInt},
		{"int", types.NewReal(3.9), "3", types.TagInt},
		{"float", types.NewStr("2.5"), "2.5", types.TagReal},
		{"real", types.NewInt(2), "2", types.TagReal},
	}
	for _, tt := range tests {
		got := mustValue(t, call(t, r, tt.fn, tt.arg))
		if types.Render(got) != tt.want || got.Type() != tt.tag {
			t.Errorf("%s(%s) = %s (%s), want %s", tt.fn, types.Render(tt.arg), types.Render(got), got.Type(), tt.want)
		}
	}

	wantCode(t, call(t, r, "int", types.NewStr("abc")), types.E_CONVERT)
	wantCode(t, call(t, r, "float", types.NewStr("1e999")), types.E_CONVERT)
	wantCode(t, call(t, r, "int", types.NewEmptyList()), types.E_TYPE)
	wantCode(t, call(t, r, "type"), types.E_ARGS)
}

func TestTypeHonoursTypeKey(t *testing.T) {
	r := New(0)
	proto := types.NewMap()
	proto.Assign(types.TypeNameKey, types.NewStr("point"))
	obj := proto.Extend()

	got := mustValue(t, call(t, r, "type", obj))
	if s, _ := types.AsString(got); s != "point" {
		t.Errorf("type(obj) = %q", s)
	}
}

func TestConstructors(t *testing.T) {
	r := New(0)

	got := mustValue(t, call(t, r, "list", types.NewInt(1), types.NewStr("a")))
	if types.Render(got) != `[ 1, "a" ]` {
		t.Errorf("list(1, \"a\") = %s", types.Render(got))
	}

	rng := mustValue(t, call(t, r, "range", types.NewInt(3)))
	if rng.Type() != types.TagIterable {
		t.Fatalf("range returned %s", rng.Type())
	}
	got = mustValue(t, call(t, r, "list", rng))
	if types.Render(got) != "[ 0, 1, 2 ]" {
		t.Errorf("list(range(3)) = %s", types.Render(got))
	}
	// iterables restart on every walk
	got = mustValue(t, call(t, r, "list", rng))
	if types.Render(got) != "[ 0, 1, 2 ]" {
		t.Errorf("second walk = %s", types.Render(got))
	}

	got = mustValue(t, call(t, r, "list", mustValue(t, call(t, r, "range", types.NewInt(5), types.NewInt(0), types.NewInt(-2)))))
	if types.Render(got) != "[ 5, 3, 1 ]" {
		t.Errorf("range(5, 0, -2) = %s", types.Render(got))
	}
	wantCode(t, call(t, r, "range", types.NewInt(0), types.NewInt(1), types.NewInt(0)), types.E_INVARG)

	mapFn, _ := r.Get("map")
	kwargs := types.NewMapFrom(map[string]types.Value{"b": types.NewInt(2), "a": types.NewInt(1)})
	got = mustValue(t, mapFn.Call(r.Global(), nil, nil, kwargs))
	if types.Render(got) != `{ "a": 1, "b": 2 }` {
		t.Errorf("map(a=1, b=2) = %s", types.Render(got))
	}

	wantCode(t, call(t, r, "extend", types.NewInt(1)), types.E_INVARG)
}

func TestExtendKeepsPrototype(t *testing.T) {
	r := New(0)
	base := types.NewMap()
	base.Assign("x", types.NewInt(1))

	child := mustValue(t, call(t, r, "extend", base))
	grandchild := mustValue(t, call(t, r, "extend", child))

	if n := mustValue(t, method(t, r, grandchild, "len")); !types.Equal(n, types.NewInt(0)) {
		t.Errorf("len counts local entries only, got %s", types.Render(n))
	}
	m, _ := types.AsMap(grandchild)
	if v, ok := m.Lookup("x"); !ok || !types.Equal(v, types.NewInt(1)) {
		t.Error("grandchild should inherit x")
	}

	is := mustValue(t, method(t, r, grandchild, "instanceof", base))
	if !types.Equal(is, types.NewBool(true)) {
		t.Error("grandchild should be an instance of base")
	}
	is = mustValue(t, method(t, r, base, "instanceof", grandchild))
	if !types.Equal(is, types.NewBool(false)) {
		t.Error("base is not an instance of grandchild")
	}
}

func TestLen(t *testing.T) {
	r := New(0)
	tests := []struct {
		arg  types.Value
		want int64
	}{
		{types.NewStr("héllo"), 5},
		{types.NewList([]types.Value{types.NewInt(1), types.NewInt(2)}), 2},
		{types.NewTuple(types.NewInt(1)), 1},
		{types.NewMapFrom(map[string]types.Value{"a": types.None}), 1},
	}
	for _, tt := range tests {
		got := mustValue(t, call(t, r, "len", tt.arg))
		if !types.Equal(got, types.NewInt(tt.want)) {
			t.Errorf("len(%s) = %s", types.Render(tt.arg), types.Render(got))
		}
	}
	wantCode(t, call(t, r, "len", types.NewInt(3)), types.E_TYPE)
}

func TestListMethods(t *testing.T) {
	r := New(0)
	list := types.NewEmptyList()

	mustValue(t, method(t, r, list, "push", types.NewInt(1)))
	ret := mustValue(t, method(t, r, list, "push", types.NewInt(2)))
	if ret != types.Value(list) {
		t.Error("push should return the receiver")
	}
	if n := mustValue(t, method(t, r, list, "len")); !types.Equal(n, types.NewInt(2)) {
		t.Errorf("len after two pushes = %s", types.Render(n))
	}

	joined := mustValue(t, method(t, r, list, "join", types.NewStr("-")))
	if s, _ := types.AsString(joined); s != "1-2" {
		t.Errorf("join = %q", s)
	}
	wantCode(t, method(t, r, list, "push"), types.E_ARGS)
}

func TestListPop(t *testing.T) {
	r := New(0)
	mk := func() *types.ListValue {
		return types.NewList([]types.Value{types.NewInt(10), types.NewInt(20), types.NewInt(30)})
	}

	tests := []struct {
		args []types.Value
		want int64
		rest string
	}{
		{nil, 30, "[ 10, 20 ]"},
		{[]types.Value{types.NewInt(0)}, 10, "[ 20, 30 ]"},
		{[]types.Value{types.NewInt(-1)}, 30, "[ 10, 20 ]"},
		{[]types.Value{types.NewInt(-3)}, 10, "[ 20, 30 ]"},
		{[]types.Value{types.NewStr("x")}, 30, "[ 10, 20 ]"},
	}
	for _, tt := range tests {
		list := mk()
		got := mustValue(t, method(t, r, list, "pop", tt.args...))
		if !types.Equal(got, types.NewInt(tt.want)) {
			t.Errorf("pop(%v) = %s, want %d", tt.args, types.Render(got), tt.want)
		}
		if types.Render(list) != tt.rest {
			t.Errorf("after pop(%v): %s, want %s", tt.args, types.Render(list), tt.rest)
		}
	}

	wantCode(t, method(t, r, mk(), "pop", types.NewInt(3)), types.E_RANGE)
	wantCode(t, method(t, r, mk(), "pop", types.NewInt(-4)), types.E_RANGE)
	wantCode(t, method(t, r, types.NewEmptyList(), "pop"), types.E_RANGE)
}

func TestStringMethods(t *testing.T) {
	r := New(0)

	str := func(v types.Value) string {
		s, _ := types.AsString(v)
		return s
	}
	if got := str(mustValue(t, method(t, r, types.NewStr("MiXed"), "lower"))); got != "mixed" {
		t.Errorf("lower = %q", got)
	}
	if got := str(mustValue(t, method(t, r, types.NewStr("straße"), "upper"))); got != "STRASSE" {
		t.Errorf("upper = %q", got)
	}
	if got := str(mustValue(t, method(t, r, types.NewStr("  pad \n"), "strip"))); got != "pad" {
		t.Errorf("strip = %q", got)
	}
	if n := mustValue(t, method(t, r, types.NewStr("héllo"), "len")); !types.Equal(n, types.NewInt(5)) {
		t.Errorf("len = %s", types.Render(n))
	}

	parts := mustValue(t, method(t, r, types.NewStr("a,b,,c"), "split", types.NewStr(",")))
	if types.Render(parts) != `[ "a", "b", "", "c" ]` {
		t.Errorf("split = %s", types.Render(parts))
	}
}

func TestMapMethods(t *testing.T) {
	r := New(0)
	m := types.NewMapFrom(map[string]types.Value{"a": types.NewInt(1), "b": types.NewInt(2)})

	got := mustValue(t, method(t, r, m, "pop", types.NewStr("a")))
	if !types.Equal(got, types.NewInt(1)) {
		t.Errorf("pop(a) = %s", types.Render(got))
	}
	if m.Len() != 1 {
		t.Errorf("pop should erase the key, len = %d", m.Len())
	}
	got = mustValue(t, method(t, r, m, "pop", types.NewStr("a"), types.NewStr("dflt")))
	if s, _ := types.AsString(got); s != "dflt" {
		t.Errorf("pop with default = %s", types.Render(got))
	}
	got = mustValue(t, method(t, r, m, "pop", types.NewStr("a")))
	if !types.IsNone(got) {
		t.Errorf("pop of missing key = %s", types.Render(got))
	}

	child := m.Extend()
	got = mustValue(t, method(t, r, child, "pop", types.NewStr("b")))
	if !types.IsNone(got) {
		t.Error("pop only removes local keys")
	}
	if _, ok := m.Local("b"); !ok {
		t.Error("parent entry must survive a pop on the child")
	}

	wantCode(t, method(t, r, m, "instanceof", types.NewInt(1)), types.E_TYPE)
}
