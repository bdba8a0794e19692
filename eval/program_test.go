package eval

import (
	"strings"
	"testing"

	"calc/types"
)

func TestParseProgramInstructions(t *testing.T) {
	src := `
name: sample
code:
  - load: pow
  - push: 2
  - push: 3
  - call: 1
    keywords: [exp]
  - push: 1
  - map: [a]
  - pop:
  - get: len
  - unary: "-"
  - op: "+"
  - list: 2
`
	prog, err := ParseProgram([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if prog.Name != "sample" {
		t.Errorf("Name = %q", prog.Name)
	}

	want := []string{
		"load pow",
		"push 2",
		"push 3",
		"call 1 [exp]",
		"push 1",
		"map [a]",
		"pop",
		"get len",
		"unary -",
		"op +",
		"list 2",
	}
	if prog.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", prog.Len(), len(want))
	}
	for i, w := range want {
		if got := prog.Code[i].String(); got != w {
			t.Errorf("instruction %d = %q, want %q", i, got, w)
		}
	}
	if prog.Code[5].Argc != 1 {
		t.Errorf("map Argc = %d, want 1", prog.Code[5].Argc)
	}
}

func TestParseProgramLiterals(t *testing.T) {
	tests := []struct {
		yaml     string
		tag      types.Tag
		rendered string
	}{
		{"[{push: 2}]", types.TagInt, "2"},
		{"[{push: 2.5}]", types.TagReal, "2.5"},
		{`[{push: "2"}]`, types.TagStr, `"2"`},
		{"[{push: true}]", types.TagBool, "true"},
		{"[{push: null}]", types.TagNone, "none"},
		{"[{push: [1, x]}]", types.TagList, `[ 1, "x" ]`},
		{"[{push: !tuple [1, 2]}]", types.TagTuple, "(1, 2)"},
		{"[{push: {a: 1}}]", types.TagMap, `{ "a": 1 }`},
	}

	for _, tt := range tests {
		t.Run(tt.yaml, func(t *testing.T) {
			prog, err := ParseProgram([]byte(tt.yaml))
			if err != nil {
				t.Fatal(err)
			}
			v := prog.Code[0].Value
			if v.Type() != tt.tag {
				t.Errorf("tag = %s, want %s", v.Type().Name(), tt.tag.Name())
			}
			if types.Render(v) != tt.rendered {
				t.Errorf("rendered %s, want %s", types.Render(v), tt.rendered)
			}
		})
	}
}

func TestParseProgramErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown mnemonic", "[{jump: 3}]", "unknown instruction"},
		{"two mnemonics", "[{push: 1, load: x}]", "more than one mnemonic"},
		{"negative count", "[{call: -1}]", "non-negative count"},
		{"scalar instruction", "[push]", "must be a mapping"},
		{"no mnemonic", "[{keywords: [a]}]", "no mnemonic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProgram([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestUserFunction(t *testing.T) {
	src := `
- load: square
- func: [x]
  name: square
  body:
    - load: x
    - load: x
    - op: "*"
- op: "="
- pop:
- load: square
- push: 7
- call: 1
`
	prog, err := ParseProgram([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Exec(prog, nil, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !types.Equal(got, types.NewInt(49)) {
		t.Errorf("square(7) = %s", types.Render(got))
	}
}

func TestUserFunctionClosure(t *testing.T) {
	src := `
- load: base
- push: 10
- op: "="
- pop:
- load: add
- func: [x]
  body: [{load: x}, {load: base}, {op: "+"}]
- op: "="
- pop:
- load: add
- push: 5
- call: 1
`
	prog, err := ParseProgram([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	scope := NewEvaluator(nil, Options{}).NewScope()
	got, err := Exec(prog, scope, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !types.Equal(got, types.NewInt(15)) {
		t.Errorf("add(5) = %s", types.Render(got))
	}

	// parameters bind in the call scope, not the defining one
	if _, ok := scope.Local("x"); ok {
		t.Error("parameter x leaked into the defining scope")
	}
}

func TestUserFunctionMissingArgument(t *testing.T) {
	src := `
- func: [x]
  body: [{load: x}]
- call: 0
`
	prog, err := ParseProgram([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	_, err = Exec(prog, nil, nil, Options{})
	if types.CodeOf(err) != types.E_VARNF {
		t.Errorf("Expected E_VARNF for an unbound parameter, got %v", err)
	}
}

func TestRecursionLimit(t *testing.T) {
	src := `
- load: loop
- func: []
  name: loop
  body: [{load: loop}, {call: 0}]
- op: "="
- pop:
- load: loop
- call: 0
`
	prog, err := ParseProgram([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	_, err = Exec(prog, nil, nil, Options{})
	if types.CodeOf(err) != types.E_MAXTICKS {
		t.Errorf("Expected E_MAXTICKS, got %v", err)
	}
}

func TestParseOpCode(t *testing.T) {
	for op := OpPush; op <= OpPop; op++ {
		got, ok := ParseOpCode(op.String())
		if !ok || got != op {
			t.Errorf("ParseOpCode(%q) = %v, %v", op.String(), got, ok)
		}
	}
	if _, ok := ParseOpCode("jump"); ok {
		t.Error("ParseOpCode accepted an unknown mnemonic")
	}
	if s := OpCode(99).String(); s != "OpCode(99)" {
		t.Errorf("unknown opcode renders as %q", s)
	}
}
