package eval

import (
	"fmt"
	"strconv"

	"calc/types"

	"gopkg.in/yaml.v3"
)

// OpCode identifies an instruction
type OpCode int

const (
	OpPush   OpCode = iota // push literal Value
	OpLoad                 // push the binding of Name (or the bare name if unbound)
	OpBinary               // pop right, left; push left Name right
	OpUnary                // pop operand; push Name operand
	OpMember               // pop receiver; push receiver.Name
	OpCall                 // pop kwargs (Keywords), Argc args and the callee; push the result
	OpTuple                // pop Argc values; push a tuple
	OpSpread               // pop Argc values; push an argument tuple
	OpList                 // pop Argc values; push a list
	OpMap                  // pop one value per Keywords entry; push a map
	OpFunc                 // push a function of Params running Body in the current scope
	OpPop                  // discard top of stack
)

var opNames = map[OpCode]string{
	OpPush:   "push",
	OpLoad:   "load",
	OpBinary: "op",
	OpUnary:  "unary",
	OpMember: "get",
	OpCall:   "call",
	OpTuple:  "tuple",
	OpSpread: "spread",
	OpList:   "list",
	OpMap:    "map",
	OpFunc:   "func",
	OpPop:    "pop",
}

// String returns the instruction mnemonic
func (op OpCode) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("OpCode(%d)", int(op))
}

// ParseOpCode converts a mnemonic back to an OpCode
func ParseOpCode(s string) (OpCode, bool) {
	for op, name := range opNames {
		if name == s {
			return op, true
		}
	}
	return 0, false
}

// Instruction is one step of a program
type Instruction struct {
	Op       OpCode
	Value    types.Value // OpPush
	Name     string      // OpLoad, OpBinary, OpUnary, OpMember, OpFunc
	Argc     int         // OpCall, OpTuple, OpSpread, OpList
	Keywords []string    // OpCall, OpMap
	Params   []string    // OpFunc
	Body     *Program    // OpFunc
}

// String renders the instruction for listings and traces
func (in Instruction) String() string {
	switch in.Op {
	case OpPush:
		return "push " + types.Render(in.Value)
	case OpLoad, OpBinary, OpUnary, OpMember:
		return in.Op.String() + " " + in.Name
	case OpCall:
		if len(in.Keywords) > 0 {
			return fmt.Sprintf("call %d %v", in.Argc, in.Keywords)
		}
		return fmt.Sprintf("call %d", in.Argc)
	case OpTuple, OpSpread, OpList:
		return fmt.Sprintf("%s %d", in.Op, in.Argc)
	case OpMap:
		return fmt.Sprintf("map %v", in.Keywords)
	case OpFunc:
		return fmt.Sprintf("func %s%v", in.Name, in.Params)
	default:
		return in.Op.String()
	}
}

// Program is a flat postfix instruction sequence
type Program struct {
	Name string
	Code []Instruction
}

// Emit appends an instruction
func (p *Program) Emit(in Instruction) {
	p.Code = append(p.Code, in)
}

// Len returns the number of instructions
func (p *Program) Len() int {
	return len(p.Code)
}

// UnmarshalYAML accepts either a bare instruction list or a mapping with
// "name" and "code"
func (p *Program) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		return node.Decode(&p.Code)
	}
	var aux struct {
		Name string        `yaml:"name"`
		Code []Instruction `yaml:"code"`
	}
	if err := node.Decode(&aux); err != nil {
		return err
	}
	p.Name = aux.Name
	p.Code = aux.Code
	return nil
}

// UnmarshalYAML decodes one instruction. The mnemonic is the key and its
// operand the value:
//
//	- push: 2
//	- load: pow
//	- op: "+"
//	- call: 2
//	  keywords: [exp]
//	- map: [a, b]
//	- func: [x]
//	  name: square
//	  body: [...]
func (in *Instruction) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: instruction must be a mapping", node.Line)
	}

	found := false
	funcName := ""
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "keywords":
			if err := val.Decode(&in.Keywords); err != nil {
				return err
			}
			continue
		case "name":
			funcName = val.Value
			continue
		case "body":
			in.Body = &Program{}
			if err := val.Decode(in.Body); err != nil {
				return err
			}
			continue
		}

		op, ok := ParseOpCode(key)
		if !ok {
			return fmt.Errorf("line %d: unknown instruction %q", node.Content[i].Line, key)
		}
		if found {
			return fmt.Errorf("line %d: more than one mnemonic in instruction", node.Content[i].Line)
		}
		found = true
		in.Op = op

		switch op {
		case OpPush:
			v, err := Literal(val)
			if err != nil {
				return err
			}
			in.Value = v
		case OpLoad, OpBinary, OpUnary, OpMember:
			in.Name = val.Value
		case OpCall, OpTuple, OpSpread, OpList:
			n, err := strconv.Atoi(val.Value)
			if err != nil || n < 0 {
				return fmt.Errorf("line %d: %s needs a non-negative count, got %q", val.Line, key, val.Value)
			}
			in.Argc = n
		case OpMap:
			if err := val.Decode(&in.Keywords); err != nil {
				return err
			}
		case OpFunc:
			if err := val.Decode(&in.Params); err != nil {
				return err
			}
		}
	}
	if !found {
		return fmt.Errorf("line %d: instruction has no mnemonic", node.Line)
	}
	if in.Op == OpMap {
		in.Argc = len(in.Keywords)
	}
	if in.Op == OpFunc {
		in.Name = funcName
		if in.Body == nil {
			in.Body = &Program{}
		}
	}
	return nil
}

// Literal converts a YAML node into a value. Scalars follow their YAML
// type; sequences become lists (or tuples when tagged !tuple) and
// mappings become maps.
func Literal(node *yaml.Node) (types.Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return Literal(node.Alias)

	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return types.None, nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return nil, err
			}
			return types.NewBool(b), nil
		case "!!int":
			var n int64
			if err := node.Decode(&n); err != nil {
				return nil, err
			}
			return types.NewInt(n), nil
		case "!!float":
			var f float64
			if err := node.Decode(&f); err != nil {
				return nil, err
			}
			return types.NewReal(f), nil
		default:
			return types.NewStr(node.Value), nil
		}

	case yaml.SequenceNode:
		elements := make([]types.Value, len(node.Content))
		for i, c := range node.Content {
			v, err := Literal(c)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		if node.Tag == "!tuple" {
			return types.NewTuple(elements...), nil
		}
		return types.NewList(elements), nil

	case yaml.MappingNode:
		m := types.NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := Literal(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Assign(node.Content[i].Value, v)
		}
		return m, nil
	}
	return nil, fmt.Errorf("line %d: unsupported literal", node.Line)
}

// ParseProgram decodes a YAML program
func ParseProgram(data []byte) (*Program, error) {
	var p Program
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
