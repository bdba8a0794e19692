package eval

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"calc/builtins"
	"calc/types"
)

// Assemble translates postfix source into a program. Tokens are separated
// by whitespace:
//
//	42 1.5 "text"     literals
//	name              load a binding
//	.name             member access on the value below
//	+ - == [] =       binary operators known to the registry
//	u- !              unary operators (u prefix when the symbol is also binary)
//	@N  @N:k1,k2      call with N positional arguments (and keyword arguments)
//	[N] (N) ...N      build a list, tuple or argument tuple of N values
//	{k1,k2}           build a map
//	;                 discard the top of the stack
//
// Reserved words and characters registered by the bundles (true, and, #)
// are expanded by their parser hooks.
func Assemble(src string, reg *builtins.Registry) (*Program, error) {
	if reg == nil {
		reg = builtins.Default()
	}
	a := &assembler{prog: &Program{}, ops: reg.Operators()}
	parsers := reg.Parsers()

	pos := 0
	for pos < len(src) {
		r, size := utf8.DecodeRuneInString(src[pos:])
		if unicode.IsSpace(r) {
			pos += size
			continue
		}

		if hook, ok := parsers.FindChar(r); ok {
			next, err := hook(src, pos, a)
			if err != nil {
				return nil, err
			}
			if next <= pos {
				next = pos + size
			}
			pos = next
			continue
		}

		if r == '"' {
			lit, next, err := scanString(src, pos)
			if err != nil {
				return nil, err
			}
			a.PushValue(types.NewStr(lit))
			pos = next
			continue
		}

		end := pos
		for end < len(src) {
			c, n := utf8.DecodeRuneInString(src[end:])
			if unicode.IsSpace(c) {
				break
			}
			if _, ok := parsers.FindChar(c); ok {
				break
			}
			end += n
		}
		tok := src[pos:end]

		if hook, ok := parsers.FindWord(tok); ok {
			next, err := hook(src, end, a)
			if err != nil {
				return nil, err
			}
			pos = next
			continue
		}
		if err := a.token(tok); err != nil {
			return nil, fmt.Errorf("offset %d: %w", pos, err)
		}
		pos = end
	}
	return a.prog, nil
}

// assembler emits instructions; it is also the builder handed to parser
// hooks
type assembler struct {
	prog *Program
	ops  *builtins.OpTable
}

func (a *assembler) PushValue(v types.Value) {
	a.prog.Emit(Instruction{Op: OpPush, Value: v})
}

func (a *assembler) PushOperator(symbol string) {
	if _, ok := a.ops.Lookup(symbol); ok {
		a.prog.Emit(Instruction{Op: OpBinary, Name: symbol})
		return
	}
	a.prog.Emit(Instruction{Op: OpUnary, Name: symbol})
}

func (a *assembler) token(tok string) error {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		a.PushValue(types.NewInt(n))
		return nil
	}

	switch {
	case tok == ";":
		a.prog.Emit(Instruction{Op: OpPop})
		return nil

	case strings.HasPrefix(tok, "@"):
		return a.call(tok[1:])

	case strings.HasPrefix(tok, "...") && len(tok) > 3:
		return a.group(OpSpread, tok[3:])

	case len(tok) > 2 && tok[0] == '[' && tok[len(tok)-1] == ']':
		return a.group(OpList, tok[1:len(tok)-1])

	case len(tok) > 2 && tok[0] == '(' && tok[len(tok)-1] == ')':
		return a.group(OpTuple, tok[1:len(tok)-1])

	case len(tok) >= 2 && tok[0] == '{' && tok[len(tok)-1] == '}':
		keys := splitNames(tok[1 : len(tok)-1])
		a.prog.Emit(Instruction{Op: OpMap, Argc: len(keys), Keywords: keys})
		return nil

	case len(tok) > 1 && tok[0] == '.' && isIdent(tok[1:]):
		a.prog.Emit(Instruction{Op: OpMember, Name: tok[1:]})
		return nil
	}

	if isNumeric(tok) {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("bad number %q", tok)
		}
		a.PushValue(types.NewReal(f))
		return nil
	}

	if _, ok := a.ops.Lookup(tok); ok {
		a.prog.Emit(Instruction{Op: OpBinary, Name: tok})
		return nil
	}
	if _, ok := a.ops.LookupUnary(tok); ok {
		a.prog.Emit(Instruction{Op: OpUnary, Name: tok})
		return nil
	}
	if len(tok) > 1 && tok[0] == 'u' {
		if _, ok := a.ops.LookupUnary(tok[1:]); ok {
			a.prog.Emit(Instruction{Op: OpUnary, Name: tok[1:]})
			return nil
		}
	}
	if isIdent(tok) {
		a.prog.Emit(Instruction{Op: OpLoad, Name: tok})
		return nil
	}
	return fmt.Errorf("unknown operator %q", tok)
}

func (a *assembler) call(spec string) error {
	count, kw, _ := strings.Cut(spec, ":")
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return fmt.Errorf("bad call arity %q", spec)
	}
	in := Instruction{Op: OpCall, Argc: n}
	if kw != "" {
		in.Keywords = splitNames(kw)
	}
	a.prog.Emit(in)
	return nil
}

func (a *assembler) group(op OpCode, count string) error {
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return fmt.Errorf("bad %s size %q", op, count)
	}
	a.prog.Emit(Instruction{Op: op, Argc: n})
	return nil
}

func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func isNumeric(s string) bool {
	s = strings.TrimLeft(s, "+-")
	s = strings.TrimPrefix(s, ".")
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// scanString reads a double quoted literal starting at pos and returns the
// unquoted text and the offset after the closing quote
func scanString(src string, pos int) (string, int, error) {
	i := pos + 1
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case '"':
			lit, err := strconv.Unquote(src[pos : i+1])
			if err != nil {
				return "", 0, fmt.Errorf("offset %d: bad string literal: %w", pos, err)
			}
			return lit, i + 1, nil
		}
		i++
	}
	return "", 0, fmt.Errorf("offset %d: unterminated string literal", pos)
}
