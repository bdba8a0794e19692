package eval

import (
	"calc/builtins"
	"calc/trace"
	"calc/types"
)

// MaxCallDepth bounds function nesting within one evaluation
const MaxCallDepth = 256

// Options configure an evaluation
type Options struct {
	Ticks  int64         // instruction budget, DefaultTicks when zero
	Depth  int           // stringify depth budget, types.DefaultDepth when zero
	Tracer *trace.Tracer // call tracing, global tracer when nil
}

// Evaluator runs programs against a registry. One evaluator carries one
// tick budget and is not safe for concurrent use; create one per
// evaluation (Exec does).
type Evaluator struct {
	registry *builtins.Registry
	ctx      *Context
	tracer   *trace.Tracer
}

// NewEvaluator creates an evaluator. A nil registry means the default one.
func NewEvaluator(reg *builtins.Registry, opts Options) *Evaluator {
	if reg == nil {
		reg = builtins.Default()
	}
	depth := opts.Depth
	if depth <= 0 {
		depth = types.DefaultDepth
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Global()
	}
	return &Evaluator{
		registry: reg,
		ctx:      NewContext(opts.Ticks, depth),
		tracer:   tracer,
	}
}

// Registry returns the registry the evaluator resolves builtins in
func (e *Evaluator) Registry() *builtins.Registry {
	return e.registry
}

// Context returns the execution state
func (e *Evaluator) Context() *Context {
	return e.ctx
}

// NewScope returns a fresh scope whose parent is the registry's global scope
func (e *Evaluator) NewScope() *types.Map {
	return e.registry.Global().Extend()
}

// Run executes prog in scope (a fresh child of the global scope when nil)
// and returns the value left on top of the stack
func (e *Evaluator) Run(prog *Program, scope *types.Map) (types.Value, error) {
	if scope == nil {
		scope = e.NewScope()
	}
	return e.Eval(prog, scope).Unpack()
}

// Exec runs prog with a fresh evaluator
func Exec(prog *Program, scope *types.Map, reg *builtins.Registry, opts Options) (types.Value, error) {
	return NewEvaluator(reg, opts).Run(prog, scope)
}

// Stringify renders v with the evaluator's depth budget and the
// registry's overrides
func (e *Evaluator) Stringify(v types.Value) (string, error) {
	return e.registry.Stringify(v, e.ctx.Depth)
}

// Eval executes the instructions of prog. All instructions follow this
// pattern:
// - consume a tick first
// - return a failing Result instead of panicking
func (e *Evaluator) Eval(prog *Program, scope *types.Map) types.Result {
	var stack []types.Value
	data := &builtins.OpData{Scope: scope, Registry: e.registry}
	ops := e.registry.Operators()

	pop := func(n int) []types.Value {
		vals := make([]types.Value, n)
		copy(vals, stack[len(stack)-n:])
		stack = stack[:len(stack)-n]
		return vals
	}

	for pc, in := range prog.Code {
		if !e.ctx.ConsumeTick() {
			return types.Errf(types.E_MAXTICKS, in.String(), "tick limit exceeded")
		}

		if need := in.arity(); len(stack) < need {
			return types.Errf(types.E_INVARG, in.String(), "stack underflow at instruction %d", pc)
		}

		switch in.Op {
		case OpPush:
			if in.Value == nil {
				stack = append(stack, types.None)
			} else {
				stack = append(stack, in.Value.Clone())
			}

		case OpLoad:
			stack = append(stack, e.load(scope, in.Name))

		case OpBinary:
			operands := pop(2)
			res := ops.Dispatch(in.Name, operands[0], operands[1], data)
			if res.IsError() {
				return res
			}
			stack = append(stack, res.Val)

		case OpUnary:
			operand := pop(1)[0]
			res := ops.DispatchUnary(in.Name, operand, data)
			if res.IsError() {
				return res
			}
			stack = append(stack, res.Val)

		case OpMember:
			recv := pop(1)[0]
			res := ops.Dispatch(".", recv, types.NewVar(in.Name), data)
			if res.IsError() {
				return res
			}
			stack = append(stack, res.Val)

		case OpCall:
			kwvals := pop(len(in.Keywords))
			args := pop(in.Argc)
			callee := pop(1)[0]
			res := e.call(scope, callee, args, in.Keywords, kwvals)
			if res.IsError() {
				return res
			}
			stack = append(stack, res.Val)

		case OpTuple, OpSpread, OpList, OpMap:
			vals, f := operandValues(in.String(), pop(in.Argc))
			if f != nil {
				return types.Result{Err: f}
			}
			stack = append(stack, collect(in, vals))

		case OpFunc:
			body := in.Body
			if body == nil {
				body = &Program{}
			}
			fn := types.NewUserFunc(in.Name, in.Params, &userBody{eval: e, prog: body}, scope)
			stack = append(stack, fn)

		case OpPop:
			pop(1)

		default:
			return types.Errf(types.E_INVARG, "eval", "unknown instruction %s", in.Op)
		}
	}

	if len(stack) == 0 {
		return types.Ok(types.None)
	}
	top := stack[len(stack)-1]
	if name, ok := top.(types.VarValue); ok {
		return types.Errf(types.E_VARNF, "eval", "name %q is not defined", name.Name())
	}
	return types.Ok(types.Resolve(top))
}

// arity returns the number of stack entries an instruction consumes
func (in Instruction) arity() int {
	switch in.Op {
	case OpBinary:
		return 2
	case OpUnary, OpMember, OpPop:
		return 1
	case OpCall:
		return 1 + in.Argc + len(in.Keywords)
	case OpTuple, OpSpread, OpList, OpMap:
		return in.Argc
	}
	return 0
}

// load resolves a name in scope. Bound names become references so they
// can be assigned and so anonymous functions render with their slot name;
// unbound names stay bare for assignment.
func (e *Evaluator) load(scope *types.Map, name string) types.Value {
	if v, ok := scope.Lookup(name); ok {
		return types.NewRef(types.NewStr(name), nil, v)
	}
	return types.NewVar(name)
}

// operandValues resolves references and rejects unbound names
func operandValues(op string, vals []types.Value) ([]types.Value, *types.Failure) {
	for i, v := range vals {
		v = types.Resolve(v)
		if name, ok := v.(types.VarValue); ok {
			return nil, types.NewFailure(types.E_VARNF, op, "name %q is not defined", name.Name())
		}
		vals[i] = v
	}
	return vals, nil
}

func collect(in Instruction, vals []types.Value) types.Value {
	switch in.Op {
	case OpTuple:
		return types.NewTuple(vals...)
	case OpSpread:
		return types.NewSTuple(vals...)
	case OpList:
		return types.NewList(vals)
	default:
		m := types.NewMap()
		for i, k := range in.Keywords {
			m.Assign(k, vals[i])
		}
		return m
	}
}

// call invokes callee. A callee reached through member access or indexing
// is a reference whose origin becomes "this".
func (e *Evaluator) call(scope *types.Map, callee types.Value, args []types.Value, keywords []string, kwvals []types.Value) types.Result {
	var this types.Value
	if ref, ok := callee.(*types.RefValue); ok && ref.Origin() != nil {
		this = ref.Origin()
	}

	target := types.Resolve(callee)
	fn, ok := target.(*types.Function)
	if !ok {
		if name, isVar := target.(types.VarValue); isVar {
			return types.Errf(types.E_VARNF, "call", "name %q is not defined", name.Name())
		}
		return types.Errf(types.E_CALL, "call", "%s %s is not callable", types.TypeName(target), types.Render(target))
	}

	vals, f := operandValues("call "+fn.Name(), args)
	if f != nil {
		return types.Result{Err: f}
	}
	kwresolved, f := operandValues("call "+fn.Name(), kwvals)
	if f != nil {
		return types.Result{Err: f}
	}
	var kwargs *types.Map
	if len(keywords) > 0 {
		kwargs = types.NewMap()
		for i, k := range keywords {
			kwargs.Assign(k, kwresolved[i])
		}
	}

	if e.ctx.CallDepth >= MaxCallDepth {
		return types.Errf(types.E_MAXTICKS, "call "+fn.Name(), "call depth %d exceeded", MaxCallDepth)
	}
	e.ctx.CallDepth++
	defer func() { e.ctx.CallDepth-- }()

	name := fn.Name()
	if name == "" {
		if ref, ok := callee.(*types.RefValue); ok {
			name, _ = types.AsString(ref.Key())
		}
	}

	e.tracer.Call(name, this, vals)
	res := fn.Call(scope, this, vals, kwargs)
	if res.IsError() {
		e.tracer.Failure(name, res.Err)
		return res
	}
	e.tracer.Return(name, res.Val)
	return res
}

// userBody runs a user-defined function body with the evaluator that
// created it, so nested calls share one tick budget
type userBody struct {
	eval *Evaluator
	prog *Program
}

func (b *userBody) Run(scope *types.Map) types.Result {
	return b.eval.Eval(b.prog, scope)
}
