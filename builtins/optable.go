package builtins

import (
	"math/bits"
	"sort"
	"sync"

	"calc/types"
)

// Assoc is operator associativity
type Assoc int

const (
	LeftAssoc Assoc = iota
	RightAssoc
)

// OpData is handed to operator handlers
type OpData struct {
	Op       string
	Scope    *types.Map // scope the expression is evaluated in
	Registry *Registry
}

// OpFunc handles a binary operator for one pair of tag sets
type OpFunc func(left, right types.Value, data *OpData) types.Result

// UnaryFunc handles a unary operator for one tag set
type UnaryFunc func(operand types.Value, data *OpData) types.Result

type opHandler struct {
	left, right types.Tag
	fn          OpFunc
	unary       UnaryFunc
}

func (h opHandler) weight() int {
	return bits.OnesCount32(uint32(h.left)) + bits.OnesCount32(uint32(h.right))
}

// Operator describes one operator symbol. Precedence follows the usual
// table convention: lower numbers bind tighter.
type Operator struct {
	Symbol     string
	Precedence int
	Assoc      Assoc
	Unary      bool

	// RawLeft/RawRight keep references and unresolved names instead of
	// resolving them before dispatch (assignment, member access)
	RawLeft  bool
	RawRight bool

	handlers []opHandler
}

// Signatures returns the registered operand tag sets
func (o *Operator) Signatures() [][2]types.Tag {
	sigs := make([][2]types.Tag, len(o.handlers))
	for i, h := range o.handlers {
		sigs[i] = [2]types.Tag{h.left, h.right}
	}
	return sigs
}

// OpTable maps operator symbols to precedence and dispatch handlers
type OpTable struct {
	mu     sync.RWMutex
	binary map[string]*Operator
	unary  map[string]*Operator
}

// NewOpTable creates an empty operator table
func NewOpTable() *OpTable {
	return &OpTable{
		binary: make(map[string]*Operator),
		unary:  make(map[string]*Operator),
	}
}

func (t *OpTable) define(table map[string]*Operator, symbol string, prec int, assoc Assoc, unary bool) *Operator {
	op, ok := table[symbol]
	if !ok {
		op = &Operator{Symbol: symbol}
		table[symbol] = op
	}
	op.Precedence = prec
	op.Assoc = assoc
	op.Unary = unary
	return op
}

// Define declares a binary operator's precedence and associativity
func (t *OpTable) Define(symbol string, prec int, assoc Assoc) *Operator {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.define(t.binary, symbol, prec, assoc, false)
}

// DefineUnary declares a prefix operator
func (t *OpTable) DefineUnary(symbol string, prec int) *Operator {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.define(t.unary, symbol, prec, RightAssoc, true)
}

func addHandler(op *Operator, h opHandler) {
	for i, existing := range op.handlers {
		if existing.left == h.left && existing.right == h.right {
			op.handlers[i] = h
			return
		}
	}
	op.handlers = append(op.handlers, h)
}

// Add registers the handler for symbol when the operands match the tag
// sets. Re-adding the same pair replaces the handler.
func (t *OpTable) Add(symbol string, left, right types.Tag, fn OpFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	op, ok := t.binary[symbol]
	if !ok {
		op = t.define(t.binary, symbol, 0, LeftAssoc, false)
	}
	addHandler(op, opHandler{left: left, right: right, fn: fn})
}

// AddUnary registers a prefix operator handler
func (t *OpTable) AddUnary(symbol string, operand types.Tag, fn UnaryFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	op, ok := t.unary[symbol]
	if !ok {
		op = t.define(t.unary, symbol, 0, RightAssoc, true)
	}
	addHandler(op, opHandler{right: operand, unary: fn})
}

// Lookup returns the binary operator for symbol
func (t *OpTable) Lookup(symbol string) (*Operator, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	op, ok := t.binary[symbol]
	return op, ok
}

// LookupUnary returns the prefix operator for symbol
func (t *OpTable) LookupUnary(symbol string) (*Operator, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	op, ok := t.unary[symbol]
	return op, ok
}

// Precedence returns the precedence of a binary operator
func (t *OpTable) Precedence(symbol string) (int, bool) {
	op, ok := t.Lookup(symbol)
	if !ok {
		return 0, false
	}
	return op.Precedence, true
}

// Symbols returns the binary operator symbols, sorted
func (t *OpTable) Symbols() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	syms := make([]string, 0, len(t.binary))
	for s := range t.binary {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}

// match picks the most specific handler accepting the operand tags, so
// the result never depends on which bundle registered first
func match(op *Operator, left, right types.Tag) (opHandler, bool) {
	var best opHandler
	found := false
	for _, h := range op.handlers {
		if !op.Unary && !left.In(h.left) {
			continue
		}
		if !right.In(h.right) {
			continue
		}
		if !found || h.weight() < best.weight() ||
			(h.weight() == best.weight() && (h.left < best.left || (h.left == best.left && h.right < best.right))) {
			best = h
			found = true
		}
	}
	return best, found
}

func prepare(v types.Value, raw bool, op string) (types.Value, *types.Failure) {
	if raw {
		return v, nil
	}
	v = types.Resolve(v)
	if name, ok := v.(types.VarValue); ok {
		return nil, types.NewFailure(types.E_VARNF, "operator "+op, "name %q is not defined", name.Name())
	}
	return v, nil
}

// Dispatch applies a binary operator
func (t *OpTable) Dispatch(symbol string, left, right types.Value, data *OpData) types.Result {
	op, ok := t.Lookup(symbol)
	if !ok {
		return types.Errf(types.E_INVARG, "operator "+symbol, "unknown operator")
	}
	l, f := prepare(left, op.RawLeft, symbol)
	if f != nil {
		return types.Result{Err: f}
	}
	r, f := prepare(right, op.RawRight, symbol)
	if f != nil {
		return types.Result{Err: f}
	}

	t.mu.RLock()
	h, ok := match(op, l.Type(), r.Type())
	t.mu.RUnlock()
	if !ok {
		return types.Errf(types.E_TYPE, "operator "+symbol, "not defined for %s %s and %s %s",
			types.TypeName(l), types.Render(l), types.TypeName(r), types.Render(r))
	}
	if data == nil {
		data = &OpData{}
	}
	data.Op = symbol
	return h.fn(l, r, data)
}

// DispatchUnary applies a prefix operator
func (t *OpTable) DispatchUnary(symbol string, operand types.Value, data *OpData) types.Result {
	op, ok := t.LookupUnary(symbol)
	if !ok {
		return types.Errf(types.E_INVARG, "unary "+symbol, "unknown operator")
	}
	v, f := prepare(operand, op.RawRight, symbol)
	if f != nil {
		return types.Result{Err: f}
	}

	t.mu.RLock()
	h, ok := match(op, 0, v.Type())
	t.mu.RUnlock()
	if !ok {
		return types.Errf(types.E_TYPE, "unary "+symbol, "not defined for %s %s", types.TypeName(v), types.Render(v))
	}
	if data == nil {
		data = &OpData{}
	}
	data.Op = symbol
	return h.unary(v, data)
}
