package types

// Value is the interface all runtime values implement.
// The set of implementations is closed: the unexported marker keeps
// other packages from adding tags the conversion tables do not know.
type Value interface {
	Type() Tag
	String() string // default rendering, DefaultDepth, no overrides
	Clone() Value   // deep copy, independent of the source afterward
	isValue()
}

// Reserved names used by the call convention and the override protocols
const (
	ThisName      = "this"
	ArgsName      = "args"
	KwargsName    = "kwargs"
	StringifyName = "__str__"
	TypeNameKey   = "__type__"
)

// NoneValue is the None control sentinel ("no value")
type NoneValue struct{}

// RejectValue is the Reject control sentinel ("explicit short-circuit / no match")
type RejectValue struct{}

// Shared sentinel singletons
var (
	None   Value = NoneValue{}
	Reject Value = RejectValue{}
	Error  Value = ErrValue{}
)

func (NoneValue) isValue()         {}
func (NoneValue) Type() Tag        { return TagNone }
func (NoneValue) String() string   { return "none" }
func (n NoneValue) Clone() Value   { return n }
func (RejectValue) isValue()       {}
func (RejectValue) Type() Tag      { return TagReject }
func (RejectValue) String() string { return "reject" }
func (r RejectValue) Clone() Value { return r }

// IsNone reports whether v is the None sentinel
func IsNone(v Value) bool {
	return v == nil || v.Type() == TagNone
}

// IsReject reports whether v is the Reject sentinel
func IsReject(v Value) bool {
	return v != nil && v.Type() == TagReject
}

// IsError reports whether v is an Error sentinel
func IsError(v Value) bool {
	return v != nil && v.Type() == TagError
}

// VarValue is an unresolved name. It converts to Str.
type VarValue struct {
	name string
}

// NewVar creates an unresolved name value
func NewVar(name string) VarValue {
	return VarValue{name: name}
}

func (v VarValue) isValue()       {}
func (v VarValue) Type() Tag      { return TagVar }
func (v VarValue) String() string { return v.name }
func (v VarValue) Clone() Value   { return v }

// Name returns the unresolved name
func (v VarValue) Name() string {
	return v.name
}

// OpValue is an operator token. It converts to Str.
type OpValue struct {
	symbol string
}

// NewOp creates an operator token
func NewOp(symbol string) OpValue {
	return OpValue{symbol: symbol}
}

func (o OpValue) isValue()       {}
func (o OpValue) Type() Tag      { return TagOp }
func (o OpValue) String() string { return o.symbol }
func (o OpValue) Clone() Value   { return o }

// Symbol returns the operator symbol
func (o OpValue) Symbol() string {
	return o.symbol
}

// TypeName returns the canonical lowercase name of v's type. Maps that
// carry a "__type__" string entry (locally or inherited) report that string.
func TypeName(v Value) string {
	if v == nil {
		return TagNone.Name()
	}
	switch x := v.(type) {
	case *RefValue:
		return TypeName(x.Resolve())
	case *Map:
		if t, ok := x.Lookup(TypeNameKey); ok {
			if s, ok := t.(StrValue); ok {
				return s.Value()
			}
		}
	}
	return v.Type().Name()
}
