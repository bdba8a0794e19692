package types

// BoolValue represents a boolean
type BoolValue struct {
	Val bool
}

// Type returns the value tag
func (b BoolValue) Type() Tag {
	return TagBool
}

// String returns the literal representation
func (b BoolValue) String() string {
	if b.Val {
		return "true"
	}
	return "false"
}

// Clone returns a copy of the value
func (b BoolValue) Clone() Value {
	return b
}

func (b BoolValue) isValue() {}

// NewBool creates a new BoolValue
func NewBool(val bool) BoolValue {
	return BoolValue{Val: val}
}
