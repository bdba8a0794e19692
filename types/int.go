package types

import "strconv"

// IntValue represents a 64-bit integer
type IntValue struct {
	Val int64
}

// Type returns the value tag
func (i IntValue) Type() Tag {
	return TagInt
}

// String returns the literal representation
func (i IntValue) String() string {
	return strconv.FormatInt(i.Val, 10)
}

// Clone returns a copy of the value
func (i IntValue) Clone() Value {
	return i
}

func (i IntValue) isValue() {}

// NewInt creates a new IntValue
func NewInt(val int64) IntValue {
	return IntValue{Val: val}
}
