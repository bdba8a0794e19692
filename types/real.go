package types

import (
	"math"
	"strconv"
)

// RealValue represents a floating point number
type RealValue struct {
	Val float64
}

// Type returns the value tag
func (f RealValue) Type() Tag {
	return TagReal
}

// String renders the number with six significant digits, so 1024.0
// prints as "1024" and 1.0/3 as "0.333333"
func (f RealValue) String() string {
	if math.IsNaN(f.Val) {
		return "nan"
	}
	if math.IsInf(f.Val, 1) {
		return "inf"
	}
	if math.IsInf(f.Val, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(f.Val, 'g', 6, 64)
}

// Clone returns a copy of the value
func (f RealValue) Clone() Value {
	return f
}

func (f RealValue) isValue() {}

// NewReal creates a new RealValue
func NewReal(val float64) RealValue {
	return RealValue{Val: val}
}

// IsNaN returns true if the number is NaN
func (f RealValue) IsNaN() bool {
	return math.IsNaN(f.Val)
}
