package types

// StrValue represents a string
type StrValue struct {
	val string
}

// NewStr creates a new string value
func NewStr(s string) StrValue {
	return StrValue{val: s}
}

// String returns the quoted representation
func (s StrValue) String() string {
	return `"` + s.val + `"`
}

// Type returns the value tag
func (s StrValue) Type() Tag {
	return TagStr
}

// Clone returns a copy of the value
func (s StrValue) Clone() Value {
	return s
}

func (s StrValue) isValue() {}

// Value returns the internal string value
func (s StrValue) Value() string {
	return s.val
}

// Len returns the length in runes
func (s StrValue) Len() int {
	return len([]rune(s.val))
}
