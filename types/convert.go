package types

import (
	"strconv"
	"strings"
)

// Conversion sources per target tag; identity is always allowed
const (
	boolSources = TagReal | TagInt | TagBool | TagStr | TagMap | TagFunc | TagNone | TagTuple | TagSTuple
	numSources  = TagReal | TagInt | TagBool
	strSources  = TagStr | TagVar | TagOp
)

// CanConvert reports whether a value tagged from may be read as to
func CanConvert(from, to Tag) bool {
	if from == to {
		return true
	}
	switch to {
	case TagBool:
		return from.In(boolSources)
	case TagReal, TagInt:
		return from.In(numSources)
	case TagStr:
		return from.In(strSources)
	default:
		return false
	}
}

// CanConvertTo reports whether v may be read as target. References are
// judged by the value they hold.
func CanConvertTo(v Value, target Tag) bool {
	return CanConvert(Resolve(v).Type(), target)
}

// AsBool returns the truthiness of v. Tags outside the Bool conversion
// table are a contract violation.
func AsBool(v Value) (bool, error) {
	switch x := Resolve(v).(type) {
	case RealValue:
		return x.Val != 0, nil
	case IntValue:
		return x.Val != 0, nil
	case BoolValue:
		return x.Val, nil
	case StrValue:
		return x.val != "", nil
	case *Map, *Function:
		return true, nil
	case NoneValue:
		return false, nil
	case TupleValue:
		return len(x.elements) > 0, nil
	default:
		return false, Mismatch("as_bool", TagBool, v)
	}
}

// AsInt reads a numeric value as an integer (reals truncate)
func AsInt(v Value) (int64, error) {
	switch x := Resolve(v).(type) {
	case IntValue:
		return x.Val, nil
	case RealValue:
		return int64(x.Val), nil
	case BoolValue:
		if x.Val {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, Mismatch("as_int", TagInt, v)
	}
}

// AsReal reads a numeric value as a real
func AsReal(v Value) (float64, error) {
	switch x := Resolve(v).(type) {
	case RealValue:
		return x.Val, nil
	case IntValue:
		return float64(x.Val), nil
	case BoolValue:
		if x.Val {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, Mismatch("as_real", TagReal, v)
	}
}

// AsString reads the text of a string, unresolved name or operator token
func AsString(v Value) (string, error) {
	switch x := Resolve(v).(type) {
	case StrValue:
		return x.val, nil
	case VarValue:
		return x.name, nil
	case OpValue:
		return x.symbol, nil
	default:
		return "", Mismatch("as_string", TagStr, v)
	}
}

// AsMap returns v as a container
func AsMap(v Value) (*Map, error) {
	if m, ok := Resolve(v).(*Map); ok {
		return m, nil
	}
	return nil, Mismatch("as_map", TagMap, v)
}

// AsList returns v as a list
func AsList(v Value) (*ListValue, error) {
	if l, ok := Resolve(v).(*ListValue); ok {
		return l, nil
	}
	return nil, Mismatch("as_list", TagList, v)
}

// AsTuple returns v as a tuple of either flavour
func AsTuple(v Value) (TupleValue, error) {
	if t, ok := Resolve(v).(TupleValue); ok {
		return t, nil
	}
	return TupleValue{}, Mismatch("as_tuple", TagTuple, v)
}

// AsFunc returns v as a function
func AsFunc(v Value) (*Function, error) {
	if f, ok := Resolve(v).(*Function); ok {
		return f, nil
	}
	return nil, Mismatch("as_func", TagFunc, v)
}

// ParseInt converts user text to an integer. Failure is a recoverable
// conversion error naming the offending text.
func ParseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, NewFailure(E_CONVERT, "int", "%q is too big or too small to fit an integer", s)
		}
		return 0, NewFailure(E_CONVERT, "int", "could not convert %q to integer", s)
	}
	return n, nil
}

// ParseReal converts user text to a real
func ParseReal(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, NewFailure(E_CONVERT, "float", "%q is too big or too small to fit a real", s)
		}
		return 0, NewFailure(E_CONVERT, "float", "could not convert %q to real", s)
	}
	return f, nil
}
