package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure raised by the runtime
type ErrorCode int

const (
	E_NONE     ErrorCode = 0
	E_TYPE     ErrorCode = 1  // contract violation: wrong-tag access
	E_CONVERT  ErrorCode = 2  // user-triggered conversion failure
	E_ARGS     ErrorCode = 3  // bad argument binding
	E_VARNF    ErrorCode = 4  // name not found in the scope chain
	E_PROPNF   ErrorCode = 5  // member not found on a value
	E_RANGE    ErrorCode = 6  // index out of range
	E_DIV      ErrorCode = 7  // division by zero
	E_INVARG   ErrorCode = 8  // invalid argument value
	E_CALL     ErrorCode = 9  // value is not callable
	E_MAXTICKS ErrorCode = 10 // evaluation ran out of ticks
)

// String returns the symbolic name of the error code
func (e ErrorCode) String() string {
	switch e {
	case E_NONE:
		return "E_NONE"
	case E_TYPE:
		return "E_TYPE"
	case E_CONVERT:
		return "E_CONVERT"
	case E_ARGS:
		return "E_ARGS"
	case E_VARNF:
		return "E_VARNF"
	case E_PROPNF:
		return "E_PROPNF"
	case E_RANGE:
		return "E_RANGE"
	case E_DIV:
		return "E_DIV"
	case E_INVARG:
		return "E_INVARG"
	case E_CALL:
		return "E_CALL"
	case E_MAXTICKS:
		return "E_MAXTICKS"
	default:
		return "E_UNKNOWN"
	}
}

// Message returns a human-readable message for an error code
func (e ErrorCode) Message() string {
	switch e {
	case E_NONE:
		return "No error"
	case E_TYPE:
		return "Type mismatch"
	case E_CONVERT:
		return "Conversion failed"
	case E_ARGS:
		return "Incorrect arguments"
	case E_VARNF:
		return "Variable not found"
	case E_PROPNF:
		return "Member not found"
	case E_RANGE:
		return "Range error"
	case E_DIV:
		return "Division by zero"
	case E_INVARG:
		return "Invalid argument"
	case E_CALL:
		return "Not callable"
	case E_MAXTICKS:
		return "Tick limit exceeded"
	default:
		return "Unknown error"
	}
}

// ErrorFromString converts a string like "E_TYPE" to an ErrorCode
func ErrorFromString(s string) (ErrorCode, bool) {
	for code := E_NONE; code <= E_MAXTICKS; code++ {
		if code.String() == s {
			return code, true
		}
	}
	return E_NONE, false
}

// Failure is a typed runtime failure. It is returned to the caller, never
// raised as a panic.
type Failure struct {
	Code ErrorCode
	Op   string // operation attempted, e.g. "as_int" or "operator +"
	Msg  string
}

// Error implements the error interface
func (f *Failure) Error() string {
	msg := f.Msg
	if msg == "" {
		msg = f.Code.Message()
	}
	if f.Op != "" {
		return fmt.Sprintf("%s: %s (%s)", f.Op, msg, f.Code)
	}
	return fmt.Sprintf("%s (%s)", msg, f.Code)
}

// Is matches any failure with the same code, so errors.Is(err, ErrTypeMismatch)
// works for every E_TYPE failure
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Code == f.Code
}

// Sentinel failures for errors.Is
var (
	ErrTypeMismatch = &Failure{Code: E_TYPE}
	ErrConversion   = &Failure{Code: E_CONVERT}
	ErrArgs         = &Failure{Code: E_ARGS}
	ErrNotFound     = &Failure{Code: E_VARNF}
	ErrNoMember     = &Failure{Code: E_PROPNF}
	ErrRange        = &Failure{Code: E_RANGE}
	ErrDivByZero    = &Failure{Code: E_DIV}
	ErrInvalidArg   = &Failure{Code: E_INVARG}
	ErrNotCallable  = &Failure{Code: E_CALL}
	ErrTicks        = &Failure{Code: E_MAXTICKS}
)

// NewFailure creates a failure with a formatted message
func NewFailure(code ErrorCode, op, format string, args ...interface{}) *Failure {
	return &Failure{Code: code, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Mismatch reports a wrong-tag access of v by op
func Mismatch(op string, want Tag, v Value) *Failure {
	return &Failure{
		Code: E_TYPE,
		Op:   op,
		Msg:  fmt.Sprintf("expected %s, got %s %s", want.Name(), TypeName(v), Render(v)),
	}
}

// CodeOf extracts the error code from err (E_NONE if err is not a Failure)
func CodeOf(err error) ErrorCode {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code
	}
	return E_NONE
}

// ErrValue is the Error control sentinel: an ordinary value carrying a
// failure cause without aborting evaluation
type ErrValue struct {
	cause string
}

// NewError creates an Error sentinel carrying cause
func NewError(cause string) ErrValue {
	return ErrValue{cause: cause}
}

// Capture turns a failure into an Error sentinel value
func Capture(err error) ErrValue {
	if err == nil {
		return ErrValue{}
	}
	return ErrValue{cause: err.Error()}
}

func (e ErrValue) isValue() {}

// Type returns the value tag
func (e ErrValue) Type() Tag {
	return TagError
}

// String returns the default rendering
func (e ErrValue) String() string {
	if e.cause == "" {
		return "error: unknown"
	}
	return "error: " + e.cause
}

// Clone returns the value itself (sentinels are immutable)
func (e ErrValue) Clone() Value {
	return e
}

// Cause returns the carried failure cause
func (e ErrValue) Cause() string {
	return e.cause
}
