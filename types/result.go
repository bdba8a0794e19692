package types

import "errors"

// Result is the outcome of a native routine or operator handler: either a
// value, or a failure. Control sentinels (None, Reject, Error) travel in
// Val like any other value.
type Result struct {
	Val Value
	Err *Failure
}

// Ok creates a Result for normal execution with a value
func Ok(v Value) Result {
	if v == nil {
		v = None
	}
	return Result{Val: v}
}

// Err creates a failing Result with the default message of code
func Err(code ErrorCode) Result {
	return Result{Err: &Failure{Code: code}}
}

// Errf creates a failing Result with a formatted message
func Errf(code ErrorCode, op, format string, args ...interface{}) Result {
	return Result{Err: NewFailure(code, op, format, args...)}
}

// Fail wraps an arbitrary error. Failures keep their code; any other error
// becomes E_INVARG.
func Fail(err error) Result {
	var f *Failure
	if errors.As(err, &f) {
		return Result{Err: f}
	}
	return Result{Err: &Failure{Code: E_INVARG, Msg: err.Error()}}
}

// IsNormal returns true if the Result carries a value
func (r Result) IsNormal() bool {
	return r.Err == nil
}

// IsError returns true if the Result carries a failure
func (r Result) IsError() bool {
	return r.Err != nil
}

// Unpack converts the Result to Go's (value, error) convention
func (r Result) Unpack() (Value, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Val, nil
}
