package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		code  ErrorCode
		value int
		name  string
	}{
		{E_NONE, 0, "E_NONE"},
		{E_TYPE, 1, "E_TYPE"},
		{E_CONVERT, 2, "E_CONVERT"},
		{E_ARGS, 3, "E_ARGS"},
		{E_VARNF, 4, "E_VARNF"},
		{E_PROPNF, 5, "E_PROPNF"},
		{E_RANGE, 6, "E_RANGE"},
		{E_DIV, 7, "E_DIV"},
		{E_INVARG, 8, "E_INVARG"},
		{E_CALL, 9, "E_CALL"},
		{E_MAXTICKS, 10, "E_MAXTICKS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if int(tt.code) != tt.value {
				t.Errorf("%s: expected value %d, got %d", tt.name, tt.value, int(tt.code))
			}
			if tt.code.String() != tt.name {
				t.Errorf("%s: String() returned %q", tt.name, tt.code.String())
			}
			if code, ok := ErrorFromString(tt.name); !ok || code != tt.code {
				t.Errorf("ErrorFromString(%q) = %v, %v", tt.name, code, ok)
			}
		})
	}

	if _, ok := ErrorFromString("E_BOGUS"); ok {
		t.Error("unknown code parsed")
	}
}

func TestFailureMatching(t *testing.T) {
	f := Mismatch("as_int", TagInt, NewStr("abc"))
	wrapped := fmt.Errorf("evaluating: %w", f)

	if !errors.Is(wrapped, ErrTypeMismatch) {
		t.Error("wrapped failure lost its code")
	}
	if errors.Is(wrapped, ErrRange) {
		t.Error("matched the wrong code")
	}
	if CodeOf(wrapped) != E_TYPE {
		t.Errorf("CodeOf = %s", CodeOf(wrapped))
	}
	if CodeOf(errors.New("plain")) != E_NONE {
		t.Error("plain errors carry no code")
	}

	msg := f.Error()
	if !containsAll(msg, "as_int", "integer", `"abc"`, "E_TYPE") {
		t.Errorf("message lacks context: %s", msg)
	}
}

func TestResult(t *testing.T) {
	if r := Ok(nil); !r.IsNormal() || !IsNone(r.Val) {
		t.Error("Ok(nil) should carry None")
	}
	v, err := Errf(E_RANGE, "pop", "index %d", 4).Unpack()
	if v != nil || !errors.Is(err, ErrRange) {
		t.Errorf("Unpack = %v, %v", v, err)
	}
	if _, err := Ok(NewInt(1)).Unpack(); err != nil {
		t.Errorf("normal Unpack returned %v", err)
	}
	if r := Fail(errors.New("io")); r.Err.Code != E_INVARG {
		t.Errorf("foreign error code = %s", r.Err.Code)
	}
	if r := Fail(fmt.Errorf("x: %w", ErrDivByZero)); r.Err.Code != E_DIV {
		t.Errorf("wrapped failure code = %s", r.Err.Code)
	}
}
