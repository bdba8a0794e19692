package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"calc/types"
)

// Tracer logs function calls made by the evaluator
type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

// Global tracer instance
var globalTracer *Tracer

// New creates a tracer writing to writer (stderr when nil). Filters are
// glob patterns matched against function names.
func New(enabled bool, filters []string, writer io.Writer) *Tracer {
	if writer == nil {
		writer = os.Stderr
	}
	return &Tracer{
		enabled: enabled,
		filters: filters,
		writer:  writer,
	}
}

// Init initializes the global tracer
func Init(enabled bool, filters []string, writer io.Writer) {
	globalTracer = New(enabled, filters, writer)
}

// Global returns the global tracer, or nil if Init was never called
func Global() *Tracer {
	return globalTracer
}

// IsEnabled returns whether global tracing is enabled
func IsEnabled() bool {
	return globalTracer.Enabled()
}

// Enabled reports whether t logs anything
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// matchesFilter checks if a function name matches any of the filter patterns
func (t *Tracer) matchesFilter(name string) bool {
	if len(t.filters) == 0 {
		return true
	}
	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func displayName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}

// Call logs a function call
func (t *Tracer) Call(name string, this types.Value, args []types.Value) {
	if !t.Enabled() || !t.matchesFilter(name) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	argStrs := make([]string, len(args))
	for i, arg := range args {
		argStrs[i] = types.Render(arg)
	}

	if this != nil {
		fmt.Fprintf(t.writer, "[TRACE] CALL %s args=[%s] this=%s\n",
			displayName(name), strings.Join(argStrs, ", "), types.RenderDepth(this, 1))
	} else {
		fmt.Fprintf(t.writer, "[TRACE] CALL %s args=[%s]\n", displayName(name), strings.Join(argStrs, ", "))
	}
}

// Return logs a function's return value
func (t *Tracer) Return(name string, result types.Value) {
	if !t.Enabled() || !t.matchesFilter(name) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] RETURN %s => %s\n", displayName(name), types.Render(result))
}

// Failure logs a call that failed
func (t *Tracer) Failure(name string, err error) {
	if !t.Enabled() || !t.matchesFilter(name) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] FAIL %s %s: %v\n", displayName(name), types.CodeOf(err), err)
}

// Global convenience functions

// Call logs a function call using the global tracer
func Call(name string, this types.Value, args []types.Value) {
	globalTracer.Call(name, this, args)
}

// Return logs a function return using the global tracer
func Return(name string, result types.Value) {
	globalTracer.Return(name, result)
}

// Failure logs a failed call using the global tracer
func Failure(name string, err error) {
	globalTracer.Failure(name, err)
}
