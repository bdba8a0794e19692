package builtins

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"calc/types"
)

// Bundle selects groups of builtins to install. An embedder picks the set
// at construction time to expose a restricted capability surface.
type Bundle uint

const (
	NumberOperators Bundle = 1 << iota
	LogicalOperators
	ContainerOperators
	MathFunctions
	SystemFunctions

	AllBundles = NumberOperators | LogicalOperators | ContainerOperators | MathFunctions | SystemFunctions
)

var bundleNames = []struct {
	bundle Bundle
	name   string
}{
	{NumberOperators, "number"},
	{LogicalOperators, "logical"},
	{ContainerOperators, "container"},
	{MathFunctions, "math"},
	{SystemFunctions, "system"},
}

// String returns the comma separated bundle names
func (b Bundle) String() string {
	var names []string
	for _, bn := range bundleNames {
		if b&bn.bundle != 0 {
			names = append(names, bn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseBundles parses a comma separated list like "number,math".
// "all" selects every bundle, "" and "none" select none.
func ParseBundles(s string) (Bundle, error) {
	var b Bundle
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch part {
		case "", "none":
			continue
		case "all":
			b |= AllBundles
			continue
		}
		found := false
		for _, bn := range bundleNames {
			if bn.name == part {
				b |= bn.bundle
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown bundle %q", part)
		}
	}
	return b, nil
}

// Registry aggregates everything the evaluator needs from the host:
// the global scope, reserved word/character parser hooks, the operator
// table and the per-tag method tables.
type Registry struct {
	mu        sync.Mutex
	global    *types.Map
	parsers   *ParserMap
	ops       *OpTable
	methods   map[types.Tag]*types.Map
	installed Bundle
	out       io.Writer
}

// New creates a registry with the core builtins and the selected bundles
func New(bundles Bundle) *Registry {
	r := &Registry{
		global:  types.NewMap(),
		parsers: NewParserMap(),
		ops:     NewOpTable(),
		methods: make(map[types.Tag]*types.Map),
		out:     os.Stdout,
	}
	InstallCore(r)
	r.Install(bundles)
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry with every bundle installed.
// It is built exactly once, on first use, from any goroutine.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(AllBundles)
	})
	return defaultRegistry
}

// Install adds the selected bundles. Installing a bundle twice, or in any
// order relative to the others, gives the same registry.
func (r *Registry) Install(bundles Bundle) {
	if bundles&NumberOperators != 0 {
		InstallNumberOperators(r)
	}
	if bundles&LogicalOperators != 0 {
		InstallLogicalOperators(r)
	}
	if bundles&ContainerOperators != 0 {
		InstallContainerOperators(r)
	}
	if bundles&MathFunctions != 0 {
		InstallMathFunctions(r)
	}
	if bundles&SystemFunctions != 0 {
		InstallSystemFunctions(r)
	}
}

// Installed reports the bundles installed so far
func (r *Registry) Installed() Bundle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.installed
}

func (r *Registry) mark(b Bundle) {
	r.mu.Lock()
	r.installed |= b
	r.mu.Unlock()
}

// Global returns the global scope holding free functions
func (r *Registry) Global() *types.Map {
	return r.global
}

// Parsers returns the reserved word/character hook table
func (r *Registry) Parsers() *ParserMap {
	return r.parsers
}

// Operators returns the operator table
func (r *Registry) Operators() *OpTable {
	return r.ops
}

// Methods returns the method table for a tag, creating it on first use
func (r *Registry) Methods(tag types.Tag) *types.Map {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.methods[tag]
	if !ok {
		m = types.NewMap()
		r.methods[tag] = m
	}
	return m
}

// Register binds a native function in the global scope
func (r *Registry) Register(name string, params []string, fn types.NativeFunc) {
	r.global.Assign(name, types.NewNative(name, params, fn))
}

// RegisterMethod binds a native function in the method table of tag
func (r *Registry) RegisterMethod(tag types.Tag, name string, params []string, fn types.NativeFunc) {
	r.Methods(tag).Assign(name, types.NewNative(name, params, fn))
}

// Get retrieves a global function by name
func (r *Registry) Get(name string) (*types.Function, bool) {
	v, ok := r.global.Local(name)
	if !ok {
		return nil, false
	}
	fn, ok := v.(*types.Function)
	return fn, ok
}

// Has checks if a global function is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Functions returns the names of all global functions, sorted
func (r *Registry) Functions() []string {
	var names []string
	for _, k := range r.global.Keys() {
		if _, ok := r.Get(k); ok {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// SetOutput sets where diagnostic builtins (print) write
func (r *Registry) SetOutput(w io.Writer) {
	r.mu.Lock()
	r.out = w
	r.mu.Unlock()
}

// Output returns the diagnostic writer
func (r *Registry) Output() io.Writer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out
}

// Member resolves name on a receiver. Maps search their own chain first;
// every value then falls back to the method table of its tag.
func (r *Registry) Member(recv types.Value, name string) (types.Value, bool) {
	recv = types.Resolve(recv)
	if m, ok := recv.(*types.Map); ok {
		if v, ok := m.Lookup(name); ok {
			return v, true
		}
	}
	r.mu.Lock()
	table, ok := r.methods[recv.Type()]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	return table.Lookup(name)
}

// StringOverride implements types.Overrider: a "__str__" callable found on
// the value (maps) or in its tag's method table renders the value. It is
// called with the value as "this" and the remaining depth as its only
// argument.
func (r *Registry) StringOverride(v types.Value, depth int) (string, error) {
	hook, ok := r.Member(v, types.StringifyName)
	if !ok {
		return "", nil
	}
	fn, ok := types.Resolve(hook).(*types.Function)
	if !ok {
		return "", nil
	}
	res := fn.Call(r.global, v, []types.Value{types.NewInt(int64(depth))}, nil)
	if res.IsError() {
		return "", res.Err
	}
	if types.IsNone(res.Val) {
		return "", nil
	}
	return types.AsString(res.Val)
}

// Stringify renders v honouring the override hooks
func (r *Registry) Stringify(v types.Value, depth int) (string, error) {
	return types.Stringify(v, depth, r)
}
