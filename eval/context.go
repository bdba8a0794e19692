package eval

// DefaultTicks bounds the instructions one evaluation may execute
const DefaultTicks = 100000

// Context holds the per-evaluation execution state shared by nested
// function calls
type Context struct {
	TicksRemaining int64 // Runaway protection
	Depth          int   // Stringify depth budget
	CallDepth      int   // Current function nesting
}

// NewContext creates a context with the given tick budget
func NewContext(ticks int64, depth int) *Context {
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	return &Context{TicksRemaining: ticks, Depth: depth}
}

// ConsumeTick decrements the tick count and returns true if ticks remain
func (ctx *Context) ConsumeTick() bool {
	if ctx.TicksRemaining <= 0 {
		return false
	}
	ctx.TicksRemaining--
	return true
}
