package vm

// ---------------------------------------------------------------------------
// Context: Execution state for one call chain
// ---------------------------------------------------------------------------

// Context is the mutable register state the dispatch cycle operates on. One
// Context exists per Run invocation and is never shared between executions.
//
// Invariant: pc, regs, consts and frame are always mutually consistent with
// the function currently being interpreted. regs is a window into the frame
// manager's value stack and is invalidated by any frame-manager call that can
// grow the stack; handlers that cross that boundary refresh it before reuse.
type Context struct {
	fm FrameManager

	frame  *Frame
	pc     int    // index of the next instruction to fetch
	regs   []Slot // register window: stack[frame.Base:]
	consts []Slot // current function's constant pool

	table *dispatchTable // stable for the whole execution
}

// loadFrame reloads the register window, constants and program counter from
// the frame manager's current frame. It is the single resumption routine
// shared by interpreter entry and by the return protocol's new-frame path.
func (ctx *Context) loadFrame() {
	f := ctx.fm.Current()
	ctx.frame = f
	ctx.pc = f.SavedPC
	ctx.consts = f.Proto.Consts
	ctx.refreshRegs()
}

// refreshRegs re-derives the register window from the frame manager's stack.
// Must be called after any frame-manager operation, since the stack may have
// been relocated.
func (ctx *Context) refreshRegs() {
	ctx.regs = ctx.fm.Stack()[ctx.frame.Base:]
}

// fetch reads the instruction at pc and advances pc by one word.
func (ctx *Context) fetch() Instruction {
	ins := ctx.frame.Proto.Code[ctx.pc]
	ctx.pc++
	return ins
}
