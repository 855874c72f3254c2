package vm

import "fmt"

// ---------------------------------------------------------------------------
// Frame: One function activation
// ---------------------------------------------------------------------------

// MultRet marks a call site that accepts however many results the callee
// produces.
const MultRet = -1

// Frame is the frame manager's record of one function activation. Frames are
// created and destroyed by the frame manager; the execution core only reads
// the fields, writes SavedPC, and reassigns "current frame" on return.
type Frame struct {
	Proto *Proto // the function being executed

	Base     int // stack index of register 0
	SavedPC  int // resumption program counter
	SavedTop int // this frame's stack-top limit (Base + Proto.MaxStack)
	Want     int // results the call site expects; MultRet for "all"

	// Fresh marks a frame entered directly from native code rather than
	// from another interpreted call. It governs return-time control
	// transfer, and must be read before post-call repurposes the frame.
	Fresh bool

	prev *Frame
}

// Caller returns the frame that invoked this one, or nil for the outermost
// frame of a call chain.
func (f *Frame) Caller() *Frame {
	return f.prev
}

// ---------------------------------------------------------------------------
// FrameManager: External-runtime boundary
// ---------------------------------------------------------------------------

// Status is the bitmask returned by post-call, describing how resumption
// should proceed.
type Status uint8

const (
	// StatusReturnedToNative: the popped frame was entered from native code.
	StatusReturnedToNative Status = 1 << iota
	// StatusReturnedToInterp: the popped frame was called by another
	// interpreted frame, now exposed as current.
	StatusReturnedToInterp
	// StatusResyncTop: the caller expects a fixed result count and its
	// stack top must be restored from its saved top.
	StatusResyncTop
)

// FrameManager is the external runtime the execution core coordinates with.
// Its operations are synchronous; any of them may relocate the value stack,
// so the core treats every cached stack address as stale after a call. They
// may also fail by panicking with a runtime-owned error, which unwinds past
// the dispatch cycle entirely; the core installs no recover.
type FrameManager interface {
	// Current returns the currently executing frame.
	Current() *Frame

	// Stack returns the value stack. The returned slice is invalidated by
	// any operation that can grow the stack.
	Stack() []Slot

	// Top returns the index one past the last live stack slot.
	Top() int

	// SetTop restores the stack top, e.g. after a fixed-result return.
	SetTop(n int)

	// CloseUpvalues finalizes captured variables at or above boundary
	// (an absolute stack index) before the returning frame's results are
	// read.
	CloseUpvalues(f *Frame, boundary int)

	// PostCall relocates nresults values starting at firstResult (an
	// absolute stack index) into the caller's result window, pops f, and
	// reports how resumption should proceed.
	PostCall(f *Frame, firstResult, nresults int) Status
}

// ---------------------------------------------------------------------------
// Upvalue: Captured variable cell
// ---------------------------------------------------------------------------

// Upvalue is a captured-variable cell. While open it aliases a stack slot;
// once closed it owns its value.
type Upvalue struct {
	rt    *Runtime
	index int // absolute stack index while open; -1 once closed
	value Slot
}

// Get returns the upvalue's current value.
func (uv *Upvalue) Get() Slot {
	if uv.index >= 0 {
		return uv.rt.stack[uv.index]
	}
	return uv.value
}

// Set stores a value through the upvalue.
func (uv *Upvalue) Set(s Slot) {
	if uv.index >= 0 {
		uv.rt.stack[uv.index] = s
		return
	}
	uv.value = s
}

// IsClosed returns true once the upvalue owns its value.
func (uv *Upvalue) IsClosed() bool {
	return uv.index < 0
}

// ---------------------------------------------------------------------------
// Runtime: Default frame manager
// ---------------------------------------------------------------------------

// Runtime is the reference frame manager: a contiguous value stack, the
// call-frame chain, and the open-upvalue list. Embedders with their own
// object model substitute their own FrameManager; tests run against this one.
type Runtime struct {
	cfg Config

	stack []Slot
	top   int

	current *Frame
	depth   int
	free    *Frame // freelist of popped frames, reused by the next push

	open []*Upvalue // open upvalues, ascending by stack index

	// CloseHook, when set, observes each stack value being closed over
	// during CloseUpvalues. A hook signalling a user-level error panics,
	// unwinding through the dispatch cycle the way any external-runtime
	// failure does.
	CloseHook func(Slot)
}

// NewRuntime creates a frame manager with the given tuning configuration.
func NewRuntime(cfg Config) *Runtime {
	cfg = cfg.withDefaults()
	return &Runtime{
		cfg:   cfg,
		stack: make([]Slot, cfg.InitialStackSize),
	}
}

// Current returns the currently executing frame.
func (rt *Runtime) Current() *Frame {
	return rt.current
}

// Stack returns the value stack.
func (rt *Runtime) Stack() []Slot {
	return rt.stack
}

// Top returns the index one past the last live stack slot.
func (rt *Runtime) Top() int {
	return rt.top
}

// SetTop restores the stack top.
func (rt *Runtime) SetTop(n int) {
	rt.top = n
}

// ensureStack grows the value stack so that indexes below n are valid.
// Growth relocates the backing array, invalidating every previously returned
// stack slice.
func (rt *Runtime) ensureStack(n int) {
	if n <= len(rt.stack) {
		return
	}
	size := len(rt.stack) * 2
	for size < n {
		size *= 2
	}
	if size > rt.cfg.MaxStackSize {
		size = rt.cfg.MaxStackSize
	}
	if size < n {
		panic(fmt.Sprintf("vm: value stack overflow (need %d slots, limit %d)", n, rt.cfg.MaxStackSize))
	}
	grown := make([]Slot, size)
	copy(grown, rt.stack)
	rt.stack = grown
}

// allocFrame takes a frame from the freelist or allocates one. Reuse is why
// the return protocol must read the freshness bit before post-call.
func (rt *Runtime) allocFrame() *Frame {
	if f := rt.free; f != nil {
		rt.free = f.prev
		*f = Frame{}
		return f
	}
	return &Frame{}
}

// releaseFrame resets a popped frame and returns it to the freelist.
func (rt *Runtime) releaseFrame(f *Frame) {
	*f = Frame{prev: rt.free}
	rt.free = f
}

// pushFrame establishes a frame for p whose register 0 lives at base.
func (rt *Runtime) pushFrame(p *Proto, base, want int, fresh bool) *Frame {
	rt.depth++
	if rt.depth > rt.cfg.MaxCallDepth {
		panic(fmt.Sprintf("vm: call depth exceeds %d", rt.cfg.MaxCallDepth))
	}
	rt.ensureStack(base + p.MaxStack)
	f := rt.allocFrame()
	f.Proto = p
	f.Base = base
	f.SavedPC = 0
	f.SavedTop = base + p.MaxStack
	f.Want = want
	f.Fresh = fresh
	f.prev = rt.current
	rt.current = f
	rt.top = f.SavedTop
	return f
}

// PushNative establishes a fresh frame for a call arriving from native code.
// The prototype itself occupies the slot below register 0, which is also
// where the frame's results land on return.
func (rt *Runtime) PushNative(p *Proto) *Frame {
	fn := rt.top
	rt.ensureStack(fn + 1)
	rt.stack[fn] = ObjectSlot(p)
	return rt.pushFrame(p, fn+1, MultRet, true)
}

// PushCall establishes a non-fresh frame for an interpreted call whose
// function value sits in the caller's register a. want is the result count
// the call site expects (MultRet for "all"). The caller's resumption pc must
// already be saved.
func (rt *Runtime) PushCall(p *Proto, a, want int) *Frame {
	caller := rt.current
	if caller == nil {
		panic("Runtime.PushCall: no caller frame")
	}
	return rt.pushFrame(p, caller.Base+a+1, want, false)
}

// CloseUpvalues closes every open upvalue at or above boundary. The close
// hook observes the stack value first, so a finalization error unwinds
// before the cell is detached.
func (rt *Runtime) CloseUpvalues(f *Frame, boundary int) {
	n := len(rt.open)
	for n > 0 {
		uv := rt.open[n-1]
		if uv.index < boundary {
			break
		}
		if rt.CloseHook != nil {
			rt.CloseHook(rt.stack[uv.index])
		}
		uv.value = rt.stack[uv.index]
		uv.index = -1
		n--
	}
	rt.open = rt.open[:n]
}

// FindUpvalue returns the open upvalue aliasing the given absolute stack
// index, creating one if needed.
func (rt *Runtime) FindUpvalue(index int) *Upvalue {
	// The list is short in practice; scan from the top (highest index).
	pos := len(rt.open)
	for pos > 0 {
		uv := rt.open[pos-1]
		if uv.index == index {
			return uv
		}
		if uv.index < index {
			break
		}
		pos--
	}
	uv := &Upvalue{rt: rt, index: index}
	rt.open = append(rt.open, nil)
	copy(rt.open[pos+1:], rt.open[pos:])
	rt.open[pos] = uv
	return uv
}

// OpenUpvalues returns the number of currently open upvalues.
func (rt *Runtime) OpenUpvalues() int {
	return len(rt.open)
}

// PostCall relocates the returning frame's results into the caller's result
// window (the function slot below register 0), pops the frame, and reports
// the resumption status. When the call site expected a fixed result count the
// window is padded with nils and the resync-top bit is set.
func (rt *Runtime) PostCall(f *Frame, firstResult, nresults int) Status {
	dst := f.Base - 1
	copy(rt.stack[dst:dst+nresults], rt.stack[firstResult:firstResult+nresults])

	st := StatusReturnedToInterp
	if f.Fresh {
		st = StatusReturnedToNative
	}
	if f.Want != MultRet {
		for i := nresults; i < f.Want; i++ {
			rt.stack[dst+i] = NilSlot()
		}
		st |= StatusResyncTop
	}
	rt.top = dst + nresults

	rt.current = f.prev
	rt.depth--
	rt.releaseFrame(f)
	return st
}

// Results returns the n values produced by the last return to native code.
func (rt *Runtime) Results(n int) []Slot {
	return rt.stack[rt.top-n : rt.top]
}
