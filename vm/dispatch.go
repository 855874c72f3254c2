package vm

import "fmt"

// ---------------------------------------------------------------------------
// Transfer: Handler control-transfer result
// ---------------------------------------------------------------------------

type transferKind uint8

const (
	transferContinue transferKind = iota
	transferResume
	transferReturn
)

// Transfer is the tagged control-transfer variant a handler returns: keep
// dispatching in the current frame, resume dispatching in a freshly exposed
// frame, or unwind to interpreter exit with a result count.
type Transfer struct {
	kind    transferKind
	results int
}

// Continue keeps the fetch-decode-dispatch cycle running in the current
// frame.
var Continue = Transfer{kind: transferContinue}

// ResumeFrame re-enters the cycle after a frame transition; the handler has
// already reloaded the context from the new current frame.
var ResumeFrame = Transfer{kind: transferResume}

// ReturnToNative unwinds to interpreter exit, propagating the result count
// to the native caller.
func ReturnToNative(results int) Transfer {
	return Transfer{kind: transferReturn, results: results}
}

// Handler executes one opcode against the context. Handlers trust their
// operands; malformed instructions are a compiler/loader invariant, not a
// runtime error.
type Handler func(*Context, Instruction) Transfer

// ---------------------------------------------------------------------------
// Dispatch table
// ---------------------------------------------------------------------------

// dispatchTable maps every decodable opcode value to its handler. Built once,
// verified gap-free, and read-only thereafter, so it is safely shareable
// between independent executions.
type dispatchTable [1 << SizeOp]Handler

// newDispatchTable builds the table. Every value the opcode field can decode
// must resolve to a valid handler; construction panics on a gap. Opcode
// values with no defined operation take the generic fetch-decode-dispatch
// step.
func newDispatchTable() *dispatchTable {
	var t dispatchTable
	for op := range t {
		t[op] = opNop
	}
	t[OpNop] = opNop
	t[OpMove] = opMove
	t[OpLoadK] = opLoadK
	t[OpReturn] = opReturn
	t[OpForPrep] = opForPrep
	t[OpForLoop] = opForLoop
	t[OpForPrep1] = opForPrep1
	t[OpForLoop1] = opForLoop1
	for op, h := range t {
		if h == nil {
			panic(fmt.Sprintf("vm: no handler for opcode %s", Opcode(op)))
		}
	}
	return &t
}

// ---------------------------------------------------------------------------
// Simple opcodes
// ---------------------------------------------------------------------------

// opNop performs nothing but the generic fetch-decode-dispatch step.
func opNop(ctx *Context, ins Instruction) Transfer {
	return Continue
}

// opMove copies register B into register A. The whole slot, payload and
// type tag together, moves as one assignment, so no partial-slot state is ever
// visible to later reads.
func opMove(ctx *Context, ins Instruction) Transfer {
	ctx.regs[ins.A()] = ctx.regs[ins.B()]
	return Continue
}

// opLoadK copies constant Bx into register A.
func opLoadK(ctx *Context, ins Instruction) Transfer {
	ctx.regs[ins.A()] = ctx.consts[ins.Bx()]
	return Continue
}
