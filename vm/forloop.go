package vm

// ---------------------------------------------------------------------------
// Specialized integer for-loop opcodes
// ---------------------------------------------------------------------------
//
// A numeric for loop owns four consecutive registers starting at A:
//
//	A+0  index     (internal control slot)
//	A+1  limit     (internal control slot)
//	A+2  step      (internal control slot, unused by the step=1 variants)
//	A+3  variable  (externally visible copy, published each iteration)
//
// The step=1 forms are separate opcodes rather than a runtime branch because
// the unit-step loop dominates compiled code. All arithmetic is signed
// fixed-width with native wraparound, and the termination test is a strict
// signed "index > limit".

// opForPrep biases the index down by the step in register A+2, then branches
// by the signed wide operand to the matching loop-step instruction.
func opForPrep(ctx *Context, ins Instruction) Transfer {
	a := ins.A()
	return forPrep(ctx, ins, a, ctx.regs[a+2].Int())
}

// opForPrep1 is the step=1 form of opForPrep.
func opForPrep1(ctx *Context, ins Instruction) Transfer {
	return forPrep(ctx, ins, ins.A(), 1)
}

func forPrep(ctx *Context, ins Instruction, a int, step int64) Transfer {
	idx := ctx.regs[a].Int()
	ctx.regs[a].SetInt(idx - step)
	ctx.pc += ins.SBx()
	return Continue
}

// opForLoop advances the index by the step in register A+2, publishes the
// loop variable, and branches back while the index has not passed the limit.
func opForLoop(ctx *Context, ins Instruction) Transfer {
	a := ins.A()
	return forLoop(ctx, ins, a, ctx.regs[a+2].Int())
}

// opForLoop1 is the step=1 form of opForLoop.
func opForLoop1(ctx *Context, ins Instruction) Transfer {
	return forLoop(ctx, ins, ins.A(), 1)
}

func forLoop(ctx *Context, ins Instruction, a int, step int64) Transfer {
	idx := ctx.regs[a].Int() + step
	// Strict signed "index > limit => stop", evaluated as a wrapping
	// subtraction: an index that overflowed past a limit of MaxInt64 wraps
	// to a positive difference and terminates the loop.
	if idx-ctx.regs[a+1].Int() > 0 {
		// Fall through to the next sequential instruction.
		return Continue
	}
	ctx.regs[a].SetInt(idx)
	// Publish the externally visible loop variable with an integer tag.
	ctx.regs[a+3] = IntSlot(idx)
	ctx.pc += ins.SBx()
	return Continue
}
