package vm

// ---------------------------------------------------------------------------
// Call/Return protocol
// ---------------------------------------------------------------------------

// opReturn implements the return-family instruction. A is the first result
// register; B encodes the result count (0 meaning "all values up to the
// current stack top", otherwise exactly B-1 values).
//
// The steps are ordered deliberately: close-upvalues runs before results are
// read (closing may observe values at or above the boundary), the pc is saved
// before post-call (which may call back into code that inspects this frame),
// and the freshness bit is read before post-call (which repurposes the
// frame). Failures inside the frame-manager operations unwind past this
// handler; there is no local recovery path.
func opReturn(ctx *Context, ins Instruction) Transfer {
	a, b := ins.A(), ins.B()
	f := ctx.frame
	first := f.Base + a

	// 1. Close captured variables above the first result register.
	if f.Proto.Captured > 0 {
		ctx.fm.CloseUpvalues(f, first)
		ctx.refreshRegs()
	}

	// 2. Persist the resumption pc into the frame.
	f.SavedPC = ctx.pc

	// 3. Compute the result count.
	var nresults int
	if b != 0 {
		nresults = b - 1
	} else {
		nresults = ctx.fm.Top() - first
	}

	// 4. Read the freshness bit, then hand the frame to post-call.
	fresh := f.Fresh
	st := ctx.fm.PostCall(f, first, nresults)

	// 5. A frame entered from native code unwinds to interpreter exit.
	if fresh {
		return ReturnToNative(nresults)
	}

	// 6. Resume the newly exposed caller frame.
	caller := ctx.fm.Current()
	if st&StatusResyncTop != 0 {
		ctx.fm.SetTop(caller.SavedTop)
	}
	ctx.loadFrame()
	return ResumeFrame
}
