package vm

// ---------------------------------------------------------------------------
// Baseline loop model: Alternate reference implementation
// ---------------------------------------------------------------------------
//
// A scalar model of the numeric for-loop opcodes, independent of registers,
// instruction decoding and dispatch. Tests cross-validate the handler
// implementations against this model over sweeps of initial/limit/step
// values.

// LoopState models the three internal control slots of a numeric for loop.
type LoopState struct {
	Idx   int64 // loop index
	Limit int64 // inclusive limit
	Step  int64 // signed step
}

// PrepLoop models loop-prepare: the index is biased down by the step so that
// the first loop-step lands on the initial value.
func PrepLoop(s LoopState) LoopState {
	s.Idx -= s.Step
	return s
}

// StepLoop models loop-step: the index advances by the step with native
// wraparound, and the loop branches back while the wrapped difference
// idx-limit is not positive. The bool result is true when the loop branches
// (the new index is published), false when it falls through.
func StepLoop(s LoopState) (LoopState, bool) {
	s.Idx += s.Step
	if s.Idx-s.Limit > 0 {
		return s, false
	}
	return s, true
}

// RunLoop returns the published index sequence for a loop starting from the
// given initial/limit/step, capped at maxIter published values. The cap
// guards sweeps that include non-terminating step values.
func RunLoop(initial, limit, step int64, maxIter int) []int64 {
	s := PrepLoop(LoopState{Idx: initial, Limit: limit, Step: step})
	var seq []int64
	for len(seq) < maxIter {
		next, branched := StepLoop(s)
		if !branched {
			break
		}
		s = next
		seq = append(seq, s.Idx)
	}
	return seq
}
