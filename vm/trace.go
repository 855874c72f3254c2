package vm

import "sync/atomic"

// ---------------------------------------------------------------------------
// Tracer: Per-opcode dispatch counters
// ---------------------------------------------------------------------------

// Tracer counts executed instructions per opcode. Counters are atomic so a
// host may read a report while an execution is in flight.
type Tracer struct {
	counts [1 << SizeOp]uint64
}

// NewTracer creates an empty tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

// count records one execution of op.
func (t *Tracer) count(op Opcode) {
	atomic.AddUint64(&t.counts[op], 1)
}

// Count returns the number of executions recorded for op.
func (t *Tracer) Count(op Opcode) uint64 {
	return atomic.LoadUint64(&t.counts[op])
}

// Total returns the number of instructions dispatched overall.
func (t *Tracer) Total() uint64 {
	var total uint64
	for op := range t.counts {
		total += atomic.LoadUint64(&t.counts[op])
	}
	return total
}

// Report returns a snapshot of the non-zero counters keyed by opcode name.
func (t *Tracer) Report() map[string]uint64 {
	report := make(map[string]uint64)
	for op := range t.counts {
		if n := atomic.LoadUint64(&t.counts[op]); n > 0 {
			report[Opcode(op).Name()] = n
		}
	}
	return report
}

// Reset zeroes all counters.
func (t *Tracer) Reset() {
	for op := range t.counts {
		atomic.StoreUint64(&t.counts[op], 0)
	}
}
