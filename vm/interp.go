package vm

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("quill.vm")

// ---------------------------------------------------------------------------
// Config: Tuning parameters
// ---------------------------------------------------------------------------

// Initial and limit sizes for the value stack and call chain.
const (
	DefaultInitialStackSize = 2048
	DefaultMaxStackSize     = 1024 * 1024
	DefaultMaxCallDepth     = 4096
)

// Config carries the runtime tuning parameters. The zero value means "use
// defaults".
type Config struct {
	InitialStackSize int  // value-stack slots allocated up front
	MaxStackSize     int  // value-stack growth limit
	MaxCallDepth     int  // call-chain depth limit
	Trace            bool // enable per-opcode dispatch counters
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.InitialStackSize <= 0 {
		c.InitialStackSize = DefaultInitialStackSize
	}
	if c.MaxStackSize <= 0 {
		c.MaxStackSize = DefaultMaxStackSize
	}
	if c.MaxCallDepth <= 0 {
		c.MaxCallDepth = DefaultMaxCallDepth
	}
	return c
}

// ---------------------------------------------------------------------------
// Interp: Interpreter entry/exit
// ---------------------------------------------------------------------------

// Interp owns a dispatch table and tuning configuration. The table is built
// once at construction and read-only afterward, so one Interp may serve any
// number of sequential executions, or concurrent executions over independent
// frame managers.
type Interp struct {
	table  *dispatchTable
	cfg    Config
	tracer *Tracer
}

// NewInterp builds an interpreter. Construction panics if any opcode value
// lacks a handler.
func NewInterp(cfg Config) *Interp {
	in := &Interp{
		table: newDispatchTable(),
		cfg:   cfg.withDefaults(),
	}
	if in.cfg.Trace {
		in.tracer = NewTracer()
	}
	return in
}

// Config returns the effective tuning configuration.
func (in *Interp) Config() Config {
	return in.cfg
}

// Tracer returns the dispatch tracer, or nil when tracing is disabled.
func (in *Interp) Tracer() *Tracer {
	return in.tracer
}

// Run interprets starting from the frame manager's current frame, beginning
// at that frame's saved program counter, and returns the result count
// computed by the outermost return. The frame must already be established by
// the frame manager with valid function, base and saved pc.
//
// Failures raised inside frame-manager operations unwind through Run; the
// dispatch cycle has no recovery path of its own.
func (in *Interp) Run(fm FrameManager) int {
	ctx := &Context{fm: fm, table: in.table}
	ctx.loadFrame()
	log.Debugf("entering dispatch: %s pc=%d base=%d", ctx.frame.Proto.Name, ctx.pc, ctx.frame.Base)

	tracer := in.tracer
	for {
		ins := ctx.fetch()
		op := ins.Op()
		if tracer != nil {
			tracer.count(op)
		}
		t := in.table[op](ctx, ins)
		switch t.kind {
		case transferContinue, transferResume:
			// Next fetch-decode-dispatch step.
		case transferReturn:
			log.Debugf("exiting dispatch: %d result(s)", t.results)
			return t.results
		}
	}
}
