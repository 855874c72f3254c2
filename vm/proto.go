package vm

// ---------------------------------------------------------------------------
// Proto: Compiled function prototype
// ---------------------------------------------------------------------------

// Proto is a compiled function prototype: the instruction array, constant
// pool, and the frame-shape metadata the execution core reads. Prototypes are
// produced by an external compiler and are read-only during execution.
type Proto struct {
	// Identity
	Name string // function name (for diagnostics)

	// Compiled code
	Code   []Instruction // the instruction words
	Consts []Slot        // constant pool

	// Frame shape
	NumParams int // declared parameters
	MaxStack  int // register slots the function may touch

	// Captured is the count of variables requiring closing over. A return
	// from a prototype with Captured == 0 never invokes close-upvalues.
	Captured int
}

// ---------------------------------------------------------------------------
// ProtoBuilder: Helper for constructing prototypes
// ---------------------------------------------------------------------------

// ProtoBuilder helps construct prototypes in tests and embedders.
type ProtoBuilder struct {
	proto *Proto
}

// NewProtoBuilder creates a builder for a prototype with the given name and
// register count.
func NewProtoBuilder(name string, maxStack int) *ProtoBuilder {
	return &ProtoBuilder{
		proto: &Proto{
			Name:     name,
			Code:     make([]Instruction, 0, 16),
			Consts:   make([]Slot, 0, 8),
			MaxStack: maxStack,
		},
	}
}

// Len returns the number of instructions emitted so far.
func (b *ProtoBuilder) Len() int {
	return len(b.proto.Code)
}

// Emit appends a raw instruction word.
func (b *ProtoBuilder) Emit(ins Instruction) {
	b.proto.Code = append(b.proto.Code, ins)
}

// EmitABC appends an instruction in the three-operand layout.
func (b *ProtoBuilder) EmitABC(op Opcode, a, bb, c int) {
	b.Emit(EncodeABC(op, a, bb, c))
}

// EmitABx appends an instruction in the wide-operand layout.
func (b *ProtoBuilder) EmitABx(op Opcode, a, bx int) {
	b.Emit(EncodeABx(op, a, bx))
}

// EmitAsBx appends an instruction carrying a signed wide operand.
func (b *ProtoBuilder) EmitAsBx(op Opcode, a, sbx int) {
	b.Emit(EncodeAsBx(op, a, sbx))
}

// AddConst adds a constant to the pool and returns its index.
func (b *ProtoBuilder) AddConst(s Slot) int {
	b.proto.Consts = append(b.proto.Consts, s)
	return len(b.proto.Consts) - 1
}

// SetCaptured records the captured-variable count.
func (b *ProtoBuilder) SetCaptured(n int) {
	b.proto.Captured = n
}

// SetNumParams records the declared parameter count.
func (b *ProtoBuilder) SetNumParams(n int) {
	b.proto.NumParams = n
}

// Build returns the finished prototype.
func (b *ProtoBuilder) Build() *Proto {
	return b.proto
}
