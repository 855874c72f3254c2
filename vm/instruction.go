package vm

// ---------------------------------------------------------------------------
// Instruction: Packed 32-bit instruction word
// ---------------------------------------------------------------------------

// Instruction is one packed 32-bit instruction word produced by an external
// compiler. Three packings share the word:
//
//	ABC:  | B:9 | C:9 | A:8 | op:6 |
//	ABx:  |   Bx:18   | A:8 | op:6 |
//	Ax:   |      Ax:26      | op:6 |
//
// The opcode always occupies the low 6 bits, so opcode extraction never
// depends on the operand layout. The packing used for a given word is a
// per-opcode convention known to the handler, not a tag in the word itself.
// Operands are never validated at runtime; well-formedness is a compiler and
// loader invariant.
type Instruction uint32

// Field sizes and positions.
const (
	SizeOp = 6
	SizeA  = 8
	SizeC  = 9
	SizeB  = 9
	SizeBx = SizeB + SizeC
	SizeAx = SizeA + SizeB + SizeC

	posOp = 0
	posA  = posOp + SizeOp
	posC  = posA + SizeA
	posB  = posC + SizeC
	posBx = posC
	posAx = posA
)

// Operand limits.
const (
	MaxA  = 1<<SizeA - 1
	MaxB  = 1<<SizeB - 1
	MaxC  = 1<<SizeC - 1
	MaxBx = 1<<SizeBx - 1
	MaxAx = 1<<SizeAx - 1

	// MaxSBx is the bias for the signed wide operand: sBx is stored as
	// Bx - MaxSBx, giving a symmetric signed range.
	MaxSBx = MaxBx >> 1
)

// Op extracts the opcode. Valid for every packing.
func (i Instruction) Op() Opcode {
	return Opcode(i >> posOp & (1<<SizeOp - 1))
}

// A extracts the first operand. Valid for the ABC and ABx packings.
func (i Instruction) A() int {
	return int(i >> posA & (1<<SizeA - 1))
}

// B extracts the second small operand of the ABC packing.
func (i Instruction) B() int {
	return int(i >> posB & (1<<SizeB - 1))
}

// C extracts the third small operand of the ABC packing.
func (i Instruction) C() int {
	return int(i >> posC & (1<<SizeC - 1))
}

// Bx extracts the unsigned wide operand of the ABx packing.
func (i Instruction) Bx() int {
	return int(i >> posBx & (1<<SizeBx - 1))
}

// SBx extracts the signed wide operand of the ABx packing.
func (i Instruction) SBx() int {
	return i.Bx() - MaxSBx
}

// Ax extracts the single wide operand of the Ax packing.
func (i Instruction) Ax() int {
	return int(i >> posAx & (1<<SizeAx - 1))
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

// EncodeABC packs an instruction in the three-operand layout.
// Panics if an operand exceeds its field width.
func EncodeABC(op Opcode, a, b, c int) Instruction {
	if uint(a) > MaxA || uint(b) > MaxB || uint(c) > MaxC {
		panic("EncodeABC: operand out of range")
	}
	return Instruction(op)<<posOp |
		Instruction(a)<<posA |
		Instruction(c)<<posC |
		Instruction(b)<<posB
}

// EncodeABx packs an instruction in the operand-plus-wide-operand layout.
// Panics if an operand exceeds its field width.
func EncodeABx(op Opcode, a, bx int) Instruction {
	if uint(a) > MaxA || uint(bx) > MaxBx {
		panic("EncodeABx: operand out of range")
	}
	return Instruction(op)<<posOp |
		Instruction(a)<<posA |
		Instruction(bx)<<posBx
}

// EncodeAsBx packs an instruction carrying a signed wide operand.
// Panics if the operand exceeds the signed range.
func EncodeAsBx(op Opcode, a, sbx int) Instruction {
	if sbx < -MaxSBx || sbx > MaxSBx {
		panic("EncodeAsBx: signed operand out of range")
	}
	return EncodeABx(op, a, sbx+MaxSBx)
}

// EncodeAx packs an instruction in the single-wide-operand layout.
// Panics if the operand exceeds its field width.
func EncodeAx(op Opcode, ax int) Instruction {
	if uint(ax) > MaxAx {
		panic("EncodeAx: operand out of range")
	}
	return Instruction(op)<<posOp | Instruction(ax)<<posAx
}
