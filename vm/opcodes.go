package vm

import "fmt"

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode is the operation selector of an instruction, used as an index into
// the dispatch table.
type Opcode uint8

const (
	OpNop      Opcode = iota // no operation
	OpMove                   // ABC: R[A] = R[B]
	OpLoadK                  // ABx: R[A] = K[Bx]
	OpReturn                 // ABC: return R[A] .. R[A+B-2] (B=0: up to top)
	OpForPrep                // AsBx: R[A] -= R[A+2]; pc += sBx
	OpForLoop                // AsBx: R[A] += R[A+2]; loop while R[A] <= R[A+1]
	OpForPrep1               // AsBx: R[A] -= 1; pc += sBx
	OpForLoop1               // AsBx: R[A] += 1; loop while R[A] <= R[A+1]

	// NumOpcodes is the number of distinct opcode values. The dispatch
	// table has exactly this many entries.
	NumOpcodes
)

// Format identifies which operand packing an opcode uses.
type Format uint8

const (
	FormatABC Format = iota
	FormatABx
	FormatAsBx
	FormatAx
)

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name   string // human-readable name
	Format Format // operand packing
}

// opcodeTable maps opcodes to their metadata.
var opcodeTable = [NumOpcodes]OpcodeInfo{
	OpNop:      {"NOP", FormatABC},
	OpMove:     {"MOVE", FormatABC},
	OpLoadK:    {"LOADK", FormatABx},
	OpReturn:   {"RETURN", FormatABC},
	OpForPrep:  {"FORPREP", FormatAsBx},
	OpForLoop:  {"FORLOOP", FormatAsBx},
	OpForPrep1: {"FORPREP1", FormatAsBx},
	OpForLoop1: {"FORLOOP1", FormatAsBx},
}

// Info returns the metadata for an opcode.
func (op Opcode) Info() OpcodeInfo {
	if op < NumOpcodes {
		return opcodeTable[op]
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", uint8(op)), Format: FormatABC}
}

// Name returns the human-readable name for an opcode.
func (op Opcode) Name() string {
	return op.Info().Name
}

// String implements the Stringer interface.
func (op Opcode) String() string {
	return op.Name()
}

// ---------------------------------------------------------------------------
// Disassembly
// ---------------------------------------------------------------------------

// DisassembleInstruction renders a single instruction word at a program
// counter position.
func DisassembleInstruction(pc int, ins Instruction) string {
	op := ins.Op()
	info := op.Info()
	switch info.Format {
	case FormatABx:
		return fmt.Sprintf("%04d  %s %d %d", pc, info.Name, ins.A(), ins.Bx())
	case FormatAsBx:
		offset := ins.SBx()
		// pc+1 because branches are relative to the already-advanced counter
		return fmt.Sprintf("%04d  %s %d %d (-> %04d)", pc, info.Name, ins.A(), offset, pc+1+offset)
	case FormatAx:
		return fmt.Sprintf("%04d  %s %d", pc, info.Name, ins.Ax())
	default:
		return fmt.Sprintf("%04d  %s %d %d %d", pc, info.Name, ins.A(), ins.B(), ins.C())
	}
}

// Disassemble returns a full disassembly of an instruction sequence.
func Disassemble(code []Instruction) string {
	var result string
	for pc, ins := range code {
		if result != "" {
			result += "\n"
		}
		result += DisassembleInstruction(pc, ins)
	}
	return result
}
