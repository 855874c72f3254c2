package vm

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Slot: Tagged value storage
// ---------------------------------------------------------------------------

// Kind identifies the type of value stored in a Slot.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindObject
)

// kindNames maps kinds to human-readable names.
var kindNames = [...]string{
	KindNil:    "nil",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindObject: "object",
}

// String implements the Stringer interface.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Slot is the fixed-size tagged union for one runtime value. Slots live
// contiguously in the value stack and in constant pools, and copy by plain
// struct assignment. The tag is settable independently of the payload, and
// integer slots expose their payload as a machine int64 for the arithmetic
// fast paths.
//
// Heap values are held through the obj field rather than encoded into the
// payload bits, which keeps them visible to the Go garbage collector.
type Slot struct {
	kind Kind
	bits uint64
	obj  any
}

// Constructors

// NilSlot returns the nil slot.
func NilSlot() Slot {
	return Slot{kind: KindNil}
}

// BoolSlot returns a boolean slot.
func BoolSlot(b bool) Slot {
	var bits uint64
	if b {
		bits = 1
	}
	return Slot{kind: KindBool, bits: bits}
}

// IntSlot returns an integer slot.
func IntSlot(n int64) Slot {
	return Slot{kind: KindInt, bits: uint64(n)}
}

// FloatSlot returns a float slot.
func FloatSlot(f float64) Slot {
	return Slot{kind: KindFloat, bits: math.Float64bits(f)}
}

// ObjectSlot returns a slot referencing a heap value owned by the embedding
// runtime. The core never inspects the referent.
func ObjectSlot(o any) Slot {
	return Slot{kind: KindObject, obj: o}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Kind returns the slot's type tag.
func (s Slot) Kind() Kind {
	return s.kind
}

// SetKind overwrites the type tag without disturbing the payload.
func (s *Slot) SetKind(k Kind) {
	s.kind = k
}

// Int returns the integer payload.
// Panics if the slot is not integer-tagged.
func (s Slot) Int() int64 {
	if s.kind != KindInt {
		panic("Slot.Int: not an integer slot")
	}
	return int64(s.bits)
}

// SetInt stores an integer payload and tags the slot as integer.
func (s *Slot) SetInt(n int64) {
	s.kind = KindInt
	s.bits = uint64(n)
}

// Float returns the float payload.
// Panics if the slot is not float-tagged.
func (s Slot) Float() float64 {
	if s.kind != KindFloat {
		panic("Slot.Float: not a float slot")
	}
	return math.Float64frombits(s.bits)
}

// Bool returns the boolean payload.
// Panics if the slot is not bool-tagged.
func (s Slot) Bool() bool {
	if s.kind != KindBool {
		panic("Slot.Bool: not a boolean slot")
	}
	return s.bits == 1
}

// Object returns the heap reference.
// Panics if the slot is not object-tagged.
func (s Slot) Object() any {
	if s.kind != KindObject {
		panic("Slot.Object: not an object slot")
	}
	return s.obj
}

// Bits returns the raw 64-bit payload regardless of tag. Used by the wire
// encoding and by tests asserting whole-slot copies.
func (s Slot) Bits() uint64 {
	return s.bits
}

// IsNil returns true if s is the nil slot.
func (s Slot) IsNil() bool {
	return s.kind == KindNil
}

// Equal reports whether two slots hold the same tag and payload. Object
// slots compare by reference identity.
func (s Slot) Equal(other Slot) bool {
	if s.kind != other.kind {
		return false
	}
	if s.kind == KindObject {
		return s.obj == other.obj
	}
	return s.bits == other.bits
}

// String implements the Stringer interface.
func (s Slot) String() string {
	switch s.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprintf("%t", s.bits == 1)
	case KindInt:
		return fmt.Sprintf("%d", int64(s.bits))
	case KindFloat:
		return fmt.Sprintf("%g", math.Float64frombits(s.bits))
	case KindObject:
		return fmt.Sprintf("object(%p)", s.obj)
	default:
		return fmt.Sprintf("slot(kind=%d)", uint8(s.kind))
	}
}
