package vm

import "testing"

func TestEncodeABCRoundTrip(t *testing.T) {
	cases := []struct{ a, b, c int }{
		{0, 0, 0},
		{1, 2, 3},
		{MaxA, MaxB, MaxC},
		{MaxA, 0, MaxC},
		{127, 300, 511},
	}
	for _, tc := range cases {
		ins := EncodeABC(OpMove, tc.a, tc.b, tc.c)
		if ins.Op() != OpMove {
			t.Errorf("Op() = %v, want MOVE", ins.Op())
		}
		if ins.A() != tc.a || ins.B() != tc.b || ins.C() != tc.c {
			t.Errorf("decode(%d,%d,%d) = (%d,%d,%d)",
				tc.a, tc.b, tc.c, ins.A(), ins.B(), ins.C())
		}
	}
}

func TestEncodeABxRoundTrip(t *testing.T) {
	for _, bx := range []int{0, 1, 1000, MaxBx} {
		ins := EncodeABx(OpLoadK, 7, bx)
		if ins.Op() != OpLoadK || ins.A() != 7 || ins.Bx() != bx {
			t.Errorf("decode(7,%d) = (%v,%d,%d)", bx, ins.Op(), ins.A(), ins.Bx())
		}
	}
}

func TestEncodeAsBxRoundTrip(t *testing.T) {
	for _, sbx := range []int{-MaxSBx, -1, 0, 1, MaxSBx} {
		ins := EncodeAsBx(OpForLoop, 3, sbx)
		if ins.SBx() != sbx {
			t.Errorf("SBx() = %d, want %d", ins.SBx(), sbx)
		}
		if ins.A() != 3 {
			t.Errorf("A() = %d, want 3", ins.A())
		}
	}
}

func TestEncodeAxRoundTrip(t *testing.T) {
	for _, ax := range []int{0, 1, MaxAx} {
		ins := EncodeAx(OpNop, ax)
		if ins.Op() != OpNop || ins.Ax() != ax {
			t.Errorf("decode(%d) = (%v,%d)", ax, ins.Op(), ins.Ax())
		}
	}
}

// The opcode field position must not depend on the operand packing: the
// dispatch loop extracts it before knowing the format.
func TestOpcodeExtractionPackingIndependent(t *testing.T) {
	words := []Instruction{
		EncodeABC(OpReturn, MaxA, MaxB, MaxC),
		EncodeABx(OpReturn, MaxA, MaxBx),
		EncodeAsBx(OpReturn, MaxA, -MaxSBx),
		EncodeAx(OpReturn, MaxAx),
	}
	for i, ins := range words {
		if ins.Op() != OpReturn {
			t.Errorf("word %d: Op() = %v, want RETURN", i, ins.Op())
		}
	}
}

func TestEncodeRangePanics(t *testing.T) {
	assertPanics := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}
	assertPanics("A too large", func() { EncodeABC(OpMove, MaxA+1, 0, 0) })
	assertPanics("B too large", func() { EncodeABC(OpMove, 0, MaxB+1, 0) })
	assertPanics("C too large", func() { EncodeABC(OpMove, 0, 0, MaxC+1) })
	assertPanics("Bx too large", func() { EncodeABx(OpLoadK, 0, MaxBx+1) })
	assertPanics("sBx too small", func() { EncodeAsBx(OpForPrep, 0, -MaxSBx-1) })
	assertPanics("sBx too large", func() { EncodeAsBx(OpForPrep, 0, MaxSBx+1) })
	assertPanics("Ax too large", func() { EncodeAx(OpNop, MaxAx+1) })
	assertPanics("negative A", func() { EncodeABC(OpMove, -1, 0, 0) })
}

func TestFieldWidthsCoverWord(t *testing.T) {
	if SizeOp+SizeA+SizeB+SizeC != 32 {
		t.Fatalf("field widths sum to %d, want 32", SizeOp+SizeA+SizeB+SizeC)
	}
	if int(NumOpcodes) > 1<<SizeOp {
		t.Fatalf("%d opcodes do not fit in %d bits", NumOpcodes, SizeOp)
	}
}
