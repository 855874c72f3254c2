package vm

import "testing"

// Every opcode value in range must resolve to a handler; a gap would make the
// corresponding table load dispatch through nil.
func TestDispatchTableGapFree(t *testing.T) {
	table := newDispatchTable()
	for op, h := range table {
		if h == nil {
			t.Errorf("opcode %s has no handler", Opcode(op))
		}
	}
}

// Opcode values with no defined operation take the generic dispatch step and
// leave all state untouched.
func TestUndefinedOpcodeIsNoOp(t *testing.T) {
	b := NewProtoBuilder("undef", 1)
	k := b.AddConst(IntSlot(3))
	b.EmitABx(OpLoadK, 0, k)
	b.Emit(Instruction(63)) // highest decodable opcode value, undefined
	b.EmitABC(OpReturn, 0, 2, 0)

	in := NewInterp(Config{})
	rt := NewRuntime(in.Config())
	results := runProgram(t, in, rt, b.Build())
	if results[0].Int() != 3 {
		t.Errorf("result = %v, want 3", results[0])
	}
}

func TestNewInterpDefaults(t *testing.T) {
	in := NewInterp(Config{})
	cfg := in.Config()
	if cfg.InitialStackSize != DefaultInitialStackSize {
		t.Errorf("InitialStackSize = %d, want %d", cfg.InitialStackSize, DefaultInitialStackSize)
	}
	if cfg.MaxStackSize != DefaultMaxStackSize {
		t.Errorf("MaxStackSize = %d, want %d", cfg.MaxStackSize, DefaultMaxStackSize)
	}
	if cfg.MaxCallDepth != DefaultMaxCallDepth {
		t.Errorf("MaxCallDepth = %d, want %d", cfg.MaxCallDepth, DefaultMaxCallDepth)
	}
	if in.Tracer() != nil {
		t.Error("tracer enabled without Trace")
	}
}

// runProgram executes p as a fresh native call and returns its results.
func runProgram(t *testing.T, in *Interp, rt *Runtime, p *Proto) []Slot {
	t.Helper()
	rt.PushNative(p)
	n := in.Run(rt)
	return rt.Results(n)
}

func TestMoveCopiesWholeSlot(t *testing.T) {
	b := NewProtoBuilder("move", 2)
	k := b.AddConst(FloatSlot(2.75))
	b.EmitABx(OpLoadK, 1, k)
	b.EmitABC(OpMove, 0, 1, 0)
	b.EmitABC(OpReturn, 0, 2, 0)

	in := NewInterp(Config{})
	rt := NewRuntime(in.Config())
	results := runProgram(t, in, rt, b.Build())
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Kind() != KindFloat || results[0].Float() != 2.75 {
		t.Errorf("result = %v, want 2.75", results[0])
	}
}

// Copying a slot away and back is observationally a no-op on the original.
func TestMoveRoundTrip(t *testing.T) {
	b := NewProtoBuilder("moveback", 3)
	k := b.AddConst(IntSlot(-5))
	b.EmitABx(OpLoadK, 0, k)
	b.EmitABC(OpMove, 2, 0, 0)
	b.EmitABC(OpMove, 0, 2, 0)
	b.EmitABC(OpReturn, 0, 2, 0)

	in := NewInterp(Config{})
	rt := NewRuntime(in.Config())
	results := runProgram(t, in, rt, b.Build())
	if results[0].Kind() != KindInt || results[0].Int() != -5 {
		t.Errorf("result = %v, want -5 unchanged", results[0])
	}
}

func TestMoveObjectSlot(t *testing.T) {
	obj := &Proto{Name: "payload"}
	b := NewProtoBuilder("moveobj", 2)
	k := b.AddConst(ObjectSlot(obj))
	b.EmitABx(OpLoadK, 1, k)
	b.EmitABC(OpMove, 0, 1, 0)
	b.EmitABC(OpReturn, 0, 2, 0)

	in := NewInterp(Config{})
	rt := NewRuntime(in.Config())
	results := runProgram(t, in, rt, b.Build())
	if results[0].Object() != obj {
		t.Errorf("object identity lost through MOVE: %v", results[0])
	}
}

func TestLoadKAllKinds(t *testing.T) {
	consts := []Slot{NilSlot(), BoolSlot(true), IntSlot(-9), FloatSlot(1.5)}
	b := NewProtoBuilder("loadk", len(consts))
	for i, c := range consts {
		k := b.AddConst(c)
		b.EmitABx(OpLoadK, i, k)
	}
	b.EmitABC(OpReturn, 0, len(consts)+1, 0)

	in := NewInterp(Config{})
	rt := NewRuntime(in.Config())
	results := runProgram(t, in, rt, b.Build())
	if len(results) != len(consts) {
		t.Fatalf("got %d results, want %d", len(results), len(consts))
	}
	for i, want := range consts {
		if !results[i].Equal(want) {
			t.Errorf("result %d = %v, want %v", i, results[i], want)
		}
	}
}

func TestNopIsInert(t *testing.T) {
	b := NewProtoBuilder("nop", 1)
	k := b.AddConst(IntSlot(11))
	b.EmitABx(OpLoadK, 0, k)
	b.EmitABC(OpNop, 0, 0, 0)
	b.EmitABC(OpNop, MaxA, MaxB, MaxC) // operands of a NOP are ignored
	b.EmitABC(OpReturn, 0, 2, 0)

	in := NewInterp(Config{})
	rt := NewRuntime(in.Config())
	results := runProgram(t, in, rt, b.Build())
	if results[0].Int() != 11 {
		t.Errorf("result = %v, want 11", results[0])
	}
}
