// Package wire serializes prototypes and trace reports for storage and
// transport, using canonical CBOR for deterministic encoding.
package wire

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/quillvm/quill/vm"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Const is one serialized constant-pool entry: the slot tag plus its raw
// 64-bit payload. Only scalar kinds serialize; object constants belong to the
// embedding runtime, not the wire format.
type Const struct {
	Kind uint8  `cbor:"kind"`
	Bits uint64 `cbor:"bits"`
}

// Snapshot is the serialized form of a compiled prototype, identified for
// storage and transport.
type Snapshot struct {
	ID        uuid.UUID `cbor:"id"`
	Name      string    `cbor:"name"`
	Code      []uint32  `cbor:"code"`
	Consts    []Const   `cbor:"consts"`
	NumParams int       `cbor:"num-params"`
	MaxStack  int       `cbor:"max-stack"`
	Captured  int       `cbor:"captured"`
}

// NewSnapshot captures a prototype into its serialized form under a fresh
// identity. Prototypes whose constant pool references heap objects cannot be
// serialized.
func NewSnapshot(p *vm.Proto) (*Snapshot, error) {
	s := &Snapshot{
		ID:        uuid.New(),
		Name:      p.Name,
		Code:      make([]uint32, len(p.Code)),
		Consts:    make([]Const, len(p.Consts)),
		NumParams: p.NumParams,
		MaxStack:  p.MaxStack,
		Captured:  p.Captured,
	}
	for i, ins := range p.Code {
		s.Code[i] = uint32(ins)
	}
	for i, c := range p.Consts {
		if c.Kind() == vm.KindObject {
			return nil, fmt.Errorf("wire: constant %d of %s is an object reference", i, p.Name)
		}
		s.Consts[i] = Const{Kind: uint8(c.Kind()), Bits: c.Bits()}
	}
	return s, nil
}

// Proto rebuilds the prototype a snapshot captured.
func (s *Snapshot) Proto() (*vm.Proto, error) {
	p := &vm.Proto{
		Name:      s.Name,
		Code:      make([]vm.Instruction, len(s.Code)),
		Consts:    make([]vm.Slot, len(s.Consts)),
		NumParams: s.NumParams,
		MaxStack:  s.MaxStack,
		Captured:  s.Captured,
	}
	for i, word := range s.Code {
		p.Code[i] = vm.Instruction(word)
	}
	for i, c := range s.Consts {
		switch vm.Kind(c.Kind) {
		case vm.KindNil:
			p.Consts[i] = vm.NilSlot()
		case vm.KindBool:
			p.Consts[i] = vm.BoolSlot(c.Bits == 1)
		case vm.KindInt:
			p.Consts[i] = vm.IntSlot(int64(c.Bits))
		case vm.KindFloat:
			p.Consts[i] = vm.FloatSlot(math.Float64frombits(c.Bits))
		default:
			return nil, fmt.Errorf("wire: constant %d of %s has kind %d", i, s.Name, c.Kind)
		}
	}
	return p, nil
}

// MarshalSnapshot serializes a Snapshot to CBOR bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("wire: unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// TraceReport carries the per-opcode dispatch counters of one execution,
// keyed by opcode name.
type TraceReport struct {
	ID     uuid.UUID         `cbor:"id"`
	Counts map[string]uint64 `cbor:"counts"`
}

// NewTraceReport captures a tracer's counters under a fresh identity.
func NewTraceReport(tr *vm.Tracer) *TraceReport {
	return &TraceReport{
		ID:     uuid.New(),
		Counts: tr.Report(),
	}
}

// MarshalTraceReport serializes a TraceReport to CBOR bytes.
func MarshalTraceReport(r *TraceReport) ([]byte, error) {
	return cborEncMode.Marshal(r)
}

// UnmarshalTraceReport deserializes a TraceReport from CBOR bytes.
func UnmarshalTraceReport(data []byte) (*TraceReport, error) {
	var r TraceReport
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("wire: unmarshal trace report: %w", err)
	}
	return &r, nil
}
