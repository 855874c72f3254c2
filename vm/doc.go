// Package vm implements the Quill register-machine execution core.
//
// This package contains:
//   - Packed 32-bit instruction encoding and branch-free decoding
//   - Tagged value slots held in a contiguous value stack
//   - A gap-free dispatch table of per-opcode handlers
//   - The call/return protocol coordinating with the frame manager
//   - Specialized integer for-loop opcodes (step=1 and general step)
//   - A scalar reference model of the loop opcodes for cross-validation
package vm
