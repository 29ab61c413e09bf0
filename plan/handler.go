package plan

import "github.com/evmts/bytecode-core/opcode"

// DispatchOp identifies a dispatch table slot. Values 0-255 are the raw
// opcode byte; values 256 and up are synthetic fused opcodes that have
// no corresponding byte in the bytecode being dispatched.
type DispatchOp uint16

// Synthetic fused opcodes: a PUSHn immediately followed by one of these
// operations compiles to a single handler cell instead of two. Each
// fusable second op gets both an inline-value and a constant-pool
// variant, chosen by whether the pushed value fits the inline cell.
const (
	FusedPushAddInline DispatchOp = 256 + iota
	FusedPushAddPointer
	FusedPushMulInline
	FusedPushMulPointer
	FusedPushSubInline
	FusedPushSubPointer
	FusedPushDivInline
	FusedPushDivPointer
	FusedPushAndInline
	FusedPushAndPointer
	FusedPushOrInline
	FusedPushOrPointer
	FusedPushXorInline
	FusedPushXorPointer
	FusedPushJumpInline
	FusedPushJumpPointer
	FusedPushJumpiInline
	FusedPushJumpiPointer
)

var fusedInline = map[opcode.Opcode]DispatchOp{
	opcode.ADD: FusedPushAddInline, opcode.MUL: FusedPushMulInline, opcode.SUB: FusedPushSubInline,
	opcode.DIV: FusedPushDivInline, opcode.AND: FusedPushAndInline, opcode.OR: FusedPushOrInline,
	opcode.XOR: FusedPushXorInline, opcode.JUMP: FusedPushJumpInline, opcode.JUMPI: FusedPushJumpiInline,
}

var fusedPointer = map[opcode.Opcode]DispatchOp{
	opcode.ADD: FusedPushAddPointer, opcode.MUL: FusedPushMulPointer, opcode.SUB: FusedPushSubPointer,
	opcode.DIV: FusedPushDivPointer, opcode.AND: FusedPushAndPointer, opcode.OR: FusedPushOrPointer,
	opcode.XOR: FusedPushXorPointer, opcode.JUMP: FusedPushJumpPointer, opcode.JUMPI: FusedPushJumpiPointer,
}

// fusedDispatchFor returns the synthetic dispatch op for a PUSH fused
// with secondOp, choosing the inline-value variant when the pushed
// value fits an 8-byte cell.
func fusedDispatchFor(secondOp opcode.Opcode, fitsInline bool) (DispatchOp, bool) {
	if fitsInline {
		if d, ok := fusedInline[secondOp]; ok {
			return d, true
		}
	}
	d, ok := fusedPointer[secondOp]
	return d, ok
}

// HandlerTable maps a DispatchOp to the caller's handler representation
// H. It is supplied by the caller and treated as immutable input to
// plan construction; this package never calls or interprets a handler
// value, only stores and retrieves it. H is a type parameter rather
// than a fixed function signature because the handler's calling
// convention belongs to the interpreter, a collaborator outside this
// package's scope.
type HandlerTable[H any] map[DispatchOp]H
