package plan

import "github.com/evmts/bytecode-core/analysis"

// MinimalPlan is a thin dispatch view over an AnalyzedBytecode: PC
// equals instruction index, and dispatch is direct indexing into the
// caller's handler table by opcode byte. It borrows the
// AnalyzedBytecode for reads only and owns no allocations of its own.
type MinimalPlan[H any] struct {
	analyzed *analysis.AnalyzedBytecode
	handlers HandlerTable[H]
}

// BuildMinimalPlan pairs an analyzed bytecode with a handler table.
// Construction cannot fail: every byte value is a valid dispatch index
// (undefined opcodes simply index to whatever the caller put at that
// slot, canonically an INVALID handler).
func BuildMinimalPlan[H any](a *analysis.AnalyzedBytecode, handlers HandlerTable[H]) *MinimalPlan[H] {
	return &MinimalPlan[H]{analyzed: a, handlers: handlers}
}

// Analyzed returns the underlying analyzed bytecode.
func (p *MinimalPlan[H]) Analyzed() *analysis.AnalyzedBytecode { return p.analyzed }

// Handler returns the handler registered for the opcode at pc. The
// second return value is false only if pc is out of range; an in-range
// pc always yields a handler value (the caller's table's zero value if
// nothing was registered for that opcode).
func (p *MinimalPlan[H]) Handler(pc analysis.Pc) (H, bool) {
	b, ok := p.analyzed.ByteAt(pc)
	if !ok {
		var zero H
		return zero, false
	}
	return p.handlers[DispatchOp(b)], true
}

// ReadPushOperand reads the PUSHn operand at pc via the underlying
// bit-planes, honoring the validation boundary rather than slicing raw
// bytes directly.
func (p *MinimalPlan[H]) ReadPushOperand(pc analysis.Pc, n int) (analysis.Word, bool) {
	return p.analyzed.ReadPush(pc, n)
}
