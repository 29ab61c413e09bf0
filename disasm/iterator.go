// Package disasm turns an analyzed bytecode value into a lazy sequence
// of decoded instructions, for tooling and tests rather than dispatch.
package disasm

import (
	"github.com/evmts/bytecode-core/analysis"
	"github.com/evmts/bytecode-core/opcode"
)

// Instruction is one decoded instruction: its position, opcode, and the
// static metadata a disassembler or test would want to show.
type Instruction struct {
	Pc         analysis.Pc
	Op         opcode.Opcode
	IsJumpdest bool
	PushValue  *analysis.Word
	GasCost    uint64
	StackIn    int
	StackOut   int
}

// Iterator walks an AnalyzedBytecode's op-starts in order, one
// instruction at a time, without building an intermediate slice.
type Iterator struct {
	a    *analysis.AnalyzedBytecode
	pc   analysis.Pc
	done bool
}

// NewIterator returns an Iterator positioned at the start of a.
func NewIterator(a *analysis.AnalyzedBytecode) *Iterator {
	return &Iterator{a: a}
}

// Next decodes the instruction at the iterator's current position and
// advances. It returns (Instruction{}, false) once the validated region
// is exhausted.
func (it *Iterator) Next() (Instruction, bool) {
	if it.done || !it.a.IsOpStart(it.pc) {
		return Instruction{}, false
	}

	pc := it.pc
	op := opcode.Opcode(it.a.ByteAtUnchecked(pc))
	eff := opcode.Lookup(op)

	inst := Instruction{
		Pc:         pc,
		Op:         op,
		IsJumpdest: it.a.IsValidJumpdest(pc),
		GasCost:    eff.GasCost,
		StackIn:    eff.StackIn,
		StackOut:   eff.StackOut,
	}

	if n := op.PushSize(); n > 0 {
		if val, ok := it.a.ReadPush(pc, n); ok {
			inst.PushValue = &val
		}
	}

	next, ok := it.a.NextPC(pc)
	if !ok {
		it.done = true
	} else {
		it.pc = next
	}

	return inst, true
}
