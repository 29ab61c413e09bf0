package plan

import (
	"github.com/evmts/bytecode-core/analysis"
	"github.com/evmts/bytecode-core/opcode"
)

// StreamIdx indexes AdvancedPlan.stream.
type StreamIdx = uint32

// CellTag discriminates the logical variant a StreamCell holds.
type CellTag int

const (
	CellHandler CellTag = iota
	CellInlineValue
	CellConstantIndex
	CellJumpdestInfo
	CellPC
)

// JumpdestInfo summarizes the basic block beginning at a JUMPDEST: its
// total static gas cost and the stack depths an interpreter can use to
// validate entry/exit in one check instead of walking the block at run
// time.
type JumpdestInfo struct {
	StaticGasCost   uint32
	MinStackBefore  int16
	MaxStackAfter   int16
}

// StreamCell is one slot of the advanced plan's instruction stream. A
// word-packed tagged union has no direct idiomatic Go equivalent
// without unsafe aliasing; a tagged struct gives the same
// O(1)-indexable, branch-predictor-friendly layout at the cost of a
// few extra bytes per cell.
type StreamCell[H any] struct {
	Tag CellTag

	// Populated when Tag == CellHandler.
	Handler     H
	HasMetadata bool // true if stream[idx+1] holds this instruction's metadata

	// Populated when Tag == CellInlineValue or CellPC.
	Inline uint64

	// Populated when Tag == CellConstantIndex.
	ConstIdx uint32

	// Populated when Tag == CellJumpdestInfo.
	Jumpdest JumpdestInfo
}

// AdvancedPlan is a compiled, fixed-width instruction stream plus an
// out-of-line constant pool. It borrows the AnalyzedBytecode it was
// built from for reads only.
type AdvancedPlan[H any] struct {
	analyzed      *analysis.AnalyzedBytecode
	stream        []StreamCell[H]
	constants     []analysis.Word
	pcToStreamIdx map[analysis.Pc]StreamIdx
}

// Analyzed returns the underlying analyzed bytecode.
func (p *AdvancedPlan[H]) Analyzed() *analysis.AnalyzedBytecode { return p.analyzed }

// BuildAdvancedPlan compiles a into a tagged instruction stream. It
// walks op-starts left to right exactly once; fusion candidates (when
// cfg.FusionsEnabled) collapse a PUSHn and its successor into a single
// synthetic handler cell instead of two.
//
// Only PUSH1..PUSH8 operands (and fused values that fit the same 8
// bytes) are stored inline; PUSH9..PUSH32 and larger fused values
// always spill to the constant pool. A 128-bit inline path for
// PUSH9..PUSH16 is intentionally not modeled — Go has no native
// 128-bit integer, and DefaultConfig's WordSizeHint of 64 means that
// path is unreachable for the default configuration anyway; a caller
// that raises WordSizeHint still gets correct (if less tightly
// packed) output via the constant pool. See DESIGN.md.
func BuildAdvancedPlan[H any](a *analysis.AnalyzedBytecode, handlers HandlerTable[H], cfg analysis.Config) (*AdvancedPlan[H], error) {
	p := &AdvancedPlan[H]{
		analyzed:      a,
		pcToStreamIdx: make(map[analysis.Pc]StreamIdx),
	}

	if a.Len() == 0 {
		return p, nil
	}

	pc := analysis.Pc(0)
	for a.IsOpStart(pc) {
		op := opcode.Opcode(a.ByteAtUnchecked(pc))

		if cfg.FusionsEnabled && a.IsFusionCandidate(pc) {
			pc = p.emitFused(a, handlers, op, pc)
			continue
		}

		p.emitPlain(a, handlers, op, pc)

		next, ok := a.NextPC(pc)
		if !ok {
			break
		}
		pc = next
	}

	return p, nil
}

func (p *AdvancedPlan[H]) emitPlain(a *analysis.AnalyzedBytecode, handlers HandlerTable[H], op opcode.Opcode, pc analysis.Pc) {
	handlerIdx := StreamIdx(len(p.stream))
	p.pcToStreamIdx[pc] = handlerIdx

	cell := StreamCell[H]{Tag: CellHandler, Handler: handlers[DispatchOp(op)]}

	switch {
	case op.IsPush() && op != opcode.PUSH0:
		n := op.PushSize()
		val, _ := a.ReadPush(pc, n)
		cell.HasMetadata = true
		p.stream = append(p.stream, cell)
		p.stream = append(p.stream, p.metadataCellForValue(val, n))
		return
	case op == opcode.JUMPDEST:
		cell.HasMetadata = true
		p.stream = append(p.stream, cell)
		p.stream = append(p.stream, StreamCell[H]{Tag: CellJumpdestInfo, Jumpdest: computeJumpdestInfo(a, pc)})
		return
	case op == opcode.PC:
		cell.HasMetadata = true
		p.stream = append(p.stream, cell)
		p.stream = append(p.stream, StreamCell[H]{Tag: CellPC, Inline: uint64(pc)})
		return
	default:
		p.stream = append(p.stream, cell)
	}
}

// emitFused handles a fusion candidate: pc is a PUSHn immediately
// followed (at pc+1+n) by a fusable second opcode. It returns the next
// pc to resume scanning from, past both fused instructions.
func (p *AdvancedPlan[H]) emitFused(a *analysis.AnalyzedBytecode, handlers HandlerTable[H], op opcode.Opcode, pc analysis.Pc) analysis.Pc {
	n := op.PushSize()
	secondPc := pc + 1 + analysis.Pc(n)
	secondOp := opcode.Opcode(a.ByteAtUnchecked(secondPc))
	val, _ := a.ReadPush(pc, n)

	fitsInline := n <= 8
	dispatchOp, _ := fusedDispatchFor(secondOp, fitsInline)

	handlerIdx := StreamIdx(len(p.stream))
	p.pcToStreamIdx[pc] = handlerIdx
	// The fused second op's own pc is deliberately left unmapped: none
	// of the fusable second ops is JUMPDEST, so it can never be a
	// dynamic jump target.

	p.stream = append(p.stream, StreamCell[H]{Tag: CellHandler, Handler: handlers[dispatchOp], HasMetadata: true})
	p.stream = append(p.stream, p.metadataCellForValue(val, n))

	next, ok := a.NextPC(secondPc)
	if !ok {
		return a.Len()
	}
	return next
}

func (p *AdvancedPlan[H]) metadataCellForValue(val analysis.Word, size int) StreamCell[H] {
	if size <= 8 {
		return StreamCell[H]{Tag: CellInlineValue, Inline: val.Uint64()}
	}
	idx := uint32(len(p.constants))
	p.constants = append(p.constants, val)
	return StreamCell[H]{Tag: CellConstantIndex, ConstIdx: idx}
}

// NextInstruction returns the handler at idx and the stream index of
// the following instruction's handler cell — idx+1 if this instruction
// carries no metadata cell, idx+2 otherwise.
func (p *AdvancedPlan[H]) NextInstruction(idx StreamIdx) (H, StreamIdx) {
	cell := p.stream[idx]
	step := StreamIdx(1)
	if cell.HasMetadata {
		step = 2
	}
	return cell.Handler, idx + step
}

// Metadata returns the metadata cell following the handler cell at idx.
// It does not advance; advancement is NextInstruction's job alone.
func (p *AdvancedPlan[H]) Metadata(idx StreamIdx) StreamCell[H] {
	return p.stream[idx+1]
}

// Cell returns the raw stream cell at idx, mainly for tests and
// disassembly tooling.
func (p *AdvancedPlan[H]) Cell(idx StreamIdx) StreamCell[H] {
	return p.stream[idx]
}

// StreamLen returns the number of cells in the stream.
func (p *AdvancedPlan[H]) StreamLen() int { return len(p.stream) }

// StreamIndexForPC returns the handler-cell stream index for an
// op-start pc, for resolving dynamic JUMP/JUMPI targets.
func (p *AdvancedPlan[H]) StreamIndexForPC(pc analysis.Pc) (StreamIdx, bool) {
	idx, ok := p.pcToStreamIdx[pc]
	return idx, ok
}

// Constant returns the constant-pool entry at i. Unlike the plan's other
// accessors, i is caller-supplied rather than plan-derived (a decoded
// CellConstantIndex read back from some external encoding, say), so an
// out-of-range index is a real possibility worth a real error rather
// than a bare zero value.
func (p *AdvancedPlan[H]) Constant(i uint32) (analysis.Word, error) {
	if int(i) >= len(p.constants) {
		return analysis.Word{}, ErrIndexOutOfBounds
	}
	return p.constants[i], nil
}

// ConstantCount returns the number of entries in the constant pool.
func (p *AdvancedPlan[H]) ConstantCount() int { return len(p.constants) }

func computeJumpdestInfo(a *analysis.AnalyzedBytecode, start analysis.Pc) JumpdestInfo {
	var gas uint64
	var stackDelta, minBefore, maxAfter int

	pc := start
	for {
		op := opcode.Opcode(a.ByteAtUnchecked(pc))
		eff := opcode.Lookup(op)

		if need := eff.StackIn - stackDelta; need > minBefore {
			minBefore = need
		}
		stackDelta += eff.StackOut - eff.StackIn
		if stackDelta > maxAfter {
			maxAfter = stackDelta
		}
		gas += eff.GasCost

		if op.IsTerminator() || op == opcode.JUMP || op == opcode.JUMPI {
			break
		}
		next, ok := a.NextPC(pc)
		if !ok {
			break
		}
		if a.IsValidJumpdest(next) {
			break
		}
		pc = next
	}

	return JumpdestInfo{
		StaticGasCost:  uint32(gas),
		MinStackBefore: int16(minBefore),
		MaxStackAfter:  int16(maxAfter),
	}
}
