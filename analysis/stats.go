package analysis

import "github.com/evmts/bytecode-core/opcode"

// statsFusionSecondOp is the narrower fusable-second-opcode set Stats
// reports against. It is computed independently of the bit-plane's
// fusableSecondOp (which also covers AND/OR/XOR, used for dispatch-plan
// fusion) because the two serve different consumers: the plane decides
// what the advanced plan may fuse, Stats summarizes the subset an
// analytics consumer cares about reporting on.
var statsFusionSecondOp = map[opcode.Opcode]bool{
	opcode.ADD: true, opcode.MUL: true, opcode.SUB: true, opcode.DIV: true,
	opcode.JUMP: true, opcode.JUMPI: true,
}

// PushRecord captures one PUSH instruction's location, width and
// decoded operand, gathered during ComputeStats.
type PushRecord struct {
	Pc    Pc
	Size  int
	Value Word
}

// JumpRecord captures a JUMP/JUMPI instruction whose target was
// statically determinable — a constant pushed by the instruction
// immediately before it, the common compiler-emitted pattern.
type JumpRecord struct {
	Pc           Pc
	StaticTarget Word
	HasStatic    bool
}

// Stats is a derived, informational summary of validated bytecode: it
// never feeds back into validation or plan construction correctness,
// only into reporting. Preprocessing and analytics stay strictly
// separated.
type Stats struct {
	OpcodeHistogram      [256]uint64
	PushRecords          []PushRecord
	FusionCandidates     []Pc
	Jumpdests            []Pc
	Jumps                []JumpRecord
	BackwardsJumpsCount  int
	LooksLikeConstructor bool
}

// ComputeStats walks a's instructions exactly once, driven by the
// op-start plane rather than raw bytes, so it never misreads PUSH
// operand data or an unvalidated trailer as an instruction.
func ComputeStats(a *AnalyzedBytecode) Stats {
	var s Stats

	var lastPush *PushRecord
	pc := Pc(0)
	for a.IsOpStart(pc) {
		op := opcode.Opcode(a.ByteAtUnchecked(pc))
		s.OpcodeHistogram[op]++

		switch op {
		case opcode.JUMPDEST:
			s.Jumpdests = append(s.Jumpdests, pc)
		case opcode.CODECOPY:
			s.LooksLikeConstructor = true
		}

		var curPush *PushRecord
		if n := op.PushSize(); n > 0 {
			if val, ok := a.ReadPush(pc, n); ok {
				rec := PushRecord{Pc: pc, Size: n, Value: val}
				s.PushRecords = append(s.PushRecords, rec)
				curPush = &rec
			}

			if secondByte, ok := a.ByteAt(pc + 1 + Pc(n)); ok && statsFusionSecondOp[opcode.Opcode(secondByte)] {
				s.FusionCandidates = append(s.FusionCandidates, pc)
			}
		}

		if op == opcode.JUMP || op == opcode.JUMPI {
			jr := JumpRecord{Pc: pc}
			if lastPush != nil {
				jr.StaticTarget = lastPush.Value
				jr.HasStatic = true
				if jr.StaticTarget.IsUint64() && Pc(jr.StaticTarget.Uint64()) <= pc {
					s.BackwardsJumpsCount++
				}
			}
			s.Jumps = append(s.Jumps, jr)
		}

		next, ok := a.NextPC(pc)
		lastPush = curPush
		if !ok {
			break
		}
		pc = next
	}

	return s
}
