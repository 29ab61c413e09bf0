// Package analysis validates legacy EVM bytecode and builds the
// bit-plane and statistical views dispatch-plan construction and
// disassembly are built on top of.
package analysis

import (
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/evmts/bytecode-core/opcode"
	"github.com/evmts/bytecode-core/trailer"
)

// fusableSecondOp is the set of opcodes that make a preceding PUSH a
// fusion candidate: a handler that can consume the pushed constant
// directly instead of round-tripping it through the stack.
var fusableSecondOp = map[opcode.Opcode]bool{
	opcode.ADD: true, opcode.MUL: true, opcode.SUB: true, opcode.DIV: true,
	opcode.AND: true, opcode.OR: true, opcode.XOR: true,
	opcode.JUMP: true, opcode.JUMPI: true,
}

// deploymentPrefix is the standard Solidity constructor preamble
// (PUSH1 0x80 PUSH1 0x40) that begins almost every deployment-time
// initcode payload. analyze uses its presence, together with a
// detected trailer, to tell apart "this is full deployment code whose
// trailer sits after a constructor" from "this is runtime code with an
// appended metadata trailer" without needing the caller to say which
// entry point produced the bytes.
var deploymentPrefix = []byte{0x60, 0x80, 0x60, 0x40}

// HasDeploymentPrefix reports whether code opens with the standard
// Solidity constructor preamble. It is advisory: it only changes how a
// trailing CBOR trailer is carved out, never whether code validates.
func HasDeploymentPrefix(code []byte) bool {
	if len(code) < len(deploymentPrefix) {
		return false
	}
	for i, b := range deploymentPrefix {
		if code[i] != b {
			return false
		}
	}
	return true
}

// AnalyzedBytecode is the immutable result of validating and indexing a
// piece of legacy bytecode. It is safe for concurrent read access from
// multiple goroutines without external synchronization: every field is
// fixed at construction time and CodeHash's internal memoization is the
// only mutation, guarded by sync.Once.
type AnalyzedBytecode struct {
	full         []byte
	runtime      []byte
	validateUpTo int
	trailerDesc  *trailer.Descriptor

	planes *bitPlanes

	hashOnce sync.Once
	hash     [32]byte
}

// AnalyzeRuntime validates code as deployed runtime bytecode: it is
// rejected outright if it exceeds cfg.MaxRuntimeSize (EIP-170). A
// trailing CBOR metadata trailer, if present, is detected and always
// excluded from validation and indexing. It is also stripped from
// RuntimeBytes unless code opens with the standard deployment
// preamble, in which case RuntimeBytes keeps the whole input.
func AnalyzeRuntime(code []byte, cfg Config) (*AnalyzedBytecode, error) {
	if len(code) > cfg.MaxRuntimeSize {
		return nil, ErrBytecodeTooLarge
	}
	return analyze(code, cfg)
}

// AnalyzeInitcode validates code as constructor initcode: it is
// rejected outright if it exceeds cfg.MaxInitcodeSize (EIP-3860).
func AnalyzeInitcode(code []byte, cfg Config) (*AnalyzedBytecode, error) {
	if len(code) > cfg.MaxInitcodeSize {
		return nil, ErrInitcodeTooLarge
	}
	return analyze(code, cfg)
}

func analyze(code []byte, cfg Config) (*AnalyzedBytecode, error) {
	owned := make([]byte, len(code))
	copy(owned, code)

	desc, found := trailer.Detect(owned)

	validateUpTo := len(owned)
	runtimeBytes := owned
	var trailerDesc *trailer.Descriptor
	if found {
		trailerDesc = desc
		preTrailer := len(owned) - desc.LengthInBytes
		if preTrailer < 0 {
			preTrailer = 0
		}
		// The trailer is compiler metadata, never reachable bytecode, so
		// the validation scan always stops before it regardless of which
		// entry point produced the bytes — walking it as an opcode stream
		// would corrupt the bit-planes on the CBOR key/length bytes that
		// happen to fall in the PUSH1..PUSH32 range.
		validateUpTo = preTrailer
		if !HasDeploymentPrefix(owned) {
			// Ordinary runtime code: the trailer is also excluded from the
			// region exposed to iteration.
			runtimeBytes = owned[:validateUpTo]
		}
		// With the deployment preamble present, the input is constructor
		// initcode: the trailer-shaped tail may be data the constructor's
		// own CODECOPY reads, so it is kept in the bytes returned to
		// callers — only the validation bound excludes it.
	}

	planes, err := build(runtimeBytes, validateUpTo, cfg)
	if err != nil {
		return nil, err
	}

	return &AnalyzedBytecode{
		full:         owned,
		runtime:      runtimeBytes,
		validateUpTo: validateUpTo,
		trailerDesc:  trailerDesc,
		planes:       planes,
	}, nil
}

// build performs the single linear validation pass: it walks
// runtime[0:validateUpTo] exactly once, classifying every byte as
// either an instruction start or PUSH operand data, never both, and
// marks JUMPDEST and fusion-candidate bits along the way.
func build(runtime []byte, validateUpTo int, cfg Config) (*bitPlanes, error) {
	planes := newBitPlanes(len(runtime))

	i := Pc(0)
	limit := Pc(validateUpTo)
	for i < limit {
		planes.setOpStart(i)

		op := opcode.Opcode(runtime[i])
		if op == opcode.JUMPDEST {
			planes.setJumpdest(i)
		}

		n := Pc(op.PushSize())
		if n > 0 {
			if i+n >= limit {
				return nil, ErrTruncatedPush
			}
			for k := i + 1; k <= i+n; k++ {
				planes.setPushData(k)
			}
			if cfg.FusionsEnabled && i+1+n < limit && fusableSecondOp[opcode.Opcode(runtime[i+1+n])] {
				planes.setFusionCandidate(i)
			}
		}

		i += 1 + n
	}

	return planes, nil
}

// Len returns the number of bytes in RuntimeBytes (the metadata
// trailer, if stripped, is not included).
func (a *AnalyzedBytecode) Len() Pc { return Pc(len(a.runtime)) }

// FullBytes returns the complete original input, trailer included.
func (a *AnalyzedBytecode) FullBytes() []byte { return a.full }

// RuntimeBytes returns the runtime region. Without a deployment
// preamble this is exactly the validated and indexed region; with one,
// it also holds the trailer, which is not validated and carries no
// op-start or push-data bits.
func (a *AnalyzedBytecode) RuntimeBytes() []byte { return a.runtime }

// ByteAt returns the byte at pc and whether pc is in range.
func (a *AnalyzedBytecode) ByteAt(pc Pc) (byte, bool) {
	if int(pc) >= len(a.runtime) {
		return 0, false
	}
	return a.runtime[pc], true
}

// ByteAtUnchecked returns the byte at pc without a bounds check. Callers
// must first establish pc < a.Len(), typically via IsOpStart.
func (a *AnalyzedBytecode) ByteAtUnchecked(pc Pc) byte { return a.runtime[pc] }

// IsOpStart reports whether pc is the first byte of an instruction
// rather than PUSH operand data or trailer padding.
func (a *AnalyzedBytecode) IsOpStart(pc Pc) bool { return a.planes.opStart.test(pc) }

// IsPushData reports whether pc falls inside a PUSH instruction's
// immediate operand.
func (a *AnalyzedBytecode) IsPushData(pc Pc) bool { return a.planes.pushData.test(pc) }

// IsValidJumpdest reports whether pc is a JUMPDEST at an instruction
// boundary — the only kind of jump target JUMP/JUMPI may legally land
// on.
func (a *AnalyzedBytecode) IsValidJumpdest(pc Pc) bool { return a.planes.jumpdest.test(pc) }

// IsFusionCandidate reports whether the PUSH instruction at pc is
// immediately followed by an opcode its handler can fuse with.
func (a *AnalyzedBytecode) IsFusionCandidate(pc Pc) bool { return a.planes.fusionCandidate.test(pc) }

// PackedFlags returns the combined per-byte flag nibble at pc (bit 0
// push-data, bit 1 op-start, bit 2 jumpdest, bit 3 fusion-candidate),
// for callers that want all four planes in a single load.
func (a *AnalyzedBytecode) PackedFlags(pc Pc) byte {
	if int(pc) >= len(a.planes.packedFlags) {
		return 0
	}
	return a.planes.packedFlags[pc]
}

// PopcountRange returns the number of set bits in the named plane over
// [start, end).
func (a *AnalyzedBytecode) PopcountRange(which Plane, start, end Pc) uint {
	return a.planes.plane(which).PopcountRange(start, end)
}

// FindNextSet returns the first set bit in the named plane at or after
// start.
func (a *AnalyzedBytecode) FindNextSet(which Plane, start Pc) (Pc, bool) {
	return a.planes.plane(which).FindNextSet(start)
}

// InstructionSize returns the total width (opcode plus operand) of the
// instruction starting at pc. Callers must ensure pc is an op-start.
func (a *AnalyzedBytecode) InstructionSize(pc Pc) Pc {
	op := opcode.Opcode(a.runtime[pc])
	return 1 + Pc(op.PushSize())
}

// NextPC returns the op-start following pc, or (0, false) at the end of
// the validated region.
func (a *AnalyzedBytecode) NextPC(pc Pc) (Pc, bool) {
	next := pc + a.InstructionSize(pc)
	if int(next) >= a.validateUpTo {
		return 0, false
	}
	return next, true
}

// ReadPush returns the zero-extended operand of the PUSHn instruction
// at pc, or (Word{}, false) if pc is not exactly a PUSH of size n.
func (a *AnalyzedBytecode) ReadPush(pc Pc, n int) (Word, bool) {
	var w Word
	if n < 1 || n > 32 || int(pc) >= len(a.runtime) || !a.IsOpStart(pc) {
		return w, false
	}
	op := opcode.Opcode(a.runtime[pc])
	if !op.IsPush() || op.PushSize() != n {
		return w, false
	}
	end := int(pc) + 1 + n
	if end > len(a.runtime) {
		return w, false
	}
	w.SetBytes(a.runtime[int(pc)+1 : end])
	return w, true
}

// Trailer returns the detected metadata trailer, if any.
func (a *AnalyzedBytecode) Trailer() (*trailer.Descriptor, bool) {
	if a.trailerDesc == nil {
		return nil, false
	}
	return a.trailerDesc, true
}

// CodeHash returns the Keccak-256 hash of RuntimeBytes (trailer
// excluded, when one was stripped), so that two inputs without a
// deployment preamble whose only difference is compiler-appended
// metadata share a CodeHash. With a deployment preamble the trailer is
// part of RuntimeBytes and therefore of the hash. It is
// computed lazily and memoized, the only mutation permitted on an
// otherwise immutable value.
func (a *AnalyzedBytecode) CodeHash() [32]byte {
	a.hashOnce.Do(func() {
		h := sha3.NewLegacyKeccak256()
		h.Write(a.runtime)
		h.Sum(a.hash[:0])
	})
	return a.hash
}
