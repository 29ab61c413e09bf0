package analysis

import "github.com/klauspost/cpuid/v2"

// Config is the build-time/construction-time configuration surface for
// validation limits, fusion, and word-size tuning. It is a plain
// struct rather than compile-time generics, following the same
// construction-time-defaults convention a CLI's GetCallDefaults would.
type Config struct {
	// MaxRuntimeSize rejects longer runtime code with ErrBytecodeTooLarge.
	MaxRuntimeSize int
	// MaxInitcodeSize rejects longer initcode with ErrInitcodeTooLarge.
	// Must be >= MaxRuntimeSize.
	MaxInitcodeSize int
	// FusionsEnabled controls whether the validator sets fusion-candidate
	// bits and whether the advanced plan emits synthetic handlers.
	FusionsEnabled bool
	// WordSizeHint is the platform word width in bits (64, 128, or 256).
	// The advanced plan does not read it: it inlines PUSH1..PUSH8
	// operands and spills every wider operand to the constant pool,
	// whatever this value is.
	WordSizeHint int
	// VectorLength is the SIMD lane width (in bytes) for JUMPDEST
	// marking; 0 means none. DefaultConfig fills it in from the running
	// CPU. The validation pass in this package is scalar and does not
	// read it.
	VectorLength int
}

const (
	// DefaultMaxRuntimeSize is EIP-170's 24,576-byte limit.
	DefaultMaxRuntimeSize = 24576
	// DefaultMaxInitcodeSize is EIP-3860's 49,152-byte limit.
	DefaultMaxInitcodeSize = 49152
)

// DefaultConfig returns the production defaults: EIP-170/EIP-3860 size
// limits, fusion enabled, a 64-bit word hint, and a CPU-detected vector
// length.
func DefaultConfig() Config {
	return Config{
		MaxRuntimeSize:  DefaultMaxRuntimeSize,
		MaxInitcodeSize: DefaultMaxInitcodeSize,
		FusionsEnabled:  true,
		WordSizeHint:    64,
		VectorLength:    detectVectorLength(),
	}
}

// InitcodeGasCost returns the EIP-3860 per-word gas charge for initcode
// of the given length: 2 gas for every 32-byte word, rounded up.
func InitcodeGasCost(length int) uint64 {
	if length <= 0 {
		return 0
	}
	words := (uint64(length) + 31) / 32
	return words * 2
}

// detectVectorLength picks a JUMPDEST-marking SIMD lane width from the
// running CPU's feature set. It is only ever a hint: every bit-plane
// produced by this package is required to be bit-identical to the
// scalar algorithm regardless of this value.
func detectVectorLength() int {
	switch {
	case cpuid.CPU.Has(cpuid.AVX512F):
		return 64
	case cpuid.CPU.Has(cpuid.AVX2):
		return 32
	case cpuid.CPU.Has(cpuid.SSE2), cpuid.CPU.Has(cpuid.ASIMD):
		return 16
	default:
		return 0
	}
}
