package analysis

import "errors"

// Sentinel errors, checked with errors.Is at call sites.
var (
	// ErrBytecodeTooLarge is returned by AnalyzeRuntime when the input
	// exceeds Config.MaxRuntimeSize (EIP-170).
	ErrBytecodeTooLarge = errors.New("analysis: runtime bytecode exceeds maximum size")
	// ErrInitcodeTooLarge is returned by AnalyzeInitcode when the input
	// exceeds Config.MaxInitcodeSize (EIP-3860).
	ErrInitcodeTooLarge = errors.New("analysis: initcode exceeds maximum size")
	// ErrTruncatedPush is returned when a PUSHn instruction's operand runs
	// past the end of the validated region.
	ErrTruncatedPush = errors.New("analysis: truncated PUSH operand")
	// ErrAllocationFailure names the allocation-failure error kind. No
	// function in this package returns it: every buffer is sized from
	// the input's length, and Go has no recoverable out-of-memory signal.
	ErrAllocationFailure = errors.New("analysis: derived buffer size overflow")
)
