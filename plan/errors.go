package plan

import "errors"

// Sentinel errors, in the style analysis/errors.go uses: checked with
// errors.Is, never inspected by type.
var (
	// ErrIndexOutOfBounds is returned by bounds-checked accessors.
	// Querying a plan with an in-range index is infallible; this is
	// reserved for the few accessors (like Constant) that are called
	// with caller-supplied, not plan-derived, indices.
	ErrIndexOutOfBounds = errors.New("plan: index out of bounds")
)
