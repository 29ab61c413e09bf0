package analysis

import "github.com/holiman/uint256"

// Word is a 256-bit EVM stack word, the natural representation for a
// PUSH operand or a static jump target. holiman/uint256 is the
// allocation-free 256-bit integer type the wider Go EVM ecosystem
// standardizes on.
type Word = uint256.Int
