package analysis

import "github.com/bits-and-blooms/bitset"

// Pc is a program counter / byte offset into analyzed code. It is kept
// wide (not narrowed to uint16, even though EIP-170's 24,576-byte limit
// would fit) so that a Config with a raised MaxRuntimeSize never
// silently wraps.
type Pc uint32

// Plane selects one of the four parallel boolean analyses produced by
// a single validation pass, for use with the generic range/search
// helpers below.
type Plane int

const (
	PlaneOpStart Plane = iota
	PlanePushData
	PlaneJumpdest
	PlaneFusionCandidate
)

const (
	flagPushData        byte = 1 << 0
	flagOpStart         byte = 1 << 1
	flagJumpdest        byte = 1 << 2
	flagFusionCandidate byte = 1 << 3
)

// bitmap wraps a bits-and-blooms/bitset.BitSet with the range-popcount
// and next-set-bit queries that are equally useful against any of the
// four planes below.
type bitmap struct {
	bits *bitset.BitSet
}

func newBitmap(n int) bitmap {
	return bitmap{bits: bitset.New(uint(n))}
}

func (m bitmap) test(i Pc) bool {
	if m.bits == nil {
		return false
	}
	return m.bits.Test(uint(i))
}

func (m bitmap) set(i Pc) {
	m.bits.Set(uint(i))
}

// PopcountRange returns the number of set bits in [start, end).
func (m bitmap) PopcountRange(start, end Pc) uint {
	if m.bits == nil || end <= start {
		return 0
	}
	hi := m.bits.Rank(uint(end) - 1)
	var lo uint
	if start > 0 {
		lo = m.bits.Rank(uint(start) - 1)
	}
	return hi - lo
}

// FindNextSet returns the first set bit at or after start.
func (m bitmap) FindNextSet(start Pc) (Pc, bool) {
	if m.bits == nil {
		return 0, false
	}
	idx, ok := m.bits.NextSet(uint(start))
	return Pc(idx), ok
}

// bitPlanes holds the four dense boolean analyses produced by a single
// linear validation pass, plus the optional fused 4-bit-per-byte plane
// used for single-load combined reads. bits-and-blooms/bitset backs the
// four primary planes so range popcount and next-set-bit queries hit
// word-level popcount/ctz instructions; PackedFlags has no suitable
// library backing it (it is a derived, denormalized convenience, not
// an independent analysis) so it is a hand-rolled byte slice.
type bitPlanes struct {
	length          int
	opStart         bitmap
	pushData        bitmap
	jumpdest        bitmap
	fusionCandidate bitmap
	packedFlags     []byte
}

func newBitPlanes(n int) *bitPlanes {
	return &bitPlanes{
		length:          n,
		opStart:         newBitmap(n),
		pushData:        newBitmap(n),
		jumpdest:        newBitmap(n),
		fusionCandidate: newBitmap(n),
		packedFlags:     make([]byte, n),
	}
}

func (p *bitPlanes) setOpStart(i Pc) {
	p.opStart.set(i)
	p.packedFlags[i] |= flagOpStart
}

func (p *bitPlanes) setPushData(i Pc) {
	p.pushData.set(i)
	p.packedFlags[i] |= flagPushData
}

func (p *bitPlanes) setJumpdest(i Pc) {
	p.jumpdest.set(i)
	p.packedFlags[i] |= flagJumpdest
}

func (p *bitPlanes) setFusionCandidate(i Pc) {
	p.fusionCandidate.set(i)
	p.packedFlags[i] |= flagFusionCandidate
}

func (p *bitPlanes) plane(which Plane) bitmap {
	switch which {
	case PlaneOpStart:
		return p.opStart
	case PlanePushData:
		return p.pushData
	case PlaneJumpdest:
		return p.jumpdest
	case PlaneFusionCandidate:
		return p.fusionCandidate
	default:
		return bitmap{}
	}
}
