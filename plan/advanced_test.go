package plan

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evmts/bytecode-core/analysis"
	"github.com/evmts/bytecode-core/opcode"
)

func TestBuildAdvancedPlanFusesPushAdd(t *testing.T) {
	// PUSH1 5 ADD — scenario 6 from the boundary-behavior catalog.
	code := []byte{0x60, 0x05, 0x01}
	cfg := analysis.DefaultConfig()
	a, err := analysis.AnalyzeRuntime(code, cfg)
	require.NoError(t, err)
	require.True(t, a.IsFusionCandidate(0))

	handlers := make(HandlerTable[string])
	handlers[FusedPushAddInline] = "fused_push_add_inline"
	handlers[DispatchOp(opcode.ADD)] = "add"

	ap, err := BuildAdvancedPlan(a, handlers, cfg)
	require.NoError(t, err)
	require.Equal(t, 2, ap.StreamLen(), "expected a single fused handler+metadata cell pair")

	cell := ap.Cell(0)
	assert.Equal(t, CellHandler, cell.Tag)
	assert.Equal(t, "fused_push_add_inline", cell.Handler)
	assert.True(t, cell.HasMetadata)

	meta := ap.Metadata(0)
	assert.Equal(t, CellInlineValue, meta.Tag)
	assert.Equal(t, uint64(5), meta.Inline)

	idx, ok := ap.StreamIndexForPC(0)
	require.True(t, ok)
	assert.Equal(t, StreamIdx(0), idx)
}

func TestBuildAdvancedPlanPlainInstructionsAndLargePush(t *testing.T) {
	// PUSH32 <32 bytes> JUMPDEST STOP, fusion disabled.
	push := append([]byte{0x7f}, make([]byte, 32)...)
	push[1] = 0xff // distinguish the operand from an all-zero word
	code := append(push, 0x5b, 0x00)

	cfg := analysis.DefaultConfig()
	cfg.FusionsEnabled = false
	a, err := analysis.AnalyzeRuntime(code, cfg)
	require.NoError(t, err)

	handlers := make(HandlerTable[string])
	handlers[DispatchOp(opcode.PUSH32)] = "push32"
	handlers[DispatchOp(opcode.JUMPDEST)] = "jumpdest"
	handlers[DispatchOp(opcode.STOP)] = "stop"

	ap, err := BuildAdvancedPlan(a, handlers, cfg)
	require.NoError(t, err)
	// PUSH32 -> handler + constant-index cell; JUMPDEST -> handler + info
	// cell; STOP -> handler only. 5 cells total.
	require.Equal(t, 5, ap.StreamLen())

	pushCell := ap.Cell(0)
	assert.Equal(t, "push32", pushCell.Handler)
	assert.True(t, pushCell.HasMetadata)

	meta := ap.Metadata(0)
	require.Equal(t, CellConstantIndex, meta.Tag, "expected PUSH32 metadata to spill to the constant pool")
	assert.Equal(t, 1, ap.ConstantCount())

	val, err := ap.Constant(meta.ConstIdx)
	require.NoError(t, err)
	want := new(big.Int).Lsh(big.NewInt(0xff), 248)
	assert.Equal(t, 0, val.ToBig().Cmp(want), "expected the spilled constant to carry the distinguishing top byte")

	_, err = ap.Constant(uint32(ap.ConstantCount()))
	assert.True(t, errors.Is(err, ErrIndexOutOfBounds))

	jumpdestIdx, ok := ap.StreamIndexForPC(33)
	require.True(t, ok, "expected a stream index for the JUMPDEST at pc 33")
	jdCell := ap.Cell(jumpdestIdx)
	assert.Equal(t, "jumpdest", jdCell.Handler)
	assert.True(t, jdCell.HasMetadata)
	jdMeta := ap.Metadata(jumpdestIdx)
	assert.Equal(t, CellJumpdestInfo, jdMeta.Tag)

	stopIdx, ok := ap.StreamIndexForPC(34)
	require.True(t, ok, "expected a stream index for STOP")
	stopCell := ap.Cell(stopIdx)
	assert.Equal(t, "stop", stopCell.Handler)
	assert.False(t, stopCell.HasMetadata)
}

func TestNextInstructionAdvancesPastMetadata(t *testing.T) {
	code := []byte{0x60, 0x01, 0x00} // PUSH1 1 STOP
	cfg := analysis.DefaultConfig()
	a, err := analysis.AnalyzeRuntime(code, cfg)
	require.NoError(t, err)

	handlers := make(HandlerTable[string])
	handlers[DispatchOp(opcode.PUSH1)] = "push1"
	handlers[DispatchOp(opcode.STOP)] = "stop"

	ap, err := BuildAdvancedPlan(a, handlers, cfg)
	require.NoError(t, err)

	h, next := ap.NextInstruction(0)
	require.Equal(t, "push1", h)
	require.Equal(t, StreamIdx(2), next, "expected to skip the metadata cell")

	h, next = ap.NextInstruction(next)
	assert.Equal(t, "stop", h)
	assert.Equal(t, StreamIdx(3), next)
}
