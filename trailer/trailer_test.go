package trailer

import (
	"encoding/binary"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

func buildTrailer(t *testing.T, body map[string]interface{}) []byte {
	t.Helper()
	encoded, err := cbor.Marshal(body)
	if err != nil {
		t.Fatalf("failed to encode fixture trailer: %v", err)
	}
	suffix := make([]byte, 2)
	binary.BigEndian.PutUint16(suffix, uint16(len(encoded)))
	return append(encoded, suffix...)
}

func TestDetectIPFSWithSolcVersion(t *testing.T) {
	hash := make([]byte, 34)
	for i := range hash {
		hash[i] = byte(i)
	}
	trailer := buildTrailer(t, map[string]interface{}{
		"ipfs": hash,
		"solc": []byte{0, 8, 21},
	})
	code := append([]byte{0x60, 0x80, 0x60, 0x40}, trailer...)

	desc, ok := Detect(code)
	if !ok {
		t.Fatal("expected trailer to be detected")
	}
	if desc.Kind != KindIPFS {
		t.Errorf("expected KindIPFS, got %v", desc.Kind)
	}
	if !desc.CompilerVersion.Present || desc.CompilerVersion.Minor != 8 || desc.CompilerVersion.Patch != 21 {
		t.Errorf("unexpected compiler version: %+v", desc.CompilerVersion)
	}
	if desc.LengthInBytes != len(trailer) {
		t.Errorf("LengthInBytes = %d, want %d", desc.LengthInBytes, len(trailer))
	}
}

func TestDetectSwarmWithoutSolc(t *testing.T) {
	hash := make([]byte, 32)
	trailer := buildTrailer(t, map[string]interface{}{"bzzr1": hash})
	code := append([]byte{0x00}, trailer...)

	desc, ok := Detect(code)
	if !ok {
		t.Fatal("expected trailer to be detected")
	}
	if desc.Kind != KindSwarm1 {
		t.Errorf("expected KindSwarm1, got %v", desc.Kind)
	}
	if desc.CompilerVersion.Present {
		t.Errorf("expected no compiler version")
	}
}

func TestDetectNoneForPlainCode(t *testing.T) {
	code := []byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}
	if _, ok := Detect(code); ok {
		t.Fatal("expected no trailer for plain bytecode")
	}
}

func TestDetectRejectsWrongHashLength(t *testing.T) {
	trailer := buildTrailer(t, map[string]interface{}{"ipfs": make([]byte, 32)})
	code := append([]byte{0x00}, trailer...)
	if _, ok := Detect(code); ok {
		t.Fatal("expected rejection of a 32-byte ipfs hash (must be 34)")
	}
}

func TestDetectRejectsTooShortInput(t *testing.T) {
	if _, ok := Detect([]byte{0x00, 0x01, 0x02}); ok {
		t.Fatal("expected no trailer for tiny input")
	}
}

func TestDetectRejectsClaimedLengthExceedingInput(t *testing.T) {
	code := make([]byte, 10)
	binary.BigEndian.PutUint16(code[8:], 0xffff)
	if _, ok := Detect(code); ok {
		t.Fatal("expected rejection when claimed length exceeds input")
	}
}

func TestDetectRejectsUnknownKey(t *testing.T) {
	trailer := buildTrailer(t, map[string]interface{}{"sha1": make([]byte, 34)})
	code := append([]byte{0x00}, trailer...)
	if _, ok := Detect(code); ok {
		t.Fatal("expected rejection of an unrecognized key")
	}
}
