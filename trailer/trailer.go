// Package trailer detects the optional CBOR-encoded compiler metadata
// suffix Solidity (and compatible compilers) append to deployed bytecode.
//
// Detection never fails to the caller: any deviation from the expected
// shape simply means "no trailer", not an error.
package trailer

import (
	"encoding/binary"

	"github.com/fxamacker/cbor/v2"
)

// Kind identifies which hash scheme the trailer's metadata hash uses.
type Kind int

const (
	KindIPFS Kind = iota
	KindSwarm0
	KindSwarm1
)

func (k Kind) String() string {
	switch k {
	case KindIPFS:
		return "ipfs"
	case KindSwarm0:
		return "bzzr0"
	case KindSwarm1:
		return "bzzr1"
	default:
		return "unknown"
	}
}

// CompilerVersion is the optional 3-byte solc version triple.
type CompilerVersion struct {
	Present              bool
	Major, Minor, Patch byte
}

// Descriptor describes a detected trailer.
type Descriptor struct {
	// LengthInBytes is the trailer's total size, including the trailing
	// 2-byte length suffix itself.
	LengthInBytes  int
	Kind           Kind
	CompilerVersion CompilerVersion
}

const (
	lengthSuffixSize = 2
	// minimumBodySize must fit a 1-entry CBOR map header, the shortest
	// recognized key ("ipfs", 4 bytes), a byte-string header, and the
	// smallest accepted hash (32 bytes, the bzzr0/bzzr1 case).
	minimumBodySize = 1 + 1 + 4 + 2 + 32
	minimumTrailerSize = minimumBodySize + lengthSuffixSize
)

var hashLength = map[string]int{
	"ipfs":  34,
	"bzzr0": 32,
	"bzzr1": 32,
}

var kindOf = map[string]Kind{
	"ipfs":  KindIPFS,
	"bzzr0": KindSwarm0,
	"bzzr1": KindSwarm1,
}

// Detect inspects the tail of code for a CBOR trailer. It returns
// (descriptor, true) on a structurally valid match, or (nil, false) for
// any other input — including code with no trailer at all.
func Detect(code []byte) (*Descriptor, bool) {
	if len(code) < minimumTrailerSize {
		return nil, false
	}

	tail := code[len(code)-lengthSuffixSize:]
	length := int(binary.BigEndian.Uint16(tail))
	if length+lengthSuffixSize > len(code) || length < minimumBodySize {
		return nil, false
	}

	bodyStart := len(code) - lengthSuffixSize - length
	body := code[bodyStart : len(code)-lengthSuffixSize]

	entries := map[string]cbor.RawMessage{}
	if err := cbor.Unmarshal(body, &entries); err != nil {
		return nil, false
	}
	if len(entries) != 1 && len(entries) != 2 {
		return nil, false
	}

	var hashKey string
	hashCount := 0
	for key := range entries {
		if _, ok := kindOf[key]; ok {
			hashKey = key
			hashCount++
		}
	}
	if hashCount != 1 {
		return nil, false
	}

	var hashBytes []byte
	if err := cbor.Unmarshal(entries[hashKey], &hashBytes); err != nil {
		return nil, false
	}
	if len(hashBytes) != hashLength[hashKey] {
		return nil, false
	}

	desc := &Descriptor{
		LengthInBytes: length + lengthSuffixSize,
		Kind:          kindOf[hashKey],
	}

	switch len(entries) {
	case 1:
		// nothing else to validate
	case 2:
		solcRaw, ok := entries["solc"]
		if !ok {
			return nil, false
		}
		var solc []byte
		if err := cbor.Unmarshal(solcRaw, &solc); err != nil || len(solc) != 3 {
			return nil, false
		}
		desc.CompilerVersion = CompilerVersion{Present: true, Major: solc[0], Minor: solc[1], Patch: solc[2]}
	}

	return desc, true
}
