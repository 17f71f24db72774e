package rdf

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/xxh3"
)

// Hash128 computes a 128-bit xxh3 hash of s, used both for interning
// long lexical forms in a triples source's term dictionary and for
// deriving deterministic blank labels.
func Hash128(s string) [16]byte {
	h := xxh3.Hash128([]byte(s))
	var out [16]byte
	binary.BigEndian.PutUint64(out[0:8], h.Hi)
	binary.BigEndian.PutUint64(out[8:16], h.Lo)
	return out
}

// DeterministicBlankLabel implements BNODE(s) (spec §4.2): the same input
// string always yields the same blank label within a process, without
// requiring a lookup table.
func DeterministicBlankLabel(s string) string {
	h := Hash128("bnode:" + s)
	return "b" + hex.EncodeToString(h[:])
}
