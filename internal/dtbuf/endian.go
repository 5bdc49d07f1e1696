// Package dtbuf contains endian-safe decoding and overflow-safe bounds
// helpers shared by the raw and streaming layers. Flattened Device Trees are
// big-endian throughout, so every multi-byte read here goes through
// encoding/binary rather than relying on host order.
package dtbuf

import "encoding/binary"

// U32 reads a big-endian uint32 from b. Returns 0 when b is too short.
func U32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// U64 reads a big-endian uint64 from b. Returns 0 when b is too short.
func U64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// PutU32 encodes v as big-endian into b, which must have length >= 4.
func PutU32(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

// PutU64 encodes v as big-endian into b, which must have length >= 8.
func PutU64(b []byte, v uint64) {
	binary.BigEndian.PutUint64(b, v)
}
