// encoder_pool.go provides zero-reflection RLP encoding helpers for the
// small, fixed shapes the guest executor builds on every proof check: the
// four-field TrieAccount list and the raw 32-byte hash string it wraps the
// previous-nullifier storage value in. These avoid the general
// reflection-based EncodeToBytes path for code that runs once per proof
// check rather than once per process.
package rlp

import "encoding/binary"

// EncodeBytes32 encodes a fixed 32-byte value (hash, key) without reflection.
// It writes a 33-byte result: [0xa0 (0x80+32), data[32]].
func EncodeBytes32(data [32]byte) []byte {
	buf := make([]byte, 33)
	buf[0] = 0x80 + 32
	copy(buf[1:], data[:])
	return buf
}

// AppendUint64 appends the RLP encoding of a uint64 to dst and returns
// the extended slice. This is a zero-allocation fast path for building
// RLP payloads incrementally.
func AppendUint64(dst []byte, v uint64) []byte {
	if v == 0 {
		return append(dst, 0x80)
	}
	if v < 128 {
		return append(dst, byte(v))
	}
	b := putUintBE(v)
	dst = append(dst, 0x80+byte(len(b)))
	return append(dst, b...)
}

// AppendBytes appends the RLP encoding of a byte slice to dst.
func AppendBytes(dst, data []byte) []byte {
	n := len(data)
	if n == 1 && data[0] <= 0x7f {
		return append(dst, data[0])
	}
	if n <= 55 {
		dst = append(dst, 0x80+byte(n))
		return append(dst, data...)
	}
	lb := putUintBE(uint64(n))
	dst = append(dst, 0xb7+byte(len(lb)))
	dst = append(dst, lb...)
	return append(dst, data...)
}

// putUintBE encodes u as big-endian with no leading zeros.
func putUintBE(u uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	// Strip leading zeros.
	for i := 0; i < 8; i++ {
		if buf[i] != 0 {
			return buf[i:]
		}
	}
	return buf[7:] // u == 0, return single zero byte
}
