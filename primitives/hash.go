// Package primitives provides the hash and fixed-width integer building
// blocks shared by the secret, trie, and wormhole packages: SHA-256 and
// Keccak-256 wrappers, and a checked 256-bit unsigned integer.
package primitives

import (
	"crypto/sha256"

	"github.com/wormhole-zk/wormhole-guest/crypto"
)

// Sha256 hashes the concatenation of data with SHA-256.
func Sha256(data ...[]byte) [32]byte {
	h := sha256.New()
	for _, b := range data {
		h.Write(b)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// Keccak256 hashes the concatenation of data with Keccak-256. It delegates
// to the package that already wraps golang.org/x/crypto/sha3, so the choice
// of hash library lives in exactly one place.
func Keccak256(data ...[]byte) [32]byte {
	var out [32]byte
	copy(out[:], crypto.Keccak256(data...))
	return out
}
