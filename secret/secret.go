// Package secret implements the Wormhole secret: a proof-of-work-gated byte
// string from which a burn address and a family of per-withdrawal
// nullifiers are derived.
package secret

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/wormhole-zk/wormhole-guest/primitives"
)

const (
	// MagicAddress salts burn-address derivation.
	MagicAddress byte = 0xfe
	// MagicNullifier salts nullifier derivation.
	MagicNullifier byte = 0x01
	// MagicPOW salts the proof-of-work hash.
	MagicPOW byte = 0x02
	// POWLogDifficulty is the number of low bits of the POW hash that must
	// be zero for a secret to validate.
	POWLogDifficulty = 24
)

// Length is the byte length Random draws. The spec does not tie the
// security argument to this value, but off-guest mining must fix one.
// A Secret itself is not fixed-width: it hashes exactly the bytes it was
// given, whatever their length.
const Length = 32

// Secret is an opaque byte string gated by a proof-of-work invariant.
// FromBytes never validates; call Validate explicitly.
type Secret struct {
	b []byte
}

// FromBytes constructs a Secret from b without checking its proof-of-work,
// matching the "unchecked" constructor the spec requires for test vectors
// and deserialization of untrusted input. The secret's exact bytes are
// hashed as given -- no padding or truncation -- since the proof-of-work
// and derivation hashes are defined over the caller's literal byte string.
func FromBytes(b []byte) Secret {
	s := Secret{b: make([]byte, len(b))}
	copy(s.b, b)
	return s
}

// Bytes returns the underlying byte string.
func (s Secret) Bytes() []byte {
	out := make([]byte, len(s.b))
	copy(out, s.b)
	return out
}

// Validate reports whether s satisfies the proof-of-work invariant:
// SHA256(MagicPOW ‖ secret), read as a big-endian 256-bit integer, is
// divisible by 2^POWLogDifficulty (its low 24 bits are zero).
//
// The check always hashes and always inspects all POWLogDifficulty/8
// trailing bytes; it does not short-circuit on the first nonzero byte, so
// its running shape does not depend on how close the secret is to valid.
func (s Secret) Validate() bool {
	h := primitives.Sha256([]byte{MagicPOW}, s.b)
	var acc byte
	for i := 0; i < POWLogDifficulty/8; i++ {
		acc |= h[len(h)-1-i]
	}
	return acc == 0
}

// Random draws uniform bytes and retries until Validate succeeds. Expected
// draws are 2^POWLogDifficulty ≈ 16.8 million. This is off-guest-only
// tooling: the guest itself never mines a secret, only validates one it was
// handed.
func Random() (Secret, error) {
	var buf [Length]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return Secret{}, fmt.Errorf("secret: random draw failed: %w", err)
		}
		s := FromBytes(buf[:])
		if s.Validate() {
			return s, nil
		}
	}
}

// BurnAddress returns the 20-byte Ethereum address SHA256(MagicAddress ‖
// secret)[12:32].
func (s Secret) BurnAddress() [20]byte {
	h := primitives.Sha256([]byte{MagicAddress}, s.b)
	var addr [20]byte
	copy(addr[:], h[12:32])
	return addr
}

// Nullifier returns the 32-byte nullifier for withdrawal index i:
// SHA256(MagicNullifier ‖ secret ‖ LE32(i)).
func (s Secret) Nullifier(index primitives.U256) [32]byte {
	le := index.Bytes32LE()
	return primitives.Sha256([]byte{MagicNullifier}, s.b, le[:])
}

// NullifierUint64 is a convenience wrapper over Nullifier for small,
// statically-known indices such as test vectors.
func (s Secret) NullifierUint64(index uint64) [32]byte {
	var le [32]byte
	binary.LittleEndian.PutUint64(le[:8], index)
	return primitives.Sha256([]byte{MagicNullifier}, s.b, le[:])
}
