package primitives

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// U256 is a 256-bit unsigned integer with checked (non-wrapping) arithmetic.
// It wraps uint256.Int rather than math/big.Int because the guest's amount
// and index arithmetic needs fixed-width overflow detection and fixed-width
// byte views, not arbitrary precision.
type U256 struct {
	v uint256.Int
}

// U256FromUint64 builds a U256 from a uint64.
func U256FromUint64(x uint64) U256 {
	var u U256
	u.v.SetUint64(x)
	return u
}

// U256FromBig converts a *big.Int to a U256. Returns false if b is negative
// or does not fit in 256 bits.
func U256FromBig(b *big.Int) (U256, bool) {
	if b == nil {
		return U256{}, true
	}
	if b.Sign() < 0 {
		return U256{}, false
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return U256{}, false
	}
	return U256{v: *v}, true
}

// U256FromBytesBE interprets b as a big-endian integer. If len(b) > 32, only
// the last 32 bytes are used, as uint256.Int.SetBytes does.
func U256FromBytesBE(b []byte) U256 {
	var u U256
	u.v.SetBytes(b)
	return u
}

// U256FromBytesLE interprets b as a 32-byte little-endian integer.
func U256FromBytesLE(b [32]byte) U256 {
	var be [32]byte
	for i := range b {
		be[31-i] = b[i]
	}
	var u U256
	u.v.SetBytes(be[:])
	return u
}

// Bytes32BE returns the big-endian, zero-padded 32-byte representation.
func (u U256) Bytes32BE() [32]byte {
	return u.v.Bytes32()
}

// Bytes32LE returns the little-endian, zero-padded 32-byte representation.
func (u U256) Bytes32LE() [32]byte {
	be := u.v.Bytes32()
	var le [32]byte
	for i := range be {
		le[31-i] = be[i]
	}
	return le
}

// ToBig converts u to a *big.Int.
func (u U256) ToBig() *big.Int {
	return u.v.ToBig()
}

// IsZero reports whether u is zero.
func (u U256) IsZero() bool {
	return u.v.IsZero()
}

// Cmp compares u and other: -1, 0, or 1.
func (u U256) Cmp(other U256) int {
	return u.v.Cmp(&other.v)
}

// Equal reports whether u and other hold the same value.
func (u U256) Equal(other U256) bool {
	return u.Cmp(other) == 0
}

// CheckedAdd returns u+other and true, or an unspecified value and false if
// the sum overflows 256 bits. The computation does not branch on the
// operands' values beyond the single overflow check uint256 itself performs,
// so its shape does not depend on secret data.
func (u U256) CheckedAdd(other U256) (U256, bool) {
	var sum uint256.Int
	_, overflow := sum.AddOverflow(&u.v, &other.v)
	if overflow {
		return U256{}, false
	}
	return U256{v: sum}, true
}

// CheckedSub returns u-other and true, or an unspecified value and false if
// the subtraction would underflow (other > u).
func (u U256) CheckedSub(other U256) (U256, bool) {
	var diff uint256.Int
	_, underflow := diff.SubOverflow(&u.v, &other.v)
	if underflow {
		return U256{}, false
	}
	return U256{v: diff}, true
}

// String returns the base-10 decimal representation.
func (u U256) String() string {
	return u.v.Dec()
}

// MarshalJSON encodes u as a "0x"-prefixed hex string with no leading
// zeros (the off-guest JSON profile's integer encoding), matching the
// convention the ecosystem uses for 256-bit balances.
func (u U256) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.v.Hex())
}

// UnmarshalJSON decodes a "0x"-prefixed hex string into u.
func (u *U256) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if s == "" {
		s = "0"
	}
	v, err := uint256.FromHex("0x" + s)
	if err != nil {
		return fmt.Errorf("primitives: invalid U256 hex value %q: %w", string(data), err)
	}
	u.v = *v
	return nil
}
