package secret

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wormhole-zk/wormhole-guest/primitives"
)

// testSecretBytes is S1 from the testable-properties scenarios:
// the literal 8 bytes 0x0000000001305dc6.
func testSecretBytes(t *testing.T) []byte {
	t.Helper()
	b, err := hex.DecodeString("0000000001305dc6")
	require.NoError(t, err)
	return b
}

func TestValidate_S1(t *testing.T) {
	s := FromBytes(testSecretBytes(t))
	require.True(t, s.Validate())
}

func TestValidate_RejectsNonPOW(t *testing.T) {
	b := testSecretBytes(t)
	b[len(b)-1] ^= 0x01
	s := FromBytes(b)
	require.False(t, s.Validate())
}

func TestBurnAddress_Deterministic(t *testing.T) {
	s := FromBytes(testSecretBytes(t))
	a1 := s.BurnAddress()
	a2 := s.BurnAddress()
	require.Equal(t, a1, a2)
}

func TestNullifier_S2(t *testing.T) {
	s := FromBytes(testSecretBytes(t))

	got := s.NullifierUint64(0)
	want := primitives.Sha256([]byte{MagicNullifier}, s.Bytes(), make([]byte, 32))
	require.Equal(t, want, got)

	// U256-indexed path must agree with the uint64 convenience wrapper.
	require.Equal(t, got, s.Nullifier(primitives.U256FromUint64(0)))
}

func TestNullifier_VariesByIndex(t *testing.T) {
	s := FromBytes(testSecretBytes(t))
	n0 := s.NullifierUint64(0)
	n1 := s.NullifierUint64(1)
	require.NotEqual(t, n0, n1)
}

func TestFromBytes_RoundTrip(t *testing.T) {
	b := testSecretBytes(t)
	s := FromBytes(b)
	require.Equal(t, b, s.Bytes())
}

func TestFromBytes_PreservesLength(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03}
	s := FromBytes(b)
	require.Len(t, s.Bytes(), len(b))
}
