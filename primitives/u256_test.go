package primitives

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckedAdd_Overflow(t *testing.T) {
	maxMinus1, ok := U256FromBig(new(big.Int).Sub(maxU256(), big.NewInt(1)))
	require.True(t, ok)
	two := U256FromUint64(2)

	_, ok = maxMinus1.CheckedAdd(two)
	require.False(t, ok, "MAX-1 + 2 must overflow")

	one := U256FromUint64(1)
	sum, ok := maxMinus1.CheckedAdd(one)
	require.True(t, ok)
	require.Equal(t, maxU256().String(), sum.ToBig().String())
}

func TestCheckedSub_Underflow(t *testing.T) {
	zero := U256FromUint64(0)
	one := U256FromUint64(1)

	_, ok := zero.CheckedSub(one)
	require.False(t, ok)

	diff, ok := U256FromUint64(5).CheckedSub(U256FromUint64(3))
	require.True(t, ok)
	require.Equal(t, uint64(2), diff.ToBig().Uint64())
}

func TestBytes32LE_RoundTrip(t *testing.T) {
	u := U256FromUint64(0x0102030405060708)
	le := u.Bytes32LE()
	got := U256FromBytesLE(le)
	require.True(t, u.Equal(got))

	// Low byte of the value should land at index 0 in the LE view.
	require.Equal(t, byte(0x08), le[0])
}

func TestIsZero(t *testing.T) {
	require.True(t, U256FromUint64(0).IsZero())
	require.False(t, U256FromUint64(1).IsZero())
}

func maxU256() *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	return max.Sub(max, big.NewInt(1))
}
