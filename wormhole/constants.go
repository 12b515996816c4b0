package wormhole

import "math/big"

// MaxDeposit is the deployment-wide deposit cap, enforced on-chain rather
// than by the guest. Defined here for completeness of the protocol
// constant set; Execute never reads it.
var MaxDeposit = new(big.Int).Mul(big.NewInt(32), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// WormholeTxType is the envelope type byte for the on-chain transaction
// that carries a Wormhole withdrawal proof. External to the guest.
const WormholeTxType = 5
