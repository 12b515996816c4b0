package wormhole

import (
	"github.com/wormhole-zk/wormhole-guest/core/types"
	"github.com/wormhole-zk/wormhole-guest/primitives"
	"github.com/wormhole-zk/wormhole-guest/secret"
)

// ProgramInput is consumed once, by Execute, and then discarded. Field order
// here is the field order of the Guest I/O binary profile (codec_guest.go)
// and of the off-guest JSON profile (codec_json.go); keep them in sync.
type ProgramInput struct {
	Secret secret.Secret

	DepositAmount             primitives.U256
	WithdrawAmount            primitives.U256
	CumulativeWithdrawnAmount primitives.U256
	WithdrawalIndex           primitives.U256

	StateRoot        types.Hash
	NullifierAddress types.Address

	DepositAccountProof            [][]byte
	NullifierAccountProof          [][]byte
	PreviousNullifierStorageProof [][]byte
}

// ProgramOutput is emitted once by Execute and written to the zkVM journal
// in exactly this field order.
type ProgramOutput struct {
	NullifierAddress types.Address
	StateRoot        types.Hash
	WithdrawAmount   primitives.U256

	CurrentNullifier                [32]byte
	CumulativeWithdrawnAmountHashed [32]byte
}
