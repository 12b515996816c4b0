package wormhole

import (
	"errors"
	"fmt"

	"github.com/wormhole-zk/wormhole-guest/core/types"
	"github.com/wormhole-zk/wormhole-guest/primitives"
	"github.com/wormhole-zk/wormhole-guest/rlp"
	"github.com/wormhole-zk/wormhole-guest/trie"
)

// Execute runs the fixed seven-step verification sequence: secret validity,
// amount invariants, first-withdrawal shape, the deposit account proof, the
// nullifier-registry account proof, the previous-nullifier inclusion proof,
// and output construction. It is a pure function of input: no I/O, no
// clock, no RNG, and it returns one of the six sentinel errors in
// errors.go on failure -- never a partial output.
func Execute(input *ProgramInput) (*ProgramOutput, error) {
	// 1. Secret validity.
	if !input.Secret.Validate() {
		return nil, ErrInvalidSecret
	}

	// 2. Amount validation.
	if input.WithdrawAmount.IsZero() {
		return nil, ErrInvalidWithdrawAmount
	}
	next, ok := input.WithdrawAmount.CheckedAdd(input.CumulativeWithdrawnAmount)
	if !ok {
		return nil, ErrInvalidWithdrawAmount
	}
	if next.Cmp(input.DepositAmount) > 0 {
		return nil, ErrInvalidWithdrawAmount
	}

	// 3. First-withdrawal shape.
	isFirst := input.WithdrawalIndex.IsZero()
	if isFirst {
		if !input.CumulativeWithdrawnAmount.IsZero() {
			return nil, ErrInconsistentFirstWithdrawal
		}
		if len(input.PreviousNullifierStorageProof) != 0 {
			return nil, ErrInconsistentFirstWithdrawal
		}
	}

	// 4. Deposit proof: the burn account must hold exactly deposit_amount,
	// with zero nonce and no storage/code.
	burnAddr := input.Secret.BurnAddress()
	depositKey := primitives.Keccak256(burnAddr[:])
	expectedDeposit := trie.EncodeAccountFields(0, input.DepositAmount.ToBig(), types.EmptyRootHash, types.EmptyCodeHash)
	if err := trie.VerifyLeafExpected(input.StateRoot, depositKey[:], input.DepositAccountProof, expectedDeposit); err != nil {
		return nil, wrapProofErr(err)
	}

	// 5. Nullifier-registry account proof. Unlike step 4 the leaf value
	// isn't known in advance: VerifyLeafProof returns it directly, and a nil
	// return with no error means the proof demonstrates the key's absence.
	// VerifyLeafProof also rejects a terminal value that came from a
	// branch's value slot rather than a short-node Leaf, per ErrNotLeaf.
	nullifierKey := primitives.Keccak256(input.NullifierAddress[:])
	accountRLP, err := trie.VerifyLeafProof(input.StateRoot, nullifierKey[:], input.NullifierAccountProof)
	if err != nil {
		if errors.Is(err, trie.ErrProofIncomplete) || errors.Is(err, trie.ErrNotLeaf) {
			return nil, fmt.Errorf("%w: %w", ErrNullifierAccountMissing, err)
		}
		return nil, wrapProofErr(err)
	}
	if accountRLP == nil {
		return nil, fmt.Errorf("%w: terminal node is not a leaf", ErrNullifierAccountMissing)
	}
	_, _, nullifierStorageRoot, _, err := trie.DecodeAccountFields(accountRLP)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRLP, err)
	}

	cumulativeBE := input.CumulativeWithdrawnAmount.Bytes32BE()
	cumulativeHashed := primitives.Keccak256(cumulativeBE[:])

	// 6. Previous-nullifier inclusion, only for withdrawal_index > 0.
	if !isFirst {
		one := primitives.U256FromUint64(1)
		prevIndex, ok := input.WithdrawalIndex.CheckedSub(one)
		if !ok {
			// Unreachable: isFirst is false, so WithdrawalIndex >= 1.
			return nil, ErrInvalidWithdrawAmount
		}
		prevNullifier := input.Secret.Nullifier(prevIndex)
		slotKey := primitives.Keccak256(prevNullifier[:])
		expectedSlot := rlp.EncodeBytes32(cumulativeHashed)
		if err := trie.VerifyExpected(nullifierStorageRoot, slotKey[:], input.PreviousNullifierStorageProof, expectedSlot); err != nil {
			return nil, wrapProofErr(err)
		}
	}

	// 7. Emit output.
	return &ProgramOutput{
		NullifierAddress:                input.NullifierAddress,
		StateRoot:                       input.StateRoot,
		WithdrawAmount:                  input.WithdrawAmount,
		CurrentNullifier:                input.Secret.Nullifier(input.WithdrawalIndex),
		CumulativeWithdrawnAmountHashed: cumulativeHashed,
	}, nil
}

// wrapProofErr folds an MPT verification error into the coarse ErrProof
// sentinel while preserving the specific trie sub-kind for errors.Is.
func wrapProofErr(err error) error {
	return fmt.Errorf("%w: %w", ErrProof, err)
}
