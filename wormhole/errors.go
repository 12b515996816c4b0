package wormhole

import "errors"

// The six top-level error kinds the executor returns. Each carries no
// sensitive data (no secret bytes, no proof bytes) -- only enough context
// to name which check failed.
var (
	// ErrInvalidSecret: the secret failed its proof-of-work check.
	ErrInvalidSecret = errors.New("wormhole: invalid secret")
	// ErrInvalidWithdrawAmount: withdraw_amount is zero, the running total
	// overflows 256 bits, or it exceeds the deposit.
	ErrInvalidWithdrawAmount = errors.New("wormhole: invalid withdraw amount")
	// ErrInconsistentFirstWithdrawal: withdrawal_index == 0 but
	// cumulative_withdrawn_amount or previous_nullifier_storage_proof is
	// non-empty.
	ErrInconsistentFirstWithdrawal = errors.New("wormhole: inconsistent first withdrawal")
	// ErrNullifierAccountMissing: the terminal node of the nullifier
	// account proof is not a leaf (or the proof is empty).
	ErrNullifierAccountMissing = errors.New("wormhole: nullifier account missing")
	// ErrRLP: an RLP decoding failure.
	ErrRLP = errors.New("wormhole: rlp decode failed")
	// ErrProof: an MPT verification failure. Wraps one of the trie
	// package's sub-kinds (trie.ErrNodeHashMismatch, trie.ErrPathMismatch,
	// ...); test with errors.Is against either this sentinel or the
	// specific trie sub-kind.
	ErrProof = errors.New("wormhole: proof verification failed")
)
