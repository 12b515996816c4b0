package wormhole

import (
	"errors"

	"github.com/wormhole-zk/wormhole-guest/log"
)

// ExecuteLogged runs Execute and, on failure, logs which error kind was hit
// at Warn level together with the withdrawal index -- no secret bytes, no
// proof bytes. It exists for host-side tooling (a CLI dry-run, a test
// harness) that wants stage visibility; the guest entrypoint calls Execute
// directly and never links this package's logger.
func ExecuteLogged(logger *log.Logger, input *ProgramInput) (*ProgramOutput, error) {
	out, err := Execute(input)
	if err != nil && logger != nil {
		logger.Warn("wormhole execute failed",
			"error_kind", errorKind(err),
			"withdrawal_index", input.WithdrawalIndex.String(),
		)
	}
	return out, err
}

// errorKind maps err to the name of the top-level sentinel it wraps, for
// logging a coarse category without leaking any wrapped detail.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSecret):
		return "InvalidSecret"
	case errors.Is(err, ErrInvalidWithdrawAmount):
		return "InvalidWithdrawAmount"
	case errors.Is(err, ErrInconsistentFirstWithdrawal):
		return "InconsistentFirstWithdrawal"
	case errors.Is(err, ErrNullifierAccountMissing):
		return "NullifierAccountMissing"
	case errors.Is(err, ErrRLP):
		return "Rlp"
	case errors.Is(err, ErrProof):
		return "Proof"
	default:
		return "Unknown"
	}
}
