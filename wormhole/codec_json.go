package wormhole

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/wormhole-zk/wormhole-guest/core/types"
	"github.com/wormhole-zk/wormhole-guest/primitives"
	"github.com/wormhole-zk/wormhole-guest/secret"
)

// jsonInput mirrors ProgramInput field-for-field, camelCase, for the
// off-guest JSON profile. Hash/Address/U256 marshal as "0x"-hex via their
// own MarshalJSON/UnmarshalJSON; proof lists marshal as arrays of "0x"-hex
// strings since encoding/json has no native byte-list-of-byte-lists form.
type jsonInput struct {
	Secret                        string     `json:"secret"`
	DepositAmount                 primitives.U256 `json:"depositAmount"`
	WithdrawAmount                primitives.U256 `json:"withdrawAmount"`
	CumulativeWithdrawnAmount     primitives.U256 `json:"cumulativeWithdrawnAmount"`
	WithdrawalIndex               primitives.U256 `json:"withdrawalIndex"`
	StateRoot                     types.Hash      `json:"stateRoot"`
	NullifierAddress              types.Address   `json:"nullifierAddress"`
	DepositAccountProof           []string        `json:"depositAccountProof"`
	NullifierAccountProof         []string        `json:"nullifierAccountProof"`
	PreviousNullifierStorageProof []string        `json:"previousNullifierStorageProof"`
}

type jsonOutput struct {
	NullifierAddress                types.Address `json:"nullifierAddress"`
	StateRoot                       types.Hash    `json:"stateRoot"`
	WithdrawAmount                  primitives.U256 `json:"withdrawAmount"`
	CurrentNullifier                string        `json:"currentNullifier"`
	CumulativeWithdrawnAmountHashed string        `json:"cumulativeWithdrawnAmountHashed"`
}

// EncodeJSON renders a ProgramInput in the off-guest JSON profile.
func EncodeJSON(in *ProgramInput) ([]byte, error) {
	j := jsonInput{
		Secret:                        hexString(in.Secret.Bytes()),
		DepositAmount:                 in.DepositAmount,
		WithdrawAmount:                in.WithdrawAmount,
		CumulativeWithdrawnAmount:     in.CumulativeWithdrawnAmount,
		WithdrawalIndex:               in.WithdrawalIndex,
		StateRoot:                     in.StateRoot,
		NullifierAddress:              in.NullifierAddress,
		DepositAccountProof:           hexStrings(in.DepositAccountProof),
		NullifierAccountProof:         hexStrings(in.NullifierAccountProof),
		PreviousNullifierStorageProof: hexStrings(in.PreviousNullifierStorageProof),
	}
	return json.Marshal(j)
}

// DecodeJSON is the inverse of EncodeJSON.
func DecodeJSON(data []byte) (*ProgramInput, error) {
	var j jsonInput
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("wormhole: decode json input: %w", err)
	}

	secretBytes, err := decodeHexString(j.Secret)
	if err != nil {
		return nil, fmt.Errorf("wormhole: decode json input: secret: %w", err)
	}
	depositProof, err := decodeHexStrings(j.DepositAccountProof)
	if err != nil {
		return nil, fmt.Errorf("wormhole: decode json input: depositAccountProof: %w", err)
	}
	nullifierProof, err := decodeHexStrings(j.NullifierAccountProof)
	if err != nil {
		return nil, fmt.Errorf("wormhole: decode json input: nullifierAccountProof: %w", err)
	}
	prevProof, err := decodeHexStrings(j.PreviousNullifierStorageProof)
	if err != nil {
		return nil, fmt.Errorf("wormhole: decode json input: previousNullifierStorageProof: %w", err)
	}

	return &ProgramInput{
		Secret:                        secret.FromBytes(secretBytes),
		DepositAmount:                 j.DepositAmount,
		WithdrawAmount:                j.WithdrawAmount,
		CumulativeWithdrawnAmount:     j.CumulativeWithdrawnAmount,
		WithdrawalIndex:               j.WithdrawalIndex,
		StateRoot:                     j.StateRoot,
		NullifierAddress:              j.NullifierAddress,
		DepositAccountProof:           depositProof,
		NullifierAccountProof:         nullifierProof,
		PreviousNullifierStorageProof: prevProof,
	}, nil
}

// EncodeJSONOutput renders a ProgramOutput in the off-guest JSON profile.
func EncodeJSONOutput(out *ProgramOutput) ([]byte, error) {
	j := jsonOutput{
		NullifierAddress:                out.NullifierAddress,
		StateRoot:                       out.StateRoot,
		WithdrawAmount:                  out.WithdrawAmount,
		CurrentNullifier:                hexString(out.CurrentNullifier[:]),
		CumulativeWithdrawnAmountHashed: hexString(out.CumulativeWithdrawnAmountHashed[:]),
	}
	return json.Marshal(j)
}

// DecodeJSONOutput is the inverse of EncodeJSONOutput.
func DecodeJSONOutput(data []byte) (*ProgramOutput, error) {
	var j jsonOutput
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("wormhole: decode json output: %w", err)
	}

	nullifier, err := decodeHexString(j.CurrentNullifier)
	if err != nil || len(nullifier) != 32 {
		return nil, fmt.Errorf("wormhole: decode json output: currentNullifier: invalid hex hash")
	}
	hashed, err := decodeHexString(j.CumulativeWithdrawnAmountHashed)
	if err != nil || len(hashed) != 32 {
		return nil, fmt.Errorf("wormhole: decode json output: cumulativeWithdrawnAmountHashed: invalid hex hash")
	}

	out := &ProgramOutput{
		NullifierAddress: j.NullifierAddress,
		StateRoot:        j.StateRoot,
		WithdrawAmount:   j.WithdrawAmount,
	}
	copy(out.CurrentNullifier[:], nullifier)
	copy(out.CumulativeWithdrawnAmountHashed[:], hashed)
	return out, nil
}

func hexString(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func hexStrings(nodes [][]byte) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = hexString(n)
	}
	return out
}

func decodeHexString(s string) ([]byte, error) {
	if len(s) < 2 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return nil, fmt.Errorf("wormhole: hex string missing 0x prefix: %q", s)
	}
	return hex.DecodeString(s[2:])
}

func decodeHexStrings(ss []string) ([][]byte, error) {
	if ss == nil {
		return nil, nil
	}
	out := make([][]byte, len(ss))
	for i, s := range ss {
		b, err := decodeHexString(s)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}
