package wormhole

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/wormhole-zk/wormhole-guest/core/types"
	"github.com/wormhole-zk/wormhole-guest/primitives"
	"github.com/wormhole-zk/wormhole-guest/secret"
)

// EncodeGuestIO serializes a ProgramInput into the compact little-endian
// wire format a zkVM host passes to the guest: the secret as a
// uint32-length-prefixed byte string (it is not fixed-width), followed by
// fixed-width fields in declaration order, then the three proof lists as a
// uint32 node count and, per node, a uint32 length-prefixed byte string.
func EncodeGuestIO(in *ProgramInput) []byte {
	var buf bytes.Buffer

	writeLenPrefixed(&buf, in.Secret.Bytes())

	writeU256LE(&buf, in.DepositAmount)
	writeU256LE(&buf, in.WithdrawAmount)
	writeU256LE(&buf, in.CumulativeWithdrawnAmount)
	writeU256LE(&buf, in.WithdrawalIndex)

	buf.Write(in.StateRoot.Bytes())
	buf.Write(in.NullifierAddress.Bytes())

	writeProofList(&buf, in.DepositAccountProof)
	writeProofList(&buf, in.NullifierAccountProof)
	writeProofList(&buf, in.PreviousNullifierStorageProof)

	return buf.Bytes()
}

// DecodeGuestIO is the inverse of EncodeGuestIO.
func DecodeGuestIO(data []byte) (*ProgramInput, error) {
	r := bytes.NewReader(data)

	secretBytes, err := readLenPrefixed(r)
	if err != nil {
		return nil, fmt.Errorf("wormhole: decode guest input: secret: %w", err)
	}

	in := &ProgramInput{Secret: secret.FromBytes(secretBytes)}

	if in.DepositAmount, err = readU256LE(r); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest input: deposit_amount: %w", err)
	}
	if in.WithdrawAmount, err = readU256LE(r); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest input: withdraw_amount: %w", err)
	}
	if in.CumulativeWithdrawnAmount, err = readU256LE(r); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest input: cumulative_withdrawn_amount: %w", err)
	}
	if in.WithdrawalIndex, err = readU256LE(r); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest input: withdrawal_index: %w", err)
	}

	var root [32]byte
	if _, err := readFull(r, root[:]); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest input: state_root: %w", err)
	}
	in.StateRoot = types.BytesToHash(root[:])

	var addr [20]byte
	if _, err := readFull(r, addr[:]); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest input: nullifier_address: %w", err)
	}
	in.NullifierAddress = types.BytesToAddress(addr[:])

	if in.DepositAccountProof, err = readProofList(r); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest input: deposit_account_proof: %w", err)
	}
	if in.NullifierAccountProof, err = readProofList(r); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest input: nullifier_account_proof: %w", err)
	}
	if in.PreviousNullifierStorageProof, err = readProofList(r); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest input: previous_nullifier_storage_proof: %w", err)
	}

	return in, nil
}

// EncodeGuestIOOutput serializes a ProgramOutput into the compact
// little-endian profile, in the §6 journal field order.
func EncodeGuestIOOutput(out *ProgramOutput) []byte {
	var buf bytes.Buffer
	buf.Write(out.NullifierAddress.Bytes())
	buf.Write(out.StateRoot.Bytes())
	writeU256LE(&buf, out.WithdrawAmount)
	buf.Write(out.CurrentNullifier[:])
	buf.Write(out.CumulativeWithdrawnAmountHashed[:])
	return buf.Bytes()
}

// DecodeGuestIOOutput is the inverse of EncodeGuestIOOutput.
func DecodeGuestIOOutput(data []byte) (*ProgramOutput, error) {
	r := bytes.NewReader(data)
	out := &ProgramOutput{}

	var addr [20]byte
	if _, err := readFull(r, addr[:]); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest output: nullifier_address: %w", err)
	}
	out.NullifierAddress = types.BytesToAddress(addr[:])

	var root [32]byte
	if _, err := readFull(r, root[:]); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest output: state_root: %w", err)
	}
	out.StateRoot = types.BytesToHash(root[:])

	amount, err := readU256LE(r)
	if err != nil {
		return nil, fmt.Errorf("wormhole: decode guest output: withdraw_amount: %w", err)
	}
	out.WithdrawAmount = amount

	if _, err := readFull(r, out.CurrentNullifier[:]); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest output: current_nullifier: %w", err)
	}
	if _, err := readFull(r, out.CumulativeWithdrawnAmountHashed[:]); err != nil {
		return nil, fmt.Errorf("wormhole: decode guest output: cumulative_withdrawn_amount_hashed: %w", err)
	}

	return out, nil
}

func writeU256LE(buf *bytes.Buffer, v primitives.U256) {
	le := v.Bytes32LE()
	buf.Write(le[:])
}

func readU256LE(r *bytes.Reader) (primitives.U256, error) {
	var le [32]byte
	if _, err := readFull(r, le[:]); err != nil {
		return primitives.U256{}, err
	}
	return primitives.U256FromBytesLE(le), nil
}

func writeLenPrefixed(buf *bytes.Buffer, b []byte) {
	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(b)))
	buf.Write(lenBytes[:])
	buf.Write(b)
}

func readLenPrefixed(r *bytes.Reader) ([]byte, error) {
	var lenBytes [4]byte
	if _, err := readFull(r, lenBytes[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBytes[:])
	b := make([]byte, n)
	if _, err := readFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func writeProofList(buf *bytes.Buffer, nodes [][]byte) {
	var countBytes [4]byte
	binary.LittleEndian.PutUint32(countBytes[:], uint32(len(nodes)))
	buf.Write(countBytes[:])
	for _, n := range nodes {
		var lenBytes [4]byte
		binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(n)))
		buf.Write(lenBytes[:])
		buf.Write(n)
	}
}

func readProofList(r *bytes.Reader) ([][]byte, error) {
	var countBytes [4]byte
	if _, err := readFull(r, countBytes[:]); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(countBytes[:])
	if count == 0 {
		return nil, nil
	}
	nodes := make([][]byte, count)
	for i := range nodes {
		var lenBytes [4]byte
		if _, err := readFull(r, lenBytes[:]); err != nil {
			return nil, err
		}
		n := binary.LittleEndian.Uint32(lenBytes[:])
		node := make([]byte, n)
		if _, err := readFull(r, node); err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return nodes, nil
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	return io.ReadFull(r, b)
}
