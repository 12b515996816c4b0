package types

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes h as a "0x"-prefixed, fixed-width hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

// UnmarshalJSON decodes a "0x"-prefixed hex string into h.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b := fromHex(s)
	if len(b) != HashLength {
		return fmt.Errorf("types: Hash JSON value has %d bytes, want %d", len(b), HashLength)
	}
	h.SetBytes(b)
	return nil
}

// MarshalJSON encodes a as a "0x"-prefixed, fixed-width hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Hex())
}

// UnmarshalJSON decodes a "0x"-prefixed hex string into a.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b := fromHex(s)
	if len(b) != AddressLength {
		return fmt.Errorf("types: Address JSON value has %d bytes, want %d", len(b), AddressLength)
	}
	a.SetBytes(b)
	return nil
}
