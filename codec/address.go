// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const AddressLen = 33

var (
	ErrInvalidAddressLength = errors.New("invalid address length")
	ErrIncorrectHRP         = errors.New("incorrect hrp")
)

// Address identifies an account, token or contract. The first byte is the
// type prefix and the rest is a 32 byte identifier.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating [typeID] with
// [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	var a Address
	a[0] = typeID
	copy(a[1:], id[:])
	return a
}

// DeriveAddress hashes [seeds] into a new address of [typeID]. Contracts use
// this to get deterministic addresses for pools and share tokens.
func DeriveAddress(typeID uint8, seeds ...[]byte) Address {
	return CreateAddress(typeID, ids.ID(hashing.ComputeHash256Array(bytes.Join(seeds, nil))))
}

func (a Address) TypeID() uint8 { return a[0] }

// Compare orders addresses bytewise. Pools keep their assets ordered with
// this so each pair maps to one pool.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// MarshalText returns the 0x prefixed hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	result := make([]byte, len(a)*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], a[:])
	return result, nil
}

// UnmarshalText parses a hex-encoded address, with or without 0x.
func (a *Address) UnmarshalText(input []byte) error {
	if len(input) >= 2 && input[0] == '0' && input[1] == 'x' {
		input = input[2:]
	}
	decoded, err := hex.DecodeString(string(input))
	if err != nil {
		return err
	}
	if len(decoded) != AddressLen {
		return fmt.Errorf("%w: %d", ErrInvalidAddressLength, len(decoded))
	}
	copy(a[:], decoded)
	return nil
}

// AddressBech32 returns the bech32 form of [a] under [hrp].
func AddressBech32(hrp string, a Address) (string, error) {
	p, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, p)
}

// ParseAddressBech32 parses a bech32 encoded address and checks its hrp.
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, p, err := bech32.Decode(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, ErrIncorrectHRP
	}
	// The parsed value may be longer than [AddressLen] because of the
	// padding applied by ConvertBits.
	b, err := bech32.ConvertBits(p, 5, 8, false)
	if err != nil {
		return EmptyAddress, err
	}
	if len(b) < AddressLen {
		return EmptyAddress, ErrInvalidAddressLength
	}
	return Address(b[:AddressLen]), nil
}
