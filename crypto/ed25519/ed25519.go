// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ed25519 holds the keys actors sign submitted actions with.
// Signatures are verified with ZIP-215 rules.
package ed25519

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hdevalence/ed25519consensus"

	"github.com/ava-labs/phoenixvm/utils"
)

type (
	PublicKey  [ed25519.PublicKeySize]byte
	PrivateKey [ed25519.PrivateKeySize]byte
	Signature  [ed25519.SignatureSize]byte
)

const (
	PublicKeyLen  = ed25519.PublicKeySize
	PrivateKeyLen = ed25519.PrivateKeySize
	// A private key is seed|publicKey.
	PrivateKeySeedLen = ed25519.SeedSize
	SignatureLen      = ed25519.SignatureSize
)

var (
	EmptyPublicKey  = PublicKey{}
	EmptyPrivateKey = PrivateKey{}
	EmptySignature  = Signature{}
)

func GeneratePrivateKey() (PrivateKey, error) {
	_, k, err := ed25519.GenerateKey(nil)
	if err != nil {
		return EmptyPrivateKey, err
	}
	return PrivateKey(k), nil
}

// PublicKey returns the last 32 bytes of p.
func (p PrivateKey) PublicKey() PublicKey {
	return PublicKey(p[PrivateKeySeedLen:])
}

func Sign(msg []byte, pk PrivateKey) Signature {
	return Signature(ed25519.Sign(pk[:], msg))
}

// Verify returns whether s is a valid signature of msg by p.
func Verify(msg []byte, p PublicKey, s Signature) bool {
	return ed25519consensus.Verify(p[:], msg, s[:])
}

func (p PrivateKey) ToHex() string {
	return hex.EncodeToString(p[:])
}

// HexToKey parses a hex encoded private key.
func HexToKey(key string) (PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(key, "0x"))
	if err != nil {
		return EmptyPrivateKey, err
	}
	if len(b) != PrivateKeyLen {
		return EmptyPrivateKey, ErrInvalidPrivateKey
	}
	return PrivateKey(b), nil
}

// Save writes the hex form of p to [filename].
func (p PrivateKey) Save(filename string) error {
	return utils.SaveBytes(filename, []byte(p.ToHex()))
}

func LoadKey(filename string) (PrivateKey, error) {
	b, err := utils.LoadBytes(filename, -1)
	if err != nil {
		return EmptyPrivateKey, err
	}
	return HexToKey(strings.TrimSpace(string(b)))
}

func (p PublicKey) MarshalText() ([]byte, error) {
	return marshalHex(p[:]), nil
}

func (p *PublicKey) UnmarshalText(b []byte) error {
	return unmarshalHex(b, p[:], ErrInvalidPublicKey)
}

func (s Signature) MarshalText() ([]byte, error) {
	return marshalHex(s[:]), nil
}

func (s *Signature) UnmarshalText(b []byte) error {
	return unmarshalHex(b, s[:], ErrInvalidSignature)
}

func marshalHex(b []byte) []byte {
	out := make([]byte, 2+hex.EncodedLen(len(b)))
	copy(out, "0x")
	hex.Encode(out[2:], b)
	return out
}

func unmarshalHex(text []byte, dst []byte, errLen error) error {
	s := strings.TrimPrefix(string(text), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return fmt.Errorf("%w: %d bytes", errLen, len(b))
	}
	copy(dst, b)
	return nil
}
