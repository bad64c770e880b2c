// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/crypto/ed25519"
)

// ED25519 proves that Signer signed a message. The actor is derived from
// Signer.
type ED25519 struct {
	Signer    ed25519.PublicKey `json:"signer"`
	Signature ed25519.Signature `json:"signature"`
}

func NewED25519Address(pk ed25519.PublicKey) codec.Address {
	return codec.DeriveAddress(consts.AccountID, pk[:])
}

func (d *ED25519) Actor() codec.Address {
	return NewED25519Address(d.Signer)
}

func (d *ED25519) Verify(msg []byte) error {
	if !ed25519.Verify(msg, d.Signer, d.Signature) {
		return ed25519.ErrInvalidSignature
	}
	return nil
}

// ED25519Factory signs messages with a private key.
type ED25519Factory struct {
	priv ed25519.PrivateKey
}

func NewED25519Factory(priv ed25519.PrivateKey) *ED25519Factory {
	return &ED25519Factory{priv: priv}
}

func (f *ED25519Factory) Sign(msg []byte) ED25519 {
	return ED25519{Signer: f.priv.PublicKey(), Signature: ed25519.Sign(msg, f.priv)}
}

func (f *ED25519Factory) Address() codec.Address {
	return NewED25519Address(f.priv.PublicKey())
}
