// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token is the fungible token ledger the contracts move funds
// through.
package token

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=${GOPACKAGE}_mock.go . Ops

import (
	"context"

	"cosmossdk.io/math"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
)

// Ops is what contracts need from a token. A failed Transfer leaves no
// trace; contracts still diff balances around it to learn what arrived.
type Ops interface {
	Balance(ctx context.Context, im state.Immutable, token codec.Address, account codec.Address) (math.Int, error)
	Transfer(ctx context.Context, mu state.Mutable, token codec.Address, from codec.Address, to codec.Address, amount math.Int) error
	Mint(ctx context.Context, mu state.Mutable, token codec.Address, to codec.Address, amount math.Int) error
	Burn(ctx context.Context, mu state.Mutable, token codec.Address, from codec.Address, amount math.Int) error
	Decimals(ctx context.Context, im state.Immutable, token codec.Address) (uint8, error)
}

// Issuer creates tokens at addresses chosen by a contract.
type Issuer interface {
	CreateAt(ctx context.Context, mu state.Mutable, addr codec.Address, info storage.TokenInfo) error
}
