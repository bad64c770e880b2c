// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/state"
)

var (
	_ chain.Action = (*CreateToken)(nil)
	_ chain.Action = (*MintToken)(nil)
	_ chain.Action = (*TransferToken)(nil)
)

// CreateToken issues a token owned by the actor.
type CreateToken struct {
	binding
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

func (*CreateToken) GetTypeID() uint8 {
	return consts.CreateTokenID
}

func (c *CreateToken) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	rt, err := c.runtime()
	if err != nil {
		return nil, err
	}
	addr, err := rt.Ledger.Create(ctx, mu, actor, c.Name, c.Symbol, c.Decimals)
	if err != nil {
		return nil, err
	}
	return &CreateTokenResult{Token: addr}, nil
}

type CreateTokenResult struct {
	Token codec.Address `json:"token"`
}

func (*CreateTokenResult) GetTypeID() uint8 {
	return consts.CreateTokenID
}

// MintToken creates new supply. Only the token owner may mint.
type MintToken struct {
	binding
	Token  codec.Address `json:"token"`
	To     codec.Address `json:"to"`
	Amount math.Int      `json:"amount"`
}

func (*MintToken) GetTypeID() uint8 {
	return consts.MintTokenID
}

func (m *MintToken) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	rt, err := m.runtime()
	if err != nil {
		return nil, err
	}
	info, err := rt.Ledger.Info(ctx, mu, m.Token)
	if err != nil {
		return nil, err
	}
	if info.Owner != actor {
		return nil, fmt.Errorf("%w: %s", ErrNotTokenOwner, actor)
	}
	if err := rt.Ledger.Mint(ctx, mu, m.Token, m.To, m.Amount); err != nil {
		return nil, err
	}
	balance, err := rt.Ledger.Balance(ctx, mu, m.Token, m.To)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{TypeID: consts.MintTokenID, Balance: balance}, nil
}

type TransferToken struct {
	binding
	Token  codec.Address `json:"token"`
	To     codec.Address `json:"to"`
	Amount math.Int      `json:"amount"`
}

func (*TransferToken) GetTypeID() uint8 {
	return consts.TransferTokenID
}

func (t *TransferToken) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	rt, err := t.runtime()
	if err != nil {
		return nil, err
	}
	if err := rt.Ledger.Transfer(ctx, mu, t.Token, actor, t.To, t.Amount); err != nil {
		return nil, err
	}
	balance, err := rt.Ledger.Balance(ctx, mu, t.Token, actor)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{TypeID: consts.TransferTokenID, Balance: balance}, nil
}

// BalanceResult reports a balance after an action.
type BalanceResult struct {
	TypeID  uint8    `json:"-"`
	Balance math.Int `json:"balance"`
}

func (b *BalanceResult) GetTypeID() uint8 {
	return b.TypeID
}
