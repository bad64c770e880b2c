// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/pool"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
)

var (
	_ chain.Action = (*CreatePool)(nil)
	_ chain.Action = (*ProvideLiquidity)(nil)
	_ chain.Action = (*WithdrawLiquidity)(nil)
	_ chain.Action = (*Swap)(nil)
	_ chain.Action = (*UpdatePoolConfig)(nil)
)

type CreatePool struct {
	binding
	pool.InitializeArgs
}

func (*CreatePool) GetTypeID() uint8 {
	return consts.CreatePoolID
}

func (c *CreatePool) Execute(ctx context.Context, mu state.Mutable, _ int64, _ codec.Address) (codec.Typed, error) {
	rt, err := c.runtime()
	if err != nil {
		return nil, err
	}
	addr, err := rt.Pools.Initialize(ctx, mu, c.InitializeArgs)
	if err != nil {
		return nil, err
	}
	return &CreatePoolResult{
		TypeID:     consts.CreatePoolID,
		Pool:       addr,
		ShareToken: storage.ShareTokenAddress(addr),
	}, nil
}

type CreatePoolResult struct {
	TypeID     uint8         `json:"-"`
	Pool       codec.Address `json:"pool"`
	ShareToken codec.Address `json:"shareToken"`
}

func (c *CreatePoolResult) GetTypeID() uint8 {
	return c.TypeID
}

type ProvideLiquidity struct {
	binding
	Pool codec.Address `json:"pool"`
	pool.ProvideArgs
}

func (*ProvideLiquidity) GetTypeID() uint8 {
	return consts.ProvideLiquidityID
}

func (p *ProvideLiquidity) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	rt, err := p.runtime()
	if err != nil {
		return nil, err
	}
	res, err := rt.Pools.ProvideLiquidity(ctx, mu, p.Pool, chain.Seconds(timestamp), actor, p.ProvideArgs)
	if err != nil {
		return nil, err
	}
	return &ProvideResult{TypeID: consts.ProvideLiquidityID, ProvideResult: res}, nil
}

type ProvideResult struct {
	TypeID uint8 `json:"-"`
	pool.ProvideResult
}

func (p *ProvideResult) GetTypeID() uint8 {
	return p.TypeID
}

type WithdrawLiquidity struct {
	binding
	Pool codec.Address `json:"pool"`
	pool.WithdrawArgs
}

func (*WithdrawLiquidity) GetTypeID() uint8 {
	return consts.WithdrawLiquidityID
}

func (w *WithdrawLiquidity) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	rt, err := w.runtime()
	if err != nil {
		return nil, err
	}
	res, err := rt.Pools.WithdrawLiquidity(ctx, mu, w.Pool, chain.Seconds(timestamp), actor, w.WithdrawArgs)
	if err != nil {
		return nil, err
	}
	return &WithdrawResult{TypeID: consts.WithdrawLiquidityID, WithdrawResult: res}, nil
}

type WithdrawResult struct {
	TypeID uint8 `json:"-"`
	pool.WithdrawResult
}

func (w *WithdrawResult) GetTypeID() uint8 {
	return w.TypeID
}

type Swap struct {
	binding
	Pool codec.Address `json:"pool"`
	pool.SwapArgs
}

func (*Swap) GetTypeID() uint8 {
	return consts.SwapID
}

func (s *Swap) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	rt, err := s.runtime()
	if err != nil {
		return nil, err
	}
	res, err := rt.Pools.Swap(ctx, mu, s.Pool, chain.Seconds(timestamp), actor, s.SwapArgs)
	if err != nil {
		return nil, err
	}
	return &SwapResult{TypeID: consts.SwapID, SwapResult: res}, nil
}

type SwapResult struct {
	TypeID uint8 `json:"-"`
	pool.SwapResult
}

func (s *SwapResult) GetTypeID() uint8 {
	return s.TypeID
}

type UpdatePoolConfig struct {
	binding
	Pool codec.Address `json:"pool"`
	pool.ConfigUpdate
}

func (*UpdatePoolConfig) GetTypeID() uint8 {
	return consts.UpdatePoolConfigID
}

func (u *UpdatePoolConfig) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	rt, err := u.runtime()
	if err != nil {
		return nil, err
	}
	return nil, rt.Pools.UpdateConfig(ctx, mu, u.Pool, actor, u.ConfigUpdate)
}
