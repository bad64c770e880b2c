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
	_ chain.Action = (*CreateStablePool)(nil)
	_ chain.Action = (*ProvideStableLiquidity)(nil)
	_ chain.Action = (*WithdrawStableLiquidity)(nil)
	_ chain.Action = (*StableSwap)(nil)
	_ chain.Action = (*RampAmp)(nil)
	_ chain.Action = (*StopAmp)(nil)
)

type CreateStablePool struct {
	binding
	pool.InitializeArgs
}

func (*CreateStablePool) GetTypeID() uint8 {
	return consts.CreateStablePoolID
}

func (c *CreateStablePool) Execute(ctx context.Context, mu state.Mutable, timestamp int64, _ codec.Address) (codec.Typed, error) {
	rt, err := c.runtime()
	if err != nil {
		return nil, err
	}
	addr, err := rt.StablePools.Initialize(ctx, mu, chain.Seconds(timestamp), c.InitializeArgs)
	if err != nil {
		return nil, err
	}
	return &CreatePoolResult{
		TypeID:     consts.CreateStablePoolID,
		Pool:       addr,
		ShareToken: storage.ShareTokenAddress(addr),
	}, nil
}

type ProvideStableLiquidity struct {
	binding
	Pool codec.Address `json:"pool"`
	pool.ProvideArgs
}

func (*ProvideStableLiquidity) GetTypeID() uint8 {
	return consts.ProvideStableLiquidityID
}

func (p *ProvideStableLiquidity) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	rt, err := p.runtime()
	if err != nil {
		return nil, err
	}
	res, err := rt.StablePools.ProvideLiquidity(ctx, mu, p.Pool, chain.Seconds(timestamp), actor, p.ProvideArgs)
	if err != nil {
		return nil, err
	}
	return &ProvideResult{TypeID: consts.ProvideStableLiquidityID, ProvideResult: res}, nil
}

type WithdrawStableLiquidity struct {
	binding
	Pool codec.Address `json:"pool"`
	pool.WithdrawArgs
}

func (*WithdrawStableLiquidity) GetTypeID() uint8 {
	return consts.WithdrawStableLiquidityID
}

func (w *WithdrawStableLiquidity) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	rt, err := w.runtime()
	if err != nil {
		return nil, err
	}
	res, err := rt.StablePools.WithdrawLiquidity(ctx, mu, w.Pool, chain.Seconds(timestamp), actor, w.WithdrawArgs)
	if err != nil {
		return nil, err
	}
	return &WithdrawResult{TypeID: consts.WithdrawStableLiquidityID, WithdrawResult: res}, nil
}

type StableSwap struct {
	binding
	Pool codec.Address `json:"pool"`
	pool.SwapArgs
}

func (*StableSwap) GetTypeID() uint8 {
	return consts.StableSwapID
}

func (s *StableSwap) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	rt, err := s.runtime()
	if err != nil {
		return nil, err
	}
	res, err := rt.StablePools.Swap(ctx, mu, s.Pool, chain.Seconds(timestamp), actor, s.SwapArgs)
	if err != nil {
		return nil, err
	}
	return &SwapResult{TypeID: consts.StableSwapID, SwapResult: res}, nil
}

type RampAmp struct {
	binding
	Pool        codec.Address `json:"pool"`
	NextAmp     uint64        `json:"nextAmp"`
	NextAmpTime uint64        `json:"nextAmpTime"`
}

func (*RampAmp) GetTypeID() uint8 {
	return consts.RampAmpID
}

func (r *RampAmp) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	rt, err := r.runtime()
	if err != nil {
		return nil, err
	}
	return nil, rt.StablePools.RampAmp(ctx, mu, r.Pool, chain.Seconds(timestamp), actor, r.NextAmp, r.NextAmpTime)
}

type StopAmp struct {
	binding
	Pool codec.Address `json:"pool"`
}

func (*StopAmp) GetTypeID() uint8 {
	return consts.StopAmpID
}

func (s *StopAmp) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	rt, err := s.runtime()
	if err != nil {
		return nil, err
	}
	return nil, rt.StablePools.StopAmp(ctx, mu, s.Pool, chain.Seconds(timestamp), actor)
}
