// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"cosmossdk.io/math"

	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/stake"
	"github.com/ava-labs/phoenixvm/state"
)

var (
	_ chain.Action = (*CreateStake)(nil)
	_ chain.Action = (*Bond)(nil)
	_ chain.Action = (*Unbond)(nil)
	_ chain.Action = (*CreateDistribution)(nil)
	_ chain.Action = (*FundDistribution)(nil)
	_ chain.Action = (*DistributeRewards)(nil)
	_ chain.Action = (*WithdrawRewards)(nil)
)

type CreateStake struct {
	binding
	stake.InitializeArgs
}

func (*CreateStake) GetTypeID() uint8 {
	return consts.CreateStakeID
}

func (c *CreateStake) Execute(ctx context.Context, mu state.Mutable, _ int64, _ codec.Address) (codec.Typed, error) {
	rt, err := c.runtime()
	if err != nil {
		return nil, err
	}
	addr, err := rt.Stakes.Initialize(ctx, mu, c.InitializeArgs)
	if err != nil {
		return nil, err
	}
	return &AddressResult{TypeID: consts.CreateStakeID, Address: addr}, nil
}

// AddressResult reports the address of a created contract.
type AddressResult struct {
	TypeID  uint8         `json:"-"`
	Address codec.Address `json:"address"`
}

func (a *AddressResult) GetTypeID() uint8 {
	return a.TypeID
}

type Bond struct {
	binding
	Stake  codec.Address `json:"stake"`
	Amount math.Int      `json:"amount"`
}

func (*Bond) GetTypeID() uint8 {
	return consts.BondID
}

func (b *Bond) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	rt, err := b.runtime()
	if err != nil {
		return nil, err
	}
	return nil, rt.Stakes.Bond(ctx, mu, b.Stake, chain.Seconds(timestamp), actor, b.Amount)
}

// Unbond releases the stake bonded with Amount at StakeTimestamp.
type Unbond struct {
	binding
	Stake          codec.Address `json:"stake"`
	Amount         math.Int      `json:"amount"`
	StakeTimestamp uint64        `json:"stakeTimestamp"`
}

func (*Unbond) GetTypeID() uint8 {
	return consts.UnbondID
}

func (u *Unbond) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	rt, err := u.runtime()
	if err != nil {
		return nil, err
	}
	return nil, rt.Stakes.Unbond(ctx, mu, u.Stake, actor, u.Amount, u.StakeTimestamp)
}

type CreateDistribution struct {
	binding
	Stake codec.Address `json:"stake"`
	Asset codec.Address `json:"asset"`
}

func (*CreateDistribution) GetTypeID() uint8 {
	return consts.CreateDistributionID
}

func (c *CreateDistribution) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	rt, err := c.runtime()
	if err != nil {
		return nil, err
	}
	return nil, rt.Stakes.CreateDistributionFlow(ctx, mu, c.Stake, actor, c.Asset)
}

type FundDistribution struct {
	binding
	Stake    codec.Address `json:"stake"`
	Start    uint64        `json:"start"`
	Duration uint64        `json:"duration"`
	Asset    codec.Address `json:"asset"`
	Amount   math.Int      `json:"amount"`
}

func (*FundDistribution) GetTypeID() uint8 {
	return consts.FundDistributionID
}

func (f *FundDistribution) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	rt, err := f.runtime()
	if err != nil {
		return nil, err
	}
	return nil, rt.Stakes.FundDistribution(ctx, mu, f.Stake, chain.Seconds(timestamp), actor, f.Start, f.Duration, f.Asset, f.Amount)
}

type DistributeRewards struct {
	binding
	Stake codec.Address `json:"stake"`
}

func (*DistributeRewards) GetTypeID() uint8 {
	return consts.DistributeRewardsID
}

func (d *DistributeRewards) Execute(ctx context.Context, mu state.Mutable, timestamp int64, _ codec.Address) (codec.Typed, error) {
	rt, err := d.runtime()
	if err != nil {
		return nil, err
	}
	return nil, rt.Stakes.DistributeRewards(ctx, mu, d.Stake, chain.Seconds(timestamp))
}

type WithdrawRewards struct {
	binding
	Stake codec.Address `json:"stake"`
}

func (*WithdrawRewards) GetTypeID() uint8 {
	return consts.WithdrawRewardsID
}

func (w *WithdrawRewards) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	rt, err := w.runtime()
	if err != nil {
		return nil, err
	}
	rewards, err := rt.Stakes.WithdrawRewards(ctx, mu, w.Stake, actor)
	if err != nil {
		return nil, err
	}
	return &RewardsResult{Rewards: rewards}, nil
}

type RewardsResult struct {
	Rewards []stake.RewardAmount `json:"rewards"`
}

func (*RewardsResult) GetTypeID() uint8 {
	return consts.WithdrawRewardsID
}
