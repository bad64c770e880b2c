// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/vesting"
)

var (
	_ chain.Action = (*CreateVesting)(nil)
	_ chain.Action = (*CreateVestingSchedules)(nil)
	_ chain.Action = (*ClaimVesting)(nil)
)

// CreateVesting creates a vesting contract administered by the actor.
type CreateVesting struct {
	binding
	Token         codec.Address `json:"token"`
	MaxComplexity uint32        `json:"maxComplexity"`
}

func (*CreateVesting) GetTypeID() uint8 {
	return consts.CreateVestingID
}

func (c *CreateVesting) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	rt, err := c.runtime()
	if err != nil {
		return nil, err
	}
	addr, err := rt.Vestings.Initialize(ctx, mu, actor, c.Token, c.MaxComplexity)
	if err != nil {
		return nil, err
	}
	return &AddressResult{TypeID: consts.CreateVestingID, Address: addr}, nil
}

type CreateVestingSchedules struct {
	binding
	Vesting   codec.Address      `json:"vesting"`
	Schedules []vesting.Schedule `json:"schedules"`
}

func (*CreateVestingSchedules) GetTypeID() uint8 {
	return consts.CreateVestingSchedulesID
}

func (c *CreateVestingSchedules) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	rt, err := c.runtime()
	if err != nil {
		return nil, err
	}
	return nil, rt.Vestings.CreateVestingSchedules(ctx, mu, c.Vesting, actor, c.Schedules)
}

type ClaimVesting struct {
	binding
	Vesting codec.Address `json:"vesting"`
	Index   uint32        `json:"index"`
}

func (*ClaimVesting) GetTypeID() uint8 {
	return consts.ClaimVestingID
}

func (c *ClaimVesting) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	rt, err := c.runtime()
	if err != nil {
		return nil, err
	}
	claimed, err := rt.Vestings.Claim(ctx, mu, c.Vesting, chain.Seconds(timestamp), actor, c.Index)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{TypeID: consts.ClaimVestingID, Balance: claimed}, nil
}
