// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/version"

var Version = &version.Semantic{
	Major: 0,
	Minor: 1,
	Patch: 0,
}

const (
	Name = "phoenixvm"
	HRP  = "phx"

	IDLen     = 32
	ByteLen   = 1
	Uint16Len = 2
	Uint64Len = 8
	MaxUint64 = ^uint64(0)

	MillisecondsPerSecond = 1_000
)

// Address type prefixes. The first byte of every address tells what kind of
// principal it identifies.
const (
	AccountID uint8 = iota
	TokenID
	PoolID
	StablePoolID
	StakeID
	VestingID
	ShareTokenID
	BurnID
)

// Action type IDs.
const (
	CreateTokenID uint8 = iota
	MintTokenID
	TransferTokenID
	CreatePoolID
	ProvideLiquidityID
	WithdrawLiquidityID
	SwapID
	UpdatePoolConfigID
	CreateStablePoolID
	ProvideStableLiquidityID
	WithdrawStableLiquidityID
	StableSwapID
	RampAmpID
	StopAmpID
	CreateStakeID
	BondID
	UnbondID
	CreateDistributionID
	FundDistributionID
	DistributeRewardsID
	WithdrawRewardsID
	CreateVestingID
	CreateVestingSchedulesID
	ClaimVestingID
)
