// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"cosmossdk.io/math"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/storage"
)

const (
	ShareTokenName     = "Phoenix Pool Share"
	ShareTokenSymbol   = "PHOLP"
	ShareTokenDecimals = 7
)

// InitializeArgs creates a pool for (TokenA, TokenB). InitAmp is only read
// by stable pools.
type InitializeArgs struct {
	Admin  codec.Address `json:"admin"`
	TokenA codec.Address `json:"tokenA"`
	TokenB codec.Address `json:"tokenB"`

	TotalFeeBps           int64         `json:"totalFeeBps"`
	MaxAllowedSlippageBps int64         `json:"maxAllowedSlippageBps"`
	MaxAllowedSpreadBps   int64         `json:"maxAllowedSpreadBps"`
	MaxReferralBps        int64         `json:"maxReferralBps"`
	FeeRecipient          codec.Address `json:"feeRecipient"`

	InitAmp uint64 `json:"initAmp,omitempty"`
}

// Referral receives FeeBps of what is left of the return after the pool
// commission.
type Referral struct {
	Address codec.Address `json:"address"`
	FeeBps  int64         `json:"feeBps"`
}

// ProvideArgs are the arguments of a deposit. Nil amounts and pointers are
// unset.
type ProvideArgs struct {
	DesiredA          math.Int `json:"desiredA"`
	MinA              math.Int `json:"minA"`
	DesiredB          math.Int `json:"desiredB"`
	MinB              math.Int `json:"minB"`
	CustomSlippageBps *int64   `json:"customSlippageBps,omitempty"`
	MinShares         math.Int `json:"minShares"`
	Deadline          *uint64  `json:"deadline,omitempty"`
}

type WithdrawArgs struct {
	ShareAmount math.Int `json:"shareAmount"`
	MinA        math.Int `json:"minA"`
	MinB        math.Int `json:"minB"`
	Deadline    *uint64  `json:"deadline,omitempty"`
}

type SwapArgs struct {
	OfferAsset       codec.Address `json:"offerAsset"`
	OfferAmount      math.Int      `json:"offerAmount"`
	MinAskAmount     math.Int      `json:"minAskAmount"`
	MaxSpreadBps     *int64        `json:"maxSpreadBps,omitempty"`
	MaxAllowedFeeBps *int64        `json:"maxAllowedFeeBps,omitempty"`
	Referral         *Referral     `json:"referral,omitempty"`
	Deadline         *uint64       `json:"deadline,omitempty"`
}

// ConfigUpdate changes the fee settings of a pool. Nil fields keep their
// value.
type ConfigUpdate struct {
	TotalFeeBps           *int64         `json:"totalFeeBps,omitempty"`
	MaxAllowedSlippageBps *int64         `json:"maxAllowedSlippageBps,omitempty"`
	MaxAllowedSpreadBps   *int64         `json:"maxAllowedSpreadBps,omitempty"`
	MaxReferralBps        *int64         `json:"maxReferralBps,omitempty"`
	FeeRecipient          *codec.Address `json:"feeRecipient,omitempty"`
	NewAdmin              *codec.Address `json:"newAdmin,omitempty"`
}

type ProvideResult struct {
	AmountA math.Int `json:"amountA"`
	AmountB math.Int `json:"amountB"`
	Shares  math.Int `json:"shares"`
}

type WithdrawResult struct {
	AmountA math.Int `json:"amountA"`
	AmountB math.Int `json:"amountB"`
}

type SwapResult struct {
	AskAsset         codec.Address `json:"askAsset"`
	OfferAmount      math.Int      `json:"offerAmount"`
	ReturnAmount     math.Int      `json:"returnAmount"`
	SpreadAmount     math.Int      `json:"spreadAmount"`
	CommissionAmount math.Int      `json:"commissionAmount"`
	ReferralFee      math.Int      `json:"referralFee"`
}

type SimulateSwapResponse struct {
	AskAmount        math.Int `json:"askAmount"`
	SpreadAmount     math.Int `json:"spreadAmount"`
	CommissionAmount math.Int `json:"commissionAmount"`
	TotalReturn      math.Int `json:"totalReturn"`
}

type SimulateReverseSwapResponse struct {
	OfferAmount      math.Int `json:"offerAmount"`
	SpreadAmount     math.Int `json:"spreadAmount"`
	CommissionAmount math.Int `json:"commissionAmount"`
}

type Info struct {
	Address  codec.Address        `json:"address"`
	Config   storage.PoolConfig   `json:"config"`
	Reserves storage.PoolReserves `json:"reserves"`
	Amp      uint64               `json:"amp,omitempty"`
}

// Asset is an amount of one token.
type Asset struct {
	Token  codec.Address `json:"token"`
	Amount math.Int      `json:"amount"`
}
