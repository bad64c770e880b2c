// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/curve"
	"github.com/ava-labs/phoenixvm/state"
)

type StakeConfig struct {
	LPToken       codec.Address
	MinBond       math.Int
	MinReward     math.Int
	Manager       codec.Address
	Owner         codec.Address
	MaxComplexity uint32
}

type stakeConfigRecord struct {
	LPToken       codec.Address
	MinBond       string
	MinReward     string
	Manager       codec.Address
	Owner         codec.Address
	MaxComplexity uint32
}

// Stake is one bond of a staker. Unbonding removes the entry with the
// matching amount and timestamp.
type Stake struct {
	Amount    math.Int
	Timestamp uint64
}

type BondingInfo struct {
	Stakes []Stake
	Total  math.Int
}

type stakeRecord struct {
	Amount    string
	Timestamp uint64
}

type bondingInfoRecord struct {
	Stakes []stakeRecord
	Total  string
}

// Distribution is the points ledger of one reward asset.
type Distribution struct {
	SharesPerPoint    math.Int
	SharesLeftover    uint64
	DistributedTotal  math.Int
	WithdrawableTotal math.Int
}

type distributionRecord struct {
	SharesPerPoint    string
	SharesLeftover    uint64
	DistributedTotal  string
	WithdrawableTotal string
}

// WithdrawAdjustment corrects a staker's points after a change of stake.
// SharesCorrection is signed.
type WithdrawAdjustment struct {
	SharesCorrection math.Int
	WithdrawnRewards math.Int
}

type withdrawAdjustmentRecord struct {
	SharesCorrection string
	WithdrawnRewards string
}

type distributionsRecord struct {
	Assets []codec.Address
}

// StakeAddress is the staking contract of [lpToken]. Each token has at
// most one.
func StakeAddress(lpToken codec.Address) codec.Address {
	return codec.DeriveAddress(consts.StakeID, lpToken[:])
}

func SetStakeConfig(ctx context.Context, mu state.Mutable, stake codec.Address, cfg StakeConfig) error {
	return putRecord(ctx, mu, StakeConfigKey(stake), stakeConfigRecord{
		LPToken:       cfg.LPToken,
		MinBond:       encodeInt(cfg.MinBond),
		MinReward:     encodeInt(cfg.MinReward),
		Manager:       cfg.Manager,
		Owner:         cfg.Owner,
		MaxComplexity: cfg.MaxComplexity,
	})
}

func GetStakeConfig(ctx context.Context, im state.Immutable, stake codec.Address) (StakeConfig, error) {
	r, ok, err := getRecord[stakeConfigRecord](ctx, im, StakeConfigKey(stake))
	if err != nil {
		return StakeConfig{}, err
	}
	if !ok {
		return StakeConfig{}, fmt.Errorf("%w: stake %s", ErrConfigNotSet, stake)
	}
	v, err := decodeInts(r.MinBond, r.MinReward)
	if err != nil {
		return StakeConfig{}, err
	}
	return StakeConfig{
		LPToken:       r.LPToken,
		MinBond:       v[0],
		MinReward:     v[1],
		Manager:       r.Manager,
		Owner:         r.Owner,
		MaxComplexity: r.MaxComplexity,
	}, nil
}

func GetTotalStaked(ctx context.Context, im state.Immutable, stake codec.Address) (math.Int, error) {
	return getInt(ctx, im, TotalStakedKey(stake))
}

func SetTotalStaked(ctx context.Context, mu state.Mutable, stake codec.Address, total math.Int) error {
	return putInt(ctx, mu, TotalStakedKey(stake), total)
}

// GetBondingInfo returns an empty record for stakers that never bonded.
func GetBondingInfo(ctx context.Context, im state.Immutable, stake codec.Address, staker codec.Address) (BondingInfo, error) {
	r, _, err := getRecord[bondingInfoRecord](ctx, im, BondingInfoKey(stake, staker))
	if err != nil {
		return BondingInfo{}, err
	}
	total, err := decodeInt(r.Total)
	if err != nil {
		return BondingInfo{}, err
	}
	info := BondingInfo{Stakes: make([]Stake, len(r.Stakes)), Total: total}
	for i, s := range r.Stakes {
		amount, err := decodeInt(s.Amount)
		if err != nil {
			return BondingInfo{}, err
		}
		info.Stakes[i] = Stake{Amount: amount, Timestamp: s.Timestamp}
	}
	return info, nil
}

func SetBondingInfo(ctx context.Context, mu state.Mutable, stake codec.Address, staker codec.Address, info BondingInfo) error {
	k := BondingInfoKey(stake, staker)
	if len(info.Stakes) == 0 {
		return mu.Remove(ctx, k)
	}
	r := bondingInfoRecord{Stakes: make([]stakeRecord, len(info.Stakes)), Total: encodeInt(info.Total)}
	for i, s := range info.Stakes {
		r.Stakes[i] = stakeRecord{Amount: encodeInt(s.Amount), Timestamp: s.Timestamp}
	}
	return putRecord(ctx, mu, k, r)
}

// GetDistributions lists the reward assets of [stake] in creation order.
func GetDistributions(ctx context.Context, im state.Immutable, stake codec.Address) ([]codec.Address, error) {
	r, _, err := getRecord[distributionsRecord](ctx, im, DistributionsKey(stake))
	return r.Assets, err
}

func SetDistributions(ctx context.Context, mu state.Mutable, stake codec.Address, assets []codec.Address) error {
	return putRecord(ctx, mu, DistributionsKey(stake), distributionsRecord{Assets: assets})
}

// GetDistribution returns [ErrConfigNotSet] when no distribution flow
// exists for [asset].
func GetDistribution(ctx context.Context, im state.Immutable, stake codec.Address, asset codec.Address) (Distribution, error) {
	r, ok, err := getRecord[distributionRecord](ctx, im, DistributionKey(stake, asset))
	if err != nil {
		return Distribution{}, err
	}
	if !ok {
		return Distribution{}, fmt.Errorf("%w: distribution of %s", ErrConfigNotSet, asset)
	}
	v, err := decodeInts(r.SharesPerPoint, r.DistributedTotal, r.WithdrawableTotal)
	if err != nil {
		return Distribution{}, err
	}
	return Distribution{
		SharesPerPoint:    v[0],
		SharesLeftover:    r.SharesLeftover,
		DistributedTotal:  v[1],
		WithdrawableTotal: v[2],
	}, nil
}

func SetDistribution(ctx context.Context, mu state.Mutable, stake codec.Address, asset codec.Address, d Distribution) error {
	return putRecord(ctx, mu, DistributionKey(stake, asset), distributionRecord{
		SharesPerPoint:    encodeInt(d.SharesPerPoint),
		SharesLeftover:    d.SharesLeftover,
		DistributedTotal:  encodeInt(d.DistributedTotal),
		WithdrawableTotal: encodeInt(d.WithdrawableTotal),
	})
}

// GetWithdrawAdjustment defaults to zero corrections.
func GetWithdrawAdjustment(ctx context.Context, im state.Immutable, stake, asset, staker codec.Address) (WithdrawAdjustment, error) {
	r, _, err := getRecord[withdrawAdjustmentRecord](ctx, im, WithdrawAdjustmentKey(stake, asset, staker))
	if err != nil {
		return WithdrawAdjustment{}, err
	}
	v, err := decodeInts(r.SharesCorrection, r.WithdrawnRewards)
	if err != nil {
		return WithdrawAdjustment{}, err
	}
	return WithdrawAdjustment{SharesCorrection: v[0], WithdrawnRewards: v[1]}, nil
}

func SetWithdrawAdjustment(ctx context.Context, mu state.Mutable, stake, asset, staker codec.Address, adj WithdrawAdjustment) error {
	return putRecord(ctx, mu, WithdrawAdjustmentKey(stake, asset, staker), withdrawAdjustmentRecord{
		SharesCorrection: encodeInt(adj.SharesCorrection),
		WithdrawnRewards: encodeInt(adj.WithdrawnRewards),
	})
}

// GetRewardCurve returns the zero constant curve when the asset was never
// funded.
func GetRewardCurve(ctx context.Context, im state.Immutable, stake codec.Address, asset codec.Address) (curve.Curve, error) {
	r, ok, err := getRecord[curveRecord](ctx, im, RewardCurveKey(stake, asset))
	if err != nil {
		return curve.Curve{}, err
	}
	if !ok {
		return curve.Constant(math.ZeroInt()), nil
	}
	return r.curve()
}

func SetRewardCurve(ctx context.Context, mu state.Mutable, stake codec.Address, asset codec.Address, c curve.Curve) error {
	return putRecord(ctx, mu, RewardCurveKey(stake, asset), newCurveRecord(c))
}
