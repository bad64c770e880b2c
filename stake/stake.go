// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package stake is the LP token staking contract. Stakers earn every
// registered reward asset in proportion to their power.
package stake

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/utils/logging"
	smath "github.com/ava-labs/avalanchego/utils/math"
	"go.uber.org/zap"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/curve"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
	"github.com/ava-labs/phoenixvm/token"
)

type InitializeArgs struct {
	LPToken       codec.Address `json:"lpToken"`
	MinBond       math.Int      `json:"minBond"`
	MinReward     math.Int      `json:"minReward"`
	Manager       codec.Address `json:"manager"`
	Owner         codec.Address `json:"owner"`
	MaxComplexity uint32        `json:"maxComplexity"`
}

// RewardAmount is an amount of one reward asset.
type RewardAmount struct {
	Asset  codec.Address `json:"asset"`
	Amount math.Int      `json:"amount"`
}

type Contract struct {
	log    logging.Logger
	tokens token.Ops
}

func New(log logging.Logger, tokens token.Ops) *Contract {
	return &Contract{log: log, tokens: tokens}
}

// Initialize creates the staking contract of [args.LPToken].
func (c *Contract) Initialize(ctx context.Context, mu state.Mutable, args InitializeArgs) (codec.Address, error) {
	if _, err := c.tokens.Decimals(ctx, mu, args.LPToken); err != nil {
		return codec.EmptyAddress, err
	}
	if args.MinBond.IsNil() || !args.MinBond.IsPositive() {
		return codec.EmptyAddress, fmt.Errorf("%w: min bond must be positive", ErrInvalidConfig)
	}
	if args.MinReward.IsNil() || !args.MinReward.IsPositive() {
		return codec.EmptyAddress, fmt.Errorf("%w: min reward must be positive", ErrInvalidConfig)
	}
	if args.MaxComplexity == 0 {
		return codec.EmptyAddress, fmt.Errorf("%w: max complexity must be positive", ErrInvalidConfig)
	}
	addr := storage.StakeAddress(args.LPToken)
	if _, err := storage.GetStakeConfig(ctx, mu, addr); err == nil {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrStakeExists, addr)
	} else if !errors.Is(err, storage.ErrConfigNotSet) {
		return codec.EmptyAddress, err
	}
	if err := storage.SetStakeConfig(ctx, mu, addr, storage.StakeConfig(args)); err != nil {
		return codec.EmptyAddress, err
	}
	c.log.Info("created stake",
		zap.Stringer("stake", addr),
		zap.Stringer("lpToken", args.LPToken),
		zap.Stringer("minBond", args.MinBond),
	)
	return addr, nil
}

// Bond locks [amount] LP tokens of [sender] as a new stake.
func (c *Contract) Bond(ctx context.Context, mu state.Mutable, stake codec.Address, now uint64, sender codec.Address, amount math.Int) error {
	cfg, err := storage.GetStakeConfig(ctx, mu, stake)
	if err != nil {
		return err
	}
	if amount.IsNil() || amount.LT(cfg.MinBond) {
		return fmt.Errorf("%w: bond of %s below %s", ErrMinStakeNotReached, amount, cfg.MinBond)
	}
	if err := c.tokens.Transfer(ctx, mu, cfg.LPToken, sender, stake, amount); err != nil {
		return err
	}
	info, err := storage.GetBondingInfo(ctx, mu, stake, sender)
	if err != nil {
		return err
	}
	oldTotal := info.Total
	info.Stakes = append(info.Stakes, storage.Stake{Amount: amount, Timestamp: now})
	info.Total = info.Total.Add(amount)
	if err := c.changeStake(ctx, mu, stake, cfg, sender, oldTotal, info); err != nil {
		return err
	}
	c.log.Debug("bonded",
		zap.Stringer("stake", stake),
		zap.Stringer("sender", sender),
		zap.Stringer("amount", amount),
	)
	return nil
}

// Unbond releases the stake of [sender] bonded with [amount] at
// [stakeTimestamp].
func (c *Contract) Unbond(
	ctx context.Context,
	mu state.Mutable,
	stake codec.Address,
	sender codec.Address,
	amount math.Int,
	stakeTimestamp uint64,
) error {
	cfg, err := storage.GetStakeConfig(ctx, mu, stake)
	if err != nil {
		return err
	}
	info, err := storage.GetBondingInfo(ctx, mu, stake, sender)
	if err != nil {
		return err
	}
	idx := -1
	for i, s := range info.Stakes {
		if s.Timestamp == stakeTimestamp && !amount.IsNil() && s.Amount.Equal(amount) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s at %d", ErrStakeNotFound, amount, stakeTimestamp)
	}
	oldTotal := info.Total
	info.Stakes = append(info.Stakes[:idx], info.Stakes[idx+1:]...)
	info.Total = info.Total.Sub(amount)
	if err := c.changeStake(ctx, mu, stake, cfg, sender, oldTotal, info); err != nil {
		return err
	}
	if err := c.tokens.Transfer(ctx, mu, cfg.LPToken, stake, sender, amount); err != nil {
		return err
	}
	c.log.Debug("unbonded",
		zap.Stringer("stake", stake),
		zap.Stringer("sender", sender),
		zap.Stringer("amount", amount),
	)
	return nil
}

// changeStake corrects the rewards of [staker] for every distribution and
// writes the new bonding info and total.
func (*Contract) changeStake(
	ctx context.Context,
	mu state.Mutable,
	stake codec.Address,
	cfg storage.StakeConfig,
	staker codec.Address,
	oldTotal math.Int,
	info storage.BondingInfo,
) error {
	oldPower := CalcPower(oldTotal, cfg.MinBond, 1, TokenPerPower)
	newPower := CalcPower(info.Total, cfg.MinBond, 1, TokenPerPower)
	assets, err := storage.GetDistributions(ctx, mu, stake)
	if err != nil {
		return err
	}
	for _, asset := range assets {
		d, err := storage.GetDistribution(ctx, mu, stake, asset)
		if err != nil {
			return err
		}
		adj, err := storage.GetWithdrawAdjustment(ctx, mu, stake, asset, staker)
		if err != nil {
			return err
		}
		adj = UpdateRewards(d, adj, oldPower, newPower)
		if err := storage.SetWithdrawAdjustment(ctx, mu, stake, asset, staker, adj); err != nil {
			return err
		}
	}
	if err := storage.SetBondingInfo(ctx, mu, stake, staker, info); err != nil {
		return err
	}
	total, err := storage.GetTotalStaked(ctx, mu, stake)
	if err != nil {
		return err
	}
	return storage.SetTotalStaked(ctx, mu, stake, total.Add(info.Total.Sub(oldTotal)))
}

// CreateDistributionFlow registers [asset] as a reward of [stake].
func (c *Contract) CreateDistributionFlow(ctx context.Context, mu state.Mutable, stake codec.Address, sender codec.Address, asset codec.Address) error {
	cfg, err := storage.GetStakeConfig(ctx, mu, stake)
	if err != nil {
		return err
	}
	if sender != cfg.Manager && sender != cfg.Owner {
		return fmt.Errorf("%w: %s is neither manager nor owner", ErrUnauthorized, sender)
	}
	if asset == cfg.LPToken {
		return fmt.Errorf("%w: %s is the staked token", ErrInvalidAsset, asset)
	}
	if _, err := c.tokens.Decimals(ctx, mu, asset); err != nil {
		return err
	}
	assets, err := storage.GetDistributions(ctx, mu, stake)
	if err != nil {
		return err
	}
	for _, a := range assets {
		if a == asset {
			return fmt.Errorf("%w: %s", ErrDistributionExists, asset)
		}
	}
	if err := storage.SetDistributions(ctx, mu, stake, append(assets, asset)); err != nil {
		return err
	}
	if err := storage.SetDistribution(ctx, mu, stake, asset, storage.Distribution{
		SharesPerPoint:    math.ZeroInt(),
		DistributedTotal:  math.ZeroInt(),
		WithdrawableTotal: math.ZeroInt(),
	}); err != nil {
		return err
	}
	c.log.Info("created distribution flow", zap.Stringer("stake", stake), zap.Stringer("asset", asset))
	return nil
}

// FundDistribution locks [amount] of [asset] and releases it linearly
// from [start] over [duration] seconds.
func (c *Contract) FundDistribution(
	ctx context.Context,
	mu state.Mutable,
	stake codec.Address,
	now uint64,
	sender codec.Address,
	start uint64,
	duration uint64,
	asset codec.Address,
	amount math.Int,
) error {
	cfg, err := storage.GetStakeConfig(ctx, mu, stake)
	if err != nil {
		return err
	}
	if start < now {
		return fmt.Errorf("%w: start %d before now %d", ErrInvalidTime, start, now)
	}
	if duration == 0 {
		return fmt.Errorf("%w: zero duration", ErrInvalidTime)
	}
	end, err := smath.Add64(start, duration)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTime, err)
	}
	if amount.IsNil() || amount.LT(cfg.MinReward) {
		return fmt.Errorf("%w: %s < %s", ErrMinRewardNotEnough, amount, cfg.MinReward)
	}
	if _, err := storage.GetDistribution(ctx, mu, stake, asset); err != nil {
		return err
	}

	funding := curve.SaturatingLinear(start, amount, end, math.ZeroInt())
	if lo, hi := funding.Range(); lo.IsNegative() || hi.GT(amount) {
		return fmt.Errorf("%w: range [%s, %s]", ErrInvalidRewardCurve, lo, hi)
	}
	previous, err := storage.GetRewardCurve(ctx, mu, stake, asset)
	if err != nil {
		return err
	}
	next := funding
	if prevEnd, ok := previous.End(); !ok || prevEnd >= now {
		next = previous.Combine(funding)
		if err := next.ValidateComplexity(cfg.MaxComplexity); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidMaxComplexity, err)
		}
	}

	if err := c.tokens.Transfer(ctx, mu, asset, sender, stake, amount); err != nil {
		return err
	}
	if err := storage.SetRewardCurve(ctx, mu, stake, asset, next); err != nil {
		return err
	}
	c.log.Info("funded distribution",
		zap.Stringer("stake", stake),
		zap.Stringer("asset", asset),
		zap.Stringer("amount", amount),
		zap.Uint64("start", start),
		zap.Uint64("end", end),
	)
	return nil
}

// DistributeRewards moves every unlocked reward into the points ledger.
// Calling it again without new unlocks changes nothing.
func (c *Contract) DistributeRewards(ctx context.Context, mu state.Mutable, stake codec.Address, now uint64) error {
	cfg, err := storage.GetStakeConfig(ctx, mu, stake)
	if err != nil {
		return err
	}
	total, err := storage.GetTotalStaked(ctx, mu, stake)
	if err != nil {
		return err
	}
	totalPower := CalcPower(total, cfg.MinBond, 1, TokenPerPower)
	if totalPower.IsZero() {
		return nil
	}
	assets, err := storage.GetDistributions(ctx, mu, stake)
	if err != nil {
		return err
	}
	for _, asset := range assets {
		d, err := storage.GetDistribution(ctx, mu, stake, asset)
		if err != nil {
			return err
		}
		amount, err := c.undistributed(ctx, mu, stake, asset, d, now)
		if err != nil {
			return err
		}
		if amount.IsZero() {
			continue
		}
		d, err = Distribute(d, amount, totalPower)
		if err != nil {
			return err
		}
		if err := storage.SetDistribution(ctx, mu, stake, asset, d); err != nil {
			return err
		}
		c.log.Debug("distributed rewards",
			zap.Stringer("stake", stake),
			zap.Stringer("asset", asset),
			zap.Stringer("amount", amount),
			zap.Stringer("power", totalPower),
		)
	}
	return nil
}

func (c *Contract) undistributed(
	ctx context.Context,
	im state.Immutable,
	stake codec.Address,
	asset codec.Address,
	d storage.Distribution,
	now uint64,
) (math.Int, error) {
	balance, err := c.tokens.Balance(ctx, im, asset, stake)
	if err != nil {
		return math.Int{}, err
	}
	locked, err := storage.GetRewardCurve(ctx, im, stake, asset)
	if err != nil {
		return math.Int{}, err
	}
	// Interpolating a combined curve can round one unit above the sum of
	// its parts.
	return math.MaxInt(balance.Sub(d.WithdrawableTotal).Sub(locked.Value(now)), math.ZeroInt()), nil
}

// WithdrawRewards pays out every reward [sender] has earned. Assets with
// nothing to withdraw are skipped.
func (c *Contract) WithdrawRewards(ctx context.Context, mu state.Mutable, stake codec.Address, sender codec.Address) ([]RewardAmount, error) {
	cfg, err := storage.GetStakeConfig(ctx, mu, stake)
	if err != nil {
		return nil, err
	}
	info, err := storage.GetBondingInfo(ctx, mu, stake, sender)
	if err != nil {
		return nil, err
	}
	power := CalcPower(info.Total, cfg.MinBond, 1, TokenPerPower)
	assets, err := storage.GetDistributions(ctx, mu, stake)
	if err != nil {
		return nil, err
	}
	var paid []RewardAmount
	for _, asset := range assets {
		d, err := storage.GetDistribution(ctx, mu, stake, asset)
		if err != nil {
			return nil, err
		}
		adj, err := storage.GetWithdrawAdjustment(ctx, mu, stake, asset, sender)
		if err != nil {
			return nil, err
		}
		amount := WithdrawableRewards(d, adj, power)
		if amount.IsZero() {
			continue
		}
		adj.WithdrawnRewards = adj.WithdrawnRewards.Add(amount)
		d.WithdrawableTotal = d.WithdrawableTotal.Sub(amount)
		if err := storage.SetWithdrawAdjustment(ctx, mu, stake, asset, sender, adj); err != nil {
			return nil, err
		}
		if err := storage.SetDistribution(ctx, mu, stake, asset, d); err != nil {
			return nil, err
		}
		if err := c.tokens.Transfer(ctx, mu, asset, stake, sender, amount); err != nil {
			return nil, err
		}
		paid = append(paid, RewardAmount{Asset: asset, Amount: amount})
	}
	c.log.Debug("withdrew rewards",
		zap.Stringer("stake", stake),
		zap.Stringer("sender", sender),
		zap.Int("assets", len(paid)),
	)
	return paid, nil
}

func (*Contract) QueryConfig(ctx context.Context, im state.Immutable, stake codec.Address) (storage.StakeConfig, error) {
	return storage.GetStakeConfig(ctx, im, stake)
}

func (*Contract) Staked(ctx context.Context, im state.Immutable, stake codec.Address, staker codec.Address) (storage.BondingInfo, error) {
	return storage.GetBondingInfo(ctx, im, stake, staker)
}

func (*Contract) TotalStaked(ctx context.Context, im state.Immutable, stake codec.Address) (math.Int, error) {
	return storage.GetTotalStaked(ctx, im, stake)
}

// WithdrawableRewards lists what [staker] could withdraw per asset.
func (*Contract) WithdrawableRewards(ctx context.Context, im state.Immutable, stake codec.Address, staker codec.Address) ([]RewardAmount, error) {
	cfg, err := storage.GetStakeConfig(ctx, im, stake)
	if err != nil {
		return nil, err
	}
	info, err := storage.GetBondingInfo(ctx, im, stake, staker)
	if err != nil {
		return nil, err
	}
	power := CalcPower(info.Total, cfg.MinBond, 1, TokenPerPower)
	return eachDistribution(ctx, im, stake, func(asset codec.Address, d storage.Distribution) (math.Int, error) {
		adj, err := storage.GetWithdrawAdjustment(ctx, im, stake, asset, staker)
		if err != nil {
			return math.Int{}, err
		}
		return WithdrawableRewards(d, adj, power), nil
	})
}

// AnnualizedRewards estimates the yearly payout of every reward asset.
func (*Contract) AnnualizedRewards(ctx context.Context, im state.Immutable, stake codec.Address, now uint64) ([]RewardAmount, error) {
	return eachDistribution(ctx, im, stake, func(asset codec.Address, _ storage.Distribution) (math.Int, error) {
		c, err := storage.GetRewardCurve(ctx, im, stake, asset)
		if err != nil {
			return math.Int{}, err
		}
		return CalculateAnnualizedPayout(c, now), nil
	})
}

// DistributedRewards lists the total distributed per asset.
func (*Contract) DistributedRewards(ctx context.Context, im state.Immutable, stake codec.Address) ([]RewardAmount, error) {
	return eachDistribution(ctx, im, stake, func(_ codec.Address, d storage.Distribution) (math.Int, error) {
		return d.DistributedTotal, nil
	})
}

// UndistributedRewards lists the unlocked rewards waiting for the next
// distribution.
func (c *Contract) UndistributedRewards(ctx context.Context, im state.Immutable, stake codec.Address, now uint64) ([]RewardAmount, error) {
	return eachDistribution(ctx, im, stake, func(asset codec.Address, d storage.Distribution) (math.Int, error) {
		return c.undistributed(ctx, im, stake, asset, d, now)
	})
}

func eachDistribution(
	ctx context.Context,
	im state.Immutable,
	stake codec.Address,
	f func(codec.Address, storage.Distribution) (math.Int, error),
) ([]RewardAmount, error) {
	assets, err := storage.GetDistributions(ctx, im, stake)
	if err != nil {
		return nil, err
	}
	out := make([]RewardAmount, 0, len(assets))
	for _, asset := range assets {
		d, err := storage.GetDistribution(ctx, im, stake, asset)
		if err != nil {
			return nil, err
		}
		amount, err := f(asset, d)
		if err != nil {
			return nil, err
		}
		out = append(out, RewardAmount{Asset: asset, Amount: amount})
	}
	return out, nil
}
