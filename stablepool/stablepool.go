// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package stablepool is the two coin StableSwap liquidity pool contract.
package stablepool

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/decimal"
	"github.com/ava-labs/phoenixvm/pool"
	"github.com/ava-labs/phoenixvm/pricing"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
	"github.com/ava-labs/phoenixvm/token"
)

type Pool struct {
	log    logging.Logger
	tokens token.Ops
	issuer token.Issuer
}

func New(log logging.Logger, tokens token.Ops, issuer token.Issuer) *Pool {
	return &Pool{log: log, tokens: tokens, issuer: issuer}
}

// Initialize creates the stable pool of (TokenA, TokenB) with a constant
// amplification of [args.InitAmp].
func (p *Pool) Initialize(ctx context.Context, mu state.Mutable, now uint64, args pool.InitializeArgs) (codec.Address, error) {
	if args.InitAmp == 0 || args.InitAmp > pricing.MaxAmp {
		return codec.EmptyAddress, fmt.Errorf("%w: %d not in (0, %d]", pricing.ErrInvalidAmp, args.InitAmp, pricing.MaxAmp)
	}
	addr, _, err := pool.CreatePool(ctx, p.tokens, p.issuer, mu, pricing.StableKind, args)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if err := storage.SetAmpParams(ctx, mu, addr, pricing.AmpParams{
		InitAmp:     args.InitAmp,
		InitAmpTime: now,
		NextAmp:     args.InitAmp,
		NextAmpTime: now,
	}); err != nil {
		return codec.EmptyAddress, err
	}
	p.log.Info("created stable pool",
		zap.Stringer("pool", addr),
		zap.Stringer("tokenA", args.TokenA),
		zap.Stringer("tokenB", args.TokenB),
		zap.Uint64("amp", args.InitAmp),
	)
	return addr, nil
}

// ProvideLiquidity deposits any mix of the two tokens. Shares grow with
// the invariant D.
func (p *Pool) ProvideLiquidity(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	now uint64,
	sender codec.Address,
	args pool.ProvideArgs,
) (pool.ProvideResult, error) {
	if err := pool.CheckDeadline(args.Deadline, now); err != nil {
		return pool.ProvideResult{}, err
	}
	desiredA, desiredB := pool.OrZero(args.DesiredA), pool.OrZero(args.DesiredB)
	if desiredA.IsNegative() || desiredB.IsNegative() {
		return pool.ProvideResult{}, fmt.Errorf("%w: %s/%s", pricing.ErrNegativeInputProvided, desiredA, desiredB)
	}
	if desiredA.IsZero() && desiredB.IsZero() {
		return pool.ProvideResult{}, fmt.Errorf("%w: nothing deposited", pricing.ErrInvalidDeposit)
	}
	cfg, reserves, err := pool.LoadPool(ctx, mu, addr, pricing.StableKind)
	if err != nil {
		return pool.ProvideResult{}, err
	}
	if reserves.TotalShares.IsZero() && (desiredA.IsZero() || desiredB.IsZero()) {
		return pool.ProvideResult{}, fmt.Errorf("%w: first deposit needs both tokens", pricing.ErrInvalidDeposit)
	}
	precisionA, precisionB, err := p.precisions(ctx, mu, cfg.TokenA, cfg.TokenB)
	if err != nil {
		return pool.ProvideResult{}, err
	}
	amp, err := currentAmp(ctx, mu, addr, now)
	if err != nil {
		return pool.ProvideResult{}, err
	}

	receivedA, receivedB := math.ZeroInt(), math.ZeroInt()
	if desiredA.IsPositive() {
		if receivedA, err = pool.Receive(ctx, p.tokens, mu, cfg.TokenA, sender, addr, desiredA); err != nil {
			return pool.ProvideResult{}, err
		}
	}
	if desiredB.IsPositive() {
		if receivedB, err = pool.Receive(ctx, p.tokens, mu, cfg.TokenB, sender, addr, desiredB); err != nil {
			return pool.ProvideResult{}, err
		}
	}
	newA := reserves.BalanceA.Add(receivedA)
	newB := reserves.BalanceB.Add(receivedB)

	shares, err := pricing.ComputeStableShares(
		amp,
		reserves.BalanceA, reserves.BalanceB,
		newA, newB,
		precisionA, precisionB,
		reserves.TotalShares,
	)
	if err != nil {
		return pool.ProvideResult{}, err
	}
	if reserves.TotalShares.IsZero() {
		locked := math.NewInt(pricing.MinimumLiquidityAmount)
		if err := p.tokens.Mint(ctx, mu, cfg.ShareToken, storage.BurnAddress(addr), locked); err != nil {
			return pool.ProvideResult{}, err
		}
		reserves.TotalShares = locked
	}
	if !shares.IsPositive() {
		return pool.ProvideResult{}, fmt.Errorf("%w: deposit mints no shares", pricing.ErrInsufficientLiquidity)
	}
	if !args.MinShares.IsNil() && shares.LT(args.MinShares) {
		return pool.ProvideResult{}, fmt.Errorf("%w: %s < %s", pricing.ErrIssuedSharesLessThanMin, shares, args.MinShares)
	}
	if err := p.tokens.Mint(ctx, mu, cfg.ShareToken, sender, shares); err != nil {
		return pool.ProvideResult{}, err
	}

	reserves.BalanceA = newA
	reserves.BalanceB = newB
	reserves.TotalShares = reserves.TotalShares.Add(shares)
	if err := storage.SetPoolReserves(ctx, mu, addr, reserves); err != nil {
		return pool.ProvideResult{}, err
	}
	p.log.Debug("provided stable liquidity",
		zap.Stringer("pool", addr),
		zap.Stringer("sender", sender),
		zap.Stringer("amountA", receivedA),
		zap.Stringer("amountB", receivedB),
		zap.Stringer("shares", shares),
		zap.Uint64("amp", amp),
	)
	return pool.ProvideResult{AmountA: receivedA, AmountB: receivedB, Shares: shares}, nil
}

// WithdrawLiquidity redeems shares pro rata, like the constant product
// pool.
func (p *Pool) WithdrawLiquidity(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	now uint64,
	sender codec.Address,
	args pool.WithdrawArgs,
) (pool.WithdrawResult, error) {
	cfg, reserves, err := pool.LoadPool(ctx, mu, addr, pricing.StableKind)
	if err != nil {
		return pool.WithdrawResult{}, err
	}
	result, reserves, err := pool.Withdraw(ctx, p.tokens, mu, addr, now, sender, cfg, reserves, args)
	if err != nil {
		return pool.WithdrawResult{}, err
	}
	if err := storage.SetPoolReserves(ctx, mu, addr, reserves); err != nil {
		return pool.WithdrawResult{}, err
	}
	p.log.Debug("withdrew stable liquidity",
		zap.Stringer("pool", addr),
		zap.Stringer("sender", sender),
		zap.Stringer("shares", args.ShareAmount),
	)
	return result, nil
}

func (p *Pool) Swap(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	now uint64,
	sender codec.Address,
	args pool.SwapArgs,
) (pool.SwapResult, error) {
	if err := pool.CheckDeadline(args.Deadline, now); err != nil {
		return pool.SwapResult{}, err
	}
	if err := pool.CheckPositive(args.OfferAmount); err != nil {
		return pool.SwapResult{}, err
	}
	cfg, reserves, err := pool.LoadPool(ctx, mu, addr, pricing.StableKind)
	if err != nil {
		return pool.SwapResult{}, err
	}
	commission, referral, maxSpread, err := pool.SwapFees(cfg, args)
	if err != nil {
		return pool.SwapResult{}, err
	}
	sides, err := pool.ResolveSides(cfg, reserves, args.OfferAsset)
	if err != nil {
		return pool.SwapResult{}, err
	}
	offerPrecision, askPrecision, err := p.precisions(ctx, mu, sides.OfferAsset, sides.AskAsset)
	if err != nil {
		return pool.SwapResult{}, err
	}
	amp, err := currentAmp(ctx, mu, addr, now)
	if err != nil {
		return pool.SwapResult{}, err
	}

	received, err := pool.Receive(ctx, p.tokens, mu, sides.OfferAsset, sender, addr, args.OfferAmount)
	if err != nil {
		return pool.SwapResult{}, err
	}
	result, err := pricing.ComputeStableSwap(
		sides.OfferPool, sides.AskPool, received,
		offerPrecision, askPrecision,
		commission, referral, amp,
	)
	if err != nil {
		return pool.SwapResult{}, err
	}
	if err := pool.CheckSwap(args, maxSpread, result); err != nil {
		return pool.SwapResult{}, err
	}
	if err := pool.Payout(ctx, p.tokens, mu, addr, cfg, sides.AskAsset, sender, args.Referral, result); err != nil {
		return pool.SwapResult{}, err
	}
	if err := storage.SetPoolReserves(ctx, mu, addr, sides.Apply(reserves, received, result.TotalReturn())); err != nil {
		return pool.SwapResult{}, err
	}
	p.log.Debug("stable swapped",
		zap.Stringer("pool", addr),
		zap.Stringer("sender", sender),
		zap.Stringer("offerAsset", sides.OfferAsset),
		zap.Stringer("offerAmount", received),
		zap.Stringer("returnAmount", result.ReturnAmount),
	)
	return pool.SwapResult{
		AskAsset:         sides.AskAsset,
		OfferAmount:      received,
		ReturnAmount:     result.ReturnAmount,
		SpreadAmount:     result.SpreadAmount,
		CommissionAmount: result.CommissionAmount,
		ReferralFee:      result.ReferralFee,
	}, nil
}

func (p *Pool) SimulateSwap(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
	now uint64,
	offerAsset codec.Address,
	offerAmount math.Int,
	referralFeeBps int64,
) (pool.SimulateSwapResponse, error) {
	cfg, reserves, err := pool.LoadPool(ctx, im, addr, pricing.StableKind)
	if err != nil {
		return pool.SimulateSwapResponse{}, err
	}
	if err := pricing.ValidateBps(referralFeeBps, cfg.MaxReferralBps); err != nil {
		return pool.SimulateSwapResponse{}, err
	}
	sides, err := pool.ResolveSides(cfg, reserves, offerAsset)
	if err != nil {
		return pool.SimulateSwapResponse{}, err
	}
	offerPrecision, askPrecision, err := p.precisions(ctx, im, sides.OfferAsset, sides.AskAsset)
	if err != nil {
		return pool.SimulateSwapResponse{}, err
	}
	amp, err := currentAmp(ctx, im, addr, now)
	if err != nil {
		return pool.SimulateSwapResponse{}, err
	}
	result, err := pricing.ComputeStableSwap(
		sides.OfferPool, sides.AskPool, offerAmount,
		offerPrecision, askPrecision,
		decimal.Bps(cfg.TotalFeeBps), decimal.Bps(referralFeeBps), amp,
	)
	if err != nil {
		return pool.SimulateSwapResponse{}, err
	}
	return pool.SimulateSwapResponse{
		AskAmount:        result.ReturnAmount,
		SpreadAmount:     result.SpreadAmount,
		CommissionAmount: result.CommissionAmount,
		TotalReturn:      result.TotalReturn(),
	}, nil
}

func (p *Pool) SimulateReverseSwap(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
	now uint64,
	askAsset codec.Address,
	askAmount math.Int,
	referralFeeBps int64,
) (pool.SimulateReverseSwapResponse, error) {
	cfg, reserves, err := pool.LoadPool(ctx, im, addr, pricing.StableKind)
	if err != nil {
		return pool.SimulateReverseSwapResponse{}, err
	}
	if err := pricing.ValidateBps(referralFeeBps, cfg.MaxReferralBps); err != nil {
		return pool.SimulateReverseSwapResponse{}, err
	}
	sides, err := pool.ResolveAskSides(cfg, reserves, askAsset)
	if err != nil {
		return pool.SimulateReverseSwapResponse{}, err
	}
	offerPrecision, askPrecision, err := p.precisions(ctx, im, sides.OfferAsset, sides.AskAsset)
	if err != nil {
		return pool.SimulateReverseSwapResponse{}, err
	}
	amp, err := currentAmp(ctx, im, addr, now)
	if err != nil {
		return pool.SimulateReverseSwapResponse{}, err
	}
	result, err := pricing.ComputeStableOfferAmount(
		sides.OfferPool, sides.AskPool, askAmount,
		offerPrecision, askPrecision,
		decimal.Bps(cfg.TotalFeeBps), decimal.Bps(referralFeeBps), amp,
	)
	if err != nil {
		return pool.SimulateReverseSwapResponse{}, err
	}
	return pool.SimulateReverseSwapResponse{
		OfferAmount:      result.OfferAmount,
		SpreadAmount:     result.SpreadAmount,
		CommissionAmount: result.CommissionAmount,
	}, nil
}

// RampAmp moves the amplification linearly from its current value to
// [nextAmp] at [nextAmpTime].
func (p *Pool) RampAmp(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	now uint64,
	sender codec.Address,
	nextAmp uint64,
	nextAmpTime uint64,
) error {
	cfg, err := loadAdmin(ctx, mu, addr, sender)
	if err != nil {
		return err
	}
	amp, err := currentAmp(ctx, mu, addr, now)
	if err != nil {
		return err
	}
	if err := pricing.ValidateRamp(amp, nextAmp, now, nextAmpTime); err != nil {
		return err
	}
	if err := storage.SetAmpParams(ctx, mu, addr, pricing.AmpParams{
		InitAmp:     amp,
		InitAmpTime: now,
		NextAmp:     nextAmp,
		NextAmpTime: nextAmpTime,
	}); err != nil {
		return err
	}
	p.log.Info("ramping amp",
		zap.Stringer("pool", addr),
		zap.Stringer("admin", cfg.Admin),
		zap.Uint64("from", amp),
		zap.Uint64("to", nextAmp),
		zap.Uint64("until", nextAmpTime),
	)
	return nil
}

// StopAmp freezes the amplification at its current value.
func (p *Pool) StopAmp(ctx context.Context, mu state.Mutable, addr codec.Address, now uint64, sender codec.Address) error {
	if _, err := loadAdmin(ctx, mu, addr, sender); err != nil {
		return err
	}
	amp, err := currentAmp(ctx, mu, addr, now)
	if err != nil {
		return err
	}
	if err := storage.SetAmpParams(ctx, mu, addr, pricing.AmpParams{
		InitAmp:     amp,
		InitAmpTime: now,
		NextAmp:     amp,
		NextAmpTime: now,
	}); err != nil {
		return err
	}
	p.log.Info("stopped amp ramp", zap.Stringer("pool", addr), zap.Uint64("amp", amp))
	return nil
}

func (p *Pool) UpdateConfig(ctx context.Context, mu state.Mutable, addr codec.Address, sender codec.Address, update pool.ConfigUpdate) error {
	cfg, _, err := pool.LoadPool(ctx, mu, addr, pricing.StableKind)
	if err != nil {
		return err
	}
	cfg, err = pool.UpdateConfig(cfg, sender, update)
	if err != nil {
		return err
	}
	if err := storage.SetPoolConfig(ctx, mu, addr, cfg); err != nil {
		return err
	}
	p.log.Info("updated stable pool config", zap.Stringer("pool", addr), zap.Int64("feeBps", cfg.TotalFeeBps))
	return nil
}

// QueryPoolInfo reports the pool with its amplification at [now].
func (*Pool) QueryPoolInfo(ctx context.Context, im state.Immutable, addr codec.Address, now uint64) (pool.Info, error) {
	cfg, reserves, err := pool.LoadPool(ctx, im, addr, pricing.StableKind)
	if err != nil {
		return pool.Info{}, err
	}
	amp, err := currentAmp(ctx, im, addr, now)
	if err != nil {
		return pool.Info{}, err
	}
	return pool.Info{Address: addr, Config: cfg, Reserves: reserves, Amp: amp}, nil
}

func (*Pool) QueryShare(ctx context.Context, im state.Immutable, addr codec.Address, amount math.Int) ([2]pool.Asset, error) {
	cfg, reserves, err := pool.LoadPool(ctx, im, addr, pricing.StableKind)
	if err != nil {
		return [2]pool.Asset{}, err
	}
	return pool.ShareOf(cfg, reserves, amount)
}

func (p *Pool) precisions(ctx context.Context, im state.Immutable, x, y codec.Address) (uint32, uint32, error) {
	dx, err := p.tokens.Decimals(ctx, im, x)
	if err != nil {
		return 0, 0, err
	}
	dy, err := p.tokens.Decimals(ctx, im, y)
	if err != nil {
		return 0, 0, err
	}
	return uint32(dx), uint32(dy), nil
}

func currentAmp(ctx context.Context, im state.Immutable, addr codec.Address, now uint64) (uint64, error) {
	params, err := storage.GetAmpParams(ctx, im, addr)
	if err != nil {
		return 0, err
	}
	return pricing.ComputeCurrentAmp(params, now), nil
}

func loadAdmin(ctx context.Context, im state.Immutable, addr codec.Address, sender codec.Address) (storage.PoolConfig, error) {
	cfg, _, err := pool.LoadPool(ctx, im, addr, pricing.StableKind)
	if err != nil {
		return storage.PoolConfig{}, err
	}
	if sender != cfg.Admin {
		return storage.PoolConfig{}, fmt.Errorf("%w: %s is not the pool admin", pool.ErrUnauthorized, sender)
	}
	return cfg, nil
}
