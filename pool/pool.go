// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pool is the constant product (XYK) liquidity pool contract.
package pool

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/decimal"
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

// Initialize creates the pool of (TokenA, TokenB) and its share token.
func (p *Pool) Initialize(ctx context.Context, mu state.Mutable, args InitializeArgs) (codec.Address, error) {
	addr, cfg, err := CreatePool(ctx, p.tokens, p.issuer, mu, pricing.XykKind, args)
	if err != nil {
		return codec.EmptyAddress, err
	}
	p.log.Info("created pool",
		zap.Stringer("pool", addr),
		zap.Stringer("tokenA", cfg.TokenA),
		zap.Stringer("tokenB", cfg.TokenB),
		zap.Int64("feeBps", cfg.TotalFeeBps),
	)
	return addr, nil
}

// ProvideLiquidity deposits both tokens at the pool ratio and mints shares
// to [sender].
func (p *Pool) ProvideLiquidity(
	ctx context.Context,
	mu state.Mutable,
	pool codec.Address,
	now uint64,
	sender codec.Address,
	args ProvideArgs,
) (ProvideResult, error) {
	if err := CheckDeadline(args.Deadline, now); err != nil {
		return ProvideResult{}, err
	}
	if args.DesiredA.IsNil() || args.DesiredB.IsNil() || !args.DesiredA.IsPositive() || !args.DesiredB.IsPositive() {
		return ProvideResult{}, fmt.Errorf("%w: both sides must be positive", pricing.ErrInvalidDeposit)
	}
	minA, minB := OrZero(args.MinA), OrZero(args.MinB)
	if minA.IsNegative() || minB.IsNegative() {
		return ProvideResult{}, fmt.Errorf("%w: negative minimum", pricing.ErrNegativeInputProvided)
	}
	cfg, reserves, err := LoadPool(ctx, mu, pool, pricing.XykKind)
	if err != nil {
		return ProvideResult{}, err
	}

	empty := reserves.BalanceA.IsZero() && reserves.BalanceB.IsZero()
	if !empty {
		if err := pricing.AssertSlippageTolerance(
			args.CustomSlippageBps,
			[2]math.Int{args.DesiredA, args.DesiredB},
			[2]math.Int{reserves.BalanceA, reserves.BalanceB},
			cfg.MaxAllowedSlippageBps,
		); err != nil {
			return ProvideResult{}, err
		}
	}
	amountA, amountB, err := pricing.GetDepositAmounts(args.DesiredA, minA, args.DesiredB, minB, reserves.BalanceA, reserves.BalanceB)
	if err != nil {
		return ProvideResult{}, err
	}

	receivedA, err := Receive(ctx, p.tokens, mu, cfg.TokenA, sender, pool, amountA)
	if err != nil {
		return ProvideResult{}, err
	}
	receivedB, err := Receive(ctx, p.tokens, mu, cfg.TokenB, sender, pool, amountB)
	if err != nil {
		return ProvideResult{}, err
	}
	newA := reserves.BalanceA.Add(receivedA)
	newB := reserves.BalanceB.Add(receivedB)

	var shares math.Int
	if reserves.TotalShares.IsZero() {
		shares, err = pricing.ComputeFirstShares(receivedA, receivedB)
		if err != nil {
			return ProvideResult{}, err
		}
		locked := math.NewInt(pricing.MinimumLiquidityAmount)
		if err := p.tokens.Mint(ctx, mu, cfg.ShareToken, storage.BurnAddress(pool), locked); err != nil {
			return ProvideResult{}, err
		}
		reserves.TotalShares = locked
	} else {
		shares, err = pricing.ComputeShares(reserves.BalanceA, reserves.BalanceB, newA, newB, reserves.TotalShares)
		if err != nil {
			return ProvideResult{}, err
		}
	}
	if !shares.IsPositive() {
		return ProvideResult{}, fmt.Errorf("%w: deposit mints no shares", pricing.ErrInsufficientLiquidity)
	}
	if !args.MinShares.IsNil() && shares.LT(args.MinShares) {
		return ProvideResult{}, fmt.Errorf("%w: %s < %s", pricing.ErrIssuedSharesLessThanMin, shares, args.MinShares)
	}
	if err := p.tokens.Mint(ctx, mu, cfg.ShareToken, sender, shares); err != nil {
		return ProvideResult{}, err
	}

	reserves.BalanceA = newA
	reserves.BalanceB = newB
	reserves.TotalShares = reserves.TotalShares.Add(shares)
	if err := storage.SetPoolReserves(ctx, mu, pool, reserves); err != nil {
		return ProvideResult{}, err
	}
	p.log.Debug("provided liquidity",
		zap.Stringer("pool", pool),
		zap.Stringer("sender", sender),
		zap.Stringer("amountA", receivedA),
		zap.Stringer("amountB", receivedB),
		zap.Stringer("shares", shares),
	)
	return ProvideResult{AmountA: receivedA, AmountB: receivedB, Shares: shares}, nil
}

// WithdrawLiquidity burns shares of [sender] for its part of the reserves.
func (p *Pool) WithdrawLiquidity(
	ctx context.Context,
	mu state.Mutable,
	pool codec.Address,
	now uint64,
	sender codec.Address,
	args WithdrawArgs,
) (WithdrawResult, error) {
	cfg, reserves, err := LoadPool(ctx, mu, pool, pricing.XykKind)
	if err != nil {
		return WithdrawResult{}, err
	}
	result, reserves, err := Withdraw(ctx, p.tokens, mu, pool, now, sender, cfg, reserves, args)
	if err != nil {
		return WithdrawResult{}, err
	}
	if err := storage.SetPoolReserves(ctx, mu, pool, reserves); err != nil {
		return WithdrawResult{}, err
	}
	p.log.Debug("withdrew liquidity",
		zap.Stringer("pool", pool),
		zap.Stringer("sender", sender),
		zap.Stringer("shares", args.ShareAmount),
		zap.Stringer("amountA", result.AmountA),
		zap.Stringer("amountB", result.AmountB),
	)
	return result, nil
}

// Swap sells [args.OfferAmount] of [args.OfferAsset] for the other token.
// The return is priced on what the pool actually received.
func (p *Pool) Swap(
	ctx context.Context,
	mu state.Mutable,
	pool codec.Address,
	now uint64,
	sender codec.Address,
	args SwapArgs,
) (SwapResult, error) {
	if err := CheckDeadline(args.Deadline, now); err != nil {
		return SwapResult{}, err
	}
	if err := CheckPositive(args.OfferAmount); err != nil {
		return SwapResult{}, err
	}
	cfg, reserves, err := LoadPool(ctx, mu, pool, pricing.XykKind)
	if err != nil {
		return SwapResult{}, err
	}
	commission, referral, maxSpread, err := SwapFees(cfg, args)
	if err != nil {
		return SwapResult{}, err
	}
	sides, err := ResolveSides(cfg, reserves, args.OfferAsset)
	if err != nil {
		return SwapResult{}, err
	}

	received, err := Receive(ctx, p.tokens, mu, sides.OfferAsset, sender, pool, args.OfferAmount)
	if err != nil {
		return SwapResult{}, err
	}
	result, err := pricing.ComputeSwap(sides.OfferPool, sides.AskPool, received, commission, referral)
	if err != nil {
		return SwapResult{}, err
	}
	if err := CheckSwap(args, maxSpread, result); err != nil {
		return SwapResult{}, err
	}
	if err := Payout(ctx, p.tokens, mu, pool, cfg, sides.AskAsset, sender, args.Referral, result); err != nil {
		return SwapResult{}, err
	}
	if err := storage.SetPoolReserves(ctx, mu, pool, sides.Apply(reserves, received, result.TotalReturn())); err != nil {
		return SwapResult{}, err
	}
	p.log.Debug("swapped",
		zap.Stringer("pool", pool),
		zap.Stringer("sender", sender),
		zap.Stringer("offerAsset", sides.OfferAsset),
		zap.Stringer("offerAmount", received),
		zap.Stringer("returnAmount", result.ReturnAmount),
		zap.Stringer("commission", result.CommissionAmount),
	)
	return SwapResult{
		AskAsset:         sides.AskAsset,
		OfferAmount:      received,
		ReturnAmount:     result.ReturnAmount,
		SpreadAmount:     result.SpreadAmount,
		CommissionAmount: result.CommissionAmount,
		ReferralFee:      result.ReferralFee,
	}, nil
}

// SimulateSwap quotes a swap without moving funds.
func (*Pool) SimulateSwap(
	ctx context.Context,
	im state.Immutable,
	pool codec.Address,
	offerAsset codec.Address,
	offerAmount math.Int,
	referralFeeBps int64,
) (SimulateSwapResponse, error) {
	cfg, reserves, err := LoadPool(ctx, im, pool, pricing.XykKind)
	if err != nil {
		return SimulateSwapResponse{}, err
	}
	if err := pricing.ValidateBps(referralFeeBps, cfg.MaxReferralBps); err != nil {
		return SimulateSwapResponse{}, err
	}
	sides, err := ResolveSides(cfg, reserves, offerAsset)
	if err != nil {
		return SimulateSwapResponse{}, err
	}
	result, err := pricing.ComputeSwap(sides.OfferPool, sides.AskPool, offerAmount, decimal.Bps(cfg.TotalFeeBps), decimal.Bps(referralFeeBps))
	if err != nil {
		return SimulateSwapResponse{}, err
	}
	return SimulateSwapResponse{
		AskAmount:        result.ReturnAmount,
		SpreadAmount:     result.SpreadAmount,
		CommissionAmount: result.CommissionAmount,
		TotalReturn:      result.TotalReturn(),
	}, nil
}

// SimulateReverseSwap quotes the offer needed to receive [askAmount] of
// [askAsset].
func (*Pool) SimulateReverseSwap(
	ctx context.Context,
	im state.Immutable,
	pool codec.Address,
	askAsset codec.Address,
	askAmount math.Int,
	referralFeeBps int64,
) (SimulateReverseSwapResponse, error) {
	cfg, reserves, err := LoadPool(ctx, im, pool, pricing.XykKind)
	if err != nil {
		return SimulateReverseSwapResponse{}, err
	}
	if err := pricing.ValidateBps(referralFeeBps, cfg.MaxReferralBps); err != nil {
		return SimulateReverseSwapResponse{}, err
	}
	sides, err := ResolveAskSides(cfg, reserves, askAsset)
	if err != nil {
		return SimulateReverseSwapResponse{}, err
	}
	result, err := pricing.ComputeOfferAmount(sides.OfferPool, sides.AskPool, askAmount, decimal.Bps(cfg.TotalFeeBps), decimal.Bps(referralFeeBps))
	if err != nil {
		return SimulateReverseSwapResponse{}, err
	}
	return SimulateReverseSwapResponse{
		OfferAmount:      result.OfferAmount,
		SpreadAmount:     result.SpreadAmount,
		CommissionAmount: result.CommissionAmount,
	}, nil
}

// UpdateConfig changes the fee settings. Only the admin may call it.
func (p *Pool) UpdateConfig(ctx context.Context, mu state.Mutable, pool codec.Address, sender codec.Address, update ConfigUpdate) error {
	cfg, err := storage.GetPoolConfig(ctx, mu, pool)
	if err != nil {
		return err
	}
	cfg, err = UpdateConfig(cfg, sender, update)
	if err != nil {
		return err
	}
	if err := storage.SetPoolConfig(ctx, mu, pool, cfg); err != nil {
		return err
	}
	p.log.Info("updated pool config",
		zap.Stringer("pool", pool),
		zap.Int64("feeBps", cfg.TotalFeeBps),
		zap.Int64("maxSpreadBps", cfg.MaxAllowedSpreadBps),
	)
	return nil
}

func (*Pool) QueryPoolInfo(ctx context.Context, im state.Immutable, pool codec.Address) (Info, error) {
	cfg, reserves, err := LoadPool(ctx, im, pool, pricing.XykKind)
	if err != nil {
		return Info{}, err
	}
	return Info{Address: pool, Config: cfg, Reserves: reserves}, nil
}

// QueryShare returns what [amount] shares redeem for.
func (*Pool) QueryShare(ctx context.Context, im state.Immutable, pool codec.Address, amount math.Int) ([2]Asset, error) {
	cfg, reserves, err := LoadPool(ctx, im, pool, pricing.XykKind)
	if err != nil {
		return [2]Asset{}, err
	}
	return ShareOf(cfg, reserves, amount)
}
