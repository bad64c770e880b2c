// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/decimal"
	"github.com/ava-labs/phoenixvm/pricing"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
	"github.com/ava-labs/phoenixvm/token"
)

// CheckDeadline fails once [now] is past a set deadline.
func CheckDeadline(deadline *uint64, now uint64) error {
	if deadline != nil && now > *deadline {
		return fmt.Errorf("%w: %d > %d", pricing.ErrTransactionAfterTimestampDeadline, now, *deadline)
	}
	return nil
}

// OrZero maps an unset amount to zero.
func OrZero(v math.Int) math.Int {
	if v.IsNil() {
		return math.ZeroInt()
	}
	return v
}

// CheckPositive fails unless every amount is set and above zero.
func CheckPositive(amounts ...math.Int) error {
	for _, a := range amounts {
		if a.IsNil() || !a.IsPositive() {
			return fmt.Errorf("%w: %s", pricing.ErrNegativeInputProvided, OrZero(a))
		}
	}
	return nil
}

// Receive moves [amount] of [tok] from [from] to [to] and returns what
// [to] actually gained.
func Receive(
	ctx context.Context,
	tokens token.Ops,
	mu state.Mutable,
	tok codec.Address,
	from codec.Address,
	to codec.Address,
	amount math.Int,
) (math.Int, error) {
	before, err := tokens.Balance(ctx, mu, tok, to)
	if err != nil {
		return math.Int{}, err
	}
	if err := tokens.Transfer(ctx, mu, tok, from, to, amount); err != nil {
		return math.Int{}, err
	}
	after, err := tokens.Balance(ctx, mu, tok, to)
	if err != nil {
		return math.Int{}, err
	}
	received := after.Sub(before)
	if received.IsNegative() {
		return math.Int{}, fmt.Errorf("%w: balance of %s dropped on transfer", pricing.ErrContractMath, to)
	}
	return received, nil
}

// ValidateFees checks every fee field of a pool config.
func ValidateFees(cfg storage.PoolConfig) error {
	for _, bps := range []int64{
		cfg.TotalFeeBps,
		cfg.MaxAllowedSlippageBps,
		cfg.MaxAllowedSpreadBps,
		cfg.MaxReferralBps,
	} {
		if err := pricing.ValidateBps(bps, pricing.MaxBps); err != nil {
			return err
		}
	}
	return nil
}

// Sides orders a pool's reserves as (offer, ask) for a swap of
// [offerAsset].
type Sides struct {
	OfferAsset codec.Address
	AskAsset   codec.Address
	OfferPool  math.Int
	AskPool    math.Int
	OfferIsA   bool
}

func ResolveSides(cfg storage.PoolConfig, reserves storage.PoolReserves, offerAsset codec.Address) (Sides, error) {
	switch offerAsset {
	case cfg.TokenA:
		return Sides{
			OfferAsset: cfg.TokenA,
			AskAsset:   cfg.TokenB,
			OfferPool:  reserves.BalanceA,
			AskPool:    reserves.BalanceB,
			OfferIsA:   true,
		}, nil
	case cfg.TokenB:
		return Sides{
			OfferAsset: cfg.TokenB,
			AskAsset:   cfg.TokenA,
			OfferPool:  reserves.BalanceB,
			AskPool:    reserves.BalanceA,
		}, nil
	default:
		return Sides{}, fmt.Errorf("%w: %s", pricing.ErrAssetNotInPool, offerAsset)
	}
}

// ResolveAskSides is [ResolveSides] keyed by the asset wanted.
func ResolveAskSides(cfg storage.PoolConfig, reserves storage.PoolReserves, askAsset codec.Address) (Sides, error) {
	switch askAsset {
	case cfg.TokenA:
		return ResolveSides(cfg, reserves, cfg.TokenB)
	case cfg.TokenB:
		return ResolveSides(cfg, reserves, cfg.TokenA)
	default:
		return Sides{}, fmt.Errorf("%w: %s", pricing.ErrAssetNotInPool, askAsset)
	}
}

// Apply returns [reserves] after [offer] came in and [out] left.
func (s Sides) Apply(reserves storage.PoolReserves, offer, out math.Int) storage.PoolReserves {
	if s.OfferIsA {
		reserves.BalanceA = reserves.BalanceA.Add(offer)
		reserves.BalanceB = reserves.BalanceB.Sub(out)
	} else {
		reserves.BalanceB = reserves.BalanceB.Add(offer)
		reserves.BalanceA = reserves.BalanceA.Sub(out)
	}
	return reserves
}

// SwapFees resolves the fee policy of a swap: the pool commission, the
// referral rate and the spread limit.
func SwapFees(cfg storage.PoolConfig, args SwapArgs) (commission, referral, maxSpread decimal.Decimal, err error) {
	if args.MaxAllowedFeeBps != nil && cfg.TotalFeeBps > *args.MaxAllowedFeeBps {
		return commission, referral, maxSpread, fmt.Errorf("%w: pool fee %d > %d", pricing.ErrUserDeclinesPoolFee, cfg.TotalFeeBps, *args.MaxAllowedFeeBps)
	}
	referral = decimal.Zero()
	if args.Referral != nil {
		if err := pricing.ValidateBps(args.Referral.FeeBps, cfg.MaxReferralBps); err != nil {
			return commission, referral, maxSpread, err
		}
		referral = decimal.Bps(args.Referral.FeeBps)
	}
	maxSpread, err = pricing.ResolveMaxSpread(args.MaxSpreadBps, cfg.MaxAllowedSpreadBps)
	if err != nil {
		return commission, referral, maxSpread, err
	}
	return decimal.Bps(cfg.TotalFeeBps), referral, maxSpread, nil
}

// Payout sends the results of a swap from [pool]: the return to [sender],
// the commission to the fee recipient and the referral fee to the
// referrer.
func Payout(
	ctx context.Context,
	tokens token.Ops,
	mu state.Mutable,
	pool codec.Address,
	cfg storage.PoolConfig,
	askAsset codec.Address,
	sender codec.Address,
	referral *Referral,
	result pricing.SwapResult,
) error {
	if err := tokens.Transfer(ctx, mu, askAsset, pool, sender, result.ReturnAmount); err != nil {
		return err
	}
	if err := tokens.Transfer(ctx, mu, askAsset, pool, cfg.FeeRecipient, result.CommissionAmount); err != nil {
		return err
	}
	if referral != nil {
		return tokens.Transfer(ctx, mu, askAsset, pool, referral.Address, result.ReferralFee)
	}
	return nil
}

// CheckSwap applies the caller guards to a computed swap.
func CheckSwap(args SwapArgs, maxSpread decimal.Decimal, result pricing.SwapResult) error {
	if !args.MinAskAmount.IsNil() && args.MinAskAmount.GT(result.ReturnAmount) {
		return fmt.Errorf("%w: %s > %s", pricing.ErrSwapMinReceivedBiggerThanReturn, args.MinAskAmount, result.ReturnAmount)
	}
	return pricing.AssertMaxSpread(maxSpread, result.SpreadAmount, result.TotalReturn())
}

// Withdraw burns [args.ShareAmount] of [sender] and pays out its part of
// the reserves. It serves both pool kinds.
func Withdraw(
	ctx context.Context,
	tokens token.Ops,
	mu state.Mutable,
	pool codec.Address,
	now uint64,
	sender codec.Address,
	cfg storage.PoolConfig,
	reserves storage.PoolReserves,
	args WithdrawArgs,
) (WithdrawResult, storage.PoolReserves, error) {
	if err := CheckDeadline(args.Deadline, now); err != nil {
		return WithdrawResult{}, reserves, err
	}
	if err := CheckPositive(args.ShareAmount); err != nil {
		return WithdrawResult{}, reserves, err
	}
	returnA, returnB, err := pricing.ComputeWithdrawal(reserves.BalanceA, reserves.BalanceB, args.ShareAmount, reserves.TotalShares)
	if err != nil {
		return WithdrawResult{}, reserves, err
	}
	if minA := OrZero(args.MinA); returnA.LT(minA) {
		return WithdrawResult{}, reserves, fmt.Errorf("%w: a %s < %s", pricing.ErrMinimumAmountNotSatisfied, returnA, minA)
	}
	if minB := OrZero(args.MinB); returnB.LT(minB) {
		return WithdrawResult{}, reserves, fmt.Errorf("%w: b %s < %s", pricing.ErrMinimumAmountNotSatisfied, returnB, minB)
	}
	if err := tokens.Burn(ctx, mu, cfg.ShareToken, sender, args.ShareAmount); err != nil {
		return WithdrawResult{}, reserves, err
	}
	if err := tokens.Transfer(ctx, mu, cfg.TokenA, pool, sender, returnA); err != nil {
		return WithdrawResult{}, reserves, err
	}
	if err := tokens.Transfer(ctx, mu, cfg.TokenB, pool, sender, returnB); err != nil {
		return WithdrawResult{}, reserves, err
	}
	reserves.BalanceA = reserves.BalanceA.Sub(returnA)
	reserves.BalanceB = reserves.BalanceB.Sub(returnB)
	reserves.TotalShares = reserves.TotalShares.Sub(args.ShareAmount)
	return WithdrawResult{AmountA: returnA, AmountB: returnB}, reserves, nil
}

// UpdateConfig applies [update] for [sender], who must be the admin.
func UpdateConfig(cfg storage.PoolConfig, sender codec.Address, update ConfigUpdate) (storage.PoolConfig, error) {
	if sender != cfg.Admin {
		return cfg, fmt.Errorf("%w: %s is not the pool admin", ErrUnauthorized, sender)
	}
	if update.TotalFeeBps != nil {
		cfg.TotalFeeBps = *update.TotalFeeBps
	}
	if update.MaxAllowedSlippageBps != nil {
		cfg.MaxAllowedSlippageBps = *update.MaxAllowedSlippageBps
	}
	if update.MaxAllowedSpreadBps != nil {
		cfg.MaxAllowedSpreadBps = *update.MaxAllowedSpreadBps
	}
	if update.MaxReferralBps != nil {
		cfg.MaxReferralBps = *update.MaxReferralBps
	}
	if update.FeeRecipient != nil {
		cfg.FeeRecipient = *update.FeeRecipient
	}
	if update.NewAdmin != nil {
		cfg.Admin = *update.NewAdmin
	}
	return cfg, ValidateFees(cfg)
}

// ShareOf returns the reserves redeemable for [amount] shares. An empty
// pool redeems nothing.
func ShareOf(cfg storage.PoolConfig, reserves storage.PoolReserves, amount math.Int) ([2]Asset, error) {
	out := [2]Asset{
		{Token: cfg.TokenA, Amount: math.ZeroInt()},
		{Token: cfg.TokenB, Amount: math.ZeroInt()},
	}
	if reserves.TotalShares.IsZero() {
		return out, nil
	}
	a, b, err := pricing.ComputeWithdrawal(reserves.BalanceA, reserves.BalanceB, amount, reserves.TotalShares)
	if err != nil {
		return out, err
	}
	out[0].Amount, out[1].Amount = a, b
	return out, nil
}

// CreatePool validates [args] and writes the config, empty reserves and
// share token of a new pool of [kind].
func CreatePool(
	ctx context.Context,
	tokens token.Ops,
	issuer token.Issuer,
	mu state.Mutable,
	kind uint8,
	args InitializeArgs,
) (codec.Address, storage.PoolConfig, error) {
	if args.TokenA.Compare(args.TokenB) >= 0 {
		return codec.EmptyAddress, storage.PoolConfig{}, fmt.Errorf("%w: %s >= %s", ErrTokensNotSorted, args.TokenA, args.TokenB)
	}
	for _, t := range []codec.Address{args.TokenA, args.TokenB} {
		if _, err := tokens.Decimals(ctx, mu, t); err != nil {
			return codec.EmptyAddress, storage.PoolConfig{}, err
		}
	}
	addr, err := storage.PoolAddress(kind, args.TokenA, args.TokenB)
	if err != nil {
		return codec.EmptyAddress, storage.PoolConfig{}, err
	}
	exists, err := storage.HasPool(ctx, mu, addr)
	if err != nil {
		return codec.EmptyAddress, storage.PoolConfig{}, err
	}
	if exists {
		return codec.EmptyAddress, storage.PoolConfig{}, fmt.Errorf("%w: %s", ErrPoolExists, addr)
	}
	cfg := storage.PoolConfig{
		Kind:                  kind,
		TokenA:                args.TokenA,
		TokenB:                args.TokenB,
		ShareToken:            storage.ShareTokenAddress(addr),
		TotalFeeBps:           args.TotalFeeBps,
		MaxAllowedSlippageBps: args.MaxAllowedSlippageBps,
		MaxAllowedSpreadBps:   args.MaxAllowedSpreadBps,
		MaxReferralBps:        args.MaxReferralBps,
		FeeRecipient:          args.FeeRecipient,
		Admin:                 args.Admin,
	}
	if err := ValidateFees(cfg); err != nil {
		return codec.EmptyAddress, storage.PoolConfig{}, err
	}
	if err := issuer.CreateAt(ctx, mu, cfg.ShareToken, storage.TokenInfo{
		Name:        ShareTokenName,
		Symbol:      ShareTokenSymbol,
		Decimals:    ShareTokenDecimals,
		TotalSupply: math.ZeroInt(),
		Owner:       addr,
	}); err != nil {
		return codec.EmptyAddress, storage.PoolConfig{}, err
	}
	if err := storage.SetPoolConfig(ctx, mu, addr, cfg); err != nil {
		return codec.EmptyAddress, storage.PoolConfig{}, err
	}
	if err := storage.SetPoolReserves(ctx, mu, addr, storage.PoolReserves{
		BalanceA:    math.ZeroInt(),
		BalanceB:    math.ZeroInt(),
		TotalShares: math.ZeroInt(),
	}); err != nil {
		return codec.EmptyAddress, storage.PoolConfig{}, err
	}
	return addr, cfg, nil
}

// LoadPool reads the config and reserves of [pool] and checks its kind.
func LoadPool(ctx context.Context, im state.Immutable, pool codec.Address, kind uint8) (storage.PoolConfig, storage.PoolReserves, error) {
	cfg, err := storage.GetPoolConfig(ctx, im, pool)
	if err != nil {
		return storage.PoolConfig{}, storage.PoolReserves{}, err
	}
	if cfg.Kind != kind {
		return storage.PoolConfig{}, storage.PoolReserves{}, fmt.Errorf("%w: %s has kind %d", ErrWrongPoolKind, pool, cfg.Kind)
	}
	reserves, err := storage.GetPoolReserves(ctx, im, pool)
	if err != nil {
		return storage.PoolConfig{}, storage.PoolReserves{}, err
	}
	return cfg, reserves, nil
}
