// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pricing holds the pure swap and liquidity math of the constant
// product and stable swap pools. Nothing here touches state.
package pricing

import (
	"fmt"

	"cosmossdk.io/math"

	"github.com/ava-labs/phoenixvm/decimal"
)

// Pool kinds
const (
	InvalidKind uint8 = iota
	XykKind
	StableKind
)

const (
	// MinimumLiquidityAmount shares are minted to the burn address on the
	// first deposit and never redeemed.
	MinimumLiquidityAmount = 1_000

	MaxBps = 10_000
)

// SwapResult is the outcome of a forward swap. ReturnAmount is what the
// trader receives after commission and referral fee.
type SwapResult struct {
	ReturnAmount     math.Int
	SpreadAmount     math.Int
	CommissionAmount math.Int
	ReferralFee      math.Int
}

// TotalReturn is the gross amount leaving the ask reserve.
func (r SwapResult) TotalReturn() math.Int {
	return r.ReturnAmount.Add(r.CommissionAmount).Add(r.ReferralFee)
}

// ReverseSwapResult answers "how much do I need to offer to receive the
// requested ask amount".
type ReverseSwapResult struct {
	OfferAmount      math.Int
	SpreadAmount     math.Int
	CommissionAmount math.Int
	ReferralFee      math.Int
}

// ValidateBps checks that [bps] lies within [0, limit].
func ValidateBps(bps int64, limit int64) error {
	if bps < 0 || bps > limit {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidBps, bps, limit)
	}
	return nil
}

// ResolveMaxSpread returns the spread limit of a swap. A caller supplied
// limit must not exceed the configured one.
func ResolveMaxSpread(custom *int64, configured int64) (decimal.Decimal, error) {
	if custom == nil {
		return decimal.Bps(configured), nil
	}
	if err := ValidateBps(*custom, configured); err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.Bps(*custom), nil
}

// AssertMaxSpread fails with [ErrSpreadExceedsLimit] when spread /
// totalReturn is above [maxSpread]. totalReturn includes the fees.
func AssertMaxSpread(maxSpread decimal.Decimal, spread, totalReturn math.Int) error {
	if totalReturn.IsZero() {
		if spread.IsPositive() {
			return fmt.Errorf("%w: spread %s with nothing returned", ErrSpreadExceedsLimit, spread)
		}
		return nil
	}
	ratio, err := decimal.FromRatio(spread, totalReturn)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	if ratio.GT(maxSpread) {
		return fmt.Errorf("%w: %s > %s", ErrSpreadExceedsLimit, ratio, maxSpread)
	}
	return nil
}

// ComputeWithdrawal returns the reserves owed for burning [shares] out of
// [totalShares]. Both returns are rounded down.
func ComputeWithdrawal(balanceA, balanceB, shares, totalShares math.Int) (math.Int, math.Int, error) {
	if totalShares.IsZero() {
		return math.Int{}, math.Int{}, ErrTotalSharesEqualZero
	}
	if !shares.IsPositive() || shares.GT(totalShares) {
		return math.Int{}, math.Int{}, fmt.Errorf("%w: withdrawing %s of %s shares", ErrInvalidShares, shares, totalShares)
	}
	ratio, err := decimal.FromRatio(shares, totalShares)
	if err != nil {
		return math.Int{}, math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	return ratio.MulInt(balanceA), ratio.MulInt(balanceB), nil
}

// applyFees splits [gross] into the commission, the referral fee taken from
// what is left, and the final amount.
func applyFees(gross math.Int, commission, referral decimal.Decimal) (final, commissionAmount, referralFee math.Int) {
	commissionAmount = commission.MulInt(gross)
	afterFee := gross.Sub(commissionAmount)
	referralFee = referral.MulInt(afterFee)
	return afterFee.Sub(referralFee), commissionAmount, referralFee
}

// grossUp inverts [applyFees]: it returns the gross amount whose net after
// commission and referral is [net].
func grossUp(net math.Int, commission, referral decimal.Decimal) (math.Int, error) {
	keepCommission, err := decimal.One().Sub(commission)
	if err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrInvalidBps, err)
	}
	keepReferral, err := decimal.One().Sub(referral)
	if err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrInvalidBps, err)
	}
	keep, err := keepCommission.Mul(keepReferral)
	if err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	inv, err := keep.Inv()
	if err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	return inv.MulInt(net), nil
}

func checkAmounts(amounts ...math.Int) error {
	for _, a := range amounts {
		if a.IsNegative() {
			return fmt.Errorf("%w: %s", ErrNegativeInputProvided, a)
		}
		if err := decimal.CheckI128(a); err != nil {
			return fmt.Errorf("%w: %w", ErrContractMath, err)
		}
	}
	return nil
}
