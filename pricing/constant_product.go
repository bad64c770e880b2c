// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"

	"github.com/ava-labs/phoenixvm/decimal"
)

// ComputeSwap quotes selling [offerAmount] into a constant product pool.
//
//	return_raw = ask_pool - offer_pool * ask_pool / (offer_pool + offer_amount)
//	expected   = offer_amount * ask_pool / offer_pool
//	spread     = max(expected - return_raw, 0)
//
// return_raw is rounded down so the product of the reserves never shrinks.
func ComputeSwap(
	offerPool math.Int,
	askPool math.Int,
	offerAmount math.Int,
	commission decimal.Decimal,
	referral decimal.Decimal,
) (SwapResult, error) {
	if err := checkAmounts(offerPool, askPool, offerAmount); err != nil {
		return SwapResult{}, err
	}
	if offerPool.IsZero() || askPool.IsZero() {
		return SwapResult{}, ErrEmptyPool
	}

	cp := offerPool.Mul(askPool)
	den := offerPool.Add(offerAmount)
	returnAmount := askPool.Mul(den).Sub(cp).Quo(den)

	expected := offerAmount.Mul(askPool).Quo(offerPool)
	spread := math.MaxInt(expected.Sub(returnAmount), math.ZeroInt())

	final, commissionAmount, referralFee := applyFees(returnAmount, commission, referral)
	return SwapResult{
		ReturnAmount:     final,
		SpreadAmount:     spread,
		CommissionAmount: commissionAmount,
		ReferralFee:      referralFee,
	}, nil
}

// ComputeOfferAmount is the inverse of [ComputeSwap]: the offer needed for
// the trader to receive [askAmount] after fees.
func ComputeOfferAmount(
	offerPool math.Int,
	askPool math.Int,
	askAmount math.Int,
	commission decimal.Decimal,
	referral decimal.Decimal,
) (ReverseSwapResult, error) {
	if err := checkAmounts(offerPool, askPool, askAmount); err != nil {
		return ReverseSwapResult{}, err
	}
	if offerPool.IsZero() || askPool.IsZero() {
		return ReverseSwapResult{}, ErrEmptyPool
	}

	askBeforeCommission, err := grossUp(askAmount, commission, referral)
	if err != nil {
		return ReverseSwapResult{}, err
	}
	if askBeforeCommission.GTE(askPool) {
		return ReverseSwapResult{}, fmt.Errorf("%w: %s >= %s", ErrAskExceedsPool, askBeforeCommission, askPool)
	}

	cp := offerPool.Mul(askPool)
	offerAmount := cp.Quo(askPool.Sub(askBeforeCommission)).Sub(offerPool)

	expected := offerAmount.Mul(askPool).Quo(offerPool)
	spread := math.MaxInt(expected.Sub(askBeforeCommission), math.ZeroInt())

	commissionAmount := commission.MulInt(askBeforeCommission)
	referralFee := referral.MulInt(askBeforeCommission.Sub(commissionAmount))
	return ReverseSwapResult{
		OfferAmount:      offerAmount,
		SpreadAmount:     spread,
		CommissionAmount: commissionAmount,
		ReferralFee:      referralFee,
	}, nil
}

// AssertSlippageTolerance rejects deposits whose ratio deviates from the
// pool ratio by more than the tolerance. A nil [custom] uses [maxAllowedBps].
func AssertSlippageTolerance(custom *int64, deposits [2]math.Int, pools [2]math.Int, maxAllowedBps int64) error {
	tolerance, err := ResolveMaxSpread(custom, maxAllowedBps)
	if err != nil {
		return err
	}
	oneMinus, err := decimal.One().Sub(tolerance)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBps, err)
	}
	d0p1 := deposits[0].Mul(pools[1])
	d1p0 := deposits[1].Mul(pools[0])
	if oneMinus.MulInt(d0p1).GT(d1p0) || oneMinus.MulInt(d1p0).GT(d0p1) {
		return fmt.Errorf("%w: deposit %s/%s against pool %s/%s", ErrSlippageInvalid, deposits[0], deposits[1], pools[0], pools[1])
	}
	return nil
}

// GetDepositAmounts matches the desired deposit to the pool ratio by
// lowering whichever side is in excess. Zero minimums are ignored.
func GetDepositAmounts(
	desiredA math.Int,
	minA math.Int,
	desiredB math.Int,
	minB math.Int,
	poolA math.Int,
	poolB math.Int,
) (math.Int, math.Int, error) {
	if poolA.IsZero() && poolB.IsZero() {
		return desiredA, desiredB, nil
	}
	if poolA.IsZero() || poolB.IsZero() {
		return math.Int{}, math.Int{}, fmt.Errorf("%w: one sided reserves %s/%s", ErrContractMath, poolA, poolB)
	}
	if minA.GT(desiredA) || minB.GT(desiredB) {
		return math.Int{}, math.Int{}, fmt.Errorf("%w: minimum above desired", ErrDepositExceedsDesired)
	}

	poolRatio, err := decimal.FromRatio(poolA, poolB)
	if err != nil {
		return math.Int{}, math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	desiredRatio, err := decimal.FromRatio(desiredA, desiredB)
	if err != nil {
		return math.Int{}, math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
	}

	if poolRatio.LT(desiredRatio) {
		// Too much A: take all of B and the matching amount of A.
		depositA := poolRatio.MulInt(desiredB)
		if depositA.GT(desiredA) {
			return math.Int{}, math.Int{}, fmt.Errorf("%w: a %s > %s", ErrDepositExceedsDesired, depositA, desiredA)
		}
		if depositA.LT(minA) {
			return math.Int{}, math.Int{}, fmt.Errorf("%w: a %s < %s", ErrDepositBelowMin, depositA, minA)
		}
		return depositA, desiredB, nil
	}

	depositB, err := poolRatio.DivInt(desiredA)
	if err != nil {
		return math.Int{}, math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	if depositB.GT(desiredB) {
		return math.Int{}, math.Int{}, fmt.Errorf("%w: b %s > %s", ErrDepositExceedsDesired, depositB, desiredB)
	}
	if depositB.LT(minB) {
		return math.Int{}, math.Int{}, fmt.Errorf("%w: b %s < %s", ErrDepositBelowMin, depositB, minB)
	}
	return desiredA, depositB, nil
}

// ComputeFirstShares bootstraps an empty pool. It returns the shares owed to
// the depositor; [MinimumLiquidityAmount] more are locked at the burn
// address by the caller.
func ComputeFirstShares(amountA, amountB math.Int) (math.Int, error) {
	if err := checkAmounts(amountA, amountB); err != nil {
		return math.Int{}, err
	}
	a, err := decimal.ToUint256(amountA)
	if err != nil {
		return math.Int{}, err
	}
	b, err := decimal.ToUint256(amountB)
	if err != nil {
		return math.Int{}, err
	}
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return math.Int{}, fmt.Errorf("%w: %s * %s", decimal.ErrOverflow, amountA, amountB)
	}
	shares, err := decimal.FromUint256(new(uint256.Int).Sqrt(product))
	if err != nil {
		return math.Int{}, err
	}
	if shares.LTE(math.NewInt(MinimumLiquidityAmount)) {
		return math.Int{}, fmt.Errorf("%w: sqrt(%s * %s) = %s", ErrInsufficientLiquidity, amountA, amountB, shares)
	}
	return shares.SubRaw(MinimumLiquidityAmount), nil
}

// ComputeShares returns the shares minted when the reserves grow from
// old to new: the smaller of the two proportional increases.
func ComputeShares(oldA, oldB, newA, newB, totalShares math.Int) (math.Int, error) {
	if oldA.IsZero() || oldB.IsZero() {
		return math.Int{}, fmt.Errorf("%w: empty reserve", ErrContractMath)
	}
	byA := newA.Mul(totalShares).Quo(oldA)
	byB := newB.Mul(totalShares).Quo(oldB)
	shares := math.MinInt(byA, byB).Sub(totalShares)
	if shares.IsNegative() {
		return math.Int{}, fmt.Errorf("%w: negative share amount %s", ErrContractMath, shares)
	}
	if err := decimal.CheckI128(shares); err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	return shares, nil
}
