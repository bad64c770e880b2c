// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"

	"github.com/ava-labs/phoenixvm/decimal"
)

const (
	// DecimalPrecision is the common precision all stable swap math runs
	// at, whatever the token decimals are.
	DecimalPrecision = decimal.Places

	// Iterations caps both Newton solvers.
	Iterations = 64

	NCoins = 2

	MaxAmp             = 1_000_000
	MaxAmpChange       = 10
	MinAmpChangingTime = 86_400
)

// AmpParams is a linear ramp of the amplification coefficient between
// (InitAmpTime, InitAmp) and (NextAmpTime, NextAmp).
type AmpParams struct {
	InitAmp     uint64
	InitAmpTime uint64
	NextAmp     uint64
	NextAmpTime uint64
}

// ComputeCurrentAmp interpolates the amplification at [now], clamped to
// the ramp endpoints.
func ComputeCurrentAmp(p AmpParams, now uint64) uint64 {
	if now >= p.NextAmpTime {
		return p.NextAmp
	}
	if now <= p.InitAmpTime {
		return p.InitAmp
	}
	elapsed := uint256.NewInt(now - p.InitAmpTime)
	window := uint256.NewInt(p.NextAmpTime - p.InitAmpTime)
	if p.NextAmp >= p.InitAmp {
		delta := new(uint256.Int).Mul(uint256.NewInt(p.NextAmp-p.InitAmp), elapsed)
		return p.InitAmp + delta.Div(delta, window).Uint64()
	}
	delta := new(uint256.Int).Mul(uint256.NewInt(p.InitAmp-p.NextAmp), elapsed)
	return p.InitAmp - delta.Div(delta, window).Uint64()
}

// ValidateRamp checks a requested amp change against the current one:
// the target must be within (0, MaxAmp], the ramp must last at least
// MinAmpChangingTime and the amp may change by at most MaxAmpChange times.
func ValidateRamp(currentAmp, nextAmp, now, nextAmpTime uint64) error {
	if nextAmp == 0 || nextAmp > MaxAmp {
		return fmt.Errorf("%w: %d not in (0, %d]", ErrInvalidAmp, nextAmp, MaxAmp)
	}
	if nextAmpTime < now || nextAmpTime-now < MinAmpChangingTime {
		return fmt.Errorf("%w: ramp must last at least %d seconds", ErrInvalidTime, MinAmpChangingTime)
	}
	if nextAmp > currentAmp && nextAmp > currentAmp*MaxAmpChange {
		return fmt.Errorf("%w: %d is more than %dx %d", ErrInvalidAmp, nextAmp, MaxAmpChange, currentAmp)
	}
	if nextAmp < currentAmp && nextAmp*MaxAmpChange < currentAmp {
		return fmt.Errorf("%w: %d is less than 1/%d of %d", ErrInvalidAmp, nextAmp, MaxAmpChange, currentAmp)
	}
	return nil
}

// ComputeD solves the two coin invariant
//
//	A*n^n*(x+y) + D = A*D*n^n + D^(n+1) / (n^n*x*y)
//
// for D with Newton's method. Inputs are at [DecimalPrecision]. The loop
// stops once D moves by at most one unit and fails with [ErrNotConverging]
// if that takes more than [Iterations] rounds.
func ComputeD(amp uint64, x, y *uint256.Int) (*uint256.Int, error) {
	return computeD(amp, x, y, Iterations)
}

func computeD(amp uint64, x, y *uint256.Int, rounds int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrContractMath
	}
	if sum.IsZero() {
		return new(uint256.Int), nil
	}
	if x.IsZero() || y.IsZero() {
		return nil, fmt.Errorf("%w: one sided reserves", ErrContractMath)
	}
	ann := annOf(amp)
	if ann.IsZero() {
		return nil, ErrInvalidAmp
	}

	annSum, err := mul(ann, sum)
	if err != nil {
		return nil, err
	}
	twoX := new(uint256.Int).Lsh(x, 1)
	twoY := new(uint256.Int).Lsh(y, 1)
	annMinusOne := new(uint256.Int).SubUint64(ann, 1)

	d := sum.Clone()
	for i := 0; i < rounds; i++ {
		dp, err := mulDiv(d, d, twoX)
		if err != nil {
			return nil, err
		}
		dp, err = mulDiv(dp, d, twoY)
		if err != nil {
			return nil, err
		}
		prev := d

		// (Ann*S + 2*D_P) * D / ((Ann-1)*D + 3*D_P)
		num, err := add(annSum, new(uint256.Int).Lsh(dp, 1))
		if err != nil {
			return nil, err
		}
		left, err := mul(annMinusOne, d)
		if err != nil {
			return nil, err
		}
		right, err := mul(dp, uint256.NewInt(NCoins+1))
		if err != nil {
			return nil, err
		}
		den, err := add(left, right)
		if err != nil {
			return nil, err
		}
		d, err = mulDiv(num, d, den)
		if err != nil {
			return nil, err
		}
		if withinOne(d, prev) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: D after %d rounds", ErrNotConverging, rounds)
}

// CalcY returns the balance of the other coin that keeps D unchanged when
// one side moves to [newX]. [x] and [y] are the current balances the
// invariant is computed from, all at [DecimalPrecision]. The result is
// rescaled to [targetPrecision].
func CalcY(amp uint64, newX, x, y *uint256.Int, targetPrecision uint32) (*uint256.Int, error) {
	if newX.IsZero() {
		return nil, fmt.Errorf("%w: zero balance", ErrContractMath)
	}
	d, err := ComputeD(amp, x, y)
	if err != nil {
		return nil, err
	}
	ann := annOf(amp)

	// c = D^3 / (n^n * x * Ann), b = x + D/Ann
	c, err := mulDiv(d, d, new(uint256.Int).Lsh(newX, 1))
	if err != nil {
		return nil, err
	}
	c, err = mulDiv(c, d, new(uint256.Int).Lsh(ann, 1))
	if err != nil {
		return nil, err
	}
	b, err := add(newX, new(uint256.Int).Div(d, ann))
	if err != nil {
		return nil, err
	}

	yv := d.Clone()
	for i := 0; i < Iterations; i++ {
		prev := yv
		// y = (y^2 + c) / (2y + b - D)
		sq, err := mul(yv, yv)
		if err != nil {
			return nil, err
		}
		num, err := add(sq, c)
		if err != nil {
			return nil, err
		}
		den, err := add(new(uint256.Int).Lsh(yv, 1), b)
		if err != nil {
			return nil, err
		}
		den, underflow := den.SubOverflow(den, d)
		if underflow || den.IsZero() {
			return nil, fmt.Errorf("%w: degenerate denominator", ErrContractMath)
		}
		yv = new(uint256.Int).Div(num, den)
		if withinOne(yv, prev) {
			return decimal.ScaleValue(yv, DecimalPrecision, targetPrecision)
		}
	}
	return nil, ErrNotConverging
}

// ComputeStableSwap quotes selling [offerAmount] into a stable pool. The
// pool is treated as 1:1 so any shortfall of the return against the offer
// is spread.
func ComputeStableSwap(
	offerPool math.Int,
	askPool math.Int,
	offerAmount math.Int,
	offerPrecision uint32,
	askPrecision uint32,
	commission decimal.Decimal,
	referral decimal.Decimal,
	amp uint64,
) (SwapResult, error) {
	if err := checkAmounts(offerPool, askPool, offerAmount); err != nil {
		return SwapResult{}, err
	}
	if offerPool.IsZero() || askPool.IsZero() {
		return SwapResult{}, ErrEmptyPool
	}
	offerPoolS, err := scaleInt(offerPool, offerPrecision, DecimalPrecision)
	if err != nil {
		return SwapResult{}, err
	}
	askPoolS, err := scaleInt(askPool, askPrecision, DecimalPrecision)
	if err != nil {
		return SwapResult{}, err
	}
	offerS, err := scaleInt(offerAmount, offerPrecision, DecimalPrecision)
	if err != nil {
		return SwapResult{}, err
	}
	newOfferS, err := add(offerPoolS, offerS)
	if err != nil {
		return SwapResult{}, err
	}

	newAskS, err := CalcY(amp, newOfferS, offerPoolS, askPoolS, DecimalPrecision)
	if err != nil {
		return SwapResult{}, err
	}
	returnS, underflow := new(uint256.Int).SubOverflow(askPoolS, newAskS)
	if underflow {
		return SwapResult{}, fmt.Errorf("%w: ask reserve grew on swap", ErrContractMath)
	}
	returnAmount, err := unscaleInt(returnS, DecimalPrecision, askPrecision)
	if err != nil {
		return SwapResult{}, err
	}

	offerInAsk, err := rescaleInt(offerAmount, offerPrecision, askPrecision)
	if err != nil {
		return SwapResult{}, err
	}
	spread := math.MaxInt(offerInAsk.Sub(returnAmount), math.ZeroInt())

	final, commissionAmount, referralFee := applyFees(returnAmount, commission, referral)
	return SwapResult{
		ReturnAmount:     final,
		SpreadAmount:     spread,
		CommissionAmount: commissionAmount,
		ReferralFee:      referralFee,
	}, nil
}

// ComputeStableOfferAmount is the inverse of [ComputeStableSwap].
func ComputeStableOfferAmount(
	offerPool math.Int,
	askPool math.Int,
	askAmount math.Int,
	offerPrecision uint32,
	askPrecision uint32,
	commission decimal.Decimal,
	referral decimal.Decimal,
	amp uint64,
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

	offerPoolS, err := scaleInt(offerPool, offerPrecision, DecimalPrecision)
	if err != nil {
		return ReverseSwapResult{}, err
	}
	askPoolS, err := scaleInt(askPool, askPrecision, DecimalPrecision)
	if err != nil {
		return ReverseSwapResult{}, err
	}
	newAskS, err := scaleInt(askPool.Sub(askBeforeCommission), askPrecision, DecimalPrecision)
	if err != nil {
		return ReverseSwapResult{}, err
	}

	newOfferS, err := CalcY(amp, newAskS, askPoolS, offerPoolS, DecimalPrecision)
	if err != nil {
		return ReverseSwapResult{}, err
	}
	offerS, underflow := new(uint256.Int).SubOverflow(newOfferS, offerPoolS)
	if underflow {
		return ReverseSwapResult{}, fmt.Errorf("%w: offer reserve shrank on swap", ErrContractMath)
	}
	offerAmount, err := unscaleInt(offerS, DecimalPrecision, offerPrecision)
	if err != nil {
		return ReverseSwapResult{}, err
	}

	offerInAsk, err := rescaleInt(offerAmount, offerPrecision, askPrecision)
	if err != nil {
		return ReverseSwapResult{}, err
	}
	spread := math.MaxInt(offerInAsk.Sub(askBeforeCommission), math.ZeroInt())

	commissionAmount := commission.MulInt(askBeforeCommission)
	referralFee := referral.MulInt(askBeforeCommission.Sub(commissionAmount))
	return ReverseSwapResult{
		OfferAmount:      offerAmount,
		SpreadAmount:     spread,
		CommissionAmount: commissionAmount,
		ReferralFee:      referralFee,
	}, nil
}

// ComputeStableShares returns the shares minted for moving the reserves
// from old to new. An empty pool gets D at the greatest token precision
// minus [MinimumLiquidityAmount]; otherwise shares grow with D.
func ComputeStableShares(
	amp uint64,
	oldA, oldB math.Int,
	newA, newB math.Int,
	precisionA, precisionB uint32,
	totalShares math.Int,
) (math.Int, error) {
	newAS, err := scaleInt(newA, precisionA, DecimalPrecision)
	if err != nil {
		return math.Int{}, err
	}
	newBS, err := scaleInt(newB, precisionB, DecimalPrecision)
	if err != nil {
		return math.Int{}, err
	}
	newD, err := ComputeD(amp, newAS, newBS)
	if err != nil {
		return math.Int{}, err
	}

	if totalShares.IsZero() {
		greatest := max(precisionA, precisionB)
		dAtPrecision, err := decimal.ScaleValue(newD, DecimalPrecision, greatest)
		if err != nil {
			return math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
		}
		shares, err := decimal.FromUint256(dAtPrecision)
		if err != nil {
			return math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
		}
		shares = shares.SubRaw(MinimumLiquidityAmount)
		if !shares.IsPositive() {
			return math.Int{}, fmt.Errorf("%w: invariant %s too small", ErrLowLiquidity, dAtPrecision)
		}
		return shares, nil
	}

	oldAS, err := scaleInt(oldA, precisionA, DecimalPrecision)
	if err != nil {
		return math.Int{}, err
	}
	oldBS, err := scaleInt(oldB, precisionB, DecimalPrecision)
	if err != nil {
		return math.Int{}, err
	}
	oldD, err := ComputeD(amp, oldAS, oldBS)
	if err != nil {
		return math.Int{}, err
	}
	if oldD.IsZero() {
		return math.Int{}, fmt.Errorf("%w: zero invariant", ErrContractMath)
	}
	growth, underflow := new(uint256.Int).SubOverflow(newD, oldD)
	if underflow {
		return math.Int{}, fmt.Errorf("%w: invariant decreased", ErrContractMath)
	}
	total, err := decimal.ToUint256(totalShares)
	if err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	shares, err := mulDiv(total, growth, oldD)
	if err != nil {
		return math.Int{}, err
	}
	out, err := decimal.FromUint256(shares)
	if err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	return out, nil
}

func annOf(amp uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(amp), uint256.NewInt(NCoins*NCoins))
}

func withinOne(a, b *uint256.Int) bool {
	diff := new(uint256.Int)
	if a.Gt(b) {
		diff.Sub(a, b)
	} else {
		diff.Sub(b, a)
	}
	return diff.LtUint64(2)
}

func add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, fmt.Errorf("%w: add overflow", ErrContractMath)
	}
	return z, nil
}

func mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, fmt.Errorf("%w: mul overflow", ErrContractMath)
	}
	return z, nil
}

// mulDiv computes x*y/d with a 512 bit intermediate.
func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("%w: division by zero", ErrContractMath)
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, fmt.Errorf("%w: mul div overflow", ErrContractMath)
	}
	return z, nil
}

func scaleInt(v math.Int, from, to uint32) (*uint256.Int, error) {
	u, err := decimal.ToUint256(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	s, err := decimal.ScaleValue(u, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	return s, nil
}

func unscaleInt(v *uint256.Int, from, to uint32) (math.Int, error) {
	s, err := decimal.ScaleValue(v, from, to)
	if err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	out, err := decimal.FromUint256(s)
	if err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrContractMath, err)
	}
	return out, nil
}

func rescaleInt(v math.Int, from, to uint32) (math.Int, error) {
	s, err := scaleInt(v, from, to)
	if err != nil {
		return math.Int{}, err
	}
	return unscaleInt(s, DecimalPrecision, DecimalPrecision)
}
