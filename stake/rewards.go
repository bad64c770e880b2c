// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package stake

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"

	"github.com/ava-labs/phoenixvm/curve"
	"github.com/ava-labs/phoenixvm/decimal"
	"github.com/ava-labs/phoenixvm/storage"
)

const (
	// SharesShift scales points so small distributions survive the
	// division by total power.
	SharesShift = 32

	TokenPerPower  = 1_000
	SecondsPerYear = 31_536_000
)

// CalcPower converts a stake into reward power. Stakes under [minBond]
// have none.
func CalcPower(stake, minBond math.Int, multiplier int64, tokenPerPower int64) math.Int {
	if stake.LT(minBond) {
		return math.ZeroInt()
	}
	return stake.MulRaw(multiplier).QuoRaw(tokenPerPower)
}

// Distribute spreads [amount] over [totalPower] by raising the points per
// share. The remainder is carried in SharesLeftover.
func Distribute(d storage.Distribution, amount, totalPower math.Int) (storage.Distribution, error) {
	if !amount.IsPositive() || !totalPower.IsPositive() {
		return d, nil
	}
	a, err := decimal.ToUint256(amount)
	if err != nil {
		return d, err
	}
	power, err := decimal.ToUint256(totalPower)
	if err != nil {
		return d, err
	}
	points := new(uint256.Int).Lsh(a, SharesShift)
	points.Add(points, uint256.NewInt(d.SharesLeftover))
	perShare, leftover := new(uint256.Int).DivMod(points, power, new(uint256.Int))
	if !leftover.IsUint64() {
		return d, fmt.Errorf("%w: leftover %s", ErrPowerOverflow, leftover)
	}
	d.SharesPerPoint = d.SharesPerPoint.Add(math.NewIntFromBigInt(perShare.ToBig()))
	d.SharesLeftover = leftover.Uint64()
	d.DistributedTotal = d.DistributedTotal.Add(amount)
	d.WithdrawableTotal = d.WithdrawableTotal.Add(amount)
	return d, nil
}

// UpdateRewards keeps the rewards earned so far fixed when a staker's
// power moves from [oldPower] to [newPower].
func UpdateRewards(d storage.Distribution, adj storage.WithdrawAdjustment, oldPower, newPower math.Int) storage.WithdrawAdjustment {
	if oldPower.Equal(newPower) {
		return adj
	}
	diff := newPower.Sub(oldPower)
	adj.SharesCorrection = adj.SharesCorrection.Sub(d.SharesPerPoint.Mul(diff))
	return adj
}

// WithdrawableRewards is what a staker with [power] can withdraw now.
func WithdrawableRewards(d storage.Distribution, adj storage.WithdrawAdjustment, power math.Int) math.Int {
	points := d.SharesPerPoint.Mul(power).Add(adj.SharesCorrection)
	if !points.IsPositive() {
		return math.ZeroInt()
	}
	shifted := new(uint256.Int).Rsh(uint256.MustFromBig(points.BigInt()), SharesShift)
	earned := math.NewIntFromBigInt(shifted.ToBig())
	return math.MaxInt(earned.Sub(adj.WithdrawnRewards), math.ZeroInt())
}

// CalculateAnnualizedPayout extrapolates the yearly release of a reward
// curve from [now].
func CalculateAnnualizedPayout(c curve.Curve, now uint64) math.Int {
	end, ok := c.End()
	if !ok || end <= now {
		return math.ZeroInt()
	}
	remaining := end - now
	current := c.Value(now)
	if remaining >= SecondsPerYear {
		return current.Sub(c.Value(now + SecondsPerYear))
	}
	return current.MulRaw(SecondsPerYear).Quo(math.NewIntFromUint64(remaining))
}
