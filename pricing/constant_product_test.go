// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"math/rand"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/phoenixvm/decimal"
)

func TestComputeSwap(t *testing.T) {
	tests := []struct {
		name        string
		offerPool   int64
		askPool     int64
		offer       int64
		feeBps      int64
		referralBps int64
		expected    SwapResult
		expectedErr error
	}{
		{
			name:      "no fee",
			offerPool: 1_000_000,
			askPool:   1_000_000,
			offer:     10_000,
			expected: SwapResult{
				ReturnAmount:     math.NewInt(9_900),
				SpreadAmount:     math.NewInt(100),
				CommissionAmount: math.ZeroInt(),
				ReferralFee:      math.ZeroInt(),
			},
		},
		{
			name:      "30 bps commission",
			offerPool: 1_000_000,
			askPool:   1_000_000,
			offer:     10_000,
			feeBps:    30,
			expected: SwapResult{
				ReturnAmount:     math.NewInt(9_871),
				SpreadAmount:     math.NewInt(100),
				CommissionAmount: math.NewInt(29),
				ReferralFee:      math.ZeroInt(),
			},
		},
		{
			name:        "commission and referral",
			offerPool:   1_000_000,
			askPool:     1_000_000,
			offer:       10_000,
			feeBps:      30,
			referralBps: 100,
			expected: SwapResult{
				ReturnAmount:     math.NewInt(9_773),
				SpreadAmount:     math.NewInt(100),
				CommissionAmount: math.NewInt(29),
				ReferralFee:      math.NewInt(98),
			},
		},
		{
			name:      "unbalanced pool",
			offerPool: 1_000_000,
			askPool:   2_000_000,
			offer:     50_000,
			expected: SwapResult{
				ReturnAmount:     math.NewInt(95_238),
				SpreadAmount:     math.NewInt(4_762),
				CommissionAmount: math.ZeroInt(),
				ReferralFee:      math.ZeroInt(),
			},
		},
		{
			name:        "empty pool",
			offerPool:   0,
			askPool:     0,
			offer:       10,
			expectedErr: ErrEmptyPool,
		},
		{
			name:        "negative offer",
			offerPool:   100,
			askPool:     100,
			offer:       -10,
			expectedErr: ErrNegativeInputProvided,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			r, err := ComputeSwap(
				math.NewInt(tt.offerPool),
				math.NewInt(tt.askPool),
				math.NewInt(tt.offer),
				decimal.Bps(tt.feeBps),
				decimal.Bps(tt.referralBps),
			)
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr != nil {
				return
			}
			require.Equal(tt.expected.ReturnAmount.String(), r.ReturnAmount.String())
			require.Equal(tt.expected.SpreadAmount.String(), r.SpreadAmount.String())
			require.Equal(tt.expected.CommissionAmount.String(), r.CommissionAmount.String())
			require.Equal(tt.expected.ReferralFee.String(), r.ReferralFee.String())
		})
	}
}

func TestSwapRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		offerPool   int64
		askPool     int64
		offer       int64
		feeBps      int64
		referralBps int64
	}{
		{"balanced", 1_000_000, 1_000_000, 10_000, 0, 0},
		{"with commission", 1_000_000, 1_000_000, 10_000, 30, 0},
		{"with referral", 1_000_000, 1_000_000, 10_000, 30, 100},
		{"unbalanced", 1_000_000, 2_000_000, 50_000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			commission, referral := decimal.Bps(tt.feeBps), decimal.Bps(tt.referralBps)

			forward, err := ComputeSwap(math.NewInt(tt.offerPool), math.NewInt(tt.askPool), math.NewInt(tt.offer), commission, referral)
			require.NoError(err)
			reverse, err := ComputeOfferAmount(math.NewInt(tt.offerPool), math.NewInt(tt.askPool), forward.ReturnAmount, commission, referral)
			require.NoError(err)
			require.InDelta(tt.offer, reverse.OfferAmount.Int64(), 3)
		})
	}
}

func TestComputeOfferAmountExceedsPool(t *testing.T) {
	_, err := ComputeOfferAmount(math.NewInt(1_000), math.NewInt(1_000), math.NewInt(1_000), decimal.Zero(), decimal.Zero())
	require.ErrorIs(t, err, ErrAskExceedsPool)
}

func TestInvariantNeverDecreasesWithoutFee(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(1)) //nolint:gosec

	a := math.NewInt(1_000_000_007)
	b := math.NewInt(3_000_000_019)
	for i := 0; i < 500; i++ {
		offer := math.NewInt(r.Int63n(50_000_000) + 1)
		before := a.Mul(b)

		var err error
		if i%2 == 0 {
			var res SwapResult
			res, err = ComputeSwap(a, b, offer, decimal.Zero(), decimal.Zero())
			require.NoError(err)
			a = a.Add(offer)
			b = b.Sub(res.ReturnAmount)
		} else {
			var res SwapResult
			res, err = ComputeSwap(b, a, offer, decimal.Zero(), decimal.Zero())
			require.NoError(err)
			b = b.Add(offer)
			a = a.Sub(res.ReturnAmount)
		}
		require.True(a.Mul(b).GTE(before), "swap %d shrank the invariant", i)
	}
}

func TestAssertMaxSpread(t *testing.T) {
	require := require.New(t)

	require.NoError(AssertMaxSpread(decimal.Percent(1), math.NewInt(100), math.NewInt(10_000)))
	require.ErrorIs(AssertMaxSpread(decimal.Percent(1), math.NewInt(101), math.NewInt(10_000)), ErrSpreadExceedsLimit)
	require.NoError(AssertMaxSpread(decimal.Percent(1), math.ZeroInt(), math.ZeroInt()))
	require.ErrorIs(AssertMaxSpread(decimal.Percent(1), math.OneInt(), math.ZeroInt()), ErrSpreadExceedsLimit)
}

func TestResolveMaxSpread(t *testing.T) {
	require := require.New(t)

	d, err := ResolveMaxSpread(nil, 500)
	require.NoError(err)
	require.True(d.Equal(decimal.Bps(500)))

	custom := int64(100)
	d, err = ResolveMaxSpread(&custom, 500)
	require.NoError(err)
	require.True(d.Equal(decimal.Bps(100)))

	custom = 501
	_, err = ResolveMaxSpread(&custom, 500)
	require.ErrorIs(err, ErrInvalidBps)

	custom = -1
	_, err = ResolveMaxSpread(&custom, 500)
	require.ErrorIs(err, ErrInvalidBps)
}

func TestGetDepositAmounts(t *testing.T) {
	tests := []struct {
		name        string
		desiredA    int64
		minA        int64
		desiredB    int64
		minB        int64
		poolA       int64
		poolB       int64
		expectedA   int64
		expectedB   int64
		expectedErr error
	}{
		{
			name:      "empty pool takes everything",
			desiredA:  123,
			desiredB:  456,
			expectedA: 123,
			expectedB: 456,
		},
		{
			name:      "excess a is trimmed",
			desiredA:  600,
			desiredB:  1_000,
			poolA:     1_000,
			poolB:     2_000,
			expectedA: 500,
			expectedB: 1_000,
		},
		{
			name:      "excess b is trimmed",
			desiredA:  500,
			desiredB:  1_200,
			poolA:     1_000,
			poolB:     2_000,
			expectedA: 500,
			expectedB: 1_000,
		},
		{
			name:        "minimum above desired",
			desiredA:    500,
			minA:        501,
			desiredB:    1_000,
			poolA:       1_000,
			poolB:       2_000,
			expectedErr: ErrDepositExceedsDesired,
		},
		{
			name:        "trimmed below minimum",
			desiredA:    600,
			minA:        550,
			desiredB:    1_000,
			poolA:       1_000,
			poolB:       2_000,
			expectedErr: ErrDepositBelowMin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			a, b, err := GetDepositAmounts(
				math.NewInt(tt.desiredA),
				math.NewInt(tt.minA),
				math.NewInt(tt.desiredB),
				math.NewInt(tt.minB),
				math.NewInt(tt.poolA),
				math.NewInt(tt.poolB),
			)
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr != nil {
				return
			}
			require.Equal(tt.expectedA, a.Int64())
			require.Equal(tt.expectedB, b.Int64())
		})
	}
}

func TestAssertSlippageTolerance(t *testing.T) {
	require := require.New(t)
	pools := [2]math.Int{math.NewInt(1_000), math.NewInt(1_000)}
	tolerance := int64(100)

	require.NoError(AssertSlippageTolerance(&tolerance, [2]math.Int{math.NewInt(1_000), math.NewInt(1_005)}, pools, 500))
	require.ErrorIs(
		AssertSlippageTolerance(&tolerance, [2]math.Int{math.NewInt(1_000), math.NewInt(1_100)}, pools, 500),
		ErrSlippageInvalid,
	)
	require.ErrorIs(
		AssertSlippageTolerance(&tolerance, [2]math.Int{math.NewInt(1_100), math.NewInt(1_000)}, pools, 500),
		ErrSlippageInvalid,
	)

	tooLoose := int64(600)
	require.ErrorIs(
		AssertSlippageTolerance(&tooLoose, [2]math.Int{math.NewInt(1_000), math.NewInt(1_000)}, pools, 500),
		ErrInvalidBps,
	)
	// the configured maximum applies when the caller gives none
	require.NoError(AssertSlippageTolerance(nil, [2]math.Int{math.NewInt(1_000), math.NewInt(1_040)}, pools, 500))
}

func TestComputeFirstShares(t *testing.T) {
	tests := []struct {
		name        string
		a           int64
		b           int64
		expected    int64
		expectedErr error
	}{
		{"below minimum liquidity", 100, 100, 0, ErrInsufficientLiquidity},
		{"exactly minimum liquidity", 1_000, 1_000, 0, ErrInsufficientLiquidity},
		{"one million each", 1_000_000, 1_000_000, 999_000, nil},
		{"uneven", 4_000_000, 1_000_000, 1_999_000, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			shares, err := ComputeFirstShares(math.NewInt(tt.a), math.NewInt(tt.b))
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr != nil {
				return
			}
			require.Equal(tt.expected, shares.Int64())
		})
	}
}

func TestComputeFirstSharesWideAmounts(t *testing.T) {
	require := require.New(t)
	// 2^126 on each side: the product needs 252 bits.
	side := math.NewInt(1 << 62).Mul(math.NewInt(1 << 62)).MulRaw(4)
	shares, err := ComputeFirstShares(side, side)
	require.NoError(err)
	require.Equal(side.SubRaw(MinimumLiquidityAmount).String(), shares.String())

	uneven, err := ComputeFirstShares(side, math.NewInt(4))
	require.NoError(err)
	require.Equal(math.NewInt(1<<62).MulRaw(4).SubRaw(MinimumLiquidityAmount).String(), uneven.String())
}

func TestComputeShares(t *testing.T) {
	require := require.New(t)

	shares, err := ComputeShares(
		math.NewInt(1_000), math.NewInt(1_000),
		math.NewInt(1_100), math.NewInt(1_200),
		math.NewInt(1_000),
	)
	require.NoError(err)
	require.Equal(int64(100), shares.Int64())

	_, err = ComputeShares(math.ZeroInt(), math.NewInt(1_000), math.NewInt(1_100), math.NewInt(1_200), math.NewInt(1_000))
	require.ErrorIs(err, ErrContractMath)
}

func TestComputeWithdrawal(t *testing.T) {
	require := require.New(t)

	a, b, err := ComputeWithdrawal(math.NewInt(1_000_000), math.NewInt(1_000_000), math.NewInt(999_000), math.NewInt(1_000_000))
	require.NoError(err)
	require.Equal(int64(999_000), a.Int64())
	require.Equal(int64(999_000), b.Int64())

	// 1/3 of the reserves rounds down on both sides
	a, b, err = ComputeWithdrawal(math.NewInt(1_000), math.NewInt(2_000), math.NewInt(1), math.NewInt(3))
	require.NoError(err)
	require.Equal(int64(333), a.Int64())
	require.Equal(int64(666), b.Int64())

	_, _, err = ComputeWithdrawal(math.NewInt(1_000), math.NewInt(1_000), math.NewInt(1), math.ZeroInt())
	require.ErrorIs(err, ErrTotalSharesEqualZero)

	_, _, err = ComputeWithdrawal(math.NewInt(1_000), math.NewInt(1_000), math.NewInt(4), math.NewInt(3))
	require.ErrorIs(err, ErrInvalidShares)
}
