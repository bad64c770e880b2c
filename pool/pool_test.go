// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"context"
	"fmt"
	"testing"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/pricing"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
	"github.com/ava-labs/phoenixvm/token"
)

var (
	admin = codec.DeriveAddress(consts.AccountID, []byte("admin"))
	alice = codec.DeriveAddress(consts.AccountID, []byte("alice"))
	bob   = codec.DeriveAddress(consts.AccountID, []byte("bob"))
	fees  = codec.DeriveAddress(consts.AccountID, []byte("fees"))
)

type fixture struct {
	ctx    context.Context
	mu     *state.SimpleMutable
	ledger *token.Ledger
	pool   *Pool
	addr   codec.Address
	cfg    storage.PoolConfig
}

func newFixture(t *testing.T, feeBps int64) *fixture {
	require := require.New(t)
	ctx := context.Background()
	ledger, err := token.NewLedger(token.DefaultCacheSize)
	require.NoError(err)
	mu := state.NewSimpleMutable(state.NewMemoryDatabase())

	x, err := ledger.Create(ctx, mu, admin, "Token X", "X", 7)
	require.NoError(err)
	y, err := ledger.Create(ctx, mu, admin, "Token Y", "Y", 7)
	require.NoError(err)
	if x.Compare(y) > 0 {
		x, y = y, x
	}
	for _, account := range []codec.Address{alice, bob} {
		require.NoError(ledger.Mint(ctx, mu, x, account, math.NewInt(1_000_000_000)))
		require.NoError(ledger.Mint(ctx, mu, y, account, math.NewInt(1_000_000_000)))
	}

	p := New(logging.NoLog{}, ledger, ledger)
	addr, err := p.Initialize(ctx, mu, InitializeArgs{
		Admin:                 admin,
		TokenA:                x,
		TokenB:                y,
		TotalFeeBps:           feeBps,
		MaxAllowedSlippageBps: 500,
		MaxAllowedSpreadBps:   500,
		MaxReferralBps:        1_000,
		FeeRecipient:          fees,
	})
	require.NoError(err)
	cfg, err := storage.GetPoolConfig(ctx, mu, addr)
	require.NoError(err)
	return &fixture{ctx: ctx, mu: mu, ledger: ledger, pool: p, addr: addr, cfg: cfg}
}

func (f *fixture) provide(t *testing.T, sender codec.Address, a, b int64) ProvideResult {
	res, err := f.pool.ProvideLiquidity(f.ctx, f.mu, f.addr, 0, sender, ProvideArgs{
		DesiredA: math.NewInt(a),
		DesiredB: math.NewInt(b),
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) balance(t *testing.T, tok, account codec.Address) int64 {
	bal, err := f.ledger.Balance(f.ctx, f.mu, tok, account)
	require.NoError(t, err)
	return bal.Int64()
}

func TestInitialize(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 30)

	_, err := f.pool.Initialize(f.ctx, f.mu, InitializeArgs{
		Admin:  admin,
		TokenA: f.cfg.TokenA,
		TokenB: f.cfg.TokenB,
	})
	require.ErrorIs(err, ErrPoolExists)

	_, err = f.pool.Initialize(f.ctx, f.mu, InitializeArgs{
		Admin:  admin,
		TokenA: f.cfg.TokenB,
		TokenB: f.cfg.TokenA,
	})
	require.ErrorIs(err, ErrTokensNotSorted)

	info, err := f.ledger.Info(f.ctx, f.mu, f.cfg.ShareToken)
	require.NoError(err)
	require.Equal(ShareTokenSymbol, info.Symbol)
	require.Equal(uint8(ShareTokenDecimals), info.Decimals)
	require.Equal(f.addr, info.Owner)
}

func TestInitializeInvalidFee(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 30)
	z, err := f.ledger.Create(f.ctx, f.mu, admin, "Token Z", "Z", 7)
	require.NoError(err)
	a, b := f.cfg.TokenA, z
	if a.Compare(b) > 0 {
		a, b = b, a
	}
	_, err = f.pool.Initialize(f.ctx, f.mu, InitializeArgs{
		Admin:       admin,
		TokenA:      a,
		TokenB:      b,
		TotalFeeBps: pricing.MaxBps + 1,
	})
	require.ErrorIs(err, pricing.ErrInvalidBps)
}

func TestProvideMinimumLiquidity(t *testing.T) {
	tests := []struct {
		name           string
		amount         int64
		expectedShares int64
		expectedErr    error
	}{
		{
			name:        "below minimum",
			amount:      100,
			expectedErr: pricing.ErrInsufficientLiquidity,
		},
		{
			name:        "exactly minimum",
			amount:      pricing.MinimumLiquidityAmount,
			expectedErr: pricing.ErrInsufficientLiquidity,
		},
		{
			name:           "balanced",
			amount:         1_000_000,
			expectedShares: 999_000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			f := newFixture(t, 30)
			res, err := f.pool.ProvideLiquidity(f.ctx, f.mu, f.addr, 0, alice, ProvideArgs{
				DesiredA: math.NewInt(tt.amount),
				DesiredB: math.NewInt(tt.amount),
			})
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr != nil {
				return
			}
			require.Equal(tt.expectedShares, res.Shares.Int64())
			require.Equal(tt.expectedShares, f.balance(t, f.cfg.ShareToken, alice))
			require.Equal(int64(pricing.MinimumLiquidityAmount), f.balance(t, f.cfg.ShareToken, storage.BurnAddress(f.addr)))

			reserves, err := storage.GetPoolReserves(f.ctx, f.mu, f.addr)
			require.NoError(err)
			require.Equal(tt.amount, reserves.BalanceA.Int64())
			require.Equal(tt.amount, reserves.TotalShares.Int64())
		})
	}
}

func TestProvideProportional(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 30)
	f.provide(t, alice, 1_000_000, 1_000_000)

	res := f.provide(t, bob, 500_000, 500_000)
	require.Equal(int64(500_000), res.Shares.Int64())

	// Excess A is trimmed to the pool ratio.
	res = f.provide(t, bob, 105_000, 100_000)
	require.Equal(int64(100_000), res.AmountA.Int64())
	require.Equal(int64(100_000), res.AmountB.Int64())
	require.Equal(int64(100_000), res.Shares.Int64())
}

func TestProvideErrors(t *testing.T) {
	deadline := uint64(10)
	tight := int64(10)
	tests := []struct {
		name        string
		args        ProvideArgs
		now         uint64
		expectedErr error
	}{
		{
			name:        "zero side",
			args:        ProvideArgs{DesiredA: math.NewInt(100), DesiredB: math.ZeroInt()},
			expectedErr: pricing.ErrInvalidDeposit,
		},
		{
			name:        "unset side",
			args:        ProvideArgs{DesiredA: math.NewInt(100)},
			expectedErr: pricing.ErrInvalidDeposit,
		},
		{
			name: "negative minimum",
			args: ProvideArgs{
				DesiredA: math.NewInt(100),
				DesiredB: math.NewInt(100),
				MinA:     math.NewInt(-1),
			},
			expectedErr: pricing.ErrNegativeInputProvided,
		},
		{
			name: "deadline passed",
			args: ProvideArgs{
				DesiredA: math.NewInt(100),
				DesiredB: math.NewInt(100),
				Deadline: &deadline,
			},
			now:         11,
			expectedErr: pricing.ErrTransactionAfterTimestampDeadline,
		},
		{
			name: "slippage",
			args: ProvideArgs{
				DesiredA:          math.NewInt(100_000),
				DesiredB:          math.NewInt(50_000),
				CustomSlippageBps: &tight,
			},
			expectedErr: pricing.ErrSlippageInvalid,
		},
		{
			name: "min shares",
			args: ProvideArgs{
				DesiredA:  math.NewInt(100_000),
				DesiredB:  math.NewInt(100_000),
				MinShares: math.NewInt(100_001),
			},
			expectedErr: pricing.ErrIssuedSharesLessThanMin,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 30)
			f.provide(t, alice, 1_000_000, 1_000_000)
			_, err := f.pool.ProvideLiquidity(f.ctx, f.mu, f.addr, tt.now, bob, tt.args)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestWithdrawLiquidity(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 30)
	f.provide(t, alice, 1_000_000, 1_000_000)
	beforeA := f.balance(t, f.cfg.TokenA, alice)

	_, err := f.pool.WithdrawLiquidity(f.ctx, f.mu, f.addr, 0, alice, WithdrawArgs{
		ShareAmount: math.NewInt(999_000),
		MinA:        math.NewInt(999_001),
	})
	require.ErrorIs(err, pricing.ErrMinimumAmountNotSatisfied)

	res, err := f.pool.WithdrawLiquidity(f.ctx, f.mu, f.addr, 0, alice, WithdrawArgs{
		ShareAmount: math.NewInt(999_000),
		MinA:        math.NewInt(999_000),
		MinB:        math.NewInt(999_000),
	})
	require.NoError(err)
	require.Equal(int64(999_000), res.AmountA.Int64())
	require.Equal(int64(999_000), res.AmountB.Int64())
	require.Equal(beforeA+999_000, f.balance(t, f.cfg.TokenA, alice))
	require.Zero(f.balance(t, f.cfg.ShareToken, alice))

	reserves, err := storage.GetPoolReserves(f.ctx, f.mu, f.addr)
	require.NoError(err)
	require.Equal(int64(1_000), reserves.BalanceA.Int64())
	require.Equal(int64(1_000), reserves.BalanceB.Int64())
	require.Equal(int64(1_000), reserves.TotalShares.Int64())
	require.Equal(int64(pricing.MinimumLiquidityAmount), f.balance(t, f.cfg.ShareToken, storage.BurnAddress(f.addr)))

	_, err = f.pool.WithdrawLiquidity(f.ctx, f.mu, f.addr, 0, alice, WithdrawArgs{
		ShareAmount: math.NewInt(1),
	})
	require.ErrorIs(err, token.ErrInsufficientBalance)
}

func TestSwap(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 100)
	f.provide(t, alice, 1_000_000, 1_000_000)

	quote, err := f.pool.SimulateSwap(f.ctx, f.mu, f.addr, f.cfg.TokenA, math.NewInt(1_000), 0)
	require.NoError(err)

	beforeB := f.balance(t, f.cfg.TokenB, bob)
	res, err := f.pool.Swap(f.ctx, f.mu, f.addr, 0, bob, SwapArgs{
		OfferAsset:  f.cfg.TokenA,
		OfferAmount: math.NewInt(1_000),
	})
	require.NoError(err)
	require.Equal(f.cfg.TokenB, res.AskAsset)
	require.True(quote.AskAmount.Equal(res.ReturnAmount))
	require.True(quote.CommissionAmount.Equal(res.CommissionAmount))
	require.Equal(int64(999), res.ReturnAmount.Add(res.CommissionAmount).Int64())
	require.Equal(int64(1), res.SpreadAmount.Int64())
	require.Equal(beforeB+res.ReturnAmount.Int64(), f.balance(t, f.cfg.TokenB, bob))
	require.Equal(res.CommissionAmount.Int64(), f.balance(t, f.cfg.TokenB, fees))

	reserves, err := storage.GetPoolReserves(f.ctx, f.mu, f.addr)
	require.NoError(err)
	require.Equal(int64(1_001_000), reserves.BalanceA.Int64())
	require.Equal(int64(1_000_000-999), reserves.BalanceB.Int64())
	require.Equal(reserves.BalanceB.Int64(), f.balance(t, f.cfg.TokenB, f.addr))
}

func TestSwapInvariantNeverDecreases(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 0)
	f.provide(t, alice, 3_000_000, 1_000_000)

	offers := []int64{1, 17, 1_000, 25_000, 3}
	for i, amount := range offers {
		before, err := storage.GetPoolReserves(f.ctx, f.mu, f.addr)
		require.NoError(err)
		offer := f.cfg.TokenA
		if i%2 == 1 {
			offer = f.cfg.TokenB
		}
		_, err = f.pool.Swap(f.ctx, f.mu, f.addr, 0, bob, SwapArgs{
			OfferAsset:   offer,
			OfferAmount:  math.NewInt(amount),
			MaxSpreadBps: ptr[int64](500),
		})
		require.NoError(err)
		after, err := storage.GetPoolReserves(f.ctx, f.mu, f.addr)
		require.NoError(err)
		require.True(after.BalanceA.Mul(after.BalanceB).GTE(before.BalanceA.Mul(before.BalanceB)))
	}
}

func TestSwapReferral(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 100)
	f.provide(t, alice, 1_000_000, 1_000_000)
	referrer := codec.DeriveAddress(consts.AccountID, []byte("referrer"))

	res, err := f.pool.Swap(f.ctx, f.mu, f.addr, 0, bob, SwapArgs{
		OfferAsset:  f.cfg.TokenA,
		OfferAmount: math.NewInt(10_000),
		Referral:    &Referral{Address: referrer, FeeBps: 1_000},
	})
	require.NoError(err)
	require.True(res.ReferralFee.IsPositive())
	require.Equal(res.ReferralFee.Int64(), f.balance(t, f.cfg.TokenB, referrer))
}

func TestSwapErrors(t *testing.T) {
	deadline := uint64(5)
	tests := []struct {
		name        string
		args        func(cfg storage.PoolConfig) SwapArgs
		now         uint64
		expectedErr error
	}{
		{
			name: "zero offer",
			args: func(cfg storage.PoolConfig) SwapArgs {
				return SwapArgs{OfferAsset: cfg.TokenA, OfferAmount: math.ZeroInt()}
			},
			expectedErr: pricing.ErrNegativeInputProvided,
		},
		{
			name: "unknown asset",
			args: func(storage.PoolConfig) SwapArgs {
				return SwapArgs{OfferAsset: bob, OfferAmount: math.NewInt(10)}
			},
			expectedErr: pricing.ErrAssetNotInPool,
		},
		{
			name: "deadline passed",
			args: func(cfg storage.PoolConfig) SwapArgs {
				return SwapArgs{OfferAsset: cfg.TokenA, OfferAmount: math.NewInt(10), Deadline: &deadline}
			},
			now:         6,
			expectedErr: pricing.ErrTransactionAfterTimestampDeadline,
		},
		{
			name: "pool fee declined",
			args: func(cfg storage.PoolConfig) SwapArgs {
				return SwapArgs{OfferAsset: cfg.TokenA, OfferAmount: math.NewInt(10), MaxAllowedFeeBps: ptr[int64](99)}
			},
			expectedErr: pricing.ErrUserDeclinesPoolFee,
		},
		{
			name: "referral above limit",
			args: func(cfg storage.PoolConfig) SwapArgs {
				return SwapArgs{
					OfferAsset:  cfg.TokenA,
					OfferAmount: math.NewInt(10),
					Referral:    &Referral{Address: bob, FeeBps: 1_001},
				}
			},
			expectedErr: pricing.ErrInvalidBps,
		},
		{
			name: "min ask",
			args: func(cfg storage.PoolConfig) SwapArgs {
				return SwapArgs{OfferAsset: cfg.TokenA, OfferAmount: math.NewInt(1_000), MinAskAmount: math.NewInt(1_000)}
			},
			expectedErr: pricing.ErrSwapMinReceivedBiggerThanReturn,
		},
		{
			name: "spread",
			args: func(cfg storage.PoolConfig) SwapArgs {
				return SwapArgs{OfferAsset: cfg.TokenA, OfferAmount: math.NewInt(100_000), MaxSpreadBps: ptr[int64](100)}
			},
			expectedErr: pricing.ErrSpreadExceedsLimit,
		},
		{
			name: "spread above configured",
			args: func(cfg storage.PoolConfig) SwapArgs {
				return SwapArgs{OfferAsset: cfg.TokenA, OfferAmount: math.NewInt(10), MaxSpreadBps: ptr[int64](501)}
			},
			expectedErr: pricing.ErrInvalidBps,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 100)
			f.provide(t, alice, 1_000_000, 1_000_000)
			_, err := f.pool.Swap(f.ctx, f.mu, f.addr, tt.now, bob, tt.args(f.cfg))
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestSwapFeeOnTransfer(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	mu := state.NewSimpleMutable(state.NewMemoryDatabase())

	x := codec.DeriveAddress(consts.TokenID, []byte("x"))
	y := codec.DeriveAddress(consts.TokenID, []byte("y"))
	if x.Compare(y) > 0 {
		x, y = y, x
	}
	addr, err := storage.PoolAddress(pricing.XykKind, x, y)
	require.NoError(err)
	require.NoError(storage.SetPoolConfig(ctx, mu, addr, storage.PoolConfig{
		Kind:                pricing.XykKind,
		TokenA:              x,
		TokenB:              y,
		ShareToken:          storage.ShareTokenAddress(addr),
		MaxAllowedSpreadBps: 500,
		FeeRecipient:        fees,
		Admin:               admin,
	}))
	require.NoError(storage.SetPoolReserves(ctx, mu, addr, storage.PoolReserves{
		BalanceA:    math.NewInt(1_000_000),
		BalanceB:    math.NewInt(1_000_000),
		TotalShares: math.NewInt(1_000_000),
	}))

	// The token keeps 10% of every transfer.
	tokens := token.NewMockOps(ctrl)
	gomock.InOrder(
		tokens.EXPECT().Balance(gomock.Any(), gomock.Any(), x, addr).Return(math.NewInt(1_000_000), nil),
		tokens.EXPECT().Transfer(gomock.Any(), gomock.Any(), x, bob, addr, intEq(1_000)).Return(nil),
		tokens.EXPECT().Balance(gomock.Any(), gomock.Any(), x, addr).Return(math.NewInt(1_000_900), nil),
		tokens.EXPECT().Transfer(gomock.Any(), gomock.Any(), y, addr, bob, intEq(899)).Return(nil),
		tokens.EXPECT().Transfer(gomock.Any(), gomock.Any(), y, addr, fees, intEq(0)).Return(nil),
	)

	p := New(logging.NoLog{}, tokens, nil)
	res, err := p.Swap(ctx, mu, addr, 0, bob, SwapArgs{
		OfferAsset:  x,
		OfferAmount: math.NewInt(1_000),
	})
	require.NoError(err)
	require.Equal(int64(900), res.OfferAmount.Int64())
	require.Equal(int64(899), res.ReturnAmount.Int64())

	reserves, err := storage.GetPoolReserves(ctx, mu, addr)
	require.NoError(err)
	require.Equal(int64(1_000_900), reserves.BalanceA.Int64())
	require.Equal(int64(999_101), reserves.BalanceB.Int64())
}

func TestSimulateReverseSwap(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 100)
	f.provide(t, alice, 1_000_000, 1_000_000)

	quote, err := f.pool.SimulateReverseSwap(f.ctx, f.mu, f.addr, f.cfg.TokenB, math.NewInt(5_000), 0)
	require.NoError(err)
	require.True(quote.OfferAmount.GT(math.NewInt(5_000)))

	res, err := f.pool.Swap(f.ctx, f.mu, f.addr, 0, bob, SwapArgs{
		OfferAsset:  f.cfg.TokenA,
		OfferAmount: quote.OfferAmount,
	})
	require.NoError(err)
	require.True(res.ReturnAmount.GTE(math.NewInt(4_999)))

	_, err = f.pool.SimulateReverseSwap(f.ctx, f.mu, f.addr, f.cfg.TokenB, math.NewInt(2_000_000), 0)
	require.ErrorIs(err, pricing.ErrAskExceedsPool)
}

func TestUpdateConfig(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 30)

	err := f.pool.UpdateConfig(f.ctx, f.mu, f.addr, bob, ConfigUpdate{TotalFeeBps: ptr[int64](50)})
	require.ErrorIs(err, ErrUnauthorized)

	err = f.pool.UpdateConfig(f.ctx, f.mu, f.addr, admin, ConfigUpdate{TotalFeeBps: ptr[int64](pricing.MaxBps + 1)})
	require.ErrorIs(err, pricing.ErrInvalidBps)

	require.NoError(f.pool.UpdateConfig(f.ctx, f.mu, f.addr, admin, ConfigUpdate{
		TotalFeeBps: ptr[int64](50),
		NewAdmin:    &bob,
	}))
	info, err := f.pool.QueryPoolInfo(f.ctx, f.mu, f.addr)
	require.NoError(err)
	require.Equal(int64(50), info.Config.TotalFeeBps)
	require.Equal(bob, info.Config.Admin)
}

func TestQueryShare(t *testing.T) {
	require := require.New(t)
	f := newFixture(t, 30)

	empty, err := f.pool.QueryShare(f.ctx, f.mu, f.addr, math.NewInt(10))
	require.NoError(err)
	require.True(empty[0].Amount.IsZero())

	f.provide(t, alice, 2_000_000, 1_000_000)
	share, err := f.pool.QueryShare(f.ctx, f.mu, f.addr, math.NewInt(141_421))
	require.NoError(err)
	require.Equal(f.cfg.TokenA, share[0].Token)
	require.Equal(int64(199_999), share[0].Amount.Int64())
	require.Equal(int64(99_999), share[1].Amount.Int64())
}

type intMatcher int64

func intEq(v int64) gomock.Matcher { return intMatcher(v) }

func (m intMatcher) Matches(x any) bool {
	v, ok := x.(math.Int)
	return ok && !v.IsNil() && v.Equal(math.NewInt(int64(m)))
}

func (m intMatcher) String() string { return fmt.Sprintf("is %d", int64(m)) }

func ptr[T any](v T) *T {
	return &v
}
