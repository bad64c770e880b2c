// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"encoding/json"
	"testing"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/chain/chaintest"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/curve"
	"github.com/ava-labs/phoenixvm/pool"
	"github.com/ava-labs/phoenixvm/pricing"
	"github.com/ava-labs/phoenixvm/stake"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
	"github.com/ava-labs/phoenixvm/token"
	"github.com/ava-labs/phoenixvm/vesting"
)

var (
	owner = codec.DeriveAddress(consts.AccountID, []byte("owner"))
	alice = codec.DeriveAddress(consts.AccountID, []byte("alice"))
)

func newRuntime(t *testing.T) *Runtime {
	rt, err := NewRuntime(logging.NoLog{}, token.DefaultCacheSize)
	require.NoError(t, err)
	return rt
}

func balanceOf(ctx context.Context, t *testing.T, rt *Runtime, mu state.Immutable, tok, account codec.Address) int64 {
	bal, err := rt.Ledger.Balance(ctx, mu, tok, account)
	require.NoError(t, err)
	return bal.Int64()
}

func TestNames(t *testing.T) {
	require := require.New(t)
	for typeID, f := range factories {
		a := f()
		require.Equal(typeID, a.GetTypeID())
		require.NotContains(Name(typeID), "unknown")
		id, ok := TypeID(Name(typeID))
		require.True(ok)
		require.Equal(typeID, id)
	}
	require.Equal("unknown_24", Name(consts.ClaimVestingID+1))
	_, ok := TypeID("unknown_24")
	require.False(ok)
}

func TestParse(t *testing.T) {
	rt := newRuntime(t)
	tok := storage.TokenAddress(owner, "PHO")
	transfer, err := json.Marshal(&TransferToken{Token: tok, To: alice, Amount: math.NewInt(10)})
	require.NoError(t, err)

	tests := []struct {
		name        string
		typeID      uint8
		raw         []byte
		expectedErr error
		check       func(*require.Assertions, chain.Action)
	}{
		{
			name:   "transfer",
			typeID: consts.TransferTokenID,
			raw:    transfer,
			check: func(require *require.Assertions, a chain.Action) {
				tr, ok := a.(*TransferToken)
				require.True(ok)
				require.Equal(tok, tr.Token)
				require.Equal(alice, tr.To)
				require.Equal(int64(10), tr.Amount.Int64())
				got, err := tr.runtime()
				require.NoError(err)
				require.Equal(rt, got)
			},
		},
		{
			name:   "embedded arguments",
			typeID: consts.SwapID,
			raw:    []byte(`{"pool":"` + tok.String() + `","offerAsset":"` + tok.String() + `","offerAmount":"42","maxSpreadBps":100}`),
			check: func(require *require.Assertions, a chain.Action) {
				s, ok := a.(*Swap)
				require.True(ok)
				require.Equal(tok, s.Pool)
				require.Equal(int64(42), s.OfferAmount.Int64())
				require.NotNil(s.MaxSpreadBps)
				require.Equal(int64(100), *s.MaxSpreadBps)
				require.True(s.MinAskAmount.IsNil())
			},
		},
		{
			name:        "unknown type",
			typeID:      consts.ClaimVestingID + 1,
			raw:         []byte(`{}`),
			expectedErr: chain.ErrUnknownAction,
		},
		{
			name:        "malformed payload",
			typeID:      consts.BondID,
			raw:         []byte(`{"stake":"0x01"}`),
			expectedErr: ErrInvalidAction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			a, err := rt.Parse(tt.typeID, tt.raw)
			require.ErrorIs(err, tt.expectedErr)
			if tt.check != nil {
				tt.check(require, a)
			}
		})
	}
}

func TestUnbound(t *testing.T) {
	_, err := (&DistributeRewards{}).Execute(context.Background(), state.NewSimpleMutable(state.NewMemoryDatabase()), 0, owner)
	require.ErrorIs(t, err, ErrUnbound)
}

func TestTokenActions(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t)
	store := state.NewMemoryDatabase()
	tok := storage.TokenAddress(owner, "PHO")

	tests := []chaintest.ActionTest{
		{
			Name:            "create",
			Action:          rt.Bind(&CreateToken{Name: "Phoenix", Symbol: "PHO", Decimals: 6}),
			State:           store,
			Actor:           owner,
			ExpectedOutputs: &CreateTokenResult{Token: tok},
		},
		{
			Name:        "duplicate symbol",
			Action:      rt.Bind(&CreateToken{Name: "Phoenix", Symbol: "PHO", Decimals: 6}),
			State:       store,
			Actor:       owner,
			ExpectedErr: token.ErrTokenExists,
		},
		{
			Name:        "mint by non owner",
			Action:      rt.Bind(&MintToken{Token: tok, To: alice, Amount: math.NewInt(5)}),
			State:       store,
			Actor:       alice,
			ExpectedErr: ErrNotTokenOwner,
		},
		{
			Name:   "mint",
			Action: rt.Bind(&MintToken{Token: tok, To: owner, Amount: math.NewInt(1_000)}),
			State:  store,
			Actor:  owner,
			Assertion: func(ctx context.Context, t *testing.T, mu state.Immutable) {
				require.Equal(t, int64(1_000), balanceOf(ctx, t, rt, mu, tok, owner))
			},
		},
		{
			Name:   "transfer",
			Action: rt.Bind(&TransferToken{Token: tok, To: alice, Amount: math.NewInt(400)}),
			State:  store,
			Actor:  owner,
			Assertion: func(ctx context.Context, t *testing.T, mu state.Immutable) {
				require.Equal(t, int64(600), balanceOf(ctx, t, rt, mu, tok, owner))
				require.Equal(t, int64(400), balanceOf(ctx, t, rt, mu, tok, alice))
			},
		},
		{
			Name:        "transfer more than balance",
			Action:      rt.Bind(&TransferToken{Token: tok, To: owner, Amount: math.NewInt(401)}),
			State:       store,
			Actor:       alice,
			ExpectedErr: token.ErrInsufficientBalance,
		},
	}
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

// setupTokens creates two tokens with 1e9 minted to owner and alice and
// returns them sorted.
func setupTokens(ctx context.Context, t testing.TB, rt *Runtime, mu state.Mutable) (codec.Address, codec.Address) {
	require := require.New(t)
	var out []codec.Address
	for _, symbol := range []string{"AAA", "BBB"} {
		res, err := rt.Bind(&CreateToken{Name: symbol, Symbol: symbol, Decimals: 7}).Execute(ctx, mu, 0, owner)
		require.NoError(err)
		tok := res.(*CreateTokenResult).Token
		for _, account := range []codec.Address{owner, alice} {
			_, err := rt.Bind(&MintToken{Token: tok, To: account, Amount: math.NewInt(1_000_000_000)}).Execute(ctx, mu, 0, owner)
			require.NoError(err)
		}
		out = append(out, tok)
	}
	if out[0].Compare(out[1]) > 0 {
		out[0], out[1] = out[1], out[0]
	}
	return out[0], out[1]
}

func TestPoolActions(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := newRuntime(t)
	db := state.NewMemoryDatabase()
	mu := state.NewSimpleMutable(db)
	x, y := setupTokens(ctx, t, rt, mu)

	res, err := rt.Bind(&CreatePool{InitializeArgs: pool.InitializeArgs{
		Admin:                 owner,
		TokenA:                x,
		TokenB:                y,
		TotalFeeBps:           30,
		MaxAllowedSlippageBps: 500,
		MaxAllowedSpreadBps:   500,
		MaxReferralBps:        1_000,
		FeeRecipient:          owner,
	}}).Execute(ctx, mu, 0, owner)
	require.NoError(err)
	created := res.(*CreatePoolResult)
	require.Equal(storage.ShareTokenAddress(created.Pool), created.ShareToken)
	require.NoError(mu.Commit(ctx))

	// Failed actions leave the database untouched.
	result, err := chain.Execute(ctx, db, rt.Bind(&ProvideLiquidity{
		Pool:        created.Pool,
		ProvideArgs: pool.ProvideArgs{DesiredA: math.NewInt(100), DesiredB: math.NewInt(100)},
	}), 0, alice)
	require.ErrorIs(err, pricing.ErrInsufficientLiquidity)
	require.False(result.Success)
	require.Equal(0, result.Changes)

	result, err = chain.Execute(ctx, db, rt.Bind(&ProvideLiquidity{
		Pool:        created.Pool,
		ProvideArgs: pool.ProvideArgs{DesiredA: math.NewInt(1_000_000), DesiredB: math.NewInt(1_000_000)},
	}), 0, alice)
	require.NoError(err)
	require.True(result.Success, result.Error)
	provided := result.Output.(*ProvideResult)
	require.Equal(consts.ProvideLiquidityID, provided.GetTypeID())
	require.Equal(int64(999_000), provided.Shares.Int64())

	result, err = chain.Execute(ctx, db, rt.Bind(&Swap{
		Pool:     created.Pool,
		SwapArgs: pool.SwapArgs{OfferAsset: x, OfferAmount: math.NewInt(1_000)},
	}), 5_000, owner)
	require.NoError(err)
	require.True(result.Success, result.Error)
	swapped := result.Output.(*SwapResult)
	require.Equal(y, swapped.AskAsset)
	require.Positive(swapped.ReturnAmount.Int64())

	result, err = chain.Execute(ctx, db, rt.Bind(&UpdatePoolConfig{
		Pool:         created.Pool,
		ConfigUpdate: pool.ConfigUpdate{TotalFeeBps: ptr(int64(50))},
	}), 0, alice)
	require.ErrorIs(err, pool.ErrUnauthorized)
	require.False(result.Success)

	result, err = chain.Execute(ctx, db, rt.Bind(&WithdrawLiquidity{
		Pool:         created.Pool,
		WithdrawArgs: pool.WithdrawArgs{ShareAmount: math.NewInt(999_000)},
	}), 0, alice)
	require.NoError(err)
	require.True(result.Success, result.Error)
	withdrawn := result.Output.(*WithdrawResult)
	require.Positive(withdrawn.AmountA.Int64())
	require.Positive(withdrawn.AmountB.Int64())
}

func TestStakeAndVestingActions(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt := newRuntime(t)
	mu := state.NewSimpleMutable(state.NewMemoryDatabase())
	lp, reward := setupTokens(ctx, t, rt, mu)

	res, err := rt.Bind(&CreateStake{InitializeArgs: stakeArgs(lp)}).Execute(ctx, mu, 0, owner)
	require.NoError(err)
	stakeAddr := res.(*AddressResult).Address
	require.Equal(storage.StakeAddress(lp), stakeAddr)

	run := func(a chain.Action, ms int64, actor codec.Address) codec.Typed {
		out, err := rt.Bind(a).Execute(ctx, mu, ms, actor)
		require.NoError(err)
		return out
	}
	run(&Bond{Stake: stakeAddr, Amount: math.NewInt(1_000)}, 0, alice)
	run(&CreateDistribution{Stake: stakeAddr, Asset: reward}, 0, owner)
	run(&FundDistribution{Stake: stakeAddr, Start: 0, Duration: 100, Asset: reward, Amount: math.NewInt(10_000)}, 0, owner)
	run(&DistributeRewards{Stake: stakeAddr}, 100_000, owner)
	out := run(&WithdrawRewards{Stake: stakeAddr}, 100_000, alice).(*RewardsResult)
	require.Len(out.Rewards, 1)
	require.Equal(reward, out.Rewards[0].Asset)
	require.Equal(int64(10_000), out.Rewards[0].Amount.Int64())
	run(&Unbond{Stake: stakeAddr, Amount: math.NewInt(1_000), StakeTimestamp: 0}, 100_000, alice)
	require.Equal(int64(1_000_000_000), balanceOf(ctx, t, rt, mu, lp, alice))

	res, err = rt.Bind(&CreateVesting{Token: reward, MaxComplexity: 4}).Execute(ctx, mu, 0, owner)
	require.NoError(err)
	vestingAddr := res.(*AddressResult).Address
	require.Equal(storage.VestingAddress(owner, reward), vestingAddr)

	run(&CreateVestingSchedules{Vesting: vestingAddr, Schedules: []vesting.Schedule{{
		Recipient: alice,
		Curve:     curve.SaturatingLinear(0, math.NewInt(1_000), 100, math.ZeroInt()),
	}}}, 0, owner)
	claimed := run(&ClaimVesting{Vesting: vestingAddr}, 50_000, alice).(*BalanceResult)
	require.Equal(consts.ClaimVestingID, claimed.GetTypeID())
	require.Equal(int64(500), claimed.Balance.Int64())

	_, err = rt.Bind(&ClaimVesting{Vesting: vestingAddr, Index: 1}).Execute(ctx, mu, 50_000, alice)
	require.ErrorIs(err, vesting.ErrVestingNotFound)
}

func BenchmarkSwap(b *testing.B) {
	ctx := context.Background()
	rt, err := NewRuntime(logging.NoLog{}, token.DefaultCacheSize)
	require.NoError(b, err)

	var (
		x, y     codec.Address
		poolAddr codec.Address
	)
	newState := func() state.Database {
		db := state.NewMemoryDatabase()
		mu := state.NewSimpleMutable(db)
		x, y = setupTokens(ctx, b, rt, mu)
		res, err := rt.Bind(&CreatePool{InitializeArgs: pool.InitializeArgs{
			Admin:                 owner,
			TokenA:                x,
			TokenB:                y,
			TotalFeeBps:           30,
			MaxAllowedSlippageBps: 500,
			MaxAllowedSpreadBps:   500,
			MaxReferralBps:        1_000,
			FeeRecipient:          owner,
		}}).Execute(ctx, mu, 0, owner)
		require.NoError(b, err)
		poolAddr = res.(*CreatePoolResult).Pool
		_, err = rt.Bind(&ProvideLiquidity{
			Pool:        poolAddr,
			ProvideArgs: pool.ProvideArgs{DesiredA: math.NewInt(100_000_000), DesiredB: math.NewInt(100_000_000)},
		}).Execute(ctx, mu, 0, owner)
		require.NoError(b, err)
		require.NoError(b, mu.Commit(ctx))
		return db
	}
	// Token and pool addresses are deterministic, so the first state fixes
	// them for every iteration.
	_ = newState()

	bench := chaintest.ActionBenchmark{
		Name: "xyk",
		Action: rt.Bind(&Swap{
			Pool:     poolAddr,
			SwapArgs: pool.SwapArgs{OfferAsset: x, OfferAmount: math.NewInt(1_000)},
		}),
		CreateState: newState,
		Timestamp:   1_000,
		Actor:       alice,
	}
	bench.Run(ctx, b)
}

func stakeArgs(lp codec.Address) stake.InitializeArgs {
	return stake.InitializeArgs{
		LPToken:       lp,
		MinBond:       math.NewInt(1_000),
		MinReward:     math.NewInt(100),
		Manager:       owner,
		Owner:         owner,
		MaxComplexity: 10,
	}
}

func ptr[T any](v T) *T { return &v }
