// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/phoenixvm/actions"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/pool"
	"github.com/ava-labs/phoenixvm/pricing"
	"github.com/ava-labs/phoenixvm/stake"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
	"github.com/ava-labs/phoenixvm/token"
	"github.com/ava-labs/phoenixvm/trace"
)

var (
	owner    = codec.DeriveAddress(consts.AccountID, []byte("owner"))
	provider = codec.DeriveAddress(consts.AccountID, []byte("provider"))
)

// example seeds an XYK pool with a staking contract and a stable pool.
func example() *Genesis {
	usd := Token{Owner: owner, Name: "USD Coin", Symbol: "USDC", Decimals: 6, Allocations: []Allocation{
		{Address: provider, Balance: math.NewInt(10_000_000_000)},
	}}
	pho := Token{Owner: owner, Name: "Phoenix", Symbol: "PHO", Decimals: 6, Allocations: []Allocation{
		{Address: provider, Balance: math.NewInt(10_000_000_000)},
	}}
	return &Genesis{
		Tokens: []Token{usd, pho},
		Pools: []Pool{
			{
				InitializeArgs: pool.InitializeArgs{
					Admin:                 owner,
					TokenA:                usd.Address(),
					TokenB:                pho.Address(),
					TotalFeeBps:           30,
					MaxAllowedSlippageBps: 500,
					MaxAllowedSpreadBps:   500,
					MaxReferralBps:        500,
					FeeRecipient:          owner,
				},
				Provider: provider,
				AmountA:  math.NewInt(4_000_000),
				AmountB:  math.NewInt(1_000_000),
				Stake: &stake.InitializeArgs{
					MinBond:       math.NewInt(1_000),
					MinReward:     math.NewInt(1_000),
					Manager:       owner,
					Owner:         owner,
					MaxComplexity: 10,
				},
			},
			{
				Stable:         true,
				InitializeArgs: pool.InitializeArgs{
					Admin:                 owner,
					TokenA:                pho.Address(),
					TokenB:                usd.Address(),
					TotalFeeBps:           5,
					MaxAllowedSlippageBps: 500,
					MaxAllowedSpreadBps:   500,
					MaxReferralBps:        500,
					FeeRecipient:          owner,
					InitAmp:               100,
				},
				Provider: provider,
				AmountA:  math.NewInt(1_000_000),
				AmountB:  math.NewInt(1_000_000),
			},
		},
	}
}

func TestInitializeState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt, err := actions.NewRuntime(logging.NoLog{}, token.DefaultCacheSize)
	require.NoError(err)
	mu := state.NewSimpleMutable(state.NewMemoryDatabase())

	g := example()
	require.NoError(g.InitializeState(ctx, trace.Noop("test"), logging.NoLog{}, mu, 0, rt))

	usd, pho := g.Tokens[0].Address(), g.Tokens[1].Address()
	a, b := usd, pho
	if a.Compare(b) > 0 {
		a, b = b, a
	}
	xyk, err := storage.PoolAddress(pricing.XykKind, a, b)
	require.NoError(err)
	info, err := rt.Pools.QueryPoolInfo(ctx, mu, xyk)
	require.NoError(err)
	reserveUSD, reservePHO := info.Reserves.BalanceA, info.Reserves.BalanceB
	if a != usd {
		reserveUSD, reservePHO = reservePHO, reserveUSD
	}
	require.Equal(int64(4_000_000), reserveUSD.Int64())
	require.Equal(int64(1_000_000), reservePHO.Int64())

	cfg, err := rt.Stakes.QueryConfig(ctx, mu, storage.StakeAddress(storage.ShareTokenAddress(xyk)))
	require.NoError(err)
	require.Equal(storage.ShareTokenAddress(xyk), cfg.LPToken)

	stableAddr, err := storage.PoolAddress(pricing.StableKind, a, b)
	require.NoError(err)
	stable, err := rt.StablePools.QueryPoolInfo(ctx, mu, stableAddr, 0)
	require.NoError(err)
	require.Equal(uint64(100), stable.Amp)
	require.Equal(int64(1_000_000), stable.Reserves.BalanceA.Int64())
}

func TestInitializeStateFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rt, err := actions.NewRuntime(logging.NoLog{}, token.DefaultCacheSize)
	require.NoError(err)
	mu := state.NewSimpleMutable(state.NewMemoryDatabase())

	g := example()
	g.Tokens = append(g.Tokens, g.Tokens[0])
	require.ErrorIs(g.InitializeState(ctx, trace.Noop("test"), logging.NoLog{}, mu, 0, rt), token.ErrTokenExists)
}

func TestLoad(t *testing.T) {
	require := require.New(t)
	b, err := json.Marshal(example())
	require.NoError(err)
	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(os.WriteFile(path, b, 0o600))

	g, id, err := Load(path)
	require.NoError(err)
	require.Len(g.Tokens, 2)
	require.Len(g.Pools, 2)
	require.True(g.Pools[1].Stable)
	require.NotNil(g.Pools[0].Stake)
	require.Equal(uint64(100), g.Pools[1].InitAmp)
	require.Equal(int64(4_000_000), g.Pools[0].AmountA.Int64())

	_, id2, err := Load(path)
	require.NoError(err)
	require.Equal(id, id2)

	_, err = New([]byte("{"))
	require.Error(err)
}
