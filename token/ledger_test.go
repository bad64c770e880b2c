// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"strings"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
)

var (
	alice = codec.DeriveAddress(consts.AccountID, []byte("alice"))
	bob   = codec.DeriveAddress(consts.AccountID, []byte("bob"))
)

func newLedger(t *testing.T) (*Ledger, *state.SimpleMutable, codec.Address) {
	l, err := NewLedger(0)
	require.NoError(t, err)
	mu := state.NewSimpleMutable(state.NewMemoryDatabase())
	tok, err := l.Create(context.Background(), mu, alice, "Phoenix", "PHO", 7)
	require.NoError(t, err)
	return l, mu, tok
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name        string
		tokenName   string
		symbol      string
		decimals    uint8
		expectedErr error
	}{
		{
			name:      "valid",
			tokenName: "USD Coin",
			symbol:    "USDC",
			decimals:  6,
		},
		{
			name:        "empty name",
			symbol:      "USDC",
			expectedErr: ErrInvalidName,
		},
		{
			name:        "long symbol",
			tokenName:   "USD Coin",
			symbol:      strings.Repeat("U", storage.MaxTokenSymbolSize+1),
			expectedErr: ErrInvalidSymbol,
		},
		{
			name:        "too many decimals",
			tokenName:   "USD Coin",
			symbol:      "USDC",
			decimals:    storage.MaxTokenDecimals + 1,
			expectedErr: ErrInvalidDecimals,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			l, err := NewLedger(8)
			require.NoError(err)
			mu := state.NewSimpleMutable(state.NewMemoryDatabase())
			_, err = l.Create(context.Background(), mu, alice, tt.tokenName, tt.symbol, tt.decimals)
			require.ErrorIs(err, tt.expectedErr)
		})
	}
}

func TestCreateTwice(t *testing.T) {
	require := require.New(t)
	l, mu, _ := newLedger(t)
	_, err := l.Create(context.Background(), mu, alice, "Phoenix", "PHO", 7)
	require.ErrorIs(err, ErrTokenExists)
}

func TestMintTransferBurn(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l, mu, tok := newLedger(t)

	require.NoError(l.Mint(ctx, mu, tok, alice, math.NewInt(1_000)))
	require.NoError(l.Transfer(ctx, mu, tok, alice, bob, math.NewInt(400)))

	bal, err := l.Balance(ctx, mu, tok, alice)
	require.NoError(err)
	require.Equal(int64(600), bal.Int64())
	bal, err = l.Balance(ctx, mu, tok, bob)
	require.NoError(err)
	require.Equal(int64(400), bal.Int64())

	err = l.Transfer(ctx, mu, tok, bob, alice, math.NewInt(401))
	require.ErrorIs(err, ErrInsufficientBalance)
	err = l.Transfer(ctx, mu, tok, bob, alice, math.NewInt(-1))
	require.ErrorIs(err, ErrInvalidAmount)
	require.ErrorIs(l.Transfer(ctx, mu, tok, bob, alice, math.Int{}), ErrInvalidAmount)
	require.ErrorIs(l.Mint(ctx, mu, tok, bob, math.Int{}), ErrInvalidAmount)
	require.ErrorIs(l.Burn(ctx, mu, tok, bob, math.Int{}), ErrInvalidAmount)

	require.NoError(l.Burn(ctx, mu, tok, bob, math.NewInt(400)))
	supply, err := l.TotalSupply(ctx, mu, tok)
	require.NoError(err)
	require.Equal(int64(600), supply.Int64())

	err = l.Burn(ctx, mu, tok, bob, math.NewInt(1))
	require.ErrorIs(err, ErrInsufficientBalance)
}

func TestMintOverflow(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l, mu, tok := newLedger(t)

	maxI128, ok := math.NewIntFromString("170141183460469231731687303715884105727")
	require.True(ok)
	require.NoError(l.Mint(ctx, mu, tok, alice, maxI128))
	err := l.Mint(ctx, mu, tok, bob, math.OneInt())
	require.ErrorIs(err, ErrSupplyOverflow)
}

func TestUnknownToken(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l, mu, _ := newLedger(t)
	unknown := codec.DeriveAddress(consts.TokenID, []byte("unknown"))

	_, err := l.Decimals(ctx, mu, unknown)
	require.ErrorIs(err, storage.ErrConfigNotSet)
	err = l.Transfer(ctx, mu, unknown, alice, bob, math.NewInt(1))
	require.ErrorIs(err, storage.ErrConfigNotSet)
}

func TestDecimalsCached(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l, mu, tok := newLedger(t)

	d, err := l.Decimals(ctx, mu, tok)
	require.NoError(err)
	require.Equal(uint8(7), d)
	require.Equal(1, l.decimals.Len())

	// Served from the cache even on a view without the token.
	empty := state.NewSimpleMutable(state.NewMemoryDatabase())
	d, err = l.Decimals(ctx, empty, tok)
	require.NoError(err)
	require.Equal(uint8(7), d)
}
