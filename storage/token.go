// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/state"
)

const (
	MaxTokenNameSize   = 64
	MaxTokenSymbolSize = 12
	MaxTokenDecimals   = 18
)

type TokenInfo struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply math.Int
	Owner       codec.Address
}

type tokenInfoRecord struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply string
	Owner       codec.Address
}

// TokenAddress derives the address of a token created by [owner] with
// [symbol].
func TokenAddress(owner codec.Address, symbol string) codec.Address {
	return codec.DeriveAddress(consts.TokenID, owner[:], []byte(symbol))
}

func SetTokenInfo(ctx context.Context, mu state.Mutable, token codec.Address, info TokenInfo) error {
	return putRecord(ctx, mu, TokenInfoKey(token), tokenInfoRecord{
		Name:        info.Name,
		Symbol:      info.Symbol,
		Decimals:    info.Decimals,
		TotalSupply: encodeInt(info.TotalSupply),
		Owner:       info.Owner,
	})
}

// GetTokenInfo returns [ErrConfigNotSet] for unknown tokens.
func GetTokenInfo(ctx context.Context, im state.Immutable, token codec.Address) (TokenInfo, error) {
	r, ok, err := getRecord[tokenInfoRecord](ctx, im, TokenInfoKey(token))
	if err != nil {
		return TokenInfo{}, err
	}
	if !ok {
		return TokenInfo{}, fmt.Errorf("%w: token %s", ErrConfigNotSet, token)
	}
	supply, err := decodeInt(r.TotalSupply)
	if err != nil {
		return TokenInfo{}, err
	}
	return TokenInfo{
		Name:        r.Name,
		Symbol:      r.Symbol,
		Decimals:    r.Decimals,
		TotalSupply: supply,
		Owner:       r.Owner,
	}, nil
}

func GetBalance(ctx context.Context, im state.Immutable, token codec.Address, account codec.Address) (math.Int, error) {
	return getInt(ctx, im, BalanceKey(token, account))
}

// SetBalance removes the key once the balance reaches zero.
func SetBalance(ctx context.Context, mu state.Mutable, token codec.Address, account codec.Address, balance math.Int) error {
	k := BalanceKey(token, account)
	if balance.IsZero() {
		return mu.Remove(ctx, k)
	}
	return putInt(ctx, mu, k, balance)
}
