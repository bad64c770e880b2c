// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/hashicorp/golang-lru/v2"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/decimal"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
)

const DefaultCacheSize = 1_024

var (
	_ Ops    = (*Ledger)(nil)
	_ Issuer = (*Ledger)(nil)
)

// Ledger keeps native token balances in state. Decimals never change once a
// token exists so they are cached.
type Ledger struct {
	decimals *lru.Cache[codec.Address, uint8]
}

func NewLedger(cacheSize int) (*Ledger, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c, err := lru.New[codec.Address, uint8](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Ledger{decimals: c}, nil
}

// Create registers a token owned by [owner] and returns its address.
func (l *Ledger) Create(ctx context.Context, mu state.Mutable, owner codec.Address, name string, symbol string, decimals uint8) (codec.Address, error) {
	if len(name) == 0 || len(name) > storage.MaxTokenNameSize {
		return codec.EmptyAddress, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if len(symbol) == 0 || len(symbol) > storage.MaxTokenSymbolSize {
		return codec.EmptyAddress, fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	if decimals > storage.MaxTokenDecimals {
		return codec.EmptyAddress, fmt.Errorf("%w: %d", ErrInvalidDecimals, decimals)
	}
	addr := storage.TokenAddress(owner, symbol)
	if err := l.CreateAt(ctx, mu, addr, storage.TokenInfo{
		Name:        name,
		Symbol:      symbol,
		Decimals:    decimals,
		TotalSupply: math.ZeroInt(),
		Owner:       owner,
	}); err != nil {
		return codec.EmptyAddress, err
	}
	return addr, nil
}

// CreateAt registers a token at a contract chosen address. Pools create
// their share tokens this way.
func (l *Ledger) CreateAt(ctx context.Context, mu state.Mutable, addr codec.Address, info storage.TokenInfo) error {
	if _, err := storage.GetTokenInfo(ctx, mu, addr); err == nil {
		return fmt.Errorf("%w: %s", ErrTokenExists, addr)
	}
	if info.TotalSupply.IsNil() {
		info.TotalSupply = math.ZeroInt()
	}
	l.decimals.Remove(addr)
	return storage.SetTokenInfo(ctx, mu, addr, info)
}

func (*Ledger) Info(ctx context.Context, im state.Immutable, token codec.Address) (storage.TokenInfo, error) {
	return storage.GetTokenInfo(ctx, im, token)
}

func (*Ledger) TotalSupply(ctx context.Context, im state.Immutable, token codec.Address) (math.Int, error) {
	info, err := storage.GetTokenInfo(ctx, im, token)
	if err != nil {
		return math.Int{}, err
	}
	return info.TotalSupply, nil
}

func (*Ledger) Balance(ctx context.Context, im state.Immutable, token codec.Address, account codec.Address) (math.Int, error) {
	return storage.GetBalance(ctx, im, token, account)
}

func (l *Ledger) Decimals(ctx context.Context, im state.Immutable, token codec.Address) (uint8, error) {
	if d, ok := l.decimals.Get(token); ok {
		return d, nil
	}
	info, err := storage.GetTokenInfo(ctx, im, token)
	if err != nil {
		return 0, err
	}
	l.decimals.Add(token, info.Decimals)
	return info.Decimals, nil
}

func (*Ledger) Transfer(ctx context.Context, mu state.Mutable, token codec.Address, from codec.Address, to codec.Address, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	if _, err := storage.GetTokenInfo(ctx, mu, token); err != nil {
		return err
	}
	if amount.IsZero() || from == to {
		return nil
	}
	fromBal, err := storage.GetBalance(ctx, mu, token, from)
	if err != nil {
		return err
	}
	if fromBal.LT(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from, fromBal, amount)
	}
	toBal, err := storage.GetBalance(ctx, mu, token, to)
	if err != nil {
		return err
	}
	if err := storage.SetBalance(ctx, mu, token, from, fromBal.Sub(amount)); err != nil {
		return err
	}
	return storage.SetBalance(ctx, mu, token, to, toBal.Add(amount))
}

// Mint fails once the supply would leave the signed 128 bit range.
func (*Ledger) Mint(ctx context.Context, mu state.Mutable, token codec.Address, to codec.Address, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	info, err := storage.GetTokenInfo(ctx, mu, token)
	if err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	supply := info.TotalSupply.Add(amount)
	if err := decimal.CheckI128(supply); err != nil {
		return fmt.Errorf("%w: %w", ErrSupplyOverflow, err)
	}
	bal, err := storage.GetBalance(ctx, mu, token, to)
	if err != nil {
		return err
	}
	if err := storage.SetBalance(ctx, mu, token, to, bal.Add(amount)); err != nil {
		return err
	}
	info.TotalSupply = supply
	return storage.SetTokenInfo(ctx, mu, token, info)
}

func (*Ledger) Burn(ctx context.Context, mu state.Mutable, token codec.Address, from codec.Address, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	info, err := storage.GetTokenInfo(ctx, mu, token)
	if err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	bal, err := storage.GetBalance(ctx, mu, token, from)
	if err != nil {
		return err
	}
	if bal.LT(amount) {
		return fmt.Errorf("%w: %s has %s, burning %s", ErrInsufficientBalance, from, bal, amount)
	}
	if err := storage.SetBalance(ctx, mu, token, from, bal.Sub(amount)); err != nil {
		return err
	}
	info.TotalSupply = info.TotalSupply.Sub(amount)
	return storage.SetTokenInfo(ctx, mu, token, info)
}
