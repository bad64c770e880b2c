// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/pricing"
	"github.com/ava-labs/phoenixvm/state"
)

// PoolConfig is written once by pool initialization. Only the fee fields
// change afterwards.
type PoolConfig struct {
	Kind       uint8
	TokenA     codec.Address
	TokenB     codec.Address
	ShareToken codec.Address

	TotalFeeBps           int64
	MaxAllowedSlippageBps int64
	MaxAllowedSpreadBps   int64
	MaxReferralBps        int64
	FeeRecipient          codec.Address
	Admin                 codec.Address
}

type PoolReserves struct {
	BalanceA    math.Int
	BalanceB    math.Int
	TotalShares math.Int
}

type poolReservesRecord struct {
	BalanceA    string
	BalanceB    string
	TotalShares string
}

// PoolAddress orders the pair and derives the address of its pool of
// [kind], so each pair maps to one pool per kind.
func PoolAddress(kind uint8, tokenX codec.Address, tokenY codec.Address) (codec.Address, error) {
	switch c := tokenX.Compare(tokenY); {
	case c > 0:
		tokenX, tokenY = tokenY, tokenX
	case c == 0:
		return codec.EmptyAddress, ErrIdenticalAddresses
	}
	typeID := consts.PoolID
	if kind == pricing.StableKind {
		typeID = consts.StablePoolID
	}
	return codec.DeriveAddress(typeID, tokenX[:], tokenY[:]), nil
}

func ShareTokenAddress(pool codec.Address) codec.Address {
	return codec.DeriveAddress(consts.ShareTokenID, pool[:])
}

// BurnAddress holds the shares locked by the first deposit of [pool].
func BurnAddress(pool codec.Address) codec.Address {
	return codec.DeriveAddress(consts.BurnID, pool[:])
}

func SetPoolConfig(ctx context.Context, mu state.Mutable, pool codec.Address, cfg PoolConfig) error {
	return putRecord(ctx, mu, PoolConfigKey(pool), cfg)
}

func GetPoolConfig(ctx context.Context, im state.Immutable, pool codec.Address) (PoolConfig, error) {
	cfg, ok, err := getRecord[PoolConfig](ctx, im, PoolConfigKey(pool))
	if err != nil {
		return PoolConfig{}, err
	}
	if !ok {
		return PoolConfig{}, fmt.Errorf("%w: pool %s", ErrConfigNotSet, pool)
	}
	return cfg, nil
}

func HasPool(ctx context.Context, im state.Immutable, pool codec.Address) (bool, error) {
	_, ok, err := getRecord[PoolConfig](ctx, im, PoolConfigKey(pool))
	return ok, err
}

// GetPoolReserves returns zero reserves for a pool with no deposits yet.
func GetPoolReserves(ctx context.Context, im state.Immutable, pool codec.Address) (PoolReserves, error) {
	r, _, err := getRecord[poolReservesRecord](ctx, im, PoolReservesKey(pool))
	if err != nil {
		return PoolReserves{}, err
	}
	v, err := decodeInts(r.BalanceA, r.BalanceB, r.TotalShares)
	if err != nil {
		return PoolReserves{}, err
	}
	return PoolReserves{BalanceA: v[0], BalanceB: v[1], TotalShares: v[2]}, nil
}

func SetPoolReserves(ctx context.Context, mu state.Mutable, pool codec.Address, r PoolReserves) error {
	return putRecord(ctx, mu, PoolReservesKey(pool), poolReservesRecord{
		BalanceA:    encodeInt(r.BalanceA),
		BalanceB:    encodeInt(r.BalanceB),
		TotalShares: encodeInt(r.TotalShares),
	})
}

func SetAmpParams(ctx context.Context, mu state.Mutable, pool codec.Address, p pricing.AmpParams) error {
	return putRecord(ctx, mu, AmpParamsKey(pool), p)
}

func GetAmpParams(ctx context.Context, im state.Immutable, pool codec.Address) (pricing.AmpParams, error) {
	p, ok, err := getRecord[pricing.AmpParams](ctx, im, AmpParamsKey(pool))
	if err != nil {
		return pricing.AmpParams{}, err
	}
	if !ok {
		return pricing.AmpParams{}, fmt.Errorf("%w: amp of %s", ErrConfigNotSet, pool)
	}
	return p, nil
}
