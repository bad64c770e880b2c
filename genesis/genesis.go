// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/phoenixvm/actions"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/pool"
	"github.com/ava-labs/phoenixvm/stake"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
)

type Allocation struct {
	Address codec.Address `json:"address"`
	Balance math.Int      `json:"balance"`
}

type Token struct {
	Owner       codec.Address `json:"owner"`
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Decimals    uint8         `json:"decimals"`
	Allocations []Allocation  `json:"allocations"`
}

// Address is where the token is created.
func (t Token) Address() codec.Address {
	return storage.TokenAddress(t.Owner, t.Symbol)
}

// Pool creates a pool and seeds it with AmountA and AmountB from Provider.
// Token order is normalized, so TokenA and TokenB may be given in any order.
type Pool struct {
	Stable bool `json:"stable"`
	pool.InitializeArgs

	Provider codec.Address `json:"provider"`
	AmountA  math.Int      `json:"amountA"`
	AmountB  math.Int      `json:"amountB"`

	// Stake creates the staking contract of the share token when set. Its
	// LPToken is filled in.
	Stake *stake.InitializeArgs `json:"stake,omitempty"`
}

type Genesis struct {
	Tokens []Token `json:"tokens"`
	Pools  []Pool  `json:"pools"`
}

func New(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("unable to read genesis: %w", err)
	}
	return g, nil
}

// Load reads the genesis at [path] and returns it with the hash of its
// bytes.
func Load(path string) (*Genesis, ids.ID, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, ids.Empty, err
	}
	g, err := New(b)
	if err != nil {
		return nil, ids.Empty, err
	}
	return g, ids.ID(hashing.ComputeHash256Array(b)), nil
}

// InitializeState creates every token, allocation and pool in order.
func (g *Genesis) InitializeState(
	ctx context.Context,
	tracer trace.Tracer,
	log logging.Logger,
	mu state.Mutable,
	now uint64,
	rt *actions.Runtime,
) error {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	for _, tok := range g.Tokens {
		addr, err := rt.Ledger.Create(ctx, mu, tok.Owner, tok.Name, tok.Symbol, tok.Decimals)
		if err != nil {
			return fmt.Errorf("%w: token %s", err, tok.Symbol)
		}
		for _, alloc := range tok.Allocations {
			if err := rt.Ledger.Mint(ctx, mu, addr, alloc.Address, alloc.Balance); err != nil {
				return fmt.Errorf("%w: token=%s addr=%s bal=%s", err, tok.Symbol, alloc.Address, alloc.Balance)
			}
		}
		log.Info("created genesis token",
			zap.String("symbol", tok.Symbol),
			zap.Stringer("address", addr),
			zap.Int("allocations", len(tok.Allocations)),
		)
	}
	for i, p := range g.Pools {
		if err := p.initialize(ctx, mu, now, rt); err != nil {
			return fmt.Errorf("%w: pool %d", err, i)
		}
	}
	return nil
}

func (p Pool) initialize(ctx context.Context, mu state.Mutable, now uint64, rt *actions.Runtime) error {
	args := p.InitializeArgs
	amountA, amountB := p.AmountA, p.AmountB
	if args.TokenA.Compare(args.TokenB) > 0 {
		args.TokenA, args.TokenB = args.TokenB, args.TokenA
		amountA, amountB = amountB, amountA
	}

	var (
		addr codec.Address
		err  error
	)
	provide := pool.ProvideArgs{DesiredA: amountA, DesiredB: amountB}
	if p.Stable {
		addr, err = rt.StablePools.Initialize(ctx, mu, now, args)
		if err != nil {
			return err
		}
		if !amountA.IsNil() && !amountB.IsNil() {
			_, err = rt.StablePools.ProvideLiquidity(ctx, mu, addr, now, p.Provider, provide)
		}
	} else {
		addr, err = rt.Pools.Initialize(ctx, mu, args)
		if err != nil {
			return err
		}
		if !amountA.IsNil() && !amountB.IsNil() {
			_, err = rt.Pools.ProvideLiquidity(ctx, mu, addr, now, p.Provider, provide)
		}
	}
	if err != nil {
		return err
	}

	if p.Stake == nil {
		return nil
	}
	stakeArgs := *p.Stake
	stakeArgs.LPToken = storage.ShareTokenAddress(addr)
	_, err = rt.Stakes.Initialize(ctx, mu, stakeArgs)
	return err
}
