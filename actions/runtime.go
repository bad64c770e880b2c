// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/pool"
	"github.com/ava-labs/phoenixvm/stablepool"
	"github.com/ava-labs/phoenixvm/stake"
	"github.com/ava-labs/phoenixvm/token"
	"github.com/ava-labs/phoenixvm/vesting"
)

// Runtime holds the contracts actions execute against.
type Runtime struct {
	Ledger      *token.Ledger
	Pools       *pool.Pool
	StablePools *stablepool.Pool
	Stakes      *stake.Contract
	Vestings    *vesting.Contract
}

func NewRuntime(log logging.Logger, tokenCacheSize int) (*Runtime, error) {
	ledger, err := token.NewLedger(tokenCacheSize)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Ledger:      ledger,
		Pools:       pool.New(log, ledger, ledger),
		StablePools: stablepool.New(log, ledger, ledger),
		Stakes:      stake.New(log, ledger),
		Vestings:    vesting.New(log, ledger),
	}, nil
}

// binding is embedded by every action to reach the runtime it was bound to.
type binding struct {
	rt *Runtime
}

func (b *binding) bind(rt *Runtime) { b.rt = rt }

func (b *binding) runtime() (*Runtime, error) {
	if b.rt == nil {
		return nil, ErrUnbound
	}
	return b.rt, nil
}

type bindable interface {
	chain.Action
	bind(*Runtime)
}

var factories = map[uint8]func() bindable{
	consts.CreateTokenID:             func() bindable { return &CreateToken{} },
	consts.MintTokenID:               func() bindable { return &MintToken{} },
	consts.TransferTokenID:           func() bindable { return &TransferToken{} },
	consts.CreatePoolID:              func() bindable { return &CreatePool{} },
	consts.ProvideLiquidityID:        func() bindable { return &ProvideLiquidity{} },
	consts.WithdrawLiquidityID:       func() bindable { return &WithdrawLiquidity{} },
	consts.SwapID:                    func() bindable { return &Swap{} },
	consts.UpdatePoolConfigID:        func() bindable { return &UpdatePoolConfig{} },
	consts.CreateStablePoolID:        func() bindable { return &CreateStablePool{} },
	consts.ProvideStableLiquidityID:  func() bindable { return &ProvideStableLiquidity{} },
	consts.WithdrawStableLiquidityID: func() bindable { return &WithdrawStableLiquidity{} },
	consts.StableSwapID:              func() bindable { return &StableSwap{} },
	consts.RampAmpID:                 func() bindable { return &RampAmp{} },
	consts.StopAmpID:                 func() bindable { return &StopAmp{} },
	consts.CreateStakeID:             func() bindable { return &CreateStake{} },
	consts.BondID:                    func() bindable { return &Bond{} },
	consts.UnbondID:                  func() bindable { return &Unbond{} },
	consts.CreateDistributionID:      func() bindable { return &CreateDistribution{} },
	consts.FundDistributionID:        func() bindable { return &FundDistribution{} },
	consts.DistributeRewardsID:       func() bindable { return &DistributeRewards{} },
	consts.WithdrawRewardsID:         func() bindable { return &WithdrawRewards{} },
	consts.CreateVestingID:           func() bindable { return &CreateVesting{} },
	consts.CreateVestingSchedulesID:  func() bindable { return &CreateVestingSchedules{} },
	consts.ClaimVestingID:            func() bindable { return &ClaimVesting{} },
}

// Bind attaches [a] to the runtime. Actions from other packages are
// returned unchanged.
func (rt *Runtime) Bind(a chain.Action) chain.Action {
	if b, ok := a.(bindable); ok {
		b.bind(rt)
	}
	return a
}

// Parse decodes the JSON payload of an action of [typeID] and binds it.
func (rt *Runtime) Parse(typeID uint8, raw []byte) (chain.Action, error) {
	f, ok := factories[typeID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", chain.ErrUnknownAction, typeID)
	}
	a := f()
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidAction, Name(typeID), err)
	}
	a.bind(rt)
	return a, nil
}
