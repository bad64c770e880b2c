// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"fmt"

	"github.com/ava-labs/phoenixvm/consts"
)

var names = map[uint8]string{
	consts.CreateTokenID:             "create_token",
	consts.MintTokenID:               "mint_token",
	consts.TransferTokenID:           "transfer_token",
	consts.CreatePoolID:              "create_pool",
	consts.ProvideLiquidityID:        "provide_liquidity",
	consts.WithdrawLiquidityID:       "withdraw_liquidity",
	consts.SwapID:                    "swap",
	consts.UpdatePoolConfigID:        "update_pool_config",
	consts.CreateStablePoolID:        "create_stable_pool",
	consts.ProvideStableLiquidityID:  "provide_stable_liquidity",
	consts.WithdrawStableLiquidityID: "withdraw_stable_liquidity",
	consts.StableSwapID:              "stable_swap",
	consts.RampAmpID:                 "ramp_amp",
	consts.StopAmpID:                 "stop_amp",
	consts.CreateStakeID:             "create_stake",
	consts.BondID:                    "bond",
	consts.UnbondID:                  "unbond",
	consts.CreateDistributionID:      "create_distribution",
	consts.FundDistributionID:        "fund_distribution",
	consts.DistributeRewardsID:       "distribute_rewards",
	consts.WithdrawRewardsID:         "withdraw_rewards",
	consts.CreateVestingID:           "create_vesting",
	consts.CreateVestingSchedulesID:  "create_vesting_schedules",
	consts.ClaimVestingID:            "claim_vesting",
}

// Name is the label of an action type in logs and metrics.
func Name(typeID uint8) string {
	if name, ok := names[typeID]; ok {
		return name
	}
	return fmt.Sprintf("unknown_%d", typeID)
}

// TypeID returns the action type labeled [name].
func TypeID(name string) (uint8, bool) {
	for id, n := range names {
		if n == name {
			return id, true
		}
	}
	return 0, false
}
