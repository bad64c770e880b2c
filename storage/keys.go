// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/phoenixvm/codec"
)

// Key prefixes
const (
	tokenInfoPrefix byte = iota
	balancePrefix

	poolConfigPrefix
	poolReservesPrefix
	ampParamsPrefix

	stakeConfigPrefix
	totalStakedPrefix
	bondingInfoPrefix
	distributionsPrefix
	distributionPrefix
	withdrawAdjustmentPrefix
	rewardCurvePrefix

	vestingConfigPrefix
	vestingAccountsPrefix

	genesisPrefix
)

func makeKey(prefix byte, addrs ...codec.Address) []byte {
	k := make([]byte, 1+len(addrs)*codec.AddressLen)
	k[0] = prefix
	for i, a := range addrs {
		copy(k[1+i*codec.AddressLen:], a[:])
	}
	return k
}

func TokenInfoKey(token codec.Address) []byte {
	return makeKey(tokenInfoPrefix, token)
}

func BalanceKey(token codec.Address, account codec.Address) []byte {
	return makeKey(balancePrefix, token, account)
}

func PoolConfigKey(pool codec.Address) []byte {
	return makeKey(poolConfigPrefix, pool)
}

func PoolReservesKey(pool codec.Address) []byte {
	return makeKey(poolReservesPrefix, pool)
}

func AmpParamsKey(pool codec.Address) []byte {
	return makeKey(ampParamsPrefix, pool)
}

func StakeConfigKey(stake codec.Address) []byte {
	return makeKey(stakeConfigPrefix, stake)
}

func TotalStakedKey(stake codec.Address) []byte {
	return makeKey(totalStakedPrefix, stake)
}

func BondingInfoKey(stake codec.Address, staker codec.Address) []byte {
	return makeKey(bondingInfoPrefix, stake, staker)
}

func DistributionsKey(stake codec.Address) []byte {
	return makeKey(distributionsPrefix, stake)
}

func DistributionKey(stake codec.Address, asset codec.Address) []byte {
	return makeKey(distributionPrefix, stake, asset)
}

func WithdrawAdjustmentKey(stake codec.Address, asset codec.Address, staker codec.Address) []byte {
	return makeKey(withdrawAdjustmentPrefix, stake, asset, staker)
}

func RewardCurveKey(stake codec.Address, asset codec.Address) []byte {
	return makeKey(rewardCurvePrefix, stake, asset)
}

func VestingConfigKey(vesting codec.Address) []byte {
	return makeKey(vestingConfigPrefix, vesting)
}

func VestingAccountsKey(vesting codec.Address, recipient codec.Address) []byte {
	return makeKey(vestingAccountsPrefix, vesting, recipient)
}

func GenesisKey() []byte {
	return []byte{genesisPrefix}
}
