// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/curve"
	"github.com/ava-labs/phoenixvm/state"
)

type VestingConfig struct {
	Admin         codec.Address
	Token         codec.Address
	MaxComplexity uint32
}

// VestingAccount is one schedule of a recipient. Balance is what is left
// to claim; Schedule gives the amount that must stay locked at a time.
type VestingAccount struct {
	Recipient codec.Address
	Balance   math.Int
	Schedule  curve.Curve
}

type vestingAccountRecord struct {
	Recipient codec.Address
	Balance   string
	Schedule  curveRecord
}

type vestingAccountsRecord struct {
	Accounts []vestingAccountRecord
}

// VestingAddress is the vesting contract [admin] runs for [token].
func VestingAddress(admin codec.Address, token codec.Address) codec.Address {
	return codec.DeriveAddress(consts.VestingID, admin[:], token[:])
}

func SetVestingConfig(ctx context.Context, mu state.Mutable, vesting codec.Address, cfg VestingConfig) error {
	return putRecord(ctx, mu, VestingConfigKey(vesting), cfg)
}

func GetVestingConfig(ctx context.Context, im state.Immutable, vesting codec.Address) (VestingConfig, error) {
	cfg, ok, err := getRecord[VestingConfig](ctx, im, VestingConfigKey(vesting))
	if err != nil {
		return VestingConfig{}, err
	}
	if !ok {
		return VestingConfig{}, fmt.Errorf("%w: vesting %s", ErrConfigNotSet, vesting)
	}
	return cfg, nil
}

func GetVestingAccounts(ctx context.Context, im state.Immutable, vesting codec.Address, recipient codec.Address) ([]VestingAccount, error) {
	r, _, err := getRecord[vestingAccountsRecord](ctx, im, VestingAccountsKey(vesting, recipient))
	if err != nil {
		return nil, err
	}
	accounts := make([]VestingAccount, len(r.Accounts))
	for i, a := range r.Accounts {
		balance, err := decodeInt(a.Balance)
		if err != nil {
			return nil, err
		}
		schedule, err := a.Schedule.curve()
		if err != nil {
			return nil, err
		}
		accounts[i] = VestingAccount{Recipient: a.Recipient, Balance: balance, Schedule: schedule}
	}
	return accounts, nil
}

func SetVestingAccounts(ctx context.Context, mu state.Mutable, vesting codec.Address, recipient codec.Address, accounts []VestingAccount) error {
	r := vestingAccountsRecord{Accounts: make([]vestingAccountRecord, len(accounts))}
	for i, a := range accounts {
		r.Accounts[i] = vestingAccountRecord{
			Recipient: a.Recipient,
			Balance:   encodeInt(a.Balance),
			Schedule:  newCurveRecord(a.Schedule),
		}
	}
	return putRecord(ctx, mu, VestingAccountsKey(vesting, recipient), r)
}
