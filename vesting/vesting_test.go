// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vesting

import (
	"context"
	"encoding/json"
	"testing"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/curve"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/token"
)

var (
	admin = codec.DeriveAddress(consts.AccountID, []byte("admin"))
	alice = codec.DeriveAddress(consts.AccountID, []byte("alice"))
	bob   = codec.DeriveAddress(consts.AccountID, []byte("bob"))
)

func setup(t *testing.T) (context.Context, *state.SimpleMutable, *token.Ledger, *Contract, codec.Address, codec.Address) {
	require := require.New(t)
	ctx := context.Background()
	ledger, err := token.NewLedger(token.DefaultCacheSize)
	require.NoError(err)
	mu := state.NewSimpleMutable(state.NewMemoryDatabase())
	tok, err := ledger.Create(ctx, mu, admin, "Vested", "VST", 7)
	require.NoError(err)
	require.NoError(ledger.Mint(ctx, mu, tok, admin, math.NewInt(1_000_000)))

	c := New(logging.NoLog{}, ledger)
	addr, err := c.Initialize(ctx, mu, admin, tok, 4)
	require.NoError(err)
	return ctx, mu, ledger, c, addr, tok
}

func TestInitialize(t *testing.T) {
	require := require.New(t)
	ctx, mu, _, c, _, tok := setup(t)

	_, err := c.Initialize(ctx, mu, admin, tok, 4)
	require.ErrorIs(err, ErrVestingExists)
	_, err = c.Initialize(ctx, mu, bob, tok, 1)
	require.ErrorIs(err, ErrInvalidConfig)
}

func TestCreateVestingSchedules(t *testing.T) {
	tests := []struct {
		name        string
		sender      codec.Address
		schedules   []Schedule
		expectedErr error
	}{
		{
			name:        "not admin",
			sender:      bob,
			schedules:   []Schedule{{Recipient: alice, Curve: curve.SaturatingLinear(0, math.NewInt(100), 10, math.ZeroInt())}},
			expectedErr: ErrUnauthorized,
		},
		{
			name:        "empty",
			sender:      admin,
			expectedErr: ErrNoSchedules,
		},
		{
			name:        "constant",
			sender:      admin,
			schedules:   []Schedule{{Recipient: alice, Curve: curve.Constant(math.NewInt(100))}},
			expectedErr: ErrInvalidSchedule,
		},
		{
			name:        "increasing",
			sender:      admin,
			schedules:   []Schedule{{Recipient: alice, Curve: curve.SaturatingLinear(0, math.ZeroInt(), 10, math.NewInt(100))}},
			expectedErr: ErrInvalidSchedule,
		},
		{
			name:        "does not end at zero",
			sender:      admin,
			schedules:   []Schedule{{Recipient: alice, Curve: curve.SaturatingLinear(0, math.NewInt(100), 10, math.NewInt(1))}},
			expectedErr: ErrInvalidSchedule,
		},
		{
			name:   "too complex",
			sender: admin,
			schedules: []Schedule{{Recipient: alice, Curve: curve.PiecewiseLinear([]curve.Step{
				{Time: 0, Value: math.NewInt(100)},
				{Time: 1, Value: math.NewInt(80)},
				{Time: 2, Value: math.NewInt(60)},
				{Time: 3, Value: math.NewInt(40)},
				{Time: 4, Value: math.ZeroInt()},
			})}},
			expectedErr: ErrInvalidSchedule,
		},
		{
			name:   "more than the admin holds",
			sender: admin,
			schedules: []Schedule{
				{Recipient: alice, Curve: curve.SaturatingLinear(0, math.NewInt(2_000_000), 10, math.ZeroInt())},
			},
			expectedErr: token.ErrInsufficientBalance,
		},
		{
			name:   "valid",
			sender: admin,
			schedules: []Schedule{
				{Recipient: alice, Curve: curve.SaturatingLinear(0, math.NewInt(1_000), 100, math.ZeroInt())},
				{Recipient: alice, Curve: curve.PiecewiseLinear([]curve.Step{
					{Time: 50, Value: math.NewInt(500)},
					{Time: 60, Value: math.NewInt(100)},
					{Time: 70, Value: math.ZeroInt()},
				})},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx, mu, _, c, addr, _ := setup(t)
			err := c.CreateVestingSchedules(ctx, mu, addr, tt.sender, tt.schedules)
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr != nil {
				return
			}
			accounts, err := c.VestingInfo(ctx, mu, addr, alice)
			require.NoError(err)
			require.Len(accounts, len(tt.schedules))
			require.Equal(int64(1_000), accounts[0].Balance.Int64())
			require.Equal(int64(500), accounts[1].Balance.Int64())
		})
	}
}

func TestCreateVestingSchedulesDecodedCurve(t *testing.T) {
	tests := []struct {
		name        string
		curve       string
		expectedErr error
	}{
		{
			name:        "step without value",
			curve:       `{"Kind":2,"Steps":[{"Time":0,"Value":"100"},{"Time":10}]}`,
			expectedErr: curve.ErrMissingValue,
		},
		{
			name:        "saturating linear without values",
			curve:       `{"Kind":1,"MinX":0,"MaxX":10}`,
			expectedErr: curve.ErrMissingValue,
		},
		{
			name:        "negative step",
			curve:       `{"Kind":2,"Steps":[{"Time":0,"Value":"100"},{"Time":10,"Value":"-1"}]}`,
			expectedErr: curve.ErrNegativeValue,
		},
		{
			name:        "unknown kind",
			curve:       `{"Kind":9,"Y":"100"}`,
			expectedErr: curve.ErrUnknownKind,
		},
		{
			name:  "valid",
			curve: `{"Kind":2,"Steps":[{"Time":0,"Value":"100"},{"Time":10,"Value":"0"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx, mu, _, c, addr, _ := setup(t)
			raw := `[{"recipient":"` + alice.String() + `","curve":` + tt.curve + `}]`
			var schedules []Schedule
			require.NoError(json.Unmarshal([]byte(raw), &schedules))

			err := c.CreateVestingSchedules(ctx, mu, addr, admin, schedules)
			if tt.expectedErr != nil {
				require.ErrorIs(err, ErrInvalidSchedule)
				require.ErrorIs(err, tt.expectedErr)
				return
			}
			require.NoError(err)
			accounts, err := c.VestingInfo(ctx, mu, addr, alice)
			require.NoError(err)
			require.Len(accounts, 1)
			require.Equal(int64(100), accounts[0].Balance.Int64())
		})
	}
}

func TestClaim(t *testing.T) {
	require := require.New(t)
	ctx, mu, ledger, c, addr, tok := setup(t)
	require.NoError(c.CreateVestingSchedules(ctx, mu, addr, admin, []Schedule{
		{Recipient: alice, Curve: curve.SaturatingLinear(100, math.NewInt(1_000), 200, math.ZeroInt())},
	}))

	_, err := c.Claim(ctx, mu, addr, 100, alice, 0)
	require.ErrorIs(err, ErrNothingToClaim)
	_, err = c.Claim(ctx, mu, addr, 150, alice, 1)
	require.ErrorIs(err, ErrVestingNotFound)
	_, err = c.Claim(ctx, mu, addr, 150, bob, 0)
	require.ErrorIs(err, ErrVestingNotFound)

	available, err := c.AvailableToClaim(ctx, mu, addr, 150, alice, 0)
	require.NoError(err)
	require.Equal(int64(500), available.Int64())

	claimed, err := c.Claim(ctx, mu, addr, 150, alice, 0)
	require.NoError(err)
	require.Equal(int64(500), claimed.Int64())
	_, err = c.Claim(ctx, mu, addr, 150, alice, 0)
	require.ErrorIs(err, ErrNothingToClaim)

	claimed, err = c.Claim(ctx, mu, addr, 1_000, alice, 0)
	require.NoError(err)
	require.Equal(int64(500), claimed.Int64())

	bal, err := ledger.Balance(ctx, mu, tok, alice)
	require.NoError(err)
	require.Equal(int64(1_000), bal.Int64())
	bal, err = ledger.Balance(ctx, mu, tok, addr)
	require.NoError(err)
	require.True(bal.IsZero())
}
