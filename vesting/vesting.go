// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vesting locks tokens for recipients and releases them along a
// decreasing curve.
package vesting

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/curve"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/storage"
	"github.com/ava-labs/phoenixvm/token"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrVestingExists   = errors.New("vesting contract already exists")
	ErrInvalidConfig   = errors.New("invalid vesting config")
	ErrInvalidSchedule = errors.New("invalid vesting schedule")
	ErrNoSchedules     = errors.New("no vesting schedules")
	ErrVestingNotFound = errors.New("vesting schedule not found")
	ErrNothingToClaim  = errors.New("nothing to claim")
)

// Schedule vests Curve.Value at its start for Recipient. The curve gives
// the amount still locked at each time.
type Schedule struct {
	Recipient codec.Address `json:"recipient"`
	Curve     curve.Curve   `json:"curve"`
}

type Contract struct {
	log    logging.Logger
	tokens token.Ops
}

func New(log logging.Logger, tokens token.Ops) *Contract {
	return &Contract{log: log, tokens: tokens}
}

func (c *Contract) Initialize(
	ctx context.Context,
	mu state.Mutable,
	admin codec.Address,
	tok codec.Address,
	maxComplexity uint32,
) (codec.Address, error) {
	if _, err := c.tokens.Decimals(ctx, mu, tok); err != nil {
		return codec.EmptyAddress, err
	}
	if maxComplexity < 2 {
		return codec.EmptyAddress, fmt.Errorf("%w: max complexity %d", ErrInvalidConfig, maxComplexity)
	}
	addr := storage.VestingAddress(admin, tok)
	if _, err := storage.GetVestingConfig(ctx, mu, addr); err == nil {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrVestingExists, addr)
	} else if !errors.Is(err, storage.ErrConfigNotSet) {
		return codec.EmptyAddress, err
	}
	if err := storage.SetVestingConfig(ctx, mu, addr, storage.VestingConfig{
		Admin:         admin,
		Token:         tok,
		MaxComplexity: maxComplexity,
	}); err != nil {
		return codec.EmptyAddress, err
	}
	c.log.Info("created vesting", zap.Stringer("vesting", addr), zap.Stringer("token", tok))
	return addr, nil
}

// CreateVestingSchedules funds every schedule from the admin.
func (c *Contract) CreateVestingSchedules(
	ctx context.Context,
	mu state.Mutable,
	vesting codec.Address,
	sender codec.Address,
	schedules []Schedule,
) error {
	cfg, err := storage.GetVestingConfig(ctx, mu, vesting)
	if err != nil {
		return err
	}
	if sender != cfg.Admin {
		return fmt.Errorf("%w: %s is not the vesting admin", ErrUnauthorized, sender)
	}
	if len(schedules) == 0 {
		return ErrNoSchedules
	}
	for i, s := range schedules {
		amount, err := validateSchedule(s.Curve, cfg.MaxComplexity)
		if err != nil {
			return fmt.Errorf("schedule %d: %w", i, err)
		}
		if err := c.tokens.Transfer(ctx, mu, cfg.Token, sender, vesting, amount); err != nil {
			return err
		}
		accounts, err := storage.GetVestingAccounts(ctx, mu, vesting, s.Recipient)
		if err != nil {
			return err
		}
		accounts = append(accounts, storage.VestingAccount{
			Recipient: s.Recipient,
			Balance:   amount,
			Schedule:  s.Curve,
		})
		if err := storage.SetVestingAccounts(ctx, mu, vesting, s.Recipient, accounts); err != nil {
			return err
		}
		c.log.Debug("created vesting schedule",
			zap.Stringer("vesting", vesting),
			zap.Stringer("recipient", s.Recipient),
			zap.Stringer("amount", amount),
			zap.Stringer("curve", s.Curve),
		)
	}
	return nil
}

// validateSchedule returns the amount a schedule vests.
func validateSchedule(c curve.Curve, maxComplexity uint32) (math.Int, error) {
	if err := c.Validate(); err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	if err := c.ValidateComplexity(maxComplexity); err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	if c.Shape() != curve.ShapeDecreasing {
		return math.Int{}, fmt.Errorf("%w: %s is not decreasing", ErrInvalidSchedule, c)
	}
	end, ok := c.End()
	if !ok || !c.Value(end).IsZero() {
		return math.Int{}, fmt.Errorf("%w: %s does not end at zero", ErrInvalidSchedule, c)
	}
	_, amount := c.Range()
	return amount, nil
}

// Claim pays [sender] everything unlocked in its schedule [index].
func (c *Contract) Claim(
	ctx context.Context,
	mu state.Mutable,
	vesting codec.Address,
	now uint64,
	sender codec.Address,
	index uint32,
) (math.Int, error) {
	cfg, err := storage.GetVestingConfig(ctx, mu, vesting)
	if err != nil {
		return math.Int{}, err
	}
	accounts, err := storage.GetVestingAccounts(ctx, mu, vesting, sender)
	if err != nil {
		return math.Int{}, err
	}
	if int(index) >= len(accounts) {
		return math.Int{}, fmt.Errorf("%w: %s has %d schedules", ErrVestingNotFound, sender, len(accounts))
	}
	available := claimable(accounts[index], now)
	if available.IsZero() {
		return math.Int{}, ErrNothingToClaim
	}
	accounts[index].Balance = accounts[index].Balance.Sub(available)
	if err := storage.SetVestingAccounts(ctx, mu, vesting, sender, accounts); err != nil {
		return math.Int{}, err
	}
	if err := c.tokens.Transfer(ctx, mu, cfg.Token, vesting, sender, available); err != nil {
		return math.Int{}, err
	}
	c.log.Debug("claimed vesting",
		zap.Stringer("vesting", vesting),
		zap.Stringer("recipient", sender),
		zap.Stringer("amount", available),
	)
	return available, nil
}

func claimable(a storage.VestingAccount, now uint64) math.Int {
	return math.MaxInt(a.Balance.Sub(a.Schedule.Value(now)), math.ZeroInt())
}

func (*Contract) QueryConfig(ctx context.Context, im state.Immutable, vesting codec.Address) (storage.VestingConfig, error) {
	return storage.GetVestingConfig(ctx, im, vesting)
}

// VestingInfo lists the schedules of [recipient].
func (*Contract) VestingInfo(ctx context.Context, im state.Immutable, vesting codec.Address, recipient codec.Address) ([]storage.VestingAccount, error) {
	return storage.GetVestingAccounts(ctx, im, vesting, recipient)
}

func (*Contract) AvailableToClaim(
	ctx context.Context,
	im state.Immutable,
	vesting codec.Address,
	now uint64,
	recipient codec.Address,
	index uint32,
) (math.Int, error) {
	accounts, err := storage.GetVestingAccounts(ctx, im, vesting, recipient)
	if err != nil {
		return math.Int{}, err
	}
	if int(index) >= len(accounts) {
		return math.Int{}, fmt.Errorf("%w: %s has %d schedules", ErrVestingNotFound, recipient, len(accounts))
	}
	return claimable(accounts[index], now), nil
}
