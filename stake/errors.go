// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package stake

import "errors"

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidConfig         = errors.New("invalid stake config")
	ErrStakeExists           = errors.New("stake contract already exists")
	ErrMinStakeNotReached    = errors.New("minimum stake not reached")
	ErrStakeNotFound         = errors.New("stake not found")
	ErrInvalidAsset          = errors.New("invalid reward asset")
	ErrDistributionExists    = errors.New("distribution already exists")
	ErrMinRewardNotEnough    = errors.New("reward below minimum")
	ErrInvalidTime           = errors.New("invalid time")
	ErrInvalidMaxComplexity  = errors.New("reward curve exceeds max complexity")
	ErrInvalidRewardCurve    = errors.New("invalid reward curve")
	ErrPowerOverflow         = errors.New("reward power overflow")
)
