// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrTokenExists         = errors.New("token already exists")
	ErrInvalidDecimals     = errors.New("invalid decimals")
	ErrInvalidName         = errors.New("invalid name")
	ErrInvalidSymbol       = errors.New("invalid symbol")
	ErrSupplyOverflow      = errors.New("supply overflow")
)
