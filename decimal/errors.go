// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package decimal

import "errors"

var (
	ErrDivideByZero = errors.New("divide by zero")
	ErrOverflow     = errors.New("decimal overflow")
	ErrUnderflow    = errors.New("decimal underflow")
	ErrPrecision    = errors.New("invalid precision")
)
