// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "errors"

var (
	// input validation
	ErrInvalidDeposit        = errors.New("invalid deposit")
	ErrInvalidBps            = errors.New("invalid bps")
	ErrNegativeInputProvided = errors.New("negative input provided")
	ErrIncorrectAssetSwap    = errors.New("incorrect asset swap")
	ErrAssetNotInPool        = errors.New("asset not in pool")
	ErrInvalidShares         = errors.New("invalid share amount")
	ErrInvalidAmp            = errors.New("invalid amplification")

	// economic guards
	ErrDepositExceedsDesired           = errors.New("deposit amount exceeds desired")
	ErrDepositBelowMin                 = errors.New("deposit amount below minimum")
	ErrMinimumAmountNotSatisfied       = errors.New("minimum amount not satisfied")
	ErrSwapMinReceivedBiggerThanReturn = errors.New("minimum received bigger than return")
	ErrSpreadExceedsLimit              = errors.New("spread exceeds limit")
	ErrSlippageInvalid                 = errors.New("slippage tolerance exceeded")
	ErrIssuedSharesLessThanMin         = errors.New("issued shares less than requested minimum")
	ErrUserDeclinesPoolFee             = errors.New("pool fee above user maximum")

	// arithmetic
	ErrContractMath   = errors.New("contract math error")
	ErrNotConverging  = errors.New("newton iteration did not converge")
	ErrAskExceedsPool = errors.New("ask amount exceeds pool")

	// bootstrap and liquidity floor
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrLowLiquidity          = errors.New("low liquidity")
	ErrTotalSharesEqualZero  = errors.New("total shares equal zero")
	ErrEmptyPool             = errors.New("pool is empty")

	// time windows
	ErrTransactionAfterTimestampDeadline = errors.New("transaction after timestamp deadline")
	ErrInvalidTime                       = errors.New("invalid time")
)
