// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	ErrUnknownPoolKind   = errors.New("unknown pool kind")
	ErrTooManySwaps      = errors.New("too many swaps")
	ErrSubmissionMissing = errors.New("submission missing")
	ErrEventMissing      = errors.New("event missing")
)
