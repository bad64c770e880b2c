// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrInvalidActor     = errors.New("invalid actor")
	ErrUnknownAction    = errors.New("unknown action")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrExpired          = errors.New("submission expired")
	ErrExpiryTooFar     = errors.New("submission expiry too far in the future")
	ErrDuplicate        = errors.New("duplicate submission")
)
