// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/state"
)

// Action is a state transition submitted by [actor]. Execute must not keep
// a reference to [mu] after it returns.
type Action interface {
	codec.Typed

	// Execute applies the action at [timestamp] (unix milliseconds). Any
	// error aborts the action and discards everything it wrote.
	Execute(
		ctx context.Context,
		mu state.Mutable,
		timestamp int64,
		actor codec.Address,
	) (codec.Typed, error)
}

// Seconds converts a millisecond timestamp to the ledger time used by
// contracts.
func Seconds(timestamp int64) uint64 {
	if timestamp < 0 {
		return 0
	}
	return uint64(timestamp / consts.MillisecondsPerSecond)
}
