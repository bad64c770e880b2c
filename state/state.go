// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/maybe"
)

// Immutable is a read-only view of state. Missing keys return
// database.ErrNotFound.
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the durable layer under a [SimpleMutable]. WriteChanges must
// apply all changes or none of them; a Nothing value removes the key.
type Database interface {
	Immutable

	WriteChanges(ctx context.Context, changes map[string]maybe.Maybe[[]byte]) error
	Close() error
}
