// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/phoenixvm/state"
)

// SetGenesisID records the hash of the genesis applied to the state.
func SetGenesisID(ctx context.Context, mu state.Mutable, id ids.ID) error {
	return mu.Insert(ctx, GenesisKey(), id[:])
}

// GetGenesisID returns false if no genesis was applied.
func GetGenesisID(ctx context.Context, im state.Immutable) (ids.ID, bool, error) {
	v, err := im.GetValue(ctx, GenesisKey())
	if errors.Is(err, database.ErrNotFound) {
		return ids.Empty, false, nil
	}
	if err != nil {
		return ids.Empty, false, err
	}
	id, err := ids.ToID(v)
	if err != nil {
		return ids.Empty, false, ErrCorruptRecord
	}
	return id, true, nil
}
