// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/database"
	"github.com/near/borsh-go"

	"github.com/ava-labs/phoenixvm/state"
)

// Records are borsh encoded. Amounts are kept as base 10 strings since
// borsh has no signed 128 bit type.

func getRecord[T any](ctx context.Context, im state.Immutable, key []byte) (T, bool, error) {
	var r T
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return r, false, nil
	}
	if err != nil {
		return r, false, err
	}
	if err := borsh.Deserialize(&r, v); err != nil {
		return r, false, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	return r, true, nil
}

func putRecord(ctx context.Context, mu state.Mutable, key []byte, r any) error {
	v, err := borsh.Serialize(r)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, key, v)
}

func encodeInt(v math.Int) string {
	if v.IsNil() {
		return "0"
	}
	return v.String()
}

func decodeInt(s string) (math.Int, error) {
	if s == "" {
		return math.ZeroInt(), nil
	}
	v, ok := math.NewIntFromString(s)
	if !ok {
		return math.Int{}, fmt.Errorf("%w: amount %q", ErrCorruptRecord, s)
	}
	return v, nil
}

func decodeInts(s ...string) ([]math.Int, error) {
	out := make([]math.Int, len(s))
	for i, v := range s {
		d, err := decodeInt(v)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// getInt reads a bare amount. A missing key is zero.
func getInt(ctx context.Context, im state.Immutable, key []byte) (math.Int, error) {
	s, _, err := getRecord[string](ctx, im, key)
	if err != nil {
		return math.Int{}, err
	}
	return decodeInt(s)
}

func putInt(ctx context.Context, mu state.Mutable, key []byte, v math.Int) error {
	return putRecord(ctx, mu, key, encodeInt(v))
}
