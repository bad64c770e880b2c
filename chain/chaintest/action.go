// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chaintest runs actions through chain.Execute in tests.
package chaintest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/state"
)

// ActionTest executes Action against State. State is shared across the
// cases of a table, so later cases see what earlier successful cases
// committed. A failing case must leave State untouched.
type ActionTest struct {
	Name string

	Action chain.Action

	State     state.Database
	Timestamp int64
	Actor     codec.Address

	ExpectedOutputs codec.Typed
	ExpectedErr     error

	Assertion func(context.Context, *testing.T, state.Immutable)
}

func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		result, err := chain.Execute(ctx, test.State, test.Action, test.Timestamp, test.Actor)
		require.ErrorIs(err, test.ExpectedErr)
		switch {
		case test.ExpectedErr == nil:
			require.True(result.Success, result.Error)
			if test.ExpectedOutputs != nil {
				require.Equal(test.ExpectedOutputs, result.Output)
			}
		case result != nil:
			require.False(result.Success)
			require.Zero(result.Changes)
		}
		if test.Assertion != nil {
			test.Assertion(ctx, t, test.State)
		}
	})
}

// ActionBenchmark executes Action on a fresh state per iteration.
type ActionBenchmark struct {
	Name   string
	Action chain.Action

	CreateState func() state.Database
	Timestamp   int64
	Actor       codec.Address

	ExpectedErr error
}

func (test *ActionBenchmark) Run(ctx context.Context, b *testing.B) {
	b.Run(test.Name, func(b *testing.B) {
		require := require.New(b)

		states := make([]state.Database, b.N)
		for i := range states {
			states[i] = test.CreateState()
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, err := chain.Execute(ctx, states[i], test.Action, test.Timestamp, test.Actor)
			require.ErrorIs(err, test.ExpectedErr)
		}
	})
}
