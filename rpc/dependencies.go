// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"

	"github.com/ava-labs/phoenixvm/actions"
	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/state"
	"github.com/ava-labs/phoenixvm/workers"
)

type Controller interface {
	State() state.Immutable
	Runtime() *actions.Runtime
	Tracer() trace.Tracer
	Workers() workers.Pool
	Now() int64
	Executed() uint64
	Submit(ctx context.Context, s *chain.Submission) (*chain.Result, error)
}
