// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "github.com/ava-labs/phoenixvm/consts"

const (
	Name              = consts.Name
	APIBase           = "ext"
	JSONRPCEndpoint   = "/phoenixapi"
	WebSocketEndpoint = "/events"
	MetricsEndpoint   = "/metrics"

	// MaxSimulations bounds a single SimulateSwaps request.
	MaxSimulations = 256
)
