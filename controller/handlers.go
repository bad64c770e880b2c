// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"net/http"

	"github.com/ava-labs/phoenixvm/rpc"
	"github.com/ava-labs/phoenixvm/server"
)

// Handlers returns the APIs of the controller keyed by endpoint.
func (c *Controller) Handlers() (map[string]http.Handler, error) {
	jsonRPCHandler, err := server.NewHandler(rpc.NewJSONRPCServer(c), rpc.Name)
	if err != nil {
		return nil, err
	}
	return map[string]http.Handler{
		rpc.JSONRPCEndpoint:   jsonRPCHandler,
		rpc.WebSocketEndpoint: c.events,
	}, nil
}

// Register adds every handler of the controller to [s] under [rpc.APIBase].
func (c *Controller) Register(s server.PathAdder) error {
	handlers, err := c.Handlers()
	if err != nil {
		return err
	}
	for endpoint, handler := range handlers {
		if err := s.AddRoute(handler, rpc.APIBase, endpoint); err != nil {
			return err
		}
	}
	return nil
}
