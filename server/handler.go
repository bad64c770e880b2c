// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"
)

var contentTypes = []string{
	"application/json",
	"application/json;charset=UTF-8",
}

// NewHandler serves the exported methods of [service] as JSON-RPC 2.0
// methods named [name].method.
func NewHandler(service any, name string) (http.Handler, error) {
	s := rpc.NewServer()
	codec := json.NewCodec()
	for _, contentType := range contentTypes {
		s.RegisterCodec(codec, contentType)
	}
	if err := s.RegisterService(service, name); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", name, err)
	}
	return s, nil
}
