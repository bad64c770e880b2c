// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/stretchr/testify/require"
)

type echo struct{}

type EchoArgs struct {
	Message string `json:"message"`
}

type EchoReply struct {
	Message string `json:"message"`
}

func (echo) Echo(_ *http.Request, args *EchoArgs, reply *EchoReply) error {
	reply.Message = args.Message
	return nil
}

func TestServerRoutes(t *testing.T) {
	require := require.New(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)

	s := New(logging.NoLog{}, listener, Config{
		AllowedOrigins:    []string{"*"},
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	})
	require.NoError(s.AddRoute(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("pong"))
	}), "ext", "/ping"))
	handler, err := NewHandler(echo{}, "test")
	require.NoError(err)
	require.NoError(s.AddRoute(handler, "ext", "/echo"))
	require.Equal([]string{"/ext/ping", "/ext/echo"}, s.Routes())

	done := make(chan error, 1)
	go func() { done <- s.Dispatch() }()
	base := "http://" + listener.Addr().String()

	resp, err := http.Get(base + "/ext/ping")
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusAccepted, resp.StatusCode)
	require.Equal("pong", string(body))

	var reply EchoReply
	requester := rpc.NewEndpointRequester(base + "/ext/echo")
	require.NoError(requester.SendRequest(context.Background(), "test.echo", &EchoArgs{Message: "hi"}, &reply))
	require.Equal("hi", reply.Message)

	resp, err = http.Get(base + "/ext/missing")
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusNotFound, resp.StatusCode)

	require.NoError(s.Shutdown())
	require.ErrorIs(<-done, http.ErrServerClosed)
}
