// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ava-labs/phoenixvm/chain"
	"github.com/ava-labs/phoenixvm/pubsub"
)

// WebSocketClient reads the events a node publishes after every executed
// submission.
type WebSocketClient struct {
	conn    *websocket.Conn
	maxSize int

	lock    sync.Mutex
	pending [][]byte

	writeLock sync.Mutex

	cl sync.Once
}

// NewWebSocketClient dials the event stream of the node at [uri], an http
// or ws url of the node root.
func NewWebSocketClient(uri string, maxSize int) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri = strings.Replace(uri, "http", "ws", 1)
	uri += "/" + APIBase + WebSocketEndpoint
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return &WebSocketClient{conn: conn, maxSize: maxSize}, nil
}

// Subscribe limits the stream to events of the named actions. Calling it
// without names restores the full stream.
func (c *WebSocketClient) Subscribe(actions ...string) error {
	topics := [][]byte{{}}
	for _, name := range actions {
		topics = append(topics, []byte(name))
	}
	frame, err := pubsub.CreateBatchMessage(topics)
	if err != nil {
		return err
	}
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	return c.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// ListenEvent blocks until the next event arrives.
func (c *WebSocketClient) ListenEvent() (*chain.Event, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for len(c.pending) == 0 {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		msgs, err := pubsub.ParseBatchMessage(c.maxSize, msg)
		if err != nil {
			return nil, err
		}
		c.pending = msgs
	}
	next := c.pending[0]
	c.pending = c.pending[1:]
	if len(next) == 0 {
		return nil, ErrEventMissing
	}
	var e chain.Event
	if err := json.Unmarshal(next, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		err = c.conn.Close()
	})
	return err
}
