// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"io"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type subscriber struct {
	s    *Server
	conn *websocket.Conn
	out  *batcher

	lock   sync.RWMutex
	topics set.Set[string]

	stopOnce sync.Once
}

func newSubscriber(s *Server, conn *websocket.Conn) *subscriber {
	return &subscriber{
		s:    s,
		conn: conn,
		out: newBatcher(
			s.log,
			s.config.MaxPendingMessages,
			s.config.MaxWriteMessageSize,
			s.config.WriteBatchTimeout,
		),
	}
}

// wants reports whether [topic] passes the filter. No filter passes
// everything.
func (c *subscriber) wants(topic string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.topics.Len() == 0 || c.topics.Contains(topic)
}

func (c *subscriber) subscribe(topics [][]byte) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for _, t := range topics {
		if len(t) == 0 {
			c.topics.Clear()
			continue
		}
		c.topics.Add(string(t))
	}
}

func (c *subscriber) send(msg []byte) error {
	return c.out.add(msg)
}

// stop flushes what is pending. The write loop exits once the flushed frames
// are written.
func (c *subscriber) stop() {
	c.stopOnce.Do(func() {
		_ = c.out.close()
	})
}

func (c *subscriber) disconnect() {
	c.s.remove(c)
	c.stop()
	_ = c.conn.Close()
}

// readLoop is the only reader of the connection. Inbound frames update the
// topic filter.
func (c *subscriber) readLoop() {
	defer c.disconnect()

	cfg := c.s.config
	c.conn.SetReadLimit(int64(cfg.MaxReadMessageSize))
	if err := c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})
	for {
		_, r, err := c.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.s.log.Debug("unexpected close", zap.Error(err))
			}
			return
		}
		raw, err := io.ReadAll(r)
		if err != nil {
			c.s.log.Debug("failed to read frame", zap.Error(err))
			return
		}
		topics, err := ParseBatchMessage(cfg.MaxReadMessageSize, raw)
		if err != nil {
			c.s.log.Debug("invalid subscription frame", zap.Error(err))
			return
		}
		c.subscribe(topics)
	}
}

// writeLoop is the only writer of the connection.
func (c *subscriber) writeLoop() {
	cfg := c.s.config
	ping := time.NewTicker(cfg.PingPeriod)
	defer func() {
		ping.Stop()
		c.disconnect()
	}()

	write := func(kind int, data []byte) bool {
		if err := c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait)); err != nil {
			c.s.log.Debug("failed to set write deadline", zap.Error(err))
			return false
		}
		if err := c.conn.WriteMessage(kind, data); err != nil {
			c.s.log.Debug("failed to write", zap.Error(err))
			return false
		}
		return true
	}
	for {
		select {
		case frame, ok := <-c.out.frames:
			if !ok {
				_ = write(websocket.CloseMessage, nil)
				return
			}
			if !write(websocket.BinaryMessage, frame) {
				return
			}
		case <-ping.C:
			if !write(websocket.PingMessage, nil) {
				return
			}
		}
	}
}
