// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pubsub streams published messages to websocket subscribers.
//
// Every published message carries a topic. A subscriber receives every
// topic until it sends a frame of topic names, after which it only receives
// those. An empty topic name in a frame resets the subscriber to every
// topic. Frames in both directions are borsh encoded batches.
package pubsub

import (
	"net/http"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var _ http.Handler = (*Server)(nil)

// Server tracks subscribers and fans published messages out to them. Mount
// it on an HTTP route.
type Server struct {
	log      logging.Logger
	config   ServerConfig
	upgrader websocket.Upgrader

	lock   sync.RWMutex
	subs   set.Set[*subscriber]
	closed bool
}

func New(log logging.Logger, config ServerConfig) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP upgrades the request and starts serving the new subscriber.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade", zap.Error(err))
		return
	}
	sub := newSubscriber(s, conn)

	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		sub.stop()
		_ = conn.Close()
		return
	}
	s.subs.Add(sub)
	s.lock.Unlock()

	go sub.writeLoop()
	go sub.readLoop()
}

// Publish queues [msg] for every subscriber interested in [topic] and
// returns how many accepted it.
func (s *Server) Publish(topic string, msg []byte) int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sent := 0
	for sub := range s.subs {
		if !sub.wants(topic) {
			continue
		}
		if err := sub.send(msg); err != nil {
			s.log.Verbo("dropping message",
				zap.String("topic", topic),
				zap.Error(err),
			)
			continue
		}
		sent++
	}
	return sent
}

// Subscribers returns the number of live subscribers.
func (s *Server) Subscribers() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.subs.Len()
}

// Close flushes and disconnects every subscriber. Later connections are
// refused.
func (s *Server) Close() {
	s.lock.Lock()
	subs := s.subs.List()
	s.subs.Clear()
	s.closed = true
	s.lock.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

func (s *Server) remove(sub *subscriber) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.subs.Remove(sub)
}
