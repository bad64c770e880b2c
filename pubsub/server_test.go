// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, s *Server) *websocket.Conn {
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return s.Subscribers() > 0 }, time.Second, 10*time.Millisecond)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) [][]byte {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	msgs, err := ParseBatchMessage(NewDefaultServerConfig().MaxReadMessageSize, raw)
	require.NoError(t, err)
	return msgs
}

func subscribe(t *testing.T, conn *websocket.Conn, topics ...string) {
	msgs := make([][]byte, len(topics))
	for i, topic := range topics {
		msgs[i] = []byte(topic)
	}
	frame, err := CreateBatchMessage(msgs)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, frame))
}

// wants reports whether every subscriber of [s] accepts [topic].
func wants(s *Server, topic string) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for sub := range s.subs {
		if !sub.wants(topic) {
			return false
		}
	}
	return true
}

func TestPublishBatches(t *testing.T) {
	require := require.New(t)
	s := New(logging.NoLog{}, NewDefaultServerConfig())
	conn := dial(t, s)

	require.Equal(1, s.Publish("swap", []byte("first")))
	require.Equal(1, s.Publish("bond", []byte("second")))
	require.Equal([][]byte{[]byte("first"), []byte("second")}, readFrame(t, conn))
}

func TestSubscribeFiltersTopics(t *testing.T) {
	require := require.New(t)
	s := New(logging.NoLog{}, NewDefaultServerConfig())
	conn := dial(t, s)

	subscribe(t, conn, "swap")
	require.Eventually(func() bool { return !wants(s, "bond") }, 5*time.Second, 10*time.Millisecond)
	require.Zero(s.Publish("bond", []byte("ignored")))
	require.Equal(1, s.Publish("swap", []byte("quote")))
	require.Equal([][]byte{[]byte("quote")}, readFrame(t, conn))

	// An empty topic resets the filter.
	subscribe(t, conn, "")
	require.Eventually(func() bool { return wants(s, "bond") }, 5*time.Second, 10*time.Millisecond)
	require.Equal(1, s.Publish("bond", []byte("bonded")))
	require.Equal([][]byte{[]byte("bonded")}, readFrame(t, conn))
}

func TestDisconnectRemovesSubscriber(t *testing.T) {
	s := New(logging.NoLog{}, NewDefaultServerConfig())
	conn := dial(t, s)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return s.Subscribers() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestCloseFlushesAndRefuses(t *testing.T) {
	require := require.New(t)
	cfg := NewDefaultServerConfig()
	cfg.WriteBatchTimeout = time.Hour
	s := New(logging.NoLog{}, cfg)
	conn := dial(t, s)

	require.Equal(1, s.Publish("swap", []byte("last")))
	s.Close()
	require.Zero(s.Subscribers())
	require.Equal([][]byte{[]byte("last")}, readFrame(t, conn))
	require.Zero(s.Publish("swap", []byte("late")))
}

func TestBatcherLimits(t *testing.T) {
	require := require.New(t)
	b := newBatcher(logging.NoLog{}, 4, 8, time.Hour)
	require.ErrorIs(b.add(make([]byte, 9)), ErrMessageTooLarge)

	// The second message does not fit and cuts the first frame.
	require.NoError(b.add([]byte("12345")))
	require.NoError(b.add([]byte("6789")))
	msgs, err := ParseBatchMessage(1_024, <-b.frames)
	require.NoError(err)
	require.Equal([][]byte{[]byte("12345")}, msgs)

	require.NoError(b.close())
	msgs, err = ParseBatchMessage(1_024, <-b.frames)
	require.NoError(err)
	require.Equal([][]byte{[]byte("6789")}, msgs)
	_, ok := <-b.frames
	require.False(ok)

	require.ErrorIs(b.close(), ErrClosed)
	require.ErrorIs(b.add([]byte("x")), ErrClosed)

	_, err = ParseBatchMessage(1, []byte("too long"))
	require.ErrorIs(err, ErrMessageTooLarge)
}

func TestBatcherFlushesAfterDelay(t *testing.T) {
	require := require.New(t)
	b := newBatcher(logging.NoLog{}, 4, 1_024, 10*time.Millisecond)
	defer func() { _ = b.close() }()

	require.NoError(b.add([]byte("tick")))
	select {
	case frame := <-b.frames:
		msgs, err := ParseBatchMessage(1_024, frame)
		require.NoError(err)
		require.Equal([][]byte{[]byte("tick")}, msgs)
	case <-time.After(5 * time.Second):
		require.FailNow("frame not flushed")
	}
}
