// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer"
	"go.uber.org/zap"
)

// batcher groups the outgoing messages of one subscriber into frames. A
// frame is cut when the next message would exceed [maxSize] or [delay]
// after its first message.
type batcher struct {
	frames chan []byte

	log     logging.Logger
	maxSize int
	delay   time.Duration

	lock    sync.Mutex
	pending [][]byte
	size    int
	timer   *timer.Timer
	closed  bool
}

func newBatcher(log logging.Logger, maxFrames int, maxSize int, delay time.Duration) *batcher {
	b := &batcher{
		frames:  make(chan []byte, maxFrames),
		log:     log,
		maxSize: maxSize,
		delay:   delay,
	}
	b.timer = timer.NewTimer(func() {
		b.lock.Lock()
		defer b.lock.Unlock()

		if !b.closed {
			b.flush()
		}
	})
	go b.timer.Dispatch()
	return b
}

func (b *batcher) add(msg []byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	switch {
	case b.closed:
		return ErrClosed
	case len(msg) > b.maxSize:
		return ErrMessageTooLarge
	}
	if b.size+len(msg) > b.maxSize {
		b.timer.Cancel()
		b.flush()
	}
	b.pending = append(b.pending, msg)
	b.size += len(msg)
	if len(b.pending) == 1 {
		b.timer.SetTimeoutIn(b.delay)
	}
	return nil
}

// flush cuts a frame from the pending messages. A frame that does not fit
// the queue is dropped.
func (b *batcher) flush() {
	if len(b.pending) == 0 {
		return
	}
	count := len(b.pending)
	frame, err := CreateBatchMessage(b.pending)
	b.pending, b.size = nil, 0
	if err != nil {
		b.log.Warn("failed to encode frame", zap.Error(err))
		return
	}
	select {
	case b.frames <- frame:
		b.log.Debug("queued frame", zap.Int("messages", count))
	default:
		b.log.Debug("dropped frame", zap.Int("messages", count))
	}
}

// close flushes the pending messages and closes frames. The reader of
// frames sees the last frame before the close.
func (b *batcher) close() error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.closed {
		return ErrClosed
	}
	b.flush()
	b.timer.Stop()
	b.closed = true
	close(b.frames)
	return nil
}
