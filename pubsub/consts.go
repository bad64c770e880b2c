// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/units"
)

type ServerConfig struct {
	ReadBufferSize     int           `json:"readBufferSize"`
	WriteBufferSize    int           `json:"writeBufferSize"`
	WriteWait          time.Duration `json:"writeWait"`
	PongWait           time.Duration `json:"pongWait"`
	PingPeriod         time.Duration `json:"pingPeriod"`
	MaxPendingMessages int           `json:"maxPendingMessages"`
	MaxReadMessageSize int           `json:"maxReadMessageSize"`

	// Messages are batched until MaxWriteMessageSize is reached or
	// WriteBatchTimeout passes since the first pending message.
	MaxWriteMessageSize int           `json:"maxWriteMessageSize"`
	WriteBatchTimeout   time.Duration `json:"writeBatchTimeout"`
}

func NewDefaultServerConfig() ServerConfig {
	pongWait := 60 * time.Second
	return ServerConfig{
		ReadBufferSize:      units.KiB,
		WriteBufferSize:     units.KiB,
		WriteWait:           10 * time.Second,
		PongWait:            pongWait,
		PingPeriod:          (pongWait * 9) / 10,
		MaxPendingMessages:  1_024,
		MaxReadMessageSize:  256 * units.KiB,
		MaxWriteMessageSize: 256 * units.KiB,
		WriteBatchTimeout:   50 * time.Millisecond,
	}
}
