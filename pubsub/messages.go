// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"fmt"

	"github.com/near/borsh-go"
)

// BatchMessage is the frame written to a connection. Each entry is one
// published message.
type BatchMessage struct {
	Messages [][]byte
}

func CreateBatchMessage(msgs [][]byte) ([]byte, error) {
	return borsh.Serialize(BatchMessage{Messages: msgs})
}

func ParseBatchMessage(maxSize int, msg []byte) ([][]byte, error) {
	if len(msg) > maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(msg), maxSize)
	}
	var batch BatchMessage
	if err := borsh.Deserialize(&batch, msg); err != nil {
		return nil, err
	}
	return batch.Messages, nil
}
