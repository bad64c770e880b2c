// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/phoenixvm/codec"
	"github.com/ava-labs/phoenixvm/state"
)

// Result records the outcome of one action.
type Result struct {
	TypeID  uint8       `json:"typeID"`
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Output  codec.Typed `json:"output,omitempty"`
	Changes int         `json:"changes"`
}

// RawOutput is an action output decoded without knowing its Go type.
type RawOutput struct {
	TypeID uint8
	Raw    json.RawMessage
}

func (o *RawOutput) GetTypeID() uint8 { return o.TypeID }

func (o *RawOutput) MarshalJSON() ([]byte, error) { return o.Raw, nil }

// UnmarshalJSON keeps the output of [r] as a [RawOutput].
func (r *Result) UnmarshalJSON(b []byte) error {
	type result Result
	var v struct {
		result
		Output json.RawMessage `json:"output,omitempty"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = Result(v.result)
	if len(v.Output) > 0 && string(v.Output) != "null" {
		r.Output = &RawOutput{TypeID: r.TypeID, Raw: v.Output}
	}
	return nil
}

// Event reports an executed action to subscribers.
type Event struct {
	ID        ids.ID        `json:"id"`
	Actor     codec.Address `json:"actor"`
	Action    string        `json:"action"`
	Timestamp int64         `json:"timestamp"`
	Result    *Result       `json:"result"`
}

// Execute runs [action] on an overlay of [db]. The overlay is committed
// only if the action succeeds, so a failed action leaves [db] untouched.
func Execute(
	ctx context.Context,
	db state.Database,
	action Action,
	timestamp int64,
	actor codec.Address,
) (*Result, error) {
	if actor == codec.EmptyAddress {
		return nil, ErrInvalidActor
	}
	if timestamp < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTimestamp, timestamp)
	}
	mu := state.NewSimpleMutable(db)
	output, err := action.Execute(ctx, mu, timestamp, actor)
	if err != nil {
		return &Result{TypeID: action.GetTypeID(), Error: err.Error()}, err
	}
	changes := mu.Len()
	if err := mu.Commit(ctx); err != nil {
		return nil, err
	}
	return &Result{
		TypeID:  action.GetTypeID(),
		Success: true,
		Output:  output,
		Changes: changes,
	}, nil
}
