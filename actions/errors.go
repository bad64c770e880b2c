// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "errors"

var (
	ErrNotTokenOwner = errors.New("actor is not token owner")
	ErrUnbound       = errors.New("action is not bound to a runtime")
	ErrInvalidAction = errors.New("invalid action payload")
)
