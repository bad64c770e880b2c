// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrConfigNotSet       = errors.New("config not set")
	ErrCorruptRecord      = errors.New("corrupt record")
	ErrIdenticalAddresses = errors.New("identical addresses")
)
