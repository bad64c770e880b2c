// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import "errors"

var (
	ErrClosed          = errors.New("controller closed")
	ErrGenesisMismatch = errors.New("state initialized from a different genesis")
)
