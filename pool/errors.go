// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrPoolExists      = errors.New("pool already exists")
	ErrTokensNotSorted = errors.New("token a must be less than token b")
	ErrWrongPoolKind   = errors.New("wrong pool kind")
)
