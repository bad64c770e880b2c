// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import "errors"

var (
	ErrNotMonotonic        = errors.New("curve is not monotonic")
	ErrMonotonicIncreasing = errors.New("curve is monotonic increasing")
	ErrMonotonicDecreasing = errors.New("curve is monotonic decreasing")
	ErrPointsOutOfOrder    = errors.New("curve points out of order")
	ErrMissingSteps        = errors.New("piecewise curve has no steps")
	ErrTooComplex          = errors.New("curve is too complex")
	ErrUnknownKind         = errors.New("unknown curve kind")
	ErrMissingValue        = errors.New("curve value not set")
	ErrNegativeValue       = errors.New("curve value is negative")
)
