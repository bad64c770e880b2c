// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

type Shape uint8

const (
	ShapeConstant Shape = iota
	ShapeIncreasing
	ShapeDecreasing
	ShapeNotMonotonic
)

// Shape classifies the curve by scanning consecutive values.
func (c Curve) Shape() Shape {
	switch c.Kind {
	case SaturatingLinearKind:
		return direction(c.MinY.BigInt().Cmp(c.MaxY.BigInt()), ShapeConstant)
	case PiecewiseLinearKind:
		shape := ShapeConstant
		for i := 1; i < len(c.Steps); i++ {
			shape = direction(c.Steps[i-1].Value.BigInt().Cmp(c.Steps[i].Value.BigInt()), shape)
			if shape == ShapeNotMonotonic {
				return shape
			}
		}
		return shape
	default:
		return ShapeConstant
	}
}

// direction folds the comparison of two consecutive values into the shape
// seen so far.
func direction(cmp int, seen Shape) Shape {
	var next Shape
	switch {
	case cmp < 0:
		next = ShapeIncreasing
	case cmp > 0:
		next = ShapeDecreasing
	default:
		return seen
	}
	if seen == ShapeConstant || seen == next {
		return next
	}
	return ShapeNotMonotonic
}

func (c Curve) ValidateMonotonicIncreasing() error {
	switch c.Shape() {
	case ShapeNotMonotonic:
		return ErrNotMonotonic
	case ShapeDecreasing:
		return ErrMonotonicDecreasing
	default:
		return nil
	}
}

func (c Curve) ValidateMonotonicDecreasing() error {
	switch c.Shape() {
	case ShapeNotMonotonic:
		return ErrNotMonotonic
	case ShapeIncreasing:
		return ErrMonotonicIncreasing
	default:
		return nil
	}
}
