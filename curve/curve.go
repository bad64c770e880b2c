// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package curve implements value-over-time functions used to schedule the
// release of rewards and vested tokens.
package curve

import (
	"fmt"
	"sort"

	"cosmossdk.io/math"
)

type Kind uint8

const (
	ConstantKind Kind = iota
	SaturatingLinearKind
	PiecewiseLinearKind
)

func (k Kind) String() string {
	switch k {
	case ConstantKind:
		return "constant"
	case SaturatingLinearKind:
		return "saturating_linear"
	case PiecewiseLinearKind:
		return "piecewise_linear"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Step is a single breakpoint of a piecewise linear curve.
type Step struct {
	Time  uint64
	Value math.Int
}

// Curve is an immutable function of time. Only the fields matching Kind are
// meaningful:
//   - ConstantKind uses Y
//   - SaturatingLinearKind uses MinX, MinY, MaxX and MaxY
//   - PiecewiseLinearKind uses Steps
type Curve struct {
	Kind Kind

	Y math.Int

	MinX uint64
	MinY math.Int
	MaxX uint64
	MaxY math.Int

	Steps []Step
}

func Constant(y math.Int) Curve {
	return Curve{Kind: ConstantKind, Y: y}
}

// SaturatingLinear is [minY] until [minX], moves linearly to [maxY] at
// [maxX] and stays there afterwards.
func SaturatingLinear(minX uint64, minY math.Int, maxX uint64, maxY math.Int) Curve {
	return Curve{
		Kind: SaturatingLinearKind,
		MinX: minX,
		MinY: minY,
		MaxX: maxX,
		MaxY: maxY,
	}
}

func PiecewiseLinear(steps []Step) Curve {
	return Curve{Kind: PiecewiseLinearKind, Steps: append([]Step(nil), steps...)}
}

// Value evaluates the curve at [x].
func (c Curve) Value(x uint64) math.Int {
	switch c.Kind {
	case SaturatingLinearKind:
		switch {
		case x < c.MinX:
			return c.MinY
		case x > c.MaxX:
			return c.MaxY
		default:
			return interpolate(c.MinX, c.MinY, c.MaxX, c.MaxY, x)
		}
	case PiecewiseLinearKind:
		return c.piecewiseValue(x)
	default:
		return c.Y
	}
}

func (c Curve) piecewiseValue(x uint64) math.Int {
	first, last := c.Steps[0], c.Steps[len(c.Steps)-1]
	if x <= first.Time {
		return first.Value
	}
	if x >= last.Time {
		return last.Value
	}
	// Index of the first step strictly after x. It exists and is > 0 since
	// first.Time < x < last.Time.
	i := sort.Search(len(c.Steps), func(i int) bool { return c.Steps[i].Time > x })
	prev, next := c.Steps[i-1], c.Steps[i]
	if prev.Time == x {
		return prev.Value
	}
	return interpolate(prev.Time, prev.Value, next.Time, next.Value, x)
}

// interpolate assumes x1 <= x <= x2 and x1 < x2.
func interpolate(x1 uint64, y1 math.Int, x2 uint64, y2 math.Int, x uint64) math.Int {
	dx := math.NewIntFromUint64(x - x1)
	width := math.NewIntFromUint64(x2 - x1)
	if y2.GTE(y1) {
		return y1.Add(y2.Sub(y1).Mul(dx).Quo(width))
	}
	return y1.Sub(y1.Sub(y2).Mul(dx).Quo(width))
}

// Validate checks the structural invariants of the curve. Every value it
// uses must be set and non-negative.
func (c Curve) Validate() error {
	switch c.Kind {
	case ConstantKind:
		return validateValue("y", c.Y)
	case SaturatingLinearKind:
		if err := validateValue("min_y", c.MinY); err != nil {
			return err
		}
		if err := validateValue("max_y", c.MaxY); err != nil {
			return err
		}
		if c.MaxX <= c.MinX {
			return fmt.Errorf("%w: min_x %d >= max_x %d", ErrPointsOutOfOrder, c.MinX, c.MaxX)
		}
	case PiecewiseLinearKind:
		if len(c.Steps) == 0 {
			return ErrMissingSteps
		}
		for i, step := range c.Steps {
			if err := validateValue(fmt.Sprintf("step %d", i), step.Value); err != nil {
				return err
			}
			if i > 0 && step.Time <= c.Steps[i-1].Time {
				return fmt.Errorf("%w: step %d at %d", ErrPointsOutOfOrder, i, step.Time)
			}
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, c.Kind)
	}
	return nil
}

func validateValue(name string, v math.Int) error {
	switch {
	case v.IsNil():
		return fmt.Errorf("%w: %s", ErrMissingValue, name)
	case v.IsNegative():
		return fmt.Errorf("%w: %s is %s", ErrNegativeValue, name, v)
	default:
		return nil
	}
}

// ValidateComplexity returns [ErrTooComplex] if the curve has more than
// [limit] breakpoints.
func (c Curve) ValidateComplexity(limit uint32) error {
	if size := c.Size(); size > limit {
		return fmt.Errorf("%w: size %d > %d", ErrTooComplex, size, limit)
	}
	return nil
}

// Size is the number of breakpoints needed to describe the curve.
func (c Curve) Size() uint32 {
	switch c.Kind {
	case SaturatingLinearKind:
		return 2
	case PiecewiseLinearKind:
		return uint32(len(c.Steps))
	default:
		return 1
	}
}

// End returns the last x where the curve changes. Constant curves never
// end.
func (c Curve) End() (uint64, bool) {
	switch c.Kind {
	case SaturatingLinearKind:
		return c.MaxX, true
	case PiecewiseLinearKind:
		if len(c.Steps) == 0 {
			return 0, false
		}
		return c.Steps[len(c.Steps)-1].Time, true
	default:
		return 0, false
	}
}

// Range returns the lowest and highest value the curve takes.
func (c Curve) Range() (math.Int, math.Int) {
	switch c.Kind {
	case SaturatingLinearKind:
		return math.MinInt(c.MinY, c.MaxY), math.MaxInt(c.MinY, c.MaxY)
	case PiecewiseLinearKind:
		lo, hi := c.Steps[0].Value, c.Steps[0].Value
		for _, s := range c.Steps[1:] {
			lo = math.MinInt(lo, s.Value)
			hi = math.MaxInt(hi, s.Value)
		}
		return lo, hi
	default:
		return c.Y, c.Y
	}
}

// Equal compares curves by value.
func (c Curve) Equal(o Curve) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case SaturatingLinearKind:
		return c.MinX == o.MinX && c.MaxX == o.MaxX && c.MinY.Equal(o.MinY) && c.MaxY.Equal(o.MaxY)
	case PiecewiseLinearKind:
		if len(c.Steps) != len(o.Steps) {
			return false
		}
		for i := range c.Steps {
			if c.Steps[i].Time != o.Steps[i].Time || !c.Steps[i].Value.Equal(o.Steps[i].Value) {
				return false
			}
		}
		return true
	default:
		return c.Y.Equal(o.Y)
	}
}

func (c Curve) String() string {
	switch c.Kind {
	case SaturatingLinearKind:
		return fmt.Sprintf("saturating_linear((%d, %s) -> (%d, %s))", c.MinX, c.MinY, c.MaxX, c.MaxY)
	case PiecewiseLinearKind:
		return fmt.Sprintf("piecewise_linear(%d steps)", len(c.Steps))
	default:
		return fmt.Sprintf("constant(%s)", c.Y)
	}
}
