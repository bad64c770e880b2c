// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"slices"

	"cosmossdk.io/math"
)

// Combine returns a curve whose value at every x is the sum of [c] and [o]
// at x. Neither input is modified.
func (c Curve) Combine(o Curve) Curve {
	switch {
	case c.Kind == ConstantKind && o.Kind == ConstantKind:
		return Constant(c.Y.Add(o.Y))
	case c.Kind == ConstantKind:
		return o.Shift(c.Y)
	case o.Kind == ConstantKind:
		return c.Shift(o.Y)
	default:
		return combinePiecewise(c.toPiecewise(), o.toPiecewise())
	}
}

// Shift moves the curve up by [amount].
func (c Curve) Shift(amount math.Int) Curve {
	switch c.Kind {
	case SaturatingLinearKind:
		return SaturatingLinear(c.MinX, c.MinY.Add(amount), c.MaxX, c.MaxY.Add(amount))
	case PiecewiseLinearKind:
		steps := make([]Step, len(c.Steps))
		for i, s := range c.Steps {
			steps[i] = Step{Time: s.Time, Value: s.Value.Add(amount)}
		}
		return Curve{Kind: PiecewiseLinearKind, Steps: steps}
	default:
		return Constant(c.Y.Add(amount))
	}
}

func (c Curve) toPiecewise() Curve {
	if c.Kind == SaturatingLinearKind {
		return Curve{
			Kind: PiecewiseLinearKind,
			Steps: []Step{
				{Time: c.MinX, Value: c.MinY},
				{Time: c.MaxX, Value: c.MaxY},
			},
		}
	}
	return c
}

func combinePiecewise(a, b Curve) Curve {
	times := make([]uint64, 0, len(a.Steps)+len(b.Steps))
	for _, s := range a.Steps {
		times = append(times, s.Time)
	}
	for _, s := range b.Steps {
		times = append(times, s.Time)
	}
	slices.Sort(times)
	times = slices.Compact(times)

	steps := make([]Step, len(times))
	for i, t := range times {
		steps[i] = Step{Time: t, Value: a.Value(t).Add(b.Value(t))}
	}
	return Curve{Kind: PiecewiseLinearKind, Steps: steps}
}
