// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/phoenixvm/curve"
)

type stepRecord struct {
	Time  uint64
	Value string
}

type curveRecord struct {
	Kind  uint8
	Y     string
	MinX  uint64
	MinY  string
	MaxX  uint64
	MaxY  string
	Steps []stepRecord
}

func newCurveRecord(c curve.Curve) curveRecord {
	r := curveRecord{Kind: uint8(c.Kind)}
	switch c.Kind {
	case curve.ConstantKind:
		r.Y = encodeInt(c.Y)
	case curve.SaturatingLinearKind:
		r.MinX, r.MinY = c.MinX, encodeInt(c.MinY)
		r.MaxX, r.MaxY = c.MaxX, encodeInt(c.MaxY)
	case curve.PiecewiseLinearKind:
		r.Steps = make([]stepRecord, len(c.Steps))
		for i, s := range c.Steps {
			r.Steps[i] = stepRecord{Time: s.Time, Value: encodeInt(s.Value)}
		}
	}
	return r
}

func (r curveRecord) curve() (curve.Curve, error) {
	switch curve.Kind(r.Kind) {
	case curve.ConstantKind:
		y, err := decodeInt(r.Y)
		if err != nil {
			return curve.Curve{}, err
		}
		return curve.Constant(y), nil
	case curve.SaturatingLinearKind:
		v, err := decodeInts(r.MinY, r.MaxY)
		if err != nil {
			return curve.Curve{}, err
		}
		return curve.SaturatingLinear(r.MinX, v[0], r.MaxX, v[1]), nil
	case curve.PiecewiseLinearKind:
		steps := make([]curve.Step, len(r.Steps))
		for i, s := range r.Steps {
			v, err := decodeInt(s.Value)
			if err != nil {
				return curve.Curve{}, err
			}
			steps[i] = curve.Step{Time: s.Time, Value: v}
		}
		return curve.PiecewiseLinear(steps), nil
	default:
		return curve.Curve{}, ErrCorruptRecord
	}
}
