// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package decimal

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
)

var fractional256 = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(Places))

// Decimal256 is the unsigned 256-bit variant of [Decimal] used by the
// stable pool, where D and the scaled reserves outgrow 128 bits.
type Decimal256 struct {
	v uint256.Int
}

func One256() Decimal256 { return Decimal256{v: *fractional256} }

// FromAtomics256 builds a decimal from raw atomics with [places] fractional
// digits.
func FromAtomics256(atomics *uint256.Int, places uint32) (Decimal256, error) {
	v, err := ScaleValue(atomics, places, Places)
	if err != nil {
		return Decimal256{}, err
	}
	return Decimal256{v: *v}, nil
}

// FromRatio256 returns num/den truncated to [Places] digits.
func FromRatio256(num, den *uint256.Int) (Decimal256, error) {
	if den.IsZero() {
		return Decimal256{}, ErrDivideByZero
	}
	v, overflow := new(uint256.Int).MulDivOverflow(num, fractional256, den)
	if overflow {
		return Decimal256{}, fmt.Errorf("%w: ratio %s/%s", ErrOverflow, num, den)
	}
	return Decimal256{v: *v}, nil
}

func (x Decimal256) Atomics() *uint256.Int { return x.v.Clone() }

func (x Decimal256) Add(y Decimal256) (Decimal256, error) {
	v, overflow := new(uint256.Int).AddOverflow(&x.v, &y.v)
	if overflow {
		return Decimal256{}, ErrOverflow
	}
	return Decimal256{v: *v}, nil
}

func (x Decimal256) Sub(y Decimal256) (Decimal256, error) {
	v, underflow := new(uint256.Int).SubOverflow(&x.v, &y.v)
	if underflow {
		return Decimal256{}, ErrUnderflow
	}
	return Decimal256{v: *v}, nil
}

func (x Decimal256) Mul(y Decimal256) (Decimal256, error) {
	v, overflow := new(uint256.Int).MulDivOverflow(&x.v, &y.v, fractional256)
	if overflow {
		return Decimal256{}, ErrOverflow
	}
	return Decimal256{v: *v}, nil
}

func (x Decimal256) Div(y Decimal256) (Decimal256, error) {
	if y.v.IsZero() {
		return Decimal256{}, ErrDivideByZero
	}
	v, overflow := new(uint256.Int).MulDivOverflow(&x.v, fractional256, &y.v)
	if overflow {
		return Decimal256{}, ErrOverflow
	}
	return Decimal256{v: *v}, nil
}

// ToU128WithPrecision rescales the atomics to [precision] digits and
// rejects results that do not fit 128 bits.
func (x Decimal256) ToU128WithPrecision(precision uint32) (*uint256.Int, error) {
	v, err := ScaleValue(&x.v, Places, precision)
	if err != nil {
		return nil, err
	}
	if v.BitLen() > 128 {
		return nil, fmt.Errorf("%w: %s exceeds u128", ErrOverflow, v)
	}
	return v, nil
}

func (x Decimal256) Equal(y Decimal256) bool { return x.v.Eq(&y.v) }
func (x Decimal256) IsZero() bool            { return x.v.IsZero() }
func (x Decimal256) String() string {
	return math.LegacyNewDecFromBigIntWithPrec(x.v.ToBig(), Places).String()
}

// ScaleValue moves [value] from [from] decimal places to [to] decimal
// places. Scaling down truncates.
func ScaleValue(value *uint256.Int, from, to uint32) (*uint256.Int, error) {
	switch {
	case from == to:
		return value.Clone(), nil
	case from > to:
		return new(uint256.Int).Div(value, pow10(from-to)), nil
	default:
		v, overflow := new(uint256.Int).MulOverflow(value, pow10(to-from))
		if overflow {
			return nil, fmt.Errorf("%w: scaling %s by 10^%d", ErrOverflow, value, to-from)
		}
		return v, nil
	}
}

// ToUint256 converts a non-negative amount into its 256-bit form.
func ToUint256(v math.Int) (*uint256.Int, error) {
	if v.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount %s", ErrUnderflow, v)
	}
	u, overflow := uint256.FromBig(v.BigInt())
	if overflow {
		return nil, ErrOverflow
	}
	return u, nil
}

// FromUint256 converts back to a signed amount, rejecting values above the
// signed 128-bit range.
func FromUint256(v *uint256.Int) (math.Int, error) {
	i := math.NewIntFromBigInt(v.ToBig())
	if err := CheckI128(i); err != nil {
		return math.Int{}, err
	}
	return i, nil
}

func pow10(n uint32) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n)))
}
