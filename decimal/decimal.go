// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package decimal implements the 18 place fixed-point decimals used by the
// pricing and reward math. All operations round toward zero.
package decimal

import (
	"fmt"
	"math/big"

	"cosmossdk.io/math"
)

// Places is the number of fractional digits carried by [Decimal] and
// [Decimal256].
const Places = 18

var (
	fractional = math.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(Places), nil))

	// maxI128 bounds the atomics of a [Decimal] and the amounts moved by
	// the standard pools.
	maxI128 = math.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1)))
	minI128 = math.NewIntFromBigInt(new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127)))
)

// Decimal is a non-negative fixed-point number with [Places] fractional
// digits whose raw value fits a signed 128-bit integer.
type Decimal struct {
	d math.LegacyDec
}

func Zero() Decimal { return Decimal{d: math.LegacyZeroDec()} }

func One() Decimal { return Decimal{d: math.LegacyOneDec()} }

// FromAtomics builds a decimal from a raw integer with [places] fractional
// digits. Extra digits beyond [Places] are truncated.
func FromAtomics(atomics math.Int, places uint32) (Decimal, error) {
	if atomics.IsNegative() {
		return Decimal{}, fmt.Errorf("%w: negative atomics %s", ErrUnderflow, atomics)
	}
	raw, err := rescale(atomics, places, Places)
	if err != nil {
		return Decimal{}, err
	}
	return fromRaw(raw.BigInt())
}

// FromRatio returns num/den truncated to [Places] digits.
func FromRatio(num, den math.Int) (Decimal, error) {
	if den.IsZero() {
		return Decimal{}, ErrDivideByZero
	}
	if num.IsNegative() || den.IsNegative() {
		return Decimal{}, fmt.Errorf("%w: negative ratio %s/%s", ErrUnderflow, num, den)
	}
	raw := new(big.Int).Mul(num.BigInt(), fractional.BigInt())
	return fromRaw(raw.Quo(raw, den.BigInt()))
}

// Bps returns x/10_000.
func Bps(x int64) Decimal { return mustFromPrec(x, 4) }

// Percent returns x/100.
func Percent(x int64) Decimal { return mustFromPrec(x, 2) }

// Permille returns x/1_000.
func Permille(x int64) Decimal { return mustFromPrec(x, 3) }

func mustFromPrec(x int64, prec int64) Decimal {
	if x < 0 {
		panic(fmt.Sprintf("negative decimal constant %d", x))
	}
	return Decimal{d: math.LegacyNewDecWithPrec(x, prec)}
}

func fromRaw(raw *big.Int) (Decimal, error) {
	if raw.Cmp(maxI128.BigInt()) > 0 {
		return Decimal{}, fmt.Errorf("%w: %s exceeds i128", ErrOverflow, raw)
	}
	return Decimal{d: math.LegacyNewDecFromBigIntWithPrec(raw, Places)}, nil
}

// Atomics returns the raw integer value, scaled by 10^[Places].
func (x Decimal) Atomics() math.Int {
	return math.NewIntFromBigInt(x.d.BigInt())
}

// ToIntWithPrecision returns the atomics rescaled to [precision] fractional
// digits. Going down in precision truncates.
func (x Decimal) ToIntWithPrecision(precision uint32) (math.Int, error) {
	return rescale(x.Atomics(), Places, precision)
}

func (x Decimal) Add(y Decimal) (Decimal, error) {
	return fromRaw(new(big.Int).Add(x.d.BigInt(), y.d.BigInt()))
}

func (x Decimal) Sub(y Decimal) (Decimal, error) {
	if y.d.GT(x.d) {
		return Decimal{}, fmt.Errorf("%w: %s - %s", ErrUnderflow, x, y)
	}
	return Decimal{d: x.d.Sub(y.d)}, nil
}

func (x Decimal) Mul(y Decimal) (Decimal, error) {
	return fromRaw(x.d.MulTruncate(y.d).BigInt())
}

func (x Decimal) Div(y Decimal) (Decimal, error) {
	if y.IsZero() {
		return Decimal{}, ErrDivideByZero
	}
	return fromRaw(x.d.QuoTruncate(y.d).BigInt())
}

// Inv returns 1/x.
func (x Decimal) Inv() (Decimal, error) {
	return One().Div(x)
}

// Pow raises x to [exp] by repeated squaring, truncating after every
// multiplication.
func (x Decimal) Pow(exp uint32) (Decimal, error) {
	result := One()
	base := x
	for exp > 0 {
		var err error
		if exp&1 == 1 {
			result, err = result.Mul(base)
			if err != nil {
				return Decimal{}, err
			}
		}
		exp >>= 1
		if exp == 0 {
			break
		}
		base, err = base.Mul(base)
		if err != nil {
			return Decimal{}, err
		}
	}
	return result, nil
}

// MulInt returns floor(amount * x), the "apply a rate" operation used for
// commissions and share ratios.
func (x Decimal) MulInt(amount math.Int) math.Int {
	r := new(big.Int).Mul(amount.BigInt(), x.d.BigInt())
	return math.NewIntFromBigInt(r.Quo(r, fractional.BigInt()))
}

// DivInt returns floor(amount / x).
func (x Decimal) DivInt(amount math.Int) (math.Int, error) {
	if x.IsZero() {
		return math.Int{}, ErrDivideByZero
	}
	r := new(big.Int).Mul(amount.BigInt(), fractional.BigInt())
	return math.NewIntFromBigInt(r.Quo(r, x.d.BigInt())), nil
}

func (x Decimal) IsZero() bool         { return x.d.IsNil() || x.d.IsZero() }
func (x Decimal) Equal(y Decimal) bool { return x.d.Equal(y.d) }
func (x Decimal) GT(y Decimal) bool    { return x.d.GT(y.d) }
func (x Decimal) GTE(y Decimal) bool   { return x.d.GTE(y.d) }
func (x Decimal) LT(y Decimal) bool    { return x.d.LT(y.d) }
func (x Decimal) LTE(y Decimal) bool   { return x.d.LTE(y.d) }

func (x Decimal) String() string { return x.d.String() }

// CheckI128 returns [ErrOverflow] if [v] does not fit a signed 128-bit
// integer.
func CheckI128(v math.Int) error {
	if v.GT(maxI128) || v.LT(minI128) {
		return fmt.Errorf("%w: %s exceeds i128", ErrOverflow, v)
	}
	return nil
}

// Pow10 returns 10^n.
func Pow10(n uint32) math.Int {
	return math.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil))
}

func rescale(v math.Int, from, to uint32) (math.Int, error) {
	switch {
	case from == to:
		return v, nil
	case from > to:
		return v.Quo(Pow10(from - to)), nil
	default:
		r := new(big.Int).Mul(v.BigInt(), Pow10(to-from).BigInt())
		if r.BitLen() > math.MaxBitLen {
			return math.Int{}, ErrOverflow
		}
		return math.NewIntFromBigInt(r), nil
	}
}
