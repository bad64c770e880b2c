// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cosmossdk.io/math"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/shopspring/decimal"

	"github.com/ava-labs/phoenixvm/consts"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

var (
	ErrInvalidSize   = errors.New("invalid size")
	ErrInvalidAmount = errors.New("invalid amount")
)

// Outputs to stdout.
//
// e.g.,
//
//	Outf("{{green}}{{bold}}hi there %q{{/}}", "aa")
//	Outf("{{magenta}}{{bold}}hi therea{{/}} {{cyan}}{{underline}}b{{/}}")
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

// FormatAmount renders [amount] atomic units of a token with [decimals].
func FormatAmount(amount math.Int, decimals uint8) string {
	if amount.IsNil() {
		return "0"
	}
	return decimal.NewFromBigInt(amount.BigInt(), -int32(decimals)).String()
}

// ParseAmount converts a decimal string into atomic units of a token with
// [decimals]. More fractional digits than [decimals] is an error.
func ParseAmount(s string, decimals uint8) (math.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return math.Int{}, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	if d.IsNegative() {
		return math.Int{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, s)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return math.Int{}, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	return math.NewIntFromBigInt(scaled.BigInt()), nil
}

func SaveBytes(filename string, b []byte) error {
	return os.WriteFile(filename, b, perms.ReadWrite)
}

// LoadBytes reads [filename] and checks it holds exactly [expectedSize]
// bytes, unless [expectedSize] is negative.
func LoadBytes(filename string, expectedSize int) ([]byte, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if expectedSize >= 0 && len(b) != expectedSize {
		return nil, ErrInvalidSize
	}
	return b, nil
}

// UnixRMilli returns the current unix time in milliseconds, rounded
// down to the nearsest second.
//
// [now] is used as the current unix time in milliseconds if >= 0.
//
// [add] (in ms) is added to the unix time before it is rounded (typically
// used when generating an expiry time with a validity window).
func UnixRMilli(now, add int64) int64 {
	if now < 0 {
		now = time.Now().UnixMilli()
	}
	t := now + add
	return t - t%consts.MillisecondsPerSecond
}
