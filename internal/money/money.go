// Package money converts between user-facing decimal amounts and integer cents.
//
// Every amount inside splitledger is an int64 count of cents; decimals only
// exist at the edges (request parsing and display).
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts that are malformed, not positive,
// or larger than MaxCents.
var ErrInvalidAmount = errors.New("invalid amount")

// MaxCents is the largest amount ParseCents accepts: one hundred billion in major
// units. Any realistic number of such amounts still sums well inside an int64.
const MaxCents int64 = 10_000_000_000_000

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(MaxCents)
)

// ParseCents converts a positive decimal string such as "12.34" or "12,34" to
// cents. Digits past the second decimal place are rounded half-up.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	cents := d.Mul(hundred).Round(0)
	if cents.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidAmount, s)
	}
	if cents.Cmp(maxCents) > 0 {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, s)
	}
	return cents.IntPart(), nil
}

// FormatCents renders cents with exactly two decimal places, e.g. -1234 -> "-12.34".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
