package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Money is a signed amount in minor currency units (cents, pence, ...).
// All ledger arithmetic is integer-only; decimal text only appears at the
// parsing and formatting boundary.
type Money int64

// DefaultCurrencyCode is used when an account carries no explicit currency.
const DefaultCurrencyCode = "USD"

// NewMoneyFromMinor wraps a raw minor-unit value.
func NewMoneyFromMinor(minor int64) Money { return Money(minor) }

// Minor returns the raw minor-unit value.
func (m Money) Minor() int64 { return int64(m) }

// Add returns m + other.
func (m Money) Add(other Money) Money { return m + other }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return m - other }

// Cmp returns -1, 0 or +1 comparing m to other.
func (m Money) Cmp(other Money) int {
	switch {
	case m < other:
		return -1
	case m > other:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool { return m == 0 }

// IsPositive reports whether m is greater than zero.
func (m Money) IsPositive() bool { return m > 0 }

// IsNegative reports whether m is less than zero.
func (m Money) IsNegative() bool { return m < 0 }

// Decimal converts m to a decimal value in major units for the given number of
// fractional digits (2 for USD).
func (m Money) Decimal(places int32) decimal.Decimal {
	return decimal.New(int64(m), -places)
}

// StringFixed renders m in major units with exactly places fractional digits,
// e.g. 90000 with 2 places renders "900.00". No symbol, no grouping.
func (m Money) StringFixed(places int32) string {
	return m.Decimal(places).StringFixed(places)
}

// SumMoney adds up values.
func SumMoney(values ...Money) Money {
	var total Money
	for _, v := range values {
		total += v
	}
	return total
}

// ParseMoney parses decimal text in major units ("750.50") into minor units.
// Non-numeric text, more fractional digits than places, and values that do
// not fit in int64 are rejected with ErrInvalidAmount.
func ParseMoney(text string, places int32) (Money, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: amount is empty", apperrors.ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", apperrors.ErrInvalidAmount, text)
	}
	scaled := d.Shift(places)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q has more than %d fractional digits", apperrors.ErrInvalidAmount, text, places)
	}
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %q is out of range", apperrors.ErrInvalidAmount, text)
	}
	return Money(scaled.IntPart()), nil
}

// CurrencyDecimals returns the number of minor-unit digits for an ISO 4217 code.
func CurrencyDecimals(currencyCode string) int32 {
	switch strings.ToUpper(currencyCode) {
	case "JPY", "KRW", "VND", "CLP", "PYG", "IDR":
		return 0
	case "BHD", "KWD", "OMR", "TND":
		return 3
	default:
		return 2
	}
}
