// Package money provides the monetary value object used across the ledger.
//
// Invariants:
//   - The amount is stored as an integer in the smallest currency unit
//     (cents for USD), so arithmetic over committed transfers is exact.
//   - All arithmetic and comparisons require matching currencies.
package money

import (
	"errors"
	"math"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned for NaN or infinite float input.
	ErrInvalidAmount = errors.New("amount must be a finite number")
	// ErrAmountOverflow is returned when an amount does not fit the
	// smallest-unit integer representation.
	ErrAmountOverflow = errors.New("amount exceeds representable range")
	// ErrCurrencyMismatch is returned when operating on two values of
	// different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Money is a monetary value in a specific currency.
type Money struct {
	units int64
	cur   currency.Currency
}

// New converts a float amount in major units into Money, rounding to the
// currency's smallest unit. NaN and infinities are rejected.
func New(amount float64, cur currency.Currency) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, ErrInvalidAmount
	}
	d := decimal.NewFromFloat(amount).Shift(cur.Decimals).Round(0)
	if !d.BigInt().IsInt64() {
		return Money{}, ErrAmountOverflow
	}
	return Money{units: d.IntPart(), cur: cur}, nil
}

// FromUnits builds Money from a smallest-unit amount, for store hydration.
func FromUnits(units int64, cur currency.Currency) Money {
	return Money{units: units, cur: cur}
}

// Zero returns a zero value in the given currency.
func Zero(cur currency.Currency) Money {
	return Money{cur: cur}
}

// Units returns the amount in the smallest currency unit.
func (m Money) Units() int64 { return m.units }

// Float returns the amount in major units. Intended for presentation;
// arithmetic stays on Units.
func (m Money) Float() float64 {
	return decimal.New(m.units, -m.cur.Decimals).InexactFloat64()
}

// Currency returns the currency of the value.
func (m Money) Currency() currency.Currency { return m.cur }

// Code returns the currency code.
func (m Money) Code() string { return m.cur.Code }

// SameCurrency reports whether both values share a currency code.
func (m Money) SameCurrency(other Money) bool {
	return m.cur.Code == other.cur.Code
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{units: m.units + other.units, cur: m.cur}, nil
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{units: m.units - other.units, cur: m.cur}, nil
}

// Negate returns the value with its sign flipped.
func (m Money) Negate() Money {
	return Money{units: -m.units, cur: m.cur}
}

// LessThan reports m < other.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.SameCurrency(other) {
		return false, ErrCurrencyMismatch
	}
	return m.units < other.units, nil
}

// Equals reports value and currency equality.
func (m Money) Equals(other Money) bool {
	return m.cur.Code == other.cur.Code && m.units == other.units
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.units > 0 }

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool { return m.units < 0 }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.units == 0 }

// String renders the amount with the currency's decimal places, e.g. "40.00 USD".
func (m Money) String() string {
	return decimal.New(m.units, -m.cur.Decimals).StringFixed(m.cur.Decimals) + " " + m.cur.Code
}
