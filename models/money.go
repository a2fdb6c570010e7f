package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (paise). Stored as an integer so that
// repeated fractional credits never drift.
type Money int64

const minorUnits = 2

// ParseMoney parses a decimal rupee amount such as "0.50" or "20".
// Negative amounts and amounts finer than one paisa are rejected.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("invalid amount %q: negative", s)
	}
	minor := d.Shift(minorUnits)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("invalid amount %q: more than %d decimal places", s, minorUnits)
	}
	return Money(minor.IntPart()), nil
}

// Rupees builds a Money value from whole rupees and paise.
func Rupees(rupees, paise int64) Money {
	return Money(rupees*100 + paise)
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorUnits)
}

// String renders the amount with exactly two decimals, e.g. "25.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(minorUnits)
}

// Split returns the whole-rupee and paise parts.
func (m Money) Split() (rupees, paise int64) {
	return int64(m) / 100, int64(m) % 100
}
