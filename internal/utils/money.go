package utils

import (
	"fmt"
	"strconv"
)

// Money represents a monetary value in the smallest currency unit (cents).
// Using int64 keeps balance arithmetic exact, which the per-day
// reconciliation of the simulation depends on.
type Money int64

// Cents creates a Money value from cents/minor units only
func Cents(cents int64) Money {
	return Money(cents)
}

// Units creates a Money value from whole major units
func Units(units int64) Money {
	return Money(units * 100)
}

// FromFloat creates a Money value from a float64, rounded to the nearest cent
func FromFloat(amount float64) Money {
	if amount >= 0 {
		return Money(amount*100 + 0.5)
	}
	return Money(amount*100 - 0.5)
}

// ToCents returns the value in cents (the underlying representation)
func (m Money) ToCents() int64 {
	return int64(m)
}

// ToFloat returns the value as a float64 (for display and JSON export only)
func (m Money) ToFloat() float64 {
	return float64(m) / 100
}

// Add returns the sum of two Money values
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns the difference of two Money values
func (m Money) Sub(other Money) Money {
	return m - other
}

// MulFloat multiplies by a float and rounds to the nearest cent
func (m Money) MulFloat(f float64) Money {
	result := float64(m) * f
	if result >= 0 {
		return Money(result + 0.5)
	}
	return Money(result - 0.5)
}

// Neg returns the negated value
func (m Money) Neg() Money {
	return -m
}

// IsPositive returns true if the value is positive
func (m Money) IsPositive() bool {
	return m > 0
}

// IsNegative returns true if the value is negative
func (m Money) IsNegative() bool {
	return m < 0
}

// Max returns the larger of two Money values
func (m Money) Max(other Money) Money {
	if m > other {
		return m
	}
	return other
}

// RoundToNearest rounds the money to the nearest multiple of 'nearest'.
// Credit limits use this to land on round thousands.
func (m Money) RoundToNearest(nearest Money) Money {
	if nearest <= 0 {
		return m
	}
	half := nearest / 2
	if m < 0 {
		return ((m - half) / nearest) * nearest
	}
	return ((m + half) / nearest) * nearest
}

// String returns a plain two-decimal representation (e.g. "123.45"),
// which is also the CSV/JSON wire format for amounts.
func (m Money) String() string {
	negative := m < 0
	if negative {
		m = -m
	}
	units := int64(m) / 100
	cents := int64(m) % 100

	result := fmt.Sprintf("%d.%02d", units, cents)
	if negative {
		result = "-" + result
	}
	return result
}

// ParseMoney parses a two-decimal amount string back into Money.
func ParseMoney(s string) (Money, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromFloat(f), nil
}

// MarshalJSON encodes Money as a bare two-decimal number, the schema's
// representation for all amount fields.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a bare number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
