// Package core provides money parsing and handling utilities.
//
// Amounts are kept as arbitrary precision decimals so that values entered by
// hand round-trip through the persisted blob and the export unchanged.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a non-negative decimal magnitude, currency agnostic.
type Money struct {
	decimal.Decimal
}

// NewMoney builds a Money from a float, mainly for tests and literals.
func NewMoney(v float64) Money {
	return Money{Decimal: decimal.NewFromFloat(v)}
}

// ParseAmount converts a decimal string to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs are
// rejected since the direction of a transaction is carried by its type.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Decimal: d}, nil
}

func (m Money) Validate() error {
	if m.Decimal.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

func (m Money) Sub(o Money) Money {
	return Money{Decimal: m.Decimal.Sub(o.Decimal)}
}

func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// Format renders the amount with two decimals behind the currency symbol,
// e.g. "$12.30" or "-$4.00".
func (m Money) Format(symbol string) string {
	if m.Decimal.IsNegative() {
		return "-" + symbol + m.Decimal.Neg().StringFixed(2)
	}
	return symbol + m.Decimal.StringFixed(2)
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimals.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.Decimal = d
	return nil
}
