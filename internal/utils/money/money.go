// Package money provides the exact-decimal amount type used for every monetary
// value in the ledger. Amounts are fixed at two fractional digits and are backed
// by decimal arithmetic, so binary floating-point drift can never leak into a
// balance check.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value with exactly two decimal places.
// The zero value is a valid amount of 0.00.
type Amount struct {
	d decimal.Decimal
}

// Zero returns the 0.00 amount.
func Zero() Amount {
	return Amount{d: decimal.Zero}
}

// New builds an Amount from whole units and cents (e.g. New(12, 50) is 12.50).
func New(units int64, cents int64) Amount {
	total := units*100 + cents
	return Amount{d: decimal.New(total, -2)}
}

// FromDecimal converts a raw decimal into an Amount, applying banker's rounding
// at two decimal places. This is the single point where precision is reduced.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d.RoundBank(2)}
}

// FromString parses a decimal string like "1250.75" into an Amount.
func FromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// MustFromString is FromString for literals known to be valid.
func MustFromString(s string) Amount {
	a, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{d: a.d.Neg()}
}

// IsZero reports whether the amount is exactly 0.00.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

// Equal reports whether two amounts represent the same value.
// Defined as a.Sub(b).IsZero(), the only sanctioned equality test for totals.
func (a Amount) Equal(b Amount) bool {
	return a.Sub(b).IsZero()
}

// Cmp returns -1, 0 or 1 comparing a to b.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

// Prorate scales the amount by num/den and rounds half-to-even at two decimal
// places. Rounding happens once, after the multiplication and division.
func (a Amount) Prorate(num, den int64) Amount {
	if den == 0 {
		return Zero()
	}
	scaled := a.d.Mul(decimal.NewFromInt(num)).Div(decimal.NewFromInt(den))
	return Amount{d: scaled.RoundBank(2)}
}

// Decimal exposes the underlying decimal, for repositories that persist it.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// String renders the amount with exactly two decimal places.
func (a Amount) String() string {
	return a.d.StringFixed(2)
}

// Sum adds a collection of amounts.
func Sum(amounts ...Amount) Amount {
	total := Zero()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MarshalJSON renders the amount as a JSON number string, like "1250.75".
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare decimal numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = FromDecimal(d)
	return nil
}
