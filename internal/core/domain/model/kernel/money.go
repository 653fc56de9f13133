package kernel

import (
	"fmt"
	"math"

	"laundrybot/internal/pkg/errs"
)

// ErrMoneyIsNegative is returned when constructing Money from a negative
// amount. Charges, tariffs, and refunds are all modeled as non-negative
// values; direction is carried by the adjustment type, never by the sign.
var ErrMoneyIsNegative = errs.NewValueIsInvalidError("money amount must not be negative")

// Money is an immutable amount in integer cents. Weight charges are computed
// by multiplying a per-kilogram tariff with a fractional weight, so the only
// rounding point in the system is MultiplyWeight.
type Money struct {
	cents int64
}

// NewMoneyFromCents creates Money from an integer number of cents.
func NewMoneyFromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrMoneyIsNegative
	}
	return Money{cents: cents}, nil
}

// Cents returns the raw amount in cents.
func (m Money) Cents() int64 {
	return m.cents
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// MultiplyWeight scales a per-kilogram tariff by a weight in kilograms,
// rounding half away from zero to whole cents.
func (m Money) MultiplyWeight(kg float64) Money {
	return Money{cents: int64(math.Round(float64(m.cents) * kg))}
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub returns the difference of two amounts, floored at zero. Adjustments
// can never drive an effective total negative.
func (m Money) Sub(other Money) Money {
	if other.cents > m.cents {
		return Money{}
	}
	return Money{cents: m.cents - other.cents}
}

// Max returns the larger of two amounts. Used to apply the minimum charge.
func (m Money) Max(other Money) Money {
	if other.cents > m.cents {
		return other
	}
	return m
}

// LessThan reports whether m is strictly smaller than other.
func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// String renders the amount with two decimal places, e.g. "50.00".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
