package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Credits is a fixed-point Ficore Credit amount stored as hundredths of a
// credit. Integer storage keeps the "balance >= amount" comparison exact in
// every storage backend; decimals exist only at the API boundary.
type Credits int64

const creditScale = 2

var (
	// ErrCreditScale is returned when an amount has more than two decimal
	// places and cannot be represented without rounding.
	ErrCreditScale = errors.New("credit amount has more than two decimal places")
)

// CreditsFromDecimal converts an exact decimal amount into Credits.
func CreditsFromDecimal(d decimal.Decimal) (Credits, error) {
	shifted := d.Shift(creditScale)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrCreditScale, d.String())
	}
	return Credits(shifted.IntPart()), nil
}

// CreditsFromFloat converts a float amount (as received in JSON bodies)
// into Credits, rejecting values that do not land on a hundredth.
func CreditsFromFloat(f float64) (Credits, error) {
	return CreditsFromDecimal(decimal.NewFromFloat(f))
}

// Decimal returns the amount as an exact decimal.
func (c Credits) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -creditScale)
}

// Float64 returns the amount as a float for JSON responses. Hundredths are
// exactly representable in a float64 over any realistic balance.
func (c Credits) Float64() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

func (c Credits) String() string {
	return c.Decimal().String()
}
