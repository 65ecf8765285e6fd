package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Money is an opaque monetary amount carried on orders. The module never
// computes prices or commissions; amounts flow through unchanged, so Money
// only stores minor units (cents) plus a currency code and supports addition
// for the earnings summary read model.
//
// Money is immutable; the zero value represents "no amount" and is valid.
type Money struct {
	cents    int64
	currency string
}

// NewMoney creates an amount in minor units with a three-letter currency code.
// Negative amounts are rejected: order totals are never negative.
func NewMoney(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", cents))
	}
	if len(currency) != 3 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a three-letter code", currency))
	}
	return Money{cents: cents, currency: currency}, nil
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return m.cents
}

// Currency returns the three-letter currency code, empty for the zero value.
func (m Money) Currency() string {
	return m.currency
}

// IsZero reports whether the amount carries no value.
func (m Money) IsZero() bool {
	return m.cents == 0 && m.currency == ""
}

// Add sums two amounts. Adding amounts in different currencies is rejected;
// the zero value acts as the additive identity for either currency.
func (m Money) Add(other Money) (Money, error) {
	switch {
	case m.IsZero():
		return other, nil
	case other.IsZero():
		return m, nil
	case m.currency != other.currency:
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("cannot add %s to %s", other.currency, m.currency))
	}
	return Money{cents: m.cents + other.cents, currency: m.currency}, nil
}

// String renders the amount for logs, e.g. "1250 USD".
func (m Money) String() string {
	if m.IsZero() {
		return "0"
	}
	return fmt.Sprintf("%d %s", m.cents, m.currency)
}
