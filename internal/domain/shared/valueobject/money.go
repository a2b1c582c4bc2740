package valueobject

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is a lower-case ISO 4217 code as expected by the payment gateway
type Currency string

const (
	INR Currency = "inr"
	USD Currency = "usd"
	EUR Currency = "eur"
)

// DefaultCurrency is the storefront currency
const DefaultCurrency = INR

// NormalizeCurrency lower-cases a configured currency code
func NormalizeCurrency(code string) Currency {
	return Currency(strings.ToLower(strings.TrimSpace(code)))
}

// Money is an immutable amount in a currency
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// Zero returns zero in the given currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsPositive reports whether the amount is greater than zero
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns the sum of two amounts in the same currency
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errors.New("cannot add money with different currencies")
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// MultiplyByInt scales the amount by an integer quantity
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(factor)), currency: m.currency}
}

// MinorUnits converts the amount to the smallest currency unit (paise, cents),
// rounding half away from zero.
func (m Money) MinorUnits() int64 {
	return MinorUnits(m.amount)
}

// MinorUnits converts a two-decimal amount to minor units
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// String returns the amount with two decimals followed by the currency
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + strings.ToUpper(string(m.currency))
}
