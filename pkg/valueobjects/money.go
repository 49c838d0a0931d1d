// pkg/valueobjects/money.go
package valueobjects

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KevalMGajjar/ExpenseTrackerBackend/errors"
	"github.com/shopspring/decimal"
)

// Currency represents a valid ISO 4217 currency code
type Currency string

// Supported currencies
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	INR Currency = "INR"
	// Add more as needed
)

// validCurrencies maintains a set of supported currencies
var validCurrencies = map[Currency]bool{
	USD: true,
	EUR: true,
	GBP: true,
	INR: true,
}

// Money represents an exact monetary value with a specific currency.
// Amounts are fixed-point decimals with at most two fractional digits and may
// be negative: ledger balances are signed (negative means the owner owes the
// counterpart). All arithmetic is exact; float64 conversion exists only as an
// explicit boundary helper and must never feed back into ledger math.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money instance with validation
func NewMoney(amount decimal.Decimal, currency Currency) (*Money, error) {
	if !isValidCurrency(currency) {
		return nil, errors.ValidationFailed(
			"invalid currency",
			fmt.Sprintf("currency %s is not supported", currency),
		)
	}

	// Ensure amount has max 2 decimal places
	if amount.Exponent() < -2 {
		return nil, errors.ValidationFailed(
			"invalid amount",
			"amount cannot have more than 2 decimal places",
		)
	}

	return &Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyFromString creates a Money instance from string representations
func NewMoneyFromString(amount string, currency string) (*Money, error) {
	decimalAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, errors.ValidationFailed(
			"invalid amount format",
			err.Error(),
		)
	}

	curr := Currency(strings.ToUpper(currency))
	return NewMoney(decimalAmount, curr)
}

// NewMoneyFromFloat64 converts a floating-point wire amount into an exact
// Money value, rounding half-up to two decimal places. This is the only
// supported ingress path for float amounts.
func NewMoneyFromFloat64(amount float64, currency Currency) (*Money, error) {
	return NewMoney(decimal.NewFromFloat(amount).Round(2), currency)
}

// Zero returns a zero amount in the given currency.
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

// Add adds two monetary values of the same currency
func (m Money) Add(other Money) (*Money, error) {
	if m.currency != other.currency {
		return nil, errors.ValidationFailed(
			ErrCurrencyMismatch,
			fmt.Sprintf("cannot add %s to %s", other.currency, m.currency),
		)
	}

	return &Money{
		amount:   m.amount.Add(other.amount),
		currency: m.currency,
	}, nil
}

// Subtract subtracts two monetary values of the same currency. The result may
// be negative.
func (m Money) Subtract(other Money) (*Money, error) {
	if m.currency != other.currency {
		return nil, errors.ValidationFailed(
			ErrCurrencyMismatch,
			fmt.Sprintf("cannot subtract %s from %s", other.currency, m.currency),
		)
	}

	return &Money{
		amount:   m.amount.Sub(other.amount),
		currency: m.currency,
	}, nil
}

// Negate returns the amount with its sign flipped.
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.currency}
}

// Min returns the smaller of two monetary values of the same currency.
func (m Money) Min(other Money) (*Money, error) {
	if m.currency != other.currency {
		return nil, errors.ValidationFailed(
			ErrCurrencyMismatch,
			fmt.Sprintf("cannot compare %s with %s", m.currency, other.currency),
		)
	}
	if m.amount.LessThanOrEqual(other.amount) {
		result := m
		return &result, nil
	}
	result := other
	return &result, nil
}

// Round returns the amount rounded half-up to two decimal places.
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(2), currency: m.currency}
}

// WithinTolerance reports whether the magnitude of the amount is strictly
// below the given tolerance, i.e. the balance counts as settled.
func (m Money) WithinTolerance(tolerance decimal.Decimal) bool {
	return m.amount.Abs().LessThan(tolerance)
}

// IsZero checks if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive reports whether the amount is strictly positive.
func (m Money) IsPositive() bool {
	return m.amount.GreaterThan(decimal.Zero)
}

// IsNegative reports whether the amount is strictly negative.
func (m Money) IsNegative() bool {
	return m.amount.LessThan(decimal.Zero)
}

// Equals checks if two monetary values are equal
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Compare returns -1, 0 or 1 comparing this amount with another of the same
// currency.
func (m Money) Compare(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, errors.ValidationFailed(
			ErrCurrencyMismatch,
			fmt.Sprintf("cannot compare %s with %s", m.currency, other.currency),
		)
	}
	return m.amount.Cmp(other.amount), nil
}

// Float64 returns the amount as a float64 for the outermost response boundary.
// It must never be used as input to ledger or simplification arithmetic.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String returns a string representation of the money value
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}

// moneyJSON is the wire representation. The amount travels as a string so
// that no precision is lost crossing the JSON boundary.
type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var wire moneyJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	parsed, err := NewMoneyFromString(wire.Amount, string(wire.Currency))
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// private helpers
func isValidCurrency(currency Currency) bool {
	return validCurrencies[currency]
}

const (
	ErrInvalidAmount    = "INVALID_AMOUNT"
	ErrInvalidCurrency  = "INVALID_CURRENCY"
	ErrCurrencyMismatch = "CURRENCY_MISMATCH"
)

type ValidationResult struct {
	Valid   bool
	Code    string
	Message string
}

// Validate checks that the value is usable as a split or settlement amount:
// supported currency and non-negative. Ledger balances themselves may be
// negative and are not validated through this path.
func (m Money) Validate() ValidationResult {
	if m.amount.LessThan(decimal.Zero) {
		return ValidationResult{
			Valid:   false,
			Code:    ErrInvalidAmount,
			Message: "amount cannot be negative",
		}
	}

	if !isValidCurrency(m.currency) {
		return ValidationResult{
			Valid:   false,
			Code:    ErrInvalidCurrency,
			Message: fmt.Sprintf("currency %s is not supported", m.currency),
		}
	}

	return ValidationResult{Valid: true}
}
