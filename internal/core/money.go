package core

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// Currency is an ISO currency code. Amounts are always held in whole minor units.
type Currency string

const JPY Currency = "JPY"

// DefaultCurrency is used when a caller does not name one.
const DefaultCurrency = JPY

// minorExponent is the number of decimal places between minor and major units.
var minorExponent = map[Currency]int32{
	JPY: 0,
}

// RoundingPolicy turns a real-valued amount into whole minor units.
type RoundingPolicy func(float64) int64

// roundMinor applies round to v, failing when v cannot be held in whole minor units.
func roundMinor(v float64, round RoundingPolicy, format string, args ...any) (int64, error) {
	if !isFinite(v) || math.Abs(v) >= math.MaxInt64 {
		return 0, validationError(format+" is out of range", args...)
	}
	return round(v), nil
}

// addMinor adds b to a, failing on int64 overflow.
func addMinor(a, b int64, format string, args ...any) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, validationError(format+" is out of range", args...)
	}
	return sum, nil
}

// RoundHalfUp rounds ties away from zero: 1.5 → 2, -1.5 → -2, 2.5 → 3.
func RoundHalfUp(v float64) int64 {
	sign := 1.0
	if v < 0 {
		sign = -1
	}
	return int64(sign * math.Floor(math.Abs(v)+0.5))
}

// Money is an amount of whole minor units in a single currency.
type Money struct {
	amountMinor int64
	currency    Currency
}

// OfMinor builds Money from whole minor units. An empty currency means DefaultCurrency.
func OfMinor(amountMinor int64, currency ...Currency) Money {
	c := DefaultCurrency
	if len(currency) > 0 && currency[0] != "" {
		c = currency[0]
	}
	return Money{amountMinor: amountMinor, currency: c}
}

// OfMinorDecimal builds Money from a decimal amount of minor units, rejecting fractions.
func OfMinorDecimal(amount decimal.Decimal, currency ...Currency) (Money, error) {
	if !amount.IsInteger() {
		return Money{}, newError(CodeInvalidAmount, "amount must be expressed in minor integer units, got %s", amount)
	}
	if amount.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return Money{}, newError(CodeInvalidAmount, "amount %s is out of range", amount)
	}
	return OfMinor(amount.IntPart(), currency...), nil
}

// OfMinorFloat builds Money from a real number, which must be a finite integer.
func OfMinorFloat(amount float64, currency ...Currency) (Money, error) {
	if !isFinite(amount) {
		return Money{}, newError(CodeInvalidAmount, "amount must be a finite number")
	}
	if amount != math.Trunc(amount) {
		return Money{}, newError(CodeInvalidAmount, "amount must be expressed in minor integer units, got %v", amount)
	}
	if math.Abs(amount) >= math.MaxInt64 {
		return Money{}, newError(CodeInvalidAmount, "amount %v is out of range", amount)
	}
	return OfMinor(int64(amount), currency...), nil
}

func (m Money) AmountMinor() int64 { return m.amountMinor }

func (m Money) Currency() Currency {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

func (m Money) IsZero() bool { return m.amountMinor == 0 }

// ToMajor returns the amount in major units (yen for JPY).
func (m Money) ToMajor() decimal.Decimal {
	return decimal.New(m.amountMinor, -minorExponent[m.Currency()])
}

func (m Money) String() string {
	return m.ToMajor().String() + " " + string(m.Currency())
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AmountMinor int64    `json:"amount_minor"`
		Currency    Currency `json:"currency"`
	}{m.amountMinor, m.Currency()})
}

// Add returns a+b. Both must share a currency.
func Add(a, b Money) (Money, error) {
	if err := ensureSameCurrency(a, b); err != nil {
		return Money{}, err
	}
	return Money{amountMinor: a.amountMinor + b.amountMinor, currency: a.Currency()}, nil
}

// Sub returns a-b. Both must share a currency.
func Sub(a, b Money) (Money, error) {
	if err := ensureSameCurrency(a, b); err != nil {
		return Money{}, err
	}
	return Money{amountMinor: a.amountMinor - b.amountMinor, currency: a.Currency()}, nil
}

// Mul multiplies m by factor and rounds the raw product once with policy.
// A nil policy means RoundHalfUp.
func Mul(m Money, factor float64, policy RoundingPolicy) (Money, error) {
	if !isFinite(factor) {
		return Money{}, validationError("multiplication factor must be finite")
	}
	if policy == nil {
		policy = RoundHalfUp
	}
	raw := float64(m.amountMinor) * factor
	return Money{amountMinor: policy(raw), currency: m.Currency()}, nil
}

// Equals reports whether a and b have the same currency and amount.
func Equals(a, b Money) bool {
	return a.Currency() == b.Currency() && a.amountMinor == b.amountMinor
}

func ensureSameCurrency(a, b Money) error {
	if a.Currency() != b.Currency() {
		return newError(CodeCurrencyMismatch, "currency mismatch: %s vs %s", a.Currency(), b.Currency())
	}
	return nil
}
