package domain

import "github.com/shopspring/decimal"

// AmountPolicy decides which expense amounts are accepted.
type AmountPolicy string

const (
	AmountAny         AmountPolicy = "any"          // refunds and corrections may be negative
	AmountNonNegative AmountPolicy = "non_negative" // zero allowed
	AmountPositive    AmountPolicy = "positive"
)

// AmountLimit is the smallest magnitude that no longer fits decimal(12,2).
var AmountLimit = decimal.New(1, 10)

// Valid reports whether p names a known policy.
func (p AmountPolicy) Valid() bool {
	switch p {
	case AmountAny, AmountNonNegative, AmountPositive:
		return true
	}
	return false
}

// Check returns a ValidationError when amount violates the policy.
func (p AmountPolicy) Check(amount decimal.Decimal) error {
	switch p {
	case AmountNonNegative:
		if amount.IsNegative() {
			return Invalid("amount", "Amount must not be negative.")
		}
	case AmountPositive:
		if !amount.IsPositive() {
			return Invalid("amount", "Amount must be greater than zero.")
		}
	}
	return nil
}
