// Package moneypkg provides validation, parsing and formatting of money amounts.
package moneypkg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits an amount may carry.
const Places = 2

var (
	// ErrInvalidAmount indicates an amount that cannot be applied to a balance.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNotANumber indicates input that does not parse as a decimal number.
	ErrNotANumber = errors.New("amount is not a number")
)

// Validate returns nil if the amount is strictly positive and has no sub-cent fraction.
func Validate(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(Places)) {
		return fmt.Errorf("%w: must be positive and have at most %d decimal places", ErrInvalidAmount, Places)
	}

	return nil
}

// ValidatePositive only checks that the amount is strictly positive.
func ValidatePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}

	return nil
}

// Parse converts user input into a decimal amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}

	return d, nil
}

// Format renders an amount as dollars with cents, e.g. $100.00.
func Format(d decimal.Decimal) string {
	return "$" + d.StringFixed(Places)
}

// ValidAmount validates whether the field holds a parseable decimal string.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := Parse(s)
		return err == nil
	}

	return false
}
