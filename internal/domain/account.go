// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-petr/flatbank/pkg/moneypkg"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates an amount that is not positive or has sub-cent digits.
	ErrInvalidAmount = moneypkg.ErrInvalidAmount
	// ErrInsufficientFunds indicates that the account balance does not cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAuthenticationFailed indicates unknown account number or wrong passcode.
	ErrAuthenticationFailed = errors.New("invalid credentials")
	// ErrNotPersonal indicates an operation only personal accounts support.
	ErrNotPersonal = errors.New("mobile top-up only available for personal accounts")
	// ErrUnknownKind indicates an account kind that is neither personal nor business.
	ErrUnknownKind = errors.New("unknown account kind")
)

// Kind discriminates account variants.
type Kind string

// Supported account kinds.
const (
	Personal Kind = "Personal"
	Business Kind = "Business"
)

// ParseKind returns the kind matching s case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "personal":
		return Personal, nil
	case "business":
		return Business, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Account holds balance data of a personal or business account.
//
// MobileBalance is only meaningful for personal accounts.
type Account struct {
	ID            string          `json:"id"`
	Passcode      string          `json:"-"`
	Kind          Kind            `json:"kind"`
	Balance       decimal.Decimal `json:"balance"`
	MobileBalance decimal.Decimal `json:"mobile_balance"`
}

// IsPersonal reports whether the account is a personal one.
func (a *Account) IsPersonal() bool {
	return a.Kind == Personal
}

// Deposit adds a valid amount to the balance.
func (a *Account) Deposit(amount decimal.Decimal) (Receipt, error) {
	if err := moneypkg.Validate(amount); err != nil {
		return Receipt{}, err
	}

	a.Balance = a.Balance.Add(amount)

	return Receipt{Operation: OpDeposit, Amount: amount, Balance: a.Balance}, nil
}

// Withdraw subtracts a valid amount from the balance if funds allow.
func (a *Account) Withdraw(amount decimal.Decimal) (Receipt, error) {
	if err := moneypkg.Validate(amount); err != nil {
		return Receipt{}, err
	}

	if amount.GreaterThan(a.Balance) {
		return Receipt{}, fmt.Errorf("%w for withdrawal", ErrInsufficientFunds)
	}

	a.Balance = a.Balance.Sub(amount)

	return Receipt{Operation: OpWithdraw, Amount: amount, Balance: a.Balance}, nil
}

// Transfer withdraws the amount from a and deposits it to recipient.
//
// The two steps are not atomic. Deposit only rejects amounts Withdraw already
// accepted, so the second step does not fail once the first one succeeded.
func (a *Account) Transfer(amount decimal.Decimal, recipient *Account) (Receipt, error) {
	if recipient == nil {
		return Receipt{}, fmt.Errorf("recipient: %w", ErrAccountNotFound)
	}

	if _, err := a.Withdraw(amount); err != nil {
		return Receipt{}, err
	}

	if _, err := recipient.Deposit(amount); err != nil {
		return Receipt{}, err
	}

	return Receipt{
		Operation:   OpTransfer,
		Amount:      amount,
		Balance:     a.Balance,
		RecipientID: recipient.ID,
	}, nil
}

// TopUpMobile moves a positive amount from the balance to the mobile balance.
//
// Unlike deposits the amount may carry more than two decimal places.
func (a *Account) TopUpMobile(amount decimal.Decimal) (Receipt, error) {
	if !a.IsPersonal() {
		return Receipt{}, ErrNotPersonal
	}

	if err := moneypkg.ValidatePositive(amount); err != nil {
		return Receipt{}, err
	}

	if amount.GreaterThan(a.Balance) {
		return Receipt{}, fmt.Errorf("%w for mobile top-up", ErrInsufficientFunds)
	}

	a.Balance = a.Balance.Sub(amount)
	a.MobileBalance = a.MobileBalance.Add(amount)

	return Receipt{Operation: OpTopUp, Amount: amount, Balance: a.Balance}, nil
}

// Details returns a human readable account summary.
func (a *Account) Details() string {
	if a.IsPersonal() {
		return fmt.Sprintf("Personal Account %s\nBalance: %s\nMobile Balance: %s",
			a.ID, moneypkg.Format(a.Balance), moneypkg.Format(a.MobileBalance))
	}

	return fmt.Sprintf("Business Account %s\nBalance: %s", a.ID, moneypkg.Format(a.Balance))
}
