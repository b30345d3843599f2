package domain

import (
	"fmt"

	"github.com/go-petr/flatbank/pkg/moneypkg"
	"github.com/shopspring/decimal"
)

// Operation names a balance changing account operation.
type Operation string

// Account operations.
const (
	OpDeposit  Operation = "deposit"
	OpWithdraw Operation = "withdraw"
	OpTransfer Operation = "transfer"
	OpTopUp    Operation = "topup"
)

// Receipt confirms an applied account operation.
type Receipt struct {
	Operation   Operation       `json:"operation"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"` // acting account balance afterwards
	RecipientID string          `json:"recipient_id,omitempty"`
}

// String renders the confirmation message shown to the account holder.
func (r Receipt) String() string {
	switch r.Operation {
	case OpDeposit:
		return fmt.Sprintf("Deposited %s. New balance: %s", moneypkg.Format(r.Amount), moneypkg.Format(r.Balance))
	case OpWithdraw:
		return fmt.Sprintf("Withdrew %s. New balance: %s", moneypkg.Format(r.Amount), moneypkg.Format(r.Balance))
	case OpTransfer:
		return fmt.Sprintf("Transferred %s to account %s", moneypkg.Format(r.Amount), r.RecipientID)
	case OpTopUp:
		return fmt.Sprintf("Mobile topped up with %s. Account balance: %s", moneypkg.Format(r.Amount), moneypkg.Format(r.Balance))
	}

	return string(r.Operation)
}
