package domain

import (
	"time"

	"github.com/fintrack/ledger/pkg/currency"
)

// Event is the marker interface for domain events published after a commit.
type Event interface {
	Type() string
}

// AccountCreated is published after an account and its zero balances row
// became visible.
type AccountCreated struct {
	Account    *Account
	Balances   *Balances
	Currency   currency.Currency
	OccurredAt time.Time
}

// Type implements Event.
func (AccountCreated) Type() string { return "AccountCreated" }

// TransferCommitted is published after a transfer committed. Payer and Payee
// carry post-commit balances; either may be nil when that side is outside
// this ledger.
type TransferCommitted struct {
	Transaction *Transaction
	Currency    currency.Currency
	Payer       *Account
	Payee       *Account
	OccurredAt  time.Time
}

// Type implements Event.
func (TransferCommitted) Type() string { return "TransferCommitted" }
