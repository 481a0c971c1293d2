package domain

import (
	"time"

	"github.com/fintrack/ledger/pkg/money"
	"github.com/google/uuid"
)

// Balances is the running-total record paired one-to-one with an Account.
// TotalBalance always equals the account's Balance projection; both are
// written together inside one unit of work and nowhere else.
type Balances struct {
	AccountID    uuid.UUID
	AccountURN   string
	TotalBalance money.Money
	TotalCredit  money.Money
	TotalDebit   money.Money
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewBalances returns the zero-valued balances row for a freshly created
// account.
func NewBalances(a *Account) *Balances {
	zero := money.Zero(a.Currency)
	return &Balances{
		AccountID:    a.ID,
		AccountURN:   a.URN,
		TotalBalance: zero,
		TotalCredit:  zero,
		TotalDebit:   zero,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
	}
}
