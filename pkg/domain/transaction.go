package domain

import (
	"time"

	"github.com/fintrack/ledger/pkg/money"
	"github.com/google/uuid"
)

// Direction tells which side of a transfer an account was on.
type Direction string

const (
	// DirectionCredit marks funds flowing into the account.
	DirectionCredit Direction = "CREDIT"
	// DirectionDebit marks funds flowing out of the account.
	DirectionDebit Direction = "DEBIT"
)

// Transaction is one immutable record of a transfer. At least one of the
// payer/payee references is set; they never reference the same account.
// Once persisted a transaction is never updated or deleted.
type Transaction struct {
	ID              uuid.UUID
	URN             string
	PayerAccountID  *uuid.UUID
	PayerAccountURN *string
	PayeeAccountID  *uuid.UUID
	PayeeAccountURN *string
	Amount          money.Money
	Purpose         string
	CreatedBy       uuid.UUID
	CreatedAt       time.Time
}

// NewTransaction assembles the transfer record. Either payer or payee may be
// nil when the counterparty is outside this ledger.
func NewTransaction(payer, payee *Account, amount money.Money, purpose string, initiatorID uuid.UUID) *Transaction {
	id := uuid.New()
	t := &Transaction{
		ID:        id,
		URN:       TransactionURN(id),
		Amount:    amount,
		Purpose:   purpose,
		CreatedBy: initiatorID,
		CreatedAt: time.Now().UTC(),
	}
	if payer != nil {
		payerID, payerURN := payer.ID, payer.URN
		t.PayerAccountID = &payerID
		t.PayerAccountURN = &payerURN
	}
	if payee != nil {
		payeeID, payeeURN := payee.ID, payee.URN
		t.PayeeAccountID = &payeeID
		t.PayeeAccountURN = &payeeURN
	}
	return t
}
