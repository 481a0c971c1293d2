// Package statement builds the chronological view of the transactions
// touching one account. It is purely read-only.
package statement

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/errs"
	"github.com/fintrack/ledger/pkg/money"
	"github.com/fintrack/ledger/pkg/repository"
)

// Entry is one statement line. Counterparty fields are nil when the other
// side of the transfer is outside this ledger or could not be resolved.
type Entry struct {
	TransactionURN   string
	CounterpartyURN  *string
	CounterpartyName *string
	Amount           money.Money
	CurrencyCode     string
	Timestamp        time.Time
	Direction        domain.Direction
	Purpose          string
}

// Service aggregates an account's incoming and outgoing transactions.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService wires the statement aggregator.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// GetStatement merges the account's payee-side (credit) and payer-side
// (debit) transactions, newest first. Timestamp ties are broken by
// transaction URN so the order is deterministic.
func (s *Service) GetStatement(ctx context.Context, accountURN string) ([]Entry, error) {
	accountURN = strings.TrimSpace(accountURN)
	if accountURN == "" {
		return nil, errs.Validation(errs.KeyInvalidAccountURN, "account URN cannot be empty or none")
	}

	account, err := s.uow.Accounts().GetByURN(ctx, accountURN)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound(errs.KeyAccountNotFound, "account does not exist for the given urn")
		}
		return nil, s.fail(accountURN, err)
	}

	credits, err := s.uow.Transactions().ListByPayeeURN(ctx, accountURN)
	if err != nil {
		return nil, s.fail(accountURN, err)
	}
	debits, err := s.uow.Transactions().ListByPayerURN(ctx, accountURN)
	if err != nil {
		return nil, s.fail(accountURN, err)
	}

	entries := make([]Entry, 0, len(credits)+len(debits))
	for _, txn := range credits {
		entries = append(entries, s.entry(ctx, account, txn, domain.DirectionCredit, txn.PayerAccountURN))
	}
	for _, txn := range debits {
		entries = append(entries, s.entry(ctx, account, txn, domain.DirectionDebit, txn.PayeeAccountURN))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return entries[i].TransactionURN < entries[j].TransactionURN
	})
	return entries, nil
}

// entry builds one statement line. The counterparty account name is
// resolved best-effort: a transfer may reference an account outside this
// ledger, and the statement must tolerate that.
func (s *Service) entry(
	ctx context.Context,
	account *domain.Account,
	txn *domain.Transaction,
	direction domain.Direction,
	counterpartyURN *string,
) Entry {
	e := Entry{
		TransactionURN: txn.URN,
		Amount:         txn.Amount,
		CurrencyCode:   account.Currency.Code,
		Timestamp:      txn.CreatedAt,
		Direction:      direction,
		Purpose:        txn.Purpose,
	}
	if counterpartyURN == nil {
		return e
	}
	e.CounterpartyURN = counterpartyURN
	counterparty, err := s.uow.Accounts().GetByURN(ctx, *counterpartyURN)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("counterparty lookup failed",
				"account_urn", account.URN,
				"counterparty_urn", *counterpartyURN,
				"error", err,
			)
		}
		return e
	}
	e.CounterpartyName = &counterparty.Name
	return e
}

func (s *Service) fail(accountURN string, err error) error {
	s.logger.Error("get statement failed", "account_urn", accountURN, "error", err)
	return errs.Ensure(err)
}
