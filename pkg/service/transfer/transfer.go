// Package transfer implements the transaction engine: the validation
// pipeline and atomic commit of money movements between accounts.
package transfer

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/errs"
	"github.com/fintrack/ledger/pkg/eventbus"
	"github.com/fintrack/ledger/pkg/money"
	"github.com/fintrack/ledger/pkg/repository"
	"github.com/google/uuid"
)

// Command carries the input for one transfer. Exactly one of PayerURN and
// PayeeURN may be empty; the missing side is a counterparty outside this
// ledger.
type Command struct {
	InitiatorID uuid.UUID
	PayerURN    string
	PayeeURN    string
	Amount      float64
	Purpose     string
}

// Receipt is the result of a committed transfer. Payer and Payee carry
// post-commit balances for the caller to format a response; either may be
// nil.
type Receipt struct {
	Transaction *domain.Transaction
	Currency    currency.Currency
	Payer       *domain.Account
	Payee       *domain.Account
}

// Service validates and commits transfers.
type Service struct {
	uow      repository.UnitOfWork
	registry *currency.Registry
	bus      eventbus.Bus
	logger   *slog.Logger
}

// NewService wires the transaction engine.
func NewService(uow repository.UnitOfWork, registry *currency.Registry, bus eventbus.Bus, logger *slog.Logger) *Service {
	return &Service{uow: uow, registry: registry, bus: bus, logger: logger}
}

// Execute runs the validation pipeline and, if every check passes, commits
// the transaction record and both balance updates as one atomic unit.
//
// The pipeline order is fixed; each failure short-circuits with its own
// typed error:
//  1. presence: both URNs empty is invalid input, identical URNs conflict
//  2. resolution: each present URN must name an existing account
//  3. the transfer currency is the payer's when a payer is present,
//     otherwise the payee's
//  4. the initiator must own at least one resolved account
//  5. with both sides resolved, the currencies must match
//  6. the amount must be a finite number greater than zero
//  7. the payer's balance must cover the amount
//
// Accounts are resolved under exclusive row locks in ascending URN order,
// so the balance check in step 7 still holds at commit time and two
// concurrent transfers cannot both pass it and drive a balance negative.
func (s *Service) Execute(ctx context.Context, cmd Command) (*Receipt, error) {
	logger := s.logger.With(
		"initiator_id", cmd.InitiatorID,
		"payer_urn", cmd.PayerURN,
		"payee_urn", cmd.PayeeURN,
	)

	payerURN := strings.TrimSpace(cmd.PayerURN)
	payeeURN := strings.TrimSpace(cmd.PayeeURN)
	if payerURN == "" && payeeURN == "" {
		return nil, errs.Validation(errs.KeyInvalidAccountURN,
			"payee and payer account URN both cannot be empty or none")
	}
	if payerURN == payeeURN {
		return nil, errs.Conflict(errs.KeySameAccountURN,
			"payer and payee account URNs cannot be the same")
	}

	var receipt *Receipt
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		payer, payee, err := s.resolveForUpdate(ctx, uow, payerURN, payeeURN)
		if err != nil {
			return err
		}

		cur := transferCurrency(payer, payee)

		if !ownsEither(cmd.InitiatorID, payer, payee) {
			return errs.Authorization(errs.KeyNoUserAssociation,
				"at least one of the payer or payee accounts must belong to the initiator")
		}
		if payer != nil && payee != nil && payer.Currency.ID != payee.Currency.ID {
			return errs.BusinessRule(errs.KeyInvalidCurrency,
				"payee and payer account currencies do not match")
		}

		amount, err := money.New(cmd.Amount, cur)
		if err != nil || !amount.IsPositive() {
			return errs.Validation(errs.KeyInvalidAmount, "invalid amount")
		}

		if payer != nil {
			insufficient, err := payer.Balance.LessThan(amount)
			if err != nil {
				return err
			}
			if insufficient {
				return errs.BusinessRule(errs.KeyInsufficientBalance,
					"insufficient balance in payer account")
			}
		}

		receipt, err = s.commit(ctx, uow, payer, payee, amount, cur, cmd)
		return err
	})
	if err != nil {
		if e, ok := errs.As(err); ok && e.Kind != errs.KindSystem {
			return nil, e
		}
		logger.Error("transfer failed", "error", err)
		return nil, errs.Ensure(err)
	}

	logger.Info("transfer committed",
		"transaction_urn", receipt.Transaction.URN,
		"amount", receipt.Transaction.Amount.String(),
	)
	s.bus.Publish(ctx, domain.TransferCommitted{
		Transaction: receipt.Transaction,
		Currency:    receipt.Currency,
		Payer:       receipt.Payer,
		Payee:       receipt.Payee,
		OccurredAt:  time.Now().UTC(),
	})
	return receipt, nil
}

// resolveForUpdate locks and loads the present accounts. Lock order is
// ascending URN so concurrent transfers over the same pair cannot deadlock.
func (s *Service) resolveForUpdate(
	ctx context.Context,
	uow repository.UnitOfWork,
	payerURN, payeeURN string,
) (payer, payee *domain.Account, err error) {
	urns := make([]string, 0, 2)
	if payerURN != "" {
		urns = append(urns, payerURN)
	}
	if payeeURN != "" {
		urns = append(urns, payeeURN)
	}
	sort.Strings(urns)

	accounts, err := uow.Accounts().GetForUpdate(ctx, urns)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, err
	}
	if payeeURN != "" {
		if payee = accounts[payeeURN]; payee == nil {
			return nil, nil, errs.NotFound(errs.KeyAccountNotFound,
				"payee account does not exist for the given urn")
		}
	}
	if payerURN != "" {
		if payer = accounts[payerURN]; payer == nil {
			return nil, nil, errs.NotFound(errs.KeyAccountNotFound,
				"payer account does not exist for the given urn")
		}
	}
	return payer, payee, nil
}

// commit inserts the transaction record and applies both balance deltas.
// It runs inside the unit of work; any error rolls back the whole unit.
func (s *Service) commit(
	ctx context.Context,
	uow repository.UnitOfWork,
	payer, payee *domain.Account,
	amount money.Money,
	cur currency.Currency,
	cmd Command,
) (*Receipt, error) {
	txn := domain.NewTransaction(payer, payee, amount, strings.TrimSpace(cmd.Purpose), cmd.InitiatorID)
	if err := uow.Transactions().Create(ctx, txn); err != nil {
		return nil, err
	}

	zero := money.Zero(cur)
	if payer != nil {
		if err := uow.Balances().ApplyDelta(ctx, payer.ID, amount, zero, amount.Negate()); err != nil {
			return nil, err
		}
		balance, err := payer.Balance.Sub(amount)
		if err != nil {
			return nil, err
		}
		payer.Balance = balance
		if err := uow.Accounts().UpdateBalance(ctx, payer.ID, balance); err != nil {
			return nil, err
		}
	}
	if payee != nil {
		if err := uow.Balances().ApplyDelta(ctx, payee.ID, zero, amount, amount); err != nil {
			return nil, err
		}
		balance, err := payee.Balance.Add(amount)
		if err != nil {
			return nil, err
		}
		payee.Balance = balance
		if err := uow.Accounts().UpdateBalance(ctx, payee.ID, balance); err != nil {
			return nil, err
		}
	}

	return &Receipt{Transaction: txn, Currency: cur, Payer: payer, Payee: payee}, nil
}

// transferCurrency picks the authoritative currency: the payer's when
// present, otherwise the payee's.
func transferCurrency(payer, payee *domain.Account) currency.Currency {
	if payer != nil {
		return payer.Currency
	}
	return payee.Currency
}

func ownsEither(initiatorID uuid.UUID, payer, payee *domain.Account) bool {
	if payer != nil && payer.OwnerID == initiatorID {
		return true
	}
	if payee != nil && payee.OwnerID == initiatorID {
		return true
	}
	return false
}
