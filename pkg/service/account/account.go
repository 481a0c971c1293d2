// Package account provides the account ledger: creating accounts with their
// paired zero balances row, and reading accounts back.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/errs"
	"github.com/fintrack/ledger/pkg/eventbus"
	"github.com/fintrack/ledger/pkg/repository"
	"github.com/google/uuid"
)

// Create carries the input for opening a new account.
type Create struct {
	OwnerID      uuid.UUID
	Name         string
	CurrencyCode string
}

// Service implements account lifecycle operations.
type Service struct {
	uow      repository.UnitOfWork
	registry *currency.Registry
	bus      eventbus.Bus
	logger   *slog.Logger
}

// NewService wires the account ledger.
func NewService(uow repository.UnitOfWork, registry *currency.Registry, bus eventbus.Bus, logger *slog.Logger) *Service {
	return &Service{uow: uow, registry: registry, bus: bus, logger: logger}
}

// CreateAccount opens an account and its zero balances row as one atomic
// unit. It fails with a conflict when the owner already holds an account of
// that name, and with not-found when the currency code is unregistered.
func (s *Service) CreateAccount(ctx context.Context, cmd Create) (*domain.Account, error) {
	logger := s.logger.With("owner_id", cmd.OwnerID, "account_name", cmd.Name, "currency", cmd.CurrencyCode)

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errs.Validation(errs.KeyInvalidAccountName, "account name cannot be empty")
	}
	if cmd.OwnerID == uuid.Nil {
		return nil, errs.Validation(errs.KeyNoUserAssociation, "account owner is required")
	}
	cur, ok := s.registry.ByCode(cmd.CurrencyCode)
	if !ok {
		return nil, errs.NotFound(errs.KeyInvalidCurrencyCode, fmt.Sprintf(
			"invalid currency code provided, allowed values are %s",
			strings.Join(s.registry.Codes(), ", ")))
	}

	var (
		acct *domain.Account
		bal  *domain.Balances
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		_, err := uow.Accounts().GetByOwnerAndName(ctx, cmd.OwnerID, name)
		switch {
		case err == nil:
			return errs.Conflict(errs.KeyAccountExists,
				"ledger account already exists for the given name for this user")
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		acct, err = domain.NewAccount().
			WithOwner(cmd.OwnerID).
			WithName(name).
			WithCurrency(cur).
			Build()
		if err != nil {
			return errs.Validation(errs.KeyInvalidAccountName, err.Error())
		}
		if err = uow.Accounts().Create(ctx, acct); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return errs.Conflict(errs.KeyAccountExists,
					"ledger account already exists for the given name for this user")
			}
			return err
		}
		bal = domain.NewBalances(acct)
		return uow.Balances().Create(ctx, bal)
	})
	if err != nil {
		return nil, s.surface(logger, "create account failed", err)
	}

	logger.Info("account created", "account_urn", acct.URN)
	s.bus.Publish(ctx, domain.AccountCreated{
		Account:    acct,
		Balances:   bal,
		Currency:   cur,
		OccurredAt: time.Now().UTC(),
	})
	return acct, nil
}

// GetAccount returns the non-deleted account with the given URN.
func (s *Service) GetAccount(ctx context.Context, urn string) (*domain.Account, error) {
	urn = strings.TrimSpace(urn)
	if urn == "" {
		return nil, errs.Validation(errs.KeyInvalidAccountURN, "account URN cannot be empty or none")
	}
	acct, err := s.uow.Accounts().GetByURN(ctx, urn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound(errs.KeyAccountNotFound, "account does not exist for the given urn")
		}
		return nil, s.surface(s.logger.With("account_urn", urn), "get account failed", err)
	}
	return acct, nil
}

// ListAccounts returns the owner's accounts in creation order.
func (s *Service) ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error) {
	if ownerID == uuid.Nil {
		return nil, errs.Validation(errs.KeyNoUserAssociation, "owner id is required")
	}
	accounts, err := s.uow.Accounts().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.surface(s.logger.With("owner_id", ownerID), "list accounts failed", err)
	}
	return accounts, nil
}

// surface passes typed errors through and converts anything else into a
// logged system error.
func (s *Service) surface(logger *slog.Logger, msg string, err error) error {
	if e, ok := errs.As(err); ok && e.Kind != errs.KindSystem {
		return e
	}
	logger.Error(msg, "error", err)
	return errs.Ensure(err)
}
