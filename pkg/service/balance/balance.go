// Package balance exposes the read side of the balance ledger. The running
// totals themselves are mutated only by the transfer engine inside its unit
// of work; handing out a general-purpose write here would let uncoordinated
// writers drift the totals away from the account projection.
package balance

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/errs"
	"github.com/fintrack/ledger/pkg/repository"
)

// Service reads per-account running totals.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService wires the balance ledger reads.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// GetBalances returns the running totals for the given account URN.
func (s *Service) GetBalances(ctx context.Context, accountURN string) (*domain.Balances, error) {
	accountURN = strings.TrimSpace(accountURN)
	if accountURN == "" {
		return nil, errs.Validation(errs.KeyInvalidAccountURN, "account URN cannot be empty or none")
	}
	bal, err := s.uow.Balances().GetByAccountURN(ctx, accountURN)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFound(errs.KeyBalancesNotFound, "balances do not exist for the given account urn")
		}
		s.logger.Error("get balances failed", "account_urn", accountURN, "error", err)
		return nil, errs.Ensure(err)
	}
	return bal, nil
}
