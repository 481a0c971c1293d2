// Package repository defines the contracts the ledger core needs from a
// transactional record store. Implementations live in infra/repository
// (gorm/Postgres) and internal/fixtures (in-memory, for tests).
package repository

import (
	"context"
	"errors"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/money"
	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when a record is absent.
// Services translate it into the caller-facing error taxonomy.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a create violates a uniqueness constraint.
var ErrDuplicate = errors.New("record already exists")

// UnitOfWork provides the transaction boundary and repository access in one
// abstraction. All repositories obtained inside Do share the same store
// session, so a multi-record write is atomic: if the given function returns
// an error, nothing it wrote is visible.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. The UnitOfWork passed
	// to fn hands out repositories bound to that transaction.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Accounts() AccountRepository
	Balances() BalancesRepository
	Transactions() TransactionRepository
}

// AccountRepository is the account record store.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	// GetByURN returns the non-deleted account with the given URN.
	GetByURN(ctx context.Context, urn string) (*domain.Account, error)
	// GetByOwnerAndName returns the non-deleted account an owner holds
	// under the given name.
	GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Account, error)
	// ListByOwner returns the owner's non-deleted accounts in creation order.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error)
	// GetForUpdate resolves accounts by URN under an exclusive per-row
	// lock, acquiring locks in ascending URN order so two transfers
	// touching the same pair cannot deadlock. Only meaningful inside Do.
	GetForUpdate(ctx context.Context, urns []string) (map[string]*domain.Account, error)
	// UpdateBalance writes the balance projection of one account.
	UpdateBalance(ctx context.Context, accountID uuid.UUID, balance money.Money) error
}

// BalancesRepository is the running-totals record store.
type BalancesRepository interface {
	Create(ctx context.Context, b *domain.Balances) error
	GetByAccountURN(ctx context.Context, accountURN string) (*domain.Balances, error)
	// ApplyDelta adjusts one account's totals. It is invoked exclusively
	// by the transfer engine inside its unit of work; there is no other
	// balance write path.
	ApplyDelta(ctx context.Context, accountID uuid.UUID, debit, credit, balance money.Money) error
}

// TransactionRepository is the append-only transaction log. There are no
// update or delete operations: persisted transactions are immutable.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	ListByPayerURN(ctx context.Context, accountURN string) ([]*domain.Transaction, error)
	ListByPayeeURN(ctx context.Context, accountURN string) ([]*domain.Transaction, error)
}

// CurrencyRepository backs the startup load of the currency registry.
type CurrencyRepository interface {
	List(ctx context.Context) ([]currency.Currency, error)
	// Seed inserts the given currencies when the table is empty.
	Seed(ctx context.Context, currencies []currency.Currency) error
}
