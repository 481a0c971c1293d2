// Package repository implements the ledger's record-store contracts on
// gorm/Postgres.
package repository

import (
	"context"
	"errors"

	"github.com/fintrack/ledger/pkg/currency"
	pkgrepo "github.com/fintrack/ledger/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Every repository handed out inside Do is bound to the same
// gorm transaction, so a multi-record write commits or rolls back as one
// unit.
type UoW struct {
	db       *gorm.DB
	tx       *gorm.DB
	registry *currency.Registry
}

// NewUoW creates the unit of work over the given connection. The currency
// registry is needed to hydrate monetary columns with their decimals.
func NewUoW(db *gorm.DB, registry *currency.Registry) *UoW {
	return &UoW{db: db, registry: registry}
}

// Do implements repository.UnitOfWork.
func (u *UoW) Do(ctx context.Context, fn func(uow pkgrepo.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, registry: u.registry})
	})
}

// session returns the transaction when inside Do, the plain connection
// otherwise (reads outside a unit of work).
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// Accounts implements repository.UnitOfWork.
func (u *UoW) Accounts() pkgrepo.AccountRepository {
	return &accountRepository{db: u.session(), registry: u.registry}
}

// Balances implements repository.UnitOfWork.
func (u *UoW) Balances() pkgrepo.BalancesRepository {
	return &balancesRepository{db: u.session(), registry: u.registry}
}

// Transactions implements repository.UnitOfWork.
func (u *UoW) Transactions() pkgrepo.TransactionRepository {
	return &transactionRepository{db: u.session(), registry: u.registry}
}

// translate maps gorm errors onto the store-agnostic sentinels the services
// branch on.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgrepo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return pkgrepo.ErrDuplicate
	}
	return err
}
