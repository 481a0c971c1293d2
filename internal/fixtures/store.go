// Package fixtures provides an in-memory record store implementing the
// repository contracts. Tests run the real services against it: Do gives
// snapshot-rollback atomicity, and a single mutex held for the whole unit
// of work gives the same per-account serialization the Postgres row locks
// provide.
package fixtures

import (
	"context"
	"sync"

	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/money"
	"github.com/fintrack/ledger/pkg/repository"
	"github.com/google/uuid"
)

// Store is the in-memory record store.
type Store struct {
	mu   sync.Mutex
	data *data

	// Fault injection for atomicity tests. The next matching operation
	// fails once with the given error.
	FailBalancesCreate    error
	FailTransactionCreate error
	FailApplyDelta        error
}

type data struct {
	accounts map[string]*domain.Account  // by URN
	order    []string                    // URNs in creation order
	balances map[string]*domain.Balances // by account URN
	txns     []*domain.Transaction
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newData()}
}

func newData() *data {
	return &data{
		accounts: make(map[string]*domain.Account),
		balances: make(map[string]*domain.Balances),
	}
}

func (d *data) clone() *data {
	c := newData()
	for urn, a := range d.accounts {
		copied := *a
		c.accounts[urn] = &copied
	}
	c.order = append([]string(nil), d.order...)
	for urn, b := range d.balances {
		copied := *b
		c.balances[urn] = &copied
	}
	c.txns = append([]*domain.Transaction(nil), d.txns...)
	return c
}

// Do implements repository.UnitOfWork. The store mutex is held for the
// whole unit, and on error the pre-unit snapshot is restored, so partial
// writes are never observable.
func (s *Store) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(&unit{s: s}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Accounts implements repository.UnitOfWork.
func (s *Store) Accounts() repository.AccountRepository { return &accountRepo{s: s} }

// Balances implements repository.UnitOfWork.
func (s *Store) Balances() repository.BalancesRepository { return &balancesRepo{s: s} }

// Transactions implements repository.UnitOfWork.
func (s *Store) Transactions() repository.TransactionRepository { return &transactionRepo{s: s} }

// unit is the store view handed to the function inside Do. Its repositories
// skip locking because Do already holds the mutex.
type unit struct {
	s *Store
}

func (u *unit) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *unit) Accounts() repository.AccountRepository { return &accountRepo{s: u.s, inTx: true} }

func (u *unit) Balances() repository.BalancesRepository { return &balancesRepo{s: u.s, inTx: true} }

func (u *unit) Transactions() repository.TransactionRepository {
	return &transactionRepo{s: u.s, inTx: true}
}

func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type accountRepo struct {
	s    *Store
	inTx bool
}

func (r *accountRepo) Create(_ context.Context, a *domain.Account) error {
	defer r.s.lock(r.inTx)()
	d := r.s.data
	if _, exists := d.accounts[a.URN]; exists {
		return repository.ErrDuplicate
	}
	for _, urn := range d.order {
		other := d.accounts[urn]
		if !other.Deleted && other.OwnerID == a.OwnerID && other.Name == a.Name {
			return repository.ErrDuplicate
		}
	}
	copied := *a
	d.accounts[a.URN] = &copied
	d.order = append(d.order, a.URN)
	return nil
}

func (r *accountRepo) GetByURN(_ context.Context, urn string) (*domain.Account, error) {
	defer r.s.lock(r.inTx)()
	a, ok := r.s.data.accounts[urn]
	if !ok || a.Deleted {
		return nil, repository.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *accountRepo) GetByOwnerAndName(_ context.Context, ownerID uuid.UUID, name string) (*domain.Account, error) {
	defer r.s.lock(r.inTx)()
	for _, urn := range r.s.data.order {
		a := r.s.data.accounts[urn]
		if !a.Deleted && a.OwnerID == ownerID && a.Name == name {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *accountRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Account, error) {
	defer r.s.lock(r.inTx)()
	var accounts []*domain.Account
	for _, urn := range r.s.data.order {
		a := r.s.data.accounts[urn]
		if !a.Deleted && a.OwnerID == ownerID {
			copied := *a
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

func (r *accountRepo) GetForUpdate(_ context.Context, urns []string) (map[string]*domain.Account, error) {
	defer r.s.lock(r.inTx)()
	accounts := make(map[string]*domain.Account, len(urns))
	for _, urn := range urns {
		if a, ok := r.s.data.accounts[urn]; ok && !a.Deleted {
			copied := *a
			accounts[urn] = &copied
		}
	}
	return accounts, nil
}

func (r *accountRepo) UpdateBalance(_ context.Context, accountID uuid.UUID, balance money.Money) error {
	defer r.s.lock(r.inTx)()
	for _, a := range r.s.data.accounts {
		if a.ID == accountID {
			a.Balance = balance
			return nil
		}
	}
	return repository.ErrNotFound
}

type balancesRepo struct {
	s    *Store
	inTx bool
}

func (r *balancesRepo) Create(_ context.Context, b *domain.Balances) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.FailBalancesCreate; err != nil {
		r.s.FailBalancesCreate = nil
		return err
	}
	if _, exists := r.s.data.balances[b.AccountURN]; exists {
		return repository.ErrDuplicate
	}
	copied := *b
	r.s.data.balances[b.AccountURN] = &copied
	return nil
}

func (r *balancesRepo) GetByAccountURN(_ context.Context, accountURN string) (*domain.Balances, error) {
	defer r.s.lock(r.inTx)()
	b, ok := r.s.data.balances[accountURN]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *balancesRepo) ApplyDelta(_ context.Context, accountID uuid.UUID, debit, credit, balance money.Money) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.FailApplyDelta; err != nil {
		r.s.FailApplyDelta = nil
		return err
	}
	for _, b := range r.s.data.balances {
		if b.AccountID == accountID {
			var err error
			if b.TotalDebit, err = b.TotalDebit.Add(debit); err != nil {
				return err
			}
			if b.TotalCredit, err = b.TotalCredit.Add(credit); err != nil {
				return err
			}
			if b.TotalBalance, err = b.TotalBalance.Add(balance); err != nil {
				return err
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

type transactionRepo struct {
	s    *Store
	inTx bool
}

func (r *transactionRepo) Create(_ context.Context, t *domain.Transaction) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.FailTransactionCreate; err != nil {
		r.s.FailTransactionCreate = nil
		return err
	}
	copied := *t
	r.s.data.txns = append(r.s.data.txns, &copied)
	return nil
}

func (r *transactionRepo) ListByPayerURN(_ context.Context, accountURN string) ([]*domain.Transaction, error) {
	defer r.s.lock(r.inTx)()
	return r.filter(func(t *domain.Transaction) bool {
		return t.PayerAccountURN != nil && *t.PayerAccountURN == accountURN
	}), nil
}

func (r *transactionRepo) ListByPayeeURN(_ context.Context, accountURN string) ([]*domain.Transaction, error) {
	defer r.s.lock(r.inTx)()
	return r.filter(func(t *domain.Transaction) bool {
		return t.PayeeAccountURN != nil && *t.PayeeAccountURN == accountURN
	}), nil
}

func (r *transactionRepo) filter(keep func(*domain.Transaction) bool) []*domain.Transaction {
	var txns []*domain.Transaction
	for _, t := range r.s.data.txns {
		if keep(t) {
			copied := *t
			txns = append(txns, &copied)
		}
	}
	return txns
}
