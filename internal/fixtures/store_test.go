package fixtures_test

import (
	"context"
	"testing"

	"github.com/fintrack/ledger/internal/fixtures"
	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/money"
	"github.com/fintrack/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usd = currency.Currency{ID: 1, Code: "USD", Name: "US Dollar", Decimals: 2}

func buildAccount(t *testing.T, owner uuid.UUID, name string) *domain.Account {
	t.Helper()
	a, err := domain.NewAccount().
		WithOwner(owner).
		WithName(name).
		WithCurrency(usd).
		Build()
	require.NoError(t, err)
	return a
}

func TestStore_AccountRepository(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("create and read back", func(t *testing.T) {
		store := fixtures.NewStore()
		acct := buildAccount(t, owner, "savings")
		require.NoError(t, store.Accounts().Create(ctx, acct))

		got, err := store.Accounts().GetByURN(ctx, acct.URN)
		require.NoError(t, err)
		assert.Equal(t, acct.ID, got.ID)

		// Reads hand out copies, not aliases into the store.
		got.Name = "mutated"
		again, err := store.Accounts().GetByURN(ctx, acct.URN)
		require.NoError(t, err)
		assert.Equal(t, "savings", again.Name)
	})

	t.Run("duplicate owner and name rejected", func(t *testing.T) {
		store := fixtures.NewStore()
		require.NoError(t, store.Accounts().Create(ctx, buildAccount(t, owner, "savings")))
		err := store.Accounts().Create(ctx, buildAccount(t, owner, "savings"))
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("get for update omits missing urns", func(t *testing.T) {
		store := fixtures.NewStore()
		acct := buildAccount(t, owner, "savings")
		require.NoError(t, store.Accounts().Create(ctx, acct))

		missing := domain.AccountURN(uuid.New())
		accounts, err := store.Accounts().GetForUpdate(ctx, []string{acct.URN, missing})
		require.NoError(t, err)
		assert.Contains(t, accounts, acct.URN)
		assert.NotContains(t, accounts, missing)
	})

	t.Run("update balance", func(t *testing.T) {
		store := fixtures.NewStore()
		acct := buildAccount(t, owner, "savings")
		require.NoError(t, store.Accounts().Create(ctx, acct))

		require.NoError(t, store.Accounts().UpdateBalance(ctx, acct.ID, money.FromUnits(500, usd)))
		got, err := store.Accounts().GetByURN(ctx, acct.URN)
		require.NoError(t, err)
		assert.Equal(t, int64(500), got.Balance.Units())

		err = store.Accounts().UpdateBalance(ctx, uuid.New(), money.Zero(usd))
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestStore_DoRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	owner := uuid.New()
	acct := buildAccount(t, owner, "savings")
	require.NoError(t, store.Accounts().Create(ctx, acct))
	require.NoError(t, store.Balances().Create(ctx, domain.NewBalances(acct)))

	err := store.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Accounts().UpdateBalance(ctx, acct.ID, money.FromUnits(999, usd)); err != nil {
			return err
		}
		amount := money.FromUnits(999, usd)
		if err := uow.Balances().ApplyDelta(ctx, acct.ID, money.Zero(usd), amount, amount); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	got, err := store.Accounts().GetByURN(ctx, acct.URN)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())

	bal, err := store.Balances().GetByAccountURN(ctx, acct.URN)
	require.NoError(t, err)
	assert.True(t, bal.TotalCredit.IsZero())
}

func TestStore_DoCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	owner := uuid.New()
	acct := buildAccount(t, owner, "savings")

	err := store.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Accounts().Create(ctx, acct); err != nil {
			return err
		}
		return uow.Balances().Create(ctx, domain.NewBalances(acct))
	})
	require.NoError(t, err)

	_, err = store.Accounts().GetByURN(ctx, acct.URN)
	assert.NoError(t, err)
	_, err = store.Balances().GetByAccountURN(ctx, acct.URN)
	assert.NoError(t, err)
}

func TestStore_DoRespectsContext(t *testing.T) {
	store := fixtures.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Do(ctx, func(repository.UnitOfWork) error {
		t.Fatal("unit must not run after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_FaultInjectionFiresOnce(t *testing.T) {
	ctx := context.Background()
	store := fixtures.NewStore()
	acct := buildAccount(t, uuid.New(), "savings")
	require.NoError(t, store.Accounts().Create(ctx, acct))

	store.FailBalancesCreate = assert.AnError
	err := store.Balances().Create(ctx, domain.NewBalances(acct))
	require.ErrorIs(t, err, assert.AnError)

	assert.NoError(t, store.Balances().Create(ctx, domain.NewBalances(acct)))
}
