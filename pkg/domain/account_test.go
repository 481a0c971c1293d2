package domain_test

import (
	"strings"
	"testing"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usd = currency.Currency{ID: 1, Code: "USD", Name: "US Dollar", Decimals: 2}

func TestAccountBuilder(t *testing.T) {
	owner := uuid.New()

	t.Run("builds with defaults", func(t *testing.T) {
		a, err := domain.NewAccount().
			WithOwner(owner).
			WithName("savings").
			WithCurrency(usd).
			Build()
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, a.ID)
		assert.True(t, strings.HasPrefix(a.URN, "ACCOUNT_"))
		assert.Equal(t, owner, a.OwnerID)
		assert.Equal(t, owner, a.CreatedBy)
		assert.True(t, a.Balance.IsZero())
		assert.Equal(t, "USD", a.Balance.Code())
		assert.False(t, a.Deleted)
	})

	t.Run("trims the name", func(t *testing.T) {
		a, err := domain.NewAccount().
			WithOwner(owner).
			WithName("  checking  ").
			WithCurrency(usd).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "checking", a.Name)
	})

	t.Run("requires an owner", func(t *testing.T) {
		_, err := domain.NewAccount().WithName("savings").WithCurrency(usd).Build()
		assert.ErrorIs(t, err, domain.ErrOwnerRequired)
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := domain.NewAccount().WithOwner(owner).WithName("   ").WithCurrency(usd).Build()
		assert.ErrorIs(t, err, domain.ErrNameRequired)
	})

	t.Run("requires a currency", func(t *testing.T) {
		_, err := domain.NewAccount().WithOwner(owner).WithName("savings").Build()
		assert.Error(t, err)
	})

	t.Run("hydrates a stored account", func(t *testing.T) {
		id := uuid.New()
		a, err := domain.NewAccount().
			WithID(id).
			WithURN(domain.AccountURN(id)).
			WithOwner(owner).
			WithName("savings").
			WithCurrency(usd).
			WithBalance(money.FromUnits(10000, usd)).
			WithDeleted(true).
			Build()
		require.NoError(t, err)
		assert.Equal(t, id, a.ID)
		assert.Equal(t, domain.AccountURN(id), a.URN)
		assert.Equal(t, int64(10000), a.Balance.Units())
		assert.True(t, a.Deleted)
	})
}

func TestNewBalances(t *testing.T) {
	a, err := domain.NewAccount().
		WithOwner(uuid.New()).
		WithName("savings").
		WithCurrency(usd).
		Build()
	require.NoError(t, err)

	b := domain.NewBalances(a)
	assert.Equal(t, a.ID, b.AccountID)
	assert.Equal(t, a.URN, b.AccountURN)
	assert.True(t, b.TotalBalance.IsZero())
	assert.True(t, b.TotalCredit.IsZero())
	assert.True(t, b.TotalDebit.IsZero())
	assert.Equal(t, "USD", b.TotalBalance.Code())
	assert.Equal(t, a.CreatedBy, b.CreatedBy)
}

func TestNewTransaction(t *testing.T) {
	owner := uuid.New()
	build := func(name string) *domain.Account {
		a, err := domain.NewAccount().WithOwner(owner).WithName(name).WithCurrency(usd).Build()
		require.NoError(t, err)
		return a
	}
	payer := build("payer")
	payee := build("payee")
	amount := money.FromUnits(4000, usd)

	t.Run("both sides resolved", func(t *testing.T) {
		txn := domain.NewTransaction(payer, payee, amount, "rent", owner)
		assert.True(t, strings.HasPrefix(txn.URN, "TXN_"))
		require.NotNil(t, txn.PayerAccountURN)
		require.NotNil(t, txn.PayeeAccountURN)
		assert.Equal(t, payer.URN, *txn.PayerAccountURN)
		assert.Equal(t, payee.URN, *txn.PayeeAccountURN)
		assert.Equal(t, owner, txn.CreatedBy)
		assert.True(t, txn.Amount.Equals(amount))
	})

	t.Run("external payer leaves references nil", func(t *testing.T) {
		txn := domain.NewTransaction(nil, payee, amount, "top-up", owner)
		assert.Nil(t, txn.PayerAccountID)
		assert.Nil(t, txn.PayerAccountURN)
		require.NotNil(t, txn.PayeeAccountURN)
		assert.Equal(t, payee.URN, *txn.PayeeAccountURN)
	})
}
