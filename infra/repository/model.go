package repository

import (
	"time"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/money"
	"github.com/google/uuid"
)

// Account is the account row. The (owner_id, name) pair is unique: an owner
// holds at most one account per name.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	URN          string    `gorm:"uniqueIndex;not null"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_account_owner_name,priority:1"`
	Name         string    `gorm:"size:255;not null;uniqueIndex:idx_account_owner_name,priority:2"`
	CurrencyID   int64     `gorm:"not null"`
	CurrencyCode string    `gorm:"type:varchar(3);not null"`
	Balance      int64     `gorm:"not null"`
	IsDeleted    bool      `gorm:"not null;default:false"`
	CreatedBy    uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Balances is the running-totals row, one per account.
type Balances struct {
	AccountID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountURN   string    `gorm:"uniqueIndex;not null"`
	TotalBalance int64     `gorm:"not null"`
	TotalCredit  int64     `gorm:"not null"`
	TotalDebit   int64     `gorm:"not null"`
	CurrencyCode string    `gorm:"type:varchar(3);not null"`
	CurrencyID   int64     `gorm:"not null"`
	CreatedBy    uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Transaction is one append-only transfer record. Rows are inserted inside
// the transfer unit of work and never updated or deleted.
type Transaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	URN             string     `gorm:"uniqueIndex;not null"`
	PayerAccountID  *uuid.UUID `gorm:"type:uuid"`
	PayerAccountURN *string    `gorm:"index"`
	PayeeAccountID  *uuid.UUID `gorm:"type:uuid"`
	PayeeAccountURN *string    `gorm:"index"`
	Amount          int64      `gorm:"not null"`
	CurrencyCode    string     `gorm:"type:varchar(3);not null"`
	CurrencyID      int64      `gorm:"not null"`
	Purpose         string
	CreatedBy       uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time `gorm:"index"`
}

// Currency is the read-only currency lookup row.
type Currency struct {
	ID       int64  `gorm:"primaryKey"`
	Code     string `gorm:"type:varchar(3);uniqueIndex;not null"`
	Name     string `gorm:"not null"`
	Decimals int32  `gorm:"not null;default:2"`
}

// Models lists everything AutoMigrate manages.
func Models() []any {
	return []any{&Currency{}, &Account{}, &Balances{}, &Transaction{}}
}

func accountToModel(a *domain.Account) Account {
	return Account{
		ID:           a.ID,
		URN:          a.URN,
		OwnerID:      a.OwnerID,
		Name:         a.Name,
		CurrencyID:   a.Currency.ID,
		CurrencyCode: a.Currency.Code,
		Balance:      a.Balance.Units(),
		IsDeleted:    a.Deleted,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (m *Account) toDomain(reg *currency.Registry) *domain.Account {
	cur := resolveCurrency(reg, m.CurrencyID, m.CurrencyCode)
	return &domain.Account{
		ID:        m.ID,
		URN:       m.URN,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		Currency:  cur,
		Balance:   money.FromUnits(m.Balance, cur),
		Deleted:   m.IsDeleted,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func balancesToModel(b *domain.Balances) Balances {
	cur := b.TotalBalance.Currency()
	return Balances{
		AccountID:    b.AccountID,
		AccountURN:   b.AccountURN,
		TotalBalance: b.TotalBalance.Units(),
		TotalCredit:  b.TotalCredit.Units(),
		TotalDebit:   b.TotalDebit.Units(),
		CurrencyCode: cur.Code,
		CurrencyID:   cur.ID,
		CreatedBy:    b.CreatedBy,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (m *Balances) toDomain(reg *currency.Registry) *domain.Balances {
	cur := resolveCurrency(reg, m.CurrencyID, m.CurrencyCode)
	return &domain.Balances{
		AccountID:    m.AccountID,
		AccountURN:   m.AccountURN,
		TotalBalance: money.FromUnits(m.TotalBalance, cur),
		TotalCredit:  money.FromUnits(m.TotalCredit, cur),
		TotalDebit:   money.FromUnits(m.TotalDebit, cur),
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func transactionToModel(t *domain.Transaction) Transaction {
	cur := t.Amount.Currency()
	return Transaction{
		ID:              t.ID,
		URN:             t.URN,
		PayerAccountID:  t.PayerAccountID,
		PayerAccountURN: t.PayerAccountURN,
		PayeeAccountID:  t.PayeeAccountID,
		PayeeAccountURN: t.PayeeAccountURN,
		Amount:          t.Amount.Units(),
		CurrencyCode:    cur.Code,
		CurrencyID:      cur.ID,
		Purpose:         t.Purpose,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *Transaction) toDomain(reg *currency.Registry) *domain.Transaction {
	cur := resolveCurrency(reg, m.CurrencyID, m.CurrencyCode)
	return &domain.Transaction{
		ID:              m.ID,
		URN:             m.URN,
		PayerAccountID:  m.PayerAccountID,
		PayerAccountURN: m.PayerAccountURN,
		PayeeAccountID:  m.PayeeAccountID,
		PayeeAccountURN: m.PayeeAccountURN,
		Amount:          money.FromUnits(m.Amount, cur),
		Purpose:         m.Purpose,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}

// resolveCurrency hydrates a row's currency from the registry. Rows written
// before a currency was retired can still be read back: the stored code is
// kept with the conventional two decimals.
func resolveCurrency(reg *currency.Registry, id int64, code string) currency.Currency {
	if cur, ok := reg.ByID(id); ok {
		return cur
	}
	if cur, ok := reg.ByCode(code); ok {
		return cur
	}
	return currency.Currency{ID: id, Code: code, Decimals: 2}
}
