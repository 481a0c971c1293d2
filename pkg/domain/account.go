// Package domain holds the ledger's core entities: accounts, their running
// balances, and the immutable transaction log.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrOwnerRequired is returned when building an account without an owner.
	ErrOwnerRequired = errors.New("account owner is required")
	// ErrNameRequired is returned when building an account without a name.
	ErrNameRequired = errors.New("account name is required")
)

// Account is a user's ledger account. Its Balance field is a projection of
// the paired Balances record's total; the two are only ever written together
// inside one unit of work.
type Account struct {
	ID        uuid.UUID
	URN       string
	OwnerID   uuid.UUID
	Name      string
	Currency  currency.Currency
	Balance   money.Money
	Deleted   bool
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builder constructs Account instances, validating invariants on Build.
type Builder struct {
	id        uuid.UUID
	urn       string
	ownerID   uuid.UUID
	name      string
	cur       currency.Currency
	balance   money.Money
	deleted   bool
	createdAt time.Time
	updatedAt time.Time
}

// NewAccount starts a builder with a fresh identity and creation time.
func NewAccount() *Builder {
	id := uuid.New()
	return &Builder{
		id:        id,
		urn:       AccountURN(id),
		createdAt: time.Now().UTC(),
	}
}

// WithID sets the account id (and derived URN), for store hydration.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithURN overrides the URN, for store hydration.
func (b *Builder) WithURN(urn string) *Builder {
	b.urn = urn
	return b
}

// WithOwner sets the owning user. Mandatory.
func (b *Builder) WithOwner(ownerID uuid.UUID) *Builder {
	b.ownerID = ownerID
	return b
}

// WithName sets the per-owner-unique account name. Mandatory.
func (b *Builder) WithName(name string) *Builder {
	b.name = strings.TrimSpace(name)
	return b
}

// WithCurrency sets the account currency. Mandatory.
func (b *Builder) WithCurrency(cur currency.Currency) *Builder {
	b.cur = cur
	return b
}

// WithBalance sets the balance, for store hydration or test setup.
func (b *Builder) WithBalance(balance money.Money) *Builder {
	b.balance = balance
	return b
}

// WithDeleted sets the soft-delete flag, for store hydration.
func (b *Builder) WithDeleted(deleted bool) *Builder {
	b.deleted = deleted
	return b
}

// WithCreatedAt sets the creation timestamp, for store hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp, for store hydration.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates the invariants and returns the account. A zero-valued
// balance in the account currency is applied when none was set.
func (b *Builder) Build() (*Account, error) {
	if b.ownerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	if b.name == "" {
		return nil, ErrNameRequired
	}
	if !currency.IsValidFormat(b.cur.Code) {
		return nil, errors.New("account currency is required")
	}
	balance := b.balance
	if balance.Currency().Code == "" {
		balance = money.Zero(b.cur)
	}
	return &Account{
		ID:        b.id,
		URN:       b.urn,
		OwnerID:   b.ownerID,
		Name:      b.name,
		Currency:  b.cur,
		Balance:   balance,
		Deleted:   b.deleted,
		CreatedBy: b.ownerID,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}
