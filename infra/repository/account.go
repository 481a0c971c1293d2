package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db       *gorm.DB
	registry *currency.Registry
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	m := accountToModel(a)
	return translate(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *accountRepository) GetByURN(ctx context.Context, urn string) (*domain.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		First(&m, "urn = ? AND is_deleted = ?", urn, false).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.toDomain(r.registry), nil
}

func (r *accountRepository) GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		First(&m, "owner_id = ? AND name = ? AND is_deleted = ?", ownerID, name, false).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.toDomain(r.registry), nil
}

func (r *accountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Account, error) {
	var ms []Account
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Order("created_at ASC").
		Find(&ms).Error
	if err != nil {
		return nil, translate(err)
	}
	accounts := make([]*domain.Account, 0, len(ms))
	for i := range ms {
		accounts = append(accounts, ms[i].toDomain(r.registry))
	}
	return accounts, nil
}

// GetForUpdate locks each row with SELECT ... FOR UPDATE, one URN at a
// time in the caller-supplied (ascending) order, which keeps the lock
// acquisition order canonical across concurrent transfers. URNs that do
// not resolve are simply absent from the result; the engine decides which
// missing account is the failure.
func (r *accountRepository) GetForUpdate(ctx context.Context, urns []string) (map[string]*domain.Account, error) {
	accounts := make(map[string]*domain.Account, len(urns))
	for _, urn := range urns {
		var m Account
		err := r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "urn = ? AND is_deleted = ?", urn, false).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, translate(err)
		}
		accounts[urn] = m.toDomain(r.registry)
	}
	return accounts, nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, accountID uuid.UUID, balance money.Money) error {
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"balance":    balance.Units(),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
