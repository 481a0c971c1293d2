package repository

import (
	"context"
	"time"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type balancesRepository struct {
	db       *gorm.DB
	registry *currency.Registry
}

func (r *balancesRepository) Create(ctx context.Context, b *domain.Balances) error {
	m := balancesToModel(b)
	return translate(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *balancesRepository) GetByAccountURN(ctx context.Context, accountURN string) (*domain.Balances, error) {
	var m Balances
	err := r.db.WithContext(ctx).First(&m, "account_urn = ?", accountURN).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.toDomain(r.registry), nil
}

// ApplyDelta adjusts the totals in place with SQL expressions, so the
// update composes with the row lock taken by the transfer engine rather
// than racing a read-modify-write from the client side.
func (r *balancesRepository) ApplyDelta(ctx context.Context, accountID uuid.UUID, debit, credit, balance money.Money) error {
	res := r.db.WithContext(ctx).
		Model(&Balances{}).
		Where("account_id = ?", accountID).
		Updates(map[string]any{
			"total_debit":   gorm.Expr("total_debit + ?", debit.Units()),
			"total_credit":  gorm.Expr("total_credit + ?", credit.Units()),
			"total_balance": gorm.Expr("total_balance + ?", balance.Units()),
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
