package repository

import (
	"context"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/domain"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db       *gorm.DB
	registry *currency.Registry
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	m := transactionToModel(t)
	return translate(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *transactionRepository) ListByPayerURN(ctx context.Context, accountURN string) ([]*domain.Transaction, error) {
	return r.list(ctx, "payer_account_urn = ?", accountURN)
}

func (r *transactionRepository) ListByPayeeURN(ctx context.Context, accountURN string) ([]*domain.Transaction, error) {
	return r.list(ctx, "payee_account_urn = ?", accountURN)
}

func (r *transactionRepository) list(ctx context.Context, cond string, accountURN string) ([]*domain.Transaction, error) {
	var ms []Transaction
	err := r.db.WithContext(ctx).
		Where(cond, accountURN).
		Order("created_at DESC, urn ASC").
		Find(&ms).Error
	if err != nil {
		return nil, translate(err)
	}
	txns := make([]*domain.Transaction, 0, len(ms))
	for i := range ms {
		txns = append(txns, ms[i].toDomain(r.registry))
	}
	return txns, nil
}
