package repository

import (
	"context"

	"github.com/fintrack/ledger/pkg/currency"
	"gorm.io/gorm"
)

// CurrencyRepository reads and seeds the currency lookup table. It is used
// only at startup to build the in-process registry; nothing reads the table
// afterwards.
type CurrencyRepository struct {
	db *gorm.DB
}

// NewCurrencyRepository creates the currency store.
func NewCurrencyRepository(db *gorm.DB) *CurrencyRepository {
	return &CurrencyRepository{db: db}
}

// List returns all currencies in id order.
func (r *CurrencyRepository) List(ctx context.Context) ([]currency.Currency, error) {
	var ms []Currency
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, translate(err)
	}
	currencies := make([]currency.Currency, 0, len(ms))
	for _, m := range ms {
		currencies = append(currencies, currency.Currency{
			ID:       m.ID,
			Code:     m.Code,
			Name:     m.Name,
			Decimals: m.Decimals,
		})
	}
	return currencies, nil
}

// Seed inserts the given currencies when the table is empty. A non-empty
// table is left untouched: the table is reference data owned by operators.
func (r *CurrencyRepository) Seed(ctx context.Context, currencies []currency.Currency) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Currency{}).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count > 0 {
		return nil
	}
	ms := make([]Currency, 0, len(currencies))
	for _, c := range currencies {
		ms = append(ms, Currency{ID: c.ID, Code: c.Code, Name: c.Name, Decimals: c.Decimals})
	}
	return translate(r.db.WithContext(ctx).Create(&ms).Error)
}
