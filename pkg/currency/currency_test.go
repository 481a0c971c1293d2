package currency_test

import (
	"testing"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"USD", true},
		{"KWD", true},
		{"usd", false},
		{"US", false},
		{"USDT", false},
		{"U$D", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.valid, currency.IsValidFormat(tt.code))
		})
	}
}

func TestNewRegistry(t *testing.T) {
	t.Run("valid set", func(t *testing.T) {
		r, err := currency.NewRegistry(currency.Defaults())
		require.NoError(t, err)
		assert.Equal(t, 10, r.Count())

		usd, ok := r.ByCode("USD")
		require.True(t, ok)
		assert.Equal(t, int64(1), usd.ID)
		assert.Equal(t, int32(2), usd.Decimals)

		jpy, ok := r.ByID(4)
		require.True(t, ok)
		assert.Equal(t, "JPY", jpy.Code)
		assert.Equal(t, int32(0), jpy.Decimals)
	})

	t.Run("normalizes lookup case", func(t *testing.T) {
		r := currency.MustNewRegistry(currency.Defaults())
		c, ok := r.ByCode(" usd ")
		require.True(t, ok)
		assert.Equal(t, "USD", c.Code)
	})

	t.Run("rejects bad code", func(t *testing.T) {
		_, err := currency.NewRegistry([]currency.Currency{{ID: 1, Code: "DOLLARS", Decimals: 2}})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		_, err := currency.NewRegistry([]currency.Currency{
			{ID: 1, Code: "USD", Decimals: 2},
			{ID: 2, Code: "usd", Decimals: 2},
		})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		_, err := currency.NewRegistry([]currency.Currency{
			{ID: 1, Code: "USD", Decimals: 2},
			{ID: 1, Code: "EUR", Decimals: 2},
		})
		assert.Error(t, err)
	})

	t.Run("rejects out of range decimals", func(t *testing.T) {
		_, err := currency.NewRegistry([]currency.Currency{{ID: 1, Code: "USD", Decimals: 9}})
		assert.Error(t, err)
	})
}

func TestRegistry_Codes(t *testing.T) {
	r := currency.MustNewRegistry([]currency.Currency{
		{ID: 1, Code: "USD", Decimals: 2},
		{ID: 2, Code: "EUR", Decimals: 2},
		{ID: 3, Code: "AUD", Decimals: 2},
	})
	assert.Equal(t, []string{"AUD", "EUR", "USD"}, r.Codes())
}
