// Package currency provides the read-only currency registry.
//
// The registry is built once at process start and never mutated afterwards,
// so lookups are safe from any goroutine without locking. Picking up newly
// added currencies requires a restart; that is a documented limitation, not
// something the registry works around at runtime.
package currency

import (
	"fmt"
	"sort"
	"strings"
)

// Currency is a reference entity loaded at startup.
type Currency struct {
	ID       int64
	Code     string // ISO 4217, 3 uppercase letters
	Name     string
	Decimals int32 // decimal places of the smallest unit
}

// IsValidFormat reports whether code looks like an ISO 4217 code
// (exactly three uppercase ASCII letters).
func IsValidFormat(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// Registry holds immutable by-code and by-id currency lookups.
type Registry struct {
	byCode map[string]Currency
	byID   map[int64]Currency
	codes  []string
}

// NewRegistry builds a registry from the given currencies. Codes are
// normalized to upper case; duplicate codes or ids are rejected.
func NewRegistry(currencies []Currency) (*Registry, error) {
	r := &Registry{
		byCode: make(map[string]Currency, len(currencies)),
		byID:   make(map[int64]Currency, len(currencies)),
	}
	for _, c := range currencies {
		c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
		if !IsValidFormat(c.Code) {
			return nil, fmt.Errorf("invalid currency code %q", c.Code)
		}
		if c.Decimals < 0 || c.Decimals > 8 {
			return nil, fmt.Errorf("currency %s: invalid decimals %d", c.Code, c.Decimals)
		}
		if _, dup := r.byCode[c.Code]; dup {
			return nil, fmt.Errorf("duplicate currency code %s", c.Code)
		}
		if _, dup := r.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate currency id %d", c.ID)
		}
		r.byCode[c.Code] = c
		r.byID[c.ID] = c
		r.codes = append(r.codes, c.Code)
	}
	sort.Strings(r.codes)
	return r, nil
}

// MustNewRegistry is NewRegistry that panics on error, for wiring defaults.
func MustNewRegistry(currencies []Currency) *Registry {
	r, err := NewRegistry(currencies)
	if err != nil {
		panic(err)
	}
	return r
}

// ByCode returns the currency registered under code, normalizing case.
func (r *Registry) ByCode(code string) (Currency, bool) {
	c, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// ByID returns the currency registered under id.
func (r *Registry) ByID(id int64) (Currency, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Codes returns all registered codes in sorted order.
func (r *Registry) Codes() []string {
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

// Count returns the number of registered currencies.
func (r *Registry) Count() int { return len(r.byCode) }

// Defaults returns the seed set used when the backing store has no
// currencies yet.
func Defaults() []Currency {
	return []Currency{
		{ID: 1, Code: "USD", Name: "US Dollar", Decimals: 2},
		{ID: 2, Code: "EUR", Name: "Euro", Decimals: 2},
		{ID: 3, Code: "GBP", Name: "Pound Sterling", Decimals: 2},
		{ID: 4, Code: "JPY", Name: "Japanese Yen", Decimals: 0},
		{ID: 5, Code: "INR", Name: "Indian Rupee", Decimals: 2},
		{ID: 6, Code: "EGP", Name: "Egyptian Pound", Decimals: 2},
		{ID: 7, Code: "CAD", Name: "Canadian Dollar", Decimals: 2},
		{ID: 8, Code: "AUD", Name: "Australian Dollar", Decimals: 2},
		{ID: 9, Code: "CHF", Name: "Swiss Franc", Decimals: 2},
		{ID: 10, Code: "KWD", Name: "Kuwaiti Dinar", Decimals: 3},
	}
}
