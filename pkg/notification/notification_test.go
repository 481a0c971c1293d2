package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"sync"
	"testing"
	"time"

	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/eventbus"
	"github.com/fintrack/ledger/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usd = currency.Currency{ID: 1, Code: "USD", Name: "US Dollar", Decimals: 2}

type captureNotifier struct {
	mu       sync.Mutex
	receipts []Receipt
	err      error
}

func (c *captureNotifier) Send(_ context.Context, r Receipt) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.receipts = append(c.receipts, r)
	return nil
}

func (c *captureNotifier) all() []Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Receipt(nil), c.receipts...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildAccount(t *testing.T, owner uuid.UUID, name string, units int64) *domain.Account {
	t.Helper()
	a, err := domain.NewAccount().
		WithOwner(owner).
		WithName(name).
		WithCurrency(usd).
		WithBalance(money.FromUnits(units, usd)).
		Build()
	require.NoError(t, err)
	return a
}

func TestSubscriber_AccountCreated(t *testing.T) {
	capture := &captureNotifier{}
	sub := NewSubscriber(testLogger(), capture)
	bus := eventbus.NewMemory(testLogger())
	sub.Register(bus)

	owner := uuid.New()
	acct := buildAccount(t, owner, "savings", 0)
	bus.Publish(context.Background(), domain.AccountCreated{
		Account:    acct,
		Balances:   domain.NewBalances(acct),
		Currency:   usd,
		OccurredAt: time.Now(),
	})
	sub.Wait()

	receipts := capture.all()
	require.Len(t, receipts, 1)
	assert.Equal(t, owner, receipts[0].OwnerID)
	assert.Equal(t, "FinTrack Account Creation Confirmation", receipts[0].Subject)
	assert.Contains(t, receipts[0].Body, acct.URN)
	assert.Contains(t, receipts[0].Body, "US Dollar")
	assert.Contains(t, receipts[0].Body, "0.00 USD")
}

func TestSubscriber_TransferCommitted(t *testing.T) {
	t.Run("both owners get a receipt", func(t *testing.T) {
		capture := &captureNotifier{}
		sub := NewSubscriber(testLogger(), capture)
		bus := eventbus.NewMemory(testLogger())
		sub.Register(bus)

		alice := uuid.New()
		bob := uuid.New()
		payer := buildAccount(t, alice, "alice main", 6000)
		payee := buildAccount(t, bob, "bob main", 5000)
		txn := domain.NewTransaction(payer, payee, money.FromUnits(4000, usd), "rent", alice)

		bus.Publish(context.Background(), domain.TransferCommitted{
			Transaction: txn,
			Currency:    usd,
			Payer:       payer,
			Payee:       payee,
			OccurredAt:  time.Now(),
		})
		sub.Wait()

		receipts := capture.all()
		require.Len(t, receipts, 2)
		bySubject := map[string]Receipt{}
		for _, r := range receipts {
			bySubject[r.Subject] = r
		}

		debit, ok := bySubject["FinTrack Debit Transaction Alert"]
		require.True(t, ok)
		assert.Equal(t, alice, debit.OwnerID)
		assert.Contains(t, debit.Body, "debited by 40.00 USD")
		assert.Contains(t, debit.Body, "Remaining balance is 60.00 USD")

		credit, ok := bySubject["FinTrack Credit Transaction Alert"]
		require.True(t, ok)
		assert.Equal(t, bob, credit.OwnerID)
		assert.Contains(t, credit.Body, "credited with 40.00 USD")
	})

	t.Run("external payer shows N/A", func(t *testing.T) {
		capture := &captureNotifier{}
		sub := NewSubscriber(testLogger(), capture)
		bus := eventbus.NewMemory(testLogger())
		sub.Register(bus)

		bob := uuid.New()
		payee := buildAccount(t, bob, "bob main", 2550)
		txn := domain.NewTransaction(nil, payee, money.FromUnits(2550, usd), "top-up", bob)

		bus.Publish(context.Background(), domain.TransferCommitted{
			Transaction: txn,
			Currency:    usd,
			Payee:       payee,
			OccurredAt:  time.Now(),
		})
		sub.Wait()

		receipts := capture.all()
		require.Len(t, receipts, 1)
		assert.Contains(t, receipts[0].Body, "from account N/A")
	})

	t.Run("delivery failure does not propagate", func(t *testing.T) {
		failing := &captureNotifier{err: errors.New("relay down")}
		capture := &captureNotifier{}
		sub := NewSubscriber(testLogger(), failing, capture)
		bus := eventbus.NewMemory(testLogger())
		sub.Register(bus)

		bob := uuid.New()
		payee := buildAccount(t, bob, "bob main", 100)
		txn := domain.NewTransaction(nil, payee, money.FromUnits(100, usd), "", bob)

		assert.NotPanics(t, func() {
			bus.Publish(context.Background(), domain.TransferCommitted{
				Transaction: txn, Currency: usd, Payee: payee, OccurredAt: time.Now(),
			})
		})
		sub.Wait()
		assert.Len(t, capture.all(), 1)
	})
}

func TestMailer_Send(t *testing.T) {
	receipt := Receipt{OwnerID: uuid.New(), Subject: "FinTrack Debit Transaction Alert", Body: "hello"}
	cfg := SMTPConfig{Host: "smtp.example.com", Port: 587, Sender: "ledger@example.com", Password: "secret"}

	t.Run("delivers to resolved address", func(t *testing.T) {
		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte
		m := NewMailer(cfg, func(Receipt) (string, bool) { return "owner@example.com", true })
		m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		}

		require.NoError(t, m.Send(context.Background(), receipt))
		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, "ledger@example.com", gotFrom)
		assert.Equal(t, []string{"owner@example.com"}, gotTo)
		assert.Contains(t, string(gotMsg), "Subject: FinTrack Debit Transaction Alert")
		assert.Contains(t, string(gotMsg), "hello")
	})

	t.Run("skips owners without an address", func(t *testing.T) {
		m := NewMailer(cfg, func(Receipt) (string, bool) { return "", false })
		m.send = func(string, smtp.Auth, string, []string, []byte) error {
			t.Fatal("send should not be called")
			return nil
		}
		assert.NoError(t, m.Send(context.Background(), receipt))
	})

	t.Run("missing lookup disables the channel", func(t *testing.T) {
		m := NewMailer(cfg, nil)
		assert.NoError(t, m.Send(context.Background(), receipt))
	})

	t.Run("relay failure surfaces", func(t *testing.T) {
		m := NewMailer(cfg, func(Receipt) (string, bool) { return "owner@example.com", true })
		m.send = func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("relay down")
		}
		err := m.Send(context.Background(), receipt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "owner@example.com")
	})
}

func TestWebhook_Send(t *testing.T) {
	receipt := Receipt{OwnerID: uuid.New(), Subject: "FinTrack Credit Transaction Alert", Body: "hello"}

	t.Run("posts json payload", func(t *testing.T) {
		var gotContentType string
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotContentType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		err := NewWebhook(srv.URL).Send(context.Background(), receipt)
		require.NoError(t, err)
		assert.Equal(t, "application/json", gotContentType)
		assert.Contains(t, string(gotBody), `"subject":"FinTrack Credit Transaction Alert"`)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		err := NewWebhook(srv.URL).Send(context.Background(), receipt)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})
}
