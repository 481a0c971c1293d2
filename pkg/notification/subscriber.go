package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fintrack/ledger/pkg/domain"
	"github.com/fintrack/ledger/pkg/eventbus"
)

// Subscriber consumes post-commit domain events and fans receipts out to
// the configured notifiers. Delivery runs in its own goroutine with a
// detached context, so a cancelled request context cannot abort a receipt
// for a commit that already happened.
type Subscriber struct {
	notifiers []Notifier
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// NewSubscriber creates the receipt subscriber.
func NewSubscriber(logger *slog.Logger, notifiers ...Notifier) *Subscriber {
	return &Subscriber{notifiers: notifiers, logger: logger}
}

// Register attaches the subscriber to the bus.
func (s *Subscriber) Register(bus eventbus.Bus) {
	bus.Subscribe(domain.AccountCreated{}.Type(), s.onAccountCreated)
	bus.Subscribe(domain.TransferCommitted{}.Type(), s.onTransferCommitted)
}

// Wait blocks until in-flight deliveries finish. Used by tests and
// graceful shutdown.
func (s *Subscriber) Wait() {
	s.wg.Wait()
}

func (s *Subscriber) onAccountCreated(_ context.Context, event domain.Event) {
	e, ok := event.(domain.AccountCreated)
	if !ok {
		return
	}
	body := fmt.Sprintf(
		"Dear User,\n\nYour account has been successfully created with the following details:\n\n"+
			"Account Number: %s\nAccount Name: %s\nCurrency: %s\n"+
			"Total Balance: %s\nTotal Credit Balance: %s\nTotal Debit Balance: %s\n\n"+
			"Thank you for using our services!\n",
		e.Account.URN, e.Account.Name, e.Currency.Name,
		e.Balances.TotalBalance, e.Balances.TotalCredit, e.Balances.TotalDebit,
	)
	s.deliver(Receipt{
		OwnerID: e.Account.OwnerID,
		Subject: "FinTrack Account Creation Confirmation",
		Body:    body,
	})
}

func (s *Subscriber) onTransferCommitted(_ context.Context, event domain.Event) {
	e, ok := event.(domain.TransferCommitted)
	if !ok {
		return
	}
	amount := e.Transaction.Amount
	if e.Payer != nil {
		body := fmt.Sprintf(
			"Your account %s has been debited by %s. The amount was credited to account %s. Remaining balance is %s.",
			e.Payer.URN, amount, urnOrExternal(e.Transaction.PayeeAccountURN), e.Payer.Balance,
		)
		s.deliver(Receipt{
			OwnerID: e.Payer.OwnerID,
			Subject: "FinTrack Debit Transaction Alert",
			Body:    body,
		})
	}
	if e.Payee != nil {
		body := fmt.Sprintf(
			"Your account %s has been credited with %s from account %s. Remaining balance is %s.",
			e.Payee.URN, amount, urnOrExternal(e.Transaction.PayerAccountURN), e.Payee.Balance,
		)
		s.deliver(Receipt{
			OwnerID: e.Payee.OwnerID,
			Subject: "FinTrack Credit Transaction Alert",
			Body:    body,
		})
	}
}

func (s *Subscriber) deliver(r Receipt) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx := context.Background()
		for _, n := range s.notifiers {
			if err := n.Send(ctx, r); err != nil {
				s.logger.Warn("notification delivery failed",
					"owner_id", r.OwnerID,
					"subject", r.Subject,
					"error", err,
				)
			}
		}
	}()
}

func urnOrExternal(urn *string) string {
	if urn == nil {
		return "N/A"
	}
	return *urn
}
