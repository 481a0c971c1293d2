// Package notification delivers best-effort receipts for account creation
// and committed transfers. Delivery failures are logged and never propagate
// to the caller; nothing here can block or reverse a commit.
package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Receipt is one notification addressed to an account owner.
type Receipt struct {
	OwnerID uuid.UUID `json:"owner_id"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
}

// Notifier delivers a receipt over one channel.
type Notifier interface {
	Send(ctx context.Context, r Receipt) error
}

// LogNotifier writes receipts to the structured log. It is the default
// channel when no SMTP or webhook target is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send implements Notifier.
func (n *LogNotifier) Send(_ context.Context, r Receipt) error {
	n.logger.Info("notification",
		"owner_id", r.OwnerID,
		"subject", r.Subject,
		"body", r.Body,
	)
	return nil
}
