// Package eventbus decouples post-commit side effects (receipt
// notifications) from the services that commit.
package eventbus

import (
	"context"

	"github.com/fintrack/ledger/pkg/domain"
)

// Handler consumes one published event.
type Handler func(ctx context.Context, event domain.Event)

// Bus publishes domain events to registered handlers. Publishing never
// affects the outcome of the commit that produced the event.
type Bus interface {
	Publish(ctx context.Context, event domain.Event)
	Subscribe(eventType string, handler Handler)
}
