package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fintrack/ledger/pkg/domain"
)

// Memory is an in-process Bus. Handlers run synchronously in registration
// order; a panicking handler is recovered and logged so one faulty
// subscriber cannot take down the publisher.
type Memory struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// NewMemory creates an in-process event bus.
func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Publish implements Bus.
func (b *Memory) Publish(ctx context.Context, event domain.Event) {
	b.mu.RLock()
	handlers := b.handlers[event.Type()]
	b.mu.RUnlock()
	for _, h := range handlers {
		b.dispatch(ctx, event, h)
	}
}

func (b *Memory) dispatch(ctx context.Context, event domain.Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "event_type", event.Type(), "panic", r)
		}
	}()
	h(ctx, event)
}

// Subscribe implements Bus.
func (b *Memory) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
