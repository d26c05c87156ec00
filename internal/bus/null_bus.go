package bus

import (
	"context"
	"log"
)

// NullBus is a no-op implementation of the bus interface for when Redis is
// disabled.
type NullBus struct {
	logger *log.Logger
}

// NewNullBus creates a new null bus instance.
func NewNullBus(logger *log.Logger) *NullBus {
	if logger == nil {
		logger = log.New(log.Writer(), "[NullBus] ", log.LstdFlags)
	}

	return &NullBus{
		logger: logger,
	}
}

// Close is a no-op for null bus.
func (nb *NullBus) Close() error {
	return nil
}

// PublishRefresh logs the message but doesn't actually publish it.
func (nb *NullBus) PublishRefresh(ctx context.Context, msg RefreshMessage) error {
	nb.logger.Printf("Would publish refresh %s (Redis disabled)", msg.Action)
	return nil
}

// Subscribe blocks until the context is cancelled since this would normally
// be a blocking operation.
func (nb *NullBus) Subscribe(ctx context.Context, source string, handler func(RefreshMessage)) error {
	nb.logger.Printf("Would subscribe to refresh stream (Redis disabled)")
	<-ctx.Done()
	return ctx.Err()
}

// HealthCheck always returns nil for null bus.
func (nb *NullBus) HealthCheck(ctx context.Context) error {
	return nil
}
