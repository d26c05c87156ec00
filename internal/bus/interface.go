// Package bus propagates refresh notifications between console instances.
// After a successful bulk or calendar action, the acting console publishes
// a message; other consoles watching the same Redis reload their case
// index. When Redis is not configured everything degrades to a no-op.
package bus

import (
	"context"
	"io"
	"log"
)

// RefreshMessage announces that the server-side case set changed.
type RefreshMessage struct {
	Action    string `json:"action"` // "mark_reviewed", "create_calendar_events", ...
	CaseCount int    `json:"case_count"`
	Source    string `json:"source"` // console instance identifier
	Timestamp int64  `json:"timestamp"`
}

// Bus defines the interface for refresh bus implementations.
type Bus interface {
	// PublishRefresh announces a completed action that changed server state.
	PublishRefresh(ctx context.Context, msg RefreshMessage) error

	// Subscribe delivers refresh messages to the handler until the context
	// is cancelled. Messages published by source itself are skipped.
	Subscribe(ctx context.Context, source string, handler func(RefreshMessage)) error

	// HealthCheck performs a health check on the bus connection.
	HealthCheck(ctx context.Context) error

	// Close closes the bus connection.
	Close() error
}

// NewBus creates a bus instance based on the Redis URL. If redisURL is
// empty or the connection fails, returns a NullBus.
func NewBus(redisURL string, logger *log.Logger) Bus {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if redisURL == "" {
		return NewNullBus(logger)
	}

	if redisBus, err := NewRedisBus(redisURL, logger); err == nil {
		return redisBus
	}

	return NewNullBus(logger)
}
