package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusWithoutRedisURL(t *testing.T) {
	b := NewBus("", nil)
	_, ok := b.(*NullBus)
	assert.True(t, ok, "empty Redis URL should give the null bus")
}

func TestNewBusWithBadRedisURL(t *testing.T) {
	// Unparseable URL falls back to the null bus rather than failing.
	b := NewBus("not-a-url", nil)
	_, ok := b.(*NullBus)
	assert.True(t, ok)
}

func TestNullBusPublish(t *testing.T) {
	b := NewNullBus(nil)
	defer b.Close()

	err := b.PublishRefresh(context.Background(), RefreshMessage{
		Action:    "mark_reviewed",
		CaseCount: 3,
		Source:    "console-a",
		Timestamp: time.Now().Unix(),
	})
	assert.NoError(t, err)
	assert.NoError(t, b.HealthCheck(context.Background()))
}

func TestNullBusSubscribeBlocksUntilCancel(t *testing.T) {
	b := NewNullBus(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- b.Subscribe(ctx, "console-a", func(RefreshMessage) {
			t.Error("null bus must never deliver messages")
		})
	}()

	select {
	case <-done:
		t.Fatal("Subscribe returned before cancellation")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Subscribe did not return after cancellation")
	}
}
