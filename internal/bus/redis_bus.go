package bus

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const refreshStream = "case_refresh"

// RedisBus publishes refresh messages over a Redis Stream.
type RedisBus struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedisBus creates a new Redis bus instance.
func NewRedisBus(redisURL string, logger *log.Logger) (*RedisBus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = log.New(log.Writer(), "[RedisBus] ", log.LstdFlags)
	}

	return &RedisBus{
		client: client,
		logger: logger,
	}, nil
}

// Close closes the Redis connection.
func (rb *RedisBus) Close() error {
	return rb.client.Close()
}

// PublishRefresh publishes a refresh message to the case_refresh stream.
func (rb *RedisBus) PublishRefresh(ctx context.Context, msg RefreshMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	fields := map[string]interface{}{
		"action":     msg.Action,
		"case_count": msg.CaseCount,
		"source":     msg.Source,
		"timestamp":  msg.Timestamp,
	}

	result := rb.client.XAdd(ctx, &redis.XAddArgs{
		Stream: refreshStream,
		MaxLen: 1000,
		Approx: true,
		Values: fields,
	})

	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to publish refresh: %w", err)
	}

	rb.logger.Printf("Published refresh (%s, %d cases)", msg.Action, msg.CaseCount)
	return nil
}

// Subscribe reads the refresh stream and invokes the handler for every
// message published by a different source. Blocks until the context is
// cancelled.
func (rb *RedisBus) Subscribe(ctx context.Context, source string, handler func(RefreshMessage)) error {
	lastID := "$"
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		streams, err := rb.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{refreshStream, lastID},
			Block:   5 * time.Second,
			Count:   10,
		}).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			rb.logger.Printf("Refresh stream read failed: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				lastID = message.ID
				msg := messageFromFields(message.Values)
				if msg.Source == source {
					continue
				}
				handler(msg)
			}
		}
	}
}

func messageFromFields(values map[string]interface{}) RefreshMessage {
	msg := RefreshMessage{}
	if v, ok := values["action"].(string); ok {
		msg.Action = v
	}
	if v, ok := values["source"].(string); ok {
		msg.Source = v
	}
	if v, ok := values["case_count"].(string); ok {
		if n, err := strconv.Atoi(v); err == nil {
			msg.CaseCount = n
		}
	}
	if v, ok := values["timestamp"].(string); ok {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			msg.Timestamp = ts
		}
	}
	return msg
}

// HealthCheck pings Redis.
func (rb *RedisBus) HealthCheck(ctx context.Context) error {
	return rb.client.Ping(ctx).Err()
}
