package queue

import (
	"context"
	"fmt"

	rediscommon "github.com/mediabridge/gateway/common/redis"
)

// RedisQueue publishes messages onto Redis Streams. Once XADD returns, the
// entry is in the stream and survives until trimmed, so a successful Publish
// means the message is durably queued for consumer-group delivery.
type RedisQueue struct {
	client *rediscommon.Client
	maxLen int64
}

// NewRedisQueue creates a stream-backed queue on an existing connection
func NewRedisQueue(client *rediscommon.Client, maxLen int64) *RedisQueue {
	return &RedisQueue{
		client: client,
		maxLen: maxLen,
	}
}

// Publish appends the message to the stream named by topic
func (q *RedisQueue) Publish(ctx context.Context, topic string, key string, message []byte) error {
	_, err := q.client.AddToStream(ctx, topic, q.maxLen, map[string]interface{}{
		"key":     key,
		"payload": string(message),
		"attempt": 0,
	})
	if err != nil {
		return fmt.Errorf("publish to stream %s: %w", topic, err)
	}
	return nil
}

// Health checks the broker connection
func (q *RedisQueue) Health(ctx context.Context) error {
	return q.client.Health(ctx)
}

// Close releases the underlying connection
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
