package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/mediabridge/gateway/common/logger"
)

// ErrQueueClosed is returned when publishing to a closed queue
var ErrQueueClosed = errors.New("queue is closed")

// Queue interface for message passing
type Queue interface {
	Publish(ctx context.Context, topic string, key string, message []byte) error
	Health(ctx context.Context) error
	Close() error
}

// Message represents a queue message
type Message struct {
	Topic string
	Key   string
	Value []byte
}

// MemoryQueue is an in-memory queue used in tests and single-process setups
type MemoryQueue struct {
	topics map[string][]*Message
	mu     sync.RWMutex
	log    *logger.Logger
	closed bool
}

// NewMemoryQueue creates a new in-memory queue
func NewMemoryQueue(log *logger.Logger) *MemoryQueue {
	return &MemoryQueue{
		topics: make(map[string][]*Message),
		log:    log,
	}
}

// Publish appends a message to a topic
func (q *MemoryQueue) Publish(ctx context.Context, topic string, key string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.topics[topic] = append(q.topics[topic], &Message{
		Topic: topic,
		Key:   key,
		Value: message,
	})
	q.log.Debug("message published", "topic", topic, "key", key)
	return nil
}

// Health reports whether the queue accepts messages
func (q *MemoryQueue) Health(ctx context.Context) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	return nil
}

// Messages returns all messages published to a topic
func (q *MemoryQueue) Messages(topic string) []*Message {
	q.mu.RLock()
	defer q.mu.RUnlock()

	msgs := make([]*Message, len(q.topics[topic]))
	copy(msgs, q.topics[topic])
	return msgs
}

// Close closes the queue
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.log.Info("memory queue closed")
	return nil
}
