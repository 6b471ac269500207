package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mediabridge/gateway/common/config"
)

// Logger interface for logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// Client wraps redis.Client with common operations and instrumentation
type Client struct {
	redis  *redis.Client
	logger Logger
}

// NewClient creates a new Redis client wrapper
func NewClient(redisClient *redis.Client, logger Logger) *Client {
	return &Client{
		redis:  redisClient,
		logger: logger,
	}
}

// Connect creates a Redis connection from config and wraps it
func Connect(ctx context.Context, cfg *config.Config, logger Logger) (*Client, error) {
	raw := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("redis connected", "addr", cfg.RedisAddr())
	return NewClient(raw, logger), nil
}

// Close closes the underlying connection
func (c *Client) Close() error {
	return c.redis.Close()
}

// Health verifies the connection is alive
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unavailable: %w", err)
	}
	return nil
}

// AddToStream appends a message to a Redis stream, trimming to maxLen.
// maxLen <= 0 disables trimming.
func (c *Client) AddToStream(ctx context.Context, stream string, maxLen int64, values map[string]interface{}) (string, error) {
	args := &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}
	if maxLen > 0 {
		args.MaxLen = maxLen
		args.Approx = true
	}

	id, err := c.redis.XAdd(ctx, args).Result()
	if err != nil {
		c.logger.Error("redis XADD failed", "stream", stream, "error", err)
		return "", fmt.Errorf("failed to add to stream %s: %w", stream, err)
	}
	c.logger.Debug("redis XADD", "stream", stream, "id", id)
	return id, nil
}

// IncrementWindow increments a fixed-window counter, setting the window
// expiry on first increment. Returns the counter value after increment.
func (c *Client) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("redis INCR failed", "key", key, "error", err)
		return 0, fmt.Errorf("failed to increment key %s: %w", key, err)
	}

	val := incr.Val()
	c.logger.Debug("redis INCR", "key", key, "value", val)
	return val, nil
}
