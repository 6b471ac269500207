package bootstrap

import (
	"github.com/mediabridge/gateway/common/config"
	"github.com/mediabridge/gateway/common/db"
	"github.com/mediabridge/gateway/common/logger"
)

// Option customizes Setup behavior
type Option func(*options)

type options struct {
	skipDB        bool
	skipRedis     bool
	skipTelemetry bool
	dbInitHook    func(*db.DB) error
	customConfig  *config.Config
	customLogger  *logger.Logger
}

func defaultOptions() *options {
	return &options{}
}

// WithoutDB skips database initialization
func WithoutDB() Option {
	return func(o *options) {
		o.skipDB = true
	}
}

// WithoutRedis skips Redis and queue initialization
func WithoutRedis() Option {
	return func(o *options) {
		o.skipRedis = true
	}
}

// WithoutTelemetry skips telemetry initialization
func WithoutTelemetry() Option {
	return func(o *options) {
		o.skipTelemetry = true
	}
}

// WithDBInitHook runs fn against the database right after connecting,
// typically to apply schema
func WithDBInitHook(fn func(*db.DB) error) Option {
	return func(o *options) {
		o.dbInitHook = fn
	}
}

// WithConfig supplies a pre-built configuration
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.customConfig = cfg
	}
}

// WithLogger supplies a pre-built logger
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.customLogger = log
	}
}
