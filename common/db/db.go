package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediabridge/gateway/common/config"
	"github.com/mediabridge/gateway/common/logger"
)

const (
	connectTimeout = 5 * time.Second
	healthTimeout  = 3 * time.Second
)

// DB is the gateway's handle on Postgres, which doubles as the blob store
// backend. One pool is shared by every request; pgxpool serializes access
// internally, so concurrent Store/Fetch calls need no extra locking.
type DB struct {
	*pgxpool.Pool
	log *logger.Logger
}

// New opens the shared pool and verifies the database answers before the
// gateway starts accepting uploads
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// A blob INSERT holds its connection for the whole write, so MaxConns
	// also caps concurrent uploads
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("blob store database connected",
		"host", cfg.Database.Host,
		"db", cfg.Database.Database,
		"max_conns", cfg.Database.MaxConns,
	)

	return &DB{
		Pool: pool,
		log:  log,
	}, nil
}

// Close drains the pool on shutdown
func (db *DB) Close() {
	stat := db.Pool.Stat()
	db.log.Info("closing database connection pool",
		"total_conns", stat.TotalConns(),
		"acquired_conns", stat.AcquiredConns(),
	)
	db.Pool.Close()
}

// Health answers the /health probe's store check. Bounded so a hung
// database turns into a fast 503 instead of a stuck probe.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("blob store database unavailable: %w", err)
	}
	return nil
}
