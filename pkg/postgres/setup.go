package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Logger defines the logging surface of the postgres package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Locker hands out Postgres session advisory locks.
//
// A lock lives as long as the session that took it, so every held lock pins
// one pooled connection until it is released. If the process dies, Postgres
// ends the session and the lock is freed with it.
type Locker struct {
	pool   *pgxpool.Pool
	logger Logger

	closeOnce sync.Once
}

// NewLocker connects to Postgres and verifies the connection.
func NewLocker(ctx context.Context, cfg Config, logger Logger) (*Locker, error) {
	if !cfg.Enabled() {
		return nil, TranslateError("connect", fmt.Errorf("lock DSN is empty"))
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, TranslateError("connect", fmt.Errorf("parsing lock DSN: %w", err))
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, TranslateError("connect", fmt.Errorf("creating pool: %w", err))
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		logger.Error("failed to reach lock database", err, map[string]interface{}{
			"host": poolCfg.ConnConfig.Host,
		})
		return nil, TranslateError("connect", fmt.Errorf("pinging lock database: %w", err))
	}

	logger.Debug("connected to lock database", nil, map[string]interface{}{
		"host":     poolCfg.ConnConfig.Host,
		"database": poolCfg.ConnConfig.Database,
	})

	return &Locker{pool: pool, logger: logger}, nil
}

// Close closes the pool. Locks still held are released by Postgres when
// their sessions end.
func (l *Locker) Close() {
	l.closeOnce.Do(l.pool.Close)
}
