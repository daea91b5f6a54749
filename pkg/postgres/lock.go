package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tryLockSQL = `SELECT pg_try_advisory_lock(hashtextextended($1, 0))`
	unlockSQL  = `SELECT pg_advisory_unlock(hashtextextended($1, 0))`
)

// Lock is a held session advisory lock.
type Lock struct {
	key    string
	conn   *pgxpool.Conn
	logger Logger
	once   sync.Once
}

// TryLock takes the advisory lock for key without waiting. When another
// session holds it, TryLock returns ErrLockNotAcquired.
func (l *Locker) TryLock(ctx context.Context, key string) (*Lock, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, TranslateError("lock", fmt.Errorf("acquiring connection: %w", err))
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, TranslateError("lock", err)
	}
	if !acquired {
		conn.Release()
		l.logger.Warn("advisory lock is held by another session", nil, map[string]interface{}{"key": key})
		return nil, TranslateError("lock", fmt.Errorf("%w: %s", ErrLockNotAcquired, key))
	}

	l.logger.Debug("advisory lock acquired", nil, map[string]interface{}{"key": key})
	return &Lock{key: key, conn: conn, logger: l.logger}, nil
}

// Acquire adapts TryLock to a release callback.
func (l *Locker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	lock, err := l.TryLock(ctx, key)
	if err != nil {
		return nil, err
	}
	return lock.Release, nil
}

// Release unlocks and returns the pinned connection to the pool. Calling it
// more than once is a no-op.
func (lk *Lock) Release(ctx context.Context) error {
	var err error
	lk.once.Do(func() {
		defer lk.conn.Release()

		var released bool
		if qerr := lk.conn.QueryRow(ctx, unlockSQL, lk.key).Scan(&released); qerr != nil {
			err = TranslateError("unlock", qerr)
			return
		}
		if !released {
			lk.logger.Warn("advisory lock was not held at release", nil, map[string]interface{}{"key": lk.key})
		}
	})
	return err
}

// Key returns the lock key.
func (lk *Lock) Key() string {
	return lk.key
}
