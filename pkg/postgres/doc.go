// Package postgres provides cross-process migration locks backed by
// Postgres session advisory locks.
//
// A Locker owns a small pgx pool. TryLock hashes the key with
// hashtextextended and calls pg_try_advisory_lock on a pinned connection;
// the lock is held until Release or until the session ends.
//
// Basic Usage:
//
//	locker, err := postgres.NewLocker(ctx, postgres.Config{DSN: dsn}, log)
//	if err != nil {
//		return err
//	}
//	defer locker.Close()
//
//	lock, err := locker.TryLock(ctx, "vectorbridge:migration:kb_chunks_v1")
//	if err != nil {
//		// vectordb.ErrUnavailable when another session holds the lock
//		return err
//	}
//	defer lock.Release(ctx)
//
// With fx, include FXModule together with a supplied Config.
package postgres
