package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// ErrLockNotAcquired is returned by TryLock when another session holds the lock.
var ErrLockNotAcquired = errors.New("advisory lock held by another session")

// TranslateError converts pgx errors into vectordb error kinds so lock
// failures are reported alongside database failures.
//
// A lock held elsewhere and an unreachable lock database are both
// ErrUnavailable: the operation cannot proceed right now.
func TranslateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var classified *vectordb.Error
	if errors.As(err, &classified) {
		return err
	}
	return vectordb.NewError(op, classify(err), err)
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrLockNotAcquired),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return vectordb.ErrUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "08", "53", "57": // connection exception, insufficient resources, operator intervention
			return vectordb.ErrUnavailable
		case "28": // invalid authorization
			return vectordb.ErrUnavailable
		case "22", "42": // data exception, syntax or access rule violation
			return vectordb.ErrInvalidArgument
		}
		return nil
	}

	// Dial, TLS and pool errors.
	return vectordb.ErrUnavailable
}
