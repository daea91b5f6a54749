package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind vectordb.Kind
	}{
		{"lock held", fmt.Errorf("%w: kb", ErrLockNotAcquired), vectordb.KindUnavailable},
		{"deadline", context.DeadlineExceeded, vectordb.KindUnavailable},
		{"connection failure", &pgconn.PgError{Code: "08006"}, vectordb.KindUnavailable},
		{"bad password", &pgconn.PgError{Code: "28P01"}, vectordb.KindUnavailable},
		{"undefined function", &pgconn.PgError{Code: "42883"}, vectordb.KindInvalidArgument},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, vectordb.KindInternal},
		{"dial", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), vectordb.KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, vectordb.KindOf(TranslateError("lock", tt.err)))
		})
	}
	assert.NoError(t, TranslateError("lock", nil))
}

func TestLockNotAcquiredIsDetectable(t *testing.T) {
	err := TranslateError("lock", fmt.Errorf("%w: kb", ErrLockNotAcquired))
	assert.ErrorIs(t, err, ErrLockNotAcquired)
	assert.ErrorIs(t, err, vectordb.ErrUnavailable)
}

func TestNewLockerRequiresDSN(t *testing.T) {
	_, err := NewLocker(context.Background(), DefaultConfig(), nopLogger{})
	require.Error(t, err)
	assert.Equal(t, vectordb.KindUnavailable, vectordb.KindOf(err))
}

func TestNewLockerRejectsMalformedDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DSN = "postgres://%zz"
	_, err := NewLocker(context.Background(), cfg, nopLogger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing lock DSN")
}
