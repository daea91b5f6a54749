package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// Logger defines the logging surface the adapter needs. *logger.Logger
// satisfies it.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Adapter implements vectordb.Service on top of the Milvus Go SDK.
type Adapter struct {
	api     client.Client
	cfg     Config
	logger  Logger
	started bool
}

var _ vectordb.Service = (*Adapter)(nil)

// ──────────────────────────────────────────────────────────────
// NewAdapter
// ──────────────────────────────────────────────────────────────
//
// NewAdapter dials Milvus and returns a ready adapter.
//
// The SDK performs a connect handshake inside client.NewClient, so a failed
// dial surfaces here as a vectordb.ErrUnavailable error.
//
// Example:
//
//	adapter, err := milvus.NewAdapter(ctx, milvus.DefaultConfig(), log)
//	if err != nil {
//	    return err
//	}
//	defer adapter.Close()
func NewAdapter(ctx context.Context, cfg Config, logger Logger) (*Adapter, error) {
	fields := map[string]interface{}{
		"address": cfg.Address(),
		"tls":     cfg.TLS,
		"db_name": cfg.DBName,
	}
	logger.Debug("connecting to milvus", nil, fields)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	api, err := client.NewClient(dialCtx, client.Config{
		Address:       cfg.Address(),
		APIKey:        cfg.Token,
		EnableTLSAuth: cfg.TLS,
		DBName:        cfg.DBName,
	})
	if err != nil {
		logger.Error("failed to connect to milvus", err, fields)
		return nil, vectordb.NewError("connect", vectordb.ErrUnavailable,
			fmt.Errorf("failed to connect to milvus at %s: %w", cfg.Address(), err))
	}

	logger.Debug("connected to milvus", nil, fields)
	return newAdapter(api, cfg, logger), nil
}

func newAdapter(api client.Client, cfg Config, logger Logger) *Adapter {
	return &Adapter{api: api, cfg: cfg, logger: logger, started: true}
}

// Client returns the underlying SDK client for operations the adapter does
// not cover.
func (a *Adapter) Client() client.Client {
	return a.api
}

// Close releases the gRPC connection. It is safe to call more than once.
func (a *Adapter) Close() error {
	if !a.started {
		return nil
	}
	a.started = false
	a.logger.Debug("closing milvus connection", nil, map[string]interface{}{"address": a.cfg.Address()})
	return a.api.Close()
}
