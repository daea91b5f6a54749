package qdrant

import (
	"context"
	"fmt"
	"sync"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

//
// ──────────────────────────────────────────────────────────────
//   QDRANT ADAPTER
// ──────────────────────────────────────────────────────────────
//
// Adapter implements vectordb.Service on top of the official Qdrant Go
// client. Qdrant has no partitions and no explicit load step, so:
//   • partition calls return vectordb.ErrUnsupported,
//   • LoadCollection always reports vectordb.ErrAlreadySatisfied,
//   • Flush is a no-op because every write waits for the operation.
//

// Logger defines the logging surface the adapter needs.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Adapter wraps the Qdrant SDK client.
type Adapter struct {
	api     *qdrant.Client
	cfg     Config
	logger  Logger
	started bool

	// cursors maps a query offset to the first point id of that page, so
	// sequential offset pagination resumes instead of rescanning.
	mu      sync.Mutex
	cursors map[cursorKey]uint64
}

type cursorKey struct {
	collection string
	filter     string
	offset     int64
}

var _ vectordb.Service = (*Adapter)(nil)

// ──────────────────────────────────────────────────────────────
// NewAdapter
// ──────────────────────────────────────────────────────────────
//
// NewAdapter constructs the adapter and validates connectivity via a health
// check, failing fast with vectordb.ErrUnavailable if the service is
// unreachable.
func NewAdapter(cfg Config, logger Logger) (*Adapter, error) {
	port := cfg.Port
	if port == 0 {
		port = 6334
	}
	fields := map[string]interface{}{"endpoint": cfg.Endpoint, "port": port}
	logger.Debug("connecting to qdrant", nil, fields)

	api, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, vectordb.NewError("connect", vectordb.ErrUnavailable, fmt.Errorf("failed to initialize qdrant client: %w", err))
	}

	a := &Adapter{
		api:     api,
		cfg:     cfg,
		logger:  logger,
		started: true,
		cursors: make(map[cursorKey]uint64),
	}

	if err := a.healthCheck(); err != nil {
		_ = api.Close()
		logger.Error("qdrant health check failed", err, fields)
		return nil, vectordb.NewError("connect", vectordb.ErrUnavailable, err)
	}

	logger.Debug("connected to qdrant", nil, fields)
	return a, nil
}

// healthCheck verifies the availability of the Qdrant service.
func (a *Adapter) healthCheck() error {
	timeout := a.cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := a.api.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	a.logger.Debug("qdrant health check passed", nil, map[string]interface{}{
		"title":   resp.GetTitle(),
		"version": resp.GetVersion(),
	})
	return nil
}

// Client returns the underlying Qdrant SDK client.
func (a *Adapter) Client() *qdrant.Client {
	return a.api
}

// Close releases the gRPC connection. It is safe to call more than once.
func (a *Adapter) Close() error {
	if !a.started {
		return nil
	}
	a.started = false
	a.logger.Debug("closing qdrant connection", nil, nil)
	return a.api.Close()
}
