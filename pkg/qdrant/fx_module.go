package qdrant

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// FXModule defines the Fx module for the Qdrant adapter.
//
// The module:
//  1. Provides NewQdrantAdapter, making *qdrant.Adapter available.
//  2. Exposes the adapter as vectordb.Service.
//  3. Invokes RegisterQdrantLifecycle to close the connection on shutdown.
//
// Usage:
//
//	app := fx.New(
//	    qdrant.FXModule,
//	    fx.Supply(qdrant.DefaultConfig()),
//	    // other modules...
//	)
//
// Dependencies required by this module:
//   - a qdrant.Config
//   - a qdrant.Logger
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewQdrantAdapter,
		func(a *Adapter) vectordb.Service { return a },
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// QdrantParams defines dependencies needed to construct the Qdrant adapter.
type QdrantParams struct {
	fx.In

	Config Config
	Logger Logger
}

// NewQdrantAdapter is the fx constructor for Adapter.
func NewQdrantAdapter(p QdrantParams) (*Adapter, error) {
	return NewAdapter(p.Config, p.Logger)
}

// RegisterQdrantLifecycle handles shutdown of the Qdrant adapter.
func RegisterQdrantLifecycle(lc fx.Lifecycle, adapter *Adapter, logger Logger) {
	var once sync.Once

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			var err error
			once.Do(func() {
				if err = adapter.Close(); err != nil {
					logger.Warn("failed to close qdrant connection", err)
				}
			})
			return err
		},
	})
}
