package milvus

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// FXModule provides the Milvus adapter as a vectordb.Service.
//
// Dependencies required by this module:
//   - a milvus.Config
//   - a milvus.Logger (e.g. *logger.Logger annotated with fx.As)
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    milvus.FXModule,
//	    fx.Supply(milvus.DefaultConfig()),
//	)
var FXModule = fx.Module("milvus",
	fx.Provide(
		NewMilvusAdapter,
		func(a *Adapter) vectordb.Service { return a },
	),
	fx.Invoke(RegisterMilvusLifecycle),
)

// MilvusParams defines dependencies needed to construct the adapter.
type MilvusParams struct {
	fx.In

	Config Config
	Logger Logger
}

// NewMilvusAdapter is the fx constructor for Adapter.
func NewMilvusAdapter(p MilvusParams) (*Adapter, error) {
	return NewAdapter(context.Background(), p.Config, p.Logger)
}

// RegisterMilvusLifecycle closes the connection when the application stops.
func RegisterMilvusLifecycle(lc fx.Lifecycle, adapter *Adapter, logger Logger) {
	var once sync.Once

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			var err error
			once.Do(func() {
				err = adapter.Close()
				if err != nil {
					logger.Warn("failed to close milvus connection", err)
				}
			})
			return err
		},
	})
}
