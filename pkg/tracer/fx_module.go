package tracer

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides the *Tracer and flushes it when the application stops.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle shuts the provider down on stop, flushing any
// batched spans to the exporter.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Debug("shutting down tracer", nil)
			if tracer.tracer == nil {
				tracer.logger.Warn("tracer was nil during shutdown", nil)
				return nil
			}
			return tracer.tracer.Shutdown(ctx)
		},
	})
}
