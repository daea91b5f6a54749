package metrics

import (
	"context"

	"go.uber.org/fx"
)

// Logger is the logging surface the lifecycle hook needs.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// FXModule defines the Fx module for the metrics package.
//
// The module:
//  1. Provides the NewMetrics factory function to the dependency injection container.
//  2. Invokes RegisterMetricsLifecycle, which pushes the collected metrics
//     to the Pushgateway when the application stops.
//
// Dependencies required by this module:
//   - a metrics.Config
//   - a metrics.Logger
var FXModule = fx.Module("metrics",
	fx.Provide(NewMetrics),
	fx.Invoke(RegisterMetricsLifecycle),
)

// RegisterMetricsLifecycle pushes metrics on stop. A failed push is logged
// and does not fail the shutdown: the command's result is already printed.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics, log Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if !m.PushEnabled() {
				return nil
			}
			if err := m.Push(ctx); err != nil {
				log.Warn("failed to push metrics", err, map[string]interface{}{
					"pushgateway": m.pushgatewayURL,
				})
				return nil
			}
			log.Info("pushed metrics", nil, map[string]interface{}{
				"pushgateway": m.pushgatewayURL,
				"job":         m.job,
			})
			return nil
		},
	})
}
