package telemetry

import "go.uber.org/fx"

// FXModule provides *Telemetry from the logger, metrics and tracer modules.
var FXModule = fx.Module("telemetry",
	fx.Provide(New),
)
