package bridge

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbridge/pkg/config"
)

// FXModule provides the *Dispatcher. It needs a config.Config, a
// vectordb.Service and a *telemetry.Telemetry.
var FXModule = fx.Module("bridge",
	fx.Provide(
		NewSettings,
		NewDispatcher,
	),
)

// NewSettings derives the dispatcher settings from the command config.
func NewSettings(cfg config.Config) Settings {
	return Settings{
		Metric:      cfg.Metric(),
		MinSearchEf: cfg.Collection.MinSearchEf,
		Timeout:     cfg.Timeout,
	}
}
