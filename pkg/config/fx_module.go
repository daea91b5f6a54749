package config

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbridge/pkg/logger"
	"github.com/Aleph-Alpha/vectorbridge/pkg/metrics"
	"github.com/Aleph-Alpha/vectorbridge/pkg/minio"
	"github.com/Aleph-Alpha/vectorbridge/pkg/postgres"
	"github.com/Aleph-Alpha/vectorbridge/pkg/tracer"
)

// FXModule splits a supplied Config into the per-package configs the other
// modules depend on.
//
// Usage:
//
//	cfg, err := config.Load()
//	app := fx.New(
//	    fx.Supply(cfg),
//	    config.FXModule,
//	    logger.FXModule,
//	    // ...
//	)
var FXModule = fx.Module("config",
	fx.Provide(
		func(c Config) logger.Config { return c.Logger },
		func(c Config) minio.Config { return c.Minio },
		func(c Config) postgres.Config { return c.Lock },
		func(c Config) metrics.Config { return c.Metrics },
		func(c Config) tracer.Config { return c.Tracer },
	),
)
