//go:build qdrant

package app

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbridge/pkg/config"
	"github.com/Aleph-Alpha/vectorbridge/pkg/logger"
	"github.com/Aleph-Alpha/vectorbridge/pkg/qdrant"
)

// BuiltinDriver is the database driver linked into this binary.
const BuiltinDriver = config.DriverQdrant

func driverModule() fx.Option {
	cfg := qdrant.DefaultConfig()
	if err := config.Section("qdrant", &cfg); err != nil {
		return sectionError("qdrant", err)
	}
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(func(l *logger.Logger) qdrant.Logger { return l }),
		qdrant.FXModule,
	)
}
