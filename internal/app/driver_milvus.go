//go:build !qdrant

package app

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbridge/pkg/config"
	"github.com/Aleph-Alpha/vectorbridge/pkg/logger"
	"github.com/Aleph-Alpha/vectorbridge/pkg/milvus"
)

// BuiltinDriver is the database driver linked into this binary.
const BuiltinDriver = config.DriverMilvus

func driverModule() fx.Option {
	cfg := milvus.DefaultConfig()
	if err := config.Section("milvus", &cfg); err != nil {
		return sectionError("milvus", err)
	}
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(func(l *logger.Logger) milvus.Logger { return l }),
		milvus.FXModule,
	)
}
