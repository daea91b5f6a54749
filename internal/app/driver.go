package app

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbridge/pkg/config"
	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// Driver provides the vectordb.Service of the driver linked into this
// binary. The Milvus and Qdrant SDKs both register a "common.proto" file,
// so a binary can only carry one of them; build with -tags qdrant for the
// Qdrant driver.
func Driver(cfg config.Config) fx.Option {
	if cfg.Driver != BuiltinDriver {
		return fx.Error(vectordb.NewError("select_driver", vectordb.ErrInvalidArgument,
			fmt.Errorf("driver %q is not built into this binary, which carries %q", cfg.Driver, BuiltinDriver)))
	}
	return driverModule()
}

func sectionError(key string, err error) fx.Option {
	return fx.Error(vectordb.NewError("load_config", vectordb.ErrInvalidArgument,
		fmt.Errorf("%s: %w", key, err)))
}
