package migration

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbridge/internal/telemetry"
	"github.com/Aleph-Alpha/vectorbridge/pkg/config"
	"github.com/Aleph-Alpha/vectorbridge/pkg/minio"
	"github.com/Aleph-Alpha/vectorbridge/pkg/postgres"
	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// FXModule provides the *Migrator. Combine it with StoreOption and
// LockOption for the configured snapshot backend and lock.
var FXModule = fx.Module("migration",
	fx.Provide(
		NewSettings,
		NewMigrator,
	),
)

// MigratorParams groups the dependencies of NewMigrator. The Locker is
// absent unless LockOption added one.
type MigratorParams struct {
	fx.In

	Service   vectordb.Service
	Store     SnapshotStore
	Locker    Locker `optional:"true"`
	Settings  Settings
	Telemetry *telemetry.Telemetry
}

// NewMigrator is the fx constructor for Migrator.
func NewMigrator(p MigratorParams) *Migrator {
	return New(p.Service, p.Store, p.Locker, p.Settings, p.Telemetry)
}

// NewSettings derives the migration settings from the command config.
func NewSettings(cfg config.Config) Settings {
	return Settings{
		Dimension:        cfg.Migration.Dimension,
		M:                cfg.Migration.M,
		EfConstruction:   cfg.Migration.EfConstruction,
		PageSize:         cfg.Migration.PageSize,
		BatchSize:        cfg.Migration.BatchSize,
		BatchesPerSecond: cfg.Migration.BatchesPerSecond,
		Timeout:          cfg.Migration.Timeout,
	}
}

// StoreOption provides the SnapshotStore selected by SNAPSHOT_BACKEND. The
// minio backend pulls in the minio module, which connects while the graph
// is built.
func StoreOption(cfg config.Config) fx.Option {
	if cfg.Snapshot.Backend == config.SnapshotMinio {
		return fx.Options(
			minio.FXModule,
			fx.Provide(func(client *minio.Minio) SnapshotStore {
				return NewObjectStore(client, cfg.Snapshot.Prefix)
			}),
		)
	}
	return fx.Provide(func() SnapshotStore {
		return NewFileStore(cfg.Snapshot.Dir)
	})
}

// LockOption provides a Postgres advisory Locker when a lock DSN is set.
func LockOption(cfg config.Config) fx.Option {
	if !cfg.Lock.Enabled() {
		return fx.Options()
	}
	return fx.Options(
		postgres.FXModule,
		fx.Provide(func(l *postgres.Locker) Locker { return l }),
	)
}
