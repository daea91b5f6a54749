package postgres

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides a *Locker and closes it on stop. Include it only when
// a lock DSN is configured.
var FXModule = fx.Module("postgres",
	fx.Provide(
		NewPostgresLocker,
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

// PostgresParams groups the dependencies of NewPostgresLocker.
type PostgresParams struct {
	fx.In

	Config Config
	Logger Logger
}

// NewPostgresLocker is the fx constructor for Locker.
func NewPostgresLocker(p PostgresParams) (*Locker, error) {
	return NewLocker(context.Background(), p.Config, p.Logger)
}

// RegisterPostgresLifecycle closes the pool when the application stops.
func RegisterPostgresLifecycle(lc fx.Lifecycle, locker *Locker, logger Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Debug("closing lock database pool", nil)
			locker.Close()
			return nil
		},
	})
}
