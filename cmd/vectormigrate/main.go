// Command vectormigrate rebuilds a collection with the current schema by
// backing its rows up, recreating it and restoring them.
//
//	vectormigrate backup kb_chunks_v1
//	vectormigrate full_migration kb_chunks_v1
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbridge/internal/app"
	"github.com/Aleph-Alpha/vectorbridge/internal/migration"
	"github.com/Aleph-Alpha/vectorbridge/internal/result"
	"github.com/Aleph-Alpha/vectorbridge/pkg/config"
)

const (
	serviceName = "vectormigrate"
	usage       = "Usage: vectormigrate <operation> <collection_name>"
)

var exitCode int

var rootCmd = &cobra.Command{
	Use:   "vectormigrate <backup|recreate|restore|full_migration> <collection_name>",
	Short: "Back up, recreate and restore a vector collection",
	Long: `vectormigrate runs one migration phase, or all of them with
full_migration, and prints exactly one JSON object on stdout. Progress is
logged to stderr.

Snapshots are written to SNAPSHOT_DIR (default ".") or, with
SNAPSHOT_BACKEND=minio, to the configured bucket. When MIGRATION_LOCK_DSN is
set, recreate, restore and full_migration hold a Postgres advisory lock on
the collection.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		exitCode = run(cmd.Context(), cmd.OutOrStdout(), args)
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		exitCode = app.Fail(os.Stdout, result.Invalid("%s: %v", usage, err))
	}
	stop()
	os.Exit(exitCode)
}

func run(ctx context.Context, out io.Writer, args []string) int {
	if len(args) != 2 {
		return app.Fail(out, result.Invalid(usage))
	}
	operation, collection := args[0], args[1]

	if err := migration.Validate(operation, collection); err != nil {
		return app.Fail(out, err)
	}

	cfg, err := app.LoadConfig(serviceName)
	if err != nil {
		return app.Fail(out, err)
	}

	var migrator *migration.Migrator
	return app.Execute(ctx, out, cfg, app.Command{
		Options: func(cfg config.Config) fx.Option {
			return fx.Options(
				app.Driver(cfg),
				migration.StoreOption(cfg),
				migration.LockOption(cfg),
				migration.FXModule,
				fx.Populate(&migrator),
			)
		},
		Run: func(ctx context.Context) result.Result {
			return migrator.Run(ctx, operation, collection)
		},
	})
}
