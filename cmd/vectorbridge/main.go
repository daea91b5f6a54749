// Command vectorbridge runs one data-plane operation against the vector
// database and prints the outcome as a single JSON line.
//
//	vectorbridge '{"operation": "search", "tenant_id": 7, "query_vector": [...]}'
//	vectorbridge @/tmp/request.json
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
	"github.com/Aleph-Alpha/vectorbridge/internal/bridge"
	"github.com/Aleph-Alpha/vectorbridge/internal/result"
	"github.com/Aleph-Alpha/vectorbridge/pkg/config"
)

const (
	serviceName = "vectorbridge"
	usage       = "Usage: vectorbridge '<json_params>'"
)

var exitCode int

var rootCmd = &cobra.Command{
	Use:   "vectorbridge '<json_params>' | @<file>",
	Short: "Run one vector database operation described by a JSON argument",
	Long: `vectorbridge runs a single operation (search, upsert, delete_by_ids,
delete_by_tenant, count_by_tenant, health, create_partition, has_partition)
and prints exactly one JSON object on stdout. Logging is off unless
ZAP_LOGGER_LEVEL is set; logs then go to stderr.

The exit code is 0 when "success" is true and 1 otherwise.`,
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
	if len(args) != 1 {
		return app.Fail(out, result.Invalid(usage))
	}

	cfg, err := app.LoadConfig(serviceName, app.Quiet)
	if err != nil {
		return app.Fail(out, err)
	}

	req, err := bridge.ParseArgument(args[0], cfg.Collection.Name)
	if err != nil {
		return app.Fail(out, err)
	}
	if err := req.Validate(); err != nil {
		return app.Fail(out, err)
	}

	var dispatcher *bridge.Dispatcher
	cmd := app.Command{
		Options: func(cfg config.Config) fx.Option {
			return fx.Options(
				app.Driver(cfg),
				bridge.FXModule,
				fx.Populate(&dispatcher),
			)
		},
		Run: func(ctx context.Context) result.Result {
			return dispatcher.Dispatch(ctx, req)
		},
	}
	if req.Operation == bridge.OpHealth {
		cmd.OnStartFailure = bridge.HealthFailure
	}
	return app.Execute(ctx, out, cfg, cmd)
}
