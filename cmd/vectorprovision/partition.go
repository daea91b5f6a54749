package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorbridge/internal/app"
	"github.com/Aleph-Alpha/vectorbridge/internal/provision"
	"github.com/Aleph-Alpha/vectorbridge/internal/result"
	"github.com/Aleph-Alpha/vectorbridge/internal/telemetry"
	"github.com/Aleph-Alpha/vectorbridge/pkg/config"
	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// partition flags
var (
	partitionCollection string
	partitionName       string
	tenantID            int64
)

var partitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Create a partition under the chunk collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exitCode = runPartition(cmd.Context(), cmd.OutOrStdout(), partitionCollection, partitionName, tenantID)
		return nil
	},
}

// resolvePartition picks the partition name from --partition or --tenant-id.
func resolvePartition(partition string, tenant int64) (string, error) {
	switch {
	case partition != "":
		return partition, nil
	case tenant > 0:
		return provision.TenantPartition(tenant), nil
	case tenant < 0:
		return "", result.Invalid("valid tenant_id is required")
	default:
		return "", result.Invalid("partition_name is required")
	}
}

func runPartition(ctx context.Context, out io.Writer, collection, partition string, tenant int64) int {
	cfg, err := app.LoadConfig(serviceName)
	if err != nil {
		return app.Fail(out, err)
	}
	if collection == "" {
		collection = cfg.Collection.Name
	}
	partition, err = resolvePartition(partition, tenant)
	if err != nil {
		return app.Fail(out, err)
	}

	var (
		svc vectordb.Service
		tel *telemetry.Telemetry
	)
	return app.Execute(ctx, out, cfg, app.Command{
		Options: func(cfg config.Config) fx.Option {
			return fx.Options(app.Driver(cfg), fx.Populate(&svc, &tel))
		},
		Run: func(ctx context.Context) result.Result {
			attrs := map[string]interface{}{"collection": collection, "partition": partition}
			return tel.Run(ctx, "ensure_partition", attrs, func(ctx context.Context) result.Result {
				report, err := provision.EnsurePartition(ctx, svc, collection, partition)
				if err != nil {
					return result.Failure(err)
				}
				return result.Success(report)
			})
		},
	})
}
