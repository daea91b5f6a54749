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

// collectionDescription is set on collections this command creates.
const collectionDescription = "KB chunks vectors"

// collection flags
var (
	collectionName string
	dimension      int
	metric         string
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Create, index and load the chunk collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exitCode = runCollection(cmd.Context(), cmd.OutOrStdout(), collectionName, dimension, metric)
		return nil
	},
}

type collectionRequest struct {
	spec  vectordb.CollectionSpec
	index vectordb.IndexParams
}

// newCollectionRequest resolves flags against the configuration. Zero
// values mean "not set".
func newCollectionRequest(cfg config.Config, name string, dim int, metricName string) (*collectionRequest, error) {
	if name == "" {
		name = cfg.Collection.Name
	}
	if dim == 0 {
		dim = cfg.Collection.Dimension
	}
	if metricName == "" {
		metricName = cfg.Collection.Metric
	}

	m, err := vectordb.ParseMetric(metricName)
	if err != nil {
		return nil, result.Invalid("unknown metric %q (want COSINE, L2 or IP)", metricName)
	}
	if dim <= 0 {
		return nil, result.Invalid("dim must be a positive integer, got %d", dim)
	}

	return &collectionRequest{
		spec: vectordb.CollectionSpec{
			Name:        name,
			Dimension:   dim,
			Description: collectionDescription,
			Shards:      cfg.Collection.Shards,
			Metric:      m,
		},
		index: vectordb.IndexParams{
			Metric:         m,
			M:              cfg.Collection.M,
			EfConstruction: cfg.Collection.EfConstruction,
		},
	}, nil
}

func runCollection(ctx context.Context, out io.Writer, name string, dim int, metricName string) int {
	cfg, err := app.LoadConfig(serviceName)
	if err != nil {
		return app.Fail(out, err)
	}
	req, err := newCollectionRequest(cfg, name, dim, metricName)
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
			return ensureCollection(ctx, svc, tel, req)
		},
	})
}

func ensureCollection(ctx context.Context, svc vectordb.Service, tel *telemetry.Telemetry, req *collectionRequest) result.Result {
	attrs := map[string]interface{}{
		"collection": req.spec.Name,
		"dimension":  req.spec.Dimension,
		"metric":     string(req.index.Metric),
	}
	return tel.Run(ctx, "ensure_collection", attrs, func(ctx context.Context) result.Result {
		report, err := provision.EnsureCollection(ctx, svc, req.spec, req.index)
		if err != nil {
			return result.Failure(err)
		}
		return result.Success(report)
	})
}
