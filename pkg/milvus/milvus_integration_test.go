package milvus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmilvus "github.com/testcontainers/testcontainers-go/modules/milvus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// setupMilvusContainer starts a standalone Milvus with embedded etcd.
func setupMilvusContainer(t *testing.T, ctx context.Context) Config {
	t.Helper()

	container, err := tcmilvus.Run(ctx, "milvusdb/milvus:v2.4.9")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate milvus container: %v", err)
		}
	})

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := DefaultConfig().WithURI(addr)
	cfg.ConnectTimeout = 60 * time.Second
	return cfg
}

// TestMilvusWithFXModule exercises the adapter against a real server through
// the fx module.
func TestMilvusWithFXModule(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := setupMilvusContainer(t, ctx)

	var svc vectordb.Service
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(func() Logger { return nopLogger{} }),
		FXModule,
		fx.Populate(&svc),
	)
	app.RequireStart()
	defer app.RequireStop()

	const name = "kb_chunks_it"
	spec := vectordb.CollectionSpec{Name: name, Dimension: 4, Description: "KB chunks vectors", Shards: 2}

	t.Run("CreateCollection", func(t *testing.T) {
		require.NoError(t, svc.CreateCollection(ctx, spec))
		ok, err := svc.HasCollection(ctx, name)
		require.NoError(t, err)
		assert.True(t, ok)

		desc, err := svc.DescribeCollection(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, 4, desc.Dimension)
	})

	t.Run("IndexAndLoadAreIdempotent", func(t *testing.T) {
		params := vectordb.IndexParams{Metric: vectordb.MetricCosine, M: 16, EfConstruction: 200}
		require.NoError(t, svc.CreateIndex(ctx, name, params))
		assert.True(t, vectordb.IsAlreadySatisfied(svc.CreateIndex(ctx, name, params)))

		require.NoError(t, svc.LoadCollection(ctx, name))
		assert.True(t, vectordb.IsAlreadySatisfied(svc.LoadCollection(ctx, name)))
	})

	t.Run("Partitions", func(t *testing.T) {
		require.NoError(t, svc.CreatePartition(ctx, name, "tenant_5"))
		ok, err := svc.HasPartition(ctx, name, "tenant_5")
		require.NoError(t, err)
		assert.True(t, ok)

		parts, err := svc.ListPartitions(ctx, name)
		require.NoError(t, err)
		assert.Contains(t, parts, "tenant_5")
	})

	t.Run("InsertSearchDelete", func(t *testing.T) {
		rows := []vectordb.Row{
			{ID: vectordb.PrimaryKey(1, 0), TenantID: 5, DocumentID: 1, ChunkIndex: 0, Vector: []float32{1, 0, 0, 0}},
			{ID: vectordb.PrimaryKey(1, 1), TenantID: 5, DocumentID: 1, ChunkIndex: 1, Vector: []float32{0, 1, 0, 0}},
			{ID: vectordb.PrimaryKey(2, 0), TenantID: 6, DocumentID: 2, ChunkIndex: 0, Vector: []float32{1, 1, 0, 0}},
		}
		n, err := svc.Insert(ctx, name, "", vectordb.ColumnsFromRows(rows))
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		require.NoError(t, svc.Flush(ctx, name))

		hits, err := svc.Search(ctx, vectordb.SearchRequest{
			Collection: name,
			Vector:     []float32{1, 0, 0, 0},
			Filter:     vectordb.TenantFilter(5),
			Limit:      10,
			Ef:         96,
		})
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, vectordb.PrimaryKey(1, 0), hits[0].ID)

		require.NoError(t, svc.Delete(ctx, name, "", vectordb.TenantFilter(5)))
		require.NoError(t, svc.Flush(ctx, name))

		left, err := svc.Query(ctx, vectordb.QueryRequest{
			Collection:   name,
			Filter:       vectordb.AllRowsFilter(),
			OutputFields: []string{vectordb.FieldID, vectordb.FieldTenantID},
			Limit:        100,
		})
		require.NoError(t, err)
		require.Len(t, left, 1)
		assert.Equal(t, int64(6), left[0].TenantID)
	})

	t.Run("Drop", func(t *testing.T) {
		require.NoError(t, svc.DropCollection(ctx, name))
		_, err := svc.DescribeCollection(ctx, name)
		assert.ErrorIs(t, err, vectordb.ErrNotFound)
	})
}
