package vectordbtest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

func TestMemoryLifecycle(t *testing.T) {
	ctx := context.Background()
	m := New()
	spec := vectordb.CollectionSpec{Name: "kb", Dimension: 2}

	require.NoError(t, m.CreateCollection(ctx, spec))
	assert.True(t, vectordb.IsAlreadySatisfied(m.CreateCollection(ctx, spec)))

	err := m.LoadCollection(ctx, "kb")
	assert.ErrorIs(t, err, vectordb.ErrInvalidArgument, "load without index must fail")

	require.NoError(t, m.CreateIndex(ctx, "kb", vectordb.IndexParams{Metric: vectordb.MetricCosine}))
	assert.True(t, vectordb.IsAlreadySatisfied(m.CreateIndex(ctx, "kb", vectordb.IndexParams{})))
	require.NoError(t, m.LoadCollection(ctx, "kb"))
	assert.True(t, vectordb.IsAlreadySatisfied(m.LoadCollection(ctx, "kb")))

	n, err := m.Insert(ctx, "kb", "", vectordb.ColumnsFromRows([]vectordb.Row{
		{ID: 100000, TenantID: 1, DocumentID: 1, Vector: []float32{1, 0}},
		{ID: 100001, TenantID: 1, DocumentID: 1, ChunkIndex: 1, Vector: []float32{0, 1}},
		{ID: 200000, TenantID: 2, DocumentID: 2, Vector: []float32{1, 1}},
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	hits, err := m.Search(ctx, vectordb.SearchRequest{
		Collection: "kb", Vector: []float32{1, 0}, Filter: vectordb.TenantFilter(1), Limit: 5, Ef: 96,
	})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, int64(100000), hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Distance, 1e-6)

	rows, err := m.Query(ctx, vectordb.QueryRequest{Collection: "kb", Filter: vectordb.AllRowsFilter(), OutputFields: []string{vectordb.FieldID}, Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(100001), rows[0].ID)
	assert.Nil(t, rows[0].Vector)

	require.NoError(t, m.Delete(ctx, "kb", "", vectordb.TenantFilter(1)))
	count, err := m.Count(ctx, "kb")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryPartitionsAndFailures(t *testing.T) {
	ctx := context.Background()
	m := New()
	m.Seed(vectordb.CollectionSpec{Name: "kb", Dimension: 2})

	require.NoError(t, m.CreatePartition(ctx, "kb", "tenant_5"))
	ok, err := m.HasPartition(ctx, "kb", "tenant_5")
	require.NoError(t, err)
	assert.True(t, ok)

	parts, err := m.ListPartitions(ctx, "kb")
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultPartition, "tenant_5"}, parts)

	_, err = m.HasPartition(ctx, "missing", "tenant_5")
	assert.ErrorIs(t, err, vectordb.ErrNotFound)

	boom := errors.New("boom")
	m.Fail("Flush", boom)
	assert.ErrorIs(t, m.Flush(ctx, "kb"), boom)
	m.Fail("Flush", nil)
	assert.NoError(t, m.Flush(ctx, "kb"))
	assert.Equal(t, 2, m.Calls("Flush"))

	_, err = m.Search(ctx, vectordb.SearchRequest{Collection: "kb", Vector: []float32{1, 0}, Limit: 100, Ef: 96})
	assert.ErrorIs(t, err, vectordb.ErrInvalidArgument)
}
