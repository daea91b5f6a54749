package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb/vectordbtest"
)

var defaultIndex = vectordb.IndexParams{Metric: vectordb.MetricCosine, M: 16, EfConstruction: 200}

func chunkSpec(name string, dim int) vectordb.CollectionSpec {
	return vectordb.CollectionSpec{Name: name, Dimension: dim, Description: "KB chunks vectors", Shards: 2}
}

func TestEnsureCollectionCreates(t *testing.T) {
	ctx := context.Background()
	mem := vectordbtest.New()

	report, err := EnsureCollection(ctx, mem, chunkSpec("kb", 8), defaultIndex)
	require.NoError(t, err)

	assert.Equal(t, &CollectionReport{
		Name:      "kb",
		Dimension: 8,
		Metric:    vectordb.MetricCosine,
		Created:   true,
		Index:     StepDone,
		Load:      StepDone,
	}, report)
	assert.True(t, mem.Loaded("kb"))
}

func TestEnsureCollectionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := vectordbtest.New()

	_, err := EnsureCollection(ctx, mem, chunkSpec("kb", 8), defaultIndex)
	require.NoError(t, err)

	report, err := EnsureCollection(ctx, mem, chunkSpec("kb", 8), defaultIndex)
	require.NoError(t, err)
	assert.False(t, report.Created)
	assert.Equal(t, StepAlreadySatisfied, report.Index)
	assert.Equal(t, StepAlreadySatisfied, report.Load)
	assert.Equal(t, 1, mem.Calls("CreateCollection"))
}

func TestEnsureCollectionNeverChangesExistingDimension(t *testing.T) {
	ctx := context.Background()
	mem := vectordbtest.New()
	mem.Seed(chunkSpec("kb", 8), vectordb.Row{ID: 1, TenantID: 1, DocumentID: 1, Vector: make([]float32, 8)})

	report, err := EnsureCollection(ctx, mem, chunkSpec("kb", 3072), defaultIndex)
	require.NoError(t, err)

	spec, ok := mem.Spec("kb")
	require.True(t, ok)
	assert.Equal(t, 8, spec.Dimension)
	assert.Equal(t, 8, report.Dimension)
	assert.Len(t, mem.Rows("kb"), 1)
	assert.Equal(t, 0, mem.Calls("CreateCollection"))
}

func TestEnsureCollectionPropagatesGenuineFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("index", func(t *testing.T) {
		mem := vectordbtest.New()
		mem.Fail("CreateIndex", vectordb.NewError("create_index", vectordb.ErrInvalidArgument, errors.New("M out of range")))

		_, err := EnsureCollection(ctx, mem, chunkSpec("kb", 8), defaultIndex)
		require.Error(t, err)
		assert.Equal(t, vectordb.KindInvalidArgument, vectordb.KindOf(err))
		assert.Equal(t, 0, mem.Calls("LoadCollection"))
	})

	t.Run("load", func(t *testing.T) {
		mem := vectordbtest.New()
		mem.Fail("LoadCollection", vectordb.NewError("load_collection", vectordb.ErrUnavailable, errors.New("query node down")))

		_, err := EnsureCollection(ctx, mem, chunkSpec("kb", 8), defaultIndex)
		require.Error(t, err)
		assert.Equal(t, vectordb.KindUnavailable, vectordb.KindOf(err))
	})

	t.Run("invalid spec", func(t *testing.T) {
		mem := vectordbtest.New()
		_, err := EnsureCollection(ctx, mem, chunkSpec("kb", 0), defaultIndex)
		require.Error(t, err)
		assert.Equal(t, 0, mem.Calls("HasCollection"))
	})
}

func TestEnsurePartition(t *testing.T) {
	ctx := context.Background()
	mem := vectordbtest.New()
	mem.Seed(chunkSpec("kb", 4))

	first, err := EnsurePartition(ctx, mem, "kb", "tenant_2")
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.False(t, first.AlreadyExists)

	before, err := mem.ListPartitions(ctx, "kb")
	require.NoError(t, err)

	second, err := EnsurePartition(ctx, mem, "kb", "tenant_2")
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.True(t, second.AlreadyExists)

	after, err := mem.ListPartitions(ctx, "kb")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, mem.Calls("CreatePartition"))
}

func TestEnsurePartitionMissingCollection(t *testing.T) {
	mem := vectordbtest.New()

	_, err := EnsurePartition(context.Background(), mem, "absent", "tenant_2")
	require.Error(t, err)
	assert.True(t, vectordb.IsNotFound(err))
	assert.Contains(t, err.Error(), "collection not found: absent")
}

func TestHasPartitionFallsBackToListing(t *testing.T) {
	ctx := context.Background()
	mem := vectordbtest.New()
	mem.Seed(chunkSpec("kb", 4))
	require.NoError(t, mem.CreatePartition(ctx, "kb", "tenant_9"))

	mem.Fail("HasPartition", errors.New("unknown method HasPartition"))

	has, err := HasPartition(ctx, mem, "kb", "tenant_9")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = HasPartition(ctx, mem, "kb", "tenant_10")
	require.NoError(t, err)
	assert.False(t, has)
	assert.Equal(t, 2, mem.Calls("ListPartitions"))
}

func TestHasPartitionDoesNotMaskMissingCollection(t *testing.T) {
	mem := vectordbtest.New()

	_, err := HasPartition(context.Background(), mem, "absent", "tenant_1")
	require.Error(t, err)
	assert.True(t, vectordb.IsNotFound(err))
	assert.Equal(t, 0, mem.Calls("ListPartitions"))
}

func TestTenantPartition(t *testing.T) {
	assert.Equal(t, "tenant_42", TenantPartition(42))
}
