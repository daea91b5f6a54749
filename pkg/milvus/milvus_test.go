package milvus

import (
	"context"
	"errors"
	"testing"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}

// fakeAPI overrides the subset of client.Client the adapter calls.
// Calling any other method panics on the nil embedded interface.
type fakeAPI struct {
	client.Client

	indexes      []entity.Index
	describeErr  error
	createdIndex entity.Index
	loadState    entity.LoadState
	loadCalls    int
	deleteExpr   string
	queryExpr    string
	queryFields  []string
	queryOpts    int
	resultSet    client.ResultSet
	searchMetric entity.MetricType
	searchTopK   int
	searchResult []client.SearchResult
	stats        map[string]string
	closed       bool
}

func (f *fakeAPI) DescribeIndex(_ context.Context, _ string, _ string, _ ...client.IndexOption) ([]entity.Index, error) {
	return f.indexes, f.describeErr
}

func (f *fakeAPI) CreateIndex(_ context.Context, _ string, _ string, idx entity.Index, _ bool, _ ...client.IndexOption) error {
	f.createdIndex = idx
	return nil
}

func (f *fakeAPI) GetLoadState(_ context.Context, _ string, _ []string) (entity.LoadState, error) {
	return f.loadState, nil
}

func (f *fakeAPI) LoadCollection(_ context.Context, _ string, _ bool, _ ...client.LoadCollectionOption) error {
	f.loadCalls++
	return nil
}

func (f *fakeAPI) Delete(_ context.Context, _ string, _ string, expr string) error {
	f.deleteExpr = expr
	return nil
}

func (f *fakeAPI) Query(_ context.Context, _ string, _ []string, expr string, fields []string, opts ...client.SearchQueryOptionFunc) (client.ResultSet, error) {
	f.queryExpr = expr
	f.queryFields = fields
	f.queryOpts = len(opts)
	return f.resultSet, nil
}

func (f *fakeAPI) Search(_ context.Context, _ string, _ []string, _ string, _ []string, _ []entity.Vector, _ string, metric entity.MetricType, topK int, _ entity.SearchParam, _ ...client.SearchQueryOptionFunc) ([]client.SearchResult, error) {
	f.searchMetric = metric
	f.searchTopK = topK
	return f.searchResult, nil
}

func (f *fakeAPI) GetCollectionStatistics(_ context.Context, _ string) (map[string]string, error) {
	return f.stats, nil
}

func (f *fakeAPI) Close() error {
	f.closed = true
	return nil
}

func newTestAdapter(f *fakeAPI) *Adapter {
	return newAdapter(f, DefaultConfig(), nopLogger{})
}

func TestConfigAddress(t *testing.T) {
	assert.Equal(t, "127.0.0.1:19530", DefaultConfig().Address())
	assert.Equal(t, "milvus:1234", DefaultConfig().WithHost("milvus").WithPort(1234).Address())
	assert.Equal(t, "https://cloud:443", DefaultConfig().WithHost("ignored").WithURI("https://cloud:443").Address())
}

func TestTranslateError(t *testing.T) {
	cases := map[string]struct {
		err  error
		kind vectordb.Kind
	}{
		"grpc unavailable":    {status.Error(codes.Unavailable, "connection refused"), vectordb.KindUnavailable},
		"deadline":            {context.DeadlineExceeded, vectordb.KindUnavailable},
		"collection missing":  {errors.New("collection kb_chunks_v1 does not exist"), vectordb.KindNotFound},
		"index missing":       {errors.New("index doesn't exist, collectionID 1"), vectordb.KindNotFound},
		"index exists":        {errors.New("at most one distinct index is allowed per field"), vectordb.KindAlreadySatisfied},
		"bad expression":      {errors.New("cannot parse expression: tenant_id ==="), vectordb.KindInvalidArgument},
		"unknown server fail": {errors.New("segment flush failed"), vectordb.KindInternal},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := TranslateError("op", tc.err)
			require.Error(t, err)
			assert.Equal(t, tc.kind, vectordb.KindOf(err))
			assert.ErrorIs(t, err, tc.err)
		})
	}

	assert.NoError(t, TranslateError("op", nil))

	already := vectordb.NewError("x", vectordb.ErrNotFound, nil)
	assert.Same(t, already, TranslateError("op", already))
}

func TestCreateIndexAlreadySatisfied(t *testing.T) {
	idx, err := entity.NewIndexHNSW(entity.COSINE, 16, 200)
	require.NoError(t, err)
	f := &fakeAPI{indexes: []entity.Index{idx}}

	err = newTestAdapter(f).CreateIndex(context.Background(), "kb", vectordb.IndexParams{Metric: vectordb.MetricCosine, M: 16, EfConstruction: 200})
	assert.True(t, vectordb.IsAlreadySatisfied(err))
	assert.Nil(t, f.createdIndex)
}

func TestCreateIndexWhenMissing(t *testing.T) {
	f := &fakeAPI{describeErr: errors.New("index doesn't exist, collectionID 1")}

	err := newTestAdapter(f).CreateIndex(context.Background(), "kb", vectordb.IndexParams{Metric: vectordb.MetricL2, M: 16, EfConstruction: 256})
	require.NoError(t, err)
	require.NotNil(t, f.createdIndex)
	assert.Equal(t, entity.HNSW, f.createdIndex.IndexType())
}

func TestCreateIndexPropagatesDescribeFailure(t *testing.T) {
	f := &fakeAPI{describeErr: status.Error(codes.Unavailable, "down")}

	err := newTestAdapter(f).CreateIndex(context.Background(), "kb", vectordb.IndexParams{M: 16, EfConstruction: 200})
	assert.ErrorIs(t, err, vectordb.ErrUnavailable)
	assert.Nil(t, f.createdIndex)
}

func TestLoadCollectionStates(t *testing.T) {
	ctx := context.Background()

	f := &fakeAPI{loadState: entity.LoadStateLoaded}
	assert.True(t, vectordb.IsAlreadySatisfied(newTestAdapter(f).LoadCollection(ctx, "kb")))
	assert.Zero(t, f.loadCalls)

	f = &fakeAPI{loadState: entity.LoadStateNotLoad}
	require.NoError(t, newTestAdapter(f).LoadCollection(ctx, "kb"))
	assert.Equal(t, 1, f.loadCalls)

	f = &fakeAPI{loadState: entity.LoadStateNotExist}
	assert.ErrorIs(t, newTestAdapter(f).LoadCollection(ctx, "kb"), vectordb.ErrNotFound)
}

func TestDeleteRendersExpression(t *testing.T) {
	f := &fakeAPI{}
	a := newTestAdapter(f)

	require.NoError(t, a.Delete(context.Background(), "kb", "", vectordb.TenantFilter(5)))
	assert.Equal(t, "tenant_id == 5", f.deleteExpr)

	require.NoError(t, a.Delete(context.Background(), "kb", "", vectordb.IDsFilter(1, 2)))
	assert.Equal(t, "id in [1, 2]", f.deleteExpr)

	assert.ErrorIs(t, a.Delete(context.Background(), "kb", "", nil), vectordb.ErrInvalidArgument)
}

func TestQueryConvertsColumns(t *testing.T) {
	f := &fakeAPI{resultSet: client.ResultSet{
		entity.NewColumnInt64(vectordb.FieldID, []int64{100000, 100001}),
		entity.NewColumnInt64(vectordb.FieldTenantID, []int64{1, 1}),
		entity.NewColumnInt64(vectordb.FieldDocumentID, []int64{1, 1}),
		entity.NewColumnInt64(vectordb.FieldChunkIndex, []int64{0, 1}),
		entity.NewColumnFloatVector(vectordb.FieldVector, 2, [][]float32{{1, 0}, {0, 1}}),
	}}

	rows, err := newTestAdapter(f).Query(context.Background(), vectordb.QueryRequest{
		Collection: "kb",
		Filter:     vectordb.AllRowsFilter(),
		Limit:      10000,
		Offset:     10000,
	})
	require.NoError(t, err)
	assert.Equal(t, "id >= 0", f.queryExpr)
	assert.Equal(t, vectordb.AllFields, f.queryFields)
	assert.Equal(t, 2, f.queryOpts)
	assert.Equal(t, []vectordb.Row{
		{ID: 100000, TenantID: 1, DocumentID: 1, ChunkIndex: 0, Vector: []float32{1, 0}},
		{ID: 100001, TenantID: 1, DocumentID: 1, ChunkIndex: 1, Vector: []float32{0, 1}},
	}, rows)
}

func TestQueryIDsOnly(t *testing.T) {
	f := &fakeAPI{resultSet: client.ResultSet{entity.NewColumnInt64(vectordb.FieldID, []int64{7, 8, 9})}}

	rows, err := newTestAdapter(f).Query(context.Background(), vectordb.QueryRequest{
		Collection:   "kb",
		Filter:       vectordb.TenantFilter(3),
		OutputFields: []string{vectordb.FieldID},
		Limit:        10000,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, 1, f.queryOpts)
	assert.Nil(t, rows[0].Vector)
}

func TestSearchReturnsRawScores(t *testing.T) {
	f := &fakeAPI{searchResult: []client.SearchResult{{
		ResultCount: 2,
		IDs:         entity.NewColumnInt64(vectordb.FieldID, []int64{300000, 300001}),
		Scores:      []float32{0.9, 0.4},
	}}}

	hits, err := newTestAdapter(f).Search(context.Background(), vectordb.SearchRequest{
		Collection: "kb",
		Vector:     []float32{0.1, 0.2},
		Filter:     vectordb.TenantFilter(3),
		Limit:      10,
		Ef:         96,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MetricType("COSINE"), f.searchMetric)
	assert.Equal(t, 10, f.searchTopK)
	assert.Equal(t, []vectordb.Hit{{ID: 300000, Distance: 0.9}, {ID: 300001, Distance: 0.4}}, hits)
}

func TestCountParsesRowCount(t *testing.T) {
	f := &fakeAPI{stats: map[string]string{"row_count": "42"}}

	n, err := newTestAdapter(f).Count(context.Background(), "kb")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestBuildSchema(t *testing.T) {
	schema := buildSchema(vectordb.CollectionSpec{Name: "kb", Dimension: 3072, Description: "KB chunks vectors", DynamicFields: true})

	require.Len(t, schema.Fields, 5)
	assert.Equal(t, "kb", schema.CollectionName)
	assert.True(t, schema.EnableDynamicField)
	assert.False(t, schema.AutoID)
	assert.True(t, schema.Fields[0].PrimaryKey)
	assert.Equal(t, vectordb.FieldVector, schema.Fields[4].Name)
	assert.Equal(t, "3072", schema.Fields[4].TypeParams["dim"])

	desc := collectionFromEntity(&entity.Collection{Name: "kb", Schema: schema})
	assert.Equal(t, 3072, desc.Dimension)
	assert.True(t, desc.DynamicFields)
	assert.Contains(t, desc.Schema, "(dim=3072)")
	assert.Contains(t, desc.Schema, "enable_dynamic_field: true")
}

func TestCloseIsIdempotent(t *testing.T) {
	f := &fakeAPI{}
	a := newTestAdapter(f)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	assert.True(t, f.closed)
}
