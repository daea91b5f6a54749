package vectordb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryKey(t *testing.T) {
	assert.Equal(t, int64(700000), PrimaryKey(7, 0))
	assert.Equal(t, int64(700002), PrimaryKey(7, 2))
	assert.Equal(t, int64(799999), PrimaryKey(7, MaxChunksPerDocument-1))
	assert.Less(t, PrimaryKey(7, MaxChunksPerDocument-1), PrimaryKey(8, 0))
}

func TestParseMetric(t *testing.T) {
	for in, want := range map[string]Metric{
		"":       MetricCosine,
		"cosine": MetricCosine,
		" L2 ":   MetricL2,
		"ip":     MetricIP,
		"COSINE": MetricCosine,
	} {
		got, err := ParseMetric(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMetric("hamming")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCollectionSpecValidate(t *testing.T) {
	assert.NoError(t, CollectionSpec{Name: "kb", Dimension: 3}.Validate())
	assert.ErrorIs(t, CollectionSpec{Dimension: 3}.Validate(), ErrInvalidArgument)
	assert.ErrorIs(t, CollectionSpec{Name: "kb"}.Validate(), ErrInvalidArgument)
}

func TestKindOf(t *testing.T) {
	cause := errors.New("rpc error: collection not found")

	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindNotFound, KindOf(NewError("describe_collection", ErrNotFound, cause)))
	assert.Equal(t, KindAlreadySatisfied, KindOf(NewError("create_index", ErrAlreadySatisfied, nil)))
	assert.Equal(t, KindUnavailable, KindOf(fmt.Errorf("connect: %w", NewError("connect", ErrUnavailable, cause))))
	assert.Equal(t, KindUnsupported, KindOf(NewError("create_partition", ErrUnsupported, nil)))
	assert.Equal(t, KindInternal, KindOf(cause))
}

func TestErrorUnwrapsKindAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewError("flush", ErrUnavailable, cause)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "flush: boom", err.Error())
	assert.Equal(t, "load_collection: already satisfied", NewError("load_collection", ErrAlreadySatisfied, nil).Error())
	assert.True(t, IsAlreadySatisfied(NewError("load_collection", ErrAlreadySatisfied, nil)))
	assert.False(t, IsNotFound(err))
}

func TestFilterSetString(t *testing.T) {
	assert.Equal(t, "", (*FilterSet)(nil).String())
	assert.Equal(t, "", NewFilterSet().String())
	assert.Equal(t, "tenant_id == 42", TenantFilter(42).String())
	assert.Equal(t, "id in [1, 2, 3]", IDsFilter(1, 2, 3).String())
	assert.Equal(t, "id >= 0", AllRowsFilter().String())

	lo, hi := int64(5), int64(9)
	fs := NewFilterSet(
		Must(NewMatch(FieldTenantID, 1), NewNumericRange(FieldChunkIndex, NumericRange{Gt: &lo, Lte: &hi})),
		MustNot(NewMatch(FieldDocumentID, 3)),
	)
	assert.Equal(t, "tenant_id == 1 && chunk_index > 5 && chunk_index <= 9 && not (document_id == 3)", fs.String())
}

func TestFilterSetMatches(t *testing.T) {
	row := Row{ID: 300001, TenantID: 7, DocumentID: 3, ChunkIndex: 1}

	assert.True(t, (*FilterSet)(nil).Matches(row))
	assert.True(t, TenantFilter(7).Matches(row))
	assert.False(t, TenantFilter(8).Matches(row))
	assert.True(t, IDsFilter(1, 300001).Matches(row))
	assert.False(t, IDsFilter(1, 2).Matches(row))
	assert.True(t, AllRowsFilter().Matches(row))
	assert.False(t, NewFilterSet(Must(NewMatch(FieldTenantID, 7)), MustNot(NewMatch(FieldDocumentID, 3))).Matches(row))
	assert.False(t, NewFilterSet(Must(NewMatch("unknown", 7))).Matches(row))
}

func TestColumns(t *testing.T) {
	rows := []Row{
		{ID: 100000, TenantID: 1, DocumentID: 1, ChunkIndex: 0, Vector: []float32{1, 0}},
		{ID: 100001, TenantID: 1, DocumentID: 1, ChunkIndex: 1, Vector: []float32{0, 1}},
		{ID: 100002, TenantID: 1, DocumentID: 1, ChunkIndex: 2, Vector: []float32{1, 1}},
	}
	cols := ColumnsFromRows(rows)

	require.NoError(t, cols.Validate())
	assert.Equal(t, 3, cols.Len())
	assert.Equal(t, 2, cols.Dim())
	assert.Equal(t, []int64{100000, 100001, 100002}, cols.IDs)
	assert.Equal(t, rows, cols.Rows())

	part := cols.Slice(1, 3)
	assert.Equal(t, 2, part.Len())
	assert.Equal(t, rows[1:], part.Rows())

	assert.Equal(t, 0, (*Columns)(nil).Len())
	assert.ErrorIs(t, (&Columns{}).Validate(), ErrInvalidArgument)

	cols.Vectors[2] = []float32{1}
	err := cols.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2 has dimension 1, expected 2")
}
