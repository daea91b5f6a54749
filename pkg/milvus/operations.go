package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

// ──────────────────────────────────────────────────────────────
// Collections
// ──────────────────────────────────────────────────────────────

func (a *Adapter) HasCollection(ctx context.Context, name string) (bool, error) {
	ok, err := a.api.HasCollection(ctx, name)
	if err != nil {
		return false, TranslateError("has_collection", err)
	}
	return ok, nil
}

// CreateCollection creates a collection with the fixed chunk schema.
// The primary key is supplied by the caller (no auto id).
func (a *Adapter) CreateCollection(ctx context.Context, spec vectordb.CollectionSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	shards := spec.Shards
	if shards <= 0 {
		shards = 1
	}

	if err := a.api.CreateCollection(ctx, buildSchema(spec), shards); err != nil {
		return TranslateError("create_collection", err)
	}
	a.logger.Info("created milvus collection", nil, map[string]interface{}{
		"collection":    spec.Name,
		"dimension":     spec.Dimension,
		"shards":        shards,
		"dynamic_field": spec.DynamicFields,
	})
	return nil
}

func (a *Adapter) DescribeCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	coll, err := a.api.DescribeCollection(ctx, name)
	if err != nil {
		return nil, TranslateError("describe_collection", err)
	}
	return collectionFromEntity(coll), nil
}

func (a *Adapter) DropCollection(ctx context.Context, name string) error {
	if err := a.api.DropCollection(ctx, name); err != nil {
		return TranslateError("drop_collection", err)
	}
	a.logger.Info("dropped milvus collection", nil, map[string]interface{}{"collection": name})
	return nil
}

func (a *Adapter) ListCollections(ctx context.Context) ([]string, error) {
	colls, err := a.api.ListCollections(ctx)
	if err != nil {
		return nil, TranslateError("list_collections", err)
	}
	names := make([]string, 0, len(colls))
	for _, c := range colls {
		names = append(names, c.Name)
	}
	return names, nil
}

// ──────────────────────────────────────────────────────────────
// CreateIndex
// ──────────────────────────────────────────────────────────────
//
// CreateIndex builds an HNSW index on the vector field.
//
// The existing indexes are described first: if one is present the call
// returns vectordb.ErrAlreadySatisfied without touching it. Only a
// "does not exist" answer from DescribeIndex leads to creation; any other
// describe failure is returned as is.
func (a *Adapter) CreateIndex(ctx context.Context, collection string, params vectordb.IndexParams) error {
	existing, err := a.api.DescribeIndex(ctx, collection, vectordb.FieldVector)
	switch {
	case err == nil && len(existing) > 0:
		return vectordb.NewError("create_index", vectordb.ErrAlreadySatisfied,
			fmt.Errorf("index %s already exists on %s.%s", existing[0].Name(), collection, vectordb.FieldVector))
	case err != nil:
		if tErr := TranslateError("describe_index", err); !vectordb.IsNotFound(tErr) {
			return tErr
		}
	}

	metric := params.Metric
	if metric == "" {
		metric = vectordb.MetricCosine
	}
	idx, err := entity.NewIndexHNSW(entity.MetricType(metric), params.M, params.EfConstruction)
	if err != nil {
		return vectordb.NewError("create_index", vectordb.ErrInvalidArgument, err)
	}
	if err := a.api.CreateIndex(ctx, collection, vectordb.FieldVector, idx, false); err != nil {
		return TranslateError("create_index", err)
	}

	a.logger.Info("created hnsw index", nil, map[string]interface{}{
		"collection":      collection,
		"metric":          string(metric),
		"m":               params.M,
		"ef_construction": params.EfConstruction,
	})
	return nil
}

// LoadCollection loads a collection into query nodes, reporting
// vectordb.ErrAlreadySatisfied when the load state is already "loaded".
func (a *Adapter) LoadCollection(ctx context.Context, name string) error {
	state, err := a.api.GetLoadState(ctx, name, nil)
	if err != nil {
		return TranslateError("load_collection", err)
	}
	switch state {
	case entity.LoadStateLoaded:
		return vectordb.NewError("load_collection", vectordb.ErrAlreadySatisfied, nil)
	case entity.LoadStateNotExist:
		return vectordb.NewError("load_collection", vectordb.ErrNotFound, fmt.Errorf("collection %s does not exist", name))
	}

	if err := a.api.LoadCollection(ctx, name, false); err != nil {
		return TranslateError("load_collection", err)
	}
	a.logger.Debug("loaded milvus collection", nil, map[string]interface{}{"collection": name})
	return nil
}

// ──────────────────────────────────────────────────────────────
// Partitions
// ──────────────────────────────────────────────────────────────

func (a *Adapter) CreatePartition(ctx context.Context, collection, partition string) error {
	if err := a.api.CreatePartition(ctx, collection, partition); err != nil {
		return TranslateError("create_partition", err)
	}
	a.logger.Info("created milvus partition", nil, map[string]interface{}{
		"collection": collection,
		"partition":  partition,
	})
	return nil
}

func (a *Adapter) HasPartition(ctx context.Context, collection, partition string) (bool, error) {
	ok, err := a.api.HasPartition(ctx, collection, partition)
	if err != nil {
		return false, TranslateError("has_partition", err)
	}
	return ok, nil
}

func (a *Adapter) ListPartitions(ctx context.Context, collection string) ([]string, error) {
	parts, err := a.api.ShowPartitions(ctx, collection)
	if err != nil {
		return nil, TranslateError("list_partitions", err)
	}
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, p.Name)
	}
	return names, nil
}

// ──────────────────────────────────────────────────────────────
// Data
// ──────────────────────────────────────────────────────────────

// Insert writes one column batch. Rows are not deduplicated: inserting an
// existing primary key adds a second entity.
func (a *Adapter) Insert(ctx context.Context, collection, partition string, cols *vectordb.Columns) (int, error) {
	if err := cols.Validate(); err != nil {
		return 0, err
	}
	ids, err := a.api.Insert(ctx, collection, partition, toEntityColumns(cols)...)
	if err != nil {
		return 0, TranslateError("insert", err)
	}
	if ids == nil {
		return cols.Len(), nil
	}
	return ids.Len(), nil
}

func (a *Adapter) Flush(ctx context.Context, collection string) error {
	if err := a.api.Flush(ctx, collection, false); err != nil {
		return TranslateError("flush", err)
	}
	return nil
}

// Delete removes every entity matching the filter expression.
// An empty filter is rejected so a missing condition never wipes a collection.
func (a *Adapter) Delete(ctx context.Context, collection, partition string, filter *vectordb.FilterSet) error {
	if filter.IsEmpty() {
		return vectordb.NewError("delete", vectordb.ErrInvalidArgument, fmt.Errorf("delete requires a filter"))
	}
	if err := a.api.Delete(ctx, collection, partition, filter.String()); err != nil {
		return TranslateError("delete", err)
	}
	return nil
}

func (a *Adapter) Query(ctx context.Context, req vectordb.QueryRequest) ([]vectordb.Row, error) {
	fields := req.OutputFields
	if len(fields) == 0 {
		fields = vectordb.AllFields
	}
	var opts []client.SearchQueryOptionFunc
	if req.Limit > 0 {
		opts = append(opts, client.WithLimit(req.Limit))
	}
	if req.Offset > 0 {
		opts = append(opts, client.WithOffset(req.Offset))
	}

	rs, err := a.api.Query(ctx, req.Collection, req.Partitions, req.Filter.String(), fields, opts...)
	if err != nil {
		return nil, TranslateError("query", err)
	}
	rows, err := rowsFromResultSet(rs)
	if err != nil {
		return nil, vectordb.NewError("query", nil, err)
	}
	return rows, nil
}

// ──────────────────────────────────────────────────────────────
// Search
// ──────────────────────────────────────────────────────────────
//
// Search runs a single-vector HNSW search. The reported Distance is the raw
// score Milvus returns for the metric (similarity for COSINE and IP, squared
// distance for L2).
func (a *Adapter) Search(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.Hit, error) {
	metric := req.Metric
	if metric == "" {
		metric = vectordb.MetricCosine
	}
	sp, err := entity.NewIndexHNSWSearchParam(req.Ef)
	if err != nil {
		return nil, vectordb.NewError("search", vectordb.ErrInvalidArgument, err)
	}

	results, err := a.api.Search(ctx,
		req.Collection,
		req.Partitions,
		req.Filter.String(),
		[]string{},
		[]entity.Vector{entity.FloatVector(req.Vector)},
		vectordb.FieldVector,
		entity.MetricType(metric),
		req.Limit,
		sp,
	)
	if err != nil {
		return nil, TranslateError("search", err)
	}
	if len(results) == 0 {
		return []vectordb.Hit{}, nil
	}

	hits, err := hitsFromResult(results[0])
	if err != nil {
		return nil, TranslateError("search", err)
	}
	return hits, nil
}

// Count returns the row_count statistic of a collection.
func (a *Adapter) Count(ctx context.Context, collection string) (int64, error) {
	stats, err := a.api.GetCollectionStatistics(ctx, collection)
	if err != nil {
		return 0, TranslateError("count", err)
	}
	var n int64
	if _, err := fmt.Sscan(stats["row_count"], &n); err != nil {
		return 0, vectordb.NewError("count", nil, fmt.Errorf("unexpected row_count %q: %w", stats["row_count"], err))
	}
	return n, nil
}
