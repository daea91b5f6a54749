package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

func unsupportedPartitions(op string) error {
	return vectordb.NewError(op, vectordb.ErrUnsupported, fmt.Errorf("qdrant has no partitions"))
}

// ──────────────────────────────────────────────────────────────
// Collections
// ──────────────────────────────────────────────────────────────

func (a *Adapter) HasCollection(ctx context.Context, name string) (bool, error) {
	ok, err := a.api.CollectionExists(ctx, name)
	if err != nil {
		return false, TranslateError("has_collection", err)
	}
	return ok, nil
}

// ──────────────────────────────────────────────────────────────
// CreateCollection
// ──────────────────────────────────────────────────────────────
//
// CreateCollection creates a collection with a single unnamed dense vector
// and an integer payload index on tenant_id, the field every data-plane
// operation filters on. The distance is fixed at creation from spec.Metric.
func (a *Adapter) CreateCollection(ctx context.Context, spec vectordb.CollectionSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	req := &qdrant.CreateCollection{
		CollectionName: spec.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(spec.Dimension),
			Distance: toDistance(spec.Metric),
		}),
	}
	if spec.Shards > 0 {
		req.ShardNumber = qdrant.PtrOf(uint32(spec.Shards))
	}
	if err := a.api.CreateCollection(ctx, req); err != nil {
		return TranslateError("create_collection", err)
	}

	_, err := a.api.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: spec.Name,
		FieldName:      vectordb.FieldTenantID,
		FieldType:      qdrant.FieldType_FieldTypeInteger.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return TranslateError("create_collection", err)
	}

	a.logger.Info("created qdrant collection", nil, map[string]interface{}{
		"collection": spec.Name,
		"dimension":  spec.Dimension,
		"distance":   toDistance(spec.Metric).String(),
	})
	return nil
}

func (a *Adapter) DescribeCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	info, err := a.api.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, TranslateError("describe_collection", err)
	}
	size, distance := extractVectorDetails(info)
	m, ef := extractHnswParams(info)
	return &vectordb.Collection{
		Name:      name,
		Dimension: size,
		Schema: fmt.Sprintf("{name: %s, vector: {size: %d, distance: %s}, hnsw: {m: %d, ef_construct: %d}, points: %d, status: %s}",
			name, size, distance, m, ef, derefUint64(info.PointsCount), info.GetStatus().String()),
	}, nil
}

func (a *Adapter) DropCollection(ctx context.Context, name string) error {
	if err := a.api.DeleteCollection(ctx, name); err != nil {
		return TranslateError("drop_collection", err)
	}
	a.forgetCursors(name)
	a.logger.Info("dropped qdrant collection", nil, map[string]interface{}{"collection": name})
	return nil
}

func (a *Adapter) ListCollections(ctx context.Context) ([]string, error) {
	names, err := a.api.ListCollections(ctx)
	if err != nil {
		return nil, TranslateError("list_collections", err)
	}
	return names, nil
}

// CreateIndex applies the HNSW parameters to the collection's built-in
// index. When the collection already uses them the call reports
// vectordb.ErrAlreadySatisfied.
func (a *Adapter) CreateIndex(ctx context.Context, collection string, params vectordb.IndexParams) error {
	info, err := a.api.GetCollectionInfo(ctx, collection)
	if err != nil {
		return TranslateError("create_index", err)
	}
	m, ef := extractHnswParams(info)
	if m == uint64(params.M) && ef == uint64(params.EfConstruction) {
		return vectordb.NewError("create_index", vectordb.ErrAlreadySatisfied,
			fmt.Errorf("hnsw index on %s already uses m=%d ef_construct=%d", collection, m, ef))
	}

	err = a.api.UpdateCollection(ctx, &qdrant.UpdateCollection{
		CollectionName: collection,
		HnswConfig: &qdrant.HnswConfigDiff{
			M:           qdrant.PtrOf(uint64(params.M)),
			EfConstruct: qdrant.PtrOf(uint64(params.EfConstruction)),
		},
	})
	if err != nil {
		return TranslateError("create_index", err)
	}
	a.logger.Info("updated hnsw config", nil, map[string]interface{}{
		"collection":      collection,
		"m":               params.M,
		"ef_construction": params.EfConstruction,
	})
	return nil
}

// LoadCollection reports the collection as already loaded; Qdrant serves
// collections without an explicit load.
func (a *Adapter) LoadCollection(ctx context.Context, name string) error {
	ok, err := a.api.CollectionExists(ctx, name)
	if err != nil {
		return TranslateError("load_collection", err)
	}
	if !ok {
		return vectordb.NewError("load_collection", vectordb.ErrNotFound, fmt.Errorf("collection %s does not exist", name))
	}
	return vectordb.NewError("load_collection", vectordb.ErrAlreadySatisfied, nil)
}

// ──────────────────────────────────────────────────────────────
// Partitions
// ──────────────────────────────────────────────────────────────

func (a *Adapter) CreatePartition(context.Context, string, string) error {
	return unsupportedPartitions("create_partition")
}

func (a *Adapter) HasPartition(context.Context, string, string) (bool, error) {
	return false, unsupportedPartitions("has_partition")
}

func (a *Adapter) ListPartitions(context.Context, string) ([]string, error) {
	return nil, unsupportedPartitions("list_partitions")
}

// ──────────────────────────────────────────────────────────────
// Data
// ──────────────────────────────────────────────────────────────

// Insert upserts points and waits for the write to be applied.
// Unlike columnar engines, an existing id is overwritten.
func (a *Adapter) Insert(ctx context.Context, collection, partition string, cols *vectordb.Columns) (int, error) {
	if partition != "" {
		return 0, unsupportedPartitions("insert")
	}
	if err := cols.Validate(); err != nil {
		return 0, err
	}
	_, err := a.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         toPoints(cols),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, TranslateError("insert", err)
	}
	a.forgetCursors(collection)
	return cols.Len(), nil
}

// Flush is a no-op: writes are issued with wait=true.
func (a *Adapter) Flush(context.Context, string) error {
	return nil
}

func (a *Adapter) Delete(ctx context.Context, collection, partition string, filter *vectordb.FilterSet) error {
	if partition != "" {
		return unsupportedPartitions("delete")
	}
	if filter.IsEmpty() {
		return vectordb.NewError("delete", vectordb.ErrInvalidArgument, fmt.Errorf("delete requires a filter"))
	}
	qf, err := convertFilterSet(filter)
	if err != nil {
		return err
	}
	_, err = a.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelectorFilter(qf),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return TranslateError("delete", err)
	}
	a.forgetCursors(collection)
	return nil
}

// ──────────────────────────────────────────────────────────────
// Query
// ──────────────────────────────────────────────────────────────
//
// Query pages through points in ascending id order.
//
// Qdrant scrolls with an id cursor rather than a row offset. The adapter
// remembers, per collection and filter, the id where each returned page
// ends, so the usual sequence of offsets 0, n, 2n, ... resumes from the
// cursor. An offset that was never reached is served by scanning ids
// from the start.
func (a *Adapter) Query(ctx context.Context, req vectordb.QueryRequest) ([]vectordb.Row, error) {
	if len(req.Partitions) > 0 {
		return nil, unsupportedPartitions("query")
	}
	qf, err := convertFilterSet(req.Filter)
	if err != nil {
		return nil, err
	}

	key := cursorKey{collection: req.Collection, filter: req.Filter.String(), offset: req.Offset}
	start, err := a.resolveCursor(ctx, key, qf)
	if err != nil {
		return nil, err
	}
	if start == nil && req.Offset > 0 {
		return []vectordb.Row{}, nil
	}

	withVectors := len(req.OutputFields) == 0
	for _, f := range req.OutputFields {
		if f == vectordb.FieldVector {
			withVectors = true
		}
	}

	scroll := &qdrant.ScrollPoints{
		CollectionName: req.Collection,
		Filter:         qf,
		Offset:         start,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(withVectors),
	}
	if req.Limit > 0 {
		scroll.Limit = qdrant.PtrOf(uint32(req.Limit))
	}

	points, err := a.api.Scroll(ctx, scroll)
	if err != nil {
		return nil, TranslateError("query", err)
	}

	rows := make([]vectordb.Row, 0, len(points))
	for _, p := range points {
		rows = append(rows, rowFromPoint(p))
	}
	if n := len(rows); n > 0 {
		a.rememberCursor(cursorKey{
			collection: key.collection,
			filter:     key.filter,
			offset:     req.Offset + int64(n),
		}, uint64(rows[n-1].ID)+1)
	}
	return rows, nil
}

// resolveCursor returns the id to resume from for key.offset, or nil when
// the offset is zero or lies past the last point.
func (a *Adapter) resolveCursor(ctx context.Context, key cursorKey, qf *qdrant.Filter) (*qdrant.PointId, error) {
	if key.offset == 0 {
		return nil, nil
	}
	a.mu.Lock()
	id, ok := a.cursors[key]
	a.mu.Unlock()
	if ok {
		return qdrant.NewIDNum(id), nil
	}

	a.logger.Debug("qdrant cursor miss, scanning ids", nil, map[string]interface{}{
		"collection": key.collection,
		"offset":     key.offset,
	})
	points, err := a.api.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: key.collection,
		Filter:         qf,
		Limit:          qdrant.PtrOf(uint32(key.offset + 1)),
		WithPayload:    qdrant.NewWithPayload(false),
		WithVectors:    qdrant.NewWithVectors(false),
	})
	if err != nil {
		return nil, TranslateError("query", err)
	}
	if int64(len(points)) <= key.offset {
		return nil, nil
	}
	return points[key.offset].GetId(), nil
}

func (a *Adapter) rememberCursor(key cursorKey, next uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cursors[key] = next
}

func (a *Adapter) forgetCursors(collection string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for k := range a.cursors {
		if k.collection == collection {
			delete(a.cursors, k)
		}
	}
}

// Search runs a nearest-neighbour query. The reported Distance is the Qdrant
// score (similarity for Cosine and Dot, distance for Euclid).
func (a *Adapter) Search(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.Hit, error) {
	if len(req.Partitions) > 0 {
		return nil, unsupportedPartitions("search")
	}
	qf, err := convertFilterSet(req.Filter)
	if err != nil {
		return nil, err
	}

	q := &qdrant.QueryPoints{
		CollectionName: req.Collection,
		Query:          qdrant.NewQuery(req.Vector...),
		Filter:         qf,
		Limit:          qdrant.PtrOf(uint64(req.Limit)),
	}
	if req.Ef > 0 {
		q.Params = &qdrant.SearchParams{HnswEf: qdrant.PtrOf(uint64(req.Ef))}
	}

	points, err := a.api.Query(ctx, q)
	if err != nil {
		return nil, TranslateError("search", err)
	}

	hits := make([]vectordb.Hit, 0, len(points))
	for _, p := range points {
		hits = append(hits, vectordb.Hit{ID: int64(p.GetId().GetNum()), Distance: p.GetScore()})
	}
	return hits, nil
}

func (a *Adapter) Count(ctx context.Context, collection string) (int64, error) {
	n, err := a.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, TranslateError("count", err)
	}
	return int64(n), nil
}
