package bridge

import (
	"context"
	"slices"
	"time"

	"github.com/Aleph-Alpha/vectorbridge/internal/provision"
	"github.com/Aleph-Alpha/vectorbridge/internal/result"
	"github.com/Aleph-Alpha/vectorbridge/internal/telemetry"
	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

const (
	// DeleteBatchSize is the most ids one delete expression may carry.
	DeleteBatchSize = 16384

	// CountCap bounds count_by_tenant. Tenants with more rows report the cap.
	CountCap = 10000

	// efHeadroom is added to the limit so the HNSW breadth always exceeds it.
	efHeadroom = 10
)

// Settings are the dispatcher's knobs taken from config.CollectionConfig.
type Settings struct {
	Metric      vectordb.Metric
	MinSearchEf int
	Timeout     time.Duration
}

// Dispatcher runs one validated Request against a vectordb.Service.
type Dispatcher struct {
	svc       vectordb.Service
	settings  Settings
	telemetry *telemetry.Telemetry
}

// NewDispatcher builds a Dispatcher.
func NewDispatcher(svc vectordb.Service, settings Settings, tel *telemetry.Telemetry) *Dispatcher {
	if settings.Metric == "" {
		settings.Metric = vectordb.MetricCosine
	}
	return &Dispatcher{svc: svc, settings: settings, telemetry: tel}
}

// Dispatch validates req and runs it. Every outcome, including a validation
// failure, comes back as a Result.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) result.Result {
	return d.telemetry.Run(ctx, req.Operation, req.Attributes(), func(ctx context.Context) result.Result {
		if err := req.Validate(); err != nil {
			return result.Failure(err)
		}
		if d.settings.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.settings.Timeout)
			defer cancel()
		}
		return d.run(ctx, req)
	})
}

func (d *Dispatcher) run(ctx context.Context, req *Request) result.Result {
	switch req.Operation {
	case OpSearch:
		return d.search(ctx, req)
	case OpUpsert:
		return d.upsert(ctx, req)
	case OpDeleteByIDs:
		return d.deleteByIDs(ctx, req)
	case OpDeleteByTenant:
		return d.deleteByTenant(ctx, req)
	case OpCountByTenant:
		return d.countByTenant(ctx, req)
	case OpHealth:
		return d.health(ctx, req)
	case OpCreatePartition:
		return d.createPartition(ctx, req)
	case OpHasPartition:
		return d.hasPartition(ctx, req)
	default:
		return result.Failure(result.Invalid("Unknown operation: %s", req.Operation))
	}
}

// SearchHit is one ranked result.
type SearchHit struct {
	ID       int64   `json:"id"`
	Distance float32 `json:"distance"`
	Score    float32 `json:"score"`
}

type searchPayload struct {
	Hits []SearchHit `json:"hits"`
}

// SearchEf is the HNSW breadth used for a search returning limit hits.
func SearchEf(minEf, limit int) int {
	return max(minEf, limit+efHeadroom)
}

func (d *Dispatcher) search(ctx context.Context, req *Request) result.Result {
	if err := d.load(ctx, req.Collection); err != nil {
		return result.Failure(err)
	}

	sr := vectordb.SearchRequest{
		Collection: req.Collection,
		Vector:     req.QueryVector,
		Filter:     vectordb.TenantFilter(int64(req.TenantID)),
		Limit:      int(req.Limit),
		Metric:     d.settings.Metric,
		Ef:         SearchEf(d.settings.MinSearchEf, int(req.Limit)),
	}
	if req.PartitionName != "" {
		sr.Partitions = []string{req.PartitionName}
	}

	hits, err := d.svc.Search(ctx, sr)
	if err != nil {
		return result.Failure(err)
	}

	out := make([]SearchHit, len(hits))
	for i, h := range hits {
		out[i] = SearchHit{ID: h.ID, Distance: h.Distance, Score: 1 - h.Distance}
	}
	return result.Success(searchPayload{Hits: out})
}

type upsertPayload struct {
	InsertedCount int `json:"inserted_count"`
}

// ChunkColumns lays out the vectors of one document as rows keyed by
// PrimaryKey(documentID, i) with chunk index i.
func ChunkColumns(tenantID, documentID int64, vectors [][]float32) *vectordb.Columns {
	rows := make([]vectordb.Row, len(vectors))
	for i, v := range vectors {
		rows[i] = vectordb.Row{
			ID:         vectordb.PrimaryKey(documentID, int64(i)),
			TenantID:   tenantID,
			DocumentID: documentID,
			ChunkIndex: int64(i),
			Vector:     v,
		}
	}
	return vectordb.ColumnsFromRows(rows)
}

func (d *Dispatcher) upsert(ctx context.Context, req *Request) result.Result {
	cols := ChunkColumns(int64(req.TenantID), int64(req.DocumentID), req.Vectors)

	if _, err := d.svc.Insert(ctx, req.Collection, req.PartitionName, cols); err != nil {
		return result.Failure(err)
	}
	if err := d.svc.Flush(ctx, req.Collection); err != nil {
		return result.Failure(err)
	}
	return result.Success(upsertPayload{InsertedCount: cols.Len()})
}

type deletePayload struct {
	DeletedCount int `json:"deleted_count"`
}

func (d *Dispatcher) deleteByIDs(ctx context.Context, req *Request) result.Result {
	ids := toInt64s(req.PrimaryIDs)

	deleted := 0
	for batch := range slices.Chunk(ids, DeleteBatchSize) {
		if err := d.svc.Delete(ctx, req.Collection, "", vectordb.IDsFilter(batch...)); err != nil {
			return result.FailureWith(err, deletePayload{DeletedCount: deleted})
		}
		deleted += len(batch)
	}

	if err := d.svc.Flush(ctx, req.Collection); err != nil {
		return result.FailureWith(err, deletePayload{DeletedCount: deleted})
	}
	return result.Success(deletePayload{DeletedCount: deleted})
}

func (d *Dispatcher) deleteByTenant(ctx context.Context, req *Request) result.Result {
	if err := d.svc.Delete(ctx, req.Collection, "", vectordb.TenantFilter(int64(req.TenantID))); err != nil {
		return result.Failure(err)
	}
	if err := d.svc.Flush(ctx, req.Collection); err != nil {
		return result.Failure(err)
	}
	return result.Success(nil)
}

type countPayload struct {
	Count int `json:"count"`
}

func (d *Dispatcher) countByTenant(ctx context.Context, req *Request) result.Result {
	if err := d.load(ctx, req.Collection); err != nil {
		return result.Failure(err)
	}

	rows, err := d.svc.Query(ctx, vectordb.QueryRequest{
		Collection:   req.Collection,
		Filter:       vectordb.TenantFilter(int64(req.TenantID)),
		OutputFields: []string{vectordb.FieldID},
		Limit:        CountCap,
	})
	if err != nil {
		return result.Failure(err)
	}
	return result.Success(countPayload{Count: len(rows)})
}

// CollectionInfo is the health report of the target collection.
type CollectionInfo struct {
	NumEntities int64  `json:"num_entities"`
	Schema      string `json:"schema"`
}

type healthPayload struct {
	Connected        bool     `json:"connected"`
	Collections      []string `json:"collections"`
	CollectionExists bool     `json:"collection_exists"`

	// CollectionInfo is an empty object when the collection does not exist.
	CollectionInfo interface{} `json:"collection_info,omitempty"`
}

// HealthFailure is the result of a health check that could not reach the
// database at all.
func HealthFailure(err error) result.Result {
	return result.FailureWith(err, struct {
		Connected bool `json:"connected"`
	}{})
}

func (d *Dispatcher) health(ctx context.Context, req *Request) result.Result {
	collections, err := d.svc.ListCollections(ctx)
	if err != nil {
		return HealthFailure(err)
	}

	payload := healthPayload{
		Connected:        true,
		Collections:      collections,
		CollectionExists: slices.Contains(collections, req.Collection),
		CollectionInfo:   struct{}{},
	}
	if payload.Collections == nil {
		payload.Collections = []string{}
	}
	if !payload.CollectionExists {
		return result.Success(payload)
	}

	n, err := d.svc.Count(ctx, req.Collection)
	if err != nil {
		return result.FailureWith(err, payload)
	}
	desc, err := d.svc.DescribeCollection(ctx, req.Collection)
	if err != nil {
		return result.FailureWith(err, payload)
	}
	payload.CollectionInfo = &CollectionInfo{NumEntities: n, Schema: desc.Schema}
	return result.Success(payload)
}

func (d *Dispatcher) createPartition(ctx context.Context, req *Request) result.Result {
	report, err := provision.EnsurePartition(ctx, d.svc, req.Collection, req.PartitionName)
	if err != nil {
		return result.Failure(err)
	}
	return result.Success(report)
}

type hasPartitionPayload struct {
	Exists     bool     `json:"exists"`
	Partitions []string `json:"partitions"`
}

func (d *Dispatcher) hasPartition(ctx context.Context, req *Request) result.Result {
	partitions, err := d.svc.ListPartitions(ctx, req.Collection)
	if err != nil {
		return result.Failure(err)
	}
	if partitions == nil {
		partitions = []string{}
	}
	return result.Success(hasPartitionPayload{
		Exists:     slices.Contains(partitions, req.PartitionName),
		Partitions: partitions,
	})
}

func (d *Dispatcher) load(ctx context.Context, collection string) error {
	if err := d.svc.LoadCollection(ctx, collection); err != nil && !vectordb.IsAlreadySatisfied(err) {
		return err
	}
	return nil
}
