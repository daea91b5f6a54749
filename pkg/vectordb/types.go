package vectordb

import (
	"fmt"
	"strings"
)

// Field names of the fixed chunk schema.
const (
	FieldID         = "id"
	FieldTenantID   = "tenant_id"
	FieldDocumentID = "document_id"
	FieldChunkIndex = "chunk_index"
	FieldVector     = "vector"
)

// ScalarFields lists the int64 fields of the schema in declaration order.
var ScalarFields = []string{FieldID, FieldTenantID, FieldDocumentID, FieldChunkIndex}

// AllFields lists every field of the schema in declaration order.
var AllFields = []string{FieldID, FieldTenantID, FieldDocumentID, FieldChunkIndex, FieldVector}

// MaxChunksPerDocument bounds the chunk index so that derived primary keys
// of different documents never collide.
const MaxChunksPerDocument = 100000

// PrimaryKey derives the row id of a chunk.
func PrimaryKey(documentID, chunkIndex int64) int64 {
	return documentID*MaxChunksPerDocument + chunkIndex
}

// Metric is the distance metric of the similarity index.
type Metric string

const (
	MetricCosine Metric = "COSINE"
	MetricL2     Metric = "L2"
	MetricIP     Metric = "IP"
)

// ParseMetric normalises a metric name (case-insensitive).
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToUpper(strings.TrimSpace(s))); m {
	case MetricCosine, MetricL2, MetricIP:
		return m, nil
	case "":
		return MetricCosine, nil
	default:
		return "", NewError("parse_metric", ErrInvalidArgument, fmt.Errorf("unknown metric %q (want COSINE, L2 or IP)", s))
	}
}

// HigherIsCloser reports whether larger scores mean closer vectors.
func (m Metric) HigherIsCloser() bool {
	return m != MetricL2
}

// CollectionSpec describes a collection to create.
type CollectionSpec struct {
	Name          string
	Dimension     int
	Description   string
	Shards        int32
	DynamicFields bool

	// Metric is only consumed by engines that fix the distance at creation time.
	Metric Metric
}

// Validate checks the spec before it is sent to the database.
func (s CollectionSpec) Validate() error {
	if s.Name == "" {
		return NewError("create_collection", ErrInvalidArgument, fmt.Errorf("collection name cannot be empty"))
	}
	if s.Dimension <= 0 {
		return NewError("create_collection", ErrInvalidArgument, fmt.Errorf("dimension must be positive, got %d", s.Dimension))
	}
	return nil
}

// IndexParams configures the HNSW similarity index.
type IndexParams struct {
	Metric         Metric
	M              int
	EfConstruction int
}

// Collection contains metadata about an existing collection.
type Collection struct {
	Name          string `json:"name"`
	Dimension     int    `json:"dimension"`
	DynamicFields bool   `json:"enable_dynamic_field"`
	Description   string `json:"description"`

	// Schema is a human-readable rendering of the schema.
	Schema string `json:"schema"`
}

// Row is one stored chunk vector with its metadata.
type Row struct {
	ID         int64     `json:"id"`
	TenantID   int64     `json:"tenant_id"`
	DocumentID int64     `json:"document_id"`
	ChunkIndex int64     `json:"chunk_index"`
	Vector     []float32 `json:"vector"`
}

// Int64Field returns the value of a scalar field by name.
func (r Row) Int64Field(name string) (int64, bool) {
	switch name {
	case FieldID:
		return r.ID, true
	case FieldTenantID:
		return r.TenantID, true
	case FieldDocumentID:
		return r.DocumentID, true
	case FieldChunkIndex:
		return r.ChunkIndex, true
	}
	return 0, false
}

// QueryRequest is a scalar query with offset pagination.
type QueryRequest struct {
	Collection   string
	Partitions   []string
	Filter       *FilterSet
	OutputFields []string
	Limit        int64
	Offset       int64
}

// SearchRequest is a single-vector similarity search.
type SearchRequest struct {
	Collection string
	Partitions []string
	Vector     []float32
	Filter     *FilterSet
	Limit      int
	Metric     Metric

	// Ef is the HNSW search breadth; it must be at least Limit.
	Ef int
}

// Hit is one search result as reported by the engine.
type Hit struct {
	ID       int64   `json:"id"`
	Distance float32 `json:"distance"`
}
